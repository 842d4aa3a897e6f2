package metrics

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestCacheSetGet(t *testing.T) {
	c := NewCache(50 * time.Millisecond)

	_, ok := c.Get(1)
	require.False(t, ok)

	c.Set(1, Snapshot{WinRate: 0.6})

	snap, ok := c.Get(1)
	require.True(t, ok)
	require.Equal(t, 0.6, snap.WinRate)
}

func TestCacheExpires(t *testing.T) {
	c := NewCache(20 * time.Millisecond)
	c.Set(1, Snapshot{WinRate: 0.6})

	time.Sleep(40 * time.Millisecond)

	_, ok := c.Get(1)
	require.False(t, ok)
}

func TestCacheInvalidate(t *testing.T) {
	c := NewCache(time.Minute)
	c.Set(1, Snapshot{WinRate: 0.6})
	c.Invalidate(1)

	_, ok := c.Get(1)
	require.False(t, ok)
}

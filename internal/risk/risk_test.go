package risk

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func TestRiskMonotonicity(t *testing.T) {
	tr := NewTracker(decimal.NewFromFloat(500), 30)
	now := time.Now().UTC()

	require.False(t, tr.IsStrategyPaused("s1", now))

	tr.RecordClose("s1", decimal.NewFromFloat(-600), now)
	require.True(t, tr.IsStrategyPaused("s1", now))

	// Every subsequent signal that same UTC day stays rejected.
	require.True(t, tr.IsStrategyPaused("s1", now.Add(time.Hour)))
}

func TestRiskResetsOnNewDay(t *testing.T) {
	tr := NewTracker(decimal.NewFromFloat(100), 30)
	now := time.Now().UTC()

	tr.RecordClose("s1", decimal.NewFromFloat(-200), now)
	require.True(t, tr.IsStrategyPaused("s1", now))

	nextDay := now.AddDate(0, 0, 1)
	require.False(t, tr.IsStrategyPaused("s1", nextDay))
}

// Cooldown window property: a losing close at t rejects signals in
// (t, t+cooldown).
func TestCooldownWindow(t *testing.T) {
	tr := NewTracker(decimal.NewFromFloat(100000), 30)
	lossTime := time.Now().UTC()

	tr.RecordClose("s1", decimal.NewFromFloat(-10), lossTime)

	require.True(t, tr.IsInCooldown("s1", lossTime.Add(5*time.Minute)))
	require.False(t, tr.IsInCooldown("s1", lossTime.Add(31*time.Minute)))
}

func TestWinsOffsetLosses(t *testing.T) {
	tr := NewTracker(decimal.NewFromFloat(50), 30)
	now := time.Now().UTC()

	tr.RecordClose("s1", decimal.NewFromFloat(-60), now)
	tr.RecordClose("s1", decimal.NewFromFloat(40), now)

	require.False(t, tr.IsStrategyPaused("s1", now))
}

func TestMaxPositionsExceeded(t *testing.T) {
	require.True(t, MaxPositionsExceeded(3, 3))
	require.False(t, MaxPositionsExceeded(2, 3))
}

func TestMaxExposureExceeded(t *testing.T) {
	equity := decimal.NewFromFloat(10000)
	open := decimal.NewFromFloat(4000)
	newPos := decimal.NewFromFloat(1500)

	require.True(t, MaxExposureExceeded(open, newPos, equity, 0.5))
	require.False(t, MaxExposureExceeded(open, decimal.NewFromFloat(500), equity, 0.5))
}

func TestPerStrategyIndependence(t *testing.T) {
	tr := NewTracker(decimal.NewFromFloat(50), 30)
	now := time.Now().UTC()

	tr.RecordClose("s1", decimal.NewFromFloat(-100), now)
	require.True(t, tr.IsStrategyPaused("s1", now))
	require.False(t, tr.IsStrategyPaused("s2", now))
}

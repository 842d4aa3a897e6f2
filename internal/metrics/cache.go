package metrics

import (
	"fmt"
	"time"

	gocache "github.com/patrickmn/go-cache"
)

// DefaultTTL bounds how long a computed metric snapshot is reused before the
// read API recomputes it from the store.
const DefaultTTL = 30 * time.Second

// Snapshot is the computed metric bundle for one account, cached as a unit
// so a single read API request only recomputes once even when it reports
// several metrics together.
type Snapshot struct {
	WinRate      float64
	Expectancy   float64
	ProfitFactor float64
	AvgHoldTime  time.Duration
	Sharpe       float64
	Sortino      float64
	MaxDrawdown  float64
}

// Cache memoizes per-account Snapshots for DefaultTTL, avoiding repeated
// full-history recomputation on every read API request.
type Cache struct {
	inner *gocache.Cache
}

// NewCache builds a metrics cache with the given TTL and a cleanup sweep at
// twice that interval.
func NewCache(ttl time.Duration) *Cache {
	return &Cache{inner: gocache.New(ttl, ttl*2)}
}

func accountKey(accountID int64) string {
	return fmt.Sprintf("account:%d", accountID)
}

// Get returns a cached Snapshot for accountID, if present and unexpired.
func (c *Cache) Get(accountID int64) (Snapshot, bool) {
	v, ok := c.inner.Get(accountKey(accountID))
	if !ok {
		return Snapshot{}, false
	}

	return v.(Snapshot), true
}

// Set stores a freshly computed Snapshot for accountID under the cache's
// configured TTL.
func (c *Cache) Set(accountID int64, snap Snapshot) {
	c.inner.SetDefault(accountKey(accountID), snap)
}

// Invalidate drops the account's cached Snapshot so the next Get misses.
func (c *Cache) Invalidate(accountID int64) {
	c.inner.Delete(accountKey(accountID))
}

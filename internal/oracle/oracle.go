// Package oracle maintains an in-process price cache per venue, fed by a
// streaming subscriber for the perp venue and a store-backed fallback for
// the polling prediction-market venue. It never fails a caller: a missing or
// stale entry simply yields no price, and the caller decides the no-price
// policy (spec.md §4.1).
package oracle

import (
	"context"
	"sync"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/rxtech-lab/papertrader/internal/logger"
	"github.com/rxtech-lab/papertrader/internal/store"
	"github.com/rxtech-lab/papertrader/internal/types"
)

// Source identifies where a cached price entry came from.
type Source string

const (
	SourceStream Source = "stream"
	SourceStore  Source = "store"
	SourceManual Source = "manual"
)

// DefaultStreamStalenessS and DefaultStoreStalenessS are the spec's default
// staleness thresholds for the streaming and polling venues respectively.
const (
	DefaultStreamStalenessS = 30
	DefaultStoreStalenessS  = 600
)

// entry is an immutable price record; updates replace the whole value under
// its key rather than mutating fields in place, so readers never observe a
// torn record.
type entry struct {
	price  decimal.Decimal
	ts     time.Time
	source Source
}

// cache is one venue's price map: asset -> entry, with its own staleness
// threshold.
type cache struct {
	mu        sync.RWMutex
	entries   map[string]entry
	staleness time.Duration
}

func newCache(stalenessS int) *cache {
	return &cache{
		entries:   make(map[string]entry),
		staleness: time.Duration(stalenessS) * time.Second,
	}
}

func (c *cache) get(asset string) (decimal.Decimal, bool) {
	c.mu.RLock()
	e, ok := c.entries[asset]
	c.mu.RUnlock()

	if !ok || time.Since(e.ts) > c.staleness {
		return decimal.Zero, false
	}

	return e.price, true
}

func (c *cache) isStale(asset string) bool {
	c.mu.RLock()
	e, ok := c.entries[asset]
	c.mu.RUnlock()

	return !ok || time.Since(e.ts) > c.staleness
}

func (c *cache) set(asset string, price decimal.Decimal, ts time.Time, source Source) {
	c.mu.Lock()
	c.entries[asset] = entry{price: price, ts: ts, source: source}
	c.mu.Unlock()
}

// Oracle holds one cache per venue and the streaming subscriber for the perp
// venue.
type Oracle struct {
	log *logger.Logger
	st  *store.Store

	perpCache *cache
	predCache *cache

	stream Subscriber

	trackedAssets []string

	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// Subscriber abstracts the streaming venue's "all mids" feed so the oracle
// can be exercised without a live connection in tests.
type Subscriber interface {
	// Run blocks, delivering price updates to onPrice, until ctx is
	// cancelled or an unrecoverable error occurs.
	Run(ctx context.Context, onPrice func(asset string, price decimal.Decimal, ts time.Time)) error
}

// New builds an Oracle. streamStalenessS/storeStalenessS default to the
// spec's 30s/600s when zero.
func New(log *logger.Logger, st *store.Store, stream Subscriber, trackedAssets []string, streamStalenessS, storeStalenessS int) *Oracle {
	if streamStalenessS <= 0 {
		streamStalenessS = DefaultStreamStalenessS
	}
	if storeStalenessS <= 0 {
		storeStalenessS = DefaultStoreStalenessS
	}

	return &Oracle{
		log:           log.Named("oracle"),
		st:            st,
		perpCache:     newCache(streamStalenessS),
		predCache:     newCache(storeStalenessS),
		stream:        stream,
		trackedAssets: trackedAssets,
	}
}

// Start launches the stream subscriber's reconnect loop in the background.
// Safe to call once; Stop cancels it.
func (o *Oracle) Start(ctx context.Context) {
	if o.stream == nil {
		return
	}

	runCtx, cancel := context.WithCancel(ctx)
	o.cancel = cancel

	o.wg.Add(1)
	go func() {
		defer o.wg.Done()
		o.runStreamLoop(runCtx)
	}()
}

// Stop cancels the stream subscriber loop and waits for it to exit.
func (o *Oracle) Stop() {
	if o.cancel != nil {
		o.cancel()
	}
	o.wg.Wait()
}

func (o *Oracle) runStreamLoop(ctx context.Context) {
	tracked := make(map[string]bool, len(o.trackedAssets))
	for _, a := range o.trackedAssets {
		tracked[a] = true
	}

	onPrice := func(asset string, price decimal.Decimal, ts time.Time) {
		if !tracked[asset] {
			return
		}
		o.perpCache.set(asset, price, ts, SourceStream)
	}

	for {
		if ctx.Err() != nil {
			return
		}

		err := o.stream.Run(ctx, onPrice)
		if ctx.Err() != nil {
			return
		}

		o.log.Warn("oracle stream disconnected, reconnecting", zap.Error(err))

		select {
		case <-ctx.Done():
			return
		case <-time.After(5 * time.Second):
		}
	}
}

// GetPrice returns the current price for (asset, venue), or false if no
// fresh price is available. For the prediction-market venue, a stale or
// missing cache entry triggers a store lookup when a store is configured.
func (o *Oracle) GetPrice(ctx context.Context, asset string, venue types.Venue) (decimal.Decimal, bool) {
	switch venue {
	case types.VenuePerp:
		return o.perpCache.get(asset)
	case types.VenuePredictionMkt:
		if price, ok := o.predCache.get(asset); ok {
			return price, true
		}

		if o.st == nil {
			return decimal.Zero, false
		}

		price, ts, err := o.st.LatestPredictionMarketPrice(ctx, asset)
		if err != nil {
			return decimal.Zero, false
		}

		o.predCache.set(asset, price, ts, SourceStore)

		return price, true
	default:
		return decimal.Zero, false
	}
}

// IsStale reports whether (asset, venue)'s cache entry is absent or older
// than its venue's staleness threshold.
func (o *Oracle) IsStale(asset string, venue types.Venue) bool {
	switch venue {
	case types.VenuePerp:
		return o.perpCache.isStale(asset)
	case types.VenuePredictionMkt:
		return o.predCache.isStale(asset)
	default:
		return true
	}
}

// UpdatePrice writes a manual price override, used by tests and operational
// tooling.
func (o *Oracle) UpdatePrice(asset string, venue types.Venue, price decimal.Decimal) {
	switch venue {
	case types.VenuePerp:
		o.perpCache.set(asset, price, time.Now().UTC(), SourceManual)
	case types.VenuePredictionMkt:
		o.predCache.set(asset, price, time.Now().UTC(), SourceManual)
	}
}

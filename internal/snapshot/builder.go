// Package snapshot assembles the per-asset MarketSnapshot a strategy
// evaluates from the persistent store (spec.md §4.2).
package snapshot

import (
	"context"
	"time"

	"github.com/rxtech-lab/papertrader/internal/store"
	"github.com/rxtech-lab/papertrader/internal/types"
)

// Defaults per spec.md §4.2.
const (
	DefaultCandles           = 100
	DefaultFundingDays       = 7
	DefaultPredictionMarkets = 10
)

// Builder assembles MarketSnapshots from a store handle.
type Builder struct {
	st                *store.Store
	candles           int
	fundingDays       int
	predictionMarkets int
}

// New builds a Builder with the spec's default window sizes. Zero values
// passed for n/d/m fall back to those defaults.
func New(st *store.Store, n, fundingDays, m int) *Builder {
	if n <= 0 {
		n = DefaultCandles
	}
	if fundingDays <= 0 {
		fundingDays = DefaultFundingDays
	}
	if m <= 0 {
		m = DefaultPredictionMarkets
	}

	return &Builder{st: st, candles: n, fundingDays: fundingDays, predictionMarkets: m}
}

// Build assembles a MarketSnapshot for asset: the most recent N candles,
// funding rows in the last D days, and the most recent M prediction-market
// rows, all ordered oldest-first. The snapshot timestamp is wall-clock now.
func (b *Builder) Build(ctx context.Context, asset string) (types.MarketSnapshot, error) {
	candles, err := b.st.RecentCandles(ctx, asset, b.candles)
	if err != nil {
		return types.MarketSnapshot{}, err
	}

	since := time.Now().UTC().AddDate(0, 0, -b.fundingDays)
	funding, err := b.st.RecentFunding(ctx, asset, since)
	if err != nil {
		return types.MarketSnapshot{}, err
	}

	markets, err := b.st.RecentPredictionMarkets(ctx, asset, b.predictionMarkets)
	if err != nil {
		return types.MarketSnapshot{}, err
	}

	return types.MarketSnapshot{
		Asset: asset, Ts: time.Now().UTC(),
		Candles: candles, Funding: funding, PredictionMarkets: markets,
	}, nil
}

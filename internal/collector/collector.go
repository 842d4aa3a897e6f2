// Package collector runs the periodic polling loops that fill the candle,
// funding, and prediction-market tables from the two external venues.
// Transient failures are logged and the loop continues from the next tick;
// nothing in-memory is committed unless the store write succeeded.
package collector

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/rxtech-lab/papertrader/internal/logger"
	"github.com/rxtech-lab/papertrader/internal/store"
	"github.com/rxtech-lab/papertrader/internal/types"
)

// PerpClient is the subset of perpstream.Client a collector depends on.
type PerpClient interface {
	Candles(ctx context.Context, asset string, interval types.Interval) ([]types.Candle, error)
	Funding(ctx context.Context, asset string) (types.FundingSnapshot, error)
}

// PredictionMarketClient is the subset of predictionmarket.Client a
// collector depends on.
type PredictionMarketClient interface {
	Markets(ctx context.Context, asset string) ([]types.PredictionMarketObservation, error)
}

// PerpCollector polls candles and funding for a fixed asset list on an
// interval and upserts them into the store.
type PerpCollector struct {
	log      *logger.Logger
	st       *store.Store
	client   PerpClient
	assets   []string
	interval types.Interval
	period   time.Duration
}

// NewPerpCollector builds a collector that polls every period for candles at
// the given interval, plus the latest funding snapshot, for each asset.
func NewPerpCollector(log *logger.Logger, st *store.Store, client PerpClient, assets []string, interval types.Interval, period time.Duration) *PerpCollector {
	return &PerpCollector{
		log: log.Named("collector.perp"), st: st, client: client,
		assets: assets, interval: interval, period: period,
	}
}

// Run polls on a ticker until ctx is cancelled.
func (c *PerpCollector) Run(ctx context.Context) {
	ticker := time.NewTicker(c.period)
	defer ticker.Stop()

	c.tick(ctx)

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			c.tick(ctx)
		}
	}
}

func (c *PerpCollector) tick(ctx context.Context) {
	for _, asset := range c.assets {
		if err := c.collectAsset(ctx, asset); err != nil {
			c.log.Warn("perp collector tick failed", zap.String("asset", asset), zap.Error(err))
		}
	}
}

func (c *PerpCollector) collectAsset(ctx context.Context, asset string) error {
	candles, err := c.client.Candles(ctx, asset, c.interval)
	if err != nil {
		return err
	}

	for _, candle := range candles {
		if err := c.st.UpsertCandle(ctx, candle); err != nil {
			return err
		}
	}

	funding, err := c.client.Funding(ctx, asset)
	if err != nil {
		return err
	}

	return c.st.UpsertFunding(ctx, funding)
}

// PredictionMarketCollector polls market observations for a fixed asset list.
type PredictionMarketCollector struct {
	log    *logger.Logger
	st     *store.Store
	client PredictionMarketClient
	assets []string
	period time.Duration
}

// NewPredictionMarketCollector builds a collector that polls every period.
func NewPredictionMarketCollector(log *logger.Logger, st *store.Store, client PredictionMarketClient, assets []string, period time.Duration) *PredictionMarketCollector {
	return &PredictionMarketCollector{
		log: log.Named("collector.prediction_market"), st: st, client: client,
		assets: assets, period: period,
	}
}

// Run polls on a ticker until ctx is cancelled.
func (c *PredictionMarketCollector) Run(ctx context.Context) {
	ticker := time.NewTicker(c.period)
	defer ticker.Stop()

	c.tick(ctx)

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			c.tick(ctx)
		}
	}
}

func (c *PredictionMarketCollector) tick(ctx context.Context) {
	for _, asset := range c.assets {
		markets, err := c.client.Markets(ctx, asset)
		if err != nil {
			c.log.Warn("prediction market collector tick failed", zap.String("asset", asset), zap.Error(err))
			continue
		}

		for _, m := range markets {
			if err := c.st.UpsertPredictionMarket(ctx, m); err != nil {
				c.log.Warn("upsert prediction market failed", zap.String("market_id", m.MarketID), zap.Error(err))
			}
		}
	}
}

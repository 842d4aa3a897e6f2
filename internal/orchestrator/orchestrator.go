// Package orchestrator runs the periodic tick that builds per-asset market
// snapshots, evaluates the enabled strategies applicable to each asset, and
// persists the signals they emit (spec.md §4.4).
package orchestrator

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/rxtech-lab/papertrader/internal/logger"
	"github.com/rxtech-lab/papertrader/internal/snapshot"
	"github.com/rxtech-lab/papertrader/internal/store"
	"github.com/rxtech-lab/papertrader/internal/strategy"
	"github.com/rxtech-lab/papertrader/internal/types"
)

// TickPeriod is the orchestrator's fixed tick cadence (spec.md §4.4).
const TickPeriod = 5 * time.Second

// Orchestrator evaluates every enabled strategy against every configured
// asset on a 5-second cadence, honoring each strategy's own evaluation
// interval via an in-memory per-(strategy, asset) rate limiter.
type Orchestrator struct {
	log        *logger.Logger
	st         *store.Store
	builder    *snapshot.Builder
	strategies []strategy.Strategy
	assets     []string

	mu       sync.Mutex
	lastEval map[string]time.Time
}

// New builds an Orchestrator over the given enabled strategies and asset
// list.
func New(log *logger.Logger, st *store.Store, builder *snapshot.Builder, strategies []strategy.Strategy, assets []string) *Orchestrator {
	return &Orchestrator{
		log: log.Named("orchestrator"), st: st, builder: builder,
		strategies: strategies, assets: assets,
		lastEval: make(map[string]time.Time),
	}
}

// Run ticks every TickPeriod until ctx is cancelled.
func (o *Orchestrator) Run(ctx context.Context) {
	ticker := time.NewTicker(TickPeriod)
	defer ticker.Stop()

	o.tick(ctx)

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			o.tick(ctx)
		}
	}
}

func (o *Orchestrator) tick(ctx context.Context) {
	for _, asset := range o.assets {
		snap, err := o.builder.Build(ctx, asset)
		if err != nil {
			o.log.Warn("snapshot build failed", zap.String("asset", asset), zap.Error(err))
			continue
		}

		for _, s := range o.strategies {
			if !appliesToAsset(s, asset) {
				continue
			}

			if !o.shouldEvaluate(s.Name(), asset, s.Interval()) {
				continue
			}

			o.evaluateSafely(ctx, s, asset, snap)
		}
	}
}

func appliesToAsset(s strategy.Strategy, asset string) bool {
	assets := s.Assets()
	if len(assets) == 0 {
		return true
	}

	for _, a := range assets {
		if a == asset {
			return true
		}
	}

	return false
}

func (o *Orchestrator) shouldEvaluate(strategyName, asset string, interval types.Interval) bool {
	key := fmt.Sprintf("%s|%s", strategyName, asset)
	period := time.Duration(interval.Seconds()) * time.Second
	now := time.Now()

	o.mu.Lock()
	defer o.mu.Unlock()

	last, seen := o.lastEval[key]
	if seen && now.Sub(last) < period {
		return false
	}

	o.lastEval[key] = now

	return true
}

// evaluateSafely runs one strategy's Evaluate call, containing both
// returned errors and panics so one broken strategy never stops the tick.
func (o *Orchestrator) evaluateSafely(ctx context.Context, s strategy.Strategy, asset string, snap types.MarketSnapshot) {
	defer func() {
		if r := recover(); r != nil {
			o.log.Error("strategy evaluation panicked",
				zap.String("strategy", s.Name()), zap.String("asset", asset), zap.Any("recover", r))
		}
	}()

	sig, err := s.Evaluate(snap)
	if err != nil {
		o.log.Warn("strategy evaluation failed",
			zap.String("strategy", s.Name()), zap.String("asset", asset), zap.Error(err))

		return
	}

	if sig == nil {
		return
	}

	if _, err := o.st.InsertSignal(ctx, *sig); err != nil {
		o.log.Warn("persist signal failed",
			zap.String("strategy", s.Name()), zap.String("asset", asset), zap.Error(err))
	}
}

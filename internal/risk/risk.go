// Package risk implements the paper engine's per-strategy risk gate: an
// in-memory daily-loss/cooldown tracker per strategy, plus the stateless
// max-positions and max-exposure checks (spec.md §4.6). Each paper engine
// owns its own Tracker; trackers are never shared across engines.
package risk

import (
	"time"

	"github.com/shopspring/decimal"
)

// strategyState is one strategy's daily risk bookkeeping.
type strategyState struct {
	dailyLoss  decimal.Decimal
	dailyWins  decimal.Decimal
	lastLossTs *time.Time
	dayKey     string
}

// Tracker holds per-strategy risk state for a single paper engine. It is not
// safe for concurrent use across engines — spec.md requires one tracker per
// engine, each running on its own task.
type Tracker struct {
	dailyLossLimit  decimal.Decimal
	cooldownMinutes int
	states          map[string]*strategyState
}

// NewTracker builds a Tracker with the configured per-strategy daily-loss
// limit and cooldown window.
func NewTracker(dailyLossLimit decimal.Decimal, cooldownMinutes int) *Tracker {
	return &Tracker{
		dailyLossLimit:  dailyLossLimit,
		cooldownMinutes: cooldownMinutes,
		states:          make(map[string]*strategyState),
	}
}

func dayKey(ts time.Time) string {
	return ts.UTC().Format("2006-01-02")
}

func (t *Tracker) state(strategy string, ts time.Time) *strategyState {
	s, ok := t.states[strategy]
	key := dayKey(ts)

	if !ok {
		s = &strategyState{dayKey: key}
		t.states[strategy] = s
		return s
	}

	if s.dayKey != key {
		s.dailyLoss = decimal.Zero
		s.dailyWins = decimal.Zero
		s.dayKey = key
	}

	return s
}

// RecordClose updates a strategy's daily-loss/win tally and cooldown clock
// after a position closes with the given realised pnl at ts.
func (t *Tracker) RecordClose(strategy string, pnl decimal.Decimal, ts time.Time) {
	s := t.state(strategy, ts)

	if pnl.IsNegative() {
		s.dailyLoss = s.dailyLoss.Add(pnl.Abs())
		lossTs := ts
		s.lastLossTs = &lossTs
	} else {
		s.dailyWins = s.dailyWins.Add(pnl)
	}
}

// IsStrategyPaused reports whether a strategy's daily net loss exceeds the
// configured limit.
func (t *Tracker) IsStrategyPaused(strategy string, now time.Time) bool {
	s := t.state(strategy, now)

	return s.dailyLoss.Sub(s.dailyWins).GreaterThan(t.dailyLossLimit)
}

// IsInCooldown reports whether strategy had a losing close within the
// cooldown window of now.
func (t *Tracker) IsInCooldown(strategy string, now time.Time) bool {
	s := t.state(strategy, now)

	if s.lastLossTs == nil {
		return false
	}

	cooldown := time.Duration(t.cooldownMinutes) * time.Minute

	return now.Sub(*s.lastLossTs) < cooldown
}

// MaxPositionsExceeded reports whether openCount (current OPEN positions for
// a strategy) has reached or exceeded limit.
func MaxPositionsExceeded(openCount, limit int) bool {
	return openCount >= limit
}

// MaxExposureExceeded reports whether existing open notional plus a
// prospective new position's notional exceeds equity times the configured
// exposure limit percentage.
func MaxExposureExceeded(openNotional, newNotional, equity decimal.Decimal, exposureLimitPct float64) bool {
	limit := equity.Mul(decimal.NewFromFloat(exposureLimitPct))

	return openNotional.Add(newNotional).GreaterThan(limit)
}

// Package metrics computes the read-only performance statistics the
// external reporting API exposes: Sharpe, Sortino, max drawdown,
// expectancy, profit factor, win rate, and average hold time. These are
// pure functions over closed positions and equity curves; per the spec's
// design notes, binary-float arithmetic is acceptable here even though the
// rest of the platform uses arbitrary-precision decimals end-to-end.
package metrics

import (
	"math"
	"time"

	"github.com/shopspring/decimal"

	"github.com/rxtech-lab/papertrader/internal/types"
)

// WinRate is the fraction of closed trades with a non-negative realised
// PnL. Returns 0 for an empty trade list.
func WinRate(trades []types.Position) float64 {
	if len(trades) == 0 {
		return 0
	}

	var wins int

	for _, t := range trades {
		if t.RealisedPnL != nil && !t.RealisedPnL.IsNegative() {
			wins++
		}
	}

	return float64(wins) / float64(len(trades))
}

// Expectancy is the mean realised PnL per closed trade.
func Expectancy(trades []types.Position) float64 {
	if len(trades) == 0 {
		return 0
	}

	var total decimal.Decimal

	for _, t := range trades {
		if t.RealisedPnL != nil {
			total = total.Add(*t.RealisedPnL)
		}
	}

	f, _ := total.Div(decimal.NewFromInt(int64(len(trades)))).Float64()

	return f
}

// ProfitFactor is gross profit divided by gross loss (absolute value) across
// closed trades. Returns +Inf when there are wins and no losses, and 0 when
// there are no trades at all.
func ProfitFactor(trades []types.Position) float64 {
	var grossProfit, grossLoss decimal.Decimal

	for _, t := range trades {
		if t.RealisedPnL == nil {
			continue
		}

		if t.RealisedPnL.IsNegative() {
			grossLoss = grossLoss.Add(t.RealisedPnL.Abs())
		} else {
			grossProfit = grossProfit.Add(*t.RealisedPnL)
		}
	}

	if grossLoss.IsZero() {
		if grossProfit.IsZero() {
			return 0
		}

		return math.Inf(1)
	}

	f, _ := grossProfit.Div(grossLoss).Float64()

	return f
}

// AvgHoldTime is the mean duration between entry and exit across closed
// trades that carry an exit timestamp.
func AvgHoldTime(trades []types.Position) time.Duration {
	var total time.Duration

	var n int

	for _, t := range trades {
		if t.ExitTs == nil {
			continue
		}

		total += t.ExitTs.Sub(t.EntryTs)
		n++
	}

	if n == 0 {
		return 0
	}

	return total / time.Duration(n)
}

// PeriodReturns converts an ordered (oldest-first) equity curve into
// fractional period-over-period returns, skipping any period whose starting
// equity is zero.
func PeriodReturns(equityCurve []decimal.Decimal) []float64 {
	if len(equityCurve) < 2 {
		return nil
	}

	returns := make([]float64, 0, len(equityCurve)-1)

	for i := 1; i < len(equityCurve); i++ {
		prev := equityCurve[i-1]
		if prev.IsZero() {
			continue
		}

		r, _ := equityCurve[i].Sub(prev).Div(prev).Float64()
		returns = append(returns, r)
	}

	return returns
}

func mean(xs []float64) float64 {
	if len(xs) == 0 {
		return 0
	}

	var sum float64
	for _, x := range xs {
		sum += x
	}

	return sum / float64(len(xs))
}

func stddev(xs []float64, mu float64) float64 {
	if len(xs) == 0 {
		return 0
	}

	var sumSq float64
	for _, x := range xs {
		d := x - mu
		sumSq += d * d
	}

	return math.Sqrt(sumSq / float64(len(xs)))
}

// Sharpe computes the annualized Sharpe ratio of a period-return series
// against a per-period risk-free rate, scaled by periodsPerYear. Returns 0
// when the return series has zero variance.
func Sharpe(returns []float64, riskFreeRatePerPeriod float64, periodsPerYear float64) float64 {
	if len(returns) == 0 {
		return 0
	}

	excess := make([]float64, len(returns))
	for i, r := range returns {
		excess[i] = r - riskFreeRatePerPeriod
	}

	mu := mean(excess)
	sigma := stddev(excess, mu)

	if sigma == 0 {
		return 0
	}

	return (mu / sigma) * math.Sqrt(periodsPerYear)
}

// Sortino is Sharpe's downside-only counterpart: the denominator is the
// downside deviation, the root-mean-square of the negative excess returns
// taken about zero.
func Sortino(returns []float64, riskFreeRatePerPeriod float64, periodsPerYear float64) float64 {
	if len(returns) == 0 {
		return 0
	}

	excess := make([]float64, len(returns))
	for i, r := range returns {
		excess[i] = r - riskFreeRatePerPeriod
	}

	mu := mean(excess)

	var downside []float64

	for _, e := range excess {
		if e < 0 {
			downside = append(downside, e)
		}
	}

	if len(downside) == 0 {
		return 0
	}

	downsideDev := stddev(downside, 0)
	if downsideDev == 0 {
		return 0
	}

	return (mu / downsideDev) * math.Sqrt(periodsPerYear)
}

// MaxDrawdown returns the largest peak-to-trough fractional decline across
// an ordered (oldest-first) equity curve, expressed as a positive fraction
// (0.25 means a 25% drawdown).
func MaxDrawdown(equityCurve []decimal.Decimal) float64 {
	if len(equityCurve) == 0 {
		return 0
	}

	peak := equityCurve[0]
	maxDD := 0.0

	for _, e := range equityCurve {
		if e.GreaterThan(peak) {
			peak = e
		}

		if peak.IsZero() {
			continue
		}

		dd, _ := peak.Sub(e).Div(peak).Float64()
		if dd > maxDD {
			maxDD = dd
		}
	}

	return maxDD
}

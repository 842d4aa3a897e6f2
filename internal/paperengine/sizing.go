package paperengine

import (
	"github.com/shopspring/decimal"
)

// fixedFractionalQty implements spec.md §4.5's default sizing rule:
// qty = (equity . risk_pct) / (entry . stop_pct).
func fixedFractionalQty(equity, entry decimal.Decimal, riskPct, stopPct float64) decimal.Decimal {
	risk := decimal.NewFromFloat(riskPct)
	stop := decimal.NewFromFloat(stopPct)

	notional := equity.Mul(risk).Div(stop)

	return notional.Div(entry)
}

// kellyQty implements the opt-in Kelly sizing rule. It maps signal confidence
// to a win probability, derives the Kelly fraction, scales it by a safety
// factor, and caps the resulting notional at the fixed-fractional ceiling.
// It falls back to fixed-fractional sizing whenever the Kelly fraction is
// non-positive.
func kellyQty(equity, entry decimal.Decimal, confidence, baseWinProb, safetyFactor, stopPct, takeProfitPct, riskPct float64) decimal.Decimal {
	p := baseWinProb + confidence*(1-baseWinProb)
	b := takeProfitPct / stopPct

	k := (p*b - (1 - p)) / b
	if k <= 0 {
		return fixedFractionalQty(equity, entry, riskPct, stopPct)
	}

	kellyNotional := equity.Mul(decimal.NewFromFloat(k * safetyFactor))
	ceiling := equity.Mul(decimal.NewFromFloat(riskPct)).Div(decimal.NewFromFloat(stopPct))

	notional := kellyNotional
	if notional.GreaterThan(ceiling) {
		notional = ceiling
	}

	return notional.Div(entry)
}

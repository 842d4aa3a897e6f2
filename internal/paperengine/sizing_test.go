package paperengine

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func TestFixedFractionalQty(t *testing.T) {
	equity := decimal.NewFromInt(10000)
	entry := decimal.NewFromInt(100)

	// qty = (10000 * 0.02) / (100 * 0.02) = 200 / 2 = 100
	qty := fixedFractionalQty(equity, entry, 0.02, 0.02)
	require.True(t, decimal.NewFromInt(100).Equal(qty), "got %s", qty)
}

func TestKellyFallsBackWhenFractionNonPositive(t *testing.T) {
	equity := decimal.NewFromInt(10000)
	entry := decimal.NewFromInt(100)

	// A low-edge case whose Kelly fraction is negative, so sizing falls back
	// to fixed-fractional.
	qty := kellyQty(equity, entry, 0, 0.1, 0.5, 0.02, 0.04, 0.02)
	fallback := fixedFractionalQty(equity, entry, 0.02, 0.02)
	// baseWinProb=0.1, confidence=0 => p=0.1, b=2, k=(0.1*2-0.9)/2 = -0.35 <=0
	require.True(t, fallback.Equal(qty), "expected fallback to fixed-fractional, got %s vs %s", qty, fallback)
}

func TestKellySizingCapsAtFixedFractionalCeiling(t *testing.T) {
	equity := decimal.NewFromInt(10000)
	entry := decimal.NewFromInt(100)

	// confidence=1, baseWinProb=0.5 => p=1, b=2, k=1; Kelly notional is
	// 10000*1*0.5 = 5000, above the fixed-fractional ceiling of
	// 10000*0.005/0.02 = 2500, so the ceiling caps qty at 25.
	qty := kellyQty(equity, entry, 1.0, 0.5, 0.5, 0.02, 0.04, 0.005)
	ceiling := fixedFractionalQty(equity, entry, 0.005, 0.02)

	require.True(t, qty.Equal(ceiling), "kelly qty %s not capped at ceiling %s", qty, ceiling)
}

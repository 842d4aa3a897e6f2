package strategy

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/rxtech-lab/papertrader/internal/types"
)

func fundingSnapshot(asset string, rate float64, oi ...float64) types.MarketSnapshot {
	var funding []types.FundingSnapshot
	for i, o := range oi {
		oiVal := decimal.NewFromFloat(o)
		funding = append(funding, types.FundingSnapshot{
			Venue: types.VenuePerp, Asset: asset, Ts: time.Now().Add(time.Duration(i) * time.Hour),
			FundingRate: decimal.NewFromFloat(rate), OpenInterest: &oiVal,
		})
	}

	return types.MarketSnapshot{Asset: asset, Ts: time.Now().UTC(), Funding: funding}
}

func TestFundingRateThresholds(t *testing.T) {
	s, err := NewFundingRate(nil)
	require.NoError(t, err)

	sig, err := s.Evaluate(fundingSnapshot("BTC", 0.002, 100))
	require.NoError(t, err)
	require.NotNil(t, sig)
	require.Equal(t, types.DirectionShort, sig.Direction)

	sig, err = s.Evaluate(fundingSnapshot("BTC", -0.002, 100))
	require.NoError(t, err)
	require.NotNil(t, sig)
	require.Equal(t, types.DirectionLong, sig.Direction)

	sig, err = s.Evaluate(fundingSnapshot("BTC", 0.0001, 100))
	require.NoError(t, err)
	require.Nil(t, sig)
}

// Scenario 4 — funding+OI dual filter.
func TestFundingOIDualFilter(t *testing.T) {
	s, err := NewFundingOI(map[string]any{"funding_threshold": 0.0015, "oi_pct": 85.0})
	require.NoError(t, err)

	snap := fundingSnapshot("BTC", 0.002, 100, 95)
	sig, err := s.Evaluate(snap)
	require.NoError(t, err)
	require.NotNil(t, sig)
	require.Equal(t, types.DirectionShort, sig.Direction)

	snap = fundingSnapshot("BTC", 0.001, 100, 95)
	sig, err = s.Evaluate(snap)
	require.NoError(t, err)
	require.Nil(t, sig)

	snap = fundingSnapshot("BTC", 0.002, 100, 50)
	sig, err = s.Evaluate(snap)
	require.NoError(t, err)
	require.Nil(t, sig)
}

func TestFundingOINoHistoryNoSignal(t *testing.T) {
	s, err := NewFundingOI(nil)
	require.NoError(t, err)

	snap := fundingSnapshot("BTC", 0.01, 100)
	sig, err := s.Evaluate(snap)
	require.NoError(t, err)
	require.Nil(t, sig)
}

package strategy

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/rxtech-lab/papertrader/internal/types"
)

func snapshotWithMarket(asset string, yes float64) types.MarketSnapshot {
	return types.MarketSnapshot{
		Asset: asset, Ts: time.Now().UTC(),
		PredictionMarkets: []types.PredictionMarketObservation{{
			MarketID: "m1", Asset: asset, Title: "t", Ts: time.Now().UTC(),
			YesPrice: decimal.NewFromFloat(yes), NoPrice: decimal.NewFromFloat(1 - yes),
			Volume24h: decimal.NewFromFloat(1000), Liquidity: decimal.NewFromFloat(1000),
		}},
	}
}

// Scenario 3 — contrarian fires at threshold boundary.
func TestContrarianPureThresholdBoundary(t *testing.T) {
	s, err := NewContrarianPure(nil)
	require.NoError(t, err)

	sig, err := s.Evaluate(snapshotWithMarket("BTC", 0.85))
	require.NoError(t, err)
	require.NotNil(t, sig)
	require.Equal(t, types.DirectionShort, sig.Direction)

	sig, err = s.Evaluate(snapshotWithMarket("BTC", 0.50))
	require.NoError(t, err)
	require.Nil(t, sig)

	sig, err = s.Evaluate(snapshotWithMarket("BTC", 0.20))
	require.NoError(t, err)
	require.NotNil(t, sig)
	require.Equal(t, types.DirectionLong, sig.Direction)
}

func TestContrarianSkipsMarketsClosingSoon(t *testing.T) {
	s, err := NewContrarianPure(nil)
	require.NoError(t, err)

	soon := time.Now().Add(time.Hour)
	snap := types.MarketSnapshot{
		Asset: "BTC", Ts: time.Now().UTC(),
		PredictionMarkets: []types.PredictionMarketObservation{{
			MarketID: "m1", Asset: "BTC", Title: "t", Ts: time.Now().UTC(), EndDate: &soon,
			YesPrice: decimal.NewFromFloat(0.9), NoPrice: decimal.NewFromFloat(0.1),
		}},
	}

	sig, err := s.Evaluate(snap)
	require.NoError(t, err)
	require.Nil(t, sig)
}

func TestContrarianPicksHighestConfidenceMarket(t *testing.T) {
	s, err := NewContrarianPure(nil)
	require.NoError(t, err)

	snap := types.MarketSnapshot{
		Asset: "BTC", Ts: time.Now().UTC(),
		PredictionMarkets: []types.PredictionMarketObservation{
			{MarketID: "m1", Asset: "BTC", Ts: time.Now().UTC(), YesPrice: decimal.NewFromFloat(0.80), NoPrice: decimal.NewFromFloat(0.20)},
			{MarketID: "m2", Asset: "BTC", Ts: time.Now().UTC(), YesPrice: decimal.NewFromFloat(0.95), NoPrice: decimal.NewFromFloat(0.05)},
		},
	}

	sig, err := s.Evaluate(snap)
	require.NoError(t, err)
	require.NotNil(t, sig)
	require.Equal(t, "m2", sig.Metadata["market_id"])
}

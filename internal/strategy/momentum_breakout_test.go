package strategy

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/rxtech-lab/papertrader/internal/types"
)

func candleSeriesWithVolume(asset string, closes, volumes []float64) types.MarketSnapshot {
	candles := make([]types.Candle, len(closes))
	base := time.Now().Add(-time.Duration(len(closes)) * time.Minute)

	for i := range closes {
		candles[i] = types.Candle{
			Venue: types.VenuePerp, Asset: asset, Interval: types.Interval15m,
			OpenTime: base.Add(time.Duration(i) * time.Minute),
			Open:     decimal.NewFromFloat(closes[i]), High: decimal.NewFromFloat(closes[i]),
			Low: decimal.NewFromFloat(closes[i]), Close: decimal.NewFromFloat(closes[i]),
			Volume: decimal.NewFromFloat(volumes[i]),
		}
	}

	return types.MarketSnapshot{Asset: asset, Ts: time.Now().UTC(), Candles: candles}
}

func TestMomentumBreakoutFiresOnVolumeConfirmedBreakout(t *testing.T) {
	s, err := NewMomentumBreakout(nil)
	require.NoError(t, err)

	closes := make([]float64, 20)
	volumes := make([]float64, 20)
	for i := range closes {
		closes[i] = 100
		volumes[i] = 10
	}
	closes[19] = 130
	volumes[19] = 100

	sig, err := s.Evaluate(candleSeriesWithVolume("BTC", closes, volumes))
	require.NoError(t, err)
	require.NotNil(t, sig)
	require.Equal(t, types.DirectionLong, sig.Direction)
}

func TestMomentumBreakoutRequiresVolumeSurge(t *testing.T) {
	s, err := NewMomentumBreakout(nil)
	require.NoError(t, err)

	closes := make([]float64, 20)
	volumes := make([]float64, 20)
	for i := range closes {
		closes[i] = 100
		volumes[i] = 10
	}
	closes[19] = 130 // breaks out...
	volumes[19] = 10 // ...but no volume surge

	sig, err := s.Evaluate(candleSeriesWithVolume("BTC", closes, volumes))
	require.NoError(t, err)
	require.Nil(t, sig)
}

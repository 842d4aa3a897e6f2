package indicator

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSMA(t *testing.T) {
	v, err := SMA([]float64{1, 2, 3, 4, 5}, 3)
	require.NoError(t, err)
	require.InDelta(t, 4.0, v, 1e-9)
}

func TestSMAInsufficientData(t *testing.T) {
	_, err := SMA([]float64{1, 2}, 5)
	require.Error(t, err)
}

func TestRSIAllGains(t *testing.T) {
	closes := make([]float64, 15)
	for i := range closes {
		closes[i] = float64(100 + i)
	}

	v, err := RSI(closes, 14)
	require.NoError(t, err)
	require.Equal(t, 100.0, v)
}

func TestRSIMixed(t *testing.T) {
	closes := []float64{44.34, 44.09, 44.15, 43.61, 44.33, 44.83, 45.10, 45.42,
		45.84, 46.08, 45.89, 46.03, 45.61, 46.28, 46.28}

	v, err := RSI(closes, 14)
	require.NoError(t, err)
	require.Greater(t, v, 50.0)
	require.LessOrEqual(t, v, 100.0)
}

func TestBollinger(t *testing.T) {
	closes := []float64{10, 10, 10, 10, 10, 10, 10, 10, 10, 20}

	bb, err := Bollinger(closes, 10, 2)
	require.NoError(t, err)
	require.InDelta(t, 11.0, bb.Middle, 1e-9)
	require.Greater(t, bb.Upper, bb.Middle)
	require.Less(t, bb.Lower, bb.Middle)
}

func TestBollingerZeroVarianceIsFlat(t *testing.T) {
	closes := []float64{10, 10, 10, 10, 10}

	bb, err := Bollinger(closes, 5, 2)
	require.NoError(t, err)
	require.Equal(t, bb.Lower, bb.Middle)
	require.Equal(t, bb.Upper, bb.Middle)
}

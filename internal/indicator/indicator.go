// Package indicator provides the small set of pure technical-indicator
// functions the strategies need: RSI, SMA, and Bollinger Bands. Unlike the
// sliding-window indicator framework this platform's predecessor used, these
// are stateless functions over a closing-price (or volume) series drawn
// straight from a MarketSnapshot — strategies call them directly rather than
// registering against a shared context.
//
// Indicator math operates on float64: these are well-known technical
// formulas, not PnL/equity arithmetic, so the decimal-everywhere rule
// (spec.md's Design Notes) does not apply here.
package indicator

import (
	"math"

	"github.com/rxtech-lab/papertrader/pkg/errors"
)

// SMA returns the simple moving average of the last `period` values in
// series. Returns an error if series is shorter than period.
func SMA(series []float64, period int) (float64, error) {
	if period <= 0 {
		return 0, errors.Newf(errors.ErrCodeInvalidParameter, "sma: period must be positive, got %d", period)
	}

	if len(series) < period {
		return 0, errors.NewInsufficientDataErrorf(period, len(series), "", "sma: need %d points, got %d", period, len(series))
	}

	window := series[len(series)-period:]

	sum := 0.0
	for _, v := range window {
		sum += v
	}

	return sum / float64(period), nil
}

// RSI computes the Relative Strength Index over the last period+1 closes.
// Average gain and loss are the simple means of those period changes (the
// seed of Wilder's method); earlier closes are not used, so no further
// Wilder smoothing is applied.
func RSI(closes []float64, period int) (float64, error) {
	if period <= 0 {
		return 0, errors.Newf(errors.ErrCodeInvalidParameter, "rsi: period must be positive, got %d", period)
	}

	if len(closes) < period+1 {
		return 0, errors.NewInsufficientDataErrorf(period+1, len(closes), "", "rsi: need %d points, got %d", period+1, len(closes))
	}

	window := closes[len(closes)-(period+1):]

	gains := make([]float64, 0, period)
	losses := make([]float64, 0, period)

	for i := 1; i < len(window); i++ {
		change := window[i] - window[i-1]
		if change > 0 {
			gains = append(gains, change)
			losses = append(losses, 0)
		} else {
			gains = append(gains, 0)
			losses = append(losses, -change)
		}
	}

	avgGain, avgLoss := 0.0, 0.0
	for i := 0; i < period; i++ {
		avgGain += gains[i]
		avgLoss += losses[i]
	}
	avgGain /= float64(period)
	avgLoss /= float64(period)

	for i := period; i < len(gains); i++ {
		avgGain = (avgGain*float64(period-1) + gains[i]) / float64(period)
		avgLoss = (avgLoss*float64(period-1) + losses[i]) / float64(period)
	}

	if avgLoss == 0 {
		return 100, nil
	}

	rs := avgGain / avgLoss

	return 100 - (100 / (1 + rs)), nil
}

// BollingerBands is the (lower, middle, upper) band triple for a period and
// standard-deviation multiplier.
type BollingerBands struct {
	Lower  float64
	Middle float64
	Upper  float64
}

// Bollinger computes Bollinger Bands over the last `period` closes: the
// middle band is the SMA, and the outer bands are `mult` standard
// deviations away from it (population standard deviation over the window).
func Bollinger(closes []float64, period int, mult float64) (BollingerBands, error) {
	mid, err := SMA(closes, period)
	if err != nil {
		return BollingerBands{}, err
	}

	window := closes[len(closes)-period:]

	variance := 0.0
	for _, v := range window {
		d := v - mid
		variance += d * d
	}
	variance /= float64(period)

	stddev := math.Sqrt(variance)

	return BollingerBands{
		Lower:  mid - mult*stddev,
		Middle: mid,
		Upper:  mid + mult*stddev,
	}, nil
}

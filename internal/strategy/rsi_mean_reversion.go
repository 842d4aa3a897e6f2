package strategy

import (
	"github.com/rxtech-lab/papertrader/internal/indicator"
	"github.com/rxtech-lab/papertrader/internal/types"
)

// rsiMeanReversion fades RSI extremes on the perp close-price series:
// overbought goes SHORT, oversold goes LONG.
type rsiMeanReversion struct {
	period     int
	overbought float64
	oversold   float64
}

// NewRSIMeanReversion builds the RSI(14) mean-reversion strategy.
func NewRSIMeanReversion(params map[string]any) (Strategy, error) {
	return &rsiMeanReversion{
		period:     paramInt(params, "period", 14),
		overbought: paramFloat(params, "overbought", 70),
		oversold:   paramFloat(params, "oversold", 30),
	}, nil
}

func (r *rsiMeanReversion) Name() string             { return "rsi_mean_reversion" }
func (r *rsiMeanReversion) Assets() []string         { return nil }
func (r *rsiMeanReversion) Venue() types.Venue       { return types.VenuePerp }
func (r *rsiMeanReversion) Interval() types.Interval { return types.Interval15m }
func (r *rsiMeanReversion) Docs() string {
	return "RSI(14) mean reversion: SHORT above the overbought threshold, LONG below the oversold threshold."
}

func (r *rsiMeanReversion) Evaluate(snapshot types.MarketSnapshot) (*types.Signal, error) {
	if len(snapshot.Candles) < r.period+1 {
		return nil, nil
	}

	closes := make([]float64, len(snapshot.Candles))
	for i, c := range snapshot.Candles {
		closes[i], _ = c.Close.Float64()
	}

	rsi, err := indicator.RSI(closes, r.period)
	if err != nil {
		return nil, nil
	}

	latest := snapshot.Candles[len(snapshot.Candles)-1]

	var direction types.Direction
	var confidence float64

	switch {
	case rsi > r.overbought:
		direction = types.DirectionShort
		confidence = clamp01((rsi - r.overbought) / (100 - r.overbought))
	case rsi < r.oversold:
		direction = types.DirectionLong
		confidence = clamp01((r.oversold - rsi) / r.oversold)
	default:
		return nil, nil
	}

	return &types.Signal{
		Ts: snapshot.Ts, Strategy: "rsi_mean_reversion", Asset: snapshot.Asset, Venue: types.VenuePerp,
		Direction: direction, Confidence: confidence, EntryPrice: latest.Close,
		Metadata: map[string]any{"rsi": rsi},
	}, nil
}

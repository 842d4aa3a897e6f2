package strategy

import (
	"github.com/rxtech-lab/papertrader/internal/indicator"
	"github.com/rxtech-lab/papertrader/internal/types"
)

// momentumBreakout fires when price closes outside its Bollinger band on a
// volume surge — a breakout confirmed by participation, not just price.
type momentumBreakout struct {
	period     int
	mult       float64
	volumeMult float64
}

// NewMomentumBreakout builds the Bollinger-band-plus-volume breakout
// strategy.
func NewMomentumBreakout(params map[string]any) (Strategy, error) {
	return &momentumBreakout{
		period:     paramInt(params, "period", 20),
		mult:       paramFloat(params, "mult", 2),
		volumeMult: paramFloat(params, "volume_mult", 1.5),
	}, nil
}

func (m *momentumBreakout) Name() string             { return "momentum_breakout" }
func (m *momentumBreakout) Assets() []string         { return nil }
func (m *momentumBreakout) Venue() types.Venue       { return types.VenuePerp }
func (m *momentumBreakout) Interval() types.Interval { return types.Interval15m }
func (m *momentumBreakout) Docs() string {
	return "LONG/SHORT on a Bollinger band breakout confirmed by volume exceeding volume_mult times its SMA."
}

func (m *momentumBreakout) Evaluate(snapshot types.MarketSnapshot) (*types.Signal, error) {
	if len(snapshot.Candles) < m.period {
		return nil, nil
	}

	closes := make([]float64, len(snapshot.Candles))
	volumes := make([]float64, len(snapshot.Candles))
	for i, c := range snapshot.Candles {
		closes[i], _ = c.Close.Float64()
		volumes[i], _ = c.Volume.Float64()
	}

	bb, err := indicator.Bollinger(closes, m.period, m.mult)
	if err != nil {
		return nil, nil
	}

	avgVolume, err := indicator.SMA(volumes, m.period)
	if err != nil || avgVolume == 0 {
		return nil, nil
	}

	latest := snapshot.Candles[len(snapshot.Candles)-1]
	latestClose := closes[len(closes)-1]
	latestVolume := volumes[len(volumes)-1]

	if latestVolume <= m.volumeMult*avgVolume {
		return nil, nil
	}

	var direction types.Direction
	var bandDistance float64

	switch {
	case latestClose > bb.Upper:
		direction = types.DirectionLong
		bandDistance = latestClose - bb.Upper
	case latestClose < bb.Lower:
		direction = types.DirectionShort
		bandDistance = bb.Lower - latestClose
	default:
		return nil, nil
	}

	bandWidth := bb.Upper - bb.Middle
	confidence := 0.5
	if bandWidth > 0 {
		confidence = clamp01(bandDistance / bandWidth)
	}

	return &types.Signal{
		Ts: snapshot.Ts, Strategy: "momentum_breakout", Asset: snapshot.Asset, Venue: types.VenuePerp,
		Direction: direction, Confidence: confidence, EntryPrice: latest.Close,
		Metadata: map[string]any{
			"bollinger_upper": bb.Upper, "bollinger_lower": bb.Lower,
			"volume": latestVolume, "avg_volume": avgVolume,
		},
	}, nil
}

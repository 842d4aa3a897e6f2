package strategy

import (
	"time"

	"github.com/rxtech-lab/papertrader/internal/types"
)

// contrarian fires against the crowd's implied probability in a prediction
// market: a yes_price far above threshold is read as overconfidence (SHORT
// the yes side), far below 1-threshold as underconfidence (LONG it).
type contrarian struct {
	name      string
	threshold float64
	minDays   int
}

// NewContrarianPure builds the lower-threshold contrarian variant
// (spec.md default 0.72).
func NewContrarianPure(params map[string]any) (Strategy, error) {
	return &contrarian{
		name:      "contrarian_pure",
		threshold: paramFloat(params, "threshold", 0.72),
		minDays:   paramInt(params, "min_days", 2),
	}, nil
}

// NewContrarianStrength builds the higher-threshold contrarian variant
// (spec.md default 0.80).
func NewContrarianStrength(params map[string]any) (Strategy, error) {
	return &contrarian{
		name:      "contrarian_strength",
		threshold: paramFloat(params, "threshold", 0.80),
		minDays:   paramInt(params, "min_days", 2),
	}, nil
}

func (c *contrarian) Name() string             { return c.name }
func (c *contrarian) Assets() []string         { return nil }
func (c *contrarian) Venue() types.Venue       { return types.VenuePredictionMkt }
func (c *contrarian) Interval() types.Interval { return types.Interval5m }
func (c *contrarian) Docs() string {
	return "Fires against crowd consensus in a binary prediction market: SHORT yes above threshold, LONG yes below 1-threshold."
}

func (c *contrarian) Evaluate(snapshot types.MarketSnapshot) (*types.Signal, error) {
	var best *types.Signal
	bestConfidence := -1.0

	for _, m := range snapshot.PredictionMarkets {
		if m.EndDate != nil && time.Until(*m.EndDate) < time.Duration(c.minDays)*24*time.Hour {
			continue
		}

		yes, _ := m.YesPrice.Float64()

		var direction types.Direction
		var confidence float64

		switch {
		case yes > c.threshold:
			direction = types.DirectionShort
			confidence = clamp01((yes - c.threshold) / (1 - c.threshold))
		case yes < 1-c.threshold:
			direction = types.DirectionLong
			confidence = clamp01(((1 - c.threshold) - yes) / (1 - c.threshold))
		default:
			continue
		}

		if confidence > bestConfidence {
			bestConfidence = confidence
			best = &types.Signal{
				Ts: snapshot.Ts, Strategy: c.name, Asset: m.Asset, Venue: types.VenuePredictionMkt,
				Direction: direction, Confidence: confidence, EntryPrice: m.YesPrice,
				Metadata: map[string]any{"market_id": m.MarketID, "yes_price": yes},
			}
		}
	}

	return best, nil
}

package strategy

import (
	"github.com/rxtech-lab/papertrader/internal/types"
)

// fundingThreshold fires on the perp venue's latest funding rate: a rate
// above threshold means longs are paying a premium (crowd over-long) so the
// strategy goes SHORT; below -threshold it goes LONG.
type fundingThreshold struct {
	name      string
	threshold float64
}

// NewFundingRate builds the standard-threshold funding-rate strategy
// (spec.md default 0.0015).
func NewFundingRate(params map[string]any) (Strategy, error) {
	return &fundingThreshold{name: "funding_rate", threshold: paramFloat(params, "threshold", 0.0015)}, nil
}

// NewFundingArb builds the lower-threshold funding-rate variant, firing more
// often on smaller funding dislocations (spec.md default 0.0005).
func NewFundingArb(params map[string]any) (Strategy, error) {
	return &fundingThreshold{name: "funding_arb", threshold: paramFloat(params, "threshold", 0.0005)}, nil
}

func (f *fundingThreshold) Name() string             { return f.name }
func (f *fundingThreshold) Assets() []string         { return nil }
func (f *fundingThreshold) Venue() types.Venue       { return types.VenuePerp }
func (f *fundingThreshold) Interval() types.Interval { return types.Interval5m }
func (f *fundingThreshold) Docs() string {
	return "Trades against the latest perp funding rate: SHORT when funding > threshold, LONG when funding < -threshold."
}

func (f *fundingThreshold) Evaluate(snapshot types.MarketSnapshot) (*types.Signal, error) {
	if len(snapshot.Funding) == 0 {
		return nil, nil
	}

	latest := snapshot.Funding[len(snapshot.Funding)-1]
	rate, _ := latest.FundingRate.Float64()

	entry := latest.FundingRate
	if latest.MarkPrice != nil {
		entry = *latest.MarkPrice
	}

	var direction types.Direction
	switch {
	case rate > f.threshold:
		direction = types.DirectionShort
	case rate < -f.threshold:
		direction = types.DirectionLong
	default:
		return nil, nil
	}

	confidence := clamp01((absFloat(rate) - f.threshold) / f.threshold)

	return &types.Signal{
		Ts: snapshot.Ts, Strategy: f.name, Asset: snapshot.Asset, Venue: types.VenuePerp,
		Direction: direction, Confidence: confidence, EntryPrice: entry,
		Metadata: map[string]any{"funding_rate": rate},
	}, nil
}

// fundingOI fires only when the funding rate is extreme AND open interest is
// near its historical peak — a dual filter meant to avoid trading funding
// spikes that aren't backed by real positioning (spec.md Scenario 4).
type fundingOI struct {
	fundingThreshold float64
	oiPct            float64
}

// NewFundingOI builds the dual funding+OI filter strategy.
func NewFundingOI(params map[string]any) (Strategy, error) {
	return &fundingOI{
		fundingThreshold: paramFloat(params, "funding_threshold", 0.0015),
		oiPct:            paramFloat(params, "oi_pct", 85),
	}, nil
}

func (f *fundingOI) Name() string             { return "funding_oi" }
func (f *fundingOI) Assets() []string         { return nil }
func (f *fundingOI) Venue() types.Venue       { return types.VenuePerp }
func (f *fundingOI) Interval() types.Interval { return types.Interval5m }
func (f *fundingOI) Docs() string {
	return "Fires only when |funding rate| exceeds its threshold and current open interest exceeds oi_pct% of its historical peak."
}

func (f *fundingOI) Evaluate(snapshot types.MarketSnapshot) (*types.Signal, error) {
	if len(snapshot.Funding) == 0 {
		return nil, nil
	}

	current := snapshot.Funding[len(snapshot.Funding)-1]
	if current.OpenInterest == nil {
		return nil, nil
	}

	rate, _ := current.FundingRate.Float64()
	currentOI, _ := current.OpenInterest.Float64()

	historyPeak := 0.0
	for _, f := range snapshot.Funding[:len(snapshot.Funding)-1] {
		if f.OpenInterest == nil {
			continue
		}

		oi, _ := f.OpenInterest.Float64()
		if oi > historyPeak {
			historyPeak = oi
		}
	}

	if historyPeak == 0 {
		return nil, nil
	}

	oiRatio := (currentOI / historyPeak) * 100
	if oiRatio <= f.oiPct {
		return nil, nil
	}

	var direction types.Direction
	switch {
	case rate > f.fundingThreshold:
		direction = types.DirectionShort
	case rate < -f.fundingThreshold:
		direction = types.DirectionLong
	default:
		return nil, nil
	}

	entry := current.FundingRate
	if current.MarkPrice != nil {
		entry = *current.MarkPrice
	}

	confidence := clamp01((absFloat(rate)-f.fundingThreshold)/f.fundingThreshold) * clamp01(oiRatio/100)

	return &types.Signal{
		Ts: snapshot.Ts, Strategy: "funding_oi", Asset: snapshot.Asset, Venue: types.VenuePerp,
		Direction: direction, Confidence: confidence, EntryPrice: entry,
		Metadata: map[string]any{"funding_rate": rate, "oi_ratio_pct": oiRatio},
	}, nil
}

func absFloat(v float64) float64 {
	if v < 0 {
		return -v
	}

	return v
}

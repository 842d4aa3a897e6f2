package types

import (
	"time"

	"github.com/shopspring/decimal"
)

// Venue identifies one of the two external data sources the core depends on.
type Venue string

const (
	VenuePerp          Venue = "perp"
	VenuePredictionMkt Venue = "prediction_market"
)

// Interval is a candle bucket width, named the way the orchestrator's rate
// limiter names strategy evaluation intervals (see Interval.Seconds).
type Interval string

const (
	Interval1m  Interval = "1m"
	Interval5m  Interval = "5m"
	Interval10m Interval = "10m"
	Interval15m Interval = "15m"
	Interval1h  Interval = "1h"
)

// Seconds returns the wall-clock duration an interval represents. Unknown
// intervals return zero so callers can detect a misconfigured strategy.
func (i Interval) Seconds() int64 {
	switch i {
	case Interval1m:
		return 60
	case Interval5m:
		return 300
	case Interval10m:
		return 600
	case Interval15m:
		return 900
	case Interval1h:
		return 3600
	default:
		return 0
	}
}

// Candle is an immutable OHLCV bar for (venue, asset, interval, open_time).
type Candle struct {
	Venue    Venue           `json:"venue" db:"venue"`
	Asset    string          `json:"asset" db:"asset"`
	Interval Interval        `json:"interval" db:"interval"`
	OpenTime time.Time       `json:"open_time" db:"open_time"`
	Open     decimal.Decimal `json:"open" db:"open"`
	High     decimal.Decimal `json:"high" db:"high"`
	Low      decimal.Decimal `json:"low" db:"low"`
	Close    decimal.Decimal `json:"close" db:"close"`
	Volume   decimal.Decimal `json:"volume" db:"volume"`
}

// FundingSnapshot is an immutable perpetual-futures funding observation for
// (venue, asset, ts).
type FundingSnapshot struct {
	Venue        Venue            `json:"venue" db:"venue"`
	Asset        string           `json:"asset" db:"asset"`
	Ts           time.Time        `json:"ts" db:"ts"`
	FundingRate  decimal.Decimal  `json:"funding_rate" db:"funding_rate"`
	OpenInterest *decimal.Decimal `json:"open_interest,omitempty" db:"open_interest"`
	MarkPrice    *decimal.Decimal `json:"mark_price,omitempty" db:"mark_price"`
}

// PredictionMarketObservation is an immutable snapshot of a binary-outcome
// market for (market_id, ts).
type PredictionMarketObservation struct {
	MarketID  string          `json:"market_id" db:"market_id"`
	Ts        time.Time       `json:"ts" db:"ts"`
	Title     string          `json:"title" db:"title"`
	Asset     string          `json:"asset" db:"asset"`
	YesPrice  decimal.Decimal `json:"yes_price" db:"yes_price"`
	NoPrice   decimal.Decimal `json:"no_price" db:"no_price"`
	Volume24h decimal.Decimal `json:"volume_24h" db:"volume_24h"`
	Liquidity decimal.Decimal `json:"liquidity" db:"liquidity"`
	EndDate   *time.Time      `json:"end_date,omitempty" db:"end_date"`
}

// MarketSnapshot is the per-asset bundle a strategy evaluates. It must never
// be mutated by a strategy's Evaluate call.
type MarketSnapshot struct {
	Asset             string
	Ts                time.Time
	Candles           []Candle                      // oldest-first
	Funding           []FundingSnapshot             // oldest-first
	PredictionMarkets []PredictionMarketObservation // oldest-first
}

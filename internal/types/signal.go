package types

import (
	"time"

	"github.com/shopspring/decimal"
)

// Direction is the side of a signal or position.
type Direction string

const (
	DirectionLong  Direction = "LONG"
	DirectionShort Direction = "SHORT"
)

// Sign returns +1 for LONG and -1 for SHORT, used directly in PnL formulas.
func (d Direction) Sign() decimal.Decimal {
	if d == DirectionShort {
		return decimal.NewFromInt(-1)
	}

	return decimal.NewFromInt(1)
}

// Signal is emitted by a strategy on the orchestrator's tick and consumed
// exactly once by the paper engine scoped to its (venue, strategy).
type Signal struct {
	ID         int64           `json:"id" db:"id"`
	Ts         time.Time       `json:"ts" db:"ts"`
	Strategy   string          `json:"strategy" db:"strategy"`
	Asset      string          `json:"asset" db:"asset"`
	Venue      Venue           `json:"venue" db:"venue"`
	Direction  Direction       `json:"direction" db:"direction"`
	Confidence float64         `json:"confidence" db:"confidence"`
	EntryPrice decimal.Decimal `json:"entry_price" db:"entry_price"`
	Metadata   map[string]any  `json:"metadata" db:"metadata"`
	ActedOn    bool            `json:"acted_on" db:"acted_on"`
}

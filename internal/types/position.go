package types

import (
	"time"

	"github.com/shopspring/decimal"
)

// PositionStatus tracks whether a position is still under management.
type PositionStatus string

const (
	PositionStatusOpen   PositionStatus = "OPEN"
	PositionStatusClosed PositionStatus = "CLOSED"
)

// Exit reasons, in the priority order the engine evaluates them.
const (
	ExitReasonStopLoss   = "stop_loss"
	ExitReasonTakeProfit = "take_profit"
	ExitReasonTimeout    = "timeout"
)

// Position is a simulated paper-trading position. A closed position carries
// all of ExitPrice/ExitTs/ExitReason/RealisedPnL and Status=CLOSED; an open
// position carries none of them.
type Position struct {
	ID         int64           `json:"id" db:"id"`
	AccountID  int64           `json:"account_id" db:"account_id"`
	Strategy   string          `json:"strategy" db:"strategy"`
	Asset      string          `json:"asset" db:"asset"`
	Venue      Venue           `json:"venue" db:"venue"`
	Direction  Direction       `json:"direction" db:"direction"`
	EntryPrice decimal.Decimal `json:"entry_price" db:"entry_price"`
	EntryTs    time.Time       `json:"entry_ts" db:"entry_ts"`
	Quantity   decimal.Decimal `json:"quantity" db:"quantity"`

	ExitPrice   *decimal.Decimal `json:"exit_price,omitempty" db:"exit_price"`
	ExitTs      *time.Time       `json:"exit_ts,omitempty" db:"exit_ts"`
	ExitReason  *string          `json:"exit_reason,omitempty" db:"exit_reason"`
	RealisedPnL *decimal.Decimal `json:"realised_pnl,omitempty" db:"realised_pnl"`

	Status       PositionStatus `json:"status" db:"status"`
	SourceSignal *int64         `json:"source_signal_id,omitempty" db:"source_signal_id"`

	// Metadata records raw pre-slippage prices, slippage pct, fees, and
	// gross PnL for the open and (once closed) close legs.
	Metadata map[string]any `json:"metadata" db:"metadata"`
}

// IsOpen reports whether the position is still being managed by its engine.
func (p *Position) IsOpen() bool {
	return p.Status == PositionStatusOpen
}

// StrategyBreakdown is the per-strategy slice of an account's equity used in
// AccountMarkToMarket rows.
type StrategyBreakdown struct {
	Strategy      string          `json:"strategy"`
	RealisedPnL   decimal.Decimal `json:"realised_pnl"`
	UnrealisedPnL decimal.Decimal `json:"unrealised_pnl"`
	OpenPositions int             `json:"open_positions"`
}

// AccountMarkToMarket is an append-only point-in-time valuation of an
// account.
type AccountMarkToMarket struct {
	ID            int64               `json:"id" db:"id"`
	AccountID     int64               `json:"account_id" db:"account_id"`
	Ts            time.Time           `json:"ts" db:"ts"`
	TotalEquity   decimal.Decimal     `json:"total_equity" db:"total_equity"`
	UnrealisedPnL decimal.Decimal     `json:"unrealised_pnl" db:"unrealised_pnl"`
	RealisedPnL   decimal.Decimal     `json:"realised_pnl" db:"realised_pnl"`
	OpenPositions int                 `json:"open_positions" db:"open_positions"`
	PerStrategy   []StrategyBreakdown `json:"per_strategy" db:"per_strategy"`
}

package types

import (
	"time"

	"github.com/shopspring/decimal"
)

// Account is one paper-trading book scoped to a single (venue, strategy)
// pair. Account names are globally unique.
type Account struct {
	ID             int64           `json:"id" db:"id"`
	Name           string          `json:"name" db:"name"`
	Venue          Venue           `json:"venue" db:"venue"`
	Strategy       string          `json:"strategy" db:"strategy"`
	InitialCapital decimal.Decimal `json:"initial_capital" db:"initial_capital"`
	Active         bool            `json:"active" db:"active"`
	CreatedAt      time.Time       `json:"created_at" db:"created_at"`
}

// PortfolioGroup is a named bag of accounts used for aggregation only; it
// carries no independent capital of its own.
type PortfolioGroup struct {
	ID        int64     `json:"id" db:"id"`
	Name      string    `json:"name" db:"name"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// PortfolioMembership links an account to a portfolio group. Unique per
// (group, account) pair.
type PortfolioMembership struct {
	GroupID   int64 `json:"group_id" db:"group_id"`
	AccountID int64 `json:"account_id" db:"account_id"`
}

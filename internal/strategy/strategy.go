// Package strategy defines the pluggable strategy capability set and its
// process-wide registry (spec.md §4.3), plus the seven built-in strategies.
package strategy

import (
	"github.com/rxtech-lab/papertrader/internal/types"
)

// Strategy is the capability set a strategy class exposes: the assets and
// venue it applies to, its evaluation interval, documentation, and the pure
// evaluate operation. Evaluate must not mutate snapshot or any global state
// and must be deterministic given its inputs.
type Strategy interface {
	Name() string
	// Assets restricts evaluation to specific symbols; empty means every
	// configured asset is eligible.
	Assets() []string
	Venue() types.Venue
	Interval() types.Interval
	Docs() string
	Evaluate(snapshot types.MarketSnapshot) (*types.Signal, error)
}

// Constructor builds a Strategy instance from a keyword-addressable
// parameter bag; unset keys fall back to the class's defaults.
type Constructor func(params map[string]any) (Strategy, error)

package strategy

import (
	"sync"

	pkgerrors "github.com/rxtech-lab/papertrader/pkg/errors"
)

// Registry is a process-wide name -> constructor mapping. Duplicate
// registration under the same name fails at load time.
type Registry struct {
	mu           sync.RWMutex
	constructors map[string]Constructor
}

// NewRegistry builds an empty registry.
func NewRegistry() *Registry {
	return &Registry{constructors: make(map[string]Constructor)}
}

// Register adds a constructor under name. Returns ErrCodeStrategyAlreadyExists
// if name is already registered.
func (r *Registry) Register(name string, ctor Constructor) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.constructors[name]; exists {
		return pkgerrors.Newf(pkgerrors.ErrCodeStrategyAlreadyExists, "strategy %q already registered", name)
	}

	r.constructors[name] = ctor

	return nil
}

// Build instantiates the strategy registered under name with the given
// parameter bag.
func (r *Registry) Build(name string, params map[string]any) (Strategy, error) {
	r.mu.RLock()
	ctor, exists := r.constructors[name]
	r.mu.RUnlock()

	if !exists {
		return nil, pkgerrors.Newf(pkgerrors.ErrCodeStrategyNotFound, "strategy %q not registered", name)
	}

	s, err := ctor(params)
	if err != nil {
		return nil, pkgerrors.Wrapf(pkgerrors.ErrCodeStrategyConfigError, err, "construct strategy %q", name)
	}

	return s, nil
}

// Names lists every registered strategy name.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.constructors))
	for name := range r.constructors {
		names = append(names, name)
	}

	return names
}

// NewDefaultRegistry builds a registry with all seven built-in strategies
// registered under their canonical names.
func NewDefaultRegistry() *Registry {
	r := NewRegistry()

	_ = r.Register("contrarian_pure", NewContrarianPure)
	_ = r.Register("contrarian_strength", NewContrarianStrength)
	_ = r.Register("funding_rate", NewFundingRate)
	_ = r.Register("funding_arb", NewFundingArb)
	_ = r.Register("funding_oi", NewFundingOI)
	_ = r.Register("rsi_mean_reversion", NewRSIMeanReversion)
	_ = r.Register("momentum_breakout", NewMomentumBreakout)

	return r
}

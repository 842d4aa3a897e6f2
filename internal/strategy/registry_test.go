package strategy

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/rxtech-lab/papertrader/internal/types"
)

func TestRegistryDuplicateRegistrationFails(t *testing.T) {
	r := NewRegistry()
	ctor := func(params map[string]any) (Strategy, error) { return NewContrarianPure(params) }

	require.NoError(t, r.Register("x", ctor))
	err := r.Register("x", ctor)
	require.Error(t, err)
}

func TestRegistryBuildUnknownName(t *testing.T) {
	r := NewRegistry()
	_, err := r.Build("nope", nil)
	require.Error(t, err)
}

func TestDefaultRegistryHasSevenStrategies(t *testing.T) {
	r := NewDefaultRegistry()
	require.Len(t, r.Names(), 7)

	for _, name := range []string{
		"contrarian_pure", "contrarian_strength", "funding_rate", "funding_arb",
		"funding_oi", "rsi_mean_reversion", "momentum_breakout",
	} {
		s, err := r.Build(name, nil)
		require.NoError(t, err)
		require.Equal(t, name, s.Name())
	}
}

func TestDefaultRegistryVenues(t *testing.T) {
	r := NewDefaultRegistry()

	perp, err := r.Build("funding_rate", nil)
	require.NoError(t, err)
	require.Equal(t, types.VenuePerp, perp.Venue())

	pred, err := r.Build("contrarian_pure", nil)
	require.NoError(t, err)
	require.Equal(t, types.VenuePredictionMkt, pred.Venue())
}

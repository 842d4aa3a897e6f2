package paperengine

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"github.com/rxtech-lab/papertrader/internal/config"
	"github.com/rxtech-lab/papertrader/internal/logger"
	"github.com/rxtech-lab/papertrader/internal/store"
	"github.com/rxtech-lab/papertrader/internal/strategy"
)

type BootstrapTestSuite struct {
	suite.Suite
	st  *store.Store
	log *logger.Logger
	reg *strategy.Registry
}

func (s *BootstrapTestSuite) SetupTest() {
	log, err := logger.NewLogger()
	s.Require().NoError(err)
	s.log = log

	dsn := filepath.Join(s.T().TempDir(), "test.duckdb")
	st, err := store.Open(dsn, log)
	s.Require().NoError(err)
	s.st = st

	s.reg = strategy.NewDefaultRegistry()
}

func (s *BootstrapTestSuite) TearDownTest() {
	s.Require().NoError(s.st.Close())
}

func TestBootstrapSuite(t *testing.T) {
	suite.Run(t, new(BootstrapTestSuite))
}

func (s *BootstrapTestSuite) TestBootstrapSplitsCapitalAcrossEnabledPairs() {
	cfg := &config.Config{
		Paper: config.PaperConfig{InitialCapital: 10000},
		Strategies: map[string]config.StrategyConfig{
			"funding_rate":       {Enabled: true},
			"contrarian_pure":    {Enabled: true},
			"rsi_mean_reversion": {Enabled: false},
		},
	}

	accounts, err := Bootstrap(context.Background(), s.log, s.st, s.reg, cfg)
	s.Require().NoError(err)
	s.Require().Len(accounts, 2)

	for _, a := range accounts {
		require.True(s.T(), decimal.NewFromInt(5000).Equal(a.InitialCapital), "got %s", a.InitialCapital)
	}
}

func (s *BootstrapTestSuite) TestBootstrapNoopWhenAccountsExist() {
	cfg := &config.Config{
		Paper:      config.PaperConfig{InitialCapital: 10000},
		Strategies: map[string]config.StrategyConfig{"funding_rate": {Enabled: true}},
	}

	first, err := Bootstrap(context.Background(), s.log, s.st, s.reg, cfg)
	s.Require().NoError(err)
	s.Require().Len(first, 1)

	cfg.Strategies["contrarian_pure"] = config.StrategyConfig{Enabled: true}
	second, err := Bootstrap(context.Background(), s.log, s.st, s.reg, cfg)
	s.Require().NoError(err)
	s.Require().Len(second, 1, "bootstrap must not run again once accounts exist")
}

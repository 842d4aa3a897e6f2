package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/suite"
)

const sampleConfig = `
assets:
  - BTC
  - ETH
venues:
  perp:
    base_url: https://perp.example.com
    poll_interval_s: 5
  prediction_market:
    base_url: https://predictions.example.com
    poll_interval_s: 60
database:
  url: file:test.db
strategies:
  rsi_mean_reversion:
    enabled: true
    params:
      overbought: 70
paper:
  initial_capital: 10000
  risk_pct: 0.02
  default_stop_loss_pct: 0.02
  default_take_profit_pct: 0.04
  default_timeout_minutes: 240
  max_positions_per_strategy: 3
  max_total_exposure_pct: 0.5
  max_daily_loss_per_strategy: 500
  cooldown_after_loss_minutes: 30
  kelly_enabled: false
  kelly_safety_factor: 0.5
  kelly_base_win_prob: 0.5
  slippage_pct:
    perp: 0.001
  fee_pct:
    perp: 0.0005
  price_oracle_enabled: true
logging:
  level: info
  format: json
`

type ConfigTestSuite struct {
	suite.Suite
	path string
}

func TestConfigSuite(t *testing.T) {
	suite.Run(t, new(ConfigTestSuite))
}

func (suite *ConfigTestSuite) SetupTest() {
	dir := suite.T().TempDir()
	suite.path = filepath.Join(dir, "config.yaml")
	suite.Require().NoError(os.WriteFile(suite.path, []byte(sampleConfig), 0o644))
	lookupEnv = os.LookupEnv
}

func (suite *ConfigTestSuite) TestLoadValid() {
	cfg, err := Load(suite.path)
	suite.Require().NoError(err)
	suite.Equal([]string{"BTC", "ETH"}, cfg.Assets)
	suite.Equal("https://perp.example.com", cfg.Venues["perp"].BaseURL)
	suite.Equal("file:test.db", cfg.Database.URL)
	suite.True(cfg.Strategies["rsi_mean_reversion"].Enabled)
	suite.InDelta(10000.0, cfg.Paper.InitialCapital, 0)
	suite.Equal("json", cfg.Logging.Format)
}

func (suite *ConfigTestSuite) TestEnvOverrides() {
	lookupEnv = func(name string) (string, bool) {
		switch name {
		case "TRADING_DATABASE_URL":
			return "file:override.db", true
		case "TRADING_LOG_LEVEL":
			return "debug", true
		case "TRADING_LOG_FORMAT":
			return "console", true
		default:
			return "", false
		}
	}
	defer func() { lookupEnv = os.LookupEnv }()

	cfg, err := Load(suite.path)
	suite.Require().NoError(err)
	suite.Equal("file:override.db", cfg.Database.URL)
	suite.Equal("debug", cfg.Logging.Level)
	suite.Equal("console", cfg.Logging.Format)
}

func (suite *ConfigTestSuite) TestMissingFile() {
	_, err := Load(filepath.Join(suite.T().TempDir(), "missing.yaml"))
	suite.Error(err)
}

func (suite *ConfigTestSuite) TestInvalidConfigFailsValidation() {
	dir := suite.T().TempDir()
	path := filepath.Join(dir, "bad.yaml")
	suite.Require().NoError(os.WriteFile(path, []byte("assets: []\n"), 0o644))

	_, err := Load(path)
	suite.Error(err)
}

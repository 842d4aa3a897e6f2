// Package config loads the platform's YAML configuration file, applying
// TRADING_-prefixed environment overrides and validating the result before
// any task starts (spec: a configuration error at startup is fatal).
package config

import (
	"os"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"

	pkgerrors "github.com/rxtech-lab/papertrader/pkg/errors"
)

// VenueConfig describes one external venue's connection parameters.
type VenueConfig struct {
	BaseURL       string `mapstructure:"base_url" validate:"required"`
	PollIntervalS int    `mapstructure:"poll_interval_s" validate:"gte=0"`
}

// StrategyConfig is the per-strategy enable flag plus a free-form parameter
// bag the strategy constructor decodes.
type StrategyConfig struct {
	Enabled bool           `mapstructure:"enabled"`
	Params  map[string]any `mapstructure:"params"`
}

// PaperConfig holds every knob the paper engine and risk gate need.
type PaperConfig struct {
	InitialCapital           float64            `mapstructure:"initial_capital" validate:"gt=0"`
	RiskPct                  float64            `mapstructure:"risk_pct" validate:"gt=0,lte=1"`
	DefaultStopLossPct       float64            `mapstructure:"default_stop_loss_pct" validate:"gt=0,lt=1"`
	DefaultTakeProfitPct     float64            `mapstructure:"default_take_profit_pct" validate:"gt=0"`
	DefaultTimeoutMinutes    int                `mapstructure:"default_timeout_minutes" validate:"gt=0"`
	MaxPositionsPerStrategy  int                `mapstructure:"max_positions_per_strategy" validate:"gt=0"`
	MaxTotalExposurePct      float64            `mapstructure:"max_total_exposure_pct" validate:"gt=0"`
	MaxDailyLossPerStrategy  float64            `mapstructure:"max_daily_loss_per_strategy" validate:"gt=0"`
	CooldownAfterLossMinutes int                `mapstructure:"cooldown_after_loss_minutes" validate:"gte=0"`
	KellyEnabled             bool               `mapstructure:"kelly_enabled"`
	KellySafetyFactor        float64            `mapstructure:"kelly_safety_factor" validate:"gte=0,lte=1"`
	KellyBaseWinProb         float64            `mapstructure:"kelly_base_win_prob" validate:"gt=0,lt=1"`
	SlippagePct              map[string]float64 `mapstructure:"slippage_pct"`
	FeePct                   map[string]float64 `mapstructure:"fee_pct"`
	PriceOracleEnabled       bool               `mapstructure:"price_oracle_enabled"`
	PriceOracleStalenessS    map[string]int     `mapstructure:"price_oracle_staleness_s"`
}

// LoggingConfig selects the logger's level and output encoding.
type LoggingConfig struct {
	Level  string `mapstructure:"level" validate:"required"`
	Format string `mapstructure:"format" validate:"required,oneof=json console"`
}

// DatabaseConfig is the store connection string.
type DatabaseConfig struct {
	URL string `mapstructure:"url" validate:"required"`
}

// Config is the fully decoded, validated configuration for one process.
type Config struct {
	Assets     []string                  `mapstructure:"assets" validate:"required,min=1"`
	Venues     map[string]VenueConfig    `mapstructure:"venues" validate:"required,min=1,dive"`
	Database   DatabaseConfig            `mapstructure:"database" validate:"required"`
	Strategies map[string]StrategyConfig `mapstructure:"strategies"`
	Paper      PaperConfig               `mapstructure:"paper" validate:"required"`
	Logging    LoggingConfig             `mapstructure:"logging" validate:"required"`
}

// Load reads path (a YAML file) via viper, overlays TRADING_-prefixed
// environment variables, decodes into a Config, and validates it. Any
// failure here is a fatal startup error per spec.
func Load(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	setDefaults(v)

	v.SetEnvPrefix("trading")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.ErrCodeInvalidConfiguration, "read config file", err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.ErrCodeInvalidConfiguration, "decode config", err)
	}

	applyEnvOverrides(&cfg)

	validate := validator.New()
	if err := validate.Struct(&cfg); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.ErrCodeInvalidConfiguration, "validate config", err)
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("paper.risk_pct", 0.02)
	v.SetDefault("paper.default_stop_loss_pct", 0.02)
	v.SetDefault("paper.default_take_profit_pct", 0.04)
	v.SetDefault("paper.default_timeout_minutes", 240)
	v.SetDefault("paper.max_positions_per_strategy", 3)
	v.SetDefault("paper.max_total_exposure_pct", 0.5)
	v.SetDefault("paper.max_daily_loss_per_strategy", 500.0)
	v.SetDefault("paper.cooldown_after_loss_minutes", 30)
	v.SetDefault("paper.kelly_safety_factor", 0.5)
	v.SetDefault("paper.kelly_base_win_prob", 0.5)
	v.SetDefault("paper.price_oracle_enabled", true)
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")
}

// envOverride pairs an environment variable name with the config field it
// forces, per spec.md §6.
type envOverride struct {
	name  string
	apply func(cfg *Config, value string)
}

var envOverrides = []envOverride{
	{"TRADING_DATABASE_URL", func(cfg *Config, value string) { cfg.Database.URL = value }},
	{"TRADING_LOG_LEVEL", func(cfg *Config, value string) { cfg.Logging.Level = value }},
	{"TRADING_LOG_FORMAT", func(cfg *Config, value string) { cfg.Logging.Format = value }},
}

func applyEnvOverrides(cfg *Config) {
	for _, o := range envOverrides {
		if value, ok := lookupEnv(o.name); ok && value != "" {
			o.apply(cfg, value)
		}
	}
}

// lookupEnv is a seam so tests can inject overrides without mutating the
// real process environment; it delegates to os.LookupEnv in production.
var lookupEnv = os.LookupEnv

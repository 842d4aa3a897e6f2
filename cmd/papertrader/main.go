package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strings"
	"sync"
	"syscall"
	"time"

	"github.com/shopspring/decimal"
	"github.com/urfave/cli/v3"
	"go.uber.org/zap"

	"github.com/rxtech-lab/papertrader/internal/collector"
	"github.com/rxtech-lab/papertrader/internal/config"
	"github.com/rxtech-lab/papertrader/internal/logger"
	"github.com/rxtech-lab/papertrader/internal/oracle"
	"github.com/rxtech-lab/papertrader/internal/orchestrator"
	"github.com/rxtech-lab/papertrader/internal/paperengine"
	"github.com/rxtech-lab/papertrader/internal/snapshot"
	"github.com/rxtech-lab/papertrader/internal/store"
	"github.com/rxtech-lab/papertrader/internal/strategy"
	"github.com/rxtech-lab/papertrader/internal/types"
	"github.com/rxtech-lab/papertrader/internal/venue/perpstream"
	"github.com/rxtech-lab/papertrader/internal/venue/predictionmarket"
)

var configFlag = &cli.StringFlag{
	Name:    "config",
	Aliases: []string{"c"},
	Value:   "config.yaml",
	Usage:   "path to the platform's YAML configuration file",
}

func main() {
	cmd := &cli.Command{
		Name:  "papertrader",
		Usage: "multi-strategy paper-trading platform for perpetual-futures and prediction-market signals",
		Commands: []*cli.Command{
			{
				Name:   "run",
				Usage:  "run the oracle, collectors, orchestrator, and paper engines until stopped",
				Flags:  []cli.Flag{configFlag},
				Action: runAction,
			},
			{
				Name:   "migrate",
				Usage:  "apply the store schema and exit",
				Flags:  []cli.Flag{configFlag},
				Action: migrateAction,
			},
		},
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		log.Fatal(err)
	}
}

func migrateAction(ctx context.Context, cmd *cli.Command) error {
	cfg, err := config.Load(cmd.String("config"))
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	l, err := logger.New(cfg.Logging.Level, logger.Format(cfg.Logging.Format))
	if err != nil {
		return fmt.Errorf("build logger: %w", err)
	}
	defer l.Sync() //nolint:errcheck

	st, err := store.Open(cfg.Database.URL, l)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer st.Close()

	l.Info("schema migrated")

	return nil
}

func runAction(ctx context.Context, cmd *cli.Command) error {
	cfg, err := config.Load(cmd.String("config"))
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	l, err := logger.New(cfg.Logging.Level, logger.Format(cfg.Logging.Format))
	if err != nil {
		return fmt.Errorf("build logger: %w", err)
	}
	defer l.Sync() //nolint:errcheck

	st, err := store.Open(cfg.Database.URL, l)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer st.Close()

	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-sigCh
		l.Info("shutdown signal received")
		cancel()
	}()

	reg := strategy.NewDefaultRegistry()

	orc := buildOracle(l, st, cfg)
	orc.Start(runCtx)
	defer orc.Stop()

	startCollectors(runCtx, l, st, cfg)

	accounts, err := paperengine.Bootstrap(runCtx, l, st, reg, cfg)
	if err != nil {
		return fmt.Errorf("bootstrap accounts: %w", err)
	}

	strategies := buildEnabledStrategies(l, reg, cfg)
	builder := snapshot.New(st, 0, 0, 0)
	orch := orchestrator.New(l, st, builder, strategies, cfg.Assets)

	go orch.Run(runCtx)

	var wg sync.WaitGroup

	for _, acct := range accounts {
		eng := paperengine.New(l, st, orc, acct, engineConfigFor(cfg, acct.Venue))

		wg.Add(1)

		go func() {
			defer wg.Done()
			eng.Run(runCtx)
		}()
	}

	<-runCtx.Done()
	wg.Wait()

	return nil
}

func buildOracle(l *logger.Logger, st *store.Store, cfg *config.Config) *oracle.Oracle {
	var sub oracle.Subscriber

	if cfg.Paper.PriceOracleEnabled {
		if v, ok := cfg.Venues["perp"]; ok {
			sub = perpstream.NewStream(toWebsocketURL(v.BaseURL))
		}
	}

	streamStaleness := cfg.Paper.PriceOracleStalenessS["perp"]
	storeStaleness := cfg.Paper.PriceOracleStalenessS["prediction_market"]

	return oracle.New(l, st, sub, cfg.Assets, streamStaleness, storeStaleness)
}

func toWebsocketURL(baseURL string) string {
	u := strings.Replace(baseURL, "https://", "wss://", 1)
	return strings.Replace(u, "http://", "ws://", 1)
}

func startCollectors(ctx context.Context, l *logger.Logger, st *store.Store, cfg *config.Config) {
	if v, ok := cfg.Venues["perp"]; ok {
		client := perpstream.NewClient(v.BaseURL)
		period := pollPeriod(v.PollIntervalS, time.Minute)

		coll := collector.NewPerpCollector(l, st, client, cfg.Assets, types.Interval1m, period)

		go coll.Run(ctx)
	}

	if v, ok := cfg.Venues["prediction_market"]; ok {
		client := predictionmarket.NewClient(v.BaseURL)
		period := pollPeriod(v.PollIntervalS, time.Minute)

		coll := collector.NewPredictionMarketCollector(l, st, client, cfg.Assets, period)

		go coll.Run(ctx)
	}
}

func pollPeriod(seconds int, fallback time.Duration) time.Duration {
	if seconds <= 0 {
		return fallback
	}

	return time.Duration(seconds) * time.Second
}

func buildEnabledStrategies(l *logger.Logger, reg *strategy.Registry, cfg *config.Config) []strategy.Strategy {
	var out []strategy.Strategy

	for name, sc := range cfg.Strategies {
		if !sc.Enabled {
			continue
		}

		s, err := reg.Build(name, sc.Params)
		if err != nil {
			l.Error("skipping strategy", zap.String("strategy", name), zap.Error(err))
			continue
		}

		out = append(out, s)
	}

	return out
}

func engineConfigFor(cfg *config.Config, venue types.Venue) paperengine.EngineConfig {
	p := cfg.Paper

	return paperengine.EngineConfig{
		RiskPct: p.RiskPct, StopLossPct: p.DefaultStopLossPct, TakeProfitPct: p.DefaultTakeProfitPct,
		TimeoutMinutes: p.DefaultTimeoutMinutes, MaxPositionsPerStrategy: p.MaxPositionsPerStrategy,
		MaxTotalExposurePct: p.MaxTotalExposurePct,
		DailyLossLimit:      decimal.NewFromFloat(p.MaxDailyLossPerStrategy),
		CooldownMinutes:     p.CooldownAfterLossMinutes,
		KellyEnabled:        p.KellyEnabled, KellySafetyFactor: p.KellySafetyFactor, KellyBaseWinProb: p.KellyBaseWinProb,
		SlippagePct: p.SlippagePct[string(venue)], FeePct: p.FeePct[string(venue)],
	}
}

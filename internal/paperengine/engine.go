// Package paperengine runs one simulated trading book per account: it
// consumes the signals its (venue, strategy) pair produced, gates them
// through the risk subsystem, opens and manages positions with slippage and
// fees applied, and periodically marks the account to market (spec.md
// §4.5).
package paperengine

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/rxtech-lab/papertrader/internal/logger"
	"github.com/rxtech-lab/papertrader/internal/oracle"
	"github.com/rxtech-lab/papertrader/internal/risk"
	"github.com/rxtech-lab/papertrader/internal/store"
	"github.com/rxtech-lab/papertrader/internal/types"
	pkgerrors "github.com/rxtech-lab/papertrader/pkg/errors"
)

// TickPeriod is the engine's own cadence, matching the orchestrator's
// (spec.md §5).
const TickPeriod = 5 * time.Second

// mtmInterval gates how often WriteMarkToMarket actually writes a row.
const mtmInterval = 60 * time.Second

// EngineConfig carries the subset of paper.* configuration an engine needs,
// resolved for this engine's venue (slippage/fee/staleness are per-venue
// maps in config.PaperConfig).
type EngineConfig struct {
	RiskPct                 float64
	StopLossPct             float64
	TakeProfitPct           float64
	TimeoutMinutes          int
	MaxPositionsPerStrategy int
	MaxTotalExposurePct     float64
	DailyLossLimit          decimal.Decimal
	CooldownMinutes         int
	KellyEnabled            bool
	KellySafetyFactor       float64
	KellyBaseWinProb        float64
	SlippagePct             float64
	FeePct                  float64
}

// Engine is one account's trading book. It is not safe for concurrent use —
// spec.md §5 assigns each engine its own cooperative task and its own risk
// tracker.
type Engine struct {
	log     *logger.Logger
	st      *store.Store
	oracle  *oracle.Oracle
	account types.Account
	cfg     EngineConfig
	risk    *risk.Tracker
	lastMTM time.Time
}

// New builds an Engine scoped to account.
func New(log *logger.Logger, st *store.Store, orc *oracle.Oracle, account types.Account, cfg EngineConfig) *Engine {
	return &Engine{
		log:     log.Named("paperengine").Named(account.Name),
		st:      st,
		oracle:  orc,
		account: account,
		cfg:     cfg,
		risk:    risk.NewTracker(cfg.DailyLossLimit, cfg.CooldownMinutes),
	}
}

// Run ticks every TickPeriod until ctx is cancelled.
func (e *Engine) Run(ctx context.Context) {
	ticker := time.NewTicker(TickPeriod)
	defer ticker.Stop()

	e.Tick(ctx)

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			e.Tick(ctx)
		}
	}
}

// Tick runs one full engine cycle in the spec-mandated order:
// consume_signals -> open_position -> check_exits -> write_mark_to_market.
// Each step's failure is logged and does not prevent the next step from
// running.
func (e *Engine) Tick(ctx context.Context) {
	if err := e.consumeAndOpen(ctx); err != nil {
		e.log.Error("consume signals failed", zap.Error(err))
	}

	if err := e.checkExits(ctx); err != nil {
		e.log.Error("check exits failed", zap.Error(err))
	}

	if err := e.writeMarkToMarket(ctx); err != nil {
		e.log.Error("write mark-to-market failed", zap.Error(err))
	}
}

func (e *Engine) consumeAndOpen(ctx context.Context) error {
	signals, err := e.st.ConsumeSignals(ctx, e.account.Venue, e.account.Strategy)
	if err != nil {
		return err
	}

	for _, sig := range signals {
		e.handleSignal(ctx, sig)
	}

	return nil
}

func (e *Engine) handleSignal(ctx context.Context, sig types.Signal) {
	now := time.Now().UTC()

	if e.risk.IsStrategyPaused(e.account.Strategy, now) {
		e.logRejected(sig, "daily_loss_paused")
		return
	}

	if e.risk.IsInCooldown(e.account.Strategy, now) {
		e.logRejected(sig, "cooldown")
		return
	}

	open, err := e.st.OpenPositionsForAccount(ctx, e.account.ID)
	if err != nil {
		e.log.Error("load open positions failed", zap.Error(err))
		return
	}

	if risk.MaxPositionsExceeded(len(open), e.cfg.MaxPositionsPerStrategy) {
		e.logRejected(sig, "max_positions")
		return
	}

	equity, err := e.currentEquity(ctx)
	if err != nil {
		e.log.Error("load current equity failed", zap.Error(err))
		return
	}

	price, ok := e.oracle.GetPrice(ctx, sig.Asset, e.account.Venue)
	if !ok {
		e.log.Warn("no price available, skipping signal",
			zap.String("asset", sig.Asset), zap.Int64("signal_id", sig.ID))

		return
	}

	entryPrice := applyEntrySlippage(price, sig.Direction, e.cfg.SlippagePct)
	qty := e.sizePosition(equity, entryPrice, sig.Confidence)

	var openNotional decimal.Decimal
	for _, p := range open {
		openNotional = openNotional.Add(p.EntryPrice.Mul(p.Quantity))
	}

	newNotional := entryPrice.Mul(qty)
	if risk.MaxExposureExceeded(openNotional, newNotional, equity, e.cfg.MaxTotalExposurePct) {
		e.logRejected(sig, "max_exposure")
		return
	}

	signalID := sig.ID
	pos := types.Position{
		AccountID: e.account.ID, Strategy: e.account.Strategy, Asset: sig.Asset, Venue: e.account.Venue,
		Direction: sig.Direction, EntryPrice: entryPrice, EntryTs: now, Quantity: qty,
		Status: types.PositionStatusOpen, SourceSignal: &signalID,
		Metadata: map[string]any{
			"raw_entry_price":    price.String(),
			"entry_slippage_pct": e.cfg.SlippagePct,
		},
	}

	if _, err := e.st.InsertPosition(ctx, pos); err != nil {
		e.log.Error("insert position failed", zap.Error(err), zap.Int64("signal_id", sig.ID))
	}
}

func (e *Engine) logRejected(sig types.Signal, reason string) {
	e.log.Info("signal rejected",
		zap.Int64("signal_id", sig.ID), zap.String("asset", sig.Asset), zap.String("reason", reason))
}

// currentEquity uses the most recent mark-to-market's total equity, falling
// back to the account's initial capital when none has been written yet.
func (e *Engine) currentEquity(ctx context.Context) (decimal.Decimal, error) {
	mtm, err := e.st.LatestMTM(ctx, e.account.ID)
	if err != nil {
		if pkgerrors.HasCode(err, pkgerrors.ErrCodeDataNotFound) {
			return e.account.InitialCapital, nil
		}

		return decimal.Zero, err
	}

	return mtm.TotalEquity, nil
}

func (e *Engine) sizePosition(equity, entry decimal.Decimal, confidence float64) decimal.Decimal {
	if e.cfg.KellyEnabled {
		return kellyQty(equity, entry, confidence, e.cfg.KellyBaseWinProb, e.cfg.KellySafetyFactor,
			e.cfg.StopLossPct, e.cfg.TakeProfitPct, e.cfg.RiskPct)
	}

	return fixedFractionalQty(equity, entry, e.cfg.RiskPct, e.cfg.StopLossPct)
}

// applyEntrySlippage implements spec.md §4.5: LONG entry pays price.(1+s);
// SHORT entry receives price.(1-s).
func applyEntrySlippage(price decimal.Decimal, dir types.Direction, slippagePct float64) decimal.Decimal {
	s := decimal.NewFromFloat(slippagePct)
	if dir == types.DirectionShort {
		return price.Mul(decimal.NewFromInt(1).Sub(s))
	}

	return price.Mul(decimal.NewFromInt(1).Add(s))
}

// applyExitSlippage: LONG exit receives less, SHORT exit pays more.
func applyExitSlippage(price decimal.Decimal, dir types.Direction, slippagePct float64) decimal.Decimal {
	s := decimal.NewFromFloat(slippagePct)
	if dir == types.DirectionShort {
		return price.Mul(decimal.NewFromInt(1).Add(s))
	}

	return price.Mul(decimal.NewFromInt(1).Sub(s))
}

func (e *Engine) checkExits(ctx context.Context) error {
	open, err := e.st.OpenPositionsForAccount(ctx, e.account.ID)
	if err != nil {
		return err
	}

	now := time.Now().UTC()

	for _, pos := range open {
		price, ok := e.oracle.GetPrice(ctx, pos.Asset, pos.Venue)
		if !ok {
			continue
		}

		reason, exit := e.exitReason(pos, price, now)
		if !exit {
			continue
		}

		e.closePosition(ctx, pos, price, reason, now)
	}

	return nil
}

// exitReason evaluates stop_loss, then take_profit, then timeout, and
// short-circuits on the first that applies (spec.md §4.5).
func (e *Engine) exitReason(pos types.Position, price decimal.Decimal, now time.Time) (string, bool) {
	stopPct := decimal.NewFromFloat(e.cfg.StopLossPct)
	tpPct := decimal.NewFromFloat(e.cfg.TakeProfitPct)
	entry := pos.EntryPrice

	if pos.Direction == types.DirectionLong {
		stop := entry.Mul(decimal.NewFromInt(1).Sub(stopPct))
		tp := entry.Mul(decimal.NewFromInt(1).Add(tpPct))

		if price.LessThanOrEqual(stop) {
			return types.ExitReasonStopLoss, true
		}

		if price.GreaterThanOrEqual(tp) {
			return types.ExitReasonTakeProfit, true
		}
	} else {
		stop := entry.Mul(decimal.NewFromInt(1).Add(stopPct))
		tp := entry.Mul(decimal.NewFromInt(1).Sub(tpPct))

		if price.GreaterThanOrEqual(stop) {
			return types.ExitReasonStopLoss, true
		}

		if price.LessThanOrEqual(tp) {
			return types.ExitReasonTakeProfit, true
		}
	}

	if now.Sub(pos.EntryTs) >= time.Duration(e.cfg.TimeoutMinutes)*time.Minute {
		return types.ExitReasonTimeout, true
	}

	return "", false
}

func (e *Engine) closePosition(ctx context.Context, pos types.Position, price decimal.Decimal, reason string, now time.Time) {
	exitPrice := applyExitSlippage(price, pos.Direction, e.cfg.SlippagePct)

	grossPnL := pos.Direction.Sign().Mul(exitPrice.Sub(pos.EntryPrice)).Mul(pos.Quantity)
	entryNotional := pos.EntryPrice.Mul(pos.Quantity)
	exitNotional := exitPrice.Mul(pos.Quantity)
	fees := entryNotional.Add(exitNotional).Mul(decimal.NewFromFloat(e.cfg.FeePct))
	netPnL := grossPnL.Sub(fees)

	metaMerge := map[string]any{
		"raw_exit_price":    price.String(),
		"exit_slippage_pct": e.cfg.SlippagePct,
		"fees":              fees.String(),
		"gross_pnl":         grossPnL.String(),
	}

	if err := e.st.ClosePosition(ctx, pos.ID, exitPrice, now, reason, netPnL, metaMerge); err != nil {
		e.log.Error("close position failed", zap.Error(err), zap.Int64("position_id", pos.ID))
		return
	}

	e.risk.RecordClose(e.account.Strategy, netPnL, now)
}

// writeMarkToMarket writes one AccountMarkToMarket row at most once every
// mtmInterval.
func (e *Engine) writeMarkToMarket(ctx context.Context) error {
	now := time.Now().UTC()
	if !e.lastMTM.IsZero() && now.Sub(e.lastMTM) < mtmInterval {
		return nil
	}

	closed, err := e.st.ClosedPositionsForAccount(ctx, e.account.ID)
	if err != nil {
		return err
	}

	open, err := e.st.OpenPositionsForAccount(ctx, e.account.ID)
	if err != nil {
		return err
	}

	var realised decimal.Decimal
	for _, p := range closed {
		if p.RealisedPnL != nil {
			realised = realised.Add(*p.RealisedPnL)
		}
	}

	var unrealised decimal.Decimal
	for _, p := range open {
		price, ok := e.oracle.GetPrice(ctx, p.Asset, p.Venue)
		if !ok {
			continue
		}

		gross := p.Direction.Sign().Mul(price.Sub(p.EntryPrice)).Mul(p.Quantity)
		entryNotional := p.EntryPrice.Mul(p.Quantity)
		currentNotional := price.Mul(p.Quantity)
		estimatedFees := entryNotional.Add(currentNotional).Mul(decimal.NewFromFloat(e.cfg.FeePct))
		unrealised = unrealised.Add(gross.Sub(estimatedFees))
	}

	totalEquity := e.account.InitialCapital.Add(realised).Add(unrealised)

	mtm := types.AccountMarkToMarket{
		AccountID: e.account.ID, Ts: now, TotalEquity: totalEquity,
		UnrealisedPnL: unrealised, RealisedPnL: realised, OpenPositions: len(open),
		PerStrategy: []types.StrategyBreakdown{
			{Strategy: e.account.Strategy, RealisedPnL: realised, UnrealisedPnL: unrealised, OpenPositions: len(open)},
		},
	}

	if _, err := e.st.InsertMTM(ctx, mtm); err != nil {
		return err
	}

	e.lastMTM = now

	return nil
}

package paperengine

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/rxtech-lab/papertrader/internal/config"
	"github.com/rxtech-lab/papertrader/internal/logger"
	"github.com/rxtech-lab/papertrader/internal/store"
	"github.com/rxtech-lab/papertrader/internal/strategy"
	"github.com/rxtech-lab/papertrader/internal/types"
)

// Bootstrap creates one account per enabled (strategy, venue) pair,
// splitting the configured initial capital evenly across them, if no
// accounts exist yet. If accounts already exist it returns the active ones
// untouched (spec.md §4.5 Bootstrap).
func Bootstrap(ctx context.Context, log *logger.Logger, st *store.Store, reg *strategy.Registry, cfg *config.Config) ([]types.Account, error) {
	count, err := st.CountAccounts(ctx)
	if err != nil {
		return nil, err
	}

	if count > 0 {
		return st.ListActiveAccounts(ctx)
	}

	names := make([]string, 0, len(cfg.Strategies))
	for name := range cfg.Strategies {
		names = append(names, name)
	}

	sort.Strings(names)

	type pair struct {
		strategyName string
		venue        types.Venue
	}

	var pairs []pair

	for _, name := range names {
		sc := cfg.Strategies[name]
		if !sc.Enabled {
			continue
		}

		s, err := reg.Build(name, sc.Params)
		if err != nil {
			log.Error("skipping strategy during bootstrap", zap.String("strategy", name), zap.Error(err))
			continue
		}

		pairs = append(pairs, pair{strategyName: name, venue: s.Venue()})
	}

	if len(pairs) == 0 {
		return nil, nil
	}

	capitalEach := decimal.NewFromFloat(cfg.Paper.InitialCapital).Div(decimal.NewFromInt(int64(len(pairs))))
	now := time.Now().UTC()

	accounts := make([]types.Account, 0, len(pairs))

	for _, p := range pairs {
		acct := types.Account{
			Name: fmt.Sprintf("%s-%s", p.strategyName, p.venue), Venue: p.venue, Strategy: p.strategyName,
			InitialCapital: capitalEach, Active: true, CreatedAt: now,
		}

		id, err := st.CreateAccount(ctx, acct)
		if err != nil {
			return nil, err
		}

		acct.ID = id
		accounts = append(accounts, acct)
	}

	return accounts, nil
}

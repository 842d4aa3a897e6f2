package store

import (
	"context"
	"database/sql"
	"encoding/json"

	"github.com/rxtech-lab/papertrader/internal/types"
	pkgerrors "github.com/rxtech-lab/papertrader/pkg/errors"
)

// InsertMTM records a mark-to-market snapshot for an account. The paper
// engine writes one of these per account on its periodic valuation tick.
func (s *Store) InsertMTM(ctx context.Context, m types.AccountMarkToMarket) (int64, error) {
	breakdown, err := json.Marshal(m.PerStrategy)
	if err != nil {
		return 0, wrapQueryErr("marshal mtm breakdown", err)
	}

	row := s.db.QueryRowContext(ctx, `
		INSERT INTO account_mark_to_market
			(account_id, ts, total_equity, unrealised_pnl, realised_pnl, open_positions, per_strategy)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		RETURNING id
	`, m.AccountID, m.Ts, m.TotalEquity.String(), m.UnrealisedPnL.String(), m.RealisedPnL.String(),
		m.OpenPositions, string(breakdown))

	var id int64
	err = row.Scan(&id)

	return id, wrapQueryErr("insert mtm", err)
}

// LatestMTM returns the most recent mark-to-market row for accountID.
func (s *Store) LatestMTM(ctx context.Context, accountID int64) (types.AccountMarkToMarket, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, account_id, ts, total_equity, unrealised_pnl, realised_pnl, open_positions, per_strategy
		FROM account_mark_to_market WHERE account_id = ? ORDER BY ts DESC LIMIT 1
	`, accountID)

	return scanMTM(row)
}

// LatestMTMForAccounts returns the most recent mark-to-market row for each of
// the given account ids, keyed by account id — the basis for portfolio-group
// aggregation (spec.md Scenario 6: total_equity sums across member accounts).
func (s *Store) LatestMTMForAccounts(ctx context.Context, accountIDs []int64) (map[int64]types.AccountMarkToMarket, error) {
	out := make(map[int64]types.AccountMarkToMarket, len(accountIDs))

	for _, id := range accountIDs {
		m, err := s.LatestMTM(ctx, id)
		if err != nil {
			if pkgerrors.HasCode(err, pkgerrors.ErrCodeDataNotFound) {
				continue
			}

			return nil, err
		}

		out[id] = m
	}

	return out, nil
}

func scanMTM(row *sql.Row) (types.AccountMarkToMarket, error) {
	var m types.AccountMarkToMarket
	var equity, unrealised, realised, breakdown string

	err := row.Scan(&m.ID, &m.AccountID, &m.Ts, &equity, &unrealised, &realised, &m.OpenPositions, &breakdown)
	if err != nil {
		if err == sql.ErrNoRows {
			return m, pkgerrors.New(pkgerrors.ErrCodeDataNotFound, "no mtm snapshot for account")
		}

		return m, wrapQueryErr("scan mtm", err)
	}

	m.TotalEquity = mustDec(equity)
	m.UnrealisedPnL = mustDec(unrealised)
	m.RealisedPnL = mustDec(realised)
	_ = json.Unmarshal([]byte(breakdown), &m.PerStrategy)

	return m, nil
}

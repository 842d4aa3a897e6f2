package store

import (
	"context"
	"database/sql"
	"time"

	"github.com/rxtech-lab/papertrader/internal/types"
	pkgerrors "github.com/rxtech-lab/papertrader/pkg/errors"
)

// CreateAccount inserts a new account. Account names are globally unique; a
// duplicate name returns ErrCodeAccountAlreadyExists rather than silently
// upserting, since an account's identity (venue+strategy+capital split) is
// set exactly once at creation.
func (s *Store) CreateAccount(ctx context.Context, a types.Account) (int64, error) {
	row := s.db.QueryRowContext(ctx, `
		INSERT INTO accounts (name, venue, strategy, initial_capital, active, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT (name) DO NOTHING
		RETURNING id
	`, a.Name, string(a.Venue), a.Strategy, a.InitialCapital.String(), a.Active, a.CreatedAt)

	var id int64
	if err := row.Scan(&id); err != nil {
		if err == sql.ErrNoRows {
			return 0, pkgerrors.Newf(pkgerrors.ErrCodeAccountAlreadyExists, "account %q already exists", a.Name)
		}

		return 0, wrapQueryErr("create account", err)
	}

	return id, nil
}

// ListActiveAccounts returns every account with active=true; the paper
// engine spawns one instance per row.
func (s *Store) ListActiveAccounts(ctx context.Context) ([]types.Account, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, venue, strategy, initial_capital, active, created_at
		FROM accounts WHERE active = TRUE ORDER BY id ASC
	`)
	if err != nil {
		return nil, wrapQueryErr("list active accounts", err)
	}
	defer rows.Close()

	var out []types.Account
	for rows.Next() {
		var a types.Account
		var venue, capital string
		if err := rows.Scan(&a.ID, &a.Name, &venue, &a.Strategy, &capital, &a.Active, &a.CreatedAt); err != nil {
			return nil, wrapQueryErr("scan account", err)
		}
		a.Venue = types.Venue(venue)
		a.InitialCapital = mustDec(capital)
		out = append(out, a)
	}

	return out, wrapQueryErr("iterate accounts", rows.Err())
}

// CountAccounts returns the total number of accounts regardless of status,
// used to decide whether the bootstrap step should run.
func (s *Store) CountAccounts(ctx context.Context) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM accounts`).Scan(&n)

	return n, wrapQueryErr("count accounts", err)
}

// CreatePortfolioGroup inserts a named, capital-less aggregation group.
func (s *Store) CreatePortfolioGroup(ctx context.Context, name string) (int64, error) {
	row := s.db.QueryRowContext(ctx, `
		INSERT INTO portfolio_groups (name, created_at) VALUES (?, ?)
		ON CONFLICT (name) DO UPDATE SET name = excluded.name
		RETURNING id
	`, name, time.Now().UTC())

	var id int64
	err := row.Scan(&id)

	return id, wrapQueryErr("create portfolio group", err)
}

// AddPortfolioMember links an account to a group, unique per (group, account).
func (s *Store) AddPortfolioMember(ctx context.Context, groupID, accountID int64) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO portfolio_memberships (group_id, account_id) VALUES (?, ?)
		ON CONFLICT (group_id, account_id) DO NOTHING
	`, groupID, accountID)

	return wrapQueryErr("add portfolio member", err)
}

// GroupAccountIDs returns the member account ids of a portfolio group.
func (s *Store) GroupAccountIDs(ctx context.Context, groupID int64) ([]int64, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT account_id FROM portfolio_memberships WHERE group_id = ?`, groupID)
	if err != nil {
		return nil, wrapQueryErr("group account ids", err)
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, wrapQueryErr("scan group account id", err)
		}
		ids = append(ids, id)
	}

	return ids, wrapQueryErr("iterate group account ids", rows.Err())
}

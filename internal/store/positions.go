package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"

	"github.com/rxtech-lab/papertrader/internal/types"
)

// InsertPosition inserts a new OPEN position and returns its id.
func (s *Store) InsertPosition(ctx context.Context, p types.Position) (int64, error) {
	meta, err := json.Marshal(p.Metadata)
	if err != nil {
		return 0, wrapQueryErr("marshal position metadata", err)
	}

	row := s.db.QueryRowContext(ctx, `
		INSERT INTO positions
			(account_id, strategy, asset, venue, direction, entry_price, entry_ts, quantity,
			 status, source_signal_id, metadata)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		RETURNING id
	`, p.AccountID, p.Strategy, p.Asset, string(p.Venue), string(p.Direction),
		p.EntryPrice.String(), p.EntryTs, p.Quantity.String(), string(types.PositionStatusOpen),
		p.SourceSignal, string(meta))

	var id int64
	err = row.Scan(&id)

	return id, wrapQueryErr("insert position", err)
}

// ClosePosition applies the close leg to a position: exit price/ts/reason,
// realised PnL, status=CLOSED, and a metadata merge (raw exit price, exit
// slippage, fees, gross PnL).
func (s *Store) ClosePosition(ctx context.Context, id int64, exitPrice decimal.Decimal, exitTs time.Time, exitReason string, realisedPnL decimal.Decimal, metaMerge map[string]any) error {
	existing, err := s.getPositionMetadata(ctx, id)
	if err != nil {
		return err
	}

	for k, v := range metaMerge {
		existing[k] = v
	}

	meta, err := json.Marshal(existing)
	if err != nil {
		return wrapQueryErr("marshal close metadata", err)
	}

	_, err = s.db.ExecContext(ctx, `
		UPDATE positions SET exit_price = ?, exit_ts = ?, exit_reason = ?, realised_pnl = ?,
			status = ?, metadata = ?
		WHERE id = ?
	`, exitPrice.String(), exitTs, exitReason, realisedPnL.String(), string(types.PositionStatusClosed), string(meta), id)

	return wrapQueryErr("close position", err)
}

func (s *Store) getPositionMetadata(ctx context.Context, id int64) (map[string]any, error) {
	var raw string
	if err := s.db.QueryRowContext(ctx, `SELECT metadata FROM positions WHERE id = ?`, id).Scan(&raw); err != nil {
		return nil, wrapQueryErr("load position metadata", err)
	}

	meta := map[string]any{}
	_ = json.Unmarshal([]byte(raw), &meta)

	return meta, nil
}

// OpenPositionsForAccount returns every OPEN position owned by accountID.
func (s *Store) OpenPositionsForAccount(ctx context.Context, accountID int64) ([]types.Position, error) {
	return s.queryPositions(ctx, `
		SELECT id, account_id, strategy, asset, venue, direction, entry_price, entry_ts, quantity,
			exit_price, exit_ts, exit_reason, realised_pnl, status, source_signal_id, metadata
		FROM positions WHERE account_id = ? AND status = ?
	`, accountID, string(types.PositionStatusOpen))
}

// ClosedPositionsForAccount returns every CLOSED position owned by accountID.
func (s *Store) ClosedPositionsForAccount(ctx context.Context, accountID int64) ([]types.Position, error) {
	return s.queryPositions(ctx, `
		SELECT id, account_id, strategy, asset, venue, direction, entry_price, entry_ts, quantity,
			exit_price, exit_ts, exit_reason, realised_pnl, status, source_signal_id, metadata
		FROM positions WHERE account_id = ? AND status = ?
	`, accountID, string(types.PositionStatusClosed))
}

// OpenPositionCountForStrategy counts OPEN positions for a strategy across
// all accounts.
func (s *Store) OpenPositionCountForStrategy(ctx context.Context, strategy string) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM positions WHERE strategy = ? AND status = ?
	`, strategy, string(types.PositionStatusOpen)).Scan(&n)

	return n, wrapQueryErr("count open positions for strategy", err)
}

func (s *Store) queryPositions(ctx context.Context, query string, args ...any) ([]types.Position, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, wrapQueryErr("query positions", err)
	}
	defer rows.Close()

	var out []types.Position
	for rows.Next() {
		p, err := scanPosition(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}

	return out, wrapQueryErr("iterate positions", rows.Err())
}

func scanPosition(rows *sql.Rows) (types.Position, error) {
	var p types.Position
	var venue, direction, entry, qty, status, meta string
	var exitPrice, realised sql.NullString
	var exitTs sql.NullTime
	var exitReason sql.NullString
	var sourceSignal sql.NullInt64

	if err := rows.Scan(&p.ID, &p.AccountID, &p.Strategy, &p.Asset, &venue, &direction, &entry, &p.EntryTs,
		&qty, &exitPrice, &exitTs, &exitReason, &realised, &status, &sourceSignal, &meta); err != nil {
		return p, wrapQueryErr("scan position", err)
	}

	p.Venue = types.Venue(venue)
	p.Direction = types.Direction(direction)
	p.EntryPrice = mustDec(entry)
	p.Quantity = mustDec(qty)
	p.Status = types.PositionStatus(status)

	if exitPrice.Valid {
		d := mustDec(exitPrice.String)
		p.ExitPrice = &d
	}
	if exitTs.Valid {
		t := exitTs.Time
		p.ExitTs = &t
	}
	if exitReason.Valid {
		r := exitReason.String
		p.ExitReason = &r
	}
	if realised.Valid {
		d := mustDec(realised.String)
		p.RealisedPnL = &d
	}
	if sourceSignal.Valid {
		id := sourceSignal.Int64
		p.SourceSignal = &id
	}

	p.Metadata = map[string]any{}
	_ = json.Unmarshal([]byte(meta), &p.Metadata)

	return p, nil
}

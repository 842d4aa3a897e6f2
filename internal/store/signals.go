package store

import (
	"context"
	"encoding/json"

	"github.com/rxtech-lab/papertrader/internal/types"
)

// InsertSignal appends a new signal row with acted_on=false.
func (s *Store) InsertSignal(ctx context.Context, sig types.Signal) (int64, error) {
	meta, err := json.Marshal(sig.Metadata)
	if err != nil {
		return 0, wrapQueryErr("marshal signal metadata", err)
	}

	row := s.db.QueryRowContext(ctx, `
		INSERT INTO signals (ts, strategy, asset, venue, direction, confidence, entry_price, metadata, acted_on)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, FALSE)
		RETURNING id
	`, sig.Ts, sig.Strategy, sig.Asset, string(sig.Venue), string(sig.Direction),
		sig.Confidence, sig.EntryPrice.String(), string(meta))

	var id int64
	if err := row.Scan(&id); err != nil {
		return 0, wrapQueryErr("insert signal", err)
	}

	return id, nil
}

// ConsumeSignals selects every unconsumed signal for (venue, strategy)
// ordered by ts, marks them acted_on=true, and returns them — atomically,
// within a single transaction, so the same signal is never handed to two
// engines.
func (s *Store) ConsumeSignals(ctx context.Context, venue types.Venue, strategy string) ([]types.Signal, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, wrapQueryErr("begin consume-signals tx", err)
	}
	defer tx.Rollback() //nolint:errcheck // rollback after commit is a no-op

	rows, err := tx.QueryContext(ctx, `
		SELECT id, ts, strategy, asset, venue, direction, confidence, entry_price, metadata
		FROM signals
		WHERE acted_on = FALSE AND venue = ? AND strategy = ?
		ORDER BY ts ASC
	`, string(venue), strategy)
	if err != nil {
		return nil, wrapQueryErr("select unconsumed signals", err)
	}

	var out []types.Signal
	for rows.Next() {
		var sig types.Signal
		var v, dir, entry, meta string
		if err := rows.Scan(&sig.ID, &sig.Ts, &sig.Strategy, &sig.Asset, &v, &dir, &sig.Confidence, &entry, &meta); err != nil {
			rows.Close()
			return nil, wrapQueryErr("scan signal", err)
		}
		sig.Venue = types.Venue(v)
		sig.Direction = types.Direction(dir)
		sig.EntryPrice = mustDec(entry)
		_ = json.Unmarshal([]byte(meta), &sig.Metadata)
		sig.ActedOn = true
		out = append(out, sig)
	}
	rows.Close()

	if err := rows.Err(); err != nil {
		return nil, wrapQueryErr("iterate signals", err)
	}

	if len(out) > 0 {
		ids := make([]any, 0, len(out))
		for _, sig := range out {
			ids = append(ids, sig.ID)
		}

		placeholders := placeholderList(len(ids))
		if _, err := tx.ExecContext(ctx, `UPDATE signals SET acted_on = TRUE WHERE id IN (`+placeholders+`)`, ids...); err != nil {
			return nil, wrapQueryErr("mark signals acted_on", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, wrapQueryErr("commit consume-signals tx", err)
	}

	return out, nil
}

func placeholderList(n int) string {
	if n == 0 {
		return ""
	}

	s := make([]byte, 0, n*2-1)
	for i := 0; i < n; i++ {
		if i > 0 {
			s = append(s, ',')
		}
		s = append(s, '?')
	}

	return string(s)
}

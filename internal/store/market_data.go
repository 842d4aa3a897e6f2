package store

import (
	"context"
	"database/sql"
	"time"

	"github.com/shopspring/decimal"

	"github.com/rxtech-lab/papertrader/internal/types"
	pkgerrors "github.com/rxtech-lab/papertrader/pkg/errors"
)

// UpsertCandle inserts a candle, overwriting OHLCV if one already exists
// for the same (venue, asset, interval, open_time) — collecting the same
// bar twice must produce exactly one row.
func (s *Store) UpsertCandle(ctx context.Context, c types.Candle) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO candles (venue, asset, interval, open_time, open, high, low, close, volume)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (venue, asset, interval, open_time)
		DO UPDATE SET open = excluded.open, high = excluded.high, low = excluded.low,
			close = excluded.close, volume = excluded.volume
	`, string(c.Venue), c.Asset, string(c.Interval), c.OpenTime,
		c.Open.String(), c.High.String(), c.Low.String(), c.Close.String(), c.Volume.String())

	return wrapQueryErr("upsert candle", err)
}

// RecentCandles returns the most recent n candles for asset, oldest-first.
func (s *Store) RecentCandles(ctx context.Context, asset string, n int) ([]types.Candle, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT venue, asset, interval, open_time, open, high, low, close, volume
		FROM candles WHERE asset = ? ORDER BY open_time DESC LIMIT ?
	`, asset, n)
	if err != nil {
		return nil, wrapQueryErr("recent candles", err)
	}
	defer rows.Close()

	var out []types.Candle
	for rows.Next() {
		var c types.Candle
		var venue, interval string
		var open, high, low, close_, volume string
		if err := rows.Scan(&venue, &c.Asset, &interval, &c.OpenTime, &open, &high, &low, &close_, &volume); err != nil {
			return nil, wrapQueryErr("scan candle", err)
		}
		c.Venue = types.Venue(venue)
		c.Interval = types.Interval(interval)
		c.Open = mustDec(open)
		c.High = mustDec(high)
		c.Low = mustDec(low)
		c.Close = mustDec(close_)
		c.Volume = mustDec(volume)
		out = append(out, c)
	}

	reverse(out)

	return out, wrapQueryErr("iterate candles", rows.Err())
}

// UpsertFunding inserts a funding snapshot, idempotent on (venue, asset, ts).
func (s *Store) UpsertFunding(ctx context.Context, f types.FundingSnapshot) error {
	var oi, mp sql.NullString
	if f.OpenInterest != nil {
		oi = sql.NullString{String: f.OpenInterest.String(), Valid: true}
	}
	if f.MarkPrice != nil {
		mp = sql.NullString{String: f.MarkPrice.String(), Valid: true}
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO funding_snapshots (venue, asset, ts, funding_rate, open_interest, mark_price)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT (venue, asset, ts)
		DO UPDATE SET funding_rate = excluded.funding_rate, open_interest = excluded.open_interest,
			mark_price = excluded.mark_price
	`, string(f.Venue), f.Asset, f.Ts, f.FundingRate.String(), oi, mp)

	return wrapQueryErr("upsert funding", err)
}

// RecentFunding returns funding observations for asset in the last `since`
// window, oldest-first.
func (s *Store) RecentFunding(ctx context.Context, asset string, since time.Time) ([]types.FundingSnapshot, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT venue, asset, ts, funding_rate, open_interest, mark_price
		FROM funding_snapshots WHERE asset = ? AND ts >= ? ORDER BY ts ASC
	`, asset, since)
	if err != nil {
		return nil, wrapQueryErr("recent funding", err)
	}
	defer rows.Close()

	var out []types.FundingSnapshot
	for rows.Next() {
		var f types.FundingSnapshot
		var venue, rate string
		var oi, mp sql.NullString
		if err := rows.Scan(&venue, &f.Asset, &f.Ts, &rate, &oi, &mp); err != nil {
			return nil, wrapQueryErr("scan funding", err)
		}
		f.Venue = types.Venue(venue)
		f.FundingRate = mustDec(rate)
		if oi.Valid {
			d := mustDec(oi.String)
			f.OpenInterest = &d
		}
		if mp.Valid {
			d := mustDec(mp.String)
			f.MarkPrice = &d
		}
		out = append(out, f)
	}

	return out, wrapQueryErr("iterate funding", rows.Err())
}

// UpsertPredictionMarket inserts a prediction-market observation, idempotent
// on (market_id, ts).
func (s *Store) UpsertPredictionMarket(ctx context.Context, p types.PredictionMarketObservation) error {
	var end sql.NullTime
	if p.EndDate != nil {
		end = sql.NullTime{Time: *p.EndDate, Valid: true}
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO prediction_market_observations
			(market_id, ts, title, asset, yes_price, no_price, volume_24h, liquidity, end_date)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (market_id, ts)
		DO UPDATE SET title = excluded.title, yes_price = excluded.yes_price,
			no_price = excluded.no_price, volume_24h = excluded.volume_24h,
			liquidity = excluded.liquidity, end_date = excluded.end_date
	`, p.MarketID, p.Ts, p.Title, p.Asset, p.YesPrice.String(), p.NoPrice.String(),
		p.Volume24h.String(), p.Liquidity.String(), end)

	return wrapQueryErr("upsert prediction market", err)
}

// RecentPredictionMarkets returns the most recent m observations for asset,
// oldest-first.
func (s *Store) RecentPredictionMarkets(ctx context.Context, asset string, m int) ([]types.PredictionMarketObservation, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT market_id, ts, title, asset, yes_price, no_price, volume_24h, liquidity, end_date
		FROM prediction_market_observations WHERE asset = ? ORDER BY ts DESC LIMIT ?
	`, asset, m)
	if err != nil {
		return nil, wrapQueryErr("recent prediction markets", err)
	}
	defer rows.Close()

	var out []types.PredictionMarketObservation
	for rows.Next() {
		var p types.PredictionMarketObservation
		var yes, no, vol, liq string
		var end sql.NullTime
		if err := rows.Scan(&p.MarketID, &p.Ts, &p.Title, &p.Asset, &yes, &no, &vol, &liq, &end); err != nil {
			return nil, wrapQueryErr("scan prediction market", err)
		}
		p.YesPrice = mustDec(yes)
		p.NoPrice = mustDec(no)
		p.Volume24h = mustDec(vol)
		p.Liquidity = mustDec(liq)
		if end.Valid {
			t := end.Time
			p.EndDate = &t
		}
		out = append(out, p)
	}

	reverse(out)

	return out, wrapQueryErr("iterate prediction markets", rows.Err())
}

// LatestPredictionMarketPrice returns the most recent non-null yes_price for
// asset, used by the price oracle's polling-venue store fallback.
func (s *Store) LatestPredictionMarketPrice(ctx context.Context, asset string) (decimal.Decimal, time.Time, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT yes_price, ts FROM prediction_market_observations
		WHERE asset = ? AND yes_price IS NOT NULL
		ORDER BY ts DESC LIMIT 1
	`, asset)

	var yes string
	var ts time.Time
	if err := row.Scan(&yes, &ts); err != nil {
		if err == sql.ErrNoRows {
			return decimal.Zero, time.Time{}, pkgerrors.Newf(pkgerrors.ErrCodeDataNotFound, "no prediction market price for %s", asset)
		}

		return decimal.Zero, time.Time{}, wrapQueryErr("latest prediction market price", err)
	}

	return mustDec(yes), ts, nil
}

func mustDec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero
	}

	return d
}

func reverse[T any](s []T) {
	for i, j := 0, len(s)-1; i < j; i, j = i+1, j-1 {
		s[i], s[j] = s[j], s[i]
	}
}

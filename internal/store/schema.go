package store

// Schema DDL, grouped by the four logical schemas spec.md §6 names:
// market_data, signals, paper (legacy positions/MTM), accounts. All tables
// are created with IF NOT EXISTS so Migrate is safe to call on every
// process start; this is the idempotent-DDL bootstrap a store needs to open
// at all, not the schema-migration tooling spec.md scopes out as an
// external collaborator.
const schemaDDL = `
CREATE TABLE IF NOT EXISTS candles (
	venue       TEXT NOT NULL,
	asset       TEXT NOT NULL,
	interval    TEXT NOT NULL,
	open_time   TIMESTAMP NOT NULL,
	open        TEXT NOT NULL,
	high        TEXT NOT NULL,
	low         TEXT NOT NULL,
	close       TEXT NOT NULL,
	volume      TEXT NOT NULL,
	PRIMARY KEY (venue, asset, interval, open_time)
);

CREATE TABLE IF NOT EXISTS funding_snapshots (
	venue         TEXT NOT NULL,
	asset         TEXT NOT NULL,
	ts            TIMESTAMP NOT NULL,
	funding_rate  TEXT NOT NULL,
	open_interest TEXT,
	mark_price    TEXT,
	PRIMARY KEY (venue, asset, ts)
);

CREATE TABLE IF NOT EXISTS prediction_market_observations (
	market_id TEXT NOT NULL,
	ts        TIMESTAMP NOT NULL,
	title     TEXT NOT NULL,
	asset     TEXT NOT NULL,
	yes_price TEXT NOT NULL,
	no_price  TEXT NOT NULL,
	volume_24h TEXT NOT NULL,
	liquidity  TEXT NOT NULL,
	end_date   TIMESTAMP,
	PRIMARY KEY (market_id, ts)
);

CREATE SEQUENCE IF NOT EXISTS signals_id_seq;
CREATE TABLE IF NOT EXISTS signals (
	id          BIGINT PRIMARY KEY DEFAULT nextval('signals_id_seq'),
	ts          TIMESTAMP NOT NULL,
	strategy    TEXT NOT NULL,
	asset       TEXT NOT NULL,
	venue       TEXT NOT NULL,
	direction   TEXT NOT NULL,
	confidence  DOUBLE NOT NULL,
	entry_price TEXT NOT NULL,
	metadata    TEXT NOT NULL,
	acted_on    BOOLEAN NOT NULL DEFAULT FALSE
);

CREATE SEQUENCE IF NOT EXISTS accounts_id_seq;
CREATE TABLE IF NOT EXISTS accounts (
	id              BIGINT PRIMARY KEY DEFAULT nextval('accounts_id_seq'),
	name            TEXT NOT NULL UNIQUE,
	venue           TEXT NOT NULL,
	strategy        TEXT NOT NULL,
	initial_capital TEXT NOT NULL,
	active          BOOLEAN NOT NULL DEFAULT TRUE,
	created_at      TIMESTAMP NOT NULL
);

CREATE SEQUENCE IF NOT EXISTS portfolio_groups_id_seq;
CREATE TABLE IF NOT EXISTS portfolio_groups (
	id         BIGINT PRIMARY KEY DEFAULT nextval('portfolio_groups_id_seq'),
	name       TEXT NOT NULL UNIQUE,
	created_at TIMESTAMP NOT NULL
);

CREATE TABLE IF NOT EXISTS portfolio_memberships (
	group_id   BIGINT NOT NULL,
	account_id BIGINT NOT NULL,
	PRIMARY KEY (group_id, account_id)
);

CREATE SEQUENCE IF NOT EXISTS positions_id_seq;
CREATE TABLE IF NOT EXISTS positions (
	id             BIGINT PRIMARY KEY DEFAULT nextval('positions_id_seq'),
	account_id     BIGINT NOT NULL,
	strategy       TEXT NOT NULL,
	asset          TEXT NOT NULL,
	venue          TEXT NOT NULL,
	direction      TEXT NOT NULL,
	entry_price    TEXT NOT NULL,
	entry_ts       TIMESTAMP NOT NULL,
	quantity       TEXT NOT NULL,
	exit_price     TEXT,
	exit_ts        TIMESTAMP,
	exit_reason    TEXT,
	realised_pnl   TEXT,
	status         TEXT NOT NULL,
	source_signal_id BIGINT,
	metadata       TEXT NOT NULL
);

CREATE SEQUENCE IF NOT EXISTS mtm_id_seq;
CREATE TABLE IF NOT EXISTS account_mark_to_market (
	id             BIGINT PRIMARY KEY DEFAULT nextval('mtm_id_seq'),
	account_id     BIGINT NOT NULL,
	ts             TIMESTAMP NOT NULL,
	total_equity   TEXT NOT NULL,
	unrealised_pnl TEXT NOT NULL,
	realised_pnl   TEXT NOT NULL,
	open_positions INTEGER NOT NULL,
	per_strategy   TEXT NOT NULL
);
`

// Package store is the system of record for the platform's data model:
// candles, funding snapshots, prediction-market observations, signals,
// accounts, positions, and mark-to-market rows. Market-data writes are
// upserts on their unique keys for idempotency; signals, positions and
// mark-to-market rows are appended, and creating an existing account is an
// error. The signal-consumption step runs as a single transaction so the
// same signal is never consumed twice.
package store

import (
	"database/sql"
	"fmt"

	"github.com/Masterminds/squirrel"
	_ "github.com/marcboeker/go-duckdb"

	"github.com/rxtech-lab/papertrader/internal/logger"
	pkgerrors "github.com/rxtech-lab/papertrader/pkg/errors"
)

// Store is a DuckDB-backed implementation of the platform's persistent data
// model. It is safe for concurrent use; database/sql pools connections and
// DuckDB itself serializes writers.
type Store struct {
	db  *sql.DB
	log *logger.Logger
	sq  squirrel.StatementBuilderType
}

// Open creates (or attaches to) the DuckDB file at dsn and applies the
// idempotent schema bootstrap.
func Open(dsn string, log *logger.Logger) (*Store, error) {
	db, err := sql.Open("duckdb", dsn)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.ErrCodeDataSourceUnavailable, "open duckdb", err)
	}

	s := &Store{
		db:  db,
		log: log,
		sq:  squirrel.StatementBuilder.PlaceholderFormat(squirrel.Question),
	}

	if err := s.Migrate(); err != nil {
		db.Close()
		return nil, err
	}

	return s, nil
}

// Migrate applies the idempotent DDL bootstrap for all four logical
// schemas. Safe to call on every process start.
func (s *Store) Migrate() error {
	if _, err := s.db.Exec(schemaDDL); err != nil {
		return pkgerrors.Wrap(pkgerrors.ErrCodeInvalidConfiguration, "apply schema", err)
	}

	return nil
}

// Close releases the underlying database handle.
func (s *Store) Close() error {
	if s.db == nil {
		return nil
	}

	return s.db.Close()
}

// DB exposes the underlying *sql.DB for callers that need to build their
// own transactions.
func (s *Store) DB() *sql.DB {
	return s.db
}

func wrapQueryErr(op string, err error) error {
	if err == nil {
		return nil
	}

	return pkgerrors.Wrap(pkgerrors.ErrCodeQueryFailed, fmt.Sprintf("store: %s", op), err)
}

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/MKhiriev/go-bank-sync/internal/logger"
	"github.com/MKhiriev/go-bank-sync/migrations"
)

// SQL dialects understood by [DB]. The values double as database/sql driver
// names and goose dialect names.
const (
	DialectSQLite   = "sqlite3"
	DialectPostgres = "pgx"
)

// DB is a database/sql connection bound to a dialect and the error
// classifier of that dialect.
type DB struct {
	*sql.DB
	dialect            string
	errorClassificator ErrorClassificator
	logger             *logger.Logger
}

// NewDB wraps an already opened connection.
func NewDB(conn *sql.DB, dialect string, log *logger.Logger) *DB {
	var classifier ErrorClassificator = NewPostgresErrorClassifier()
	if dialect == DialectSQLite {
		classifier = NewSQLiteErrorClassifier()
	}

	return &DB{
		DB:                 conn,
		dialect:            dialect,
		errorClassificator: classifier,
		logger:             log,
	}
}

// Migrate applies the embedded schema migrations.
func (db *DB) Migrate() error {
	return migrations.Migrate(db.DB, db.dialect)
}

// sqlExecutor is the subset of *sql.DB and *sql.Tx the store needs.
type sqlExecutor interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// classify wraps err with the store sentinel matching its class, keeping op
// (one of the ErrExecuting*/ErrScanning* errors) in the chain.
func (db *DB) classify(op, err error) error {
	switch {
	case errors.Is(err, sql.ErrNoRows):
		return fmt.Errorf("%w: %w", ErrNotFound, err)
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return fmt.Errorf("%w: %w: %w", ErrUnavailable, op, err)
	}

	switch db.errorClassificator.Classify(err) {
	case Retryable:
		return fmt.Errorf("%w: %w: %w", ErrUnavailable, op, err)
	case Forbidden:
		return fmt.Errorf("%w: %w: %w", ErrPermissionDenied, op, err)
	}
	return fmt.Errorf("%w: %w", op, err)
}

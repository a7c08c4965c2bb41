package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/stdlib"
	_ "modernc.org/sqlite"

	"github.com/niksmo/storefront/internal/core/port"
)

const (
	SQLDriverPgx    = "pgx"
	SQLDriverSQLite = "sqlite"
)

var ErrUnknownSQLDriver = errors.New("unknown sql driver")

var _ port.RecordStorage = (*SQLStorage)(nil)

type sqldb interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	PingContext(ctx context.Context) error
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
	Close() error
}

// OpenSQLDB opens a PostgreSQL (pgx) or SQLite database.
//
// The schema comes from the migrations directory; see cmd/migrator.
func OpenSQLDB(driver, dsn string) (*sql.DB, error) {
	const op = "OpenSQLDB"

	switch driver {
	case SQLDriverPgx:
		connConfig, err := pgx.ParseConfig(dsn)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		return sql.Open("pgx", stdlib.RegisterConnConfig(connConfig))
	case SQLDriverSQLite:
		db, err := sql.Open("sqlite", dsn)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		// sqlite serializes writers; an in-memory database also lives
		// only as long as its single connection.
		db.SetMaxOpenConns(1)
		return db, nil
	default:
		return nil, fmt.Errorf("%s: %w: %q", op, ErrUnknownSQLDriver, driver)
	}
}

// SQLStorage keeps records in the storefront_records table.
type SQLStorage struct {
	sqldb sqldb
}

func NewSQLStorage(db sqldb) SQLStorage {
	return SQLStorage{db}
}

func (s SQLStorage) Get(ctx context.Context, profile, key string) ([]byte, error) {
	const op = "SQLStorage.Get"

	if err := s.check(ctx, profile, key); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	query := `
		SELECT value FROM storefront_records
		WHERE profile_id = $1 AND record_key = $2;`

	var v string
	err := s.sqldb.QueryRowContext(ctx, query, profile, key).Scan(&v)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, ErrNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return []byte(v), nil
}

func (s SQLStorage) Set(
	ctx context.Context, profile, key string, value []byte,
) error {
	const op = "SQLStorage.Set"

	if err := s.check(ctx, profile, key); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	query := `
		INSERT INTO storefront_records (profile_id, record_key, value, updated_at)
		VALUES ($1, $2, $3, CURRENT_TIMESTAMP)
		ON CONFLICT (profile_id, record_key) DO UPDATE SET
			value = EXCLUDED.value,
			updated_at = EXCLUDED.updated_at;`

	_, err := s.sqldb.ExecContext(ctx, query, profile, key, string(value))
	if err != nil {
		return fmt.Errorf("%s: failed to exec: %w", op, err)
	}
	return nil
}

func (s SQLStorage) Delete(ctx context.Context, profile, key string) error {
	const op = "SQLStorage.Delete"

	if err := s.check(ctx, profile, key); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	query := `
		DELETE FROM storefront_records
		WHERE profile_id = $1 AND record_key = $2;`

	if _, err := s.sqldb.ExecContext(ctx, query, profile, key); err != nil {
		return fmt.Errorf("%s: failed to exec: %w", op, err)
	}
	return nil
}

func (s SQLStorage) Ping(ctx context.Context) error {
	const op = "SQLStorage.Ping"

	if err := s.sqldb.PingContext(ctx); err != nil {
		return fmt.Errorf("%s: database unavailable: %w", op, err)
	}
	slog.Info("database is available", "op", op)
	return nil
}

func (s SQLStorage) Close() error {
	const op = "SQLStorage.Close"
	log := slog.With("op", op)

	log.Info("closing sql database...")
	if err := s.sqldb.Close(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	log.Info("sql database is closed")
	return nil
}

func (s SQLStorage) check(ctx context.Context, profile, key string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return checkRecord(profile, key)
}

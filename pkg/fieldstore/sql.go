package fieldstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"sync/atomic"
)

// SQLStore is a SQL-backed field store.
// It works with any database/sql driver for PostgreSQL (pgx) or SQLite.
// Requires a table with schema:
//
//	CREATE TABLE folio_fields (
//	    scope       VARCHAR(64)  NOT NULL,
//	    field_key   VARCHAR(64)  NOT NULL,
//	    field_value TEXT         NOT NULL,
//	    updated_at  TIMESTAMP WITH TIME ZONE DEFAULT NOW(),
//	    PRIMARY KEY (scope, field_key)
//	);
//
// CreateTable creates it for the configured dialect.
type SQLStore struct {
	db        *sql.DB
	tableName string
	dialect   SQLDialect
	closed    atomic.Bool
}

// SQLDialect represents the SQL dialect for query generation.
type SQLDialect int

const (
	// DialectPostgreSQL uses PostgreSQL syntax ($1, $2 placeholders).
	DialectPostgreSQL SQLDialect = iota
	// DialectSQLite uses SQLite syntax (? placeholders).
	DialectSQLite
)

// String returns the dialect name.
func (d SQLDialect) String() string {
	switch d {
	case DialectPostgreSQL:
		return "postgres"
	case DialectSQLite:
		return "sqlite"
	default:
		return "unknown"
	}
}

// SQLStoreOption configures SQLStore behavior.
type SQLStoreOption func(*sqlStoreConfig)

type sqlStoreConfig struct {
	tableName string
	dialect   SQLDialect
}

// WithSQLTableName sets the table name for field storage.
// Default: "folio_fields".
func WithSQLTableName(name string) SQLStoreOption {
	return func(c *sqlStoreConfig) {
		c.tableName = name
	}
}

// WithSQLDialect sets the SQL dialect for query generation.
// Default: DialectPostgreSQL.
func WithSQLDialect(dialect SQLDialect) SQLStoreOption {
	return func(c *sqlStoreConfig) {
		c.dialect = dialect
	}
}

// NewSQLStore creates a new SQL-backed field store.
func NewSQLStore(db *sql.DB, opts ...SQLStoreOption) *SQLStore {
	cfg := &sqlStoreConfig{
		tableName: "folio_fields",
		dialect:   DialectPostgreSQL,
	}
	for _, opt := range opts {
		opt(cfg)
	}

	return &SQLStore{
		db:        db,
		tableName: cfg.tableName,
		dialect:   cfg.dialect,
	}
}

// placeholder returns the placeholder syntax for the dialect.
func (s *SQLStore) placeholder(n int) string {
	if s.dialect == DialectPostgreSQL {
		return fmt.Sprintf("$%d", n)
	}
	return "?"
}

func (s *SQLStore) upsertQuery() string {
	switch s.dialect {
	case DialectSQLite:
		return fmt.Sprintf(`
			INSERT INTO %s (scope, field_key, field_value, updated_at)
			VALUES (?, ?, ?, datetime('now'))
			ON CONFLICT (scope, field_key) DO UPDATE SET
				field_value = excluded.field_value,
				updated_at = datetime('now')
		`, s.tableName)
	default:
		return fmt.Sprintf(`
			INSERT INTO %s (scope, field_key, field_value, updated_at)
			VALUES ($1, $2, $3, NOW())
			ON CONFLICT (scope, field_key) DO UPDATE SET
				field_value = EXCLUDED.field_value,
				updated_at = NOW()
		`, s.tableName)
	}
}

// deleteQuery builds a single DELETE covering n keys.
func (s *SQLStore) deleteQuery(n int) string {
	marks := make([]string, n)
	for i := range marks {
		marks[i] = s.placeholder(i + 2)
	}
	return fmt.Sprintf(`DELETE FROM %s WHERE scope = %s AND field_key IN (%s)`,
		s.tableName, s.placeholder(1), strings.Join(marks, ", "))
}

// Get returns the value stored under key in scope.
func (s *SQLStore) Get(ctx context.Context, scope, key string) (string, bool, error) {
	if s.closed.Load() {
		return "", false, ErrStoreClosed
	}

	query := fmt.Sprintf(`SELECT field_value FROM %s WHERE scope = %s AND field_key = %s`,
		s.tableName, s.placeholder(1), s.placeholder(2))

	var value string
	err := s.db.QueryRowContext(ctx, query, scope, key).Scan(&value)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", false, nil
		}
		return "", false, fmt.Errorf("fieldstore: get %s/%s: %w", scope, key, err)
	}
	return value, true, nil
}

// Set stores value under key in scope.
func (s *SQLStore) Set(ctx context.Context, scope, key, value string) error {
	if s.closed.Load() {
		return ErrStoreClosed
	}

	if _, err := s.db.ExecContext(ctx, s.upsertQuery(), scope, key, value); err != nil {
		return fmt.Errorf("fieldstore: set %s/%s: %w", scope, key, err)
	}
	return nil
}

// Delete removes keys from scope with one statement.
func (s *SQLStore) Delete(ctx context.Context, scope string, keys ...string) error {
	if s.closed.Load() {
		return ErrStoreClosed
	}
	if len(keys) == 0 {
		return nil
	}

	args := make([]any, 0, len(keys)+1)
	args = append(args, scope)
	for _, k := range keys {
		args = append(args, k)
	}

	if _, err := s.db.ExecContext(ctx, s.deleteQuery(len(keys)), args...); err != nil {
		return fmt.Errorf("fieldstore: delete %s: %w", scope, err)
	}
	return nil
}

// List returns every pair stored in scope.
func (s *SQLStore) List(ctx context.Context, scope string) (map[string]string, error) {
	if s.closed.Load() {
		return nil, ErrStoreClosed
	}

	query := fmt.Sprintf(`SELECT field_key, field_value FROM %s WHERE scope = %s`,
		s.tableName, s.placeholder(1))

	rows, err := s.db.QueryContext(ctx, query, scope)
	if err != nil {
		return nil, fmt.Errorf("fieldstore: list %s: %w", scope, err)
	}
	defer rows.Close()

	out := make(map[string]string)
	for rows.Next() {
		var k, v string
		if err := rows.Scan(&k, &v); err != nil {
			return nil, fmt.Errorf("fieldstore: list %s: %w", scope, err)
		}
		out[k] = v
	}
	return out, rows.Err()
}

// Close marks the store as closed.
// Note: This does not close the underlying database connection,
// as it may be shared with other components.
func (s *SQLStore) Close() error {
	s.closed.Store(true)
	return nil
}

// CreateTable creates the field table if it doesn't exist.
func (s *SQLStore) CreateTable(ctx context.Context) error {
	var query string
	switch s.dialect {
	case DialectSQLite:
		query = fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				scope TEXT NOT NULL,
				field_key TEXT NOT NULL,
				field_value TEXT NOT NULL,
				updated_at TEXT DEFAULT (datetime('now')),
				PRIMARY KEY (scope, field_key)
			)
		`, s.tableName)
	default:
		query = fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				scope VARCHAR(64) NOT NULL,
				field_key VARCHAR(64) NOT NULL,
				field_value TEXT NOT NULL,
				updated_at TIMESTAMP WITH TIME ZONE DEFAULT NOW(),
				PRIMARY KEY (scope, field_key)
			)
		`, s.tableName)
	}

	if _, err := s.db.ExecContext(ctx, query); err != nil {
		return fmt.Errorf("fieldstore: create table %s: %w", s.tableName, err)
	}
	return nil
}

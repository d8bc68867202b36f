// Copyright (c) 2025 cityledger contributors.
// Licensed under the MIT license; see LICENSE.

package accesslog

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

// Entry is one access-log row, recorded for every successful token
// resolution.
type Entry struct {
	Time   time.Time
	CityID string
	Action string
	Remote string
}

// Appender records access entries. Appends are best-effort: callers fire
// them on a separate goroutine and never fail the primary operation when
// one is lost.
type Appender interface {
	Append(ctx context.Context, e Entry) error
}

// Nop discards all entries.
type Nop struct{}

func (Nop) Append(context.Context, Entry) error { return nil }

// DB appends entries to a SQL table, sqlite or postgres depending on the
// driver the connection was opened with.
type DB struct {
	db *sql.DB
}

// NewDB wraps an open connection and bootstraps the schema.
func NewDB(db *sql.DB) (*DB, error) {
	if err := createSchema(db); err != nil {
		return nil, err
	}
	return &DB{db: db}, nil
}

func (a *DB) Append(ctx context.Context, e Entry) error {
	_, err := a.db.ExecContext(ctx, `
		INSERT INTO access_log (logged_at, city_id, action, remote)
		VALUES ($1, $2, $3, $4)
	`, e.Time, e.CityID, e.Action, e.Remote)
	if err != nil {
		return fmt.Errorf("accesslog: append: %w", err)
	}
	return nil
}

// createSchema creates the access_log table.
// Safe to call multiple times - uses IF NOT EXISTS.
func createSchema(db *sql.DB) error {
	_, err := db.Exec(schema)
	if err != nil {
		return fmt.Errorf("failed to create access log schema: %w", err)
	}
	return nil
}

const schema = `
-- Access log
CREATE TABLE IF NOT EXISTS access_log (
    logged_at TIMESTAMP NOT NULL,
    city_id TEXT NOT NULL,
    action TEXT NOT NULL,
    remote TEXT
);

CREATE INDEX IF NOT EXISTS idx_access_log_city_id ON access_log(city_id);
`

// Copyright (c) 2025 cityledger contributors.
// Licensed under the MIT license; see LICENSE.

package accesslog

import (
	"context"
	"database/sql"
	"testing"
	"time"

	_ "modernc.org/sqlite"
)

func newTestDB(t *testing.T) (*DB, *sql.DB) {
	t.Helper()
	conn, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { conn.Close() })

	a, err := NewDB(conn)
	if err != nil {
		t.Fatal(err)
	}
	return a, conn
}

func TestNewDBBootstrapsSchema(t *testing.T) {
	_, conn := newTestDB(t)

	var count int
	err := conn.QueryRow(`SELECT COUNT(*) FROM access_log`).Scan(&count)
	if err != nil {
		t.Fatalf("access_log table missing after NewDB: %v", err)
	}
	if count != 0 {
		t.Errorf("expected empty table, got %d rows", count)
	}
}

func TestNewDBIdempotent(t *testing.T) {
	_, conn := newTestDB(t)

	// Schema bootstrap must be repeatable against an existing database.
	if _, err := NewDB(conn); err != nil {
		t.Fatalf("second NewDB failed: %v", err)
	}
}

func TestAppend(t *testing.T) {
	a, conn := newTestDB(t)

	entry := Entry{
		Time:   time.Now(),
		CityID: "city-freiburg",
		Action: "vote",
		Remote: "203.0.113.9",
	}
	if err := a.Append(context.Background(), entry); err != nil {
		t.Fatal(err)
	}

	var cityID, action, remote string
	err := conn.QueryRow(`SELECT city_id, action, remote FROM access_log`).
		Scan(&cityID, &action, &remote)
	if err != nil {
		t.Fatal(err)
	}
	if cityID != entry.CityID || action != entry.Action || remote != entry.Remote {
		t.Errorf("stored row mismatch: got %s/%s/%s", cityID, action, remote)
	}
}

func TestAppendCancelledContext(t *testing.T) {
	a, _ := newTestDB(t)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := a.Append(ctx, Entry{Time: time.Now(), CityID: "c", Action: "vote"})
	if err == nil {
		t.Error("expected error for cancelled context")
	}
}

func TestNopDiscards(t *testing.T) {
	if err := (Nop{}).Append(context.Background(), Entry{}); err != nil {
		t.Errorf("Nop.Append returned error: %v", err)
	}
}

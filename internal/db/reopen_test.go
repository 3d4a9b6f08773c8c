package db

import (
	"context"
	"path/filepath"
	"testing"
)

func pragmaInt(t *testing.T, db *DB, name string) int {
	t.Helper()
	var v int
	if err := db.QueryRow("PRAGMA " + name).Scan(&v); err != nil {
		t.Fatalf("PRAGMA %s: %v", name, err)
	}
	return v
}

func TestLedgerSettings(t *testing.T) {
	ledger := setupTestDB(t)

	var mode string
	if err := ledger.QueryRow("PRAGMA journal_mode").Scan(&mode); err != nil {
		t.Fatalf("PRAGMA journal_mode: %v", err)
	}
	if mode != "wal" {
		t.Errorf("journal_mode = %q, want wal", mode)
	}

	want := map[string]int{
		"busy_timeout": 5000,
		"synchronous":  1, // NORMAL
		"temp_store":   2, // MEMORY
	}
	for name, w := range want {
		if got := pragmaInt(t, ledger, name); got != w {
			t.Errorf("%s = %d, want %d", name, got, w)
		}
	}
}

func TestLedgerReopen_KeepsRuns(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ledger.db")
	ctx := context.Background()

	first, err := NewDB(path)
	if err != nil {
		t.Fatalf("NewDB: %v", err)
	}
	id, err := first.RecordRun(ctx, Run{Body: "1001", Status: true, NPlaced: 3})
	if err != nil {
		t.Fatalf("RecordRun: %v", err)
	}
	first.Close()

	// Reopening runs the migrations again, which must leave the table alone.
	second, err := NewDB(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer second.Close()

	if got := pragmaInt(t, second, "busy_timeout"); got != 5000 {
		t.Errorf("busy_timeout after reopen = %d, want 5000", got)
	}
	if _, err := second.RecordRun(ctx, Run{Body: "1001", Status: false}); err != nil {
		t.Fatalf("RecordRun after reopen: %v", err)
	}

	runs, err := second.ListRuns(ctx, "1001")
	if err != nil {
		t.Fatalf("ListRuns: %v", err)
	}
	if len(runs) != 2 {
		t.Fatalf("got %d runs, want 2", len(runs))
	}
	if runs[1].ID != id || runs[1].NPlaced != 3 {
		t.Errorf("oldest run = %+v, want id %s with 3 placed", runs[1], id)
	}
}

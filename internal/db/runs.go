package db

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Run is one ledger row.
type Run struct {
	ID            string    `json:"run_id"`
	StartedAt     time.Time `json:"started_at"`
	Body          string    `json:"body"`
	Server        string    `json:"server"`
	UUID          string    `json:"uuid"`
	TodoInstance  string    `json:"todo_instance"`
	Status        bool      `json:"status"`
	Message       string    `json:"message"`
	NLocations    int       `json:"nlocations"`
	NLocationsRoI int       `json:"nlocationsRoI"`
	NPlaced       int       `json:"nplaced"`
	TFind         float64   `json:"tfind"`
	TPlace        float64   `json:"tplace"`
	TTotal        float64   `json:"ttotal"`
	FindOnly      bool      `json:"find_only"`
	DryRun        bool      `json:"dry_run"`
	Parameters    string    `json:"parameters,omitempty"`
}

// RecordRun inserts r and returns its id. A fresh UUID is assigned when
// r.ID is empty.
func (db *DB) RecordRun(ctx context.Context, r Run) (string, error) {
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	if r.StartedAt.IsZero() {
		r.StartedAt = time.Now()
	}

	_, err := db.ExecContext(ctx, `
		INSERT INTO runs (
			run_id, started_at, body, server, uuid, todo_instance, status, message,
			nlocations, nlocations_roi, nplaced, tfind, tplace, ttotal,
			find_only, dry_run, parameters
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		r.ID, r.StartedAt.UnixNano(), r.Body, r.Server, r.UUID, r.TodoInstance,
		boolToInt(r.Status), r.Message,
		r.NLocations, r.NLocationsRoI, r.NPlaced, r.TFind, r.TPlace, r.TTotal,
		boolToInt(r.FindOnly), boolToInt(r.DryRun), r.Parameters,
	)
	if err != nil {
		return "", fmt.Errorf("failed to record run for body %s: %w", r.Body, err)
	}
	return r.ID, nil
}

// ListRuns returns recorded runs, newest first. An empty body lists runs on
// every body.
func (db *DB) ListRuns(ctx context.Context, body string) ([]Run, error) {
	query := `
		SELECT run_id, started_at, body, server, uuid, todo_instance, status, message,
			nlocations, nlocations_roi, nplaced, tfind, tplace, ttotal,
			find_only, dry_run, parameters
		FROM runs`
	var args []interface{}
	if body != "" {
		query += " WHERE body = ?"
		args = append(args, body)
	}
	query += " ORDER BY started_at DESC, rowid DESC"

	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query runs: %w", err)
	}
	defer rows.Close()

	runs := []Run{}
	for rows.Next() {
		var (
			r                        Run
			startedAt                int64
			status, findOnly, dryRun int
		)
		if err := rows.Scan(
			&r.ID, &startedAt, &r.Body, &r.Server, &r.UUID, &r.TodoInstance, &status, &r.Message,
			&r.NLocations, &r.NLocationsRoI, &r.NPlaced, &r.TFind, &r.TPlace, &r.TTotal,
			&findOnly, &dryRun, &r.Parameters,
		); err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}
		r.StartedAt = time.Unix(0, startedAt).UTC()
		r.Status = status != 0
		r.FindOnly = findOnly != 0
		r.DryRun = dryRun != 0
		runs = append(runs, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate runs: %w", err)
	}
	return runs, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

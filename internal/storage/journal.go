package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"

	_ "github.com/glebarez/go-sqlite"

	"grid_rush/internal/event"
)

// Journal is an append-only sqlite log of published engine events, for
// post-hoc inspection only. The engine never reads it back: rooms are
// memory-only and a restart starts fresh.
type Journal struct {
	db *sql.DB
}

// Entry is one journaled event row.
type Entry struct {
	Seq     uint64
	Kind    event.Kind
	Name    string
	Ts      int64
	Payload []byte
}

// NewJournal opens (or creates) the journal database with WAL mode enabled.
func NewJournal(dbPath string) (*Journal, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL;",
		"PRAGMA synchronous=NORMAL;",
		"PRAGMA cache_size=-2000;", // 2MB cache
	}
	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			return nil, fmt.Errorf("failed to set pragma %s: %w", pragma, err)
		}
	}

	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS events (
			seq INTEGER PRIMARY KEY,
			kind INTEGER NOT NULL,
			name TEXT NOT NULL,
			ts INTEGER NOT NULL,
			payload BLOB NOT NULL
		);
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to create events table: %w", err)
	}

	return &Journal{db: db}, nil
}

// Append stores one event row.
func (j *Journal) Append(ctx context.Context, ev event.Event) error {
	payload, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	_, err = j.db.ExecContext(ctx,
		"INSERT INTO events (seq, kind, name, ts, payload) VALUES (?, ?, ?, ?, ?)",
		ev.GetSeq(), ev.GetKind(), ev.Name(), ev.GetTs(), payload,
	)
	if err != nil {
		return fmt.Errorf("failed to insert event: %w", err)
	}
	return nil
}

// Publish makes the journal usable as an engine publisher tee. Journaling
// is best-effort observability: a write failure is logged, never allowed to
// stall the tick loop.
func (j *Journal) Publish(ev event.Event) {
	if err := j.Append(context.Background(), ev); err != nil {
		slog.Error("Journal write failed", slog.Uint64("seq", ev.GetSeq()), slog.Any("error", err))
	}
}

// LoadEntries returns all journaled rows from fromSeq (inclusive), in
// sequence order.
func (j *Journal) LoadEntries(ctx context.Context, fromSeq uint64) ([]Entry, error) {
	rows, err := j.db.QueryContext(ctx,
		"SELECT seq, kind, name, ts, payload FROM events WHERE seq >= ? ORDER BY seq ASC",
		fromSeq,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query events: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var e Entry
		if err := rows.Scan(&e.Seq, &e.Kind, &e.Name, &e.Ts, &e.Payload); err != nil {
			return nil, fmt.Errorf("failed to scan event: %w", err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration error: %w", err)
	}
	return entries, nil
}

// CountByName returns journaled event counts grouped by wire name.
func (j *Journal) CountByName(ctx context.Context) (map[string]int64, error) {
	rows, err := j.db.QueryContext(ctx, "SELECT name, COUNT(*) FROM events GROUP BY name")
	if err != nil {
		return nil, fmt.Errorf("failed to count events: %w", err)
	}
	defer rows.Close()

	counts := make(map[string]int64)
	for rows.Next() {
		var name string
		var n int64
		if err := rows.Scan(&name, &n); err != nil {
			return nil, fmt.Errorf("failed to scan count: %w", err)
		}
		counts[name] = n
	}
	return counts, rows.Err()
}

// Close closes the database connection.
func (j *Journal) Close() error {
	return j.db.Close()
}

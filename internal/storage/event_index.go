package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"github.com/Noty-chan/aether-journal/internal/models"
)

// EventQuery filters the event index. Zero values match everything.
type EventQuery struct {
	Kind     models.EventKind
	Actor    string
	AfterSeq int
	Limit    int
}

const defaultQueryLimit = 100

// EventIndex mirrors the event log into SQLite for filtered lookups.
type EventIndex struct {
	db *sql.DB
}

// OpenEventIndex opens or creates the index database at path.
func OpenEventIndex(path string) (*EventIndex, error) {
	if path == "" {
		return nil, fmt.Errorf("empty event index path")
	}
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, err
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	if err := initIndexPragmas(db); err != nil {
		_ = db.Close()
		return nil, err
	}
	if _, err := db.Exec(`CREATE TABLE IF NOT EXISTS events (
		seq INTEGER PRIMARY KEY,
		ts TEXT NOT NULL,
		actor TEXT NOT NULL,
		kind TEXT NOT NULL,
		payload_json TEXT NOT NULL
	)`); err != nil {
		_ = db.Close()
		return nil, err
	}
	if _, err := db.Exec(`CREATE INDEX IF NOT EXISTS events_kind_seq ON events(kind, seq)`); err != nil {
		_ = db.Close()
		return nil, err
	}
	return &EventIndex{db: db}, nil
}

func initIndexPragmas(db *sql.DB) error {
	pragmas := []string{
		"PRAGMA journal_mode=WAL;",
		"PRAGMA synchronous=NORMAL;",
		"PRAGMA busy_timeout=5000;",
		"PRAGMA temp_store=MEMORY;",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			return err
		}
	}
	return nil
}

// Close releases the database.
func (x *EventIndex) Close() error {
	return x.db.Close()
}

// Index inserts events, replacing rows with the same seq.
func (x *EventIndex) Index(events []models.EventLogEntry) error {
	return x.write(false, events)
}

// Rebuild replaces the whole index with events.
func (x *EventIndex) Rebuild(events []models.EventLogEntry) error {
	return x.write(true, events)
}

func (x *EventIndex) write(reset bool, events []models.EventLogEntry) error {
	tx, err := x.db.BeginTx(context.Background(), nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if reset {
		if _, err := tx.Exec(`DELETE FROM events`); err != nil {
			return err
		}
	}
	stmt, err := tx.Prepare(`INSERT OR REPLACE INTO events(seq,ts,actor,kind,payload_json) VALUES(?,?,?,?,?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()
	for _, e := range events {
		payload, err := json.Marshal(e.Payload)
		if err != nil {
			return fmt.Errorf("encode payload of seq %d: %w", e.Seq, err)
		}
		if _, err := stmt.Exec(e.Seq, e.TS.UTC().Format(time.RFC3339Nano), e.Actor, string(e.Kind), string(payload)); err != nil {
			return err
		}
	}
	return tx.Commit()
}

// Query returns matching events in ascending seq order.
func (x *EventIndex) Query(ctx context.Context, q EventQuery) ([]models.EventLogEntry, error) {
	limit := q.Limit
	if limit <= 0 {
		limit = defaultQueryLimit
	}
	query := `SELECT seq, ts, actor, kind, payload_json FROM events WHERE seq > ?`
	args := []any{q.AfterSeq}
	if q.Kind != "" {
		query += ` AND kind = ?`
		args = append(args, string(q.Kind))
	}
	if q.Actor != "" {
		query += ` AND actor = ?`
		args = append(args, q.Actor)
	}
	query += ` ORDER BY seq ASC LIMIT ?`
	args = append(args, limit)

	rows, err := x.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []models.EventLogEntry{}
	for rows.Next() {
		var (
			e       models.EventLogEntry
			ts      string
			kind    string
			payload string
		)
		if err := rows.Scan(&e.Seq, &ts, &e.Actor, &kind, &payload); err != nil {
			return nil, err
		}
		if e.TS, err = time.Parse(time.RFC3339Nano, ts); err != nil {
			return nil, fmt.Errorf("parse ts of seq %d: %w", e.Seq, err)
		}
		e.Kind = models.EventKind(kind)
		if err := json.Unmarshal([]byte(payload), &e.Payload); err != nil {
			return nil, fmt.Errorf("decode payload of seq %d: %w", e.Seq, err)
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

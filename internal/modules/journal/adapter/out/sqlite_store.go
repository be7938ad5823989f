package out

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"resolvemcp/internal/modules/journal/domain"
	journalout "resolvemcp/internal/modules/journal/port/out"

	_ "modernc.org/sqlite"
)

const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

type SQLiteEntryStore struct {
	db *sql.DB
}

func NewSQLiteEntryStore(dbPath string) (journalout.EntryStore, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("create db dir: %w", err)
	}
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	// Single connection so concurrent tool calls serialize their writes.
	db.SetMaxOpenConns(1)
	store := &SQLiteEntryStore{db: db}
	if err := store.ensureSchema(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}
	return store, nil
}

func (s *SQLiteEntryStore) ensureSchema(ctx context.Context) error {
	const ddl = `
CREATE TABLE IF NOT EXISTS journal (
  seq INTEGER PRIMARY KEY AUTOINCREMENT,
  id TEXT NOT NULL UNIQUE,
  operation TEXT NOT NULL,
  outcome TEXT NOT NULL,
  detail TEXT,
  generation INTEGER NOT NULL,
  started_at TEXT NOT NULL,
  duration_ms INTEGER NOT NULL
);
`
	if _, err := s.db.ExecContext(ctx, ddl); err != nil {
		return fmt.Errorf("create journal table: %w", err)
	}
	return nil
}

func (s *SQLiteEntryStore) Append(ctx context.Context, entry domain.Entry) error {
	const stmt = `
INSERT INTO journal (id, operation, outcome, detail, generation, started_at, duration_ms)
VALUES (?, ?, ?, ?, ?, ?, ?);
`
	_, err := s.db.ExecContext(ctx, stmt,
		entry.ID,
		entry.Operation,
		string(entry.Outcome),
		entry.Detail,
		int64(entry.Generation),
		entry.StartedAt.UTC().Format(timeLayout),
		entry.Duration.Milliseconds(),
	)
	if err != nil {
		return fmt.Errorf("insert journal entry: %w", err)
	}
	return nil
}

func (s *SQLiteEntryStore) All(ctx context.Context) ([]domain.Entry, error) {
	const query = `
SELECT id, operation, outcome, COALESCE(detail, ''), generation, started_at, duration_ms
FROM journal
ORDER BY seq DESC;
`
	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query journal: %w", err)
	}
	defer rows.Close()

	out := []domain.Entry{}
	for rows.Next() {
		var (
			entry      domain.Entry
			outcome    string
			generation int64
			startedAt  string
			durationMS int64
		)
		if err := rows.Scan(&entry.ID, &entry.Operation, &outcome, &entry.Detail, &generation, &startedAt, &durationMS); err != nil {
			return nil, fmt.Errorf("scan journal entry: %w", err)
		}
		ts, err := time.Parse(timeLayout, startedAt)
		if err != nil {
			return nil, fmt.Errorf("parse started_at %q: %w", startedAt, err)
		}
		entry.Outcome = domain.Outcome(outcome)
		entry.Generation = uint64(generation)
		entry.StartedAt = ts
		entry.Duration = time.Duration(durationMS) * time.Millisecond
		out = append(out, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate journal: %w", err)
	}
	return out, nil
}

func (s *SQLiteEntryStore) Close() error {
	return s.db.Close()
}

package termstore

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/ZaguanLabs/doctran"
	_ "modernc.org/sqlite"
)

const schema = `
CREATE TABLE IF NOT EXISTS terms (
	source     TEXT PRIMARY KEY,
	korean     TEXT NOT NULL DEFAULT '',
	japanese   TEXT NOT NULL DEFAULT '',
	trained    INTEGER NOT NULL DEFAULT 0,
	created_at TEXT NOT NULL,
	updated_at TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_terms_trained ON terms(trained);
`

// SQLiteStore is a Store backed by an embedded SQLite database.
type SQLiteStore struct {
	db *sql.DB
}

// OpenSQLite opens (creating if needed) a terminology database at path.
// Use ":memory:" for an ephemeral store.
func OpenSQLite(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, &doctran.StoreError{Message: "opening terminology database", Cause: err}
	}

	// modernc.org/sqlite serializes writes; a single connection avoids
	// SQLITE_BUSY on concurrent statements.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, &doctran.StoreError{Message: "initializing schema", Cause: err}
	}

	return &SQLiteStore{db: db}, nil
}

func (s *SQLiteStore) Missing(ctx context.Context, terms []string) ([]string, error) {
	return s.filterKnown(ctx, terms, "SELECT source FROM terms WHERE source IN (%s)")
}

func (s *SQLiteStore) MissingOrUntrained(ctx context.Context, terms []string) ([]string, error) {
	return s.filterKnown(ctx, terms, "SELECT source FROM terms WHERE trained = 1 AND source IN (%s)")
}

// filterKnown returns the input terms not matched by the query, in
// input order.
func (s *SQLiteStore) filterKnown(ctx context.Context, terms []string, queryTmpl string) ([]string, error) {
	if len(terms) == 0 {
		return nil, nil
	}

	placeholders := strings.TrimRight(strings.Repeat("?,", len(terms)), ",")
	query := fmt.Sprintf(queryTmpl, placeholders)

	args := make([]any, len(terms))
	for i, t := range terms {
		args[i] = t
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, &doctran.StoreError{Message: "querying terms", Cause: err}
	}
	defer rows.Close()

	known := make(map[string]bool, len(terms))
	for rows.Next() {
		var source string
		if err := rows.Scan(&source); err != nil {
			return nil, &doctran.StoreError{Message: "scanning term row", Cause: err}
		}
		known[source] = true
	}
	if err := rows.Err(); err != nil {
		return nil, &doctran.StoreError{Message: "iterating term rows", Cause: err}
	}

	var missing []string
	for _, t := range terms {
		if !known[t] {
			missing = append(missing, t)
		}
	}
	return missing, nil
}

func (s *SQLiteStore) Upsert(ctx context.Context, entries []doctran.TermEntry, trained bool) error {
	if len(entries) == 0 {
		return nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return &doctran.StoreError{Message: "beginning transaction", Cause: err}
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO terms (source, korean, japanese, trained, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(source) DO UPDATE SET
			korean = excluded.korean,
			japanese = excluded.japanese,
			trained = excluded.trained,
			updated_at = excluded.updated_at`)
	if err != nil {
		return &doctran.StoreError{Message: "preparing upsert", Cause: err}
	}
	defer stmt.Close()

	now := time.Now().UTC().Format(time.RFC3339)
	trainedFlag := 0
	if trained {
		trainedFlag = 1
	}

	for _, e := range entries {
		_, err := stmt.ExecContext(ctx, e.Source, e.Translations["ko"], e.Translations["ja"], trainedFlag, now, now)
		if err != nil {
			return &doctran.StoreError{Message: fmt.Sprintf("upserting term %q", e.Source), Cause: err}
		}
	}

	if err := tx.Commit(); err != nil {
		return &doctran.StoreError{Message: "committing upsert", Cause: err}
	}
	return nil
}

func (s *SQLiteStore) FetchUntrained(ctx context.Context) ([]doctran.TermEntry, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT source, korean, japanese, created_at, updated_at FROM terms WHERE trained = 0 ORDER BY source")
	if err != nil {
		return nil, &doctran.StoreError{Message: "querying untrained terms", Cause: err}
	}
	defer rows.Close()

	var entries []doctran.TermEntry
	for rows.Next() {
		var e doctran.TermEntry
		var ko, ja, created, updated string
		if err := rows.Scan(&e.Source, &ko, &ja, &created, &updated); err != nil {
			return nil, &doctran.StoreError{Message: "scanning term entry", Cause: err}
		}
		e.Translations = map[string]string{"ko": ko, "ja": ja}
		e.CreatedAt, _ = time.Parse(time.RFC3339, created)
		e.UpdatedAt, _ = time.Parse(time.RFC3339, updated)
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, &doctran.StoreError{Message: "iterating term entries", Cause: err}
	}
	return entries, nil
}

func (s *SQLiteStore) MarkTrained(ctx context.Context, terms []string) error {
	if len(terms) == 0 {
		return nil
	}

	placeholders := strings.TrimRight(strings.Repeat("?,", len(terms)), ",")
	args := make([]any, 0, len(terms)+1)
	args = append(args, time.Now().UTC().Format(time.RFC3339))
	for _, t := range terms {
		args = append(args, t)
	}

	query := fmt.Sprintf("UPDATE terms SET trained = 1, updated_at = ? WHERE source IN (%s)", placeholders)
	if _, err := s.db.ExecContext(ctx, query, args...); err != nil {
		return &doctran.StoreError{Message: "marking terms trained", Cause: err}
	}
	return nil
}

func (s *SQLiteStore) Count(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM terms").Scan(&n); err != nil {
		return 0, &doctran.StoreError{Message: "counting terms", Cause: err}
	}
	return n, nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

var _ Store = (*SQLiteStore)(nil)

package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"github.com/cognicore/concord/pkg/concord/internalerr"
	"github.com/cognicore/concord/pkg/concord/store"
)

// sqliteStore implements the Store interface using SQLite
type sqliteStore struct {
	db *sql.DB
}

// OpenSQLite opens a SQLite database with WAL mode enabled.
func OpenSQLite(ctx context.Context, path string) (store.Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	// One writer at a time; concurrent callers queue on the pool instead
	// of failing with SQLITE_BUSY.
	db.SetMaxOpenConns(1)

	// Enable WAL mode for better concurrency
	if _, err := db.ExecContext(ctx, "PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("%v: %w", err, internalerr.ErrStoreUnavailable)
	}

	// Initialize schema
	if err := initSchema(ctx, db); err != nil {
		db.Close()
		return nil, err
	}

	return &sqliteStore{db: db}, nil
}

// Close closes the database connection
func (s *sqliteStore) Close() error {
	return s.db.Close()
}

// initSchema creates tables if they don't exist
func initSchema(ctx context.Context, db *sql.DB) error {
	schema := `
CREATE TABLE IF NOT EXISTS corpora (
	name TEXT PRIMARY KEY,
	raw TEXT NOT NULL,
	tokens TEXT NOT NULL,
	token_count INTEGER NOT NULL,
	created_at TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS outputs (
	id TEXT PRIMARY KEY,
	corpus TEXT NOT NULL,
	command TEXT NOT NULL,
	body TEXT NOT NULL,
	created_at TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS outputs_corpus ON outputs(corpus, id);
`

	_, err := db.ExecContext(ctx, schema)
	return err
}

// SaveCorpus inserts or replaces a corpus
func (s *sqliteStore) SaveCorpus(ctx context.Context, c store.Corpus) error {
	if c.Name == "" {
		return fmt.Errorf("corpus name required: %w", internalerr.ErrInvalidInput)
	}
	if c.CreatedAt.IsZero() {
		c.CreatedAt = time.Now().UTC()
	}
	tokensJSON, err := json.Marshal(c.Tokens)
	if err != nil {
		return err
	}

	_, err = s.db.ExecContext(ctx, `
INSERT INTO corpora (name, raw, tokens, token_count, created_at)
VALUES (?, ?, ?, ?, ?)
ON CONFLICT(name) DO UPDATE SET
	raw=excluded.raw,
	tokens=excluded.tokens,
	token_count=excluded.token_count,
	created_at=excluded.created_at;
`, c.Name, c.Raw, string(tokensJSON), len(c.Tokens), formatTime(c.CreatedAt))
	return err
}

// GetCorpus retrieves a corpus by name
func (s *sqliteStore) GetCorpus(ctx context.Context, name string) (store.Corpus, error) {
	var (
		c          store.Corpus
		tokensJSON string
		created    string
	)
	err := s.db.QueryRowContext(ctx, `SELECT name, raw, tokens, created_at FROM corpora WHERE name = ?`, name).
		Scan(&c.Name, &c.Raw, &tokensJSON, &created)
	if errors.Is(err, sql.ErrNoRows) {
		return store.Corpus{}, fmt.Errorf("corpus %q: %w", name, internalerr.ErrNotFound)
	}
	if err != nil {
		return store.Corpus{}, err
	}
	if err := json.Unmarshal([]byte(tokensJSON), &c.Tokens); err != nil {
		return store.Corpus{}, fmt.Errorf("corpus %q tokens: %w", name, err)
	}
	c.CreatedAt = parseTime(created)
	return c, nil
}

// ListCorpora lists stored corpora ordered by name
func (s *sqliteStore) ListCorpora(ctx context.Context) ([]store.CorpusInfo, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT name, token_count, created_at FROM corpora ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []store.CorpusInfo
	for rows.Next() {
		var info store.CorpusInfo
		var created string
		if err := rows.Scan(&info.Name, &info.Tokens, &created); err != nil {
			return nil, err
		}
		info.CreatedAt = parseTime(created)
		out = append(out, info)
	}
	return out, rows.Err()
}

// DeleteCorpus removes a corpus and its saved outputs
func (s *sqliteStore) DeleteCorpus(ctx context.Context, name string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx, `DELETE FROM corpora WHERE name = ?`, name)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("corpus %q: %w", name, internalerr.ErrNotFound)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM outputs WHERE corpus = ?`, name); err != nil {
		return err
	}
	return tx.Commit()
}

// SaveOutput stores a command output
func (s *sqliteStore) SaveOutput(ctx context.Context, o store.Output) (store.Output, error) {
	if o.CreatedAt.IsZero() {
		o.CreatedAt = time.Now().UTC()
	}
	if o.ID == "" {
		o.ID = store.NewID(o.CreatedAt)
	}

	_, err := s.db.ExecContext(ctx, `
INSERT INTO outputs (id, corpus, command, body, created_at)
VALUES (?, ?, ?, ?, ?)
ON CONFLICT(id) DO UPDATE SET
	corpus=excluded.corpus,
	command=excluded.command,
	body=excluded.body,
	created_at=excluded.created_at;
`, o.ID, o.Corpus, o.Command, o.Body, formatTime(o.CreatedAt))
	if err != nil {
		return store.Output{}, err
	}
	return o, nil
}

// GetOutput retrieves an output by ID
func (s *sqliteStore) GetOutput(ctx context.Context, id string) (store.Output, error) {
	var o store.Output
	var created string
	err := s.db.QueryRowContext(ctx, `SELECT id, corpus, command, body, created_at FROM outputs WHERE id = ?`, id).
		Scan(&o.ID, &o.Corpus, &o.Command, &o.Body, &created)
	if errors.Is(err, sql.ErrNoRows) {
		return store.Output{}, fmt.Errorf("output %q: %w", id, internalerr.ErrNotFound)
	}
	if err != nil {
		return store.Output{}, err
	}
	o.CreatedAt = parseTime(created)
	return o, nil
}

// ListOutputs lists the newest outputs first, optionally for one corpus
func (s *sqliteStore) ListOutputs(ctx context.Context, corpus string, limit int) ([]store.Output, error) {
	if limit <= 0 {
		limit = store.DefaultOutputLimit
	}

	rows, err := s.db.QueryContext(ctx, `
SELECT id, corpus, command, body, created_at
FROM outputs
WHERE ? = '' OR corpus = ?
ORDER BY id DESC
LIMIT ?;
`, corpus, corpus, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []store.Output
	for rows.Next() {
		var o store.Output
		var created string
		if err := rows.Scan(&o.ID, &o.Corpus, &o.Command, &o.Body, &created); err != nil {
			return nil, err
		}
		o.CreatedAt = parseTime(created)
		out = append(out, o)
	}
	return out, rows.Err()
}

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

func parseTime(s string) time.Time {
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}
	}
	return t
}

package sink

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/starford/guru-sync/internal/apperr"
)

const coreSchemaSQL = `
CREATE TABLE IF NOT EXISTS records (
	id         TEXT PRIMARY KEY,
	kind       TEXT NOT NULL,
	source_id  TEXT NOT NULL,
	slug       TEXT NOT NULL DEFAULT '',
	title      TEXT NOT NULL DEFAULT '',
	body       TEXT NOT NULL DEFAULT '',
	digest     TEXT NOT NULL DEFAULT '',
	payload    TEXT NOT NULL DEFAULT '{}',
	updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_records_kind ON records(kind);
CREATE INDEX IF NOT EXISTS idx_records_slug ON records(kind, slug);
`

// SQLite is a Sink backed by a SQLite database with optional FTS5 search.
type SQLite struct {
	conn *sql.DB
}

var _ Sink = (*SQLite)(nil)

// SearchResult is one search hit.
type SearchResult struct {
	ID      string
	Slug    string
	Title   string
	Snippet string
}

// OpenSQLite opens (or creates) the database and applies the schema.
func OpenSQLite(dsn string) (*SQLite, error) {
	conn, err := sql.Open("sqlite3", dsn+"?_journal_mode=WAL&_busy_timeout=5000&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("sink: open db: %w", err)
	}
	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sink: ping: %w", err)
	}
	if _, err := conn.Exec(coreSchemaSQL); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sink: apply core schema: %w", err)
	}
	if err := initFTS(conn); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sink: apply fts schema: %w", err)
	}
	return &SQLite{conn: conn}, nil
}

// Close closes the underlying database connection.
func (s *SQLite) Close() error {
	return s.conn.Close()
}

// Ping checks that the database is reachable.
func (s *SQLite) Ping() error {
	return s.conn.Ping()
}

// Emit inserts or replaces a record and its search entry in one
// transaction. Records are keyed by node id.
func (s *SQLite) Emit(ctx context.Context, rec Record) error {
	tx, err := s.conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("sink: begin tx: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // best-effort on failure path

	_, err = tx.ExecContext(ctx, `
		INSERT INTO records (id, kind, source_id, slug, title, body, digest, payload, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			kind       = excluded.kind,
			source_id  = excluded.source_id,
			slug       = excluded.slug,
			title      = excluded.title,
			body       = excluded.body,
			digest     = excluded.digest,
			payload    = excluded.payload,
			updated_at = excluded.updated_at
	`, rec.ID, rec.Kind, rec.SourceID, rec.Slug, rec.Title, rec.Text, rec.Digest, string(rec.Payload), time.Now().UTC())
	if err != nil {
		return fmt.Errorf("sink: upsert record %s: %w", rec.ID, err)
	}

	if err := ftsUpsert(tx, rec); err != nil {
		return err
	}
	return tx.Commit()
}

const recordColumns = `id, kind, source_id, slug, title, body, digest, payload`

func scanRecord(row interface{ Scan(...any) error }) (Record, error) {
	var (
		r       Record
		payload string
	)
	if err := row.Scan(&r.ID, &r.Kind, &r.SourceID, &r.Slug, &r.Title, &r.Text, &r.Digest, &payload); err != nil {
		return Record{}, err
	}
	r.Payload = []byte(payload)
	return r, nil
}

// List returns every record of kind ordered by title.
func (s *SQLite) List(kind string) ([]Record, error) {
	rows, err := s.conn.Query(`SELECT `+recordColumns+` FROM records WHERE kind = ? ORDER BY title, id`, kind)
	if err != nil {
		return nil, fmt.Errorf("sink: list %s: %w", kind, err)
	}
	defer rows.Close()

	var out []Record
	for rows.Next() {
		r, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// GetBySlug returns the card record with slug, or apperr.ErrNotFound.
func (s *SQLite) GetBySlug(slug string) (*Record, error) {
	row := s.conn.QueryRow(`SELECT `+recordColumns+` FROM records WHERE kind = ? AND slug = ? ORDER BY id LIMIT 1`, KindCard, slug)
	r, err := scanRecord(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperr.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("sink: get %s: %w", slug, err)
	}
	return &r, nil
}

//go:build !sqlite_fts5

package sink

import (
	"database/sql"
	"fmt"
)

func initFTS(_ *sql.DB) error {
	// FTS5 not available; search uses LIKE on records.body.
	return nil
}

func ftsUpsert(_ *sql.Tx, _ Record) error {
	return nil
}

// Search performs a LIKE-based search over card titles and bodies.
func (s *SQLite) Search(query string, limit int) ([]SearchResult, error) {
	if limit <= 0 {
		limit = 20
	}
	like := "%" + query + "%"
	rows, err := s.conn.Query(`
		SELECT id, slug, title, substr(body, 1, 200)
		FROM records
		WHERE kind = ? AND (title LIKE ? OR body LIKE ?)
		ORDER BY title
		LIMIT ?
	`, KindCard, like, like, limit)
	if err != nil {
		return nil, fmt.Errorf("sink: search: %w", err)
	}
	defer rows.Close()

	var out []SearchResult
	for rows.Next() {
		var r SearchResult
		if err := rows.Scan(&r.ID, &r.Slug, &r.Title, &r.Snippet); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

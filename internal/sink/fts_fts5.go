//go:build sqlite_fts5

package sink

import (
	"database/sql"
	"fmt"
)

func initFTS(conn *sql.DB) error {
	_, err := conn.Exec(`
		CREATE VIRTUAL TABLE IF NOT EXISTS cards_fts USING fts5(
			id UNINDEXED,
			slug UNINDEXED,
			title,
			body,
			tokenize = 'unicode61 remove_diacritics 2'
		);
	`)
	return err
}

func ftsUpsert(tx *sql.Tx, rec Record) error {
	if rec.Kind != KindCard {
		return nil
	}
	_, _ = tx.Exec(`DELETE FROM cards_fts WHERE id = ?`, rec.ID)
	_, err := tx.Exec(`INSERT INTO cards_fts (id, slug, title, body) VALUES (?, ?, ?, ?)`,
		rec.ID, rec.Slug, rec.Title, rec.Text)
	if err != nil {
		return fmt.Errorf("sink: upsert fts: %w", err)
	}
	return nil
}

// Search performs an FTS5 full-text search over cards with snippets.
func (s *SQLite) Search(query string, limit int) ([]SearchResult, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.conn.Query(`
		SELECT id,
		       slug,
		       title,
		       snippet(cards_fts, 3, '<b>', '</b>', '...', 64)
		FROM cards_fts
		WHERE cards_fts MATCH ?
		ORDER BY rank
		LIMIT ?
	`, query, limit)
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

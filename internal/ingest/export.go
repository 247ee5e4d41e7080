package ingest

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"

	"github.com/starford/guru-sync/internal/models"
)

// LoadExport reads a JSON array of cards, as returned by the team cards
// endpoint, from path. A null document is an empty corpus.
func LoadExport(path string) ([]models.Card, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read export: %w", err)
	}
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return nil, nil
	}
	var cards []models.Card
	if err := json.Unmarshal(data, &cards); err != nil {
		return nil, fmt.Errorf("decode export %s: %w", path, err)
	}
	return cards, nil
}

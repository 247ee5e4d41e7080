package models

import (
	"encoding/json"
	"fmt"
)

// Folder is the minimal parent reference of a board.
type Folder struct {
	ID    string `json:"id"`
	Title string `json:"title"`
}

// Board groups cards and may live under a parent folder.
type Board struct {
	ID            string  `json:"id"`
	Title         string  `json:"title"`
	Slug          string  `json:"slug,omitempty"`
	NumberOfFacts int     `json:"numberOfFacts,omitempty"`
	ParentFolder  *Folder `json:"parentFolder"`
}

// Collection is a top-level grouping. Everything except the id and name is
// passed through untouched in Raw.
type Collection struct {
	ID   string `json:"id"`
	Name string `json:"name"`

	Raw json.RawMessage `json:"-"`
}

// UnmarshalJSON keeps the raw payload alongside the typed fields.
func (c *Collection) UnmarshalJSON(data []byte) error {
	type plain Collection
	var p plain
	if err := json.Unmarshal(data, &p); err != nil {
		return fmt.Errorf("decode collection: %w", err)
	}
	*c = Collection(p)
	c.Raw = append(json.RawMessage(nil), data...)
	return nil
}

// MarshalJSON writes the original payload when there is one.
func (c Collection) MarshalJSON() ([]byte, error) {
	if len(c.Raw) > 0 {
		return c.Raw, nil
	}
	type plain Collection
	return json.Marshal(plain(c))
}

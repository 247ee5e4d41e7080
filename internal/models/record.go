package models

import (
	"encoding/json"
	"fmt"
)

// Attachment is a file downloaded from a card body and stored locally.
type Attachment struct {
	OriginalURL string `json:"originalUrl"`
	Filename    string `json:"filename"`
	Filepath    string `json:"filepath"`
	Size        int    `json:"size"`
	MimeType    string `json:"mimeType"`
}

// CardRecord is the normalized output for one card.
type CardRecord struct {
	Card           Card         `json:"-"`
	Title          string       `json:"title"`
	Content        string       `json:"content"`
	ContentHTML    *string      `json:"contentHtml"`
	AttachedFiles  []Attachment `json:"attachedFiles"`
	Slug           string       `json:"slug"`
	Boards         []Board      `json:"boards"`
	Owner          string       `json:"owner"`
	LastModifiedBy string       `json:"lastModifiedBy"`
}

// MarshalJSON merges the pass-through card fields with the derived ones.
// Derived fields win on key collisions.
func (r CardRecord) MarshalJSON() ([]byte, error) {
	out := make(map[string]any, len(r.Card.Extra)+12)
	for k, v := range r.Card.Extra {
		out[k] = v
	}
	out["id"] = r.Card.ID
	if r.Card.PreferredPhrase != "" {
		out["preferredPhrase"] = r.Card.PreferredPhrase
	}
	if r.Card.VerificationState != "" {
		out["verificationState"] = r.Card.VerificationState
	}
	if r.Card.Collection != nil {
		out["collection"] = r.Card.Collection
	}

	type derived CardRecord
	data, err := json.Marshal(derived(r))
	if err != nil {
		return nil, fmt.Errorf("encode card record: %w", err)
	}
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return nil, fmt.Errorf("encode card record: %w", err)
	}
	for k, v := range fields {
		out[k] = v
	}
	return json.Marshal(out)
}

// BoardRecord is the normalized output for one board.
type BoardRecord struct {
	Board
}

// CollectionRecord is the normalized output for one collection.
type CollectionRecord struct {
	Collection
}

// RemoteFile is the body and declared content type of a downloaded URL.
type RemoteFile struct {
	Data        []byte
	ContentType string
}

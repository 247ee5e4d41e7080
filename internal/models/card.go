// Package models defines the domain types for guru-sync.
package models

import (
	"encoding/json"
	"fmt"
)

// VerificationTrusted is the trust state of a verified card.
const VerificationTrusted = "TRUSTED"

// Card is one knowledge-base article as returned by the content API.
// Fields the sync does not interpret are kept in Extra and passed through
// to the output record.
type Card struct {
	ID                string      `json:"id"`
	Title             string      `json:"title,omitempty"`
	PreferredPhrase   string      `json:"preferredPhrase,omitempty"`
	Content           *string     `json:"content,omitempty"`
	Owner             *User       `json:"owner,omitempty"`
	LastModifiedBy    *User       `json:"lastModifiedBy,omitempty"`
	VerificationState string      `json:"verificationState,omitempty"`
	Boards            []Board     `json:"boards,omitempty"`
	Collection        *Collection `json:"collection,omitempty"`

	Extra map[string]json.RawMessage `json:"-"`
}

// cardKeys are the JSON keys decoded into typed Card fields.
var cardKeys = []string{
	"id", "title", "preferredPhrase", "content", "owner",
	"lastModifiedBy", "verificationState", "boards", "collection",
}

// UnmarshalJSON decodes the typed fields and collects the rest into Extra.
func (c *Card) UnmarshalJSON(data []byte) error {
	type plain Card
	var p plain
	if err := json.Unmarshal(data, &p); err != nil {
		return fmt.Errorf("decode card: %w", err)
	}
	var all map[string]json.RawMessage
	if err := json.Unmarshal(data, &all); err != nil {
		return fmt.Errorf("decode card fields: %w", err)
	}
	for _, k := range cardKeys {
		delete(all, k)
	}
	if len(all) == 0 {
		all = nil
	}
	*c = Card(p)
	c.Extra = all
	return nil
}

// Body returns the raw HTML body, or "" when the card has none.
func (c Card) Body() string {
	if c.Content == nil {
		return ""
	}
	return *c.Content
}

// HasBody reports whether the card carries a non-empty body.
func (c Card) HasBody() bool {
	return c.Content != nil && *c.Content != ""
}

// DisplayTitle returns the preferred phrase, the title, or fallback.
func (c Card) DisplayTitle(fallback string) string {
	if c.PreferredPhrase != "" {
		return c.PreferredPhrase
	}
	if c.Title != "" {
		return c.Title
	}
	return fallback
}

// User is a card owner or modifier. The API sends either a structured
// record or a plain string; Name holds the latter.
type User struct {
	ID        string `json:"id,omitempty"`
	FirstName string `json:"firstName,omitempty"`
	LastName  string `json:"lastName,omitempty"`
	Email     string `json:"email,omitempty"`
	Name      string `json:"-"`
}

// UnmarshalJSON accepts an object or a string.
func (u *User) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*u = User{Name: s}
		return nil
	}
	type plain User
	var p plain
	if err := json.Unmarshal(data, &p); err != nil {
		return fmt.Errorf("decode user: %w", err)
	}
	*u = User(p)
	return nil
}

// MarshalJSON writes plain-string users back as strings.
func (u User) MarshalJSON() ([]byte, error) {
	if u.Name != "" && u.FirstName == "" && u.LastName == "" {
		return json.Marshal(u.Name)
	}
	type plain User
	return json.Marshal(plain(u))
}

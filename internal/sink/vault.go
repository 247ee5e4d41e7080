package sink

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"

	"github.com/starford/guru-sync/internal/storage"
)

// Vault writes each card record as a Markdown file with YAML frontmatter.
// Boards and collections are listed in the frontmatter of their cards and
// get no file of their own. When a card's slug changes its previous file is
// removed.
type Vault struct {
	store  storage.Provider
	logger *slog.Logger

	mu    sync.Mutex
	paths map[string]string // guru id -> vault path, loaded on first emit
}

var _ Sink = (*Vault)(nil)

// NewVault creates a Vault over store. A nil logger uses slog.Default().
func NewVault(store storage.Provider, logger *slog.Logger) *Vault {
	if logger == nil {
		logger = slog.Default()
	}
	return &Vault{store: store, logger: logger}
}

// cardDoc is the part of a card payload the vault renders.
type cardDoc struct {
	ID                string `json:"id"`
	Title             string `json:"title"`
	Content           string `json:"content"`
	Slug              string `json:"slug"`
	Owner             string `json:"owner"`
	LastModifiedBy    string `json:"lastModifiedBy"`
	VerificationState string `json:"verificationState"`
	Boards            []struct {
		Title string `json:"title"`
	} `json:"boards"`
	AttachedFiles []struct {
		Filename string `json:"filename"`
	} `json:"attachedFiles"`
}

type cardFrontmatter struct {
	ID                string   `yaml:"id"`
	GuruID            string   `yaml:"guru_id"`
	Title             string   `yaml:"title"`
	Slug              string   `yaml:"slug"`
	Owner             string   `yaml:"owner"`
	LastModifiedBy    string   `yaml:"last_modified_by"`
	VerificationState string   `yaml:"verification_state,omitempty"`
	Boards            []string `yaml:"boards,omitempty"`
	Attachments       []string `yaml:"attachments,omitempty"`
	Digest            string   `yaml:"digest"`
}

// Path returns the vault-relative file of a card slug.
func Path(slug string) string {
	return slug + ".md"
}

// Emit writes card records; other kinds are ignored. A file whose stored
// digest matches the record is left untouched.
func (v *Vault) Emit(_ context.Context, rec Record) error {
	if rec.Kind != KindCard {
		return nil
	}
	path := Path(rec.Slug)

	v.mu.Lock()
	defer v.mu.Unlock()
	if err := v.loadPaths(); err != nil {
		return err
	}
	if err := v.removeStale(rec.SourceID, path); err != nil {
		return err
	}

	if existing, err := v.store.Read(path); err == nil {
		if fm, _ := splitFrontmatter(existing); fm != nil && fm["digest"] == rec.Digest {
			v.paths[rec.SourceID] = path
			v.logger.Debug("vault file unchanged", slog.String("path", path))
			return nil
		}
	}

	var doc cardDoc
	if err := json.Unmarshal(rec.Payload, &doc); err != nil {
		return fmt.Errorf("sink: decode card %s: %w", rec.SourceID, err)
	}
	fm := cardFrontmatter{
		ID:                rec.ID,
		GuruID:            rec.SourceID,
		Title:             doc.Title,
		Slug:              rec.Slug,
		Owner:             doc.Owner,
		LastModifiedBy:    doc.LastModifiedBy,
		VerificationState: doc.VerificationState,
		Digest:            rec.Digest,
	}
	for _, b := range doc.Boards {
		fm.Boards = append(fm.Boards, b.Title)
	}
	for _, a := range doc.AttachedFiles {
		fm.Attachments = append(fm.Attachments, a.Filename)
	}

	data, err := renderFrontmatter(fm, doc.Content)
	if err != nil {
		return err
	}
	if err := v.store.Write(path, data); err != nil {
		return fmt.Errorf("sink: write %s: %w", path, err)
	}
	v.paths[rec.SourceID] = path
	v.logger.Debug("vault file written", slog.String("path", path))
	return nil
}

// loadPaths indexes the existing vault files by the card id in their
// frontmatter.
func (v *Vault) loadPaths() error {
	if v.paths != nil {
		return nil
	}
	files, err := v.store.Glob("*.md")
	if err != nil {
		return fmt.Errorf("sink: list vault: %w", err)
	}
	v.paths = make(map[string]string, len(files))
	for _, f := range files {
		if id := v.fileCardID(f); id != "" {
			v.paths[id] = f
		}
	}
	return nil
}

// removeStale deletes the previous file of card id when it lives at a path
// other than path and still belongs to that card.
func (v *Vault) removeStale(id, path string) error {
	old, ok := v.paths[id]
	if !ok || old == path {
		return nil
	}
	delete(v.paths, id)
	// Another card with the same slug may have taken the file over.
	if v.fileCardID(old) != id {
		return nil
	}
	if err := v.store.Remove(old); err != nil {
		return fmt.Errorf("sink: remove %s: %w", old, err)
	}
	v.logger.Debug("vault file removed after slug change", slog.String("path", old), slog.String("new_path", path))
	return nil
}

func (v *Vault) fileCardID(path string) string {
	data, err := v.store.Read(path)
	if err != nil {
		return ""
	}
	fm, _ := splitFrontmatter(data)
	id, _ := fm["guru_id"].(string)
	return id
}

// Package cardservice reads synced records back for the preview server and
// the MCP tools.
package cardservice

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/starford/guru-sync/internal/models"
	"github.com/starford/guru-sync/internal/sink"
)

// Store is the read side of the record sink.
type Store interface {
	List(kind string) ([]sink.Record, error)
	GetBySlug(slug string) (*sink.Record, error)
	Search(query string, limit int) ([]sink.SearchResult, error)
}

var _ Store = (*sink.SQLite)(nil)

// CardListItem is a lightweight item in a list response.
type CardListItem struct {
	ID                string `json:"id"`
	GuruID            string `json:"guru_id"`
	Slug              string `json:"slug"`
	Title             string `json:"title"`
	Owner             string `json:"owner"`
	VerificationState string `json:"verification_state,omitempty"`
	Digest            string `json:"digest"`
}

// CardDetail is the full representation of a card.
type CardDetail struct {
	ID                string              `json:"id"`
	GuruID            string              `json:"guru_id"`
	Slug              string              `json:"slug"`
	Title             string              `json:"title"`
	Content           string              `json:"content"`
	ContentHTML       *string             `json:"content_html"`
	Owner             string              `json:"owner"`
	LastModifiedBy    string              `json:"last_modified_by"`
	VerificationState string              `json:"verification_state,omitempty"`
	Boards            []models.Board      `json:"boards"`
	AttachedFiles     []models.Attachment `json:"attached_files"`
	Digest            string              `json:"digest"`
}

// cardPayload is the subset of a card record payload the service reads.
type cardPayload struct {
	Content           string              `json:"content"`
	ContentHTML       *string             `json:"contentHtml"`
	Owner             string              `json:"owner"`
	LastModifiedBy    string              `json:"lastModifiedBy"`
	VerificationState string              `json:"verificationState"`
	Boards            []models.Board      `json:"boards"`
	AttachedFiles     []models.Attachment `json:"attachedFiles"`
}

// Service answers read queries over synced records.
type Service struct {
	db Store
}

// NewService creates a new card service.
func NewService(db Store) *Service {
	return &Service{db: db}
}

// ListCards returns every synced card ordered by title.
func (s *Service) ListCards(_ context.Context) ([]CardListItem, error) {
	recs, err := s.db.List(sink.KindCard)
	if err != nil {
		return nil, err
	}
	items := make([]CardListItem, 0, len(recs))
	for _, r := range recs {
		p, err := decodeCard(r)
		if err != nil {
			return nil, err
		}
		items = append(items, CardListItem{
			ID:                r.ID,
			GuruID:            r.SourceID,
			Slug:              r.Slug,
			Title:             r.Title,
			Owner:             p.Owner,
			VerificationState: p.VerificationState,
			Digest:            r.Digest,
		})
	}
	return items, nil
}

// GetCard returns the card with slug, or apperr.ErrNotFound.
func (s *Service) GetCard(_ context.Context, slug string) (*CardDetail, error) {
	r, err := s.db.GetBySlug(slug)
	if err != nil {
		return nil, err
	}
	p, err := decodeCard(*r)
	if err != nil {
		return nil, err
	}
	d := &CardDetail{
		ID:                r.ID,
		GuruID:            r.SourceID,
		Slug:              r.Slug,
		Title:             r.Title,
		Content:           p.Content,
		ContentHTML:       p.ContentHTML,
		Owner:             p.Owner,
		LastModifiedBy:    p.LastModifiedBy,
		VerificationState: p.VerificationState,
		Boards:            p.Boards,
		AttachedFiles:     p.AttachedFiles,
		Digest:            r.Digest,
	}
	if d.Boards == nil {
		d.Boards = []models.Board{}
	}
	if d.AttachedFiles == nil {
		d.AttachedFiles = []models.Attachment{}
	}
	return d, nil
}

// ListBoards returns every synced board with its parent folder.
func (s *Service) ListBoards(_ context.Context) ([]models.Board, error) {
	recs, err := s.db.List(sink.KindBoard)
	if err != nil {
		return nil, err
	}
	boards := make([]models.Board, 0, len(recs))
	for _, r := range recs {
		var b models.Board
		if err := json.Unmarshal(r.Payload, &b); err != nil {
			return nil, fmt.Errorf("cardservice: decode board %s: %w", r.SourceID, err)
		}
		boards = append(boards, b)
	}
	return boards, nil
}

// ListCollections returns the synced collections as stored.
func (s *Service) ListCollections(_ context.Context) ([]json.RawMessage, error) {
	recs, err := s.db.List(sink.KindCollection)
	if err != nil {
		return nil, err
	}
	out := make([]json.RawMessage, 0, len(recs))
	for _, r := range recs {
		out = append(out, r.Payload)
	}
	return out, nil
}

// Search runs a full-text search over cards.
func (s *Service) Search(_ context.Context, query string, limit int) ([]sink.SearchResult, error) {
	return s.db.Search(query, limit)
}

func decodeCard(r sink.Record) (cardPayload, error) {
	var p cardPayload
	if err := json.Unmarshal(r.Payload, &p); err != nil {
		return p, fmt.Errorf("cardservice: decode card %s: %w", r.SourceID, err)
	}
	return p, nil
}

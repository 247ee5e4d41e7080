// Package pipeline runs the per-card content steps: attachment download,
// internal link resolution and Markdown conversion.
package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/starford/guru-sync/internal/attachment"
	"github.com/starford/guru-sync/internal/content"
	"github.com/starford/guru-sync/internal/markdown"
	"github.com/starford/guru-sync/internal/models"
)

// Result is the converted form of one card.
type Result struct {
	ConvertedContent string
	AttachedFiles    []models.Attachment
}

// Pipeline processes cards one at a time.
type Pipeline struct {
	materializer *attachment.Materializer
	links        *content.LinkResolver
	header       http.Header
	logger       *slog.Logger
}

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithAttachments enables attachment download through m, using header
// for authenticated requests.
func WithAttachments(m *attachment.Materializer, header http.Header) Option {
	return func(p *Pipeline) {
		p.materializer = m
		p.header = header
	}
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(p *Pipeline) {
		if l != nil {
			p.logger = l
		}
	}
}

// New creates a Pipeline. Attachments are left remote unless
// WithAttachments is given.
func New(opts ...Option) *Pipeline {
	p := &Pipeline{logger: slog.Default()}
	for _, opt := range opts {
		opt(p)
	}
	p.links = content.NewLinkResolver(p.logger)
	return p
}

// Process converts card, resolving links against corpus.
func (p *Pipeline) Process(ctx context.Context, card models.Card, corpus []models.Card) (Result, error) {
	body := card.Content
	files := []models.Attachment{}

	if p.materializer != nil {
		res := p.materializer.Process(ctx, card, p.header)
		body = &res.ProcessedContent
		files = res.AttachedFiles
	}

	body = p.links.Resolve(body, card, corpus)
	if body == nil || *body == "" {
		return Result{ConvertedContent: "", AttachedFiles: files}, nil
	}

	md, err := markdown.Convert(*body)
	if err != nil {
		return Result{}, fmt.Errorf("pipeline: card %s: %w", card.ID, err)
	}
	return Result{ConvertedContent: md, AttachedFiles: files}, nil
}

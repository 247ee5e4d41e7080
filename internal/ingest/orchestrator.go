// Package ingest runs a full sync: it acquires the card corpus, enriches
// boards with their parent folders, converts every card and emits the
// output records.
package ingest

import (
	"context"
	"fmt"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"github.com/starford/guru-sync/internal/content"
	"github.com/starford/guru-sync/internal/guru"
	"github.com/starford/guru-sync/internal/models"
	"github.com/starford/guru-sync/internal/pipeline"
	"github.com/starford/guru-sync/internal/sink"
)

// Corpus sources.
const (
	SourceAPI  = "api"
	SourceFile = "file"
)

// API is the part of the content API a sync uses.
type API interface {
	FetchCardsFromSearch(ctx context.Context) ([]models.Card, error)
	FetchCardsFromTeam(ctx context.Context) ([]models.Card, error)
	FetchBoards(ctx context.Context) ([]models.Board, error)
	FetchCollections(ctx context.Context) ([]models.Collection, error)
	FetchParent(ctx context.Context, boardID string) (*models.Folder, error)
}

var _ API = (*guru.Client)(nil)

// Options select what a run fetches and emits.
type Options struct {
	// AuthMode is guru.AuthModeUser or guru.AuthModeCollection.
	AuthMode string
	// Source is SourceAPI or SourceFile.
	Source string
	// ExportPath is the JSON card export read by SourceFile.
	ExportPath        string
	OnlyVerified      bool
	FetchBoards       bool
	FetchCollections  bool
	ParentConcurrency int
}

// Summary counts what a run produced.
type Summary struct {
	CardsProcessed   int `json:"cardsProcessed"`
	BoardsFound      int `json:"boardsFound"`
	CollectionsFound int `json:"collectionsFound"`
	Attachments      int `json:"attachments"`
}

// Orchestrator runs syncs.
type Orchestrator struct {
	api      API
	pipeline *pipeline.Pipeline
	sink     sink.Sink
	opts     Options
	logger   *slog.Logger
}

// New creates an Orchestrator. api may be nil for file sources; parent
// folders are then taken from the export as is.
func New(api API, p *pipeline.Pipeline, s sink.Sink, opts Options, logger *slog.Logger) *Orchestrator {
	if logger == nil {
		logger = slog.Default()
	}
	if opts.ParentConcurrency < 1 {
		opts.ParentConcurrency = 1
	}
	return &Orchestrator{api: api, pipeline: p, sink: s, opts: opts, logger: logger}
}

// Run performs one sync. Corpus, board and collection fetch failures abort
// the run; per-card attachment and parent lookup failures do not.
func (o *Orchestrator) Run(ctx context.Context) (Summary, error) {
	var sum Summary

	cards, err := o.acquire(ctx)
	if err != nil {
		return sum, err
	}
	o.logger.Info("corpus acquired", slog.Int("cards", len(cards)), slog.String("source", o.opts.Source))

	boards := aggregateBoards(cards)
	if o.userAPI() && o.opts.FetchBoards {
		teamBoards, err := o.api.FetchBoards(ctx)
		if err != nil {
			return sum, fmt.Errorf("ingest: %w", err)
		}
		boards = mergeBoards(boards, teamBoards)
	}
	if o.api != nil && o.opts.Source == SourceAPI {
		boards = o.resolveParents(ctx, boards)
	}
	byID := make(map[string]models.Board, len(boards))
	for _, b := range boards {
		byID[b.ID] = b
	}

	filtered := content.FilterByVerification(cards, o.opts.OnlyVerified)
	if dropped := len(cards) - len(filtered); dropped > 0 {
		o.logger.Info("unverified duplicates skipped", slog.Int("count", dropped))
	}

	for _, card := range filtered {
		if err := ctx.Err(); err != nil {
			return sum, err
		}
		res, err := o.pipeline.Process(ctx, card, filtered)
		if err != nil {
			return sum, err
		}
		rec, err := cardRecord(card, res, byID)
		if err != nil {
			return sum, err
		}
		if err := o.sink.Emit(ctx, rec); err != nil {
			return sum, fmt.Errorf("ingest: emit card %s: %w", card.ID, err)
		}
		sum.CardsProcessed++
		sum.Attachments += len(res.AttachedFiles)
	}

	if o.userAPI() && o.opts.FetchCollections {
		cols, err := o.api.FetchCollections(ctx)
		if err != nil {
			return sum, fmt.Errorf("ingest: %w", err)
		}
		for _, c := range cols {
			rec, err := collectionRecord(c)
			if err != nil {
				return sum, err
			}
			if err := o.sink.Emit(ctx, rec); err != nil {
				return sum, fmt.Errorf("ingest: emit collection %s: %w", c.ID, err)
			}
		}
		sum.CollectionsFound = len(cols)
	}

	for _, b := range boards {
		rec, err := boardRecord(b)
		if err != nil {
			return sum, err
		}
		if err := o.sink.Emit(ctx, rec); err != nil {
			return sum, fmt.Errorf("ingest: emit board %s: %w", b.ID, err)
		}
	}
	sum.BoardsFound = len(boards)

	o.logger.Info("sync finished",
		slog.Int("cards", sum.CardsProcessed),
		slog.Int("boards", sum.BoardsFound),
		slog.Int("collections", sum.CollectionsFound),
		slog.Int("attachments", sum.Attachments))
	return sum, nil
}

func (o *Orchestrator) userAPI() bool {
	return o.api != nil && o.opts.Source == SourceAPI && o.opts.AuthMode != guru.AuthModeCollection
}

func (o *Orchestrator) acquire(ctx context.Context) ([]models.Card, error) {
	var (
		cards []models.Card
		err   error
	)
	switch {
	case o.opts.Source == SourceFile:
		cards, err = LoadExport(o.opts.ExportPath)
	case o.api == nil:
		return nil, fmt.Errorf("ingest: api source without a client")
	case o.opts.AuthMode == guru.AuthModeCollection:
		cards, err = o.api.FetchCardsFromSearch(ctx)
	default:
		cards, err = o.api.FetchCardsFromTeam(ctx)
	}
	if err != nil {
		return nil, fmt.Errorf("ingest: %w", err)
	}
	return cards, nil
}

// aggregateBoards collects the distinct boards referenced by cards. The
// first occurrence of an id wins.
func aggregateBoards(cards []models.Card) []models.Board {
	seen := make(map[string]bool)
	var out []models.Board
	for _, c := range cards {
		for _, b := range c.Boards {
			if b.ID == "" || seen[b.ID] {
				continue
			}
			seen[b.ID] = true
			out = append(out, b)
		}
	}
	return out
}

// mergeBoards appends the boards of extra not already in boards.
func mergeBoards(boards, extra []models.Board) []models.Board {
	seen := make(map[string]bool, len(boards))
	for _, b := range boards {
		seen[b.ID] = true
	}
	for _, b := range extra {
		if b.ID == "" || seen[b.ID] {
			continue
		}
		seen[b.ID] = true
		boards = append(boards, b)
	}
	return boards
}

// resolveParents looks up the parent folder of every board with bounded
// concurrency. Failures leave ParentFolder nil. Output order matches input.
func (o *Orchestrator) resolveParents(ctx context.Context, boards []models.Board) []models.Board {
	out := make([]models.Board, len(boards))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(o.opts.ParentConcurrency)

	for i, b := range boards {
		g.Go(func() error {
			parent, err := o.api.FetchParent(gctx, b.ID)
			if err != nil {
				o.logger.Warn("could not fetch board parent",
					slog.String("board_id", b.ID),
					slog.String("error", err.Error()))
				parent = nil
			}
			b.ParentFolder = parent
			out[i] = b
			return nil
		})
	}
	_ = g.Wait()

	o.logger.Info("board parents resolved", slog.Int("boards", len(boards)))
	return out
}

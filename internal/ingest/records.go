package ingest

import (
	"github.com/starford/guru-sync/internal/content"
	"github.com/starford/guru-sync/internal/models"
	"github.com/starford/guru-sync/internal/pipeline"
	"github.com/starford/guru-sync/internal/sink"
)

// untitledCard is the title of a card without phrase or title.
const untitledCard = "Untitled Card"

// cardRecord builds the output record of a converted card. Boards are
// replaced by their enriched versions where known.
func cardRecord(card models.Card, res pipeline.Result, boards map[string]models.Board) (sink.Record, error) {
	enriched := make([]models.Board, 0, len(card.Boards))
	for _, b := range card.Boards {
		if e, ok := boards[b.ID]; ok {
			b = e
		}
		enriched = append(enriched, b)
	}

	rec := models.CardRecord{
		Card:           card,
		Title:          card.DisplayTitle(untitledCard),
		Content:        res.ConvertedContent,
		ContentHTML:    card.Content,
		AttachedFiles:  res.AttachedFiles,
		Slug:           content.CardSlug(card),
		Boards:         enriched,
		Owner:          content.FormatUserName(card.Owner),
		LastModifiedBy: content.FormatUserName(card.LastModifiedBy),
	}
	return sink.NewRecord(sink.KindCard, card.ID, rec.Slug, rec.Title, rec.Content, rec)
}

func boardRecord(b models.Board) (sink.Record, error) {
	return sink.NewRecord(sink.KindBoard, b.ID, b.Slug, b.Title, "", models.BoardRecord{Board: b})
}

func collectionRecord(c models.Collection) (sink.Record, error) {
	return sink.NewRecord(sink.KindCollection, c.ID, "", c.Name, "", models.CollectionRecord{Collection: c})
}

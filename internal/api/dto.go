package api

import (
	"encoding/json"

	"github.com/starford/guru-sync/internal/cardservice"
	"github.com/starford/guru-sync/internal/models"
	"github.com/starford/guru-sync/internal/sink"
)

// CardListResponse is the response for GET /api/cards.
type CardListResponse struct {
	Cards []cardservice.CardListItem `json:"cards"`
	Total int                        `json:"total"`
}

// BoardListResponse is the response for GET /api/boards.
type BoardListResponse struct {
	Boards []models.Board `json:"boards"`
}

// CollectionListResponse is the response for GET /api/collections.
type CollectionListResponse struct {
	Collections []json.RawMessage `json:"collections"`
}

// SearchResponse is the response for GET /api/search.
type SearchResponse struct {
	Results []sink.SearchResult `json:"results"`
}

package api

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/starford/guru-sync/internal/apperr"
	"github.com/starford/guru-sync/internal/cardservice"
	"github.com/starford/guru-sync/internal/sink"
)

// Handler holds API route handlers.
type Handler struct {
	svc *cardservice.Service
}

// NewHandler creates a new Handler.
func NewHandler(svc *cardservice.Service) *Handler {
	return &Handler{svc: svc}
}

// ListCards handles GET /api/cards.
func (h *Handler) ListCards(w http.ResponseWriter, r *http.Request) {
	items, err := h.svc.ListCards(r.Context())
	if err != nil {
		slog.Error("list cards failed", slog.String("error", err.Error()))
		writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
		return
	}
	writeJSON(w, http.StatusOK, CardListResponse{Cards: items, Total: len(items)})
}

// GetCard handles GET /api/cards/{slug}.
func (h *Handler) GetCard(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "slug")
	card, err := h.svc.GetCard(r.Context(), slug)
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			writeJSON(w, http.StatusNotFound, errorBody("not found"))
		} else {
			slog.Error("get card failed", slog.String("slug", slug), slog.String("error", err.Error()))
			writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
		}
		return
	}
	writeJSON(w, http.StatusOK, card)
}

// ListBoards handles GET /api/boards.
func (h *Handler) ListBoards(w http.ResponseWriter, r *http.Request) {
	boards, err := h.svc.ListBoards(r.Context())
	if err != nil {
		slog.Error("list boards failed", slog.String("error", err.Error()))
		writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
		return
	}
	writeJSON(w, http.StatusOK, BoardListResponse{Boards: boards})
}

// ListCollections handles GET /api/collections.
func (h *Handler) ListCollections(w http.ResponseWriter, r *http.Request) {
	colls, err := h.svc.ListCollections(r.Context())
	if err != nil {
		slog.Error("list collections failed", slog.String("error", err.Error()))
		writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
		return
	}
	writeJSON(w, http.StatusOK, CollectionListResponse{Collections: colls})
}

// Search handles GET /api/search?q=...&limit=...
func (h *Handler) Search(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query().Get("q")
	if q == "" {
		writeJSON(w, http.StatusBadRequest, errorBody("query parameter 'q' is required"))
		return
	}
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))

	results, err := h.svc.Search(r.Context(), q, limit)
	if err != nil {
		slog.Error("search failed", slog.String("query", q), slog.String("error", err.Error()))
		writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
		return
	}
	if results == nil {
		results = []sink.SearchResult{}
	}
	writeJSON(w, http.StatusOK, SearchResponse{Results: results})
}

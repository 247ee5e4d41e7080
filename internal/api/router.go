package api

import (
	"github.com/go-chi/chi/v5"

	"github.com/starford/guru-sync/internal/cardservice"
)

// NewRouter creates a chi router with the card API routes, to be mounted
// under /api. authEnabled controls whether Bearer token auth is enforced.
func NewRouter(svc *cardservice.Service, authEnabled bool, token string) chi.Router {
	h := NewHandler(svc)

	r := chi.NewRouter()
	r.Use(AuthMiddleware(authEnabled, token))

	r.Get("/cards", h.ListCards)
	r.Get("/cards/{slug}", h.GetCard)
	r.Get("/boards", h.ListBoards)
	r.Get("/collections", h.ListCollections)
	r.Get("/search", h.Search)

	return r
}

// NewAttachmentRouter serves stored attachments by file name. It is mounted
// at the public attachment prefix.
func NewAttachmentRouter(h *AttachmentHandler, authEnabled bool, token string) chi.Router {
	r := chi.NewRouter()
	r.Use(AuthMiddleware(authEnabled, token))
	r.Get("/{filename}", h.ServeFile)
	return r
}

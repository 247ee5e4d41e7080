package api

import (
	"net/http"
	"path/filepath"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/starford/guru-sync/internal/storage"
)

// AttachmentHandler serves downloaded card attachments.
type AttachmentHandler struct {
	store storage.Provider
}

// NewAttachmentHandler creates a handler over the attachment store.
func NewAttachmentHandler(store storage.Provider) *AttachmentHandler {
	return &AttachmentHandler{store: store}
}

// ServeFile handles GET {prefix}{filename}. Only plain names are served.
func (h *AttachmentHandler) ServeFile(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "filename")
	if name == "" || name != filepath.Base(name) || strings.Contains(name, "..") {
		http.Error(w, "invalid filename", http.StatusBadRequest)
		return
	}
	if !h.store.Exists(name) {
		http.NotFound(w, r)
		return
	}
	abs, err := h.store.Abs(name)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	http.ServeFile(w, r, abs)
}

package handlers

import (
	"net/http"

	"github.com/moviestream-ai/moviestream/internal/models"
)

func (h *Handler) HandleBrowse(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, h.browse)
}

func (h *Handler) HandleContinueWatching(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, models.ContinueWatchingResponse{Items: h.history.List(r.Context())})
}

func (h *Handler) HandleClearContinueWatching(w http.ResponseWriter, r *http.Request) {
	if err := h.history.Clear(r.Context()); err != nil {
		h.writeError(w, "Unable to clear continue watching", http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

package handlers

import (
	"errors"
	"net/http"

	"github.com/moviestream-ai/moviestream/internal/genie"
	"github.com/moviestream-ai/moviestream/internal/media"
	"github.com/moviestream-ai/moviestream/internal/models"
)

// HandleGenie resolves a description into movie recommendations.
func (h *Handler) HandleGenie(w http.ResponseWriter, r *http.Request) {
	var req models.GenieRequest
	if !h.decode(w, r, &req) {
		return
	}

	movies, err := h.genie.Recommend(r.Context(), req.Prompt)
	if err != nil {
		if !errors.Is(err, genie.ErrUnavailable) {
			h.writeError(w, err.Error(), http.StatusInternalServerError)
			return
		}
		h.writeJSON(w, http.StatusBadGateway, models.GenieResponse{
			Results: []media.Movie{},
			Error:   genie.UnavailableMessage,
		})
		return
	}
	if movies == nil {
		movies = []media.Movie{}
	}
	h.writeJSON(w, http.StatusOK, models.GenieResponse{Results: movies, Mock: h.genie.UsesMock()})
}

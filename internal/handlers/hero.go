package handlers

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
)

func (h *Handler) HandleHero(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, h.hero.Snapshot())
}

func (h *Handler) HandleHeroNext(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, h.hero.Next())
}

func (h *Handler) HandleHeroPrev(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, h.hero.Prev())
}

func (h *Handler) HandleHeroSelect(w http.ResponseWriter, r *http.Request) {
	index, err := strconv.Atoi(chi.URLParam(r, "index"))
	if err != nil {
		h.writeError(w, "Invalid slide index", http.StatusBadRequest)
		return
	}
	snap, err := h.hero.Select(index)
	if err != nil {
		h.writeError(w, err.Error(), http.StatusBadRequest)
		return
	}
	h.writeJSON(w, http.StatusOK, snap)
}

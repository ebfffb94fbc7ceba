package handlers

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/moviestream-ai/moviestream/internal/events"
	"github.com/moviestream-ai/moviestream/internal/media"
	"github.com/moviestream-ai/moviestream/internal/models"
	"github.com/moviestream-ai/moviestream/internal/view"
	"github.com/moviestream-ai/moviestream/internal/watch"
)

// HandleCreateSession opens a session on the home page and loads its rails.
func (h *Handler) HandleCreateSession(w http.ResponseWriter, r *http.Request) {
	session := h.sessions.Create()
	stream := events.SessionStream(session.ID)
	session.OnChange(func(s view.Snapshot) {
		h.broker.Publish(stream, "session", s)
	})
	h.writeJSON(w, http.StatusCreated, session.Start(r.Context()))
}

func (h *Handler) HandleGetSession(w http.ResponseWriter, r *http.Request) {
	session, ok := h.getSessionOrError(w, chi.URLParam(r, "id"))
	if !ok {
		return
	}
	h.writeJSON(w, http.StatusOK, session.Snapshot())
}

func (h *Handler) HandleDeleteSession(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if !h.sessions.Delete(id) {
		h.writeError(w, "Session not found", http.StatusNotFound)
		return
	}
	h.broker.RemoveStream(events.SessionStream(id))
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) HandleNavigate(w http.ResponseWriter, r *http.Request) {
	var req models.NavigateRequest
	if !h.decode(w, r, &req) {
		return
	}
	h.dispatch(w, r, view.Navigate{Page: view.Page(req.Page)})
}

func (h *Handler) HandleFilter(w http.ResponseWriter, r *http.Request) {
	var req models.FilterRequest
	if !h.decode(w, r, &req) {
		return
	}
	h.dispatch(w, r, view.ChangeFilter{Page: view.Page(req.Page), Filter: req.Filter})
}

func (h *Handler) HandleSearch(w http.ResponseWriter, r *http.Request) {
	var req models.SearchRequest
	if !h.decode(w, r, &req) {
		return
	}
	h.dispatch(w, r, view.Search{Query: req.Query})
}

func (h *Handler) HandleOpenWatch(w http.ResponseWriter, r *http.Request) {
	var req models.WatchRequest
	if !h.decode(w, r, &req) {
		return
	}
	h.dispatch(w, r, view.OpenWatch{ID: req.ID, Kind: media.Kind(req.Type)})
}

func (h *Handler) HandleCloseWatch(w http.ResponseWriter, r *http.Request) {
	h.dispatch(w, r, view.CloseWatch{})
}

func (h *Handler) dispatch(w http.ResponseWriter, r *http.Request, a view.Action) {
	session, ok := h.getSessionOrError(w, chi.URLParam(r, "id"))
	if !ok {
		return
	}
	snap, err := session.Dispatch(r.Context(), a)
	if err != nil {
		h.writeError(w, err.Error(), actionStatus(err))
		return
	}
	h.writeJSON(w, http.StatusOK, snap)
}

func actionStatus(err error) int {
	switch {
	case errors.Is(err, view.ErrPageMismatch), errors.Is(err, view.ErrFilterNotSupported):
		return http.StatusConflict
	default:
		return http.StatusBadRequest
	}
}

func (h *Handler) HandleSelectSeason(w http.ResponseWriter, r *http.Request) {
	var req models.SeasonRequest
	if !h.decode(w, r, &req) {
		return
	}
	h.withPlayer(w, r, func(p *watch.Player) error {
		return p.SelectSeason(r.Context(), req.Season)
	})
}

func (h *Handler) HandleSelectEpisode(w http.ResponseWriter, r *http.Request) {
	var req models.EpisodeRequest
	if !h.decode(w, r, &req) {
		return
	}
	h.withPlayer(w, r, func(p *watch.Player) error {
		return p.SelectEpisode(req.Episode)
	})
}

// withPlayer applies fn to the session's open overlay and publishes the
// resulting snapshot.
func (h *Handler) withPlayer(w http.ResponseWriter, r *http.Request, fn func(*watch.Player) error) {
	session, ok := h.getSessionOrError(w, chi.URLParam(r, "id"))
	if !ok {
		return
	}
	player, open := session.Player()
	if !open {
		h.writeError(w, "No title is open", http.StatusNotFound)
		return
	}
	if err := fn(player); err != nil {
		h.writeError(w, err.Error(), playerStatus(err))
		// A failed season fetch still changed the selection; subscribers get
		// the new state while the response carries the error.
		session.Publish()
		return
	}
	h.writeJSON(w, http.StatusOK, session.Notify())
}

func playerStatus(err error) int {
	switch {
	case errors.Is(err, watch.ErrNotTV),
		errors.Is(err, watch.ErrUnknownSeason),
		errors.Is(err, watch.ErrUnknownEpisode):
		return http.StatusBadRequest
	case errors.Is(err, watch.ErrDetailsNotReady):
		return http.StatusConflict
	default:
		return http.StatusBadGateway
	}
}

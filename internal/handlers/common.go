// Package handlers exposes sessions, the hero carousel, recommendations and
// the continue-watching list over a JSON HTTP API.
package handlers

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"
	json "github.com/goccy/go-json"

	"github.com/moviestream-ai/moviestream/internal/browse"
	"github.com/moviestream-ai/moviestream/internal/carousel"
	"github.com/moviestream-ai/moviestream/internal/events"
	"github.com/moviestream-ai/moviestream/internal/genie"
	"github.com/moviestream-ai/moviestream/internal/history"
	"github.com/moviestream-ai/moviestream/internal/models"
	"github.com/moviestream-ai/moviestream/internal/view"
)

// maxBodyBytes bounds request bodies.
const maxBodyBytes = 64 << 10

type Handler struct {
	sessions *view.Registry
	hero     *carousel.Carousel
	genie    *genie.Service
	history  *history.Store
	browse   *browse.Catalog
	broker   *events.Broker
	validate *validator.Validate
}

// Deps are the services the handlers serve.
type Deps struct {
	Sessions *view.Registry
	Hero     *carousel.Carousel
	Genie    *genie.Service
	History  *history.Store
	Browse   *browse.Catalog
	Broker   *events.Broker
}

// New returns a Handler and publishes carousel changes on the hero stream.
func New(d Deps) *Handler {
	h := &Handler{
		sessions: d.Sessions,
		hero:     d.Hero,
		genie:    d.Genie,
		history:  d.History,
		browse:   d.Browse,
		broker:   d.Broker,
		validate: validator.New(),
	}
	h.hero.OnChange(func(s carousel.Snapshot) {
		h.broker.Publish(events.HeroStream, "hero", s)
	})
	return h
}

// Response helpers
func (h *Handler) writeJSON(w http.ResponseWriter, code int, data interface{}) {
	body, err := json.Marshal(data)
	if err != nil {
		slog.Error("Unable to encode JSON response", "err", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if _, err := w.Write(body); err != nil {
		slog.Error("Unable to write response", "err", err)
	}
}

func (h *Handler) writeError(w http.ResponseWriter, message string, code int) {
	if code >= http.StatusInternalServerError {
		slog.Error(message, "status", code)
	} else {
		slog.Debug(message, "status", code)
	}
	h.writeJSON(w, code, models.ErrorResponse{Error: message})
}

// decode reads a JSON body into v and validates it.
func (h *Handler) decode(w http.ResponseWriter, r *http.Request, v interface{}) bool {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		h.writeError(w, "Unable to read request body", http.StatusBadRequest)
		return false
	}
	if err := json.Unmarshal(body, v); err != nil {
		h.writeError(w, "Invalid JSON: "+err.Error(), http.StatusBadRequest)
		return false
	}
	if err := h.validate.Struct(v); err != nil {
		h.writeError(w, validationMessage(err), http.StatusBadRequest)
		return false
	}
	return true
}

func validationMessage(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err.Error()
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, fmt.Sprintf("%s failed %q", strings.ToLower(fe.Field()), fe.Tag()))
	}
	return "Invalid request: " + strings.Join(msgs, "; ")
}

// Session helpers
func (h *Handler) getSessionOrError(w http.ResponseWriter, sessionID string) (*view.Session, bool) {
	session, exists := h.sessions.Get(sessionID)
	if !exists {
		h.writeError(w, "Session not found", http.StatusNotFound)
		return nil, false
	}
	session.Touch()
	return session, true
}

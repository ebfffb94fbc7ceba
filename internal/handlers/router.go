package handlers

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/moviestream-ai/moviestream/internal/metrics"
)

// RouterOptions configure the middleware stack.
type RouterOptions struct {
	CORSOrigins []string
	// RateLimit is the number of API requests allowed per client IP within
	// RateWindow. Zero disables rate limiting.
	RateLimit  int
	RateWindow time.Duration
}

// Router wires every route onto a chi mux.
func (h *Handler) Router(opts RouterOptions) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: opts.CORSOrigins,
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type", "X-Request-Id"},
		MaxAge:         300,
	}))
	r.Use(instrument)

	r.Get("/healthcheck", func(w http.ResponseWriter, r *http.Request) {
		if _, err := w.Write([]byte("OK")); err != nil {
			slog.Error("Unable to write healthcheck", "err", err)
		}
	})
	r.Handle("/metrics", promhttp.Handler())
	r.Get("/events", h.broker.ServeHTTP)

	r.Route("/api", func(r chi.Router) {
		if opts.RateLimit > 0 {
			r.Use(httprate.LimitByIP(opts.RateLimit, opts.RateWindow))
		}

		r.Get("/browse", h.HandleBrowse)

		r.Get("/hero", h.HandleHero)
		r.Post("/hero/next", h.HandleHeroNext)
		r.Post("/hero/prev", h.HandleHeroPrev)
		r.Post("/hero/select/{index}", h.HandleHeroSelect)

		r.Post("/sessions", h.HandleCreateSession)
		r.Route("/sessions/{id}", func(r chi.Router) {
			r.Get("/", h.HandleGetSession)
			r.Delete("/", h.HandleDeleteSession)
			r.Post("/navigate", h.HandleNavigate)
			r.Post("/filter", h.HandleFilter)
			r.Post("/search", h.HandleSearch)
			r.Post("/watch", h.HandleOpenWatch)
			r.Delete("/watch", h.HandleCloseWatch)
			r.Put("/watch/season", h.HandleSelectSeason)
			r.Put("/watch/episode", h.HandleSelectEpisode)
		})

		r.Post("/genie", h.HandleGenie)

		r.Get("/continue-watching", h.HandleContinueWatching)
		r.Delete("/continue-watching", h.HandleClearContinueWatching)
	})

	return r
}

// instrument records request counts and latency by route pattern.
func instrument(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		route := "unmatched"
		if rctx := chi.RouteContext(r.Context()); rctx != nil {
			if p := rctx.RoutePattern(); p != "" {
				route = p
			}
		}
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		metrics.RecordAPIRequest(r.Method, route, status, time.Since(start))
	})
}

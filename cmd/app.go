package cmd

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/moviestream-ai/moviestream/internal/browse"
	"github.com/moviestream-ai/moviestream/internal/config"
	"github.com/moviestream-ai/moviestream/internal/gemini"
	"github.com/moviestream-ai/moviestream/internal/genie"
	"github.com/moviestream-ai/moviestream/internal/history"
	"github.com/moviestream-ai/moviestream/internal/ollama"
	"github.com/moviestream-ai/moviestream/internal/openai"
	"github.com/moviestream-ai/moviestream/internal/providers"
	"github.com/moviestream-ai/moviestream/internal/storage"
	"github.com/moviestream-ai/moviestream/internal/tmdb"
	"github.com/moviestream-ai/moviestream/internal/view"
	"github.com/moviestream-ai/moviestream/internal/watch"
)

// app holds the services shared by the commands.
type app struct {
	cfg     *config.Config
	store   storage.Store
	catalog *tmdb.Client
	history *history.Store
	defs    *browse.Catalog
	genie   *genie.Service
}

func newApp(ctx context.Context, cfg *config.Config) (*app, error) {
	defs := browse.Default()
	if cfg.Browse.Path != "" {
		loaded, err := browse.Load(cfg.Browse.Path)
		if err != nil {
			return nil, err
		}
		defs = loaded
	}

	store, err := storage.Open(ctx, storage.Options{Driver: cfg.Storage.Driver, Path: cfg.Storage.Path})
	if err != nil {
		return nil, fmt.Errorf("failed to open storage: %w", err)
	}

	if cfg.TMDB.APIKey == "" {
		slog.Warn("TMDB_API_KEY is not set, catalog requests will fail")
	}
	catalog := tmdb.NewClient(tmdb.Options{
		BaseURL:           cfg.TMDB.BaseURL,
		APIKey:            cfg.TMDB.APIKey,
		Language:          cfg.TMDB.Language,
		Timeout:           cfg.TMDB.Timeout,
		RequestsPerSecond: cfg.TMDB.RequestsPerSecond,
		Burst:             cfg.TMDB.Burst,
		FailureThreshold:  cfg.TMDB.FailureThreshold,
		BreakerTimeout:    cfg.TMDB.BreakerTimeout,
	})

	provider := suggestionProvider(cfg.Genie)
	if provider == nil {
		slog.Info("No recommendation API key configured, using sample suggestions")
	}

	return &app{
		cfg:     cfg,
		store:   store,
		catalog: catalog,
		history: history.New(store),
		defs:    defs,
		genie: genie.New(provider, catalog, genie.Options{
			Model:       cfg.Genie.Model,
			Temperature: cfg.Genie.Temperature,
		}),
	}, nil
}

// suggestionProvider returns nil when the selected provider has no key.
func suggestionProvider(cfg config.GenieConfig) providers.Provider {
	if cfg.Provider == "ollama" {
		return ollama.New(cfg.OllamaURL)
	}
	key := cfg.Key()
	if key == "" {
		return nil
	}
	if cfg.Provider == "openai" {
		return openai.New(key, cfg.OpenAIBaseURL)
	}
	return gemini.New(key)
}

func (a *app) player(sel view.Selection) *watch.Player {
	return watch.NewPlayer(sel.ID, sel.Kind, a.catalog, a.history, a.cfg.Player.EmbedBaseURL)
}

func (a *app) loader() *view.Loader {
	return view.NewLoader(a.catalog, a.history, a.defs)
}

func (a *app) Close() {
	if err := a.store.Close(); err != nil {
		slog.Error("Unable to close storage", "err", err)
	}
}

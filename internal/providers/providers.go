package providers

import (
	"context"
)

// Config represents the configuration for a suggestion request
type Config struct {
	Model       string
	Temperature float64
	Prompt      string
}

// Provider defines the interface for a text-generation backend. Providers
// answer with a JSON array of {"title", "year"} objects.
type Provider interface {
	Name() string
	ExtractText(ctx context.Context, config Config) (string, error)
}

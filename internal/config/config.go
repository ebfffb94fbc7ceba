package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

// Config is the complete runtime configuration.
type Config struct {
	Server  ServerConfig  `koanf:"server"`
	TMDB    TMDBConfig    `koanf:"tmdb"`
	Genie   GenieConfig   `koanf:"genie"`
	Storage StorageConfig `koanf:"storage"`
	Player  PlayerConfig  `koanf:"player"`
	Hero    HeroConfig    `koanf:"hero"`
	Browse  BrowseConfig  `koanf:"browse"`
	Logging LoggingConfig `koanf:"logging"`
}

type ServerConfig struct {
	Host            string        `koanf:"host"`
	Port            int           `koanf:"port" validate:"min=1,max=65535"`
	CORSOrigins     []string      `koanf:"cors_origins"`
	RateLimit       int           `koanf:"rate_limit" validate:"min=0"`
	RateWindow      time.Duration `koanf:"rate_window"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout" validate:"gt=0"`
	SessionIdleTTL  time.Duration `koanf:"session_idle_ttl" validate:"gt=0"`
	PruneSchedule   string        `koanf:"prune_schedule" validate:"required"`
}

// Addr returns the listen address.
func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

type TMDBConfig struct {
	BaseURL           string        `koanf:"base_url" validate:"required,url"`
	APIKey            string        `koanf:"api_key"`
	Language          string        `koanf:"language" validate:"required"`
	Timeout           time.Duration `koanf:"timeout" validate:"gt=0"`
	RequestsPerSecond float64       `koanf:"requests_per_second" validate:"gte=0"`
	Burst             int           `koanf:"burst" validate:"gte=0"`
	FailureThreshold  uint32        `koanf:"failure_threshold"`
	BreakerTimeout    time.Duration `koanf:"breaker_timeout"`
}

type GenieConfig struct {
	Provider      string  `koanf:"provider" validate:"oneof=gemini openai ollama"`
	APIKey        string  `koanf:"api_key"`
	OpenAIAPIKey  string  `koanf:"openai_api_key"`
	OpenAIBaseURL string  `koanf:"openai_base_url" validate:"omitempty,url"`
	OllamaURL     string  `koanf:"ollama_url" validate:"omitempty,url"`
	Model         string  `koanf:"model"`
	Temperature   float64 `koanf:"temperature" validate:"gte=0,lte=2"`
}

// Key returns the credential of the selected provider. Ollama needs none.
func (g GenieConfig) Key() string {
	switch g.Provider {
	case "openai":
		return g.OpenAIAPIKey
	case "ollama":
		return ""
	default:
		return g.APIKey
	}
}

type StorageConfig struct {
	Driver string `koanf:"driver" validate:"oneof=memory sqlite badger"`
	Path   string `koanf:"path"`
}

type PlayerConfig struct {
	EmbedBaseURL string `koanf:"embed_base_url" validate:"required,url"`
}

type HeroConfig struct {
	Interval        time.Duration `koanf:"interval" validate:"gt=0"`
	RefreshSchedule string        `koanf:"refresh_schedule" validate:"required"`
}

type BrowseConfig struct {
	// Path to a YAML page definition file. Empty uses the built-in definitions.
	Path string `koanf:"path"`
}

type LoggingConfig struct {
	Level  string `koanf:"level" validate:"oneof=debug info warn error"`
	Format string `koanf:"format" validate:"oneof=text json"`
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// Validate checks field constraints and cross-field rules.
func (c *Config) Validate() error {
	c.Logging.Level = strings.ToLower(c.Logging.Level)
	if err := validate.Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			msgs := make([]string, 0, len(verrs))
			for _, fe := range verrs {
				msgs = append(msgs, fmt.Sprintf("%s failed %q", fe.Namespace(), fe.Tag()))
			}
			return fmt.Errorf("invalid configuration: %s", strings.Join(msgs, "; "))
		}
		return fmt.Errorf("invalid configuration: %w", err)
	}
	if c.Storage.Driver == "sqlite" && c.Storage.Path == "" {
		return errors.New("invalid configuration: storage.path is required for the sqlite driver")
	}
	return nil
}

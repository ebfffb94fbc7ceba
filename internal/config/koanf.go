package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"

	"github.com/moviestream-ai/moviestream/internal/tmdb"
	"github.com/moviestream-ai/moviestream/internal/watch"
)

// DefaultConfigPaths are searched in order when no path is given.
var DefaultConfigPaths = []string{
	"moviestream.yaml",
	"moviestream.yml",
	"/etc/moviestream/config.yaml",
}

// ConfigPathEnvVar overrides the config file path.
const ConfigPathEnvVar = "MOVIESTREAM_CONFIG"

const envPrefix = "moviestream_"

func defaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Host:            "",
			Port:            8888,
			CORSOrigins:     []string{"*"},
			RateLimit:       120,
			RateWindow:      time.Minute,
			ShutdownTimeout: 5 * time.Second,
			SessionIdleTTL:  30 * time.Minute,
			PruneSchedule:   "0 */5 * * * *",
		},
		TMDB: TMDBConfig{
			BaseURL:           tmdb.DefaultBaseURL,
			Language:          tmdb.DefaultLanguage,
			Timeout:           10 * time.Second,
			RequestsPerSecond: 20,
			Burst:             10,
			FailureThreshold:  5,
			BreakerTimeout:    30 * time.Second,
		},
		Genie: GenieConfig{
			Provider:    "gemini",
			Temperature: 0.7,
		},
		Storage: StorageConfig{
			Driver: "sqlite",
			Path:   "moviestream.db",
		},
		Player: PlayerConfig{
			EmbedBaseURL: watch.DefaultEmbedBaseURL,
		},
		Hero: HeroConfig{
			Interval:        7 * time.Second,
			RefreshSchedule: "0 0 * * * *",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

// sliceConfigPaths hold comma-separated lists when set from the environment.
var sliceConfigPaths = []string{
	"server.cors_origins",
}

// Load builds the configuration from defaults, then the YAML file at path
// (or the first of DefaultConfigPaths found), then the environment.
func Load(path string) (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(structs.Provider(defaultConfig(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	if path == "" {
		path = findConfigFile()
	}
	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", path, err)
		}
	}

	if err := k.Load(env.Provider("", ".", envTransformFunc), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	if err := processSliceFields(k); err != nil {
		return nil, fmt.Errorf("failed to process slice fields: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func findConfigFile() string {
	if p := os.Getenv(ConfigPathEnvVar); p != "" {
		return p
	}
	for _, p := range DefaultConfigPaths {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	return ""
}

func processSliceFields(k *koanf.Koanf) error {
	for _, path := range sliceConfigPaths {
		s, ok := k.Get(path).(string)
		if !ok {
			continue
		}
		parts := strings.Split(s, ",")
		trimmed := make([]string, 0, len(parts))
		for _, p := range parts {
			if p = strings.TrimSpace(p); p != "" {
				trimmed = append(trimmed, p)
			}
		}
		if err := k.Set(path, trimmed); err != nil {
			return fmt.Errorf("failed to set %s: %w", path, err)
		}
	}
	return nil
}

// envMappings holds the well-known variable names.
var envMappings = map[string]string{
	"tmdb_api_key":    "tmdb.api_key",
	"gemini_api_key":  "genie.api_key",
	"api_key":         "genie.api_key",
	"openai_api_key":  "genie.openai_api_key",
	"openai_base_url": "genie.openai_base_url",
	"ollama_url":      "genie.ollama_url",
	"log_level":       "logging.level",
}

// envTransformFunc maps environment variable names to koanf paths:
//
//	TMDB_API_KEY               -> tmdb.api_key
//	MOVIESTREAM_SERVER_PORT    -> server.port
//	MOVIESTREAM_HERO_INTERVAL  -> hero.interval
//
// Unrelated variables map to "" and are ignored.
func envTransformFunc(key string) string {
	key = strings.ToLower(key)
	if mapped, ok := envMappings[key]; ok {
		return mapped
	}
	rest, ok := strings.CutPrefix(key, envPrefix)
	if !ok || rest == "config" {
		return ""
	}
	section, field, ok := strings.Cut(rest, "_")
	if !ok || field == "" {
		return ""
	}
	return section + "." + field
}

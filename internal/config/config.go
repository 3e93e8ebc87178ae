// Package config loads application configuration from layered sources:
// built-in defaults, an optional YAML file, and MOODLIST_* environment
// variables (highest priority).
package config

import (
	"errors"
	"fmt"
	"time"
)

// Default file paths searched in order. The first file found wins.
var DefaultConfigPaths = []string{
	"moodlist.yaml",
	"moodlist.yml",
	"/etc/moodlist/config.yaml",
}

// ConfigPathEnvVar overrides the config file path when set.
const ConfigPathEnvVar = "MOODLIST_CONFIG"

// ErrMissingCredentials is returned when the Spotify client ID or secret is
// not configured.
var ErrMissingCredentials = errors.New("missing spotify client_id or client_secret")

// Config is the root configuration. All state here is read-only after Load;
// request handling never mutates it.
type Config struct {
	Server    ServerConfig    `koanf:"server"`
	Spotify   SpotifyConfig   `koanf:"spotify"`
	Inference InferenceConfig `koanf:"inference"`
	Recommend RecommendConfig `koanf:"recommend"`
	Logging   LoggingConfig   `koanf:"logging"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Addr         string        `koanf:"addr"`
	ReadTimeout  time.Duration `koanf:"read_timeout"`
	WriteTimeout time.Duration `koanf:"write_timeout"`
	IdleTimeout  time.Duration `koanf:"idle_timeout"`
}

// SpotifyConfig holds catalog service credentials and limits.
type SpotifyConfig struct {
	ClientID     string        `koanf:"client_id"`
	ClientSecret string        `koanf:"client_secret"`
	RedirectURL  string        `koanf:"redirect_url"`
	Timeout      time.Duration `koanf:"timeout"`
	// RatePerSecond caps outbound catalog calls; Burst allows short spikes.
	RatePerSecond float64 `koanf:"rate_per_second"`
	Burst         int     `koanf:"burst"`
}

// InferenceConfig holds settings for the text/vision inference service.
type InferenceConfig struct {
	BaseURL string        `koanf:"base_url"`
	Timeout time.Duration `koanf:"timeout"`
	// BreakerThreshold is the consecutive-failure count that opens the
	// circuit; BreakerCooldown is how long it stays open.
	BreakerThreshold uint32        `koanf:"breaker_threshold"`
	BreakerCooldown  time.Duration `koanf:"breaker_cooldown"`
}

// RecommendConfig holds orchestration and ranking settings.
type RecommendConfig struct {
	DefaultLimit int `koanf:"default_limit"`
	MaxLimit     int `koanf:"max_limit"`
	// SearchAttempts bounds catalog search attempts on transient failure.
	SearchAttempts int           `koanf:"search_attempts"`
	SearchBackoff  time.Duration `koanf:"search_backoff"`
	MaxSeedGenres  int           `koanf:"max_seed_genres"`
	// CollapseNearDuplicates drops tracks whose normalized title+artist are
	// nearly identical to an earlier result. Off by default: the baseline
	// ranking policy deduplicates by ID only.
	CollapseNearDuplicates bool    `koanf:"collapse_near_duplicates"`
	NearDuplicateThreshold float64 `koanf:"near_duplicate_threshold"`
	// Coherence re-ranks results so the audio-feature cluster nearest the
	// target mood comes first. Off by default for the same reason.
	Coherence         bool `koanf:"coherence"`
	CoherenceClusters int  `koanf:"coherence_clusters"`
}

// LoggingConfig controls slog output.
type LoggingConfig struct {
	Level  string `koanf:"level"`  // debug, info, warn, error
	Format string `koanf:"format"` // text or json
}

// defaultConfig returns the built-in defaults, applied before file and env
// layers.
func defaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Addr:         "127.0.0.1:8080",
			ReadTimeout:  15 * time.Second,
			WriteTimeout: 30 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
		Spotify: SpotifyConfig{
			RedirectURL:   "http://127.0.0.1:8080/api/callback",
			Timeout:       10 * time.Second,
			RatePerSecond: 10,
			Burst:         5,
		},
		Inference: InferenceConfig{
			BaseURL:          "http://127.0.0.1:8600",
			Timeout:          30 * time.Second,
			BreakerThreshold: 5,
			BreakerCooldown:  30 * time.Second,
		},
		Recommend: RecommendConfig{
			DefaultLimit:           10,
			MaxLimit:               50,
			SearchAttempts:         2,
			SearchBackoff:          500 * time.Millisecond,
			MaxSeedGenres:          5,
			CollapseNearDuplicates: false,
			NearDuplicateThreshold: 0.95,
			Coherence:              false,
			CoherenceClusters:      3,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

// Validate checks required settings and bounds.
func (c *Config) Validate() error {
	if c.Spotify.ClientID == "" || c.Spotify.ClientSecret == "" {
		return ErrMissingCredentials
	}
	if c.Recommend.DefaultLimit <= 0 || c.Recommend.MaxLimit < c.Recommend.DefaultLimit {
		return fmt.Errorf("recommend limits out of order: default %d, max %d",
			c.Recommend.DefaultLimit, c.Recommend.MaxLimit)
	}
	if c.Recommend.SearchAttempts <= 0 {
		return fmt.Errorf("search_attempts must be positive, got %d", c.Recommend.SearchAttempts)
	}
	if c.Recommend.MaxSeedGenres <= 0 || c.Recommend.MaxSeedGenres > 5 {
		return fmt.Errorf("max_seed_genres must be 1-5, got %d", c.Recommend.MaxSeedGenres)
	}
	return nil
}

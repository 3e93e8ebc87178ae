package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func setCredentials(t *testing.T) {
	t.Helper()
	t.Setenv("MOODLIST_SPOTIFY_CLIENT_ID", "test-id")
	t.Setenv("MOODLIST_SPOTIFY_CLIENT_SECRET", "test-secret")
}

func TestLoadDefaults(t *testing.T) {
	setCredentials(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.Server.Addr != "127.0.0.1:8080" {
		t.Errorf("Server.Addr = %q", cfg.Server.Addr)
	}
	if cfg.Recommend.DefaultLimit != 10 || cfg.Recommend.MaxLimit != 50 {
		t.Errorf("limits = %d/%d, want 10/50", cfg.Recommend.DefaultLimit, cfg.Recommend.MaxLimit)
	}
	if cfg.Recommend.SearchAttempts != 2 {
		t.Errorf("SearchAttempts = %d, want 2", cfg.Recommend.SearchAttempts)
	}
	if cfg.Recommend.Coherence || cfg.Recommend.CollapseNearDuplicates {
		t.Error("optional ranking modes must default off")
	}
	if cfg.Inference.BaseURL != "http://127.0.0.1:8600" {
		t.Errorf("Inference.BaseURL = %q", cfg.Inference.BaseURL)
	}
	if cfg.Spotify.ClientID != "test-id" {
		t.Errorf("ClientID = %q", cfg.Spotify.ClientID)
	}
}

func TestLoadMissingCredentials(t *testing.T) {
	t.Setenv("MOODLIST_SPOTIFY_CLIENT_ID", "")
	t.Setenv("MOODLIST_SPOTIFY_CLIENT_SECRET", "")

	_, err := Load()
	if !errors.Is(err, ErrMissingCredentials) {
		t.Errorf("err = %v, want ErrMissingCredentials", err)
	}
}

func TestLoadConfigFile(t *testing.T) {
	setCredentials(t)

	path := filepath.Join(t.TempDir(), "moodlist.yaml")
	content := []byte(`
server:
  addr: "0.0.0.0:9090"
recommend:
  default_limit: 5
  max_limit: 20
logging:
  level: debug
  format: json
`)
	if err := os.WriteFile(path, content, 0o644); err != nil {
		t.Fatalf("writing config file: %v", err)
	}
	t.Setenv(ConfigPathEnvVar, path)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.Server.Addr != "0.0.0.0:9090" {
		t.Errorf("Server.Addr = %q", cfg.Server.Addr)
	}
	if cfg.Recommend.DefaultLimit != 5 || cfg.Recommend.MaxLimit != 20 {
		t.Errorf("limits = %d/%d", cfg.Recommend.DefaultLimit, cfg.Recommend.MaxLimit)
	}
	if cfg.Logging.Level != "debug" || cfg.Logging.Format != "json" {
		t.Errorf("logging = %+v", cfg.Logging)
	}
	// Untouched keys keep their defaults.
	if cfg.Server.ReadTimeout != 15*time.Second {
		t.Errorf("ReadTimeout = %v, want default", cfg.Server.ReadTimeout)
	}
}

func TestEnvOverridesFile(t *testing.T) {
	setCredentials(t)

	path := filepath.Join(t.TempDir(), "moodlist.yaml")
	if err := os.WriteFile(path, []byte("server:\n  addr: \"0.0.0.0:9090\"\n"), 0o644); err != nil {
		t.Fatalf("writing config file: %v", err)
	}
	t.Setenv(ConfigPathEnvVar, path)
	t.Setenv("MOODLIST_SERVER_ADDR", "127.0.0.1:7070")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Server.Addr != "127.0.0.1:7070" {
		t.Errorf("Server.Addr = %q, env must override file", cfg.Server.Addr)
	}
}

func TestEnvTransform(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"MOODLIST_SPOTIFY_CLIENT_ID", "spotify.client_id"},
		{"MOODLIST_SERVER_ADDR", "server.addr"},
		{"MOODLIST_RECOMMEND_MAX_SEED_GENRES", "recommend.max_seed_genres"},
		{"MOODLIST_LOGGING_LEVEL", "logging.level"},
	}

	for _, tt := range tests {
		if got := envTransform(tt.in); got != tt.want {
			t.Errorf("envTransform(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		cfg := defaultConfig()
		cfg.Spotify.ClientID = "id"
		cfg.Spotify.ClientSecret = "secret"
		return cfg
	}

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{name: "valid", mutate: func(c *Config) {}, wantErr: false},
		{name: "missing secret", mutate: func(c *Config) { c.Spotify.ClientSecret = "" }, wantErr: true},
		{name: "max below default", mutate: func(c *Config) { c.Recommend.MaxLimit = 5 }, wantErr: true},
		{name: "zero attempts", mutate: func(c *Config) { c.Recommend.SearchAttempts = 0 }, wantErr: true},
		{name: "too many seed genres", mutate: func(c *Config) { c.Recommend.MaxSeedGenres = 6 }, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(cfg)
			if err := cfg.Validate(); (err != nil) != tt.wantErr {
				t.Errorf("Validate() = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

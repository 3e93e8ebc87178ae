// Command moodlist runs the mood-to-playlist recommendation API server.
package main

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/justestif/go-moodlist/internal/auth"
	"github.com/justestif/go-moodlist/internal/catalog"
	"github.com/justestif/go-moodlist/internal/config"
	"github.com/justestif/go-moodlist/internal/inference"
	"github.com/justestif/go-moodlist/internal/mapping"
	"github.com/justestif/go-moodlist/internal/mood"
	"github.com/justestif/go-moodlist/internal/recommend"
	"github.com/justestif/go-moodlist/internal/web"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	logger := newLogger(cfg.Logging)
	slog.SetDefault(logger)

	inferenceClient := inference.NewClient(inference.Options{
		BaseURL:          cfg.Inference.BaseURL,
		Timeout:          cfg.Inference.Timeout,
		BreakerThreshold: cfg.Inference.BreakerThreshold,
		BreakerCooldown:  cfg.Inference.BreakerCooldown,
	})

	catalogClient := catalog.NewClient(catalog.Options{
		ClientID:      cfg.Spotify.ClientID,
		ClientSecret:  cfg.Spotify.ClientSecret,
		RedirectURL:   cfg.Spotify.RedirectURL,
		Timeout:       cfg.Spotify.Timeout,
		RatePerSecond: cfg.Spotify.RatePerSecond,
		Burst:         cfg.Spotify.Burst,
	})

	extractor := mood.NewExtractor(inferenceClient, logger)
	mapper := mapping.NewMapper(cfg.Recommend.MaxSeedGenres)

	orchestrator := recommend.New(extractor, mapper, catalogClient, recommend.Options{
		DefaultLimit:      cfg.Recommend.DefaultLimit,
		MaxLimit:          cfg.Recommend.MaxLimit,
		SearchAttempts:    cfg.Recommend.SearchAttempts,
		SearchBackoff:     cfg.Recommend.SearchBackoff,
		Coherence:         cfg.Recommend.Coherence,
		CoherenceClusters: cfg.Recommend.CoherenceClusters,
		Rank: recommend.RankOptions{
			CollapseNearDuplicates: cfg.Recommend.CollapseNearDuplicates,
			NearDuplicateThreshold: cfg.Recommend.NearDuplicateThreshold,
		},
	}, logger)

	handlers := web.NewHandlers(orchestrator, auth.NewManager(catalogClient))

	server := web.NewServer(web.ServerConfig{
		Addr:         cfg.Server.Addr,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}, handlers)

	return server.Run()
}

// newLogger builds the process logger from config.
func newLogger(cfg config.LoggingConfig) *slog.Logger {
	var level slog.Level
	switch strings.ToLower(cfg.Level) {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: level}
	if strings.EqualFold(cfg.Format, "json") {
		return slog.New(slog.NewJSONHandler(os.Stderr, opts))
	}
	return slog.New(slog.NewTextHandler(os.Stderr, opts))
}

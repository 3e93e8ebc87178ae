// Package recommend implements the recommendation orchestrator: the
// sequential pipeline from raw mood input to ranked tracks and, when
// requested, a created playlist.
package recommend

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/justestif/go-moodlist/internal/apperr"
	"github.com/justestif/go-moodlist/internal/catalog"
	"github.com/justestif/go-moodlist/internal/mapping"
	"github.com/justestif/go-moodlist/internal/mood"
)

// Extractor produces a mood descriptor from raw input.
type Extractor interface {
	Extract(ctx context.Context, text string, image []byte) (mood.Descriptor, error)
}

// Mapper converts a descriptor into search criteria.
type Mapper interface {
	Map(d mood.Descriptor) mapping.Criteria
}

// CatalogService is the slice of the catalog client the orchestrator uses.
type CatalogService interface {
	SearchTracks(ctx context.Context, criteria mapping.Criteria, limit int) ([]catalog.Track, error)
	CreatePlaylist(ctx context.Context, session catalog.Session, name, description string, trackIDs []string) (catalog.Playlist, error)
	FetchAudioFeatures(ctx context.Context, tracks []catalog.Track) error
}

// Options tune the orchestrator.
type Options struct {
	DefaultLimit int
	MaxLimit     int
	// SearchAttempts bounds catalog search attempts; only transient
	// (unavailable) failures are retried, with a fixed backoff between
	// attempts.
	SearchAttempts int
	SearchBackoff  time.Duration
	// Coherence enables the audio-feature cluster re-rank.
	Coherence         bool
	CoherenceClusters int
	Rank              RankOptions
}

// Request is one recommendation request. Session is nil when the caller is
// not authenticated.
type Request struct {
	Text           string
	Image          []byte
	Limit          int
	CreatePlaylist bool
	Session        *catalog.Session
}

// Result is the terminal Completed payload: ranked deduplicated tracks, the
// mood summary shown to the user, and the created playlist if any. Its
// lifetime is one request/response cycle.
type Result struct {
	Mood     mood.Descriptor
	Tracks   []catalog.Track
	Playlist *catalog.Playlist
}

// Orchestrator sequences extraction, mapping, search, ranking and the
// optional playlist step. It holds no per-request state.
type Orchestrator struct {
	extractor Extractor
	mapper    Mapper
	catalog   CatalogService
	opts      Options
	log       *slog.Logger
}

// New creates an Orchestrator.
func New(extractor Extractor, mapper Mapper, cat CatalogService, opts Options, log *slog.Logger) *Orchestrator {
	if opts.DefaultLimit <= 0 {
		opts.DefaultLimit = 10
	}
	if opts.MaxLimit < opts.DefaultLimit {
		opts.MaxLimit = opts.DefaultLimit
	}
	if opts.SearchAttempts <= 0 {
		opts.SearchAttempts = 2
	}
	if opts.SearchBackoff <= 0 {
		opts.SearchBackoff = 500 * time.Millisecond
	}
	if log == nil {
		log = slog.Default()
	}
	return &Orchestrator{
		extractor: extractor,
		mapper:    mapper,
		catalog:   cat,
		opts:      opts,
		log:       log,
	}
}

// Recommend runs the pipeline for one request.
//
// On a playlist failure after a successful search, the returned Result still
// carries the computed recommendations alongside the error: partial success
// is preferred over discarding already-obtained results.
func (o *Orchestrator) Recommend(ctx context.Context, req Request) (Result, error) {
	log := o.log.With("request_id", uuid.NewString())
	log.Debug("state transition", "state", StateReceived)

	limit := req.Limit
	if limit <= 0 {
		limit = o.opts.DefaultLimit
	}
	if limit > o.opts.MaxLimit {
		limit = o.opts.MaxLimit
	}

	log.Debug("state transition", "state", StateExtracting)
	descriptor, err := o.extractor.Extract(ctx, req.Text, req.Image)
	if err != nil {
		log.Debug("state transition", "state", StateFailed, "error", err)
		return Result{}, err
	}
	log.Info("mood extracted", "summary", descriptor.Summary)

	log.Debug("state transition", "state", StateMapping)
	criteria := o.mapper.Map(descriptor)

	log.Debug("state transition", "state", StateSearching)
	tracks, err := o.search(ctx, criteria, limit, log)
	if err != nil {
		log.Debug("state transition", "state", StateFailed, "error", err)
		return Result{}, err
	}

	log.Debug("state transition", "state", StateRanking)
	if o.opts.Coherence {
		tracks = o.coherenceRerank(ctx, tracks, criteria, log)
	}
	ranked := Rank(tracks, limit, o.opts.Rank)

	result := Result{Mood: descriptor, Tracks: ranked}

	playlist, err := o.playlistStep(ctx, req, descriptor, ranked, log)
	if err != nil {
		// Recommendations were already computed; surface them with the error.
		log.Debug("state transition", "state", StateFailed, "error", err)
		return result, err
	}
	result.Playlist = playlist

	log.Debug("state transition", "state", StateCompleted,
		"tracks", len(ranked), "playlist", playlist != nil)
	return result, nil
}

// search calls the catalog with a bounded retry on transient failures. The
// attempt bound and backoff are fixed by configuration; auth failures are
// never retried.
func (o *Orchestrator) search(ctx context.Context, criteria mapping.Criteria, limit int, log *slog.Logger) ([]catalog.Track, error) {
	var lastErr error
	for attempt := 1; attempt <= o.opts.SearchAttempts; attempt++ {
		tracks, err := o.catalog.SearchTracks(ctx, criteria, limit)
		if err == nil {
			return tracks, nil
		}
		lastErr = err

		if !errors.Is(err, apperr.ErrUpstreamUnavailable) || attempt == o.opts.SearchAttempts {
			break
		}

		log.Warn("catalog search failed, retrying",
			"attempt", attempt, "attempts", o.opts.SearchAttempts, "error", err)
		if err := sleep(ctx, o.opts.SearchBackoff); err != nil {
			return nil, fmt.Errorf("waiting to retry search: %w", err)
		}
	}
	return nil, lastErr
}

// coherenceRerank fetches audio features and reorders by mood-cluster
// proximity. A feature fetch failure downgrades to the baseline order rather
// than failing the request.
func (o *Orchestrator) coherenceRerank(ctx context.Context, tracks []catalog.Track, criteria mapping.Criteria, log *slog.Logger) []catalog.Track {
	if err := o.catalog.FetchAudioFeatures(ctx, tracks); err != nil {
		log.Warn("audio feature fetch failed, skipping coherence rerank", "error", err)
		return tracks
	}
	return coherenceOrder(tracks, criteria, o.opts.CoherenceClusters)
}

// playlistStep creates the playlist when the caller requested one and
// supplied a session; otherwise the step is skipped without error.
func (o *Orchestrator) playlistStep(ctx context.Context, req Request, descriptor mood.Descriptor, tracks []catalog.Track, log *slog.Logger) (*catalog.Playlist, error) {
	if !req.CreatePlaylist || req.Session == nil {
		log.Debug("state transition", "state", StatePlaylistSkipped)
		return nil, nil
	}

	log.Debug("state transition", "state", StatePlaylistPending)

	ids := make([]string, len(tracks))
	for i, t := range tracks {
		ids[i] = t.ID
	}

	name, description := playlistText(descriptor.Summary)

	// An aborted inbound request lets the creation finish and discards the
	// result; the per-call timeouts below still bound it.
	playlist, err := o.catalog.CreatePlaylist(context.WithoutCancel(ctx), *req.Session, name, description, ids)
	if err != nil {
		return nil, fmt.Errorf("creating playlist: %w", err)
	}

	log.Debug("state transition", "state", StatePlaylistCreated, "playlist_id", playlist.ID)
	return &playlist, nil
}

// playlistText derives the playlist name and description from the mood
// summary, truncated to keep the catalog service happy.
func playlistText(summary string) (name, description string) {
	runes := []rune(summary)
	if len(runes) > 100 {
		summary = string(runes[:100]) + "..."
	}
	return "Recommended: " + summary, "AI-generated playlist based on: " + summary
}

// sleep waits for the backoff or the context, whichever ends first.
func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

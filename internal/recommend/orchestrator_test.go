package recommend

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/justestif/go-moodlist/internal/apperr"
	"github.com/justestif/go-moodlist/internal/catalog"
	"github.com/justestif/go-moodlist/internal/mapping"
	"github.com/justestif/go-moodlist/internal/mood"
)

type fakeExtractor struct {
	descriptor mood.Descriptor
	err        error
	calls      int
}

func (f *fakeExtractor) Extract(ctx context.Context, text string, image []byte) (mood.Descriptor, error) {
	f.calls++
	return f.descriptor, f.err
}

type fakeMapper struct {
	criteria mapping.Criteria
}

func (f *fakeMapper) Map(d mood.Descriptor) mapping.Criteria {
	return f.criteria
}

type fakeCatalog struct {
	tracks       []catalog.Track
	searchErrs   []error // consumed one per call; nil past the end
	searchCalls  int
	playlist     catalog.Playlist
	playlistErr  error
	createCalls  int
	createdName  string
	createdDesc  string
	createdIDs   []string
	featuresErr  error
	featureCalls int
}

func (f *fakeCatalog) SearchTracks(ctx context.Context, criteria mapping.Criteria, limit int) ([]catalog.Track, error) {
	f.searchCalls++
	if n := f.searchCalls - 1; n < len(f.searchErrs) && f.searchErrs[n] != nil {
		return nil, f.searchErrs[n]
	}
	return f.tracks, nil
}

func (f *fakeCatalog) CreatePlaylist(ctx context.Context, session catalog.Session, name, description string, trackIDs []string) (catalog.Playlist, error) {
	f.createCalls++
	f.createdName = name
	f.createdDesc = description
	f.createdIDs = trackIDs
	return f.playlist, f.playlistErr
}

func (f *fakeCatalog) FetchAudioFeatures(ctx context.Context, tracks []catalog.Track) error {
	f.featureCalls++
	return f.featuresErr
}

func testOrchestrator(cat *fakeCatalog, opts Options) (*Orchestrator, *fakeExtractor) {
	ext := &fakeExtractor{descriptor: mood.Descriptor{Summary: "Chill & Happy"}}
	return New(ext, &fakeMapper{}, cat, opts, nil), ext
}

func someTracks(n int) []catalog.Track {
	tracks := make([]catalog.Track, n)
	for i := range tracks {
		tracks[i] = catalog.Track{
			ID:         string(rune('a' + i)),
			Name:       "Track",
			Artist:     "Artist",
			Popularity: n - i,
		}
	}
	return tracks
}

func TestRecommendHappyPath(t *testing.T) {
	cat := &fakeCatalog{tracks: someTracks(5)}
	o, ext := testOrchestrator(cat, Options{})

	result, err := o.Recommend(context.Background(), Request{Text: "feeling good"})
	if err != nil {
		t.Fatalf("Recommend: %v", err)
	}

	if ext.calls != 1 {
		t.Errorf("extractor calls = %d, want 1", ext.calls)
	}
	if len(result.Tracks) != 5 {
		t.Errorf("tracks = %d, want 5", len(result.Tracks))
	}
	if result.Mood.Summary != "Chill & Happy" {
		t.Errorf("Mood.Summary = %q", result.Mood.Summary)
	}
	if result.Playlist != nil {
		t.Errorf("Playlist = %+v, want nil when not requested", result.Playlist)
	}
	if cat.createCalls != 0 {
		t.Errorf("createCalls = %d, want 0", cat.createCalls)
	}
}

func TestRecommendLimitClamping(t *testing.T) {
	tests := []struct {
		name      string
		requested int
		want      int
	}{
		{name: "zero uses default", requested: 0, want: 10},
		{name: "negative uses default", requested: -5, want: 10},
		{name: "within bounds passes through", requested: 3, want: 3},
		{name: "above max clamps", requested: 500, want: 50},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cat := &fakeCatalog{tracks: someTracks(60)}
			o, _ := testOrchestrator(cat, Options{DefaultLimit: 10, MaxLimit: 50})

			result, err := o.Recommend(context.Background(), Request{Text: "x", Limit: tt.requested})
			if err != nil {
				t.Fatalf("Recommend: %v", err)
			}
			if len(result.Tracks) != tt.want {
				t.Errorf("tracks = %d, want %d", len(result.Tracks), tt.want)
			}
		})
	}
}

func TestRecommendExtractFailureAborts(t *testing.T) {
	cat := &fakeCatalog{tracks: someTracks(3)}
	ext := &fakeExtractor{err: apperr.New(apperr.ErrInvalidInput, "no input")}
	o := New(ext, &fakeMapper{}, cat, Options{}, nil)

	_, err := o.Recommend(context.Background(), Request{})

	if !errors.Is(err, apperr.ErrInvalidInput) {
		t.Fatalf("err = %v, want ErrInvalidInput", err)
	}
	if cat.searchCalls != 0 {
		t.Errorf("searchCalls = %d, want 0 after extraction failure", cat.searchCalls)
	}
}

func TestSearchRetriesTransientOnly(t *testing.T) {
	transient := apperr.New(apperr.ErrUpstreamUnavailable, "catalog down")
	authErr := apperr.New(apperr.ErrAuthExpired, "session expired")

	tests := []struct {
		name      string
		attempts  int
		errs      []error
		wantCalls int
		wantErr   error
	}{
		{
			name:      "transient failure then success",
			attempts:  3,
			errs:      []error{transient},
			wantCalls: 2,
		},
		{
			name:      "exhausts the attempt budget exactly",
			attempts:  3,
			errs:      []error{transient, transient, transient, transient},
			wantCalls: 3,
			wantErr:   apperr.ErrUpstreamUnavailable,
		},
		{
			name:      "auth failure is not retried",
			attempts:  3,
			errs:      []error{authErr},
			wantCalls: 1,
			wantErr:   apperr.ErrAuthExpired,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cat := &fakeCatalog{tracks: someTracks(3), searchErrs: tt.errs}
			o, _ := testOrchestrator(cat, Options{
				SearchAttempts: tt.attempts,
				SearchBackoff:  time.Millisecond,
			})

			_, err := o.Recommend(context.Background(), Request{Text: "x"})

			if tt.wantErr == nil && err != nil {
				t.Fatalf("Recommend: %v", err)
			}
			if tt.wantErr != nil && !errors.Is(err, tt.wantErr) {
				t.Fatalf("err = %v, want %v", err, tt.wantErr)
			}
			if cat.searchCalls != tt.wantCalls {
				t.Errorf("searchCalls = %d, want %d", cat.searchCalls, tt.wantCalls)
			}
		})
	}
}

func TestRecommendPlaylistCreated(t *testing.T) {
	cat := &fakeCatalog{
		tracks:   someTracks(3),
		playlist: catalog.Playlist{ID: "pl1", Name: "Recommended: Chill & Happy", URL: "https://open.spotify.com/playlist/pl1"},
	}
	o, _ := testOrchestrator(cat, Options{})

	result, err := o.Recommend(context.Background(), Request{
		Text:           "x",
		CreatePlaylist: true,
		Session:        &catalog.Session{AccessToken: "tok"},
	})
	if err != nil {
		t.Fatalf("Recommend: %v", err)
	}

	if result.Playlist == nil || result.Playlist.ID != "pl1" {
		t.Fatalf("Playlist = %+v", result.Playlist)
	}
	if cat.createdName != "Recommended: Chill & Happy" {
		t.Errorf("name = %q", cat.createdName)
	}
	if cat.createdDesc != "AI-generated playlist based on: Chill & Happy" {
		t.Errorf("description = %q", cat.createdDesc)
	}
	if len(cat.createdIDs) != 3 {
		t.Errorf("createdIDs = %v", cat.createdIDs)
	}
}

func TestRecommendPlaylistSkippedWithoutSession(t *testing.T) {
	cat := &fakeCatalog{tracks: someTracks(3)}
	o, _ := testOrchestrator(cat, Options{})

	result, err := o.Recommend(context.Background(), Request{
		Text:           "x",
		CreatePlaylist: true, // requested, but no session: skip without error
	})
	if err != nil {
		t.Fatalf("Recommend: %v", err)
	}

	if result.Playlist != nil {
		t.Errorf("Playlist = %+v, want nil", result.Playlist)
	}
	if len(result.Tracks) != 3 {
		t.Errorf("tracks = %d, want 3", len(result.Tracks))
	}
	if cat.createCalls != 0 {
		t.Errorf("createCalls = %d, want 0", cat.createCalls)
	}
}

func TestRecommendPlaylistFailureKeepsTracks(t *testing.T) {
	cat := &fakeCatalog{
		tracks:      someTracks(3),
		playlistErr: apperr.New(apperr.ErrAuthExpired, "session expired"),
	}
	o, _ := testOrchestrator(cat, Options{})

	result, err := o.Recommend(context.Background(), Request{
		Text:           "x",
		CreatePlaylist: true,
		Session:        &catalog.Session{AccessToken: "tok"},
	})

	if !errors.Is(err, apperr.ErrAuthExpired) {
		t.Fatalf("err = %v, want ErrAuthExpired", err)
	}
	if len(result.Tracks) != 3 {
		t.Errorf("tracks = %d, want 3 alongside the error", len(result.Tracks))
	}
	if result.Playlist != nil {
		t.Errorf("Playlist = %+v, want nil", result.Playlist)
	}
}

func TestRecommendCoherenceFetchFailureFallsBack(t *testing.T) {
	cat := &fakeCatalog{
		tracks:      someTracks(5),
		featuresErr: apperr.New(apperr.ErrUpstreamUnavailable, "features down"),
	}
	o, _ := testOrchestrator(cat, Options{Coherence: true})

	result, err := o.Recommend(context.Background(), Request{Text: "x"})
	if err != nil {
		t.Fatalf("feature fetch failure must not fail the request, got %v", err)
	}
	if cat.featureCalls != 1 {
		t.Errorf("featureCalls = %d, want 1", cat.featureCalls)
	}
	if len(result.Tracks) != 5 {
		t.Errorf("tracks = %d, want 5", len(result.Tracks))
	}
}

func TestPlaylistText(t *testing.T) {
	name, desc := playlistText("Upbeat Party")
	if name != "Recommended: Upbeat Party" {
		t.Errorf("name = %q", name)
	}
	if desc != "AI-generated playlist based on: Upbeat Party" {
		t.Errorf("description = %q", desc)
	}

	long := strings.Repeat("x", 150)
	name, _ = playlistText(long)
	want := "Recommended: " + strings.Repeat("x", 100) + "..."
	if name != want {
		t.Errorf("long name = %q, want %q", name, want)
	}
}

package catalog

import (
	"testing"

	"github.com/zmb3/spotify/v2"

	"github.com/justestif/go-moodlist/internal/mapping"
)

func TestTrackAttributes(t *testing.T) {
	if got := trackAttributes(mapping.Criteria{}); got != nil {
		t.Errorf("trackAttributes() = %v, want nil without feature ranges", got)
	}

	criteria := mapping.Criteria{
		Energy:  &mapping.Range{Min: 0.6, Max: 0.9},
		Valence: &mapping.Range{Min: 0.5, Max: 0.8},
	}
	if got := trackAttributes(criteria); got == nil {
		t.Error("trackAttributes() = nil, want tunable attributes")
	}
}

func TestSimpleToTrack(t *testing.T) {
	st := spotify.SimpleTrack{
		ID:   "track1",
		Name: "Song",
		Artists: []spotify.SimpleArtist{
			{Name: "First"},
			{Name: "Second"},
		},
		PreviewURL:   "https://p.scdn.co/mp3-preview/x",
		ExternalURLs: map[string]string{"spotify": "https://open.spotify.com/track/track1"},
	}

	got := simpleToTrack(st)

	if got.ID != "track1" || got.Name != "Song" {
		t.Errorf("track = %+v", got)
	}
	if got.Artist != "First, Second" {
		t.Errorf("Artist = %q", got.Artist)
	}
	if got.ExternalURL != "https://open.spotify.com/track/track1" {
		t.Errorf("ExternalURL = %q", got.ExternalURL)
	}
	if got.Popularity != 0 {
		t.Errorf("Popularity = %d, the simple shape reports none", got.Popularity)
	}
}

func TestFullToTrack(t *testing.T) {
	ft := spotify.FullTrack{
		SimpleTrack: spotify.SimpleTrack{
			ID:      "track2",
			Name:    "Another Song",
			Artists: []spotify.SimpleArtist{{Name: "Solo"}},
		},
		Album:      spotify.SimpleAlbum{Name: "The Album"},
		Popularity: 77,
	}

	got := fullToTrack(ft)

	if got.Album != "The Album" {
		t.Errorf("Album = %q", got.Album)
	}
	if got.Popularity != 77 {
		t.Errorf("Popularity = %d, want 77", got.Popularity)
	}
	if got.Artist != "Solo" {
		t.Errorf("Artist = %q", got.Artist)
	}
}

func TestJoinArtists(t *testing.T) {
	if got := joinArtists(nil); got != "" {
		t.Errorf("joinArtists(nil) = %q", got)
	}
	artists := []spotify.SimpleArtist{{Name: "A"}, {Name: "B"}, {Name: "C"}}
	if got := joinArtists(artists); got != "A, B, C" {
		t.Errorf("joinArtists = %q", got)
	}
}

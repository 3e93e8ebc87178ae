package catalog

import (
	"time"

	"golang.org/x/oauth2"
)

// Session is an end user's bearer credential for the catalog service.
// Created during the OAuth callback, held by the client, presented per
// request; the server never stores one.
type Session struct {
	AccessToken  string
	TokenType    string
	RefreshToken string
	// Expiry is zero when the client did not report one; a zero expiry is
	// treated as not (locally) expired and left for the service to reject.
	Expiry time.Time
}

// Expired reports whether the session is known to be past its expiry.
func (s Session) Expired() bool {
	return !s.Expiry.IsZero() && time.Now().After(s.Expiry)
}

func (s Session) token() *oauth2.Token {
	return &oauth2.Token{
		AccessToken:  s.AccessToken,
		TokenType:    s.TokenType,
		RefreshToken: s.RefreshToken,
		Expiry:       s.Expiry,
	}
}

func sessionFromToken(t *oauth2.Token) Session {
	return Session{
		AccessToken:  t.AccessToken,
		TokenType:    t.TokenType,
		RefreshToken: t.RefreshToken,
		Expiry:       t.Expiry,
	}
}

// Track is one catalog search result. Fields are sourced verbatim from the
// service; callers filter and reorder but never mutate them.
type Track struct {
	ID         string
	Name       string
	Artist     string // comma-separated artist names
	Album      string
	PreviewURL string
	// ExternalURL is the track's deep link into the catalog service.
	ExternalURL string
	// Popularity is the service-reported relevance score (0-100). Zero when
	// the endpoint that produced the track does not report one.
	Popularity int
	// Features is populated on demand by FetchAudioFeatures.
	Features *TrackFeatures
}

// TrackFeatures holds the audio dimensions used for mood-coherence ranking.
type TrackFeatures struct {
	Energy       float64
	Valence      float64
	Danceability float64
	Acousticness float64
}

// Playlist identifies a playlist created on the catalog service.
type Playlist struct {
	ID   string
	Name string
	URL  string
}

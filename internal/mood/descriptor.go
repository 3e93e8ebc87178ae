// Package mood extracts a structured mood descriptor from free-text and/or
// image input via the external inference service.
package mood

// Descriptor is the structured mood signal produced once per request. It is
// immutable after extraction and never persisted.
type Descriptor struct {
	// Summary is the human-readable mood description shown to the user and
	// used to name generated playlists.
	Summary string

	// Keywords are mood/genre hints extracted by the analyzer, ordered by
	// descending confidence.
	Keywords []string

	// Numeric dimensions, each in [0,1] when present. Nil means the
	// analyzer did not report that dimension.
	Energy       *float64
	Valence      *float64
	Danceability *float64
	Acousticness *float64
}

// HasNumeric reports whether any numeric dimension was inferred.
func (d Descriptor) HasNumeric() bool {
	return d.Energy != nil || d.Valence != nil || d.Danceability != nil || d.Acousticness != nil
}

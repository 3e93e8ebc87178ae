// Package mapping converts a mood descriptor into bounded catalog search
// criteria. The mapping is a pure function: no I/O, and identical descriptors
// always yield identical criteria.
package mapping

// MaxSeedGenres is the catalog service's documented seed limit.
const MaxSeedGenres = 5

// Range is a closed interval within the catalog's [0,1] feature domain.
type Range struct {
	Min float64
	Max float64
}

// Criteria is the bounded set of catalog query parameters derived from
// exactly one mood descriptor. Immutable once built.
type Criteria struct {
	// Genres holds at most MaxSeedGenres seed genres, highest-confidence
	// first.
	Genres []string

	// Feature ranges, nil when the descriptor did not carry the dimension.
	// Always within [0,1].
	Energy       *Range
	Valence      *Range
	Danceability *Range
	Acousticness *Range

	// Query is the free-text search fallback used when no seed genres could
	// be inferred. Single-line, at most 100 runes.
	Query string
}

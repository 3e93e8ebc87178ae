package mapping

import (
	"strings"

	"github.com/justestif/go-moodlist/internal/mood"
)

// rangeWidth is the half-width of the interval derived around each target
// dimension before clamping to the [0,1] domain.
const rangeWidth = 0.15

// maxQueryRunes bounds the free-text fallback query.
const maxQueryRunes = 100

// Mapper derives search criteria from mood descriptors.
type Mapper struct {
	maxGenres int
}

// NewMapper creates a Mapper keeping at most maxGenres seed genres.
// Values outside 1..MaxSeedGenres fall back to the catalog maximum.
func NewMapper(maxGenres int) *Mapper {
	if maxGenres <= 0 || maxGenres > MaxSeedGenres {
		maxGenres = MaxSeedGenres
	}
	return &Mapper{maxGenres: maxGenres}
}

// Map converts a descriptor to criteria. Deterministic and side-effect free:
// equal descriptors yield equal criteria. Out-of-domain numeric input is
// clamped, never passed through.
func (m *Mapper) Map(d mood.Descriptor) Criteria {
	c := Criteria{
		Genres:       inferGenres(genreCandidates(d), m.maxGenres),
		Energy:       toRange(d.Energy),
		Valence:      toRange(d.Valence),
		Danceability: toRange(d.Danceability),
		Acousticness: toRange(d.Acousticness),
		Query:        cleanQuery(d.Summary),
	}
	return c
}

// genreCandidates orders genre hints by confidence: explicit keywords first,
// then words of the summary in reading order.
func genreCandidates(d mood.Descriptor) []string {
	candidates := make([]string, 0, len(d.Keywords)+8)
	candidates = append(candidates, d.Keywords...)
	candidates = append(candidates, strings.FieldsFunc(d.Summary, func(r rune) bool {
		return r == ' ' || r == ',' || r == '.' || r == ';' || r == '\n'
	})...)
	return candidates
}

// toRange builds a clamped closed interval around a target value. A nil
// dimension stays nil; anything outside [0,1] is clamped first.
func toRange(target *float64) *Range {
	if target == nil {
		return nil
	}
	t := clamp01(*target)
	return &Range{
		Min: clamp01(t - rangeWidth),
		Max: clamp01(t + rangeWidth),
	}
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// cleanQuery flattens the summary to a single line capped at maxQueryRunes.
func cleanQuery(summary string) string {
	q := strings.Join(strings.Fields(summary), " ")
	runes := []rune(q)
	if len(runes) > maxQueryRunes {
		q = string(runes[:maxQueryRunes])
	}
	return q
}

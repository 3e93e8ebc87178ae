package recommend

import (
	"sort"
	"strings"

	"github.com/xrash/smetrics"

	"github.com/justestif/go-moodlist/internal/catalog"
)

// RankOptions tune the ranking policy beyond the baseline.
type RankOptions struct {
	// CollapseNearDuplicates drops tracks whose normalized title+artist are
	// nearly identical to an earlier kept track (alternate releases of the
	// same recording).
	CollapseNearDuplicates bool
	// NearDuplicateThreshold is the Jaro-Winkler similarity above which two
	// tracks are considered the same recording.
	NearDuplicateThreshold float64
}

// Rank applies the ranking policy: stable sort by descending service-reported
// popularity (the service's returned order is preserved when scores are
// absent or tied), dedup by external ID keeping the first occurrence, then
// truncate to limit. Input is not mutated.
func Rank(tracks []catalog.Track, limit int, opts RankOptions) []catalog.Track {
	if limit <= 0 || len(tracks) == 0 {
		return nil
	}

	ranked := make([]catalog.Track, len(tracks))
	copy(ranked, tracks)
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Popularity > ranked[j].Popularity
	})

	seen := make(map[string]bool, len(ranked))
	var keptKeys []string
	result := ranked[:0]
	for _, t := range ranked {
		if seen[t.ID] {
			continue
		}
		seen[t.ID] = true

		if opts.CollapseNearDuplicates {
			key := dedupKey(t)
			if isNearDuplicate(key, keptKeys, opts.NearDuplicateThreshold) {
				continue
			}
			keptKeys = append(keptKeys, key)
		}

		result = append(result, t)
		if len(result) == limit {
			break
		}
	}

	return result
}

// dedupKey normalizes a track to a comparable title+artist string.
func dedupKey(t catalog.Track) string {
	return normalize(t.Name) + " " + normalize(t.Artist)
}

func isNearDuplicate(key string, kept []string, threshold float64) bool {
	if threshold <= 0 || threshold > 1 {
		threshold = 0.95
	}
	for _, k := range kept {
		if smetrics.JaroWinkler(key, k, 0.7, 4) >= threshold {
			return true
		}
	}
	return false
}

// normalize lowercases and strips everything but letters, digits and single
// spaces so release suffixes ("Remastered 2011") still compare close.
func normalize(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	lastSpace := true
	for _, r := range strings.ToLower(s) {
		switch {
		case r >= 'a' && r <= 'z' || r >= '0' && r <= '9':
			b.WriteRune(r)
			lastSpace = false
		default:
			if !lastSpace {
				b.WriteByte(' ')
				lastSpace = true
			}
		}
	}
	return strings.TrimSpace(b.String())
}

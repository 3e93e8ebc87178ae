package mapping

import "strings"

// genreAliases maps normalized mood/scene keywords to catalog seed genres.
// Values are the catalog's canonical seed identifiers.
var genreAliases = map[string]string{
	"acoustic":     "acoustic",
	"ambient":      "ambient",
	"beach":        "summer",
	"blues":        "blues",
	"calm":         "chill",
	"chill":        "chill",
	"classical":    "classical",
	"club":         "club",
	"country":      "country",
	"dance":        "dance",
	"dancing":      "dance",
	"disco":        "disco",
	"edm":          "edm",
	"electro":      "electronic",
	"electronic":   "electronic",
	"energetic":    "work-out",
	"exercise":     "work-out",
	"focus":        "study",
	"folk":         "folk",
	"funk":         "funk",
	"gym":          "work-out",
	"happy":        "happy",
	"hip hop":      "hip-hop",
	"hip-hop":      "hip-hop",
	"hiphop":       "hip-hop",
	"house":        "house",
	"indie":        "indie",
	"jazz":         "jazz",
	"latin":        "latin",
	"lofi":         "chill",
	"lo-fi":        "chill",
	"melancholy":   "sad",
	"mellow":       "chill",
	"metal":        "metal",
	"nostalgic":    "oldies",
	"party":        "party",
	"piano":        "piano",
	"pop":          "pop",
	"punk":         "punk",
	"r&b":          "r-n-b",
	"rainy":        "rainy-day",
	"rap":          "hip-hop",
	"reggae":       "reggae",
	"relaxed":      "chill",
	"rock":         "rock",
	"romantic":     "romance",
	"sad":          "sad",
	"sleep":        "sleep",
	"soul":         "soul",
	"study":        "study",
	"summer":       "summer",
	"techno":       "techno",
	"upbeat":       "party",
	"work out":     "work-out",
	"workout":      "work-out",
	"work-out":     "work-out",
}

// inferGenres selects seed genres from keywords, keeping first occurrence in
// input order (ties resolved by position) and deduplicating, up to max.
func inferGenres(keywords []string, max int) []string {
	if max <= 0 || max > MaxSeedGenres {
		max = MaxSeedGenres
	}

	seen := make(map[string]bool, max)
	var genres []string
	for _, kw := range keywords {
		genre, ok := genreAliases[normalizeKeyword(kw)]
		if !ok || seen[genre] {
			continue
		}
		seen[genre] = true
		genres = append(genres, genre)
		if len(genres) == max {
			break
		}
	}
	return genres
}

func normalizeKeyword(kw string) string {
	return strings.ToLower(strings.TrimSpace(kw))
}

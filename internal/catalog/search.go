package catalog

import (
	"context"
	"errors"
	"strings"

	"github.com/zmb3/spotify/v2"

	"github.com/justestif/go-moodlist/internal/mapping"
)

// maxPerRequest is the service's per-call result cap.
const maxPerRequest = 100

// searchPageSize is the per-page size for free-text search.
const searchPageSize = 50

// maxSearchCalls bounds how many times a single SearchTracks invocation hits
// the service while accumulating unique results.
const maxSearchCalls = 3

// SearchTracks finds candidate tracks for the given criteria, issuing one or
// more calls as needed up to limit. Seeded criteria use the recommendations
// endpoint with tunable audio-feature ranges; criteria without seed genres
// fall back to free-text search. The service returning fewer results than
// requested is not an error.
func (c *Client) SearchTracks(ctx context.Context, criteria mapping.Criteria, limit int) ([]Track, error) {
	if limit <= 0 {
		return nil, nil
	}

	if len(criteria.Genres) > 0 {
		return c.recommendTracks(ctx, criteria, limit)
	}
	return c.searchByQuery(ctx, criteria.Query, limit)
}

// recommendTracks accumulates unique tracks from the recommendations endpoint
// until limit is reached, no new tracks arrive, or the call budget runs out.
func (c *Client) recommendTracks(ctx context.Context, criteria mapping.Criteria, limit int) ([]Track, error) {
	seeds := spotify.Seeds{Genres: criteria.Genres}
	attrs := trackAttributes(criteria)

	seen := make(map[string]bool, limit)
	var tracks []Track

	for call := 0; call < maxSearchCalls && len(tracks) < limit; call++ {
		remaining := min(limit-len(tracks), maxPerRequest)

		recs, err := c.getRecommendations(ctx, seeds, attrs, remaining)
		if err != nil {
			return nil, err
		}

		added := 0
		for _, st := range recs.Tracks {
			id := st.ID.String()
			if seen[id] {
				continue
			}
			seen[id] = true
			tracks = append(tracks, simpleToTrack(st))
			added++
			if len(tracks) == limit {
				break
			}
		}

		// The endpoint draws from a fixed candidate pool; once a call adds
		// nothing new, further calls will not either.
		if added == 0 {
			break
		}
	}

	return tracks, nil
}

func (c *Client) getRecommendations(ctx context.Context, seeds spotify.Seeds, attrs *spotify.TrackAttributes, count int) (*spotify.Recommendations, error) {
	ctx, cancel := c.callContext(ctx)
	defer cancel()

	recs, err := c.app.GetRecommendations(ctx, seeds, attrs, spotify.Limit(count))
	if err != nil {
		return nil, classify("getting recommendations", err)
	}
	return recs, nil
}

// searchByQuery pages through free-text track search results up to limit.
func (c *Client) searchByQuery(ctx context.Context, query string, limit int) ([]Track, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, nil
	}

	page, err := c.searchFirstPage(ctx, query, min(limit, searchPageSize))
	if err != nil {
		return nil, err
	}

	var tracks []Track
	for {
		for _, ft := range page.Tracks {
			tracks = append(tracks, fullToTrack(ft))
			if len(tracks) == limit {
				return tracks, nil
			}
		}

		err := c.nextSearchPage(ctx, page)
		if errors.Is(err, spotify.ErrNoMorePages) {
			return tracks, nil
		}
		if err != nil {
			return nil, err
		}
	}
}

func (c *Client) searchFirstPage(ctx context.Context, query string, pageSize int) (*spotify.FullTrackPage, error) {
	ctx, cancel := c.callContext(ctx)
	defer cancel()

	result, err := c.app.Search(ctx, query, spotify.SearchTypeTrack, spotify.Limit(pageSize))
	if err != nil {
		return nil, classify("searching tracks", err)
	}
	if result.Tracks == nil {
		return &spotify.FullTrackPage{}, nil
	}
	return result.Tracks, nil
}

func (c *Client) nextSearchPage(ctx context.Context, page *spotify.FullTrackPage) error {
	ctx, cancel := c.callContext(ctx)
	defer cancel()

	err := c.app.NextPage(ctx, page)
	if err != nil && !errors.Is(err, spotify.ErrNoMorePages) {
		return classify("fetching next search page", err)
	}
	return err
}

// trackAttributes converts criteria feature ranges into the endpoint's
// tunable attributes. Ranges are already clamped by the mapper.
func trackAttributes(criteria mapping.Criteria) *spotify.TrackAttributes {
	if criteria.Energy == nil && criteria.Valence == nil &&
		criteria.Danceability == nil && criteria.Acousticness == nil {
		return nil
	}

	attrs := spotify.NewTrackAttributes()
	if r := criteria.Energy; r != nil {
		attrs = attrs.MinEnergy(r.Min).MaxEnergy(r.Max)
	}
	if r := criteria.Valence; r != nil {
		attrs = attrs.MinValence(r.Min).MaxValence(r.Max)
	}
	if r := criteria.Danceability; r != nil {
		attrs = attrs.MinDanceability(r.Min).MaxDanceability(r.Max)
	}
	if r := criteria.Acousticness; r != nil {
		attrs = attrs.MinAcousticness(r.Min).MaxAcousticness(r.Max)
	}
	return attrs
}

func simpleToTrack(st spotify.SimpleTrack) Track {
	return Track{
		ID:          st.ID.String(),
		Name:        st.Name,
		Artist:      joinArtists(st.Artists),
		PreviewURL:  st.PreviewURL,
		ExternalURL: st.ExternalURLs["spotify"],
	}
}

func fullToTrack(ft spotify.FullTrack) Track {
	t := simpleToTrack(ft.SimpleTrack)
	t.Album = ft.Album.Name
	t.Popularity = int(ft.Popularity)
	return t
}

func joinArtists(artists []spotify.SimpleArtist) string {
	names := make([]string, len(artists))
	for i, a := range artists {
		names[i] = a.Name
	}
	return strings.Join(names, ", ")
}

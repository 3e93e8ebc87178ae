package catalog

import (
	"context"

	"github.com/zmb3/spotify/v2"
)

// FetchAudioFeatures populates Features on the given tracks in place,
// batching at the service's 100-ID cap. Tracks the service reports no
// features for keep a nil Features field.
func (c *Client) FetchAudioFeatures(ctx context.Context, tracks []Track) error {
	if len(tracks) == 0 {
		return nil
	}

	ids := make([]spotify.ID, len(tracks))
	indexByID := make(map[string]int, len(tracks))
	for i, t := range tracks {
		ids[i] = spotify.ID(t.ID)
		indexByID[t.ID] = i
	}

	for i := 0; i < len(ids); i += maxPerRequest {
		end := min(i+maxPerRequest, len(ids))

		features, err := c.getAudioFeatures(ctx, ids[i:end])
		if err != nil {
			return err
		}

		for _, f := range features {
			if f == nil {
				continue
			}
			idx, ok := indexByID[f.ID.String()]
			if !ok {
				continue
			}
			tracks[idx].Features = &TrackFeatures{
				Energy:       float64(f.Energy),
				Valence:      float64(f.Valence),
				Danceability: float64(f.Danceability),
				Acousticness: float64(f.Acousticness),
			}
		}
	}

	return nil
}

func (c *Client) getAudioFeatures(ctx context.Context, batch []spotify.ID) ([]*spotify.AudioFeatures, error) {
	ctx, cancel := c.callContext(ctx)
	defer cancel()

	features, err := c.app.GetAudioFeatures(ctx, batch...)
	if err != nil {
		return nil, classify("fetching audio features", err)
	}
	return features, nil
}

package catalog

import (
	"context"

	"github.com/zmb3/spotify/v2"

	"github.com/justestif/go-moodlist/internal/apperr"
)

// CreatePlaylist creates a playlist for the session's user and adds the given
// tracks in order, batching at the service's 100-track cap. A rejected
// session yields ErrAuthExpired; no idempotency is attempted, so repeated
// calls create distinct playlists.
func (c *Client) CreatePlaylist(ctx context.Context, session Session, name, description string, trackIDs []string) (Playlist, error) {
	if session.AccessToken == "" {
		return Playlist{}, apperr.New(apperr.ErrAuthExpired,
			"log in to your music service to save a playlist")
	}
	if session.Expired() {
		return Playlist{}, apperr.New(apperr.ErrAuthExpired,
			"your music service session has expired, please log in again")
	}

	api := c.userClient(ctx, session)

	userID, err := c.currentUserID(ctx, api)
	if err != nil {
		return Playlist{}, err
	}

	playlist, err := c.createForUser(ctx, api, userID, name, description)
	if err != nil {
		return Playlist{}, err
	}

	if err := c.addTracks(ctx, api, playlist.ID, trackIDs); err != nil {
		return Playlist{}, err
	}

	return Playlist{
		ID:   playlist.ID.String(),
		Name: playlist.Name,
		URL:  playlist.ExternalURLs["spotify"],
	}, nil
}

func (c *Client) currentUserID(ctx context.Context, api *spotify.Client) (string, error) {
	ctx, cancel := c.callContext(ctx)
	defer cancel()

	user, err := api.CurrentUser(ctx)
	if err != nil {
		return "", classify("getting current user", err)
	}
	return user.ID, nil
}

func (c *Client) createForUser(ctx context.Context, api *spotify.Client, userID, name, description string) (*spotify.FullPlaylist, error) {
	ctx, cancel := c.callContext(ctx)
	defer cancel()

	playlist, err := api.CreatePlaylistForUser(ctx, userID, name, description, true, false)
	if err != nil {
		return nil, classify("creating playlist", err)
	}
	return playlist, nil
}

// addTracks adds tracks in order, chunked at the per-request cap.
func (c *Client) addTracks(ctx context.Context, api *spotify.Client, playlistID spotify.ID, trackIDs []string) error {
	if len(trackIDs) == 0 {
		return nil
	}

	ids := make([]spotify.ID, len(trackIDs))
	for i, id := range trackIDs {
		ids[i] = spotify.ID(id)
	}

	for i := 0; i < len(ids); i += maxPerRequest {
		end := min(i+maxPerRequest, len(ids))
		if err := c.addBatch(ctx, api, playlistID, ids[i:end]); err != nil {
			return err
		}
	}
	return nil
}

func (c *Client) addBatch(ctx context.Context, api *spotify.Client, playlistID spotify.ID, batch []spotify.ID) error {
	ctx, cancel := c.callContext(ctx)
	defer cancel()

	if _, err := api.AddTracksToPlaylist(ctx, playlistID, batch...); err != nil {
		return classify("adding playlist tracks", err)
	}
	return nil
}

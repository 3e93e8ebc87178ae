package web

import (
	"context"
	"encoding/base64"
	"net/http"
	"strings"
	"time"

	"github.com/goccy/go-json"

	"github.com/justestif/go-moodlist/internal/apperr"
	"github.com/justestif/go-moodlist/internal/catalog"
	"github.com/justestif/go-moodlist/internal/recommend"
)

// Recommender runs the recommendation pipeline.
type Recommender interface {
	Recommend(ctx context.Context, req recommend.Request) (recommend.Result, error)
}

// AuthManager handles the OAuth login flow.
type AuthManager interface {
	AuthorizationURL() (authURL, state string, err error)
	CompleteLogin(ctx context.Context, code string) (catalog.Session, error)
}

// Handlers contains the API handlers.
type Handlers struct {
	recommender Recommender
	auth        AuthManager
}

// NewHandlers creates a Handlers instance.
func NewHandlers(recommender Recommender, auth AuthManager) *Handlers {
	return &Handlers{
		recommender: recommender,
		auth:        auth,
	}
}

// recommendRequest is the POST /api/recommend body.
type recommendRequest struct {
	TextPrompt     string `json:"text_prompt"`
	Image          string `json:"image"` // base64, optionally a data URL
	UserToken      string `json:"user_token"`
	CreatePlaylist bool   `json:"create_playlist"`
	Limit          int    `json:"limit"`
}

type trackResponse struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Artist      string `json:"artist"`
	Album       string `json:"album,omitempty"`
	PreviewURL  string `json:"preview_url,omitempty"`
	ExternalURL string `json:"external_url,omitempty"`
}

type playlistResponse struct {
	PlaylistID   string `json:"playlist_id"`
	PlaylistName string `json:"playlist_name"`
	PlaylistURL  string `json:"playlist_url"`
}

type recommendResponse struct {
	Recommendations []trackResponse   `json:"recommendations"`
	MoodDescription string            `json:"mood_description"`
	Playlist        *playlistResponse `json:"playlist,omitempty"`
	// Error accompanies partial success: recommendations were computed but
	// a later step failed.
	Error string `json:"error,omitempty"`
}

// Recommend handles POST /api/recommend.
func (h *Handlers) Recommend(w http.ResponseWriter, r *http.Request) {
	var body recommendRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, apperr.Wrap(apperr.ErrInvalidInput, "request body is not valid JSON", err))
		return
	}

	image, err := decodeImage(body.Image)
	if err != nil {
		writeError(w, err)
		return
	}

	req := recommend.Request{
		Text:           body.TextPrompt,
		Image:          image,
		Limit:          body.Limit,
		CreatePlaylist: body.CreatePlaylist,
	}
	if token := strings.TrimSpace(body.UserToken); token != "" {
		req.Session = &catalog.Session{AccessToken: token}
	}

	result, err := h.recommender.Recommend(r.Context(), req)
	if err != nil {
		// Partial success: computed recommendations are returned alongside
		// the error instead of being discarded.
		if len(result.Tracks) > 0 {
			writeJSON(w, statusFor(err), recommendResponse{
				Recommendations: toTrackResponses(result.Tracks),
				MoodDescription: result.Mood.Summary,
				Error:           apperr.Message(err),
			})
			return
		}
		writeError(w, err)
		return
	}

	resp := recommendResponse{
		Recommendations: toTrackResponses(result.Tracks),
		MoodDescription: result.Mood.Summary,
	}
	if result.Playlist != nil {
		resp.Playlist = &playlistResponse{
			PlaylistID:   result.Playlist.ID,
			PlaylistName: result.Playlist.Name,
			PlaylistURL:  result.Playlist.URL,
		}
	}
	writeJSON(w, http.StatusOK, resp)
}

// Login handles GET /api/login: returns the authorization URL for the client
// to open. The state is included so the client can verify the callback.
func (h *Handlers) Login(w http.ResponseWriter, r *http.Request) {
	authURL, state, err := h.auth.AuthorizationURL()
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{
		"auth_url": authURL,
		"state":    state,
	})
}

// callbackResponse is the GET /api/callback success body. The token is handed
// to the client, which owns it from here on; the server keeps nothing.
type callbackResponse struct {
	AccessToken  string `json:"access_token"`
	TokenType    string `json:"token_type,omitempty"`
	RefreshToken string `json:"refresh_token,omitempty"`
	ExpiresIn    int64  `json:"expires_in,omitempty"`
}

// Callback handles GET /api/callback: exchanges the authorization code for a
// session and returns it to the client.
func (h *Handlers) Callback(w http.ResponseWriter, r *http.Request) {
	if errMsg := r.URL.Query().Get("error"); errMsg != "" {
		writeError(w, apperr.New(apperr.ErrAuthExchange, "authorization was denied: "+errMsg))
		return
	}

	code := r.URL.Query().Get("code")
	if code == "" {
		writeError(w, apperr.New(apperr.ErrAuthExchange, "missing authorization code"))
		return
	}

	session, err := h.auth.CompleteLogin(r.Context(), code)
	if err != nil {
		writeError(w, err)
		return
	}

	resp := callbackResponse{
		AccessToken:  session.AccessToken,
		TokenType:    session.TokenType,
		RefreshToken: session.RefreshToken,
	}
	if !session.Expiry.IsZero() {
		resp.ExpiresIn = int64(time.Until(session.Expiry).Seconds())
	}
	writeJSON(w, http.StatusOK, resp)
}

// Health handles GET /api/health.
func (h *Handlers) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
}

// decodeImage decodes the optional base64 image field, tolerating data-URL
// prefixes pasted from browsers.
func decodeImage(encoded string) ([]byte, error) {
	encoded = strings.TrimSpace(encoded)
	if encoded == "" {
		return nil, nil
	}

	if idx := strings.Index(encoded, ";base64,"); idx >= 0 && strings.HasPrefix(encoded, "data:") {
		encoded = encoded[idx+len(";base64,"):]
	}

	image, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return nil, apperr.Wrap(apperr.ErrInvalidInput, "image is not valid base64", err)
	}
	return image, nil
}

func toTrackResponses(tracks []catalog.Track) []trackResponse {
	resp := make([]trackResponse, len(tracks))
	for i, t := range tracks {
		resp[i] = trackResponse{
			ID:          t.ID,
			Name:        t.Name,
			Artist:      t.Artist,
			Album:       t.Album,
			PreviewURL:  t.PreviewURL,
			ExternalURL: t.ExternalURL,
		}
	}
	return resp
}

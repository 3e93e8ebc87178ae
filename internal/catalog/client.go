// Package catalog wraps the Spotify Web API: feature search, playlist
// creation and the OAuth authorization-code exchange. All operations carry
// explicit timeouts and classify failures into the shared error taxonomy.
package catalog

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/url"
	"strings"
	"time"

	"github.com/zmb3/spotify/v2"
	spotifyauth "github.com/zmb3/spotify/v2/auth"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"
	"golang.org/x/time/rate"

	"github.com/justestif/go-moodlist/internal/apperr"
)

// Options configures a Client.
type Options struct {
	ClientID     string
	ClientSecret string
	RedirectURL  string
	// Timeout bounds every outbound call. Exceeding it classifies as
	// unavailable, never as a hang.
	Timeout time.Duration
	// RatePerSecond and Burst feed the outbound rate limiter.
	RatePerSecond float64
	Burst         int
}

// Client is the catalog service wrapper. Safe for concurrent use: the only
// shared state is the app-credentials HTTP client, the authenticator and the
// rate limiter, all of which are concurrency-safe.
type Client struct {
	auth    *spotifyauth.Authenticator
	app     *spotify.Client // client-credentials client for search
	limiter *rate.Limiter
	timeout time.Duration
}

// NewClient builds a catalog client. The app-only search client uses the
// client-credentials grant; user-scoped operations build a per-request client
// from the presented session.
func NewClient(opts Options) *Client {
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	perSecond := opts.RatePerSecond
	if perSecond <= 0 {
		perSecond = 10
	}
	burst := opts.Burst
	if burst <= 0 {
		burst = 1
	}

	auth := spotifyauth.New(
		spotifyauth.WithClientID(opts.ClientID),
		spotifyauth.WithClientSecret(opts.ClientSecret),
		spotifyauth.WithRedirectURL(opts.RedirectURL),
		spotifyauth.WithScopes(
			spotifyauth.ScopePlaylistModifyPublic,
			spotifyauth.ScopePlaylistModifyPrivate,
			spotifyauth.ScopeUserReadPrivate,
			spotifyauth.ScopeUserReadEmail,
		),
	)

	creds := &clientcredentials.Config{
		ClientID:     opts.ClientID,
		ClientSecret: opts.ClientSecret,
		TokenURL:     spotifyauth.TokenURL,
	}

	return &Client{
		auth:    auth,
		app:     spotify.New(creds.Client(context.Background())),
		limiter: rate.NewLimiter(rate.Limit(perSecond), burst),
		timeout: timeout,
	}
}

// AuthURL returns the authorization URL the user must visit to grant access.
// Stateless and side-effect-free.
func (c *Client) AuthURL(state string) string {
	return c.auth.AuthURL(state)
}

// ExchangeCode redeems a single-use authorization code for a session.
func (c *Client) ExchangeCode(ctx context.Context, code string) (Session, error) {
	if strings.TrimSpace(code) == "" {
		return Session{}, apperr.New(apperr.ErrAuthExchange, "missing authorization code")
	}

	ctx, cancel := c.callContext(ctx)
	defer cancel()

	token, err := c.auth.Exchange(ctx, code)
	if err != nil {
		if transient(err) {
			return Session{}, apperr.Wrap(apperr.ErrUpstreamUnavailable,
				"the music service is temporarily unavailable", err)
		}
		return Session{}, apperr.Wrap(apperr.ErrAuthExchange,
			"login could not be completed, please try again", err)
	}

	return sessionFromToken(token), nil
}

// userClient builds a per-request API client from the presented session.
func (c *Client) userClient(ctx context.Context, session Session) *spotify.Client {
	return spotify.New(c.auth.Client(ctx, session.token()))
}

// callContext derives the per-call timeout context and waits for rate-limit
// headroom. The returned cancel must always be called.
func (c *Client) callContext(ctx context.Context) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	if err := c.limiter.Wait(ctx); err != nil {
		// The deadline elapsed while queued; the call itself will fail fast.
		return ctx, cancel
	}
	return ctx, cancel
}

// classify maps a raw API error to the taxonomy: 401 means the session was
// rejected, timeouts and transport errors are transient, 429/5xx are
// service-side transients. Anything else stays unclassified.
func classify(op string, err error) error {
	var se spotify.Error
	if errors.As(err, &se) {
		switch {
		case se.Status == 401:
			return apperr.Wrap(apperr.ErrAuthExpired,
				"your music service session has expired, please log in again", err)
		case se.Status == 429 || se.Status >= 500:
			return apperr.Wrap(apperr.ErrUpstreamUnavailable,
				"the music service is temporarily unavailable", err)
		}
	}

	if transient(err) {
		return apperr.Wrap(apperr.ErrUpstreamUnavailable,
			"the music service is temporarily unavailable", err)
	}

	return fmt.Errorf("%s: %w", op, err)
}

// transient reports whether err is a timeout or transport-level failure.
func transient(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var ne net.Error
	if errors.As(err, &ne) && ne.Timeout() {
		return true
	}
	var ue *url.Error
	if errors.As(err, &ue) {
		// oauth2.RetrieveError means the server answered; everything else
		// wrapped in url.Error is transport-level.
		var re *oauth2.RetrieveError
		return !errors.As(err, &re)
	}
	return false
}

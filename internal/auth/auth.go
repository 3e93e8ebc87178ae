// Package auth manages the catalog service's OAuth authorization-code flow.
// The server is stateless with respect to user identity: the session produced
// by CompleteLogin is handed back to the caller, which owns its lifecycle.
package auth

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"

	"github.com/justestif/go-moodlist/internal/catalog"
)

// Exchanger is the slice of the catalog client the manager delegates to.
type Exchanger interface {
	AuthURL(state string) string
	ExchangeCode(ctx context.Context, code string) (catalog.Session, error)
}

// Manager builds authorization URLs and completes logins. It keeps no
// per-user state.
type Manager struct {
	catalog Exchanger
}

// NewManager creates a Manager delegating to the given catalog client.
func NewManager(c Exchanger) *Manager {
	return &Manager{catalog: c}
}

// AuthorizationURL returns the URL the user must visit to authorize access,
// along with the CSRF state embedded in it. No server-side state is kept;
// clients that want state verification carry it themselves.
func (m *Manager) AuthorizationURL() (authURL, state string, err error) {
	state, err = generateState()
	if err != nil {
		return "", "", fmt.Errorf("generating state: %w", err)
	}
	return m.catalog.AuthURL(state), state, nil
}

// CompleteLogin redeems the single-use authorization code for a session.
// The session is returned to the caller and not stored.
func (m *Manager) CompleteLogin(ctx context.Context, code string) (catalog.Session, error) {
	session, err := m.catalog.ExchangeCode(ctx, code)
	if err != nil {
		return catalog.Session{}, fmt.Errorf("completing login: %w", err)
	}
	return session, nil
}

// generateState creates a random state string for OAuth.
func generateState() (string, error) {
	b := make([]byte, 16)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}

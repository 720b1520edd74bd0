package client

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"sync"

	"github.com/sunrise-classroom/content-portal/internal/auth"
)

// TokenSource exchanges credentials for a backend bearer token.
type TokenSource interface {
	Login(ctx context.Context, id, password string) (string, error)
}

type sessionState struct {
	Authenticated bool   `json:"authenticated"`
	Token         string `json:"token,omitempty"`
}

// Gate is the local sign-in check. Credentials are validated against
// the fixed teacher account; the session persists on disk so it
// survives restarts. A token source, when present, is consulted best
// effort so mutations work against a guarded backend, but its failure
// never blocks the sign-in itself.
type Gate struct {
	path   string
	tokens TokenSource

	mu    sync.RWMutex
	state sessionState
}

// DefaultSessionPath is where the session file lives unless a path is
// given explicitly.
func DefaultSessionPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "sunrise-portal", "session.json"), nil
}

// NewGate loads any persisted session from path. A missing or
// unreadable file just means signed out.
func NewGate(path string, tokens TokenSource) *Gate {
	g := &Gate{path: path, tokens: tokens}
	if raw, err := os.ReadFile(path); err == nil {
		var st sessionState
		if json.Unmarshal(raw, &st) == nil {
			g.state = st
		}
	}
	return g
}

// Login validates the credentials locally and, on success, persists
// the session. Reports whether the credentials were accepted.
func (g *Gate) Login(ctx context.Context, id, password string) bool {
	if !auth.Check(id, password) {
		return false
	}
	st := sessionState{Authenticated: true}
	if g.tokens != nil {
		if tok, err := g.tokens.Login(ctx, id, password); err == nil {
			st.Token = tok
		}
	}
	g.mu.Lock()
	g.state = st
	g.mu.Unlock()
	g.persist(st)
	return true
}

// Logout clears the in-memory session and removes the session file.
func (g *Gate) Logout() {
	g.mu.Lock()
	g.state = sessionState{}
	g.mu.Unlock()
	os.Remove(g.path)
}

func (g *Gate) IsAuthenticated() bool {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.state.Authenticated
}

// Token returns the backend token captured at login, if any.
func (g *Gate) Token() string {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.state.Token
}

func (g *Gate) persist(st sessionState) {
	raw, err := json.Marshal(st)
	if err != nil {
		return
	}
	if err := os.MkdirAll(filepath.Dir(g.path), 0o700); err != nil {
		return
	}
	os.WriteFile(g.path, raw, 0o600)
}

// Package session implements the cookie-token session layer. Each request is
// tied to at most one session; the in-flight order slot keyed by the session
// ID lives in the cart package.
package session

import (
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/gofrs/uuid"
	"github.com/rs/zerolog/log"
)

const CookieName = "catcloud_session"

var ErrNotFound = errors.New("session not found")

// Session is one client's server-side state. Username is empty until a
// principal authenticates.
type Session struct {
	ID        string
	Username  string
	CreatedAt time.Time
}

// Manager owns the session table. All methods are safe for concurrent use.
type Manager struct {
	mu       sync.RWMutex
	sessions map[string]*Session
	ttl      time.Duration
}

func NewManager(ttl time.Duration) *Manager {
	return &Manager{
		sessions: make(map[string]*Session),
		ttl:      ttl,
	}
}

// Start creates a fresh session with a random token.
func (m *Manager) Start() (*Session, error) {
	token, err := uuid.NewV4()
	if err != nil {
		return nil, fmt.Errorf("session: failed to generate token: %w", err)
	}

	s := &Session{
		ID:        token.String(),
		CreatedAt: time.Now().UTC(),
	}

	m.mu.Lock()
	m.sessions[s.ID] = s
	m.mu.Unlock()

	return s, nil
}

// Lookup returns the session for id, or ErrNotFound when the id is unknown
// or the session has expired.
func (m *Manager) Lookup(id string) (*Session, error) {
	m.mu.RLock()
	s, ok := m.sessions[id]
	m.mu.RUnlock()
	if !ok {
		return nil, ErrNotFound
	}

	if m.ttl > 0 && time.Since(s.CreatedAt) > m.ttl {
		m.Destroy(id)
		return nil, ErrNotFound
	}

	return s, nil
}

// Attach records the authenticated principal's username on the session.
func (m *Manager) Attach(id, username string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	s, ok := m.sessions[id]
	if !ok {
		return ErrNotFound
	}
	s.Username = username

	return nil
}

// Destroy removes the session. Destroying an unknown id is a no-op.
func (m *Manager) Destroy(id string) {
	m.mu.Lock()
	delete(m.sessions, id)
	m.mu.Unlock()
}

// Ensure returns the request's session, starting one (and setting the cookie)
// when none is attached yet.
func (m *Manager) Ensure(w http.ResponseWriter, r *http.Request) (*Session, error) {
	if c, err := r.Cookie(CookieName); err == nil {
		if s, err := m.Lookup(c.Value); err == nil {
			return s, nil
		}
	}

	s, err := m.Start()
	if err != nil {
		return nil, err
	}

	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    s.ID,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	log.Debug().Str("session_id", s.ID).Msg("session: started")

	return s, nil
}

// FromRequest returns the session attached to the request cookie, if any.
func (m *Manager) FromRequest(r *http.Request) (*Session, error) {
	c, err := r.Cookie(CookieName)
	if err != nil {
		return nil, ErrNotFound
	}

	return m.Lookup(c.Value)
}

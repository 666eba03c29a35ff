package session_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"catcloud/internal/session"
)

func TestManager_StartAndLookup(t *testing.T) {
	m := session.NewManager(time.Hour)

	s, err := m.Start()
	require.NoError(t, err)
	assert.NotEmpty(t, s.ID)
	assert.Empty(t, s.Username)

	found, err := m.Lookup(s.ID)
	require.NoError(t, err)
	assert.Equal(t, s.ID, found.ID)
}

func TestManager_Lookup_Unknown(t *testing.T) {
	m := session.NewManager(time.Hour)

	_, err := m.Lookup("no-such-token")
	assert.ErrorIs(t, err, session.ErrNotFound)
}

func TestManager_Lookup_Expired(t *testing.T) {
	m := session.NewManager(time.Nanosecond)

	s, err := m.Start()
	require.NoError(t, err)

	time.Sleep(time.Millisecond)

	_, err = m.Lookup(s.ID)
	assert.ErrorIs(t, err, session.ErrNotFound)

	// An expired session is gone for good, not revived by a later lookup.
	_, err = m.Lookup(s.ID)
	assert.ErrorIs(t, err, session.ErrNotFound)
}

func TestManager_Attach(t *testing.T) {
	m := session.NewManager(time.Hour)

	s, err := m.Start()
	require.NoError(t, err)

	require.NoError(t, m.Attach(s.ID, "jon"))

	found, err := m.Lookup(s.ID)
	require.NoError(t, err)
	assert.Equal(t, "jon", found.Username)

	assert.ErrorIs(t, m.Attach("no-such-token", "jon"), session.ErrNotFound)
}

func TestManager_Destroy(t *testing.T) {
	m := session.NewManager(time.Hour)

	s, err := m.Start()
	require.NoError(t, err)

	m.Destroy(s.ID)
	_, err = m.Lookup(s.ID)
	assert.ErrorIs(t, err, session.ErrNotFound)

	// Destroying again is a no-op.
	m.Destroy(s.ID)
}

func TestManager_Ensure_SetsCookie(t *testing.T) {
	m := session.NewManager(time.Hour)

	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodGet, "/design", nil)

	s, err := m.Ensure(w, r)
	require.NoError(t, err)

	cookies := w.Result().Cookies()
	require.Len(t, cookies, 1)
	c := cookies[0]
	assert.Equal(t, session.CookieName, c.Name)
	assert.Equal(t, s.ID, c.Value)
	assert.True(t, c.HttpOnly)
	assert.Equal(t, http.SameSiteLaxMode, c.SameSite)
	assert.Equal(t, "/", c.Path)
}

func TestManager_Ensure_ReusesExistingSession(t *testing.T) {
	m := session.NewManager(time.Hour)

	s, err := m.Start()
	require.NoError(t, err)

	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodGet, "/design", nil)
	r.AddCookie(&http.Cookie{Name: session.CookieName, Value: s.ID})

	got, err := m.Ensure(w, r)
	require.NoError(t, err)
	assert.Equal(t, s.ID, got.ID)
	assert.Empty(t, w.Result().Cookies(), "existing session must not reset the cookie")
}

func TestManager_Ensure_ReplacesStaleCookie(t *testing.T) {
	m := session.NewManager(time.Hour)

	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodGet, "/design", nil)
	r.AddCookie(&http.Cookie{Name: session.CookieName, Value: "stale-token"})

	s, err := m.Ensure(w, r)
	require.NoError(t, err)
	assert.NotEqual(t, "stale-token", s.ID)

	cookies := w.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, s.ID, cookies[0].Value)
}

func TestManager_FromRequest(t *testing.T) {
	m := session.NewManager(time.Hour)

	s, err := m.Start()
	require.NoError(t, err)

	r := httptest.NewRequest(http.MethodGet, "/design", nil)
	r.AddCookie(&http.Cookie{Name: session.CookieName, Value: s.ID})

	found, err := m.FromRequest(r)
	require.NoError(t, err)
	assert.Equal(t, s.ID, found.ID)

	bare := httptest.NewRequest(http.MethodGet, "/design", nil)
	_, err = m.FromRequest(bare)
	assert.ErrorIs(t, err, session.ErrNotFound)
}

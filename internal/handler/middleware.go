package handler

import (
	"context"
	"errors"
	"net/http"

	"github.com/rs/zerolog/log"

	"catcloud/internal/session"
	"catcloud/internal/user"
)

type ctxKey int

const (
	sessionCtxKey ctxKey = iota
	principalCtxKey
)

// SessionFrom returns the session attached by WithSession, or nil.
func SessionFrom(ctx context.Context) *session.Session {
	s, _ := ctx.Value(sessionCtxKey).(*session.Session)
	return s
}

// PrincipalFrom returns the authenticated principal, or nil for anonymous
// requests.
func PrincipalFrom(ctx context.Context) *user.User {
	u, _ := ctx.Value(principalCtxKey).(*user.User)
	return u
}

// WithSession attaches the request's session (starting one if needed) and,
// when the session carries a username, resolves the principal through the
// credential source.
func WithSession(sessions *session.Manager, users user.Finder) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			s, err := sessions.Ensure(w, r)
			if err != nil {
				log.Error().Err(err).Msg("middleware: failed to establish session")
				respondWithError(w, http.StatusInternalServerError, "Failed to establish session")
				return
			}

			ctx := context.WithValue(r.Context(), sessionCtxKey, s)

			if s.Username != "" {
				principal, err := users.FindByUsername(ctx, s.Username)
				if err != nil && !errors.Is(err, user.ErrNotFound) {
					log.Error().Err(err).Str("username", s.Username).Msg("middleware: failed to resolve principal")
					respondWithError(w, http.StatusInternalServerError, "Failed to resolve principal")
					return
				}
				if principal != nil {
					ctx = context.WithValue(ctx, principalCtxKey, principal)
				}
			}

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireRole is the path-level guard: anonymous requests are redirected to
// the login flow before any handler runs, authenticated requests without the
// role get a forbidden response. Authentication and authorization failures
// stay distinct.
func RequireRole(role user.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			principal := PrincipalFrom(r.Context())
			if principal == nil {
				http.Redirect(w, r, "/login", http.StatusFound)
				return
			}
			if !principal.HasRole(role) {
				respondWithError(w, http.StatusForbidden, "Forbidden")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

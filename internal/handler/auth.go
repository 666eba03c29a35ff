package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"catcloud/internal/session"
	"catcloud/internal/user"
)

type RegisterRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
	Fullname string `json:"fullname"`
	Street   string `json:"street"`
	City     string `json:"city"`
	State    string `json:"state"`
	Zip      string `json:"zip"`
	Phone    string `json:"phone"`
}

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// AuthHandler serves registration, login and logout.
type AuthHandler struct {
	users    user.Service
	sessions *session.Manager
}

func NewAuthHandler(users user.Service, sessions *session.Manager) *AuthHandler {
	return &AuthHandler{users: users, sessions: sessions}
}

func (h *AuthHandler) RegisterRoutes(router chi.Router) {
	router.Get("/login", h.handleLoginRequired)
	router.Post("/login", h.handleLogin)
	router.Post("/logout", h.handleLogout)
	router.Post("/register", h.handleRegister)
}

func (h *AuthHandler) handleLoginRequired(w http.ResponseWriter, r *http.Request) {
	respondWithError(w, http.StatusUnauthorized, "Authentication required")
}

func (h *AuthHandler) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest

	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}

	u, err := h.users.Register(r.Context(), user.RegisterInput{
		Username: req.Username,
		Password: req.Password,
		Fullname: req.Fullname,
		Street:   req.Street,
		City:     req.City,
		State:    req.State,
		Zip:      req.Zip,
		Phone:    req.Phone,
	})
	if err != nil {
		if errors.Is(err, user.ErrUsernameTaken) {
			respondWithError(w, http.StatusConflict, "Username already taken")
			return
		}
		if errors.Is(err, user.ErrInvalidCredentials) {
			respondWithError(w, http.StatusBadRequest, "Username and password are required")
			return
		}
		log.Error().Err(err).Msg("Failed to register user")
		respondWithError(w, mapErrorToStatusCode(err), "Failed to register user")
		return
	}

	respondWithJSON(w, http.StatusCreated, u)
}

func (h *AuthHandler) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest

	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}

	principal, err := h.users.Authenticate(r.Context(), req.Username, req.Password)
	if err != nil {
		if errors.Is(err, user.ErrInvalidCredentials) {
			respondWithError(w, http.StatusUnauthorized, "Invalid username or password")
			return
		}
		log.Error().Err(err).Msg("Failed to authenticate")
		respondWithError(w, mapErrorToStatusCode(err), "Failed to authenticate")
		return
	}

	s := SessionFrom(r.Context())
	if s == nil {
		respondWithError(w, http.StatusInternalServerError, "No session established")
		return
	}
	if err := h.sessions.Attach(s.ID, principal.Username); err != nil {
		log.Error().Err(err).Str("session_id", s.ID).Msg("Failed to attach principal to session")
		respondWithError(w, http.StatusInternalServerError, "Failed to attach principal to session")
		return
	}

	http.Redirect(w, r, "/design", http.StatusSeeOther)
}

func (h *AuthHandler) handleLogout(w http.ResponseWriter, r *http.Request) {
	if s := SessionFrom(r.Context()); s != nil {
		h.sessions.Destroy(s.ID)
	}
	http.SetCookie(w, &http.Cookie{
		Name:   session.CookieName,
		Value:  "",
		Path:   "/",
		MaxAge: -1,
	})

	http.Redirect(w, r, "/login", http.StatusSeeOther)
}

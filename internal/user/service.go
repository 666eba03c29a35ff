package user

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"
)

var (
	// ErrInvalidCredentials means the username is unknown or the password does
	// not match. The two cases are deliberately indistinguishable to callers.
	ErrInvalidCredentials = errors.New("invalid username or password")

	// ErrNotAuthenticated means no principal is attached to the request.
	ErrNotAuthenticated = errors.New("authentication required")

	// ErrForbidden means the principal is authenticated but lacks the role the
	// operation requires. Never degraded to ErrNotAuthenticated.
	ErrForbidden = errors.New("insufficient role")
)

type RegisterInput struct {
	Username string
	Password string
	Fullname string
	Street   string
	City     string
	State    string
	Zip      string
	Phone    string
}

type Service interface {
	Register(ctx context.Context, input RegisterInput) (*User, error)
	Authenticate(ctx context.Context, username, password string) (*User, error)
}

type service struct {
	repo Repository
}

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

// Register creates an account with the USER role. Passwords are stored only
// as bcrypt hashes.
func (s *service) Register(ctx context.Context, input RegisterInput) (*User, error) {
	if input.Username == "" || input.Password == "" {
		return nil, ErrInvalidCredentials
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		log.Error().Err(err).Msg("service: failed to hash password")
		return nil, fmt.Errorf("service: failed to hash password: %w", err)
	}

	u := &User{
		Username:     input.Username,
		PasswordHash: string(hash),
		Fullname:     input.Fullname,
		Street:       input.Street,
		City:         input.City,
		State:        input.State,
		Zip:          input.Zip,
		Phone:        input.Phone,
		Roles:        []Role{RoleUser},
		CreatedAt:    time.Now().UTC(),
	}

	if err := s.repo.Create(ctx, u); err != nil {
		if errors.Is(err, ErrUsernameTaken) {
			return nil, ErrUsernameTaken
		}
		log.Error().Err(err).Str("username", input.Username).Msg("service: failed to create user")
		return nil, fmt.Errorf("service: failed to create user: %w", err)
	}

	log.Info().Str("username", u.Username).Stringer("user_id", u.ID).Msg("service: user registered")

	return u, nil
}

// Authenticate verifies credentials with a constant-shape error path: an
// unknown username and a wrong password both yield ErrInvalidCredentials.
func (s *service) Authenticate(ctx context.Context, username, password string) (*User, error) {
	u, err := s.repo.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			log.Warn().Str("username", username).Msg("service: login for unknown user")
			return nil, ErrInvalidCredentials
		}
		log.Error().Err(err).Str("username", username).Msg("service: failed to look up user")
		return nil, fmt.Errorf("service: failed to look up user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)); err != nil {
		log.Warn().Str("username", username).Msg("service: password mismatch")
		return nil, ErrInvalidCredentials
	}

	return u, nil
}

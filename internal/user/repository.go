package user

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/gofrs/uuid"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

var (
	ErrNotFound      = errors.New("user not found")
	ErrUsernameTaken = errors.New("username already taken")
)

// Finder is the credential-lookup capability the access layer depends on.
// Production uses the postgres repository; tests swap in MemoryRepository.
type Finder interface {
	FindByUsername(ctx context.Context, username string) (*User, error)
}

type Repository interface {
	Finder
	Create(ctx context.Context, u *User) error
}

type postgresRepository struct {
	db *pgxpool.Pool
}

func NewRepository(db *pgxpool.Pool) Repository {
	return &postgresRepository{db: db}
}

func (r *postgresRepository) FindByUsername(ctx context.Context, username string) (*User, error) {
	var u User
	var roles []string
	err := r.db.QueryRow(ctx,
		`SELECT id, username, password_hash, fullname, street, city, state, zip, phone, roles, created_at
		 FROM users WHERE username = $1`, username).
		Scan(&u.ID, &u.Username, &u.PasswordHash, &u.Fullname, &u.Street, &u.City,
			&u.State, &u.Zip, &u.Phone, &roles, &u.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("repository: failed to select user %s: %w", username, err)
	}

	u.Roles = make([]Role, 0, len(roles))
	for _, role := range roles {
		u.Roles = append(u.Roles, Role(role))
	}

	return &u, nil
}

func (r *postgresRepository) Create(ctx context.Context, u *User) error {
	userID, err := uuid.NewV4()
	if err != nil {
		return fmt.Errorf("repository: failed to generate user ID: %w", err)
	}

	roles := make([]string, 0, len(u.Roles))
	for _, role := range u.Roles {
		roles = append(roles, string(role))
	}

	_, err = r.db.Exec(ctx,
		`INSERT INTO users (id, username, password_hash, fullname, street, city, state, zip, phone, roles, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
		userID, u.Username, u.PasswordHash, u.Fullname, u.Street, u.City,
		u.State, u.Zip, u.Phone, roles, u.CreatedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
			return ErrUsernameTaken
		}
		return fmt.Errorf("repository: failed to insert user %s: %w", u.Username, err)
	}

	u.ID = userID

	return nil
}

// MemoryRepository is the in-memory Finder/Repository variant.
type MemoryRepository struct {
	mu    sync.RWMutex
	users map[string]User
}

func NewMemoryRepository(users ...User) *MemoryRepository {
	m := &MemoryRepository{users: make(map[string]User, len(users))}
	for _, u := range users {
		m.users[u.Username] = u
	}
	return m
}

func (m *MemoryRepository) FindByUsername(_ context.Context, username string) (*User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	u, ok := m.users[username]
	if !ok {
		return nil, ErrNotFound
	}

	return &u, nil
}

func (m *MemoryRepository) Create(_ context.Context, u *User) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.users[u.Username]; exists {
		return ErrUsernameTaken
	}

	userID, err := uuid.NewV4()
	if err != nil {
		return fmt.Errorf("repository: failed to generate user ID: %w", err)
	}
	u.ID = userID
	m.users[u.Username] = *u

	return nil
}

package ingredient

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var ErrNotFound = errors.New("ingredient not found")

// Repository provides read access to the ingredient catalog. Save exists for
// the admin catalog path only; rows are never updated or deleted afterwards.
type Repository interface {
	ListAll(ctx context.Context) ([]Ingredient, error)
	FindByID(ctx context.Context, id string) (*Ingredient, error)
	Save(ctx context.Context, ing *Ingredient) error
}

type postgresRepository struct {
	db *pgxpool.Pool
}

func NewRepository(db *pgxpool.Pool) Repository {
	return &postgresRepository{db: db}
}

func (r *postgresRepository) ListAll(ctx context.Context) ([]Ingredient, error) {
	rows, err := r.db.Query(ctx, `SELECT id, name, type FROM ingredients ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("repository: failed to query ingredients: %w", err)
	}
	defer rows.Close()

	ingredients := make([]Ingredient, 0)
	for rows.Next() {
		var ing Ingredient
		if err := rows.Scan(&ing.ID, &ing.Name, &ing.Type); err != nil {
			return nil, fmt.Errorf("repository: failed to scan ingredient: %w", err)
		}
		ingredients = append(ingredients, ing)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("repository: error iterating ingredients: %w", err)
	}

	return ingredients, nil
}

func (r *postgresRepository) FindByID(ctx context.Context, id string) (*Ingredient, error) {
	var ing Ingredient
	err := r.db.QueryRow(ctx, `SELECT id, name, type FROM ingredients WHERE id = $1`, id).
		Scan(&ing.ID, &ing.Name, &ing.Type)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("repository: failed to select ingredient %s: %w", id, err)
	}

	return &ing, nil
}

func (r *postgresRepository) Save(ctx context.Context, ing *Ingredient) error {
	_, err := r.db.Exec(ctx,
		`INSERT INTO ingredients (id, name, type) VALUES ($1, $2, $3)`,
		ing.ID, ing.Name, ing.Type.String(),
	)
	if err != nil {
		return fmt.Errorf("repository: failed to insert ingredient %s: %w", ing.ID, err)
	}

	return nil
}

// MemoryRepository keeps the catalog in a map. It backs tests and is
// interchangeable with the postgres implementation.
type MemoryRepository struct {
	mu          sync.RWMutex
	ingredients map[string]Ingredient
}

func NewMemoryRepository(ingredients ...Ingredient) *MemoryRepository {
	m := &MemoryRepository{ingredients: make(map[string]Ingredient, len(ingredients))}
	for _, ing := range ingredients {
		m.ingredients[ing.ID] = ing
	}
	return m
}

func (m *MemoryRepository) ListAll(_ context.Context) ([]Ingredient, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	ingredients := make([]Ingredient, 0, len(m.ingredients))
	for _, ing := range m.ingredients {
		ingredients = append(ingredients, ing)
	}
	sort.Slice(ingredients, func(i, j int) bool { return ingredients[i].ID < ingredients[j].ID })

	return ingredients, nil
}

func (m *MemoryRepository) FindByID(_ context.Context, id string) (*Ingredient, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	ing, ok := m.ingredients[id]
	if !ok {
		return nil, ErrNotFound
	}

	return &ing, nil
}

func (m *MemoryRepository) Save(_ context.Context, ing *Ingredient) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.ingredients[ing.ID] = *ing

	return nil
}

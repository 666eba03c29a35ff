package cat

import (
	"context"
	"errors"
	"fmt"

	"github.com/gofrs/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog/log"

	"catcloud/internal/ingredient"
)

var ErrNotFound = errors.New("cat not found")

// RecentPageSize is the fixed page size of the public recent-cats listing.
const RecentPageSize = 12

// Repository reads persisted cats and saves standalone ones (cats created
// through the API outside any order).
type Repository interface {
	Recent(ctx context.Context) ([]Cat, error)
	FindByID(ctx context.Context, id uuid.UUID) (*Cat, error)
	Save(ctx context.Context, c *Cat) error
}

type postgresRepository struct {
	db *pgxpool.Pool
}

func NewRepository(db *pgxpool.Pool) Repository {
	return &postgresRepository{db: db}
}

func (r *postgresRepository) Recent(ctx context.Context) ([]Cat, error) {
	rows, err := r.db.Query(ctx,
		`SELECT id, name, created_at FROM cats ORDER BY created_at DESC LIMIT $1`,
		RecentPageSize,
	)
	if err != nil {
		return nil, fmt.Errorf("repository: failed to query recent cats: %w", err)
	}
	defer rows.Close()

	cats := make([]Cat, 0, RecentPageSize)
	for rows.Next() {
		var c Cat
		if err := rows.Scan(&c.ID, &c.Name, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("repository: failed to scan cat: %w", err)
		}
		c.Ingredients = make([]ingredient.Ingredient, 0)
		cats = append(cats, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("repository: error iterating recent cats: %w", err)
	}

	if err := r.attachIngredients(ctx, cats); err != nil {
		return nil, err
	}

	return cats, nil
}

func (r *postgresRepository) FindByID(ctx context.Context, id uuid.UUID) (*Cat, error) {
	var c Cat
	err := r.db.QueryRow(ctx,
		`SELECT id, name, created_at FROM cats WHERE id = $1`, id).
		Scan(&c.ID, &c.Name, &c.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("repository: failed to select cat %s: %w", id, err)
	}

	cats := []Cat{c}
	if err := r.attachIngredients(ctx, cats); err != nil {
		return nil, err
	}

	return &cats[0], nil
}

// Save inserts a cat row and its ingredient association rows in one
// transaction. Ingredient rows themselves are never written here.
func (r *postgresRepository) Save(ctx context.Context, c *Cat) (err error) {
	catID, err := uuid.NewV4()
	if err != nil {
		return fmt.Errorf("repository: failed to generate cat ID: %w", err)
	}

	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("repository: failed to begin transaction: %w", err)
	}
	defer func() {
		if err != nil {
			if rbErr := tx.Rollback(ctx); rbErr != nil {
				log.Error().Err(rbErr).Stringer("cat_id", catID).Msg("repository: failed to rollback cat insert")
			}
			return
		}
		if commitErr := tx.Commit(ctx); commitErr != nil {
			err = fmt.Errorf("repository: failed to commit transaction: %w", commitErr)
		}
	}()

	_, err = tx.Exec(ctx,
		`INSERT INTO cats (id, name, created_at) VALUES ($1, $2, $3)`,
		catID, c.Name, c.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("repository: failed to insert cat: %w", err)
	}

	for i, ing := range c.Ingredients {
		_, err = tx.Exec(ctx,
			`INSERT INTO cat_ingredients (cat_id, cat_key, ingredient_id) VALUES ($1, $2, $3)`,
			catID, i, ing.ID,
		)
		if err != nil {
			return fmt.Errorf("repository: failed to insert cat ingredient %s: %w", ing.ID, err)
		}
	}

	c.ID = catID

	return nil
}

// attachIngredients fills the ingredient lists of cats in place, preserving
// the cat_key ordering of the association rows.
func (r *postgresRepository) attachIngredients(ctx context.Context, cats []Cat) error {
	if len(cats) == 0 {
		return nil
	}

	index := make(map[uuid.UUID]*Cat, len(cats))
	ids := make([]uuid.UUID, 0, len(cats))
	for i := range cats {
		index[cats[i].ID] = &cats[i]
		ids = append(ids, cats[i].ID)
	}

	rows, err := r.db.Query(ctx,
		`SELECT ci.cat_id, i.id, i.name, i.type
		 FROM cat_ingredients ci
		 JOIN ingredients i ON i.id = ci.ingredient_id
		 WHERE ci.cat_id = ANY($1)
		 ORDER BY ci.cat_id, ci.cat_key`,
		ids,
	)
	if err != nil {
		return fmt.Errorf("repository: failed to query cat ingredients: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var catID uuid.UUID
		var ing ingredient.Ingredient
		if err := rows.Scan(&catID, &ing.ID, &ing.Name, &ing.Type); err != nil {
			return fmt.Errorf("repository: failed to scan cat ingredient: %w", err)
		}
		if c, ok := index[catID]; ok {
			c.Ingredients = append(c.Ingredients, ing)
		}
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("repository: error iterating cat ingredients: %w", err)
	}

	return nil
}

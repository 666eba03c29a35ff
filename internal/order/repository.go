package order

import (
	"context"
	"errors"
	"fmt"

	"github.com/gofrs/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog/log"

	"catcloud/internal/cat"
	"catcloud/internal/ingredient"
)

var ErrOrderNotFound = errors.New("order not found")

// Repository is the persistence gateway. Create, Delete and DeleteAll write
// the whole order graph (order row, cat rows, association rows) inside one
// transaction; partial writes never become durable.
type Repository interface {
	Create(ctx context.Context, ord *Order) error
	FindByID(ctx context.Context, id uuid.UUID) (*Order, error)
	Update(ctx context.Context, ord *Order) error
	Delete(ctx context.Context, id uuid.UUID) error
	DeleteAll(ctx context.Context) error
}

type postgresRepository struct {
	db *pgxpool.Pool
}

func NewRepository(db *pgxpool.Pool) Repository {
	return &postgresRepository{db: db}
}

func (r *postgresRepository) Create(ctx context.Context, ord *Order) (err error) {
	orderID, err := uuid.NewV4()
	if err != nil {
		return fmt.Errorf("repository: failed to generate order ID: %w", err)
	}

	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("repository: failed to begin transaction: %w", err)
	}
	defer func() {
		if err != nil {
			log.Warn().Err(err).Stringer("order_id", orderID).Msg("repository: order insert failed, rolling back")
			if rbErr := tx.Rollback(ctx); rbErr != nil {
				log.Error().Err(rbErr).Stringer("order_id", orderID).Msg("repository: failed to rollback transaction")
			}
			return
		}
		if commitErr := tx.Commit(ctx); commitErr != nil {
			err = fmt.Errorf("repository: failed to commit transaction: %w", commitErr)
		}
	}()

	_, err = tx.Exec(ctx,
		`INSERT INTO orders
		 (id, placed_at, delivery_name, delivery_street, delivery_city, delivery_state, delivery_zip,
		  cc_number, cc_expiration, cc_cvv, username)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
		orderID, ord.PlacedAt,
		ord.DeliveryName, ord.DeliveryStreet, ord.DeliveryCity, ord.DeliveryState, ord.DeliveryZip,
		ord.CCNumber, ord.CCExpiration, ord.CCCVV, ord.Username,
	)
	if err != nil {
		return fmt.Errorf("repository: failed to insert order: %w", err)
	}

	for i := range ord.Cats {
		c := &ord.Cats[i]

		catID, genErr := uuid.NewV4()
		if genErr != nil {
			return fmt.Errorf("repository: failed to generate cat ID: %w", genErr)
		}

		_, err = tx.Exec(ctx,
			`INSERT INTO cats (id, name, created_at, cat_order_id, cat_order_key)
			 VALUES ($1, $2, $3, $4, $5)`,
			catID, c.Name, c.CreatedAt, orderID, i,
		)
		if err != nil {
			return fmt.Errorf("repository: failed to insert cat for order %s: %w", orderID, err)
		}

		for j, ing := range c.Ingredients {
			_, err = tx.Exec(ctx,
				`INSERT INTO cat_ingredients (cat_id, cat_key, ingredient_id) VALUES ($1, $2, $3)`,
				catID, j, ing.ID,
			)
			if err != nil {
				return fmt.Errorf("repository: failed to insert cat ingredient %s: %w", ing.ID, err)
			}
		}

		c.ID = catID
	}

	ord.ID = orderID

	return nil
}

func (r *postgresRepository) FindByID(ctx context.Context, id uuid.UUID) (*Order, error) {
	var ord Order
	err := r.db.QueryRow(ctx,
		`SELECT id, placed_at, delivery_name, delivery_street, delivery_city, delivery_state, delivery_zip,
		        cc_number, cc_expiration, cc_cvv, username
		 FROM orders WHERE id = $1`, id).
		Scan(&ord.ID, &ord.PlacedAt,
			&ord.DeliveryName, &ord.DeliveryStreet, &ord.DeliveryCity, &ord.DeliveryState, &ord.DeliveryZip,
			&ord.CCNumber, &ord.CCExpiration, &ord.CCCVV, &ord.Username)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrOrderNotFound
		}
		return nil, fmt.Errorf("repository: failed to select order %s: %w", id, err)
	}

	cats, err := r.catsForOrder(ctx, id)
	if err != nil {
		return nil, err
	}
	ord.Cats = cats

	return &ord, nil
}

func (r *postgresRepository) catsForOrder(ctx context.Context, orderID uuid.UUID) ([]cat.Cat, error) {
	rows, err := r.db.Query(ctx,
		`SELECT id, name, created_at FROM cats WHERE cat_order_id = $1 ORDER BY cat_order_key`,
		orderID,
	)
	if err != nil {
		return nil, fmt.Errorf("repository: failed to query cats for order %s: %w", orderID, err)
	}
	defer rows.Close()

	cats := make([]cat.Cat, 0)
	for rows.Next() {
		var c cat.Cat
		if err := rows.Scan(&c.ID, &c.Name, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("repository: failed to scan cat for order %s: %w", orderID, err)
		}
		cats = append(cats, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("repository: error iterating cats for order %s: %w", orderID, err)
	}

	for i := range cats {
		ingRows, err := r.db.Query(ctx,
			`SELECT i.id, i.name, i.type
			 FROM cat_ingredients ci
			 JOIN ingredients i ON i.id = ci.ingredient_id
			 WHERE ci.cat_id = $1
			 ORDER BY ci.cat_key`,
			cats[i].ID,
		)
		if err != nil {
			return nil, fmt.Errorf("repository: failed to query ingredients for cat %s: %w", cats[i].ID, err)
		}

		ingredients := make([]ingredient.Ingredient, 0)
		for ingRows.Next() {
			var ing ingredient.Ingredient
			if err := ingRows.Scan(&ing.ID, &ing.Name, &ing.Type); err != nil {
				ingRows.Close()
				return nil, fmt.Errorf("repository: failed to scan ingredient for cat %s: %w", cats[i].ID, err)
			}
			ingredients = append(ingredients, ing)
		}
		if err := ingRows.Err(); err != nil {
			ingRows.Close()
			return nil, fmt.Errorf("repository: error iterating ingredients for cat %s: %w", cats[i].ID, err)
		}
		ingRows.Close()

		cats[i].Ingredients = ingredients
	}

	return cats, nil
}

// Update rewrites the delivery and payment fields. Item rows are write-once
// and not touched here.
func (r *postgresRepository) Update(ctx context.Context, ord *Order) error {
	cmdTag, err := r.db.Exec(ctx,
		`UPDATE orders
		 SET delivery_name = $1, delivery_street = $2, delivery_city = $3,
		     delivery_state = $4, delivery_zip = $5,
		     cc_number = $6, cc_expiration = $7, cc_cvv = $8
		 WHERE id = $9`,
		ord.DeliveryName, ord.DeliveryStreet, ord.DeliveryCity, ord.DeliveryState, ord.DeliveryZip,
		ord.CCNumber, ord.CCExpiration, ord.CCCVV, ord.ID,
	)
	if err != nil {
		return fmt.Errorf("repository: failed to update order %s: %w", ord.ID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return ErrOrderNotFound
	}

	return nil
}

// Delete removes the order with its cats and association rows in one
// transaction. The cascade is explicit here, not delegated to the schema.
func (r *postgresRepository) Delete(ctx context.Context, id uuid.UUID) (err error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("repository: failed to begin transaction: %w", err)
	}
	defer func() {
		if err != nil {
			if rbErr := tx.Rollback(ctx); rbErr != nil {
				log.Error().Err(rbErr).Stringer("order_id", id).Msg("repository: failed to rollback order delete")
			}
			return
		}
		if commitErr := tx.Commit(ctx); commitErr != nil {
			err = fmt.Errorf("repository: failed to commit transaction: %w", commitErr)
		}
	}()

	_, err = tx.Exec(ctx,
		`DELETE FROM cat_ingredients WHERE cat_id IN (SELECT id FROM cats WHERE cat_order_id = $1)`, id)
	if err != nil {
		return fmt.Errorf("repository: failed to delete cat ingredients for order %s: %w", id, err)
	}

	_, err = tx.Exec(ctx, `DELETE FROM cats WHERE cat_order_id = $1`, id)
	if err != nil {
		return fmt.Errorf("repository: failed to delete cats for order %s: %w", id, err)
	}

	cmdTag, err := tx.Exec(ctx, `DELETE FROM orders WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("repository: failed to delete order %s: %w", id, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return ErrOrderNotFound
	}

	return nil
}

// DeleteAll removes every order and its dependent rows, all-or-nothing.
// Running it against an empty table is a no-op, not an error.
func (r *postgresRepository) DeleteAll(ctx context.Context) (err error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("repository: failed to begin transaction: %w", err)
	}
	defer func() {
		if err != nil {
			if rbErr := tx.Rollback(ctx); rbErr != nil {
				log.Error().Err(rbErr).Msg("repository: failed to rollback bulk order delete")
			}
			return
		}
		if commitErr := tx.Commit(ctx); commitErr != nil {
			err = fmt.Errorf("repository: failed to commit transaction: %w", commitErr)
		}
	}()

	_, err = tx.Exec(ctx,
		`DELETE FROM cat_ingredients WHERE cat_id IN (SELECT id FROM cats WHERE cat_order_id IS NOT NULL)`)
	if err != nil {
		return fmt.Errorf("repository: failed to delete order cat ingredients: %w", err)
	}

	_, err = tx.Exec(ctx, `DELETE FROM cats WHERE cat_order_id IS NOT NULL`)
	if err != nil {
		return fmt.Errorf("repository: failed to delete order cats: %w", err)
	}

	_, err = tx.Exec(ctx, `DELETE FROM orders`)
	if err != nil {
		return fmt.Errorf("repository: failed to delete orders: %w", err)
	}

	return nil
}

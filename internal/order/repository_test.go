package order_test

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/gofrs/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"catcloud/internal/cat"
	"catcloud/internal/order"
)

// testDB connects to the database named by TEST_DB_DSN. The schema must be
// migrated (migrations/ applied, ingredient seed rows present). Without the
// env var the postgres tests are skipped.
func testDB(t *testing.T) *pgxpool.Pool {
	t.Helper()

	dsn := os.Getenv("TEST_DB_DSN")
	if dsn == "" {
		t.Skip("TEST_DB_DSN not set, skipping postgres repository tests")
	}

	db, err := pgxpool.New(context.Background(), dsn)
	require.NoError(t, err)
	require.NoError(t, db.Ping(context.Background()))
	t.Cleanup(db.Close)

	return db
}

func TestPostgresRepository_OrderLifecycle(t *testing.T) {
	db := testDB(t)
	repo := order.NewRepository(db)
	ctx := context.Background()

	require.NoError(t, repo.DeleteAll(ctx))

	ord := &order.Order{
		PlacedAt:       time.Now().UTC(),
		DeliveryName:   "Jon",
		DeliveryStreet: "1 Comic Ave",
		DeliveryCity:   "Springfield",
		DeliveryState:  "IL",
		DeliveryZip:    "62704",
		CCNumber:       "4111111111111111",
		CCExpiration:   "12/29",
		CCCVV:          "123",
		Cats: []cat.Cat{
			designNamed("Garfield", "FLTO", "GRBF", "CHED"),
			designNamed("Sylvester", "COTO", "SRCR"),
		},
	}
	for i := range ord.Cats {
		ord.Cats[i].CreatedAt = time.Now().UTC()
	}

	require.NoError(t, repo.Create(ctx, ord))
	require.False(t, ord.ID.IsNil())

	found, err := repo.FindByID(ctx, ord.ID)
	require.NoError(t, err)
	assert.Equal(t, "Jon", found.DeliveryName)
	require.Len(t, found.Cats, 2)
	assert.Equal(t, "Garfield", found.Cats[0].Name)
	assert.Equal(t, "Sylvester", found.Cats[1].Name)

	// The association rows come back in submitted order with catalog data
	// attached.
	require.Len(t, found.Cats[0].Ingredients, 3)
	assert.Equal(t, "FLTO", found.Cats[0].Ingredients[0].ID)
	assert.Equal(t, "GRBF", found.Cats[0].Ingredients[1].ID)
	assert.Equal(t, "CHED", found.Cats[0].Ingredients[2].ID)
	assert.NotEmpty(t, found.Cats[0].Ingredients[0].Name)

	found.DeliveryCity = "Muncie"
	require.NoError(t, repo.Update(ctx, found))
	updated, err := repo.FindByID(ctx, ord.ID)
	require.NoError(t, err)
	assert.Equal(t, "Muncie", updated.DeliveryCity)

	require.NoError(t, repo.Delete(ctx, ord.ID))
	assert.ErrorIs(t, repo.Delete(ctx, ord.ID), order.ErrOrderNotFound)

	_, err = repo.FindByID(ctx, ord.ID)
	assert.ErrorIs(t, err, order.ErrOrderNotFound)

	// Bulk delete against an empty table still succeeds.
	require.NoError(t, repo.DeleteAll(ctx))
	require.NoError(t, repo.DeleteAll(ctx))
}

func TestPostgresRepository_UpdateUnknownOrder(t *testing.T) {
	db := testDB(t)
	repo := order.NewRepository(db)

	missing := &order.Order{
		DeliveryName:   "Jon",
		DeliveryStreet: "1 Comic Ave",
		DeliveryCity:   "Springfield",
		DeliveryState:  "IL",
		DeliveryZip:    "62704",
		CCNumber:       "4111111111111111",
		CCExpiration:   "12/29",
		CCCVV:          "123",
	}
	missing.ID, _ = uuid.NewV4()

	assert.ErrorIs(t, repo.Update(context.Background(), missing), order.ErrOrderNotFound)
}

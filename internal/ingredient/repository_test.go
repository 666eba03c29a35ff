package ingredient_test

import (
	"context"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"catcloud/internal/ingredient"
)

func TestMemoryRepository_ListAll_SortedByID(t *testing.T) {
	repo := ingredient.NewMemoryRepository(
		ingredient.Ingredient{ID: "SLSA", Name: "Salsa", Type: ingredient.TypeSauce},
		ingredient.Ingredient{ID: "FLTO", Name: "Flour Tortilla", Type: ingredient.TypeWrap},
		ingredient.Ingredient{ID: "GRBF", Name: "Ground Beef", Type: ingredient.TypeProtein},
	)

	listed, err := repo.ListAll(context.Background())
	require.NoError(t, err)

	want := []ingredient.Ingredient{
		{ID: "FLTO", Name: "Flour Tortilla", Type: ingredient.TypeWrap},
		{ID: "GRBF", Name: "Ground Beef", Type: ingredient.TypeProtein},
		{ID: "SLSA", Name: "Salsa", Type: ingredient.TypeSauce},
	}
	if diff := cmp.Diff(want, listed); diff != "" {
		t.Errorf("ListAll() mismatch (-want +got):\n%s", diff)
	}
}

func TestMemoryRepository_FindByID(t *testing.T) {
	repo := ingredient.NewMemoryRepository(
		ingredient.Ingredient{ID: "CHED", Name: "Cheddar", Type: ingredient.TypeCheese},
	)

	found, err := repo.FindByID(context.Background(), "CHED")
	require.NoError(t, err)
	assert.Equal(t, "Cheddar", found.Name)

	_, err = repo.FindByID(context.Background(), "NOPE")
	assert.ErrorIs(t, err, ingredient.ErrNotFound)
}

func TestMemoryRepository_Save_Upserts(t *testing.T) {
	repo := ingredient.NewMemoryRepository()

	require.NoError(t, repo.Save(context.Background(), &ingredient.Ingredient{
		ID: "QESO", Name: "Queso", Type: ingredient.TypeSauce,
	}))
	require.NoError(t, repo.Save(context.Background(), &ingredient.Ingredient{
		ID: "QESO", Name: "Queso Blanco", Type: ingredient.TypeSauce,
	}))

	found, err := repo.FindByID(context.Background(), "QESO")
	require.NoError(t, err)
	assert.Equal(t, "Queso Blanco", found.Name)
}

func TestType_Valid(t *testing.T) {
	for _, typ := range ingredient.Types() {
		assert.True(t, typ.Valid(), typ)
	}
	assert.False(t, ingredient.Type("MYSTERY").Valid())
}

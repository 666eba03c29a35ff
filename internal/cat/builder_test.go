package cat_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"catcloud/internal/cat"
	"catcloud/internal/ingredient"
)

func testCatalog() *ingredient.MemoryRepository {
	return ingredient.NewMemoryRepository(
		ingredient.Ingredient{ID: "FLTO", Name: "Flour Tortilla", Type: ingredient.TypeWrap},
		ingredient.Ingredient{ID: "COTO", Name: "Corn Tortilla", Type: ingredient.TypeWrap},
		ingredient.Ingredient{ID: "GRBF", Name: "Ground Beef", Type: ingredient.TypeProtein},
		ingredient.Ingredient{ID: "CARN", Name: "Carnitas", Type: ingredient.TypeProtein},
		ingredient.Ingredient{ID: "CHED", Name: "Cheddar", Type: ingredient.TypeCheese},
		ingredient.Ingredient{ID: "SRCR", Name: "Sour Cream", Type: ingredient.TypeSauce},
		ingredient.Ingredient{ID: "SLSA", Name: "Salsa", Type: ingredient.TypeSauce},
	)
}

func TestBuilder_Build(t *testing.T) {
	builder := cat.NewBuilder(testCatalog())

	tests := []struct {
		name          string
		catName       string
		ingredientIDs []string
		wantField     string
	}{
		{
			name:          "success_preserves_order",
			catName:       "Garfield",
			ingredientIDs: []string{"FLTO", "GRBF", "CARN", "SRCR", "SLSA", "CHED"},
		},
		{
			name:          "single_ingredient",
			catName:       "Tom",
			ingredientIDs: []string{"CHED"},
		},
		{
			name:          "unknown_ingredient",
			catName:       "Sylvester",
			ingredientIDs: []string{"FLTO", "XXXX"},
			wantField:     "ingredients",
		},
		{
			name:          "no_ingredients",
			catName:       "Felix",
			ingredientIDs: nil,
			wantField:     "ingredients",
		},
		{
			name:          "short_name",
			catName:       "Jo",
			ingredientIDs: []string{"FLTO"},
			wantField:     "name",
		},
		{
			name:          "blank_name",
			catName:       "   ",
			ingredientIDs: []string{"FLTO"},
			wantField:     "name",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			built, err := builder.Build(context.Background(), tt.catName, tt.ingredientIDs)

			if tt.wantField != "" {
				require.Error(t, err)
				fieldErrs, ok := cat.AsFieldErrors(err)
				require.True(t, ok, "expected field errors, got %v", err)
				assert.Contains(t, fieldErrs, tt.wantField)
				assert.Nil(t, built)
				return
			}

			require.NoError(t, err)
			require.NotNil(t, built)
			assert.Equal(t, tt.catName, built.Name)
			assert.False(t, built.CreatedAt.IsZero())
			assert.True(t, built.ID.IsNil(), "id must stay unset until persistence")

			gotIDs := make([]string, 0, len(built.Ingredients))
			for _, ing := range built.Ingredients {
				gotIDs = append(gotIDs, ing.ID)
			}
			assert.Equal(t, tt.ingredientIDs, gotIDs, "ingredient order must match submission")
		})
	}
}

func TestBuilder_Build_ReportsBothFields(t *testing.T) {
	builder := cat.NewBuilder(testCatalog())

	_, err := builder.Build(context.Background(), "X", nil)
	fieldErrs, ok := cat.AsFieldErrors(err)
	require.True(t, ok)
	assert.Contains(t, fieldErrs, "name")
	assert.Contains(t, fieldErrs, "ingredients")
}

func TestBuilder_Build_UnknownIDNamesOffender(t *testing.T) {
	builder := cat.NewBuilder(testCatalog())

	_, err := builder.Build(context.Background(), "Sylvester", []string{"NOPE"})
	fieldErrs, ok := cat.AsFieldErrors(err)
	require.True(t, ok)
	assert.Contains(t, fieldErrs["ingredients"], "NOPE")
}

package cat

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"catcloud/internal/ingredient"
)

// MinNameLen is the minimum length of a cat name.
const MinNameLen = 3

// FieldErrors carries validation failures keyed by field name. It is returned
// to the caller for re-rendering, never treated as fatal.
type FieldErrors map[string]string

func (fe FieldErrors) Error() string {
	fields := make([]string, 0, len(fe))
	for field := range fe {
		fields = append(fields, field)
	}
	sort.Strings(fields)

	parts := make([]string, 0, len(fe))
	for _, field := range fields {
		parts = append(parts, fmt.Sprintf("%s: %s", field, fe[field]))
	}

	return "validation failed: " + strings.Join(parts, "; ")
}

// AsFieldErrors unwraps err into FieldErrors if it is one.
func AsFieldErrors(err error) (FieldErrors, bool) {
	var fe FieldErrors
	if errors.As(err, &fe) {
		return fe, true
	}
	return nil, false
}

// Resolver looks up catalog entries by their short code.
type Resolver interface {
	FindByID(ctx context.Context, id string) (*ingredient.Ingredient, error)
}

// Builder validates user input and constructs cats. It is pure construction:
// the caller decides whether the result goes into the in-flight order.
type Builder struct {
	catalog Resolver
}

func NewBuilder(catalog Resolver) *Builder {
	return &Builder{catalog: catalog}
}

// Build resolves ingredientIDs against the catalog and returns a cat with
// CreatedAt set and ID unset. The resolved ingredient list preserves the
// submitted order. On invalid input it returns FieldErrors and no cat.
func (b *Builder) Build(ctx context.Context, name string, ingredientIDs []string) (*Cat, error) {
	fieldErrs := FieldErrors{}

	name = strings.TrimSpace(name)
	if len(name) < MinNameLen {
		fieldErrs["name"] = fmt.Sprintf("Name must be at least %d characters long", MinNameLen)
	}

	resolved := make([]ingredient.Ingredient, 0, len(ingredientIDs))
	for _, id := range ingredientIDs {
		ing, err := b.catalog.FindByID(ctx, id)
		if err != nil {
			if errors.Is(err, ingredient.ErrNotFound) {
				fieldErrs["ingredients"] = fmt.Sprintf("Unknown ingredient %q", id)
				continue
			}
			return nil, fmt.Errorf("builder: failed to resolve ingredient %s: %w", id, err)
		}
		resolved = append(resolved, *ing)
	}

	if _, bad := fieldErrs["ingredients"]; !bad && len(resolved) == 0 {
		fieldErrs["ingredients"] = "You must choose at least 1 ingredient"
	}

	if len(fieldErrs) > 0 {
		log.Debug().Str("name", name).Interface("errors", fieldErrs).Msg("builder: design rejected")
		return nil, fieldErrs
	}

	return &Cat{
		Name:        name,
		CreatedAt:   time.Now().UTC(),
		Ingredients: resolved,
	}, nil
}

// Package cat holds the composite item customers assemble from catalog
// ingredients before adding it to an order.
package cat

import (
	"time"

	"github.com/gofrs/uuid"

	"catcloud/internal/ingredient"
)

// Cat is a named assembly of one or more ingredients. ID stays nil until the
// cat is persisted as part of an order (or through the standalone API).
type Cat struct {
	ID          uuid.UUID               `json:"id"`
	Name        string                  `json:"name"`
	CreatedAt   time.Time               `json:"created_at"`
	Ingredients []ingredient.Ingredient `json:"ingredients"`
}

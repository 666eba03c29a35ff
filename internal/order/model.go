package order

import (
	"time"

	"github.com/gofrs/uuid"

	"catcloud/internal/cat"
)

// Order is the unit of commitment: delivery and payment details plus the cats
// accumulated in the session. ID and PlacedAt are assigned at submit time.
// Username is set when an authenticated principal owns the order.
type Order struct {
	ID       uuid.UUID `json:"id"`
	PlacedAt time.Time `json:"placed_at"`

	DeliveryName   string `json:"delivery_name" validate:"required"`
	DeliveryStreet string `json:"delivery_street" validate:"required"`
	DeliveryCity   string `json:"delivery_city" validate:"required"`
	DeliveryState  string `json:"delivery_state" validate:"required"`
	DeliveryZip    string `json:"delivery_zip" validate:"required"`

	CCNumber     string `json:"cc_number" validate:"required,credit_card"`
	CCExpiration string `json:"cc_expiration" validate:"required,ccexp"`
	CCCVV        string `json:"cc_cvv" validate:"required,len=3,number"`

	Cats     []cat.Cat `json:"cats"`
	Username *string   `json:"username,omitempty"`
}

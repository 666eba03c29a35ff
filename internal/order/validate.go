package order

import (
	"regexp"

	"github.com/go-playground/validator/v10"
)

// ccExpirationPattern accepts MM/YY with a month of 01-12. A year starting
// with 0 is rejected, matching the historical rule.
var ccExpirationPattern = regexp.MustCompile(`^(0[1-9]|1[0-2])/([1-9][0-9])$`)

func newValidator() *validator.Validate {
	v := validator.New()

	// credit_card (Luhn) ships with the library; only the expiration format
	// needs a custom tag.
	_ = v.RegisterValidation("ccexp", func(fl validator.FieldLevel) bool {
		return ccExpirationPattern.MatchString(fl.Field().String())
	})

	return v
}

// fieldMessages maps struct field names to the messages surfaced on
// validation failure.
var fieldMessages = map[string]string{
	"DeliveryName":   "Delivery name is required",
	"DeliveryStreet": "Street is required",
	"DeliveryCity":   "City is required",
	"DeliveryState":  "State is required",
	"DeliveryZip":    "Zip code is required",
	"CCNumber":       "Not a valid credit card number",
	"CCExpiration":   "Must be formatted MM/YY",
	"CCCVV":          "Invalid CVV",
}

// MessageFor returns the user-facing message for a failed field, falling back
// to the validator's own description for unmapped fields.
func MessageFor(fe validator.FieldError) string {
	if msg, ok := fieldMessages[fe.StructField()]; ok {
		return msg
	}
	return fe.Error()
}

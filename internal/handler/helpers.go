package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog/log"

	"catcloud/internal/cart"
	"catcloud/internal/cat"
	"catcloud/internal/ingredient"
	"catcloud/internal/order"
	"catcloud/internal/user"
)

// ValidationErrorResponse is the body returned for field-level validation
// failures.
type ValidationErrorResponse struct {
	Error   string            `json:"error"`
	Details map[string]string `json:"details"`
}

func respondWithError(w http.ResponseWriter, code int, message string) {
	respondWithJSON(w, code, map[string]string{"error": message})
}

func respondWithJSON(w http.ResponseWriter, code int, payload interface{}) {
	response, err := json.Marshal(payload)
	if err != nil {
		log.Error().Err(err).Msg("Failed to marshal JSON response")
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"error":"Failed to marshal JSON response"}`))
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if _, err := w.Write(response); err != nil {
		log.Error().Err(err).Msg("Failed to write JSON response")
	}
}

func formatValidationErrors(validationErrors validator.ValidationErrors) map[string]string {
	details := make(map[string]string, len(validationErrors))
	for _, fe := range validationErrors {
		details[fe.StructField()] = order.MessageFor(fe)
	}
	return details
}

// respondWithValidationErrors renders either validator errors or builder
// field errors as a 400 with per-field details. It reports whether err was a
// validation failure.
func respondWithValidationErrors(w http.ResponseWriter, err error) bool {
	var validationErrors validator.ValidationErrors
	if errors.As(err, &validationErrors) {
		respondWithJSON(w, http.StatusBadRequest, ValidationErrorResponse{
			Error:   "Validation failed",
			Details: formatValidationErrors(validationErrors),
		})
		return true
	}

	if fieldErrs, ok := cat.AsFieldErrors(err); ok {
		respondWithJSON(w, http.StatusBadRequest, ValidationErrorResponse{
			Error:   "Validation failed",
			Details: fieldErrs,
		})
		return true
	}

	return false
}

func mapErrorToStatusCode(err error) int {
	switch {
	case errors.Is(err, order.ErrOrderNotFound),
		errors.Is(err, cat.ErrNotFound),
		errors.Is(err, ingredient.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, user.ErrInvalidCredentials),
		errors.Is(err, user.ErrNotAuthenticated):
		return http.StatusUnauthorized
	case errors.Is(err, user.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, user.ErrUsernameTaken):
		return http.StatusConflict
	case errors.Is(err, cart.ErrEmptyCart),
		errors.Is(err, order.ErrIDMismatch):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

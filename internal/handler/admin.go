package handler

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"catcloud/internal/order"
	"catcloud/internal/user"
)

// AdminHandler serves the privileged operations. The routes are mounted
// behind the admin path guard; the service performs its own role re-check on
// top of that.
type AdminHandler struct {
	orders order.Service
}

func NewAdminHandler(orders order.Service) *AdminHandler {
	return &AdminHandler{orders: orders}
}

func (h *AdminHandler) RegisterRoutes(router chi.Router) {
	router.Get("/admin", h.handleAdminHome)
	router.Post("/admin/deleteAllOrders", h.handleDeleteAllOrders)
}

func (h *AdminHandler) handleAdminHome(w http.ResponseWriter, r *http.Request) {
	principal := PrincipalFrom(r.Context())
	respondWithJSON(w, http.StatusOK, map[string]string{
		"status":   "ok",
		"username": principal.Username,
	})
}

func (h *AdminHandler) handleDeleteAllOrders(w http.ResponseWriter, r *http.Request) {
	err := h.orders.DeleteAllOrders(r.Context(), PrincipalFrom(r.Context()))
	if err != nil {
		switch {
		case errors.Is(err, user.ErrNotAuthenticated):
			respondWithError(w, http.StatusUnauthorized, "Authentication required")
		case errors.Is(err, user.ErrForbidden):
			respondWithError(w, http.StatusForbidden, "Forbidden")
		default:
			log.Error().Err(err).Msg("Failed to delete all orders")
			respondWithError(w, mapErrorToStatusCode(err), "Failed to delete all orders")
		}
		return
	}

	http.Redirect(w, r, "/admin", http.StatusSeeOther)
}

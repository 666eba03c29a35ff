package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/gofrs/uuid"
	"github.com/rs/zerolog/log"

	"catcloud/internal/cart"
	"catcloud/internal/order"
)

// OrderHandler serves the in-flight order view, the submit endpoint and the
// by-id order API.
type OrderHandler struct {
	svc   order.Service
	carts *cart.Store
}

func NewOrderHandler(svc order.Service, carts *cart.Store) *OrderHandler {
	return &OrderHandler{svc: svc, carts: carts}
}

func (h *OrderHandler) RegisterRoutes(router chi.Router) {
	router.Get("/orders/current", h.handleCurrentOrder)
	router.Post("/orders", h.handleSubmitOrder)
	router.Put("/orders/{id}", h.handleReplaceOrder)
	router.Patch("/orders/{id}", h.handlePatchOrder)
	router.Delete("/orders/{id}", h.handleDeleteOrder)
}

func (h *OrderHandler) handleCurrentOrder(w http.ResponseWriter, r *http.Request) {
	s := SessionFrom(r.Context())
	if s == nil {
		respondWithError(w, http.StatusInternalServerError, "No session established")
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"cats": h.carts.Items(s.ID),
	})
}

func (h *OrderHandler) handleSubmitOrder(w http.ResponseWriter, r *http.Request) {
	var input order.SubmitInput

	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&input); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}

	s := SessionFrom(r.Context())
	if s == nil {
		respondWithError(w, http.StatusInternalServerError, "No session established")
		return
	}

	ord, err := h.svc.Submit(r.Context(), s.ID, input, PrincipalFrom(r.Context()))
	if err != nil {
		if respondWithValidationErrors(w, err) {
			return
		}
		if errors.Is(err, cart.ErrEmptyCart) {
			respondWithError(w, http.StatusConflict, "No designs in the current order")
			return
		}
		log.Error().Err(err).Msg("Failed to submit order")
		respondWithError(w, mapErrorToStatusCode(err), "Failed to submit order")
		return
	}

	respondWithJSON(w, http.StatusCreated, ord)
}

func orderIDParam(r *http.Request) (uuid.UUID, error) {
	return uuid.FromString(chi.URLParam(r, "id"))
}

func (h *OrderHandler) handleReplaceOrder(w http.ResponseWriter, r *http.Request) {
	id, err := orderIDParam(r)
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid id parameter")
		return
	}

	var ord order.Order
	if err := json.NewDecoder(r.Body).Decode(&ord); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}

	updated, err := h.svc.Replace(r.Context(), id, &ord)
	if err != nil {
		h.respondOrderError(w, err, "Failed to replace order")
		return
	}

	respondWithJSON(w, http.StatusOK, updated)
}

func (h *OrderHandler) handlePatchOrder(w http.ResponseWriter, r *http.Request) {
	id, err := orderIDParam(r)
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid id parameter")
		return
	}

	var patch order.Order
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}

	updated, err := h.svc.Patch(r.Context(), id, &patch)
	if err != nil {
		h.respondOrderError(w, err, "Failed to patch order")
		return
	}

	respondWithJSON(w, http.StatusOK, updated)
}

func (h *OrderHandler) handleDeleteOrder(w http.ResponseWriter, r *http.Request) {
	id, err := orderIDParam(r)
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid id parameter")
		return
	}

	if err := h.svc.Delete(r.Context(), id); err != nil {
		h.respondOrderError(w, err, "Failed to delete order")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *OrderHandler) respondOrderError(w http.ResponseWriter, err error, fallback string) {
	if respondWithValidationErrors(w, err) {
		return
	}

	switch {
	case errors.Is(err, order.ErrOrderNotFound):
		respondWithError(w, http.StatusNotFound, "Order not found")
	case errors.Is(err, order.ErrIDMismatch):
		respondWithError(w, http.StatusConflict, "Order id does not match the id in the path")
	default:
		log.Error().Err(err).Msg(fallback)
		respondWithError(w, mapErrorToStatusCode(err), fallback)
	}
}

package handler

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"catcloud/internal/cart"
	"catcloud/internal/cat"
	"catcloud/internal/ingredient"
)

type DesignRequest struct {
	Name        string   `json:"name"`
	Ingredients []string `json:"ingredients"`
}

// DesignHandler serves the cat design flow: the grouped catalog and the
// submission that appends a built cat to the session's in-flight order.
type DesignHandler struct {
	ingredients ingredient.Repository
	builder     *cat.Builder
	carts       *cart.Store
}

func NewDesignHandler(ingredients ingredient.Repository, builder *cat.Builder, carts *cart.Store) *DesignHandler {
	return &DesignHandler{
		ingredients: ingredients,
		builder:     builder,
		carts:       carts,
	}
}

func (h *DesignHandler) RegisterRoutes(router chi.Router) {
	router.Get("/design", h.handleShowDesign)
	router.Post("/design", h.handleProcessDesign)
}

func (h *DesignHandler) handleShowDesign(w http.ResponseWriter, r *http.Request) {
	all, err := h.ingredients.ListAll(r.Context())
	if err != nil {
		log.Error().Err(err).Msg("Failed to list ingredients")
		respondWithError(w, http.StatusInternalServerError, "Failed to list ingredients")
		return
	}

	grouped := make(map[string][]ingredient.Ingredient, len(ingredient.Types()))
	for _, t := range ingredient.Types() {
		grouped[t.String()] = []ingredient.Ingredient{}
	}
	for _, ing := range all {
		key := ing.Type.String()
		grouped[key] = append(grouped[key], ing)
	}

	respondWithJSON(w, http.StatusOK, grouped)
}

func (h *DesignHandler) handleProcessDesign(w http.ResponseWriter, r *http.Request) {
	var req DesignRequest

	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}

	design, err := h.builder.Build(r.Context(), req.Name, req.Ingredients)
	if err != nil {
		if respondWithValidationErrors(w, err) {
			return
		}
		log.Error().Err(err).Msg("Failed to build design")
		respondWithError(w, http.StatusInternalServerError, "Failed to build design")
		return
	}

	s := SessionFrom(r.Context())
	if s == nil {
		respondWithError(w, http.StatusInternalServerError, "No session established")
		return
	}
	h.carts.Add(s.ID, *design)

	http.Redirect(w, r, "/orders/current", http.StatusSeeOther)
}

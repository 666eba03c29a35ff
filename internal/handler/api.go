package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/gofrs/uuid"
	"github.com/rs/zerolog/log"

	"catcloud/internal/cat"
	"catcloud/internal/ingredient"
)

// CatAPIHandler is the public read surface over persisted cats plus the
// standalone create endpoint.
type CatAPIHandler struct {
	cats    cat.Repository
	builder *cat.Builder
}

func NewCatAPIHandler(cats cat.Repository, builder *cat.Builder) *CatAPIHandler {
	return &CatAPIHandler{cats: cats, builder: builder}
}

func (h *CatAPIHandler) RegisterRoutes(router chi.Router) {
	router.Get("/api/cats", h.handleRecentCats)
	router.Get("/api/cats/{id}", h.handleCatByID)
	router.Post("/api/cats", h.handleCreateCat)
}

// handleRecentCats lists the newest cats, newest first, with a fixed page
// size. The recent query parameter is accepted for compatibility; the
// listing is the only read this endpoint offers.
func (h *CatAPIHandler) handleRecentCats(w http.ResponseWriter, r *http.Request) {
	cats, err := h.cats.Recent(r.Context())
	if err != nil {
		log.Error().Err(err).Msg("Failed to list recent cats")
		respondWithError(w, http.StatusInternalServerError, "Failed to list recent cats")
		return
	}

	respondWithJSON(w, http.StatusOK, cats)
}

func (h *CatAPIHandler) handleCatByID(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.FromString(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid id parameter")
		return
	}

	found, err := h.cats.FindByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, cat.ErrNotFound) {
			respondWithError(w, http.StatusNotFound, "Cat not found")
			return
		}
		log.Error().Err(err).Msg("Failed to get cat by id")
		respondWithError(w, http.StatusInternalServerError, "Failed to get cat by id")
		return
	}

	respondWithJSON(w, http.StatusOK, found)
}

func (h *CatAPIHandler) handleCreateCat(w http.ResponseWriter, r *http.Request) {
	var req DesignRequest

	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}

	built, err := h.builder.Build(r.Context(), req.Name, req.Ingredients)
	if err != nil {
		if respondWithValidationErrors(w, err) {
			return
		}
		log.Error().Err(err).Msg("Failed to build cat")
		respondWithError(w, http.StatusInternalServerError, "Failed to build cat")
		return
	}

	if err := h.cats.Save(r.Context(), built); err != nil {
		log.Error().Err(err).Msg("Failed to save cat")
		respondWithError(w, http.StatusInternalServerError, "Failed to save cat")
		return
	}

	respondWithJSON(w, http.StatusCreated, built)
}

// IngredientAPIHandler serves the catalog. Creation is reachable only through
// the admin-gated route.
type IngredientAPIHandler struct {
	ingredients ingredient.Repository
}

func NewIngredientAPIHandler(ingredients ingredient.Repository) *IngredientAPIHandler {
	return &IngredientAPIHandler{ingredients: ingredients}
}

func (h *IngredientAPIHandler) RegisterRoutes(router chi.Router) {
	router.Get("/api/ingredients", h.handleListIngredients)
}

func (h *IngredientAPIHandler) RegisterAdminRoutes(router chi.Router) {
	router.Post("/api/ingredients", h.handleCreateIngredient)
}

func (h *IngredientAPIHandler) handleListIngredients(w http.ResponseWriter, r *http.Request) {
	ingredients, err := h.ingredients.ListAll(r.Context())
	if err != nil {
		log.Error().Err(err).Msg("Failed to list ingredients")
		respondWithError(w, http.StatusInternalServerError, "Failed to list ingredients")
		return
	}

	respondWithJSON(w, http.StatusOK, ingredients)
}

func (h *IngredientAPIHandler) handleCreateIngredient(w http.ResponseWriter, r *http.Request) {
	var ing ingredient.Ingredient

	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&ing); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}

	if ing.ID == "" || ing.Name == "" || !ing.Type.Valid() {
		respondWithError(w, http.StatusBadRequest, "Ingredient id, name and a valid type are required")
		return
	}

	if err := h.ingredients.Save(r.Context(), &ing); err != nil {
		log.Error().Err(err).Msg("Failed to save ingredient")
		respondWithError(w, http.StatusInternalServerError, "Failed to save ingredient")
		return
	}

	respondWithJSON(w, http.StatusCreated, ing)
}

package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"catcloud/internal/cart"
	"catcloud/internal/cat"
	"catcloud/internal/ingredient"
	"catcloud/internal/order"
	"catcloud/internal/session"
	"catcloud/internal/user"
)

// Deps bundles everything the router needs.
type Deps struct {
	Sessions    *session.Manager
	Carts       *cart.Store
	Builder     *cat.Builder
	Ingredients ingredient.Repository
	Cats        cat.Repository
	Orders      order.Service
	Users       user.Service
	UserFinder  user.Finder
}

// NewRouter wires the chi router: public surface, USER-gated design/order
// flow, ADMIN-gated operations.
func NewRouter(deps Deps) chi.Router {
	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)
	router.Use(WithSession(deps.Sessions, deps.UserFinder))

	router.Get("/", func(w http.ResponseWriter, r *http.Request) {
		respondWithJSON(w, http.StatusOK, map[string]string{"service": "catcloud"})
	})
	router.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	})

	NewAuthHandler(deps.Users, deps.Sessions).RegisterRoutes(router)

	catAPI := NewCatAPIHandler(deps.Cats, deps.Builder)
	catAPI.RegisterRoutes(router)

	ingredientAPI := NewIngredientAPIHandler(deps.Ingredients)
	ingredientAPI.RegisterRoutes(router)

	router.Group(func(r chi.Router) {
		r.Use(RequireRole(user.RoleUser))
		NewDesignHandler(deps.Ingredients, deps.Builder, deps.Carts).RegisterRoutes(r)
		NewOrderHandler(deps.Orders, deps.Carts).RegisterRoutes(r)
	})

	router.Group(func(r chi.Router) {
		r.Use(RequireRole(user.RoleAdmin))
		NewAdminHandler(deps.Orders).RegisterRoutes(r)
		ingredientAPI.RegisterAdminRoutes(r)
	})

	return router
}

package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"catcloud/internal/cart"
	"catcloud/internal/cat"
	"catcloud/internal/config"
	"catcloud/internal/db"
	"catcloud/internal/handler"
	"catcloud/internal/ingredient"
	"catcloud/internal/order"
	"catcloud/internal/session"
	"catcloud/internal/user"
)

func main() {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
	log.Logger = log.With().Str("service", "catcloud").Logger()

	log.Info().Msg("catcloud starting...")

	cfg, err := config.NewConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load config")
	}

	database, err := db.New(cfg.Postgres)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to database")
	}
	defer database.Close()

	ingredientRepo := ingredient.NewRepository(database.Pool)
	catRepo := cat.NewRepository(database.Pool)
	orderRepo := order.NewRepository(database.Pool)
	userRepo := user.NewRepository(database.Pool)

	sessions := session.NewManager(cfg.App.SessionTTL)
	carts := cart.NewStore()
	builder := cat.NewBuilder(ingredientRepo)
	orderSvc := order.NewService(orderRepo, carts)
	userSvc := user.NewService(userRepo)

	router := handler.NewRouter(handler.Deps{
		Sessions:    sessions,
		Carts:       carts,
		Builder:     builder,
		Ingredients: ingredientRepo,
		Cats:        catRepo,
		Orders:      orderSvc,
		Users:       userSvc,
		UserFinder:  userRepo,
	})

	server := &http.Server{
		Addr:         ":" + cfg.App.Port,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		log.Info().Str("port", cfg.App.Port).Msg("Starting HTTP server")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("Server failed")
		}
	}()

	stopCh := make(chan os.Signal, 1)
	signal.Notify(stopCh, syscall.SIGINT, syscall.SIGTERM)
	<-stopCh

	log.Info().Msg("Shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatal().Err(err).Msg("Shutdown failed")
	}

	log.Info().Msg("catcloud stopped gracefully")
}

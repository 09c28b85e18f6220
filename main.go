package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/isdelr/finance-tracker-be/internal/api"
	"github.com/isdelr/finance-tracker-be/internal/auth"
	"github.com/isdelr/finance-tracker-be/internal/config"
	"github.com/isdelr/finance-tracker-be/internal/database"
	"github.com/isdelr/finance-tracker-be/internal/events"
	"github.com/isdelr/finance-tracker-be/internal/logger"
	"github.com/isdelr/finance-tracker-be/internal/messaging"
	"github.com/isdelr/finance-tracker-be/internal/monitoring"
	"github.com/isdelr/finance-tracker-be/internal/services"
	"github.com/isdelr/finance-tracker-be/internal/websocket"
	"github.com/rs/zerolog/log"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}
	logger.Init(cfg.LogLevel, cfg.IsProduction())

	if err := cfg.Validate(); err != nil {
		log.Fatal().Err(err).Msg("Invalid configuration")
	}

	// Set up database
	if err := database.Migrate(cfg.DatabasePath); err != nil {
		log.Fatal().Err(err).Msg("Failed to apply database migrations")
	}
	db, err := database.New(cfg.DatabasePath)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize database")
	}
	defer db.Close()

	// Set up WebSocket Hub
	hub := websocket.NewHub()
	go hub.Run()

	// Event sinks: persisted log, live feed and, when configured, the broker
	eventService := services.NewEventService(db)
	sinks := events.Multi{eventService, hub}

	var broker *messaging.Publisher
	if cfg.AMQPURL != "" {
		broker, err = messaging.NewPublisher(cfg.AMQPURL, cfg.AMQPExchange)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to connect to message broker")
		}
		sinks = append(sinks, broker)
		log.Info().Str("exchange", cfg.AMQPExchange).Msg("Publishing events to message broker")
	}

	// Set up services
	userService := services.NewUserService(db)
	txService := services.NewTransactionService(db, userService, sinks)
	tokens := auth.NewTokenManager(cfg.JWTSecret, auth.DefaultTTL)

	// Set up and run the monthly digest
	var digest *monitoring.DigestScheduler
	if cfg.DigestSchedule != "" {
		digest, err = monitoring.NewDigestScheduler(userService, txService, sinks, cfg.DigestSchedule)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to create digest scheduler")
		}
		digest.Run()
	}

	// Set up router
	router := api.NewRouter(api.Options{
		AllowedOrigins: cfg.CORSAllowedOrigins,
		AuthRequired:   cfg.AuthRequired,
		SecureCookies:  cfg.IsProduction(),
	}, hub, tokens, db, userService, txService, eventService)

	// Set up server
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.ServerPort),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Graceful shutdown
	go func() {
		log.Info().Int("port", cfg.ServerPort).Str("env", cfg.AppEnv).Msg("Server starting")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("ListenAndServe failed")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("Shutting down server...")

	if digest != nil {
		digest.Stop()
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}

	hub.Stop()
	if broker != nil {
		if err := broker.Close(); err != nil {
			log.Warn().Err(err).Msg("Failed to close message broker connection")
		}
	}

	log.Info().Msg("Server exiting")
}

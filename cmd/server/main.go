package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gdg-garage/hotel-booking-api/internal/auth"
	"github.com/gdg-garage/hotel-booking-api/internal/booking"
	"github.com/gdg-garage/hotel-booking-api/internal/config"
	"github.com/gdg-garage/hotel-booking-api/internal/database"
	"github.com/gdg-garage/hotel-booking-api/internal/handlers"
	"github.com/gdg-garage/hotel-booking-api/internal/lib/logger/sl"
	"github.com/gdg-garage/hotel-booking-api/internal/metrics"
	"github.com/gdg-garage/hotel-booking-api/internal/notifier"
	"github.com/gdg-garage/hotel-booking-api/internal/storage"
	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

func main() {
	// Load Configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		slog.Error("failed to load config", sl.Err(err))
		os.Exit(1)
	}

	logger := setupLogger(cfg.Env)
	logger.Info("starting application", slog.String("env", cfg.Env))

	// Connect to Database
	db, err := database.Connect(cfg)
	if err != nil {
		logger.Error("failed to connect to database", sl.Err(err))
		os.Exit(1)
	}
	store := storage.New(db)

	notifiers := notifier.Multi{}
	if cfg.DiscordBotToken != "" {
		discordNotifier, err := notifier.NewDiscordBot(cfg.DiscordBotToken, cfg.DiscordNotificationsChannelID)
		if err != nil {
			logger.Warn("discord notifier not initialized", sl.Err(err))
		} else {
			notifiers = append(notifiers, discordNotifier)
		}
	}
	if cfg.RabbitMQURL != "" {
		publisher, err := notifier.NewAMQPPublisher(cfg.RabbitMQURL)
		if err != nil {
			logger.Warn("rabbitmq publisher not initialized", sl.Err(err))
		} else {
			defer publisher.Close()
			notifiers = append(notifiers, publisher)
		}
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	bookingService := booking.New(logger, store, store, notifiers, metrics.New(registry), booking.Options{
		RequirePayment: cfg.RequirePayment,
		CapacityGuard:  booking.CapacityGuard(cfg.CapacityGuard),
	})

	authHandler := auth.NewAuthHandler(cfg, store, logger)
	bookingHandler := handlers.NewBookingHandler(bookingService, logger)

	// Initialize Router
	r := chi.NewRouter()
	handlers.RegisterRoutes(r, registry, authHandler, bookingHandler)

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%s", cfg.Port),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("starting server", slog.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("failed to start server", sl.Err(err))
			os.Exit(1)
		}
	}()

	stopChan := make(chan os.Signal, 1)
	signal.Notify(stopChan, syscall.SIGTERM, syscall.SIGINT)

	sign := <-stopChan
	logger.Info("stopping application", slog.String("signal", sign.String()))

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("failed to stop server", sl.Err(err))
		return
	}
	logger.Info("application stopped")
}

func setupLogger(env string) *slog.Logger {
	var logger *slog.Logger

	switch env {
	case config.EnvDev:
		logger = slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))
	case config.EnvProd:
		logger = slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	default:
		logger = slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))
	}

	return logger
}

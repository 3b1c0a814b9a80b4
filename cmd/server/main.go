package main

import (
	"context"
	"database/sql"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/lib/pq"

	httpapi "ridepool-backend/internal/api/http"
	"ridepool-backend/internal/config"
	"ridepool-backend/internal/jobs"
	"ridepool-backend/internal/logger"
	"ridepool-backend/internal/notify"
	"ridepool-backend/internal/repository/postgres"
	"ridepool-backend/internal/scheduler"
	"ridepool-backend/internal/security"
	"ridepool-backend/internal/service"
)

func main() {
	configPath := flag.String("config", "config/config.dev.yaml", "Path to configuration file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logger.Initialize(cfg.Log.Level, cfg.Log.Format)
	logger.Info("Starting Ridepool Backend...", "log_level", cfg.Log.Level, "log_format", cfg.Log.Format)
	logger.Info("Server configuration", "address", cfg.GetServerAddress())
	logger.Info("Database configuration", "host", cfg.Database.Host, "port", cfg.Database.Port, "database", cfg.Database.Database, "user", cfg.Database.User)

	db, err := sql.Open("postgres", cfg.GetDatabaseConnectionString())
	if err != nil {
		logger.Error("Failed to connect to database", "error", err)
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	if err := db.Ping(); err != nil {
		logger.Error("Failed to ping database", "error", err)
		log.Fatalf("Failed to ping database: %v", err)
	}
	logger.Info("Database connection established")

	if cfg.Database.MigrationsDir != "" {
		if err := postgres.Migrate(cfg.Database.MigrationsDir, cfg.GetDatabaseConnectionString()); err != nil {
			logger.Error("Failed to apply migrations", "error", err)
			log.Fatalf("Failed to apply migrations: %v", err)
		}
		logger.Info("Database schema up to date")
	}

	store := postgres.NewStore(db)

	tokenManager := security.NewTokenManager(cfg.JWT.Secret)

	profiles := service.NewProfileProvider(store.ProfileRepository)

	var notifier service.Notifier
	switch cfg.Notify.Driver {
	case "sendgrid":
		notifier = notify.NewSendGridNotifier(cfg.Notify.SendGridAPIKey, cfg.Notify.FromEmail, cfg.Notify.FromName, profiles)
		logger.Info("Using SendGrid notifier", "from", cfg.Notify.FromEmail)
	default:
		notifier = notify.NewLogNotifier()
		logger.Info("Using log notifier")
	}

	tripSvc := service.NewTripService(
		store.TripRepository,
		store.BookingRepository,
		store.LedgerRepository,
		store.RatingRepository,
		profiles,
		notifier,
		cfg.Policy,
	)
	bookingSvc := service.NewBookingService(
		store.BookingRepository,
		store.TripRepository,
		store.LedgerRepository,
		notifier,
		cfg.Policy,
	)
	ledgerSvc := service.NewLedgerService(store.LedgerRepository)
	messageSvc := service.NewMessageService(store.MessageRepository, store.TripRepository, notifier)
	ratingSvc := service.NewRatingService(store.RatingRepository, store.TripRepository)

	router := httpapi.NewRouter(httpapi.Handlers{
		Trips:    httpapi.NewTripHandler(tripSvc),
		Bookings: httpapi.NewBookingHandler(bookingSvc),
		Ledger:   httpapi.NewLedgerHandler(ledgerSvc),
		Messages: httpapi.NewMessageHandler(messageSvc),
		Ratings:  httpapi.NewRatingHandler(ratingSvc),
	}, tokenManager)

	jobRunner := jobs.NewJobRunner(db, store, cfg)
	sched := scheduler.NewScheduler(jobRunner)
	sched.Start()
	if !sched.IsRunning() {
		logger.Error("No cron jobs registered, check scheduler config")
		os.Exit(1)
	}

	srv := &http.Server{
		Addr:         cfg.GetServerAddress(),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
	}

	go func() {
		logger.Info("HTTP server listening", "address", cfg.GetServerAddress())
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("HTTP server error", "error", err)
			log.Fatalf("Failed to serve: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down...")
	sched.Stop()

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("Forced shutdown", "error", err)
	}
	logger.Info("Server stopped")
}

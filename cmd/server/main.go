package main

import (
	"database/sql"
	"flag"
	"log"
	"net/http"

	_ "github.com/lib/pq"

	httpapi "carfleet-backend/internal/api/http"
	"carfleet-backend/internal/config"
	"carfleet-backend/internal/logger"
	"carfleet-backend/internal/repository/postgres"
	"carfleet-backend/internal/security"
	"carfleet-backend/internal/service"
)

func main() {
	// Parse command-line flags
	configPath := flag.String("config", "config/config.dev.yaml", "Path to configuration file")
	flag.Parse()

	// Load configuration
	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize logger
	logger.Initialize(cfg.Log.Level, cfg.Log.Format)
	logger.Info("Starting CarFleet Backend...", "log_level", cfg.Log.Level, "log_format", cfg.Log.Format)
	logger.Info("Server configuration", "address", cfg.GetServerAddress())
	logger.Info("Database configuration", "host", cfg.Database.Host, "port", cfg.Database.Port, "database", cfg.Database.Database, "user", cfg.Database.User)

	// Initialize Database
	db, err := sql.Open("postgres", cfg.GetDatabaseConnectionString())
	if err != nil {
		logger.Error("Failed to connect to database", "error", err)
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	// Test database connection
	if err := db.Ping(); err != nil {
		logger.Error("Failed to ping database", "error", err)
		log.Fatalf("Failed to ping database: %v", err)
	}
	logger.Info("Database connection established")

	// Initialize Repositories
	store := postgres.NewStore(db)

	// Initialize Security
	tokenManager := security.NewTokenManager(cfg.JWT.Secret, cfg.JWT.AccessTokenExpiry)

	// Initialize Email Service
	emailSvc := service.NewEmailService(
		cfg.Email.SendGridAPIKey,
		cfg.Email.FromEmail,
		cfg.Email.FromName,
	)

	// Initialize Services
	events := service.NewNotifierSink(
		store.NotificationRepository,
		store.CustomerRepository,
		emailSvc,
	)
	extensionSvc := service.NewExtensionService(
		store.RentalRepository,
		store.ExtensionRepository,
		events,
	)
	rentalSvc := service.NewRentalService(
		store.RentalRepository,
		store.CarRepository,
		store.CustomerRepository,
		extensionSvc,
		service.BookingPolicy{
			MinDays:           cfg.Booking.MinDays,
			MaxDays:           cfg.Booking.MaxDays,
			DepositPercentage: cfg.Booking.DepositPercentage,
		},
		events,
	)
	paymentSvc := service.NewPaymentService(
		store.PaymentRepository,
		store.RentalRepository,
		events,
	)
	availabilitySvc := service.NewAvailabilityService(store.RentalRepository)
	noteSvc := service.NewNotificationService(store.NotificationRepository)

	// Initialize HTTP handlers
	rentalHandler := httpapi.NewRentalHandler(rentalSvc, extensionSvc, availabilitySvc)
	paymentHandler := httpapi.NewPaymentHandler(paymentSvc)
	notificationHandler := httpapi.NewNotificationHandler(noteSvc)

	router := httpapi.NewRouter(tokenManager, rentalHandler, paymentHandler, notificationHandler)

	logger.Info("HTTP server listening", "address", cfg.GetServerAddress())
	if err := http.ListenAndServe(cfg.GetServerAddress(), router); err != nil {
		logger.Error("HTTP server error", "error", err)
		log.Fatalf("Failed to serve: %v", err)
	}
}

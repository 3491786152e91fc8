package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"makemystay/internal/config"
	"makemystay/internal/database"
	"makemystay/internal/repository"
	"makemystay/internal/server"
	"makemystay/internal/services"
	"makemystay/internal/util"
)

const (
	shutdownTimeout = 30 * time.Second
	readTimeout     = 15 * time.Second
	writeTimeout    = 15 * time.Second
	idleTimeout     = 60 * time.Second
)

func main() {
	// Initialize structured logging
	log.SetPrefix("[API] ")
	log.SetFlags(log.Ldate | log.Ltime | log.Lshortfile)

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Validate critical configuration
	if err := validateConfig(cfg); err != nil {
		log.Fatalf("Configuration validation failed: %v", err)
	}

	log.Printf("Starting %s v%s", cfg.App.Name, cfg.App.Version)
	log.Printf("Environment: debug=%v, port=%s, host=%s", cfg.App.Debug, cfg.App.Port, cfg.App.Host)

	// Initialize database
	log.Printf("Initializing %s database connection...", cfg.Database.Driver())
	db, err := database.Open(&cfg.Database)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer func() {
		log.Println("Closing database connections...")
		if err := database.Close(db); err != nil {
			log.Printf("Error closing database: %v", err)
		}
	}()

	if err := database.Migrate(db); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	tokens, err := util.NewTokenManager(cfg.Auth.SecretKey, cfg.Auth.Algorithm, time.Duration(cfg.Auth.TokenExpiryMinutes)*time.Minute)
	if err != nil {
		log.Fatalf("Failed to initialize token manager: %v", err)
	}

	// Create service instances
	log.Println("Initializing services...")
	validator := services.NewValidator()
	users := repository.NewUserRepository(db)
	emailSvc := services.NewEmailService(&cfg.Email)

	handler := server.New(cfg, server.Deps{
		Auth:       services.NewAuthService(users, tokens, validator),
		Identity:   services.NewIdentityResolver(users, tokens),
		Contacts:   services.NewContactService(repository.NewContactRepository(db), validator, emailSvc),
		Properties: services.NewPropertyService(repository.NewPropertyRepository(db), validator),
		Images:     services.NewImageService(repository.NewImageRepository(db), validator),
		Health:     services.NewHealthService(db, &cfg.App),
	})

	addr := fmt.Sprintf("%s:%s", cfg.App.Host, cfg.App.Port)
	httpServer := &http.Server{
		Addr:         addr,
		Handler:      handler,
		ReadTimeout:  readTimeout,
		WriteTimeout: writeTimeout,
		IdleTimeout:  idleTimeout,
	}

	// Start server in goroutine
	serverErrors := make(chan error, 1)
	go func() {
		log.Printf("Server listening on %s", addr)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErrors <- fmt.Errorf("server error: %w", err)
		}
	}()

	// Wait for interrupt signal or server error
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		log.Printf("Server failed to start: %v", err)
		return
	case sig := <-shutdown:
		log.Printf("Received signal: %v. Starting graceful shutdown...", sig)
	}

	// Graceful shutdown
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := httpServer.Shutdown(ctx); err != nil {
		log.Printf("Error during graceful shutdown: %v", err)
		if err == context.DeadlineExceeded {
			log.Println("Shutdown timeout exceeded, forcing close...")
			httpServer.Close()
		}
	}

	log.Println("Server shutdown complete")
}

// validateConfig validates critical configuration values
func validateConfig(cfg *config.Config) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	if cfg.Auth.SecretKey == config.DefaultSecretKey && !cfg.App.Debug {
		return fmt.Errorf("SECRET_KEY must be set and changed from default value")
	}
	if len(cfg.Auth.SecretKey) < 32 && !cfg.App.Debug {
		return fmt.Errorf("SECRET_KEY must be at least 32 characters for security")
	}
	if cfg.Auth.SecretKey == config.DefaultSecretKey {
		log.Println("WARNING: using the default SECRET_KEY; set SECRET_KEY before deploying")
	}
	return nil
}

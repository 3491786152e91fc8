package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"makemystay/internal/config"
	"makemystay/internal/database"
	"makemystay/internal/repository"
	"makemystay/internal/services"
	"makemystay/internal/util"
	apperrors "makemystay/pkg/errors"
)

func main() {
	email := flag.String("email", "admin@makemystay.com", "email of the account to create")
	password := flag.String("password", "", "password (defaults to $CREATE_USER_PASSWORD)")
	flag.Parse()

	if *password == "" {
		*password = os.Getenv("CREATE_USER_PASSWORD")
	}
	if *password == "" {
		log.Fatal("A password is required: pass -password or set CREATE_USER_PASSWORD")
	}

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Initialize database
	db, err := database.Open(&cfg.Database)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer database.Close(db)

	if err := database.Migrate(db); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	tokens, err := util.NewTokenManager(cfg.Auth.SecretKey, cfg.Auth.Algorithm, time.Duration(cfg.Auth.TokenExpiryMinutes)*time.Minute)
	if err != nil {
		log.Fatalf("Failed to initialize token manager: %v", err)
	}

	users := repository.NewUserRepository(db)
	auth := services.NewAuthService(users, tokens, services.NewValidator())

	user, err := auth.Signup(context.Background(), &services.SignupPayload{Email: *email, Password: *password})
	if apperrors.IsConflict(err) {
		fmt.Printf("User %s already exists!\n", *email)
		return
	}
	if err != nil {
		log.Fatalf("Failed to create user: %v", err)
	}

	fmt.Println("User created successfully!")
	fmt.Printf("ID: %d\n", user.ID)
	fmt.Printf("Email: %s\n", user.Email)
}

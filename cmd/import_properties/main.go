package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"

	"gopkg.in/yaml.v3"

	"makemystay/internal/config"
	"makemystay/internal/database"
	"makemystay/internal/repository"
	"makemystay/internal/services"
)

// seedFile is the layout of a property seed document.
type seedFile struct {
	Properties []services.PropertyPayload `yaml:"properties"`
}

func loadSeed(path string) ([]services.PropertyPayload, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read seed file: %w", err)
	}
	var seed seedFile
	if err := yaml.Unmarshal(data, &seed); err != nil {
		return nil, fmt.Errorf("parse seed file: %w", err)
	}
	if len(seed.Properties) == 0 {
		return nil, fmt.Errorf("seed file %s contains no properties", path)
	}
	return seed.Properties, nil
}

func main() {
	path := flag.String("file", "seeds/properties.yaml", "YAML file listing the properties to import")
	flag.Parse()

	payloads, err := loadSeed(*path)
	if err != nil {
		log.Fatalf("Failed to load seed: %v", err)
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

	ctx := context.Background()
	store := repository.NewPropertyRepository(db)
	svc := services.NewPropertyService(store, services.NewValidator())

	imported, err := svc.Import(ctx, payloads)
	if err != nil {
		log.Fatalf("Import failed, nothing was stored: %v", err)
	}
	for _, p := range imported {
		fmt.Printf("Inserted: %s - %s\n", p.PropertyName, p.Location)
	}
	fmt.Printf("\nSuccessfully imported %d properties!\n", len(imported))

	// Verification summary
	total, err := store.Count(ctx)
	if err != nil {
		log.Fatalf("Failed to count properties: %v", err)
	}
	fmt.Printf("Total properties in database: %d\n", total)

	latest, err := store.Latest(ctx, 5)
	if err != nil {
		log.Fatalf("Failed to load latest properties: %v", err)
	}
	fmt.Println("\nLast 5 properties:")
	for _, p := range latest {
		fmt.Printf("  [%d] %s (%s) - %s\n", p.ID, p.PropertyName, p.PropertyType, p.Location)
	}
}

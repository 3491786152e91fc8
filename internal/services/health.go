package services

import (
	"context"
	"log"
	"time"

	"gorm.io/gorm"

	"makemystay/internal/config"
	"makemystay/internal/database"
	"makemystay/internal/metrics"
	apperrors "makemystay/pkg/errors"
)

const healthPingTimeout = 2 * time.Second

// HealthResult is the body of the health endpoints.
type HealthResult struct {
	Status  string `json:"status"`
	Service string `json:"service"`
	Version string `json:"version"`
}

// HealthService implements the health service
type HealthService struct {
	db  *gorm.DB
	app *config.AppConfig
}

// NewHealthService creates a new health service
func NewHealthService(db *gorm.DB, app *config.AppConfig) *HealthService {
	return &HealthService{db: db, app: app}
}

// Check pings the database and refreshes the connection pool gauges.
func (s *HealthService) Check(ctx context.Context) (*HealthResult, error) {
	ctx, cancel := context.WithTimeout(ctx, healthPingTimeout)
	defer cancel()

	if err := database.Ping(ctx, s.db); err != nil {
		log.Printf("[HEALTH] Database ping failed: %v", err)
		return &HealthResult{Status: "unhealthy", Service: s.app.Name, Version: s.app.Version},
			apperrors.Database("Database unavailable", err)
	}

	if stats, err := database.GetStats(s.db); err == nil {
		metrics.UpdateDBConnections(stats.InUse, stats.Idle)
	}

	return &HealthResult{
		Status:  "healthy",
		Service: s.app.Name,
		Version: s.app.Version,
	}, nil
}

package services

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/localnerve/novelsdb/internal/config"
	"github.com/localnerve/novelsdb/internal/utils"
	"gorm.io/gorm"
)

const healthTimeout = 1500 * time.Millisecond

// HealthCheckResult represents the result of a health check
type HealthCheckResult struct {
	Status       string            `json:"status"`
	Database     string            `json:"database"`
	Details      map[string]string `json:"details,omitempty"`
	ErrorMessage string            `json:"error,omitempty"`
}

// Healthy reports whether every dependency answered
func (r HealthCheckResult) Healthy() bool {
	return r.Status == "healthy"
}

// HealthCheck checks that the database server is reachable and that the pool
// can reach it
func HealthCheck(ctx context.Context, cfg *config.Config, db *gorm.DB) HealthCheckResult {
	result := HealthCheckResult{
		Status:  "healthy",
		Details: make(map[string]string),
	}

	// File databases have no server to dial
	if !cfg.IsSQLite() {
		if err := utils.PingService(cfg.DBHost, cfg.DBPort, healthTimeout); err != nil {
			result.Status = "unhealthy"
			result.Database = "unreachable"
			result.Details["database_host_error"] = err.Error()
			result.ErrorMessage = fmt.Sprintf("Database host unreachable: %v", err)
			log.Printf("Health check failed - database host: %v", err)
			return result
		}
	}

	if err := utils.PingDatabase(ctx, db, healthTimeout); err != nil {
		result.Status = "unhealthy"
		result.Database = "unreachable"
		result.Details["database_ping_error"] = err.Error()
		result.ErrorMessage = fmt.Sprintf("Database ping failed: %v", err)
		log.Printf("Health check failed - database ping: %v", err)
		return result
	}

	result.Database = "ok"
	result.Details["database_type"] = cfg.DBType
	result.Details["database_name"] = cfg.DBDatabase

	return result
}

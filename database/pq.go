package database

import (
	"fmt"
	"strings"

	"github.com/lib/pq"
	"github.com/sahilchouksey/campus-events/config"
	"gorm.io/gorm"
)

// Storage defines the interface that all database implementations must satisfy
type Storage interface {
	// Lifecycle methods
	Init() error
	Close() error
	HealthCheck() error

	// GORM DB access
	GetDB() *gorm.DB
}

// BuildDSN returns a key/value postgres DSN. DATABASE_URL wins over the
// individual DB_* variables when both are set.
func BuildDSN(env *config.EnviornmentVariable) (string, error) {
	if url := strings.TrimSpace(env.DATABASE_URL); url != "" {
		dsn, err := pq.ParseURL(url)
		if err != nil {
			return "", fmt.Errorf("parse DATABASE_URL: %w", err)
		}
		if !strings.Contains(dsn, "TimeZone=") {
			dsn += " TimeZone=UTC"
		}
		return dsn, nil
	}

	if env.DB_USER_NAME == "" || env.DB_NAME == "" {
		return "", fmt.Errorf("database is not configured: set DATABASE_URL or DB_USER_NAME and DB_NAME")
	}

	return fmt.Sprintf(
		"host=%s user=%s password=%s dbname=%s port=%s sslmode=%s TimeZone=UTC",
		env.DB_HOST,
		env.DB_USER_NAME,
		env.DB_PASSWORD,
		env.DB_NAME,
		env.DB_PORT,
		env.DB_SSL_MODE,
	), nil
}

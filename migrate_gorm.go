// migrate_gorm.go - Run this file to apply GORM migrations
// Usage: go run migrate_gorm.go

//go:build ignore

package main

import (
	"github.com/gofiber/fiber/v2/log"
	"github.com/sahilchouksey/campus-events/config"
	"github.com/sahilchouksey/campus-events/database"
)

func main() {
	log.Info("=== GORM Migration ===")

	// Load environment variables
	if err := config.LoadENV(); err != nil {
		log.Fatal("Failed to load environment variables:", err)
	}

	env, err := config.Get()
	if err != nil {
		log.Fatal("Failed to read configuration:", err)
	}

	// Initialize GORM connection
	store, err := database.StartGORM(env)
	if err != nil {
		log.Fatal("Failed to connect to database:", err)
	}
	defer store.Close()

	// Run migrations
	if err := store.Init(); err != nil {
		log.Fatal("Failed to run migrations:", err)
	}

	// Health check
	if err := store.HealthCheck(); err != nil {
		log.Fatal("Database health check failed:", err)
	}

	tables, err := store.GetDB().Migrator().GetTables()
	if err != nil {
		log.Fatal("Failed to list tables:", err)
	}

	log.Info("✅ All migrations completed successfully!")
	for _, table := range tables {
		log.Infof("  - %s", table)
	}
}

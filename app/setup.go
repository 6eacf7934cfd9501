package app

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2/log"
	"github.com/sahilchouksey/campus-events/api"
	"github.com/sahilchouksey/campus-events/config"
	"github.com/sahilchouksey/campus-events/database"
	"github.com/sahilchouksey/campus-events/router"
	"github.com/sahilchouksey/campus-events/services"
	"github.com/sahilchouksey/campus-events/services/cron"
	"github.com/sahilchouksey/campus-events/services/storage"
	"github.com/sahilchouksey/campus-events/utils/cache"
)

func SetupAndRunServer() error {

	// Load ENV
	if err := config.LoadENV(); err != nil {
		return err
	}

	getEnv, err := config.Get()
	if err != nil {
		return err
	}

	// Initialize GORM database connection
	store, err := database.StartGORM(getEnv)
	if err != nil {
		log.Error("Check whether the Postgres is running or not")
		log.Error("If not running, run: make docker-up (Docker) or make db-up (local PostgreSQL)")
		return err
	}

	if err := store.Init(); err != nil {
		log.Error("Failed to initialize database tables")
		return err
	}

	// Redis is optional
	var redisCache *cache.RedisCache
	if getEnv.REDIS_URL != "" {
		redisCache, err = cache.NewRedisCache(getEnv.REDIS_URL)
		if err != nil {
			log.Warnf("Failed to connect to Redis: %v. Continuing without it.", err)
			redisCache = nil
		}
	}

	// Roster archive storage is optional
	var archive services.ObjectStore
	if getEnv.SpacesConfigured() {
		spaces, err := storage.NewSpacesClient(storage.ConfigFromEnv(getEnv))
		if err != nil {
			log.Warnf("Failed to initialize Spaces client: %v. Roster archiving is disabled.", err)
		} else {
			archive = spaces
		}
	}

	// Initialize Cron Manager (only if enabled via environment variable)
	var cronManager *cron.CronManager
	if getEnv.CRON_ENABLED {
		cronManager = cron.NewCronManager(store.GetDB(), archive)
		if err := cronManager.Start(); err != nil {
			// Don't fail the app, just log the warning
			log.Warnf("Failed to start cron jobs: %v", err)
			cronManager = nil
		}
	}

	// Defer Closing DB, Redis and stopping cron jobs
	defer func() {
		if cronManager != nil {
			cronManager.Stop()
		}
		if redisCache != nil {
			redisCache.Close()
		}
		store.Close()
	}()

	// Init API
	server := api.NewAPIServer(fmt.Sprintf(":%d", getEnv.PORT))
	app := server.GetEngine()

	// Setup Routes
	if err := router.SetupRoutes(app, store, router.Options{
		JWTSecret:      getEnv.JWT_SECRET,
		JWTIssuer:      getEnv.JWT_ISSUER,
		AllowedOrigins: getEnv.ALLOWED_ORIGINS,
		Redis:          redisCache,
		Archive:        archive,
	}); err != nil {
		return err
	}

	go func() {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
		<-quit
		log.Info("Shutting down API Server")
		if err := server.Shutdown(); err != nil {
			log.Errorf("shutdown: %v", err)
		}
	}()

	// Get the PORT & Start the Server
	return server.Run()
}

package handlers

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"
	"github.com/sahilchouksey/campus-events/database"
	"github.com/sahilchouksey/campus-events/utils/cache"
	"github.com/sahilchouksey/campus-events/utils/response"
)

// HandleCheckHealth pings the database and, when configured, Redis
func HandleCheckHealth(store database.Storage, redisCache *cache.RedisCache) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ctx, cancel := context.WithTimeout(c.UserContext(), 3*time.Second)
		defer cancel()

		if err := store.HealthCheck(); err != nil {
			log.Errorf("health check: database: %v", err)
			return response.ServiceUnavailable(c, "Database unavailable")
		}

		redisStatus := "disabled"
		if redisCache != nil {
			redisStatus = "ok"
			if err := redisCache.Ping(ctx); err != nil {
				log.Warnf("health check: redis: %v", err)
				redisStatus = "unavailable"
			}
		}

		return response.Success(c, fiber.Map{
			"status":   "ok",
			"database": "ok",
			"redis":    redisStatus,
		})
	}
}

package middleware

import (
	"context"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"
	"github.com/sahilchouksey/campus-events/utils/cache"
	"github.com/sahilchouksey/campus-events/utils/response"
)

// failureWindow is how long failed logins are remembered when no lock is active
const failureWindow = 15 * time.Minute

type lockoutStep struct {
	failures int64
	lock     time.Duration
}

// lockoutSteps is ordered from the longest lock down
var lockoutSteps = []lockoutStep{
	{failures: 25, lock: 24 * time.Hour},
	{failures: 10, lock: time.Hour},
	{failures: 5, lock: 2 * time.Minute},
}

// lockFor returns the lock earned by a failure count, zero below the first step
func lockFor(failures int64) time.Duration {
	for _, step := range lockoutSteps {
		if failures >= step.failures {
			return step.lock
		}
	}
	return 0
}

// LoginGuard throttles password guessing per (client IP, email) pair in Redis.
// A nil *LoginGuard never blocks.
type LoginGuard struct {
	redis *cache.RedisCache
}

// NewLoginGuard returns nil without Redis
func NewLoginGuard(redis *cache.RedisCache) *LoginGuard {
	if redis == nil {
		return nil
	}
	return &LoginGuard{redis: redis}
}

func loginKeys(ip, email string) (attempts, lock string) {
	pair := ip + "|" + strings.ToLower(strings.TrimSpace(email))
	return "login:attempts:" + pair, "login:lock:" + pair
}

// Guard answers 429 with Retry-After while the pair in the request body is locked.
// Redis errors let the request through.
func (g *LoginGuard) Guard() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if g == nil {
			return c.Next()
		}

		var body struct {
			Email string `json:"email"`
		}
		if err := c.BodyParser(&body); err != nil || body.Email == "" {
			return c.Next()
		}

		wait, err := g.LockedFor(c.UserContext(), c.IP(), body.Email)
		if err != nil {
			log.Warnf("login guard unavailable: %v", err)
			return c.Next()
		}
		if wait <= 0 {
			return c.Next()
		}

		seconds := int(math.Ceil(wait.Seconds()))
		c.Set(fiber.HeaderRetryAfter, strconv.Itoa(seconds))
		return response.TooManyRequests(c, fmt.Sprintf("Too many failed attempts. Try again in %d seconds", seconds))
	}
}

// LockedFor returns how much longer the pair stays locked, zero when it is not
func (g *LoginGuard) LockedFor(ctx context.Context, ip, email string) (time.Duration, error) {
	if g == nil {
		return 0, nil
	}
	_, lockKey := loginKeys(ip, email)

	locked, err := g.redis.Exists(ctx, lockKey)
	if err != nil || !locked {
		return 0, err
	}

	ttl, err := g.redis.TTL(ctx, lockKey)
	if err != nil {
		return 0, err
	}
	if ttl <= 0 {
		// lock without expiry
		ttl = time.Minute
	}
	return ttl, nil
}

// RecordFailure counts a failed login and locks the pair once a step is reached.
// The count outlives each lock so repeat offenders climb to the longer locks.
// It returns the lock applied, zero when none was.
func (g *LoginGuard) RecordFailure(ctx context.Context, ip, email string) (time.Duration, error) {
	if g == nil {
		return 0, nil
	}
	attemptKey, lockKey := loginKeys(ip, email)

	failures, err := g.redis.Increment(ctx, attemptKey)
	if err != nil {
		return 0, err
	}

	lock := lockFor(failures)
	if err := g.redis.Expire(ctx, attemptKey, lock+failureWindow); err != nil {
		return 0, err
	}
	if lock == 0 {
		return 0, nil
	}

	log.Warnf("locking login for %s from %s for %s after %d failures", email, ip, lock, failures)
	return lock, g.redis.Set(ctx, lockKey, failures, lock)
}

// Reset clears the pair's failures and lock after a successful login
func (g *LoginGuard) Reset(ctx context.Context, ip, email string) error {
	if g == nil {
		return nil
	}
	attemptKey, lockKey := loginKeys(ip, email)
	return g.redis.Delete(ctx, attemptKey, lockKey)
}

package services

import (
	"context"
	"errors"
	"time"

	"github.com/gofiber/fiber/v2/log"
	"github.com/sahilchouksey/campus-events/model"
	"github.com/sahilchouksey/campus-events/utils/cache"
)

const approvedEventsKey = "events:approved"

// EventCache keeps the approved-event listing seen by students and parents in Redis.
// A nil *EventCache is valid and caches nothing.
type EventCache struct {
	redis *cache.RedisCache
	ttl   time.Duration
}

// NewEventCache returns nil when redis is nil
func NewEventCache(redis *cache.RedisCache, ttl time.Duration) *EventCache {
	if redis == nil {
		return nil
	}
	return &EventCache{redis: redis, ttl: ttl}
}

// Approved returns the cached listing and whether it was present
func (c *EventCache) Approved(ctx context.Context) ([]model.Event, bool) {
	if c == nil {
		return nil, false
	}

	var events []model.Event
	if err := c.redis.GetJSON(ctx, approvedEventsKey, &events); err != nil {
		if !errors.Is(err, cache.ErrNotFound) {
			log.Warnf("event cache read failed: %v", err)
		}
		return nil, false
	}
	return events, true
}

// StoreApproved caches the listing. Failures are logged and otherwise ignored.
func (c *EventCache) StoreApproved(ctx context.Context, events []model.Event) {
	if c == nil {
		return
	}
	if err := c.redis.SetJSON(ctx, approvedEventsKey, events, c.ttl); err != nil {
		log.Warnf("event cache write failed: %v", err)
	}
}

// Invalidate drops the cached listing after any status change
func (c *EventCache) Invalidate(ctx context.Context) {
	if c == nil {
		return
	}
	if err := c.redis.Delete(ctx, approvedEventsKey); err != nil {
		log.Warnf("event cache invalidation failed: %v", err)
	}
}

package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/spec-kit/event-service/internal/domain"
	"github.com/spec-kit/event-service/internal/persistence"
)

// EventCache is a Redis-backed read cache for the public event listing and
// single-event reads. Cache failures are logged and treated as misses so
// Redis outages never surface to callers.
type EventCache struct {
	redis  *persistence.Redis
	ttl    time.Duration
	logger *zap.Logger
}

// NewEventCache constructs the cache.
func NewEventCache(redis *persistence.Redis, ttl time.Duration, logger *zap.Logger) *EventCache {
	return &EventCache{redis: redis, ttl: ttl, logger: logger}
}

func eventKey(id string) string {
	return "events:id:" + id
}

func listKey(limit, offset int) string {
	return fmt.Sprintf("events:list:%d:%d", limit, offset)
}

// GetEvent returns the cached event or nil on a miss.
func (c *EventCache) GetEvent(ctx context.Context, id string) *domain.Event {
	if c == nil || c.redis == nil || c.redis.Client == nil {
		return nil
	}
	raw, err := c.redis.Client.Get(ctx, eventKey(id)).Bytes()
	if err != nil {
		return nil
	}
	var event domain.Event
	if err := json.Unmarshal(raw, &event); err != nil {
		c.logger.Warn("corrupt event cache entry", zap.String("id", id), zap.Error(err))
		return nil
	}
	return &event
}

// SetEvent stores the event under its id.
func (c *EventCache) SetEvent(ctx context.Context, event *domain.Event) {
	if c == nil || c.redis == nil || c.redis.Client == nil {
		return
	}
	raw, err := json.Marshal(event)
	if err != nil {
		return
	}
	if err := c.redis.Client.Set(ctx, eventKey(event.ID), raw, c.ttl).Err(); err != nil {
		c.logger.Warn("event cache set failed", zap.Error(err))
	}
}

// GetList returns the cached page or nil on a miss.
func (c *EventCache) GetList(ctx context.Context, limit, offset int) []domain.Event {
	if c == nil || c.redis == nil || c.redis.Client == nil {
		return nil
	}
	raw, err := c.redis.Client.Get(ctx, listKey(limit, offset)).Bytes()
	if err != nil {
		return nil
	}
	var events []domain.Event
	if err := json.Unmarshal(raw, &events); err != nil {
		c.logger.Warn("corrupt event list cache entry", zap.Error(err))
		return nil
	}
	return events
}

// SetList stores a listing page. Staleness is bounded by the TTL.
func (c *EventCache) SetList(ctx context.Context, limit, offset int, events []domain.Event) {
	if c == nil || c.redis == nil || c.redis.Client == nil {
		return
	}
	raw, err := json.Marshal(events)
	if err != nil {
		return
	}
	if err := c.redis.Client.Set(ctx, listKey(limit, offset), raw, c.ttl).Err(); err != nil {
		c.logger.Warn("event list cache set failed", zap.Error(err))
	}
}

// Invalidate drops the cached entry for the event after a write.
func (c *EventCache) Invalidate(ctx context.Context, id string) {
	if c == nil || c.redis == nil || c.redis.Client == nil {
		return
	}
	if err := c.redis.Client.Del(ctx, eventKey(id)).Err(); err != nil {
		c.logger.Warn("event cache invalidation failed", zap.String("id", id), zap.Error(err))
	}
}

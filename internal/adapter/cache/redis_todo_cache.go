// Package cache provides the Redis-backed read cache for public listings.
package cache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/taskhive/taskhive/internal/domain"
	"github.com/taskhive/taskhive/internal/repository"
)

const todoListKey = "cache:todos:all"

// RedisTodoCache implements TodoCache backed by Redis. All operations are
// best-effort: backend failures are logged and reported as misses so the
// database stays the source of truth.
type RedisTodoCache struct {
	client redis.UniversalClient
	logger *zap.Logger
}

var _ repository.TodoCache = (*RedisTodoCache)(nil)

// NewRedisTodoCache constructs a Redis-backed todo cache.
func NewRedisTodoCache(client redis.UniversalClient, logger *zap.Logger) *RedisTodoCache {
	if logger == nil {
		logger = zap.L()
	}
	return &RedisTodoCache{client: client, logger: logger}
}

// GetList returns the cached public todo listing, if present.
func (c *RedisTodoCache) GetList(ctx context.Context) ([]domain.Todo, bool) {
	payload, err := c.client.Get(ctx, todoListKey).Bytes()
	if err != nil {
		if err != redis.Nil {
			c.logger.Warn("todo cache read failed", zap.Error(err))
		}
		return nil, false
	}
	var todos []domain.Todo
	if err := json.Unmarshal(payload, &todos); err != nil {
		c.logger.Warn("todo cache decode failed", zap.Error(err))
		return nil, false
	}
	return todos, true
}

// SetList stores the listing with the given TTL.
func (c *RedisTodoCache) SetList(ctx context.Context, todos []domain.Todo, ttl time.Duration) {
	payload, err := json.Marshal(todos)
	if err != nil {
		c.logger.Warn("todo cache encode failed", zap.Error(err))
		return
	}
	if err := c.client.Set(ctx, todoListKey, payload, ttl).Err(); err != nil {
		c.logger.Warn("todo cache write failed", zap.Error(err))
	}
}

// Invalidate drops the cached listing after a mutation.
func (c *RedisTodoCache) Invalidate(ctx context.Context) {
	if err := c.client.Del(ctx, todoListKey).Err(); err != nil && err != redis.Nil {
		c.logger.Warn("todo cache invalidate failed", zap.Error(err))
	}
}

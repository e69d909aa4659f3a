package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/craftline/storefront/internal/config"
)

// CategoryIDCache caches resolved category-name lookups. Category names are
// read-only for this service, so entries expire on TTL alone.
type CategoryIDCache interface {
	Get(ctx context.Context, key string) ([]uuid.UUID, bool, error)
	Set(ctx context.Context, key string, ids []uuid.UUID) error
}

var _ CategoryIDCache = (*RedisCategoryIDCache)(nil)

type RedisCategoryIDCache struct {
	cl  *redis.Client
	ttl time.Duration
}

// NewRedisClient creates and pings a redis client with the given configuration.
func NewRedisClient(ctx context.Context, cfg config.Redis) (*redis.Client, error) {
	cl := redis.NewClient(&redis.Options{
		Addr:     cfg.Address,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	pingCtx, pingCancel := context.WithTimeout(ctx, 5*time.Second)
	defer pingCancel()
	if err := cl.Ping(pingCtx).Err(); err != nil {
		return nil, fmt.Errorf("ping redis: %w", err)
	}

	return cl, nil
}

func NewRedisCategoryIDCache(cl *redis.Client, ttl time.Duration) *RedisCategoryIDCache {
	return &RedisCategoryIDCache{cl: cl, ttl: ttl}
}

func (c *RedisCategoryIDCache) Get(ctx context.Context, key string) ([]uuid.UUID, bool, error) {
	raw, err := c.cl.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("cache get: %w", err)
	}

	var ids []uuid.UUID
	if err := json.Unmarshal(raw, &ids); err != nil {
		return nil, false, fmt.Errorf("unmarshal cached ids: %w", err)
	}

	return ids, true, nil
}

func (c *RedisCategoryIDCache) Set(ctx context.Context, key string, ids []uuid.UUID) error {
	raw, err := json.Marshal(ids)
	if err != nil {
		return fmt.Errorf("marshal ids: %w", err)
	}

	if err := c.cl.Set(ctx, key, raw, c.ttl).Err(); err != nil {
		return fmt.Errorf("cache set: %w", err)
	}

	return nil
}

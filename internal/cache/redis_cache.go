// Package cache provides the advisory per-owner cache of "list contents"
// responses.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/ahmetcoskunkizilkaya/intelligent-content-api/internal/config"
	"github.com/ahmetcoskunkizilkaya/intelligent-content-api/internal/models"
	"github.com/redis/go-redis/v9"
)

const keyPrefix = "contents:user:"

// ContentCache stores the serialized {id, text} list of each owner under a
// TTL. It is never authoritative.
type ContentCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisClient builds a client from the REDIS_* settings. It does not dial.
func NewRedisClient(cfg *config.Config) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr(),
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
}

func NewContentCache(client *redis.Client, ttl time.Duration) *ContentCache {
	return &ContentCache{client: client, ttl: ttl}
}

func key(ownerID uint) string {
	return keyPrefix + strconv.FormatUint(uint64(ownerID), 10)
}

// Get returns the cached list for ownerID. A miss is (nil, false, nil).
func (c *ContentCache) Get(ctx context.Context, ownerID uint) ([]models.ContentItem, bool, error) {
	raw, err := c.client.Get(ctx, key(ownerID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("get cached contents: %w", err)
	}

	var items []models.ContentItem
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil, false, fmt.Errorf("decode cached contents: %w", err)
	}
	if items == nil {
		items = []models.ContentItem{}
	}
	return items, true, nil
}

func (c *ContentCache) Set(ctx context.Context, ownerID uint, items []models.ContentItem) error {
	raw, err := json.Marshal(items)
	if err != nil {
		return fmt.Errorf("encode contents: %w", err)
	}
	if err := c.client.Set(ctx, key(ownerID), raw, c.ttl).Err(); err != nil {
		return fmt.Errorf("cache contents: %w", err)
	}
	return nil
}

// Invalidate drops the owner's entry. Deleting a missing key is not an error.
func (c *ContentCache) Invalidate(ctx context.Context, ownerID uint) error {
	if err := c.client.Del(ctx, key(ownerID)).Err(); err != nil {
		return fmt.Errorf("invalidate cached contents: %w", err)
	}
	return nil
}

func (c *ContentCache) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}

func (c *ContentCache) Close() error {
	return c.client.Close()
}

package gallery

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

const ownerKeyPrefix = "gallery:owner:" // gallery:owner:{lowercase address}

// Cache stores a wallet's NFT list in redis for a short TTL.
type Cache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewCache(client *redis.Client, ttl time.Duration) *Cache {
	return &Cache{client: client, ttl: ttl}
}

func (c *Cache) Get(ctx context.Context, owner string) ([]NFT, error) {
	data, err := c.client.Get(ctx, c.key(owner)).Result()
	if err == redis.Nil {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get gallery: %w", err)
	}

	var nfts []NFT
	if err := json.Unmarshal([]byte(data), &nfts); err != nil {
		return nil, fmt.Errorf("failed to unmarshal gallery: %w", err)
	}
	return nfts, nil
}

func (c *Cache) Set(ctx context.Context, owner string, nfts []NFT) error {
	data, err := json.Marshal(nfts)
	if err != nil {
		return fmt.Errorf("failed to marshal gallery: %w", err)
	}
	if err := c.client.Set(ctx, c.key(owner), data, c.ttl).Err(); err != nil {
		return fmt.Errorf("failed to cache gallery: %w", err)
	}
	return nil
}

func (c *Cache) Invalidate(ctx context.Context, owner string) error {
	if err := c.client.Del(ctx, c.key(owner)).Err(); err != nil {
		return fmt.Errorf("failed to invalidate gallery: %w", err)
	}
	return nil
}

func (c *Cache) key(owner string) string {
	return ownerKeyPrefix + strings.ToLower(owner)
}

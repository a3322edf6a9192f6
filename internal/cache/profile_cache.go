// Package cache keeps enrichment profiles in redis so repeated list and
// history requests skip the directory join.
package cache

import (
	"context"
	"fmt"
	"time"

	"geolog/config"
	"geolog/internal/logging"
	"geolog/internal/repository"

	"github.com/goccy/go-json"
	"github.com/redis/go-redis/v9"
)

const keyPrefix = "geolog:profile:"

type ProfileCache struct {
	client *redis.Client
	ttl    time.Duration
}

// New connects and pings redis.
func New(ctx context.Context, cfg config.RedisConfig, ttl time.Duration) (*ProfileCache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}
	return NewWithClient(client, ttl), nil
}

func NewWithClient(client *redis.Client, ttl time.Duration) *ProfileCache {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &ProfileCache{client: client, ttl: ttl}
}

func (c *ProfileCache) Close() error {
	return c.client.Close()
}

func Key(userID string) string {
	return keyPrefix + userID
}

// Get reports a miss for absent keys, redis errors and undecodable values.
func (c *ProfileCache) Get(ctx context.Context, userID string) (*repository.Profile, bool) {
	val, err := c.client.Get(ctx, Key(userID)).Bytes()
	if err == redis.Nil {
		return nil, false
	}
	if err != nil {
		logging.Ctx(ctx).Debug().Err(err).Str("user", userID).Msg("profile cache get failed")
		return nil, false
	}
	var p repository.Profile
	if err := json.Unmarshal(val, &p); err != nil {
		return nil, false
	}
	return &p, true
}

func (c *ProfileCache) Set(ctx context.Context, p *repository.Profile) {
	if p == nil || p.UserID == "" {
		return
	}
	data, err := json.Marshal(p)
	if err != nil {
		return
	}
	if err := c.client.Set(ctx, Key(p.UserID), data, c.ttl).Err(); err != nil {
		logging.Ctx(ctx).Debug().Err(err).Str("user", p.UserID).Msg("profile cache set failed")
	}
}

// Invalidate drops a user's cached profile.
func (c *ProfileCache) Invalidate(ctx context.Context, userID string) error {
	return c.client.Del(ctx, Key(userID)).Err()
}

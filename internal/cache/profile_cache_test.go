package cache

import (
	"context"
	"testing"
	"time"

	"geolog/config"
	"geolog/internal/repository"

	"github.com/redis/go-redis/v9"
)

// nothing listens on port 1, so every command fails fast
func unreachable() *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 50 * time.Millisecond,
		MaxRetries:  -1,
	})
}

func TestUnreachableRedisIsAMiss(t *testing.T) {
	c := NewWithClient(unreachable(), time.Minute)
	defer c.Close()
	ctx := context.Background()

	c.Set(ctx, &repository.Profile{UserID: "jane@example.com", FullName: "Jane"})
	if p, ok := c.Get(ctx, "jane@example.com"); ok || p != nil {
		t.Fatalf("got %+v, %v; want miss", p, ok)
	}
}

func TestNewFailsWithoutServer(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	if _, err := New(ctx, config.RedisConfig{Addr: "127.0.0.1:1"}, time.Minute); err == nil {
		t.Fatal("expected connection error")
	}
}

func TestKeyAndDefaultTTL(t *testing.T) {
	if got := Key("jane@example.com"); got != "geolog:profile:jane@example.com" {
		t.Errorf("key = %q", got)
	}
	c := NewWithClient(unreachable(), 0)
	defer c.Close()
	if c.ttl != 5*time.Minute {
		t.Errorf("ttl = %v", c.ttl)
	}
}

func TestInvalidateReportsConnectionError(t *testing.T) {
	c := NewWithClient(unreachable(), time.Minute)
	defer c.Close()
	if err := c.Invalidate(context.Background(), "jane@example.com"); err == nil {
		t.Fatal("expected error from unreachable redis")
	}
}

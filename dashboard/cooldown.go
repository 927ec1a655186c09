package dashboard

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// Cooldown throttles repeated actions on the same key. It is a UI debounce, not a lock.
type Cooldown interface {
	// Acquire reports whether the action may run now. A successful call starts a cooldown of ttl.
	Acquire(ctx context.Context, key string, ttl time.Duration) (bool, error)
}

type MemoryCooldown struct {
	mu    sync.Mutex
	until map[string]time.Time
	now   func() time.Time
}

func NewMemoryCooldown() *MemoryCooldown {
	return &MemoryCooldown{until: make(map[string]time.Time), now: time.Now}
}

func (c *MemoryCooldown) Acquire(_ context.Context, key string, ttl time.Duration) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	if until, ok := c.until[key]; ok && now.Before(until) {
		return false, nil
	}
	c.until[key] = now.Add(ttl)

	// Keep the map from growing with keys that will never be touched again.
	for k, until := range c.until {
		if !now.Before(until) {
			delete(c.until, k)
		}
	}
	return true, nil
}

// RedisCooldown shares cooldowns between instances with SET NX PX.
type RedisCooldown struct {
	client redis.Cmdable
	prefix string
}

func NewRedisCooldown(client redis.Cmdable) *RedisCooldown {
	return &RedisCooldown{client: client, prefix: "cooldown:"}
}

func (c *RedisCooldown) Acquire(ctx context.Context, key string, ttl time.Duration) (bool, error) {
	ok, err := c.client.SetNX(ctx, c.prefix+key, 1, ttl).Result()
	if err != nil {
		return false, fmt.Errorf("acquire cooldown: %w", err)
	}
	return ok, nil
}

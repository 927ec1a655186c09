package identity

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/propertylabs/rental-radar-alerts-sub000/metrics"
	"github.com/propertylabs/rental-radar-alerts-sub000/models"
)

const DefaultCacheTTL = 60 * time.Second

// CachedProvider keeps resolved identities in redis for a short time so that every request
// doesn't cost two calls to the identity provider. Only successful lookups are cached.
type CachedProvider struct {
	next   Provider
	client redis.Cmdable
	ttl    time.Duration
}

func NewCachedProvider(next Provider, client redis.Cmdable, ttl time.Duration) *CachedProvider {
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}
	return &CachedProvider{next: next, client: client, ttl: ttl}
}

func (p *CachedProvider) Identify(ctx context.Context, token string) (models.UserModel, error) {
	key := cacheKey(token)

	raw, err := p.client.Get(ctx, key).Bytes()
	switch {
	case err == nil:
		var user models.UserModel
		if err := json.Unmarshal(raw, &user); err == nil {
			metrics.IdentityLookups.WithLabelValues("cache").Inc()
			return user, nil
		}
		slog.Warn("discarding unreadable identity cache entry", "key", key)
	case !errors.Is(err, redis.Nil):
		slog.Warn("identity cache unavailable", "error", err)
	}

	metrics.IdentityLookups.WithLabelValues("provider").Inc()
	user, err := p.next.Identify(ctx, token)
	if err != nil {
		return models.UserModel{}, err
	}

	if b, err := json.Marshal(user); err == nil {
		if err := p.client.Set(ctx, key, b, p.ttl).Err(); err != nil {
			slog.Warn("identity cache write failed", "error", err)
		}
	}
	return user, nil
}

// The raw token never leaves the process.
func cacheKey(token string) string {
	sum := sha256.Sum256([]byte(token))
	return "identity:" + hex.EncodeToString(sum[:])
}

package names

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"together/pkg/domain"
	"together/pkg/requestcontext"
)

const cacheKeyPrefix = "names:has:"

// CacheClient is the subset of go-redis used by Cached.
type CacheClient interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value any, expiration time.Duration) *redis.StatusCmd
}

// Cached memoizes positive and negative answers of another oracle in Redis.
// Cache failures fall through to the wrapped oracle.
type Cached struct {
	next     Oracle
	client   CacheClient
	ttl      time.Duration
	logger   *slog.Logger
	observer LookupObserver
}

func NewCached(next Oracle, client CacheClient, ttl time.Duration, logger *slog.Logger, observer LookupObserver) *Cached {
	if logger == nil {
		logger = slog.Default()
	}
	return &Cached{next: next, client: client, ttl: ttl, logger: logger, observer: observer}
}

func (c *Cached) HasName(ctx context.Context, identity domain.Identity) (bool, error) {
	key := cacheKeyPrefix + identity.String()

	cached, err := c.client.Get(ctx, key).Result()
	switch {
	case err == nil:
		c.observe("cache", "hit")
		return cached == "1", nil
	case errors.Is(err, redis.Nil):
		c.observe("cache", "miss")
	default:
		c.logger.WarnContext(ctx, "name cache read failed",
			"error", err,
			"request_id", requestcontext.RequestID(ctx),
		)
	}

	named, err := c.next.HasName(ctx, identity)
	if err != nil {
		return false, err
	}
	value := "0"
	if named {
		value = "1"
	}
	if err := c.client.Set(ctx, key, value, c.ttl).Err(); err != nil {
		c.logger.WarnContext(ctx, "name cache write failed",
			"error", err,
			"request_id", requestcontext.RequestID(ctx),
		)
	}
	return named, nil
}

func (c *Cached) observe(source, result string) {
	if c.observer != nil {
		c.observer.ObserveNameLookup(source, result)
	}
}

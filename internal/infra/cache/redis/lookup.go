package redis

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/bryanwahyu/geo-gap-compass/internal/domain/visibility"
	"github.com/bryanwahyu/geo-gap-compass/internal/logger"
)

const keyPrefix = "geo:lookup:"

// LookupCache caches successful web lookups. Redis errors are logged and the
// wrapped lookup is used directly.
type LookupCache struct {
	client *redis.Client
	next   visibility.WebLookup
	ttl    time.Duration
	log    *zap.Logger
}

func NewLookupCache(client *redis.Client, next visibility.WebLookup, ttl time.Duration, log *zap.Logger) *LookupCache {
	if ttl <= 0 {
		ttl = time.Hour
	}
	return &LookupCache{client: client, next: next, ttl: ttl, log: logger.OrNop(log)}
}

func (c *LookupCache) Lookup(ctx context.Context, domain string) (visibility.DomainInfo, error) {
	key := keyPrefix + strings.ToLower(domain)

	raw, err := c.client.Get(ctx, key).Bytes()
	switch {
	case err == nil:
		var info visibility.DomainInfo
		if jsonErr := json.Unmarshal(raw, &info); jsonErr == nil {
			return info, nil
		}
		c.log.Warn("discarding corrupt lookup cache entry", zap.String("key", key))
	case !errors.Is(err, redis.Nil):
		c.log.Warn("lookup cache read failed", zap.String("key", key), zap.Error(err))
	}

	info, err := c.next.Lookup(ctx, domain)
	if err != nil {
		return info, err
	}

	data, err := json.Marshal(info)
	if err == nil {
		err = c.client.Set(ctx, key, data, c.ttl).Err()
	}
	if err != nil {
		c.log.Warn("lookup cache write failed", zap.String("key", key), zap.Error(err))
	}
	return info, nil
}

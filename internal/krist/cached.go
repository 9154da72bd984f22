package krist

import (
	"context"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

const reserveCacheKey = "reserve:v1:balance"

// CachedOracle wraps another oracle with a Redis-backed TTL cache so that hot
// paths do not hit the node on every issuance check.
type CachedOracle struct {
	next  ReserveOracle
	cache *redis.Client
	ttl   time.Duration
}

// NewCachedOracle caches next's answers in cache for ttl.
func NewCachedOracle(next ReserveOracle, cache *redis.Client, ttl time.Duration) *CachedOracle {
	return &CachedOracle{next: next, cache: cache, ttl: ttl}
}

// ReserveBalance returns the cached balance, refreshing it from the wrapped
// oracle on a miss. A cache write failure is ignored; a stale reserve reading
// is preferable to failing the transaction.
func (o *CachedOracle) ReserveBalance(ctx context.Context) (int64, error) {
	cached, err := o.cache.Get(ctx, reserveCacheKey).Result()
	if err == nil {
		if balance, parseErr := strconv.ParseInt(cached, 10, 64); parseErr == nil {
			return balance, nil
		}
	} else if err != redis.Nil {
		return 0, err
	}

	balance, err := o.next.ReserveBalance(ctx)
	if err != nil {
		return 0, err
	}

	_ = o.cache.Set(ctx, reserveCacheKey, strconv.FormatInt(balance, 10), o.ttl).Err()

	return balance, nil
}

package auth

import (
	"context"
	"log"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisRevocationChecker wraps a TokenStore and treats any token whose
// lookup digest appears under "revoked:<digest>" in Redis as not found,
// independent of what the underlying store says.
type RedisRevocationChecker struct {
	inner TokenStore
	rdb   *redis.Client
}

// NewRedisRevocationChecker parses redisURL and wraps store. Returns store
// unwrapped if redisURL is empty (the feature is optional).
func NewRedisRevocationChecker(redisURL string, store TokenStore) TokenStore {
	if redisURL == "" {
		return store
	}
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		log.Printf("[auth] invalid REDIS_URL, revocation checking disabled: %v", err)
		return store
	}
	return &RedisRevocationChecker{
		inner: store,
		rdb:   redis.NewClient(opts),
	}
}

func (r *RedisRevocationChecker) Lookup(ctx context.Context, token string) (Principal, bool, error) {
	digest := lookupDigest(token)
	n, err := r.rdb.Exists(ctx, "revoked:"+digest).Result()
	if err != nil {
		log.Printf("[auth] revocation check failed, falling back to store result: %v", err)
	} else if n > 0 {
		return Principal{}, false, nil
	}
	return r.inner.Lookup(ctx, token)
}

// Revoke marks a token's digest as revoked until TokenExpiresAt would have
// elapsed naturally; callers pass the same ttl they used when issuing it.
func (r *RedisRevocationChecker) Revoke(ctx context.Context, token string, ttlSeconds int) error {
	digest := lookupDigest(token)
	return r.rdb.Set(ctx, "revoked:"+digest, "1", time.Duration(ttlSeconds)*time.Second).Err()
}

/*
# Module: storage/cache.go
Redis read-through, write-through cache in front of a profile repository.

## Linked Modules
- [storage/repository](./repository.go) - Repository interface

## Tags
storage, redis, cache

## Exports
CacheClient, CachedProfileRepository, NewCachedProfileRepository, NewRedisClient

<!-- LinkedDoc RDF -->
@prefix code: <https://schema.codedoc.org/> .
<this> a code:Module ;
    code:name "storage/cache.go" ;
    code:description "Redis read-through, write-through cache in front of a profile repository" ;
    code:linksTo [
        code:name "storage/repository" ;
        code:path "./repository.go" ;
        code:relationship "Repository interface"
    ] ;
    code:exports :CacheClient, :CachedProfileRepository, :NewCachedProfileRepository, :NewRedisClient ;
    code:tags "storage", "redis", "cache" .
<!-- End LinkedDoc RDF -->
*/
package storage

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/pavelanni/NightSky/types"
)

const profileCacheNamespace = "profile"

// CacheClient is the part of redis.Cmdable the cache uses
type CacheClient interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
	Del(ctx context.Context, keys ...string) *redis.IntCmd
}

// NewRedisClient builds a single-node client
func NewRedisClient(addr, password string) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       0,
	})
}

// CachedProfileRepository serves loads from Redis and falls back to the
// wrapped repository. Cache failures are logged and never fail a request;
// the wrapped repository stays the source of truth.
type CachedProfileRepository struct {
	next   ProfileRepository
	cache  CacheClient
	ttl    time.Duration
	logger *zap.Logger
}

// NewCachedProfileRepository wraps next with a Redis cache
func NewCachedProfileRepository(next ProfileRepository, cache CacheClient, ttl time.Duration, logger *zap.Logger) *CachedProfileRepository {
	return &CachedProfileRepository{
		next:   next,
		cache:  cache,
		ttl:    ttl,
		logger: logger,
	}
}

func cacheKey(userID string) string {
	return profileCacheNamespace + ":" + userID
}

// Load returns the cached profile or loads and caches it
func (r *CachedProfileRepository) Load(ctx context.Context, userID string) (*types.LocationProfile, error) {
	key := cacheKey(userID)

	raw, err := r.cache.Get(ctx, key).Bytes()
	switch {
	case err == nil:
		var p types.LocationProfile
		if jsonErr := json.Unmarshal(raw, &p); jsonErr == nil && p.UserID == userID && p.IsResolved() {
			return &p, nil
		}
		r.logger.Warn("⚠️  Dropping corrupt cached profile", zap.String("user_id", userID))
		r.evict(ctx, key)
	case errors.Is(err, redis.Nil):
	default:
		r.logger.Warn("⚠️  Profile cache read failed", zap.String("user_id", userID), zap.Error(err))
	}

	p, err := r.next.Load(ctx, userID)
	if err != nil {
		return nil, err
	}
	r.store(ctx, *p)
	return p, nil
}

// Save writes to the wrapped repository first, then refreshes the cache so a
// following Load in the same session sees the new profile.
func (r *CachedProfileRepository) Save(ctx context.Context, profile types.LocationProfile) error {
	if err := r.next.Save(ctx, profile); err != nil {
		r.evict(ctx, cacheKey(profile.UserID))
		return err
	}
	r.store(ctx, profile)
	return nil
}

func (r *CachedProfileRepository) store(ctx context.Context, p types.LocationProfile) {
	data, err := json.Marshal(p)
	if err != nil {
		r.logger.Warn("⚠️  Failed to encode profile for cache", zap.Error(err))
		return
	}
	if err := r.cache.Set(ctx, cacheKey(p.UserID), data, r.ttl).Err(); err != nil {
		r.logger.Warn("⚠️  Profile cache write failed", zap.String("user_id", p.UserID), zap.Error(err))
	}
}

func (r *CachedProfileRepository) evict(ctx context.Context, key string) {
	if err := r.cache.Del(ctx, key).Err(); err != nil {
		r.logger.Warn("⚠️  Profile cache evict failed", zap.String("key", key), zap.Error(err))
	}
}

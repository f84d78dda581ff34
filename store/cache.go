package store

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// CachingRepository decorates a Repository with a Redis read-through cache for Get.
// Snapshots never change once saved, so entries are written on Save and never invalidated;
// the TTL only bounds memory.
type CachingRepository struct {
	inner     Repository
	rdb       *redis.Client
	ttl       time.Duration
	namespace string
	logger    *zap.Logger
}

// NewCachingRepository wraps inner. A nil rdb disables caching. If ttl is 0 it defaults to
// 10 minutes; an empty namespace becomes "curves".
func NewCachingRepository(rdb *redis.Client, ttl time.Duration, inner Repository, namespace string, logger *zap.Logger) *CachingRepository {
	if ttl <= 0 {
		ttl = 10 * time.Minute
	}
	if namespace == "" {
		namespace = "curves"
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CachingRepository{
		inner:     inner,
		rdb:       rdb,
		ttl:       ttl,
		namespace: namespace,
		logger:    logger,
	}
}

// NewRedisClient connects to addr and pings it.
func NewRedisClient(ctx context.Context, addr, password string, db int) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, err
	}
	return rdb, nil
}

// Save persists snap and primes the cache.
func (c *CachingRepository) Save(ctx context.Context, snap *Snapshot) error {
	if err := c.inner.Save(ctx, snap); err != nil {
		return err
	}
	if c.rdb == nil {
		return nil
	}
	c.put(ctx, snap)
	return nil
}

// Get checks the cache first and falls back to the inner repository.
func (c *CachingRepository) Get(ctx context.Context, id string) (*Snapshot, error) {
	if c.rdb == nil {
		return c.inner.Get(ctx, id)
	}

	key := c.cacheKey(id)
	if b, err := c.rdb.Get(ctx, key).Bytes(); err == nil && len(b) > 0 {
		var snap Snapshot
		if err := json.Unmarshal(b, &snap); err == nil {
			return &snap, nil
		}
		// Corrupted entry
		_ = c.rdb.Del(ctx, key).Err()
	}

	snap, err := c.inner.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	c.put(ctx, snap)
	return snap, nil
}

// List always reads through to the inner repository.
func (c *CachingRepository) List(ctx context.Context, limit int) ([]Snapshot, error) {
	return c.inner.List(ctx, limit)
}

// put is best effort: a cache failure never fails the request.
func (c *CachingRepository) put(ctx context.Context, snap *Snapshot) {
	b, err := json.Marshal(snap)
	if err != nil {
		return
	}
	if err := c.rdb.Set(ctx, c.cacheKey(snap.ID), b, c.ttl).Err(); err != nil {
		c.logger.Warn("curve cache write failed", zap.String("id", snap.ID), zap.Error(err))
	}
}

func (c *CachingRepository) cacheKey(id string) string {
	return c.namespace + ":" + id
}

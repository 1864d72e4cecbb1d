// Package cache keeps per-user application lists in Redis. Every method is
// safe on a nil receiver, which is how caching is disabled.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/spec-kit/job-tracker/internal/domain"
)

const (
	keyPrefix = "applications:"
	genSuffix = ":gen"
)

var errStale = errors.New("cache generation changed")

// Applications caches list results as one Redis hash per owner with one
// field per status filter.
type Applications struct {
	client *redis.Client
	ttl    time.Duration
	logger *zap.Logger
}

// NewApplications returns nil when client is nil.
func NewApplications(client *redis.Client, ttl time.Duration, logger *zap.Logger) *Applications {
	if client == nil {
		return nil
	}
	return &Applications{client: client, ttl: ttl, logger: logger}
}

// Key returns the hash key holding userID's lists.
func Key(userID string) string {
	return keyPrefix + userID
}

// GenerationKey returns the counter bumped on every invalidation of userID.
// It carries no TTL; an expired counter would let a stale fill through.
func GenerationKey(userID string) string {
	return keyPrefix + userID + genSuffix
}

// Field returns the hash field for a status filter. The empty status is "all".
func Field(status domain.Status) string {
	if status == "" {
		return domain.StatusAll
	}
	return string(status)
}

// Get returns the cached list and whether it was present.
func (c *Applications) Get(ctx context.Context, userID string, status domain.Status) ([]domain.Application, bool) {
	if c == nil {
		return nil, false
	}
	raw, err := c.client.HGet(ctx, Key(userID), Field(status)).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			c.logger.Warn("application cache read failed", zap.String("user_id", userID), zap.Error(err))
		}
		return nil, false
	}
	var apps []domain.Application
	if err := json.Unmarshal(raw, &apps); err != nil {
		c.logger.Warn("application cache entry corrupt", zap.String("user_id", userID), zap.Error(err))
		return nil, false
	}
	return apps, true
}

// Generation reads userID's invalidation counter. Callers take it before
// querying the store and hand it to Set. ok is false when Redis cannot be
// read, in which case the result must not be cached.
func (c *Applications) Generation(ctx context.Context, userID string) (gen int64, ok bool) {
	if c == nil {
		return 0, false
	}
	gen, err := c.client.Get(ctx, GenerationKey(userID)).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, true
	}
	if err != nil {
		c.logger.Warn("application cache generation read failed", zap.String("user_id", userID), zap.Error(err))
		return 0, false
	}
	return gen, true
}

// Set stores a list read at generation gen and refreshes the owner's hash
// TTL. The write is dropped when an invalidation happened since gen was read.
func (c *Applications) Set(ctx context.Context, userID string, status domain.Status, gen int64, apps []domain.Application) {
	if c == nil {
		return
	}
	raw, err := json.Marshal(apps)
	if err != nil {
		c.logger.Warn("application cache encode failed", zap.Error(err))
		return
	}
	key, genKey := Key(userID), GenerationKey(userID)
	err = c.client.Watch(ctx, func(tx *redis.Tx) error {
		current, err := tx.Get(ctx, genKey).Int64()
		if err != nil && !errors.Is(err, redis.Nil) {
			return err
		}
		if current != gen {
			return errStale
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.HSet(ctx, key, Field(status), raw)
			if c.ttl > 0 {
				pipe.Expire(ctx, key, c.ttl)
			}
			return nil
		})
		return err
	}, genKey)
	switch {
	case err == nil:
	case errors.Is(err, errStale), errors.Is(err, redis.TxFailedErr):
		c.logger.Debug("application cache fill skipped after invalidation", zap.String("user_id", userID))
	default:
		c.logger.Warn("application cache write failed", zap.String("user_id", userID), zap.Error(err))
	}
}

// Invalidate drops every cached list of userID and bumps its generation so
// fills started before the call are discarded.
func (c *Applications) Invalidate(ctx context.Context, userID string) {
	if c == nil {
		return
	}
	_, err := c.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Incr(ctx, GenerationKey(userID))
		pipe.Del(ctx, Key(userID))
		return nil
	})
	if err != nil {
		c.logger.Warn("application cache invalidation failed", zap.String("user_id", userID), zap.Error(err))
	}
}

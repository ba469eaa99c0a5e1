package repository

import (
	"context"
	"fmt"
	"ravencode_backend/pkg/logger"
	"time"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

// ContentCache keeps assembled lesson content in Redis. A nil client turns
// every call into a miss.
type ContentCache struct {
	Client *redis.Client
	TTL    time.Duration
}

func NewContentCache(client *redis.Client, ttl time.Duration) *ContentCache {
	return &ContentCache{Client: client, TTL: ttl}
}

func contentKey(theoryID uint) string {
	return fmt.Sprintf("lesson_content:%d", theoryID)
}

func (c *ContentCache) Get(ctx context.Context, theoryID uint) (string, bool) {
	if c == nil || c.Client == nil {
		return "", false
	}
	val, err := c.Client.Get(ctx, contentKey(theoryID)).Result()
	if err != nil {
		if err != redis.Nil {
			logger.Log.Warn("content cache read failed", zap.Uint("theory_id", theoryID), zap.Error(err))
		}
		return "", false
	}
	return val, true
}

func (c *ContentCache) Set(ctx context.Context, theoryID uint, content string) {
	if c == nil || c.Client == nil {
		return
	}
	if err := c.Client.Set(ctx, contentKey(theoryID), content, c.TTL).Err(); err != nil {
		logger.Log.Warn("content cache write failed", zap.Uint("theory_id", theoryID), zap.Error(err))
	}
}

// Invalidate drops cached content, used after seeding replaces pages.
func (c *ContentCache) Invalidate(ctx context.Context, theoryIDs ...uint) {
	if c == nil || c.Client == nil || len(theoryIDs) == 0 {
		return
	}
	keys := make([]string, len(theoryIDs))
	for i, id := range theoryIDs {
		keys[i] = contentKey(id)
	}
	if err := c.Client.Del(ctx, keys...).Err(); err != nil {
		logger.Log.Warn("content cache invalidate failed", zap.Error(err))
	}
}

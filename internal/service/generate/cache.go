package generate

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/ashwinyue/edu-ai/internal/model"
)

// cacheKeyPrefix Redis key 前缀
const cacheKeyPrefix = "edu-ai:generation:"

// ResultCache 生成结果缓存
type ResultCache interface {
	Get(ctx context.Context, fileID string, kind model.GenerationKind) (string, bool, error)
	Set(ctx context.Context, fileID string, kind model.GenerationKind, content string) error
	Delete(ctx context.Context, fileID string) error
}

// RedisCache 基于 Redis 的结果缓存
type RedisCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisCache 创建 Redis 缓存
func NewRedisCache(client *redis.Client, ttl time.Duration) *RedisCache {
	return &RedisCache{client: client, ttl: ttl}
}

func cacheKey(fileID string, kind model.GenerationKind) string {
	return cacheKeyPrefix + fileID + ":" + string(kind)
}

// Get 读取缓存，未命中时返回 false
func (c *RedisCache) Get(ctx context.Context, fileID string, kind model.GenerationKind) (string, bool, error) {
	val, err := c.client.Get(ctx, cacheKey(fileID, kind)).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("failed to read cache: %w", err)
	}
	return val, true, nil
}

// Set 写入缓存
func (c *RedisCache) Set(ctx context.Context, fileID string, kind model.GenerationKind, content string) error {
	if err := c.client.Set(ctx, cacheKey(fileID, kind), content, c.ttl).Err(); err != nil {
		return fmt.Errorf("failed to write cache: %w", err)
	}
	return nil
}

// Delete 删除文件的所有缓存结果
func (c *RedisCache) Delete(ctx context.Context, fileID string) error {
	keys := []string{
		cacheKey(fileID, model.GenerationKindSummary),
		cacheKey(fileID, model.GenerationKindQA),
	}
	if err := c.client.Del(ctx, keys...).Err(); err != nil {
		return fmt.Errorf("failed to delete cache: %w", err)
	}
	return nil
}

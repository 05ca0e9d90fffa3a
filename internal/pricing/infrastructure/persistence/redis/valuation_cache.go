// 包 redis 估值结果的 Redis 缓存。
// 以请求指纹为键，相同请求在 TTL 内直接命中，不重复计算。
package redis

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

// ErrCacheMiss 缓存未命中
var ErrCacheMiss = errors.New("valuation cache miss")

// ValuationCache 估值结果缓存
type ValuationCache struct {
	client redis.UniversalClient
	prefix string
	ttl    time.Duration
}

// NewValuationCache 创建估值缓存，ttl<=0 时默认 15 分钟
func NewValuationCache(client redis.UniversalClient, ttl time.Duration) *ValuationCache {
	if ttl <= 0 {
		ttl = 15 * time.Minute
	}
	return &ValuationCache{
		client: client,
		prefix: "valuation:",
		ttl:    ttl,
	}
}

// Store 缓存估值结果
func (c *ValuationCache) Store(ctx context.Context, fingerprint string, value any) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, c.prefix+fingerprint, data, c.ttl).Err()
}

// Load 按指纹读取估值结果，未命中返回 ErrCacheMiss
func (c *ValuationCache) Load(ctx context.Context, fingerprint string, dest any) error {
	data, err := c.client.Get(ctx, c.prefix+fingerprint).Bytes()
	if errors.Is(err, redis.Nil) {
		return ErrCacheMiss
	}
	if err != nil {
		return err
	}
	return json.Unmarshal(data, dest)
}

// Invalidate 删除指定指纹的缓存
func (c *ValuationCache) Invalidate(ctx context.Context, fingerprints ...string) error {
	if len(fingerprints) == 0 {
		return nil
	}
	keys := make([]string, 0, len(fingerprints))
	for _, fp := range fingerprints {
		keys = append(keys, c.prefix+fp)
	}
	return c.client.Del(ctx, keys...).Err()
}

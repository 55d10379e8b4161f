package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/allegro/bigcache/v3"
	"github.com/wyfcoding/geodesic/config"
)

// BigCache 实现了 `Cache` 接口，使用 `allegro/bigcache` 作为底层存储。
// BigCache 对所有条目使用统一的过期时间（LifeWindow）。
type BigCache struct {
	cache *bigcache.BigCache
}

// NewBigCache 根据配置创建 BigCache。
func NewBigCache(cfg config.CacheConfig) (*BigCache, error) {
	bc := bigcache.DefaultConfig(cfg.LifeWindow)
	if cfg.Shards > 0 {
		bc.Shards = cfg.Shards
	}
	if cfg.CleanWindow > 0 {
		bc.CleanWindow = cfg.CleanWindow
	}
	if cfg.MaxEntrySize > 0 {
		bc.MaxEntrySize = cfg.MaxEntrySize
	}
	bc.HardMaxCacheSize = cfg.HardMaxCacheSize // MB
	bc.Verbose = false

	cache, err := bigcache.New(context.Background(), bc)
	if err != nil {
		return nil, fmt.Errorf("init bigcache failed: %w", err)
	}

	return &BigCache{cache: cache}, nil
}

// Get 从 BigCache 中获取指定键的值，value 必须是指针。未命中返回 ErrMiss。
func (c *BigCache) Get(ctx context.Context, key string, value any) error {
	data, err := c.cache.Get(key)
	if err != nil {
		if errors.Is(err, bigcache.ErrEntryNotFound) {
			return fmt.Errorf("%w: %s", ErrMiss, key)
		}
		return err
	}
	return json.Unmarshal(data, value)
}

// Set 将值 JSON 序列化后写入。BigCache 不支持单键过期时间，expiration 被忽略。
func (c *BigCache) Set(ctx context.Context, key string, value any, expiration time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return c.cache.Set(key, data)
}

// Delete 删除一个或多个键，键不存在时不报错。
func (c *BigCache) Delete(ctx context.Context, keys ...string) error {
	for _, key := range keys {
		if err := c.cache.Delete(key); err != nil && !errors.Is(err, bigcache.ErrEntryNotFound) {
			return err
		}
	}
	return nil
}

// Exists 检查是否存在指定的键。
func (c *BigCache) Exists(ctx context.Context, key string) (bool, error) {
	_, err := c.cache.Get(key)
	if err == nil {
		return true, nil
	}
	if errors.Is(err, bigcache.ErrEntryNotFound) {
		return false, nil
	}
	return false, err
}

// Len 返回当前条目数。
func (c *BigCache) Len() int {
	return c.cache.Len()
}

// Close 关闭 BigCache 实例，释放其占用的资源。
func (c *BigCache) Close() error {
	return c.cache.Close()
}

// Package cache 提供了结果缓存抽象与基于 BigCache 的本地实现，并用 singleflight 合并并发的同键加载。
package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"time"

	"golang.org/x/sync/singleflight"
)

// ErrMiss 表示缓存中不存在指定的键。
var ErrMiss = errors.New("cache miss")

// Cache 定义缓存接口。value 以 JSON 序列化存储。
type Cache interface {
	Get(ctx context.Context, key string, value any) error
	Set(ctx context.Context, key string, value any, expiration time.Duration) error
	Delete(ctx context.Context, keys ...string) error
	Exists(ctx context.Context, key string) (bool, error)
	Close() error
}

// Key 把任意可序列化的请求参数哈希为定长缓存键，prefix 用于区分操作。
func Key(prefix string, params any) (string, error) {
	data, err := json.Marshal(params)
	if err != nil {
		return "", err
	}
	sum := sha256.Sum256(data)
	return prefix + ":" + hex.EncodeToString(sum[:16]), nil
}

// Loader 在缓存之上合并相同键的并发加载。
type Loader[T any] struct {
	cache Cache
	group singleflight.Group
	ttl   time.Duration

	// OnLookup 在每次查找后回调，hit 表示是否命中缓存。
	OnLookup func(hit bool)
}

// NewLoader 创建一个 Loader。cache 为 nil 时每次都直接调用加载函数。
func NewLoader[T any](c Cache, ttl time.Duration) *Loader[T] {
	return &Loader[T]{cache: c, ttl: ttl}
}

// Get 先查缓存，未命中时调用 load 并回写。回写失败不影响返回值。
func (l *Loader[T]) Get(ctx context.Context, key string, load func(context.Context) (T, error)) (T, error) {
	if l.cache == nil {
		return load(ctx)
	}

	var cached T
	if err := l.cache.Get(ctx, key, &cached); err == nil {
		l.observe(true)
		return cached, nil
	}
	l.observe(false)

	v, err, _ := l.group.Do(key, func() (any, error) {
		res, err := load(ctx)
		if err != nil {
			return res, err
		}
		_ = l.cache.Set(ctx, key, res, l.ttl)
		return res, nil
	})
	if err != nil {
		var zero T
		return zero, err
	}
	return v.(T), nil
}

func (l *Loader[T]) observe(hit bool) {
	if l.OnLookup != nil {
		l.OnLookup(hit)
	}
}

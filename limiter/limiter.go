// Package limiter 提供了基于令牌桶的本地限流器。
package limiter

import (
	"context"
	"sync"

	"golang.org/x/time/rate"
)

// Limiter 定义了限流器的通用行为。
type Limiter interface {
	Allow(ctx context.Context, key string) (bool, error) // 检查是否允许请求通过。
}

// LocalLimiter 是进程内全局共享的令牌桶限流器，忽略 key。
type LocalLimiter struct {
	limiter *rate.Limiter
}

// NewLocalLimiter 创建 LocalLimiter。r 为每秒令牌数，b 为桶容量（允许的瞬时突发）。
func NewLocalLimiter(r rate.Limit, b int) *LocalLimiter {
	return &LocalLimiter{limiter: rate.NewLimiter(r, b)}
}

// Allow 尝试取一个令牌，桶空时返回 false。
func (l *LocalLimiter) Allow(ctx context.Context, key string) (bool, error) {
	return l.limiter.Allow(), nil
}

// defaultMaxKeys 是 KeyedLimiter 默认跟踪的最大 key 数。
const defaultMaxKeys = 10000

// KeyedLimiter 为每个 key（通常是客户端 IP）维护独立的令牌桶。
// 跟踪的 key 超过上限时整体清空重建。
type KeyedLimiter struct {
	mu       sync.Mutex
	limiters map[string]*rate.Limiter
	r        rate.Limit
	b        int
	maxKeys  int
}

// NewKeyedLimiter 创建 KeyedLimiter，maxKeys <= 0 时使用默认上限。
func NewKeyedLimiter(r rate.Limit, b, maxKeys int) *KeyedLimiter {
	if maxKeys <= 0 {
		maxKeys = defaultMaxKeys
	}
	return &KeyedLimiter{limiters: make(map[string]*rate.Limiter), r: r, b: b, maxKeys: maxKeys}
}

// Allow 检查 key 对应的令牌桶。
func (l *KeyedLimiter) Allow(ctx context.Context, key string) (bool, error) {
	l.mu.Lock()
	lim, ok := l.limiters[key]
	if !ok {
		if len(l.limiters) >= l.maxKeys {
			clear(l.limiters)
		}
		lim = rate.NewLimiter(l.r, l.b)
		l.limiters[key] = lim
	}
	l.mu.Unlock()
	return lim.Allow(), nil
}

// Len 返回当前跟踪的 key 数。
func (l *KeyedLimiter) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.limiters)
}

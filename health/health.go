// Package health 提供依赖健康检查的注册与 /healthz 处理器。
package health

import (
	"context"
	"net/http"
	"slices"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sourcegraph/conc/iter"
)

const defaultTimeout = 2 * time.Second

// Checker 定义健康检查函数原型。
type Checker func(ctx context.Context) error

// Result 是单项检查结果。
type Result struct {
	Name  string `json:"name"`
	OK    bool   `json:"ok"`
	Error string `json:"error,omitempty"`
}

// Registry 按名称保存健康检查项。
type Registry struct {
	mu       sync.RWMutex
	checkers map[string]Checker
	timeout  time.Duration
}

// NewRegistry 创建检查注册表，timeout <= 0 时使用 2 秒。
func NewRegistry(timeout time.Duration) *Registry {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Registry{checkers: make(map[string]Checker), timeout: timeout}
}

// Register 注册或替换一个检查项。
func (r *Registry) Register(name string, c Checker) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.checkers[name] = c
}

// Check 并发执行所有检查项，结果按名称排序。
func (r *Registry) Check(ctx context.Context) []Result {
	r.mu.RLock()
	names := make([]string, 0, len(r.checkers))
	for name := range r.checkers {
		names = append(names, name)
	}
	checkers := make(map[string]Checker, len(r.checkers))
	for k, v := range r.checkers {
		checkers[k] = v
	}
	r.mu.RUnlock()
	slices.Sort(names)

	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	return iter.Map(names, func(name *string) Result {
		res := Result{Name: *name, OK: true}
		if err := checkers[*name](ctx); err != nil {
			res.OK = false
			res.Error = err.Error()
		}
		return res
	})
}

// Handler 返回 gin 处理器，全部通过时 200，否则 503。
func (r *Registry) Handler() gin.HandlerFunc {
	return func(c *gin.Context) {
		results := r.Check(c.Request.Context())
		status := http.StatusOK
		for _, res := range results {
			if !res.OK {
				status = http.StatusServiceUnavailable
				break
			}
		}
		c.JSON(status, gin.H{"status": http.StatusText(status), "checks": results})
	}
}

package middleware

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"runtime/debug"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	"github.com/wyfcoding/geodesic/contextx"
	"github.com/wyfcoding/geodesic/limiter"
	"github.com/wyfcoding/geodesic/response"
	"github.com/wyfcoding/geodesic/xerrors"
)

// Recovery 捕获处理器中的 panic，记录堆栈并返回 500。
func Recovery(logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			r := recover()
			if r == nil {
				return
			}
			ctx := c.Request.Context()
			logger.ErrorContext(ctx, "panic recovered", append(contextx.LogAttrs(ctx),
				"error", r,
				"method", c.Request.Method,
				"path", c.Request.URL.Path,
				"stack", string(debug.Stack()),
			)...)
			abort(c, xerrors.ErrPanic.Clone().WithContext("panic", fmt.Sprint(r)))
		}()
		c.Next()
	}
}

// HTTPErrorHandler 在处理器通过 c.Error 标注错误且尚未写响应时，输出统一错误响应。
func HTTPErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()
		if len(c.Errors) > 0 && !c.Writer.Written() {
			response.Error(c, c.Errors.Last().Err)
		}
	}
}

// MaxBodyBytes 限制请求体大小。声明的 Content-Length 超限时直接拒绝，
// 否则包装 Body 使读取越界时报错。limit <= 0 时不生效。
func MaxBodyBytes(limit int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		if limit > 0 {
			if c.Request.ContentLength > limit {
				abort(c, xerrors.ErrBodyTooLarge.Clone().WithContext("limit", limit))
				return
			}
			c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, limit)
		}
		c.Next()
	}
}

// TimeoutMiddleware 为请求上下文设置截止时间。
// 处理器需自行检查 ctx.Err() 并返回 xerrors.ErrTimeout；处理器未写响应就返回时由这里补写 504。
func TimeoutMiddleware(d time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		if d <= 0 {
			c.Next()
			return
		}
		ctx, cancel := context.WithTimeout(c.Request.Context(), d)
		defer cancel()
		c.Request = c.Request.WithContext(ctx)

		c.Next()

		if errors.Is(ctx.Err(), context.DeadlineExceeded) && !c.Writer.Written() {
			abort(c, xerrors.ErrTimeout.Clone().WithContext("timeout", d.String()))
		}
	}
}

// RateLimit 以客户端 IP 为 key 限流。限流器出错时放行并记录日志。
func RateLimit(l limiter.Limiter) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		key := c.ClientIP()
		allowed, err := l.Allow(ctx, key)
		if err != nil {
			slog.ErrorContext(ctx, "rate limiter failed, request allowed", "key", key, "error", err)
		} else if !allowed {
			slog.WarnContext(ctx, "request rejected by rate limiter", "key", key, "path", c.Request.URL.Path)
			abort(c, xerrors.ErrRateLimited.Clone().WithContext("client_ip", key))
			return
		}
		c.Next()
	}
}

// NewLocalRateLimitMiddleware 创建按客户端 IP 独立计数的本地令牌桶限流。
// limit 为每秒请求数，burst 为突发容量。
func NewLocalRateLimitMiddleware(limit, burst int) gin.HandlerFunc {
	return RateLimit(limiter.NewKeyedLimiter(rate.Limit(limit), burst, 0))
}

func abort(c *gin.Context, err *xerrors.Error) {
	_ = c.Error(err)
	response.Error(c, err)
	c.Abort()
}

package middleware

import (
	"log/slog"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/wyfcoding/geodesic/contextx"
)

// Logger 访问日志中间件。耗时超过 slowThreshold（>0）的请求以 Warn 级别记录，
// 处理器通过 c.Error 标注的错误一并输出。trace_id/span_id 由 logging.TraceHandler 注入。
func Logger(logger *slog.Logger, slowThreshold time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path, query := c.Request.URL.Path, c.Request.URL.RawQuery

		c.Next()

		ctx := c.Request.Context()
		cost := time.Since(start)
		args := append(contextx.LogAttrs(ctx),
			"status", c.Writer.Status(),
			"method", c.Request.Method,
			"path", path,
			"query", query,
			"size", c.Writer.Size(),
			"cost", cost,
		)
		if errs := c.Errors.ByType(gin.ErrorTypeAny); len(errs) > 0 {
			args = append(args, "errors", errs.String())
		}

		msg, level := "HTTP Request", slog.LevelInfo
		if slowThreshold > 0 && cost > slowThreshold {
			msg, level = "HTTP Request (slow)", slog.LevelWarn
		}
		logger.Log(ctx, level, msg, args...)
	}
}

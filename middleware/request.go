// Package middleware 提供了 geodesic HTTP 服务使用的 Gin 中间件.
package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"github.com/wyfcoding/geodesic/contextx"
	"github.com/wyfcoding/geodesic/idgen"
	"github.com/wyfcoding/geodesic/tracing"
)

const (
	HeaderXRequestID = "X-Request-ID"
	HeaderXTraceID   = "X-Trace-ID"
)

// RequestContext 把请求 ID、客户端 IP 与 UA 写入请求上下文。
// 请求头缺少 X-Request-ID 时用分布式 ID 生成，并回写到响应头。
func RequestContext() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(HeaderXRequestID)
		if id == "" {
			id = idgen.GenRequestID()
		}
		c.Header(HeaderXRequestID, id)
		c.Request = c.Request.WithContext(contextx.WithMeta(c.Request.Context(), contextx.Meta{
			RequestID: id,
			ClientIP:  c.ClientIP(),
			UserAgent: c.Request.UserAgent(),
		}))
		c.Next()
	}
}

// Tracing 为每个请求创建 OpenTelemetry Span 并回写 X-Trace-ID，skipPaths 中的路径不追踪。
func Tracing(serviceName string, skipPaths ...string) gin.HandlerFunc {
	skip := pathSet(skipPaths)
	return otelgin.Middleware(serviceName, otelgin.WithFilter(func(r *http.Request) bool {
		_, ok := skip[r.URL.Path]
		return !ok
	}))
}

// TraceIDHeader 在响应头中写入当前 Trace ID，需放在 Tracing 之后。
func TraceIDHeader() gin.HandlerFunc {
	return func(c *gin.Context) {
		if id := tracing.GetTraceID(c.Request.Context()); id != "" {
			c.Header(HeaderXTraceID, id)
		}
		c.Next()
	}
}

func pathSet(paths []string) map[string]struct{} {
	set := make(map[string]struct{}, len(paths))
	for _, p := range paths {
		set[p] = struct{}{}
	}
	return set
}

package middleware

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/wyfcoding/geodesic/metrics"
)

// MetricsOptions 定义指标中间件的可选参数。
type MetricsOptions struct {
	SkipPaths []string // 不采集的路由模板，如 /healthz
}

// HTTPMetricsMiddleware 按路由模板采集请求数与耗时，未匹配的路由记为 unmatched。
func HTTPMetricsMiddleware(m *metrics.Metrics, opts MetricsOptions) gin.HandlerFunc {
	skip := pathSet(opts.SkipPaths)
	return func(c *gin.Context) {
		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		if _, ok := skip[route]; ok || m == nil {
			c.Next()
			return
		}

		start := time.Now()
		c.Next()
		elapsed := time.Since(start).Seconds()

		method := c.Request.Method
		m.HTTPRequestsTotal.WithLabelValues(method, route, strconv.Itoa(c.Writer.Status())).Inc()
		m.HTTPRequestDuration.WithLabelValues(method, route).Observe(elapsed)
	}
}

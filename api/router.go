package api

import (
	"log/slog"

	"github.com/gin-gonic/gin"

	"github.com/wyfcoding/geodesic/config"
	"github.com/wyfcoding/geodesic/health"
	"github.com/wyfcoding/geodesic/metrics"
	"github.com/wyfcoding/geodesic/middleware"
	"github.com/wyfcoding/geodesic/server"
)

// NewRouter 组装中间件链并挂载业务接口、/healthz 与指标端点。
func NewRouter(cfg *config.Config, h *Handler, m *metrics.Metrics, checks *health.Registry, logger *slog.Logger) (*gin.Engine, error) {
	chain := []gin.HandlerFunc{
		middleware.Recovery(logger),
		middleware.RequestContext(),
	}
	metricsPath := cfg.Metrics.Path
	if metricsPath == "" {
		metricsPath = "/metrics"
	}
	if cfg.Tracing.Enabled {
		chain = append(chain, middleware.Tracing(cfg.Tracing.ServiceName, "/healthz", metricsPath), middleware.TraceIDHeader())
	}
	chain = append(chain,
		middleware.Logger(logger, cfg.Log.SlowThreshold),
		middleware.HTTPMetricsMiddleware(m, middleware.MetricsOptions{SkipPaths: []string{"/healthz", metricsPath}}),
		middleware.MaxBodyBytes(cfg.Server.HTTP.MaxBodyBytes),
	)
	if cfg.RateLimit.Enabled {
		chain = append(chain, middleware.NewLocalRateLimitMiddleware(cfg.RateLimit.Rate, cfg.RateLimit.Burst))
	}
	chain = append(chain,
		middleware.TimeoutMiddleware(cfg.Server.HTTP.WriteTimeout),
		middleware.HTTPErrorHandler(),
	)

	engine, err := server.NewDefaultGinEngine(cfg.Server, chain...)
	if err != nil {
		return nil, err
	}

	if checks != nil {
		engine.GET("/healthz", checks.Handler())
	}
	if cfg.Metrics.Enabled && m != nil {
		engine.GET(metricsPath, gin.WrapH(m.Handler()))
	}
	h.Register(engine)
	return engine, nil
}

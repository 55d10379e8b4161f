// Package metrics 封装了基于 Prometheus 的独立指标注册表，以及 HTTP 服务与测地线计算的预定义指标。
package metrics

import (
	"log/slog"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics 持有内部注册表及预定义指标。
type Metrics struct {
	registry *prometheus.Registry // 内部独立的 Prometheus 注册中心

	HTTPRequestsTotal   *prometheus.CounterVec   // HTTP 请求总量 (维度: method, path, status)
	HTTPRequestDuration *prometheus.HistogramVec // HTTP 请求耗时分布
	BuildInfo           *prometheus.GaugeVec     // 构建信息，恒为 1

	PointsGenerated *prometheus.CounterVec // 生成的顶点数 (维度: operation)
	LinesSplit      prometheus.Counter     // 被切分成多段的折线条数
	CacheRequests   *prometheus.CounterVec // 结果缓存命中情况 (维度: result=hit|miss)
}

// NewMetrics 初始化并返回一个新的指标采集器，自动注册 Go 运行时指标和进程指标。
func NewMetrics(serviceName string) *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector())
	reg.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	m := &Metrics{registry: reg}

	m.HTTPRequestsTotal = m.NewCounterVec(prometheus.CounterOpts{
		Name: "http_server_requests_total",
		Help: "Total number of HTTP requests",
	}, []string{"method", "path", "status"})

	m.HTTPRequestDuration = m.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "http_server_request_duration_seconds",
		Help:    "HTTP request latency in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path"})

	m.PointsGenerated = m.NewCounterVec(prometheus.CounterOpts{
		Name: "geodesic_points_generated_total",
		Help: "Total number of vertices produced by geodesic operations",
	}, []string{"operation"})

	m.LinesSplit = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "geodesic_lines_split_total",
		Help: "Total number of lines split at the antimeridian or a pole",
	})
	reg.MustRegister(m.LinesSplit)

	m.CacheRequests = m.NewCounterVec(prometheus.CounterOpts{
		Name: "geodesic_cache_requests_total",
		Help: "Result cache lookups by outcome",
	}, []string{"result"})

	slog.Info("unified metrics registry initialized", "service", serviceName)
	return m
}

// RegisterBuildInfo 注册构建信息指标，重复调用无效。
func (m *Metrics) RegisterBuildInfo(serviceName, version string) {
	if m == nil || m.BuildInfo != nil {
		return
	}
	if serviceName == "" {
		serviceName = "unknown"
	}
	if version == "" {
		version = "unknown"
	}

	m.BuildInfo = m.NewGaugeVec(prometheus.GaugeOpts{
		Name: "build_info",
		Help: "Build information for the service",
	}, []string{"service", "version"})

	m.BuildInfo.WithLabelValues(serviceName, version).Set(1)
}

// ObservePoints 累加某个操作生成的顶点数。
func (m *Metrics) ObservePoints(operation string, n int) {
	if m == nil || n <= 0 {
		return
	}
	m.PointsGenerated.WithLabelValues(operation).Add(float64(n))
}

// ObserveSplit 记录一次切分：输入 sources 条折线，输出 fragments 段。
func (m *Metrics) ObserveSplit(sources, fragments int) {
	if m == nil || fragments <= sources {
		return
	}
	m.LinesSplit.Add(float64(fragments - sources))
}

// ObserveCache 记录一次缓存查找结果。
func (m *Metrics) ObserveCache(hit bool) {
	if m == nil {
		return
	}
	result := "miss"
	if hit {
		result = "hit"
	}
	m.CacheRequests.WithLabelValues(result).Inc()
}

// NewCounterVec 创建并注册一个新的计数器指标。
func (m *Metrics) NewCounterVec(opts prometheus.CounterOpts, labelNames []string) *prometheus.CounterVec {
	cv := prometheus.NewCounterVec(opts, labelNames)
	m.registry.MustRegister(cv)
	return cv
}

// NewGaugeVec 创建并注册一个新的仪表盘指标。
func (m *Metrics) NewGaugeVec(opts prometheus.GaugeOpts, labelNames []string) *prometheus.GaugeVec {
	gv := prometheus.NewGaugeVec(opts, labelNames)
	m.registry.MustRegister(gv)
	return gv
}

// NewHistogramVec 创建并注册一个新的直方图指标。
func (m *Metrics) NewHistogramVec(opts prometheus.HistogramOpts, labelNames []string) *prometheus.HistogramVec {
	hv := prometheus.NewHistogramVec(opts, labelNames)
	m.registry.MustRegister(hv)
	return hv
}

// Registry 返回内部注册表。
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler 返回用于暴露指标的 HTTP 处理器。
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

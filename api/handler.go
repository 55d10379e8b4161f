// Package api 通过 gin 暴露测地线计算的 HTTP 接口，统一使用 {code, msg, data} 响应结构。
package api

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/sourcegraph/conc/iter"

	"github.com/wyfcoding/geodesic/cache"
	"github.com/wyfcoding/geodesic/config"
	"github.com/wyfcoding/geodesic/geo"
	"github.com/wyfcoding/geodesic/geodesic"
	"github.com/wyfcoding/geodesic/logging"
	"github.com/wyfcoding/geodesic/metrics"
	"github.com/wyfcoding/geodesic/response"
	"github.com/wyfcoding/geodesic/tracing"
	"github.com/wyfcoding/geodesic/xerrors"
)

const defaultMaxPoints = 1 << 20

// Handler 持有测地线接口的运行时参数，可通过 Reload 热更新。
type Handler struct {
	logger  *slog.Logger
	metrics *metrics.Metrics
	store   cache.Cache
	ttl     time.Duration
	loader  *cache.Loader[geo.MultiLine]

	geometry atomic.Pointer[geodesic.Geometry]
	limits   atomic.Pointer[config.GeodesicConfig]
}

// Option 定义 Handler 的可选配置项。
type Option func(*Handler)

// WithLogger 设置日志记录器。
func WithLogger(l *slog.Logger) Option {
	return func(h *Handler) { h.logger = l }
}

// WithMetrics 设置指标采集器。
func WithMetrics(m *metrics.Metrics) Option {
	return func(h *Handler) { h.metrics = m }
}

// WithCache 启用渲染结果缓存。
func WithCache(c cache.Cache, ttl time.Duration) Option {
	return func(h *Handler) {
		h.store = c
		h.ttl = ttl
	}
}

// New 创建 Handler，cfg 中非法的细分参数会直接返回错误。
func New(cfg config.GeodesicConfig, opts ...Option) (*Handler, error) {
	h := &Handler{logger: slog.Default()}
	for _, opt := range opts {
		opt(h)
	}
	h.loader = cache.NewLoader[geo.MultiLine](h.store, h.ttl)
	h.loader.OnLookup = h.metrics.ObserveCache

	if err := h.Reload(cfg); err != nil {
		return nil, err
	}
	return h, nil
}

// Reload 替换细分参数与资源上限，正在处理的请求继续使用旧值。
func (h *Handler) Reload(cfg config.GeodesicConfig) error {
	if cfg.CircleVertices == 0 {
		cfg.CircleVertices = geodesic.DefaultCircleVertices
	}
	if cfg.MaxPoints <= 0 {
		cfg.MaxPoints = defaultMaxPoints
	}
	g, err := geodesic.NewGeometry(geodesic.WithSteps(cfg.Steps), geodesic.WithCircleVertices(cfg.CircleVertices))
	if err != nil {
		return err
	}
	h.geometry.Store(g)
	h.limits.Store(&cfg)
	h.logger.Info("geodesic parameters loaded", "steps", cfg.Steps, "split", cfg.Split, "max_points", cfg.MaxPoints, "max_depth", cfg.MaxDepth)
	return nil
}

// Register 把全部接口挂载到 /v1/geodesic 下。
func (h *Handler) Register(r gin.IRouter) {
	g := r.Group("/v1/geodesic")
	g.POST("/midpoint", h.Midpoint)
	g.POST("/subdivide", h.Subdivide)
	g.POST("/linestring", h.LineString)
	g.POST("/multilinestring", h.MultiLineString)
	g.POST("/split", h.Split)
	g.POST("/statistics", h.Statistics)
	g.POST("/circle", h.Circle)
}

// Midpoint 返回两点间的大圆中点。
func (h *Handler) Midpoint(c *gin.Context) {
	var req MidpointRequest
	if !h.bind(c, &req) {
		return
	}
	if err := validPoints(geo.Line{*req.A, *req.B}); err != nil {
		h.fail(c, err)
		return
	}
	h.metrics.ObservePoints("midpoint", 1)
	response.Success(c, geodesic.Midpoint(*req.A, *req.B))
}

// Subdivide 返回按 depth 递归细分后的 1 + 2^(depth+1) 个点。
func (h *Handler) Subdivide(c *gin.Context) {
	var req SubdivideRequest
	if !h.bind(c, &req) {
		return
	}
	ctx, span := tracing.StartSpan(c.Request.Context(), "geodesic.subdivide")
	defer span.End()

	limits := h.limits.Load()
	depth := *req.Depth
	if err := validPoints(geo.Line{*req.A, *req.B}); err != nil {
		h.fail(c, err)
		return
	}
	if depth > limits.MaxDepth {
		h.fail(c, xerrors.ErrDepthTooLarge.Clone().WithContext("depth", depth).WithContext("max_depth", limits.MaxDepth))
		return
	}
	if depth >= 0 {
		if err := h.checkBudget(1 + 1<<(depth+1)); err != nil {
			h.fail(c, err)
			return
		}
	}

	line, err := geodesic.RecursiveMidpoint(*req.A, *req.B, depth)
	if err != nil {
		h.fail(c, err)
		return
	}
	tracing.AddTag(ctx, "geodesic.points", len(line))
	h.metrics.ObservePoints("subdivide", len(line))
	response.Success(c, line)
}

// LineString 加密一组航点，按需切分反子午线。
func (h *Handler) LineString(c *gin.Context) {
	var req LineStringRequest
	if !h.bind(c, &req) {
		return
	}
	h.renderLines(c, "linestring", geo.MultiLine{req.Points}, req.Steps, req.Split, false)
}

// MultiLineString 并发加密每组航点，结果保持输入顺序。
func (h *Handler) MultiLineString(c *gin.Context) {
	var req MultiLineStringRequest
	if !h.bind(c, &req) {
		return
	}
	h.renderLines(c, "multilinestring", req.Lines, req.Steps, req.Split, req.Unwrap)
}

// Split 只切分输入折线，不做加密。
func (h *Handler) Split(c *gin.Context) {
	var req LinesRequest
	if !h.bind(c, &req) {
		return
	}
	ctx, span := tracing.StartSpan(c.Request.Context(), "geodesic.split")
	defer span.End()

	if err := validLines(req.Lines); err != nil {
		h.fail(c, err)
		return
	}
	if err := h.checkBudget(req.Lines.Vertices()); err != nil {
		h.fail(c, err)
		return
	}

	key, err := cache.Key("split", renderKey{Lines: req.Lines, Split: true})
	if err != nil {
		h.fail(c, xerrors.WrapInternal(err, "build cache key"))
		return
	}
	out, err := h.loader.Get(ctx, key, func(context.Context) (geo.MultiLine, error) {
		out := geodesic.SplitMultiLineString(req.Lines)
		h.metrics.ObserveSplit(len(req.Lines), len(out))
		return out, nil
	})
	if err != nil {
		h.fail(c, err)
		return
	}
	tracing.AddTag(ctx, "geodesic.fragments", len(out))
	response.Success(c, out)
}

// Statistics 返回每组航点的 WGS84 长度及渲染后的顶点数。
func (h *Handler) Statistics(c *gin.Context) {
	var req LinesRequest
	if !h.bind(c, &req) {
		return
	}
	ctx, span := tracing.StartSpan(c.Request.Context(), "geodesic.statistics")
	defer span.End()
	defer logging.LogDuration(ctx, "statistics", "lines", len(req.Lines))()

	g, err := h.geometryFor(req.Steps)
	if err != nil {
		h.fail(c, err)
		return
	}
	if err := validLines(req.Lines); err != nil {
		h.fail(c, err)
		return
	}
	if err := h.checkBudget(estimate(g, req.Lines)); err != nil {
		h.fail(c, err)
		return
	}
	response.Success(c, g.Statistics(req.Lines))
}

// Circle 返回以 center 为圆心、radius 米为半径的闭合测地圆。
func (h *Handler) Circle(c *gin.Context) {
	var req CircleRequest
	if !h.bind(c, &req) {
		return
	}
	vertices := h.geometry.Load().CircleVertices()
	if req.Vertices != nil {
		vertices = *req.Vertices
	}
	if err := h.checkBudget(vertices + 1); err != nil {
		h.fail(c, err)
		return
	}
	ring, err := geodesic.Circle(*req.Center, req.Radius, vertices)
	if err != nil {
		h.fail(c, err)
		return
	}
	h.metrics.ObservePoints("circle", len(ring))
	response.Success(c, ring)
}

func (h *Handler) renderLines(c *gin.Context, operation string, lines geo.MultiLine, steps *int, split *bool, unwrap bool) {
	ctx, span := tracing.StartSpan(c.Request.Context(), "geodesic."+operation)
	defer span.End()

	g, err := h.geometryFor(steps)
	if err != nil {
		h.fail(c, err)
		return
	}
	if err := validLines(lines); err != nil {
		h.fail(c, err)
		return
	}
	if err := h.checkBudget(estimate(g, lines)); err != nil {
		h.fail(c, err)
		return
	}

	doSplit := h.limits.Load().Split
	if split != nil {
		doSplit = *split
	}
	// 展开经度与切分互斥
	if unwrap {
		doSplit = false
	}

	key, err := cache.Key(operation, renderKey{Lines: lines, Steps: g.Steps(), Split: doSplit, Unwrap: unwrap})
	if err != nil {
		h.fail(c, xerrors.WrapInternal(err, "build cache key"))
		return
	}
	out, err := h.loader.Get(ctx, key, func(ctx context.Context) (geo.MultiLine, error) {
		return h.render(ctx, operation, g, lines, doSplit, unwrap)
	})
	if err != nil {
		h.fail(c, err)
		return
	}
	tracing.AddTag(ctx, "geodesic.fragments", len(out))
	response.Success(c, out)
}

// render 逐条加密并切分；请求上下文结束后剩余的 Line 不再计算，返回对应错误。
func (h *Handler) render(ctx context.Context, operation string, g *geodesic.Geometry, lines geo.MultiLine, split, unwrap bool) (geo.MultiLine, error) {
	defer logging.LogDuration(ctx, operation, "lines", len(lines))()

	mapper := iter.Mapper[geo.Line, geo.MultiLine]{MaxGoroutines: h.limits.Load().Workers}
	parts := mapper.Map(lines, func(line *geo.Line) geo.MultiLine {
		if ctx.Err() != nil {
			return nil
		}
		dense := geo.MultiLine{g.LineString(*line)}
		switch {
		case unwrap:
			return geodesic.Unwrap(dense)
		case split:
			return geodesic.SplitMultiLineString(dense)
		default:
			return dense
		}
	})

	if err := ctx.Err(); err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, xerrors.ErrTimeout.Clone().WithContext("operation", operation).WithContext("lines", len(lines))
		}
		return nil, xerrors.Wrap(err, xerrors.ErrUnavailable, "render "+operation)
	}

	out := make(geo.MultiLine, 0, len(parts))
	for _, part := range parts {
		out = append(out, part...)
	}
	if split {
		h.metrics.ObserveSplit(len(lines), len(out))
	}
	h.metrics.ObservePoints(operation, out.Vertices())
	return out, nil
}

func (h *Handler) geometryFor(steps *int) (*geodesic.Geometry, error) {
	g := h.geometry.Load()
	if steps == nil || *steps == g.Steps() {
		return g, nil
	}
	return geodesic.NewGeometry(geodesic.WithSteps(*steps), geodesic.WithCircleVertices(g.CircleVertices()))
}

func (h *Handler) checkBudget(points int) error {
	if limit := h.limits.Load().MaxPoints; points > limit {
		return xerrors.ErrTooManyPoints.Clone().WithContext("points", points).WithContext("max_points", limit)
	}
	return nil
}

func (h *Handler) bind(c *gin.Context, req any) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		var (
			ve       validator.ValidationErrors
			tooLarge *http.MaxBytesError
		)
		switch {
		case errors.As(err, &tooLarge):
			err = xerrors.ErrBodyTooLarge.Clone().WithContext("limit", tooLarge.Limit)
		case !errors.As(err, &ve):
			err = xerrors.ErrInvalidRequest.Clone().WithDetail("%v", err)
		}
		h.fail(c, err)
		return false
	}
	return true
}

func (h *Handler) fail(c *gin.Context, err error) {
	_ = c.Error(err)
	tracing.SetError(c.Request.Context(), err)
	response.Error(c, err)
}

// estimate 返回加密后的顶点数上界，不含切分新增的边界点。
func estimate(g *geodesic.Geometry, lines geo.MultiLine) int {
	per := g.PointsPerLine() - 1
	total := 0
	for _, line := range lines {
		if len(line) < 2 {
			total += len(line)
			continue
		}
		total += (len(line)-1)*per + 1
	}
	return total
}

func validPoints(points geo.Line) error {
	for i, p := range points {
		if !p.Valid() {
			return xerrors.ErrInvalidPoint.Clone().WithContext("index", i)
		}
	}
	return nil
}

func validLines(lines geo.MultiLine) error {
	for i, line := range lines {
		if len(line) == 0 {
			return xerrors.ErrEmptyPoints.Clone().WithContext("line", i)
		}
		if err := validPoints(line); err != nil {
			return err.(*xerrors.Error).WithContext("line", i)
		}
	}
	return nil
}

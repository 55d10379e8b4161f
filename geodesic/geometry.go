// Package geodesic 计算球面大圆路径，并为平面地图渲染做准备。
//
// 它包含两个相互配合的部分：
//  1. 大圆插值：通过递归求取大圆中点，把一对端点加密成稠密的测地折线；
//  2. 折线切分：检测折线跨越 ±180 经线或越过极点的位置，插入精确的边界点，
//     输出互不跨越的若干段折线，避免在等距圆柱投影上出现"横穿全图"的伪影。
//
// 所有操作均为无副作用的纯函数，可被多个 goroutine 并发调用。
package geodesic

import (
	"github.com/wyfcoding/geodesic/geo"
	"github.com/wyfcoding/geodesic/xerrors"
)

const (
	// DefaultSteps 是 Line 默认使用的递归细分深度，生成 17 个点。
	DefaultSteps = 3
	// MaxSteps 是 Line 允许的最大细分深度，生成 513 个点。
	MaxSteps = 8
	// DefaultCircleVertices 是 Circle 默认的顶点数。
	DefaultCircleVertices = 24
)

// Geometry 持有测地线生成参数。零值不可用，请使用 NewGeometry 或 Default。
type Geometry struct {
	steps          int
	circleVertices int
}

// Option 定义 Geometry 的可选配置项。
type Option func(*Geometry)

// WithSteps 设置 Line 使用的细分深度。
func WithSteps(steps int) Option {
	return func(g *Geometry) {
		g.steps = steps
	}
}

// WithCircleVertices 设置 Circle 默认的顶点数。
func WithCircleVertices(n int) Option {
	return func(g *Geometry) {
		g.circleVertices = n
	}
}

// NewGeometry 根据选项创建 Geometry，细分深度必须位于 [0, MaxSteps]。
func NewGeometry(opts ...Option) (*Geometry, error) {
	g := &Geometry{steps: DefaultSteps, circleVertices: DefaultCircleVertices}
	for _, opt := range opts {
		opt(g)
	}
	if g.steps < 0 || g.steps > MaxSteps {
		return nil, xerrors.ErrInvalidSteps.Clone().WithContext("steps", g.steps)
	}
	if g.circleVertices < 3 {
		return nil, xerrors.ErrTooFewVertices.Clone().WithContext("vertices", g.circleVertices)
	}
	return g, nil
}

var defaultGeometry = &Geometry{steps: DefaultSteps, circleVertices: DefaultCircleVertices}

// Default 返回使用默认参数的 Geometry。
func Default() *Geometry {
	return defaultGeometry
}

// Steps 返回 Line 使用的细分深度。
func (g *Geometry) Steps() int {
	return g.steps
}

// CircleVertices 返回 Circle 默认的顶点数。
func (g *Geometry) CircleVertices() int {
	return g.circleVertices
}

// PointsPerLine 返回 Line 对单段输出的点数，即 1 + 2^(steps+1)。
func (g *Geometry) PointsPerLine() int {
	return 1 + 1<<(g.steps+1)
}

// Line 使用默认 Geometry 生成两点间的测地折线。
func Line(a, b geo.Point) geo.Line {
	return defaultGeometry.Line(a, b)
}

// LineString 使用默认 Geometry 依次连接各航点。
func LineString(points geo.Line) geo.Line {
	return defaultGeometry.LineString(points)
}

// MultiLineString 使用默认 Geometry 处理每一组航点。
func MultiLineString(lines geo.MultiLine) geo.MultiLine {
	return defaultGeometry.MultiLineString(lines)
}

// Statistics 使用默认 Geometry 统计航点集合。
func Statistics(waypoints geo.MultiLine) Stats {
	return defaultGeometry.Statistics(waypoints)
}

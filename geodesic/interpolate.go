package geodesic

import (
	"math"

	"github.com/wyfcoding/geodesic/geo"
	"github.com/wyfcoding/geodesic/xerrors"
)

// Midpoint 返回 a、b 之间大圆劣弧上与两端等距的点。
// 经度差先折回 (-180, 180]，保证总是取较短的一侧；结果经度归一化到 [-180, 180]。
// a、b 对跖时大圆不唯一，返回一个确定的中点而不报错。
func Midpoint(a, b geo.Point) geo.Point {
	φ1, λ1 := toRadians(a.Lat), toRadians(a.Lng)
	φ2 := toRadians(b.Lat)
	Δλ := toRadians(geo.ReduceDelta(b.Lng - a.Lng))

	bx := math.Cos(φ2) * math.Cos(Δλ)
	by := math.Cos(φ2) * math.Sin(Δλ)
	cx := math.Cos(φ1) + bx

	φm := math.Atan2(math.Sin(φ1)+math.Sin(φ2), math.Sqrt(cx*cx+by*by))
	λm := λ1 + math.Atan2(by, cx)

	return geo.Point{Lat: toDegrees(φm), Lng: geo.NormalizeLng(toDegrees(λm))}
}

// RecursiveMidpoint 递归地对 a→b 做中点细分，返回 1 + 2^(depth+1) 个点，首点为 a，末点为 b。
// depth 为 0 时返回 [a, 中点, b]。depth 为负数时返回 ErrNegativeDepth。
// 点数随 depth 指数增长，调用方需自行限制 depth。
func RecursiveMidpoint(a, b geo.Point, depth int) (geo.Line, error) {
	if depth < 0 {
		return nil, xerrors.ErrNegativeDepth.Clone().WithContext("depth", depth)
	}
	return subdivide(a, b, depth), nil
}

// Subdivide 是 RecursiveMidpoint 的别名。
func Subdivide(a, b geo.Point, depth int) (geo.Line, error) {
	return RecursiveMidpoint(a, b, depth)
}

func subdivide(a, b geo.Point, depth int) geo.Line {
	m := Midpoint(a, b)
	if depth == 0 {
		return geo.Line{a, m, b}
	}
	left := subdivide(a, m, depth-1)
	right := subdivide(m, b, depth-1)
	// 两半共享中点，只保留一次
	return append(left, right[1:]...)
}

// Line 返回 a→b 的测地折线，细分深度为 min(Steps, MaxSteps)。
func (g *Geometry) Line(a, b geo.Point) geo.Line {
	return subdivide(a, b, min(g.steps, MaxSteps))
}

// LineString 把有序航点序列中每对相邻点各自展开为测地折线并首尾拼接，衔接点只出现一次。
// 单点输入原样返回，空输入返回空 Line。
func (g *Geometry) LineString(points geo.Line) geo.Line {
	if len(points) < 2 {
		return points.Clone()
	}
	out := make(geo.Line, 0, (len(points)-1)*(g.PointsPerLine()-1)+1)
	for i := 1; i < len(points); i++ {
		segment := g.Line(points[i-1], points[i])
		if len(out) > 0 {
			out = out[:len(out)-1]
		}
		out = append(out, segment...)
	}
	return out
}

// MultiLineString 对每组航点调用 LineString，保持输入顺序。
func (g *Geometry) MultiLineString(lines geo.MultiLine) geo.MultiLine {
	out := make(geo.MultiLine, len(lines))
	for i, points := range lines {
		out[i] = g.LineString(points)
	}
	return out
}

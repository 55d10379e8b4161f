package geodesic

import (
	"math"

	ellipsoid "github.com/tidwall/geodesic"
	"github.com/wyfcoding/geodesic/geo"
	"github.com/wyfcoding/geodesic/xerrors"
)

// Circle 返回以 center 为圆心、radius 米为测地半径的闭合环。
// 顶点按方位角 0, 360/n, 2·360/n ... 均匀分布，首点在末尾重复一次，共 vertices+1 个点。
func Circle(center geo.Point, radius float64, vertices int) (geo.Line, error) {
	if !center.Valid() {
		return nil, xerrors.ErrInvalidPoint.Clone().WithContext("center", center)
	}
	if !(radius > 0) {
		return nil, xerrors.ErrInvalidRadius.Clone().WithContext("radius", radius)
	}
	if vertices < 3 {
		return nil, xerrors.ErrTooFewVertices.Clone().WithContext("vertices", vertices)
	}

	ring := make(geo.Line, 0, vertices+1)
	step := 360 / float64(vertices)
	for i := range vertices {
		var lat, lng float64
		ellipsoid.WGS84.Direct(center.Lat, center.Lng, step*float64(i), radius, &lat, &lng, nil)
		ring = append(ring, geo.Point{Lat: lat, Lng: geo.NormalizeLng(lng)})
	}
	return append(ring, ring[0]), nil
}

// Circle 使用 Geometry 配置的顶点数生成圆。
func (g *Geometry) Circle(center geo.Point, radius float64) (geo.Line, error) {
	return Circle(center, radius, g.circleVertices)
}

// Area 返回闭合环在 WGS84 椭球上围成的面积（平方米，取绝对值）。
// 环的首尾点可以重复，也可以不重复。
func Area(ring geo.Line) float64 {
	if len(ring) > 1 && ring[0] == ring[len(ring)-1] {
		ring = ring[:len(ring)-1]
	}
	if len(ring) < 3 {
		return 0
	}
	poly := ellipsoid.WGS84.PolygonInit(false)
	for _, p := range ring {
		poly.AddPoint(p.Lat, p.Lng)
	}
	var area float64
	poly.Compute(false, true, &area, nil)
	return math.Abs(area)
}

package geodesic

import (
	ellipsoid "github.com/tidwall/geodesic"
	"github.com/wyfcoding/geodesic/geo"
)

// Stats 汇总一组航点生成的测地线信息。
type Stats struct {
	Distances []float64 `json:"distances"` // 每条 Line 的 WGS84 长度（米）
	Total     float64   `json:"total"`     // 全部 Line 的长度之和（米）
	Points    int       `json:"points"`    // 输入航点总数
	Vertices  int       `json:"vertices"`  // 加密并切分后的输出顶点总数
}

// Distance 返回 a、b 在 WGS84 椭球上的测地距离（米）。
func Distance(a, b geo.Point) float64 {
	var s12 float64
	ellipsoid.WGS84.Inverse(a.Lat, a.Lng, b.Lat, b.Lng, &s12, nil, nil)
	return s12
}

// Statistics 计算每组航点的测地长度，并统计按当前参数加密、切分后的顶点数。
func (g *Geometry) Statistics(waypoints geo.MultiLine) Stats {
	stats := Stats{Distances: make([]float64, len(waypoints))}
	for i, line := range waypoints {
		var length float64
		for j := 1; j < len(line); j++ {
			length += Distance(line[j-1], line[j])
		}
		stats.Distances[i] = length
		stats.Total += length
		stats.Points += len(line)
	}
	stats.Vertices = SplitMultiLineString(g.MultiLineString(waypoints)).Vertices()
	return stats
}

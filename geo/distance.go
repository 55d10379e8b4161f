package geo

import (
	"math"
)

// EarthRadiusKm 是球面模型使用的地球平均半径（单位：千米）。
const EarthRadiusKm = 6371.0

// Distance 计算两点间的球面距离（单位：千米）。
// 使用 Haversine 公式。
func Distance(p1, p2 Point) float64 {
	lat1 := p1.Lat * math.Pi / 180
	lng1 := p1.Lng * math.Pi / 180
	lat2 := p2.Lat * math.Pi / 180
	lng2 := p2.Lng * math.Pi / 180

	dLat := lat2 - lat1
	dLng := lng2 - lng1

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1)*math.Cos(lat2)*
			math.Sin(dLng/2)*math.Sin(dLng/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	return EarthRadiusKm * c
}

// WithinRange 检查两点是否在指定范围内（单位：千米）。
func WithinRange(p1, p2 Point, rangeKm float64) bool {
	return Distance(p1, p2) <= rangeKm
}

// Length 返回一条 Line 沿途各段球面距离之和（单位：千米）。
func (l Line) Length() float64 {
	total := 0.0
	for i := 1; i < len(l); i++ {
		total += Distance(l[i-1], l[i])
	}
	return total
}

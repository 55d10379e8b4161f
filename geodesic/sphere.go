package geodesic

import (
	"math"

	ellipsoid "github.com/tidwall/geodesic"
	"github.com/wyfcoding/geodesic/geo"
)

// antimeridianRefLat 是反子午线参考路径的起点纬度。
// 参考路径自 (89, ±180) 正南行进，与待切分路径求交。
const antimeridianRefLat = 89.0

// maxAzimuthDrift 是椭球方位角求交结果与球面精确交点之间允许的最大纬度偏差（度）。
// 超出时说明求交落到了错误的交点，改用球面精确解。
const maxAzimuthDrift = 1.0

func toRadians(deg float64) float64 {
	return deg * math.Pi / 180
}

func toDegrees(rad float64) float64 {
	return rad * 180 / math.Pi
}

// initialAzimuth 返回 WGS84 椭球上 a 指向 b 的初始方位角（度，[-180, 180]）。
func initialAzimuth(a, b geo.Point) float64 {
	var azi1 float64
	ellipsoid.WGS84.Inverse(a.Lat, a.Lng, b.Lat, b.Lng, nil, &azi1, nil)
	return azi1
}

// intersection 求两条由起点与初始方位角定义的大圆路径的交点。
// 无穷多交点或交点不明确（近似对跖）时返回 false。
func intersection(p1 geo.Point, bearing1 float64, p2 geo.Point, bearing2 float64) (geo.Point, bool) {
	φ1, λ1 := toRadians(p1.Lat), toRadians(p1.Lng)
	φ2, λ2 := toRadians(p2.Lat), toRadians(p2.Lng)
	θ13, θ23 := toRadians(bearing1), toRadians(bearing2)
	Δφ, Δλ := φ2-φ1, λ2-λ1

	// p1 与 p2 的角距离
	δ12 := 2 * math.Asin(math.Sqrt(math.Sin(Δφ/2)*math.Sin(Δφ/2)+
		math.Cos(φ1)*math.Cos(φ2)*math.Sin(Δλ/2)*math.Sin(Δλ/2)))
	if math.Abs(δ12) < 1e-15 {
		return p1, true
	}

	cosθa := (math.Sin(φ2) - math.Sin(φ1)*math.Cos(δ12)) / (math.Sin(δ12) * math.Cos(φ1))
	cosθb := (math.Sin(φ1) - math.Sin(φ2)*math.Cos(δ12)) / (math.Sin(δ12) * math.Cos(φ2))
	θa := math.Acos(math.Min(math.Max(cosθa, -1), 1))
	θb := math.Acos(math.Min(math.Max(cosθb, -1), 1))

	θ12, θ21 := 2*math.Pi-θa, θb
	if math.Sin(λ2-λ1) > 0 {
		θ12, θ21 = θa, 2*math.Pi-θb
	}

	α1 := θ13 - θ12 // 角 2-1-3
	α2 := θ21 - θ23 // 角 1-2-3
	if math.Sin(α1) == 0 && math.Sin(α2) == 0 {
		return geo.Point{}, false
	}
	if math.Sin(α1)*math.Sin(α2) < 0 {
		return geo.Point{}, false
	}

	cosα3 := -math.Cos(α1)*math.Cos(α2) + math.Sin(α1)*math.Sin(α2)*math.Cos(δ12)
	δ13 := math.Atan2(math.Sin(δ12)*math.Sin(α1)*math.Sin(α2), math.Cos(α2)+math.Cos(α1)*cosα3)
	φ3 := math.Asin(math.Sin(φ1)*math.Cos(δ13) + math.Cos(φ1)*math.Sin(δ13)*math.Cos(θ13))
	Δλ13 := math.Atan2(math.Sin(θ13)*math.Sin(δ13)*math.Cos(φ1), math.Cos(δ13)-math.Sin(φ1)*math.Sin(φ3))

	p := geo.Point{Lat: toDegrees(φ3), Lng: toDegrees(λ1 + Δλ13)}
	if math.IsNaN(p.Lat) || math.IsNaN(p.Lng) {
		return geo.Point{}, false
	}
	return p, true
}

type vector3 struct{ x, y, z float64 }

func toVector(p geo.Point) vector3 {
	φ, λ := toRadians(p.Lat), toRadians(p.Lng)
	return vector3{math.Cos(φ) * math.Cos(λ), math.Cos(φ) * math.Sin(λ), math.Sin(φ)}
}

func (v vector3) cross(w vector3) vector3 {
	return vector3{v.y*w.z - v.z*w.y, v.z*w.x - v.x*w.z, v.x*w.y - v.y*w.x}
}

// sphericalCrossing 返回 a、b 所在大圆与 ±180 经线半平面交点的纬度。
// 大圆经过极点（与经线平面重合）或 a、b 重合/对跖时返回 false。
func sphericalCrossing(a, b geo.Point) (float64, bool) {
	n := toVector(a).cross(toVector(b))
	// 大圆平面与 y=0 平面的交线方向
	u := vector3{-n.z, 0, n.x}
	if math.Abs(u.x) < 1e-15 {
		return 0, false
	}
	if u.x > 0 {
		u = vector3{-u.x, 0, -u.z}
	}
	return toDegrees(math.Atan(u.z / -u.x)), true
}

// crossingLatitude 计算线段 start→dest 到达经度 boundary（±180）处的纬度。
// dest 的经度已平移到 boundary 的另一侧，使线段在经度上连续。
func crossingLatitude(start, dest geo.Point, boundary float64) float64 {
	exact, ok := sphericalCrossing(start, dest)
	ref := geo.Point{Lat: antimeridianRefLat, Lng: boundary}
	if p, found := intersection(start, initialAzimuth(start, dest), ref, 180); found {
		if !ok || math.Abs(p.Lat-exact) <= maxAzimuthDrift {
			return p.Lat
		}
	}
	if ok {
		return exact
	}
	// 退化情形：按经度比例线性插值纬度
	f := (boundary - start.Lng) / (dest.Lng - start.Lng)
	return start.Lat + f*(dest.Lat-start.Lat)
}

// Package geo 提供了经纬度点、折线与多折线等基础几何类型，以及经度归一化与容差比较工具。
// 所有类型均为值语义，工具函数不会修改入参，而是返回新的切片。
package geo

import "math"

// Epsilon 是角度比较的绝对容差（单位：度），用于吸收中点公式带来的浮点误差。
const Epsilon = 1e-6

// Point 表示一个地理经纬度坐标点。
type Point struct {
	Lat float64 `json:"lat"` // 纬度，取值 [-90, 90]
	Lng float64 `json:"lng"` // 经度，约定取值 [-180, 180]
}

// Line 是有序的点序列，插入顺序即遍历顺序。
type Line []Point

// MultiLine 是相互独立的 Line 的有序集合。
type MultiLine []Line

// Valid 检查纬度是否在 [-90, 90] 内且经纬度均为有限数值。
func (p Point) Valid() bool {
	if math.IsNaN(p.Lat) || math.IsNaN(p.Lng) || math.IsInf(p.Lat, 0) || math.IsInf(p.Lng, 0) {
		return false
	}
	return p.Lat >= -90 && p.Lat <= 90
}

// Normalize 返回经度归一化后的副本。
func (p Point) Normalize() Point {
	return Point{Lat: p.Lat, Lng: NormalizeLng(p.Lng)}
}

// Near 判断两点的经纬度差是否都在容差 eps 之内。
func (p Point) Near(q Point, eps float64) bool {
	return math.Abs(p.Lat-q.Lat) <= eps && math.Abs(p.Lng-q.Lng) <= eps
}

// NormalizeLng 将经度折回 (-180, 180]。
// 已在 [-180, 180] 内的值原样返回（含 ±180），保证未越界的输入逐位不变。
func NormalizeLng(lng float64) float64 {
	if lng >= -180 && lng <= 180 {
		return lng
	}
	r := math.Remainder(lng, 360)
	if r == -180 {
		return 180
	}
	return r
}

// ReduceDelta 将经度差折回 (-180, 180]，即沿较短方向的差值。
func ReduceDelta(delta float64) float64 {
	r := math.Remainder(delta, 360)
	if r == -180 {
		return 180
	}
	return r
}

// IsPole 判断纬度是否落在南北极点（容差 Epsilon）。
func IsPole(lat float64) bool {
	return math.Abs(math.Abs(lat)-90) <= Epsilon
}

// OnAntimeridian 判断经度是否恰好位于 ±180 经线。
func OnAntimeridian(lng float64) bool {
	return math.Abs(lng) == 180
}

// Clone 返回 Line 的深拷贝。
func (l Line) Clone() Line {
	if l == nil {
		return nil
	}
	out := make(Line, len(l))
	copy(out, l)
	return out
}

// Near 判断两条 Line 点数相同且逐点在容差之内。
func (l Line) Near(o Line, eps float64) bool {
	if len(l) != len(o) {
		return false
	}
	for i := range l {
		if !l[i].Near(o[i], eps) {
			return false
		}
	}
	return true
}

// Clone 返回 MultiLine 的深拷贝。
func (m MultiLine) Clone() MultiLine {
	if m == nil {
		return nil
	}
	out := make(MultiLine, len(m))
	for i, l := range m {
		out[i] = l.Clone()
	}
	return out
}

// Near 判断两个 MultiLine 结构相同且逐点在容差之内。
func (m MultiLine) Near(o MultiLine, eps float64) bool {
	if len(m) != len(o) {
		return false
	}
	for i := range m {
		if !m[i].Near(o[i], eps) {
			return false
		}
	}
	return true
}

// Vertices 返回所有 Line 的点数之和。
func (m MultiLine) Vertices() int {
	n := 0
	for _, l := range m {
		n += len(l)
	}
	return n
}

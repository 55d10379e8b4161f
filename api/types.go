package api

import "github.com/wyfcoding/geodesic/geo"

// MidpointRequest 是 /midpoint 的请求体。
type MidpointRequest struct {
	A *geo.Point `json:"a" binding:"required"`
	B *geo.Point `json:"b" binding:"required"`
}

// SubdivideRequest 是 /subdivide 的请求体。
type SubdivideRequest struct {
	A     *geo.Point `json:"a"     binding:"required"`
	B     *geo.Point `json:"b"     binding:"required"`
	Depth *int       `json:"depth" binding:"required"`
}

// LineStringRequest 是 /linestring 的请求体。Steps、Split 缺省时取服务端配置。
type LineStringRequest struct {
	Points geo.Line `json:"points" binding:"required,min=1"`
	Steps  *int     `json:"steps,omitempty"`
	Split  *bool    `json:"split,omitempty"`
}

// MultiLineStringRequest 是 /multilinestring 的请求体。Unwrap 为 true 时输出连续经度而不切分。
type MultiLineStringRequest struct {
	Lines  geo.MultiLine `json:"lines"  binding:"required,min=1"`
	Steps  *int          `json:"steps,omitempty"`
	Split  *bool         `json:"split,omitempty"`
	Unwrap bool          `json:"unwrap,omitempty"`
}

// LinesRequest 是 /split 与 /statistics 的请求体。
type LinesRequest struct {
	Lines geo.MultiLine `json:"lines" binding:"required,min=1"`
	Steps *int          `json:"steps,omitempty"`
}

// CircleRequest 是 /circle 的请求体，Radius 单位为米。
type CircleRequest struct {
	Center   *geo.Point `json:"center" binding:"required"`
	Radius   float64    `json:"radius"`
	Vertices *int       `json:"vertices,omitempty"`
}

// renderKey 是渲染结果的缓存键参数，包含影响输出的全部有效参数。
type renderKey struct {
	Lines  geo.MultiLine `json:"lines"`
	Steps  int           `json:"steps"`
	Split  bool          `json:"split"`
	Unwrap bool          `json:"unwrap"`
}

package geodesic

import (
	"math"

	"github.com/wyfcoding/geodesic/geo"
)

// SplitLine 检测线段 a→b 是否跨越 ±180 经线或越过极点，返回互不跨越的 1 段或 2 段折线。
//
//   - 未跨越：返回 [[a, b]]（经度已归一化）。
//   - 跨越反子午线：在交点处插入 (φ, ∓180) 与 (φ, ±180)，符号由行进方向决定。
//   - 越过极点（两端经度恰好相差 180）：插入极点 (±90, lng(b))，两段共享该点。
//
// 恰好位于 ±180 的端点取另一端所在一侧的符号；端点本身是极点时不切分。
func SplitLine(a, b geo.Point) geo.MultiLine {
	start, dest := alignSeam(a.Normalize(), b.Normalize())
	if geo.IsPole(start.Lat) || geo.IsPole(dest.Lat) {
		return geo.MultiLine{{start, dest}}
	}

	delta := dest.Lng - start.Lng
	if math.Abs(math.Abs(delta)-180) <= geo.Epsilon {
		// 劣弧经过离两端更近的那个极点，从 b 所在经线离开极点
		pole := geo.Point{Lat: 90, Lng: dest.Lng}
		if start.Lat+dest.Lat < 0 {
			pole.Lat = -90
		}
		return geo.MultiLine{{start, pole}, {pole, dest}}
	}

	switch {
	case delta > 180:
		// 向西穿过 -180
		lat := crossingLatitude(start, geo.Point{Lat: dest.Lat, Lng: dest.Lng - 360}, -180)
		return geo.MultiLine{
			{start, {Lat: lat, Lng: -180}},
			{{Lat: lat, Lng: 180}, dest},
		}
	case delta < -180:
		// 向东穿过 +180
		lat := crossingLatitude(start, geo.Point{Lat: dest.Lat, Lng: dest.Lng + 360}, 180)
		return geo.MultiLine{
			{start, {Lat: lat, Lng: 180}},
			{{Lat: lat, Lng: -180}, dest},
		}
	}
	return geo.MultiLine{{start, dest}}
}

// alignSeam 让恰好落在 ±180 上的端点取另一端所在一侧的符号。
// 两端都在接缝上时，终点跟随起点。
func alignSeam(start, dest geo.Point) (geo.Point, geo.Point) {
	startOnSeam, destOnSeam := geo.OnAntimeridian(start.Lng), geo.OnAntimeridian(dest.Lng)
	switch {
	case startOnSeam && destOnSeam:
		dest.Lng = start.Lng
	case startOnSeam && dest.Lng != 0:
		start.Lng = math.Copysign(180, dest.Lng)
	case destOnSeam && start.Lng != 0:
		dest.Lng = math.Copysign(180, start.Lng)
	}
	return start, dest
}

// SplitMultiLineString 对每条 Line 独立切分，并把所有片段按顺序拼接为一个 MultiLine。
// 同一来源 Line 的片段保持相对顺序，来源 Line 之间也保持顺序。
// 不跨越的 Line 逐点原样输出；0 或 1 个点的 Line 原样输出。
// 中间点恰好落在极点且前后两点位于对侧经线时，在极点处断开。
func SplitMultiLineString(lines geo.MultiLine) geo.MultiLine {
	out := make(geo.MultiLine, 0, len(lines))
	for _, line := range lines {
		out = append(out, splitLineString(line)...)
	}
	return out
}

func splitLineString(line geo.Line) geo.MultiLine {
	if len(line) < 2 {
		return geo.MultiLine{line.Clone()}
	}

	var fragments geo.MultiLine
	open := make(geo.Line, 0, len(line))
	for i := 1; i < len(line); i++ {
		parts := SplitLine(line[i-1], line[i])
		head := parts[0]

		switch n := len(open); {
		case n == 0:
			open = append(open, head...)
		case n > 1 && open[n-1] != head[0]:
			// 接缝点在相邻两段中取了不同符号，在该点断开
			fragments = append(fragments, open)
			open = make(geo.Line, 0, len(line)-i+1)
			open = append(open, head...)
		default:
			open = append(open, head[1:]...)
		}

		if len(parts) > 1 {
			fragments = append(fragments, open)
			open = make(geo.Line, 0, len(line)-i+1)
			open = append(open, parts[1]...)
			continue
		}

		if i+1 < len(line) {
			if arrive, leave, ok := poleTransit(line[i-1], line[i], line[i+1]); ok {
				open[len(open)-1] = arrive
				fragments = append(fragments, open)
				open = make(geo.Line, 0, len(line)-i+1)
				open = append(open, leave)
			}
		}
	}
	return append(fragments, open)
}

// poleTransit 判断 prev→pole→next 是否经极点从一条经线转到对侧经线。
// 成立时返回到达与离开极点的两个副本，经度分别取 prev 与 next 所在经线。
func poleTransit(prev, pole, next geo.Point) (arrive, leave geo.Point, ok bool) {
	if !geo.IsPole(pole.Lat) || geo.IsPole(prev.Lat) || geo.IsPole(next.Lat) {
		return arrive, leave, false
	}
	prev, next = prev.Normalize(), next.Normalize()
	if math.Abs(math.Abs(geo.ReduceDelta(next.Lng-prev.Lng))-180) > geo.Epsilon {
		return arrive, leave, false
	}
	lat := math.Copysign(90, pole.Lat)
	return geo.Point{Lat: lat, Lng: prev.Lng}, geo.Point{Lat: lat, Lng: next.Lng}, true
}

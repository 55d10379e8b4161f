package geodesic

import (
	"math"

	"github.com/wyfcoding/geodesic/geo"
)

// Unwrap 是 SplitMultiLineString 的替代方案：不切分，而是把每条 Line 中首点之后的经度
// 平移 360 的整数倍，使相邻两点的经度差不超过 180。
// 输出经度可能超出 [-180, 180]，适用于水平重复铺设世界地图的渲染器。纬度保持不变。
func Unwrap(lines geo.MultiLine) geo.MultiLine {
	out := make(geo.MultiLine, len(lines))
	for i, line := range lines {
		out[i] = unwrapLine(line)
	}
	return out
}

func unwrapLine(line geo.Line) geo.Line {
	out := line.Clone()
	for i := 1; i < len(out); i++ {
		prev := out[i-1].Lng
		out[i].Lng -= math.Round((out[i].Lng-prev)/360) * 360
	}
	return out
}

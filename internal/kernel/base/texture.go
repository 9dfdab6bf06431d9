package base

import "github.com/cwbudde/pixelparity/internal/view"

// BoostedSaturatedGradient writes the central differences of src, clamped
// to [-saturation, saturation], offset by saturation and multiplied by
// boost, into dx and dy. Border pixels get zero.
func BoostedSaturatedGradient(src *view.View, saturation, boost uint8, dx, dy *view.View) {
	sat, b := int(saturation), int(boost)
	grad := func(d int) uint8 {
		return uint8(min(max(d, -sat), sat)+sat) * uint8(b)
	}
	for y := 0; y < src.Height; y++ {
		rx, ry := dx.Row(y), dy.Row(y)
		if y == 0 || y == src.Height-1 {
			clear(rx)
			clear(ry)
			continue
		}
		up, row, down := src.Row(y-1), src.Row(y), src.Row(y+1)
		rx[0], ry[0] = 0, 0
		for x := 1; x < src.Width-1; x++ {
			rx[x] = grad(int(row[x+1]) - int(row[x-1]))
			ry[x] = grad(int(down[x]) - int(up[x]))
		}
		rx[src.Width-1], ry[src.Width-1] = 0, 0
	}
}

// BoostedUv stretches the band around 128 whose boosted width fits a byte
// to the full range: values are clamped to [128-128/boost, 255-(128-128/boost)]
// and the clamped offset is multiplied by boost.
func BoostedUv(src *view.View, boost uint8, dst *view.View) {
	lo := 128 - 128/int(boost)
	hi := 255 - lo
	for y := 0; y < src.Height; y++ {
		s, d := src.Row(y), dst.Row(y)
		for x := range s {
			d[x] = uint8((min(max(int(s[x]), lo), hi) - lo) * int(boost))
		}
	}
}

// GetDifferenceSum returns the sum of src minus the midpoint of lo and hi.
func GetDifferenceSum(src, lo, hi *view.View) int64 {
	var sum int64
	for y := 0; y < src.Height; y++ {
		s, l, h := src.Row(y), lo.Row(y), hi.Row(y)
		for x := range s {
			sum += int64(s[x]) - int64((int(l[x])+int(h[x])+1)>>1)
		}
	}
	return sum
}

// PerformCompensation adds shift to every pixel with saturation.
func PerformCompensation(src *view.View, shift int, dst *view.View) {
	for y := 0; y < src.Height; y++ {
		s, d := src.Row(y), dst.Row(y)
		for x := range s {
			d[x] = clamp8(int(s[x]) + shift)
		}
	}
}

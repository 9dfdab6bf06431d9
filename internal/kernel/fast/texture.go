package fast

import "github.com/cwbudde/pixelparity/internal/view"

// gradientTable maps a central difference d, stored at d+255, to its
// saturated and boosted byte.
func gradientTable(saturation, boost uint8) *[2*255 + 1]uint8 {
	var t [2*255 + 1]uint8
	sat := int(saturation)
	for d := -255; d <= 255; d++ {
		t[d+255] = uint8(min(max(d, -sat), sat)+sat) * boost
	}
	return &t
}

// BoostedSaturatedGradient writes the saturated and boosted central
// differences of src into dx and dy. Border pixels get zero.
func BoostedSaturatedGradient(src *view.View, saturation, boost uint8, dx, dy *view.View) {
	t := gradientTable(saturation, boost)
	w := src.Width
	for y := 0; y < src.Height; y++ {
		rx, ry := dx.Row(y)[:w], dy.Row(y)[:w]
		if y == 0 || y == src.Height-1 {
			clear(rx)
			clear(ry)
			continue
		}
		up, row, down := src.Row(y-1)[:w], src.Row(y)[:w], src.Row(y+1)[:w]
		rx[0], ry[0] = 0, 0
		for x := 1; x < w-1; x++ {
			rx[x] = t[255+int(row[x+1])-int(row[x-1])]
			ry[x] = t[255+int(down[x])-int(up[x])]
		}
		rx[w-1], ry[w-1] = 0, 0
	}
}

// BoostedUv stretches the band around 128 to the full byte range through a
// lookup table.
func BoostedUv(src *view.View, boost uint8, dst *view.View) {
	var t [256]uint8
	lo := 128 - 128/int(boost)
	hi := 255 - lo
	for v := range t {
		t[v] = uint8((min(max(v, lo), hi) - lo) * int(boost))
	}
	for y := 0; y < src.Height; y++ {
		s := src.Row(y)
		d := dst.Row(y)[:len(s)]
		for x, v := range s {
			d[x] = t[v]
		}
	}
}

// GetDifferenceSum returns the sum of src minus the midpoint of lo and hi.
func GetDifferenceSum(src, lo, hi *view.View) int64 {
	var sum int64
	for y := 0; y < src.Height; y++ {
		s := src.Row(y)
		l, h := lo.Row(y)[:len(s)], hi.Row(y)[:len(s)]
		var row int32
		for x := range s {
			avg := (l[x] | h[x]) - ((l[x] ^ h[x]) >> 1)
			row += int32(s[x]) - int32(avg)
		}
		sum += int64(row)
	}
	return sum
}

// PerformCompensation adds shift to every pixel with saturation through a
// lookup table.
func PerformCompensation(src *view.View, shift int, dst *view.View) {
	var t [256]uint8
	for v := range t {
		t[v] = sat8(v + shift)
	}
	for y := 0; y < src.Height; y++ {
		s := src.Row(y)
		d := dst.Row(y)[:len(s)]
		for x, v := range s {
			d[x] = t[v]
		}
	}
}

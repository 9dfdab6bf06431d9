package fast

import (
	"github.com/cwbudde/pixelparity/internal/kernel/base"
	"github.com/cwbudde/pixelparity/internal/view"
)

// GetStatistic returns the minimum, maximum and rounded mean of a Gray8 view.
func GetStatistic(src *view.View) (lo, hi, average uint8) {
	area := uint64(src.Width * src.Height)
	if area == 0 {
		return 0, 0, 0
	}
	lo, hi = 0xFF, 0
	var sum uint64
	for y := 0; y < src.Height; y++ {
		r := src.Row(y)
		var rowSum uint32
		for _, v := range r {
			lo = min(lo, v)
			hi = max(hi, v)
			rowSum += uint32(v)
		}
		sum += uint64(rowSum)
	}
	return lo, hi, uint8((sum + area/2) / area)
}

// GetMoments computes the moments of the mask pixels equal to index. Column
// sums are gathered per row and folded into the totals once per row.
func GetMoments(mask *view.View, index uint8) base.Moments {
	var m base.Moments
	for y := 0; y < mask.Height; y++ {
		var area, sx, sxx uint64
		for x, v := range mask.Row(y) {
			if v != index {
				continue
			}
			ux := uint64(x)
			area++
			sx += ux
			sxx += ux * ux
		}
		uy := uint64(y)
		m.Area += area
		m.X += sx
		m.Y += area * uy
		m.XX += sxx
		m.XY += sx * uy
		m.YY += area * uy * uy
	}
	return m
}

// GetRowSums writes the sum of each row of src into sums[y].
func GetRowSums(src *view.View, sums []uint32) {
	for y := 0; y < src.Height; y++ {
		sums[y] = rowSum(src.Row(y))
	}
}

// GetColSums writes the sum of each column of src into sums[x].
func GetColSums(src *view.View, sums []uint32) {
	sums = sums[:src.Width]
	clear(sums)
	for y := 0; y < src.Height; y++ {
		r := src.Row(y)[:len(sums)]
		x := 0
		for ; x+block <= len(r); x += block {
			s, v := sums[x:x+block:x+block], r[x:x+block:x+block]
			s[0] += uint32(v[0])
			s[1] += uint32(v[1])
			s[2] += uint32(v[2])
			s[3] += uint32(v[3])
			s[4] += uint32(v[4])
			s[5] += uint32(v[5])
			s[6] += uint32(v[6])
			s[7] += uint32(v[7])
		}
		for ; x < len(r); x++ {
			sums[x] += uint32(r[x])
		}
	}
}

// rowSum adds the bytes of r with four independent accumulators.
func rowSum(r []uint8) uint32 {
	var s0, s1, s2, s3 uint32
	x := 0
	for ; x+4 <= len(r); x += 4 {
		s0 += uint32(r[x])
		s1 += uint32(r[x+1])
		s2 += uint32(r[x+2])
		s3 += uint32(r[x+3])
	}
	for ; x < len(r); x++ {
		s0 += uint32(r[x])
	}
	return s0 + s1 + s2 + s3
}

// ValueSum returns the sum of all pixels.
func ValueSum(src *view.View) uint64 {
	var s uint64
	for y := 0; y < src.Height; y++ {
		s += uint64(rowSum(src.Row(y)))
	}
	return s
}

// SquareSum returns the sum of squared pixels.
func SquareSum(src *view.View) uint64 {
	var s uint64
	for y := 0; y < src.Height; y++ {
		var s0, s1 uint64
		r := src.Row(y)
		x := 0
		for ; x+2 <= len(r); x += 2 {
			a, b := uint64(r[x]), uint64(r[x+1])
			s0 += a * a
			s1 += b * b
		}
		if x < len(r) {
			a := uint64(r[x])
			s0 += a * a
		}
		s += s0 + s1
	}
	return s
}

// CorrelationSum returns the sum of products of corresponding pixels.
func CorrelationSum(a, b *view.View) uint64 {
	var s uint64
	for y := 0; y < a.Height; y++ {
		ra := a.Row(y)
		rb := b.Row(y)[:len(ra)]
		var s0, s1 uint64
		x := 0
		for ; x+2 <= len(ra); x += 2 {
			s0 += uint64(ra[x]) * uint64(rb[x])
			s1 += uint64(ra[x+1]) * uint64(rb[x+1])
		}
		if x < len(ra) {
			s0 += uint64(ra[x]) * uint64(rb[x])
		}
		s += s0 + s1
	}
	return s
}

// AbsDifferenceSum returns the sum of absolute differences over every
// channel byte of two views of the same 8-bit format.
func AbsDifferenceSum(a, b *view.View) uint64 {
	var total uint64
	for y := 0; y < a.Height; y++ {
		ra := a.Row(y)
		rb := b.Row(y)[:len(ra)]
		var row uint64
		x := 0
		for ; x+block <= len(ra); x += block {
			va, vb := ra[x:x+block:x+block], rb[x:x+block:x+block]
			for i := range va {
				row += uint64(max(va[i], vb[i]) - min(va[i], vb[i]))
			}
		}
		for ; x < len(ra); x++ {
			row += uint64(max(ra[x], rb[x]) - min(ra[x], rb[x]))
		}
		total += row
	}
	return total
}

// SquaredDifferenceSum returns the sum of squared differences over every
// channel byte of two views of the same 8-bit format.
func SquaredDifferenceSum(a, b *view.View) uint64 {
	var total uint64
	for y := 0; y < a.Height; y++ {
		ra := a.Row(y)
		rb := b.Row(y)[:len(ra)]
		var row uint64
		for x := range ra {
			d := uint64(max(ra[x], rb[x]) - min(ra[x], rb[x]))
			row += d * d
		}
		total += row
	}
	return total
}

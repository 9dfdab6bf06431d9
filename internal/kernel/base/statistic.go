package base

import "github.com/cwbudde/pixelparity/internal/view"

// Moments are the raw image moments of the pixels matching a mask index.
type Moments struct {
	Area, X, Y, XX, XY, YY uint64
}

// GetStatistic returns the minimum, maximum and rounded mean of a Gray8 view.
func GetStatistic(src *view.View) (lo, hi, average uint8) {
	lo, hi = 0xFF, 0
	var sum uint64
	for y := 0; y < src.Height; y++ {
		for _, v := range src.Row(y) {
			lo = min(lo, v)
			hi = max(hi, v)
			sum += uint64(v)
		}
	}
	area := uint64(src.Width * src.Height)
	if area == 0 {
		return 0, 0, 0
	}
	return lo, hi, uint8((sum + area/2) / area)
}

// GetMoments computes the moments of the mask pixels equal to index.
func GetMoments(mask *view.View, index uint8) Moments {
	var m Moments
	for y := 0; y < mask.Height; y++ {
		row := mask.Row(y)
		for x, v := range row {
			if v != index {
				continue
			}
			ux, uy := uint64(x), uint64(y)
			m.Area++
			m.X += ux
			m.Y += uy
			m.XX += ux * ux
			m.XY += ux * uy
			m.YY += uy * uy
		}
	}
	return m
}

// GetRowSums writes the sum of each row of src into sums[y].
func GetRowSums(src *view.View, sums []uint32) {
	for y := 0; y < src.Height; y++ {
		var s uint32
		for _, v := range src.Row(y) {
			s += uint32(v)
		}
		sums[y] = s
	}
}

// GetColSums writes the sum of each column of src into sums[x].
func GetColSums(src *view.View, sums []uint32) {
	for x := 0; x < src.Width; x++ {
		sums[x] = 0
	}
	for y := 0; y < src.Height; y++ {
		for x, v := range src.Row(y) {
			sums[x] += uint32(v)
		}
	}
}

// ValueSum returns the sum of all pixels.
func ValueSum(src *view.View) uint64 {
	var s uint64
	for y := 0; y < src.Height; y++ {
		for _, v := range src.Row(y) {
			s += uint64(v)
		}
	}
	return s
}

// SquareSum returns the sum of squared pixels.
func SquareSum(src *view.View) uint64 {
	var s uint64
	for y := 0; y < src.Height; y++ {
		for _, v := range src.Row(y) {
			s += uint64(v) * uint64(v)
		}
	}
	return s
}

// CorrelationSum returns the sum of products of corresponding pixels.
func CorrelationSum(a, b *view.View) uint64 {
	var s uint64
	for y := 0; y < a.Height; y++ {
		rb := b.Row(y)
		for x, v := range a.Row(y) {
			s += uint64(v) * uint64(rb[x])
		}
	}
	return s
}

// AbsDifferenceSum returns the sum of absolute differences over every
// channel byte of two views of the same 8-bit format.
func AbsDifferenceSum(a, b *view.View) uint64 {
	var total uint64
	for y := 0; y < a.Height; y++ {
		ra, rb := a.Row(y), b.Row(y)
		for i := range ra {
			d := int(ra[i]) - int(rb[i])
			if d < 0 {
				d = -d
			}
			total += uint64(d)
		}
	}
	return total
}

// SquaredDifferenceSum returns the sum of squared differences over every
// channel byte of two views of the same 8-bit format.
func SquaredDifferenceSum(a, b *view.View) uint64 {
	var total uint64
	for y := 0; y < a.Height; y++ {
		ra, rb := a.Row(y), b.Row(y)
		for i := range ra {
			d := int(ra[i]) - int(rb[i])
			total += uint64(d * d)
		}
	}
	return total
}

// Package base holds the portable reference kernels.
//
// Every kernel walks its views row by row through the stride and touches
// only the Width*PixelSize data bytes of each row. Callers guarantee that all
// views passed to one call share width and height; the kernels do not
// re-check shapes.
package base

import (
	"github.com/cwbudde/pixelparity/internal/view"
)

// GrowRangeSlow widens [lo, hi] by one level towards every value outside it.
func GrowRangeSlow(value, lo, hi *view.View) {
	for y := 0; y < value.Height; y++ {
		v, l, h := value.Row(y), lo.Row(y), hi.Row(y)
		for x := range v {
			if v[x] < l[x] {
				l[x]--
			}
			if v[x] > h[x] {
				h[x]++
			}
		}
	}
}

// GrowRangeFast widens [lo, hi] to include every value.
func GrowRangeFast(value, lo, hi *view.View) {
	for y := 0; y < value.Height; y++ {
		v, l, h := value.Row(y), lo.Row(y), hi.Row(y)
		for x := range v {
			if v[x] < l[x] {
				l[x] = v[x]
			}
			if v[x] > h[x] {
				h[x] = v[x]
			}
		}
	}
}

// IncrementCount counts, with saturation at 255, how often value fell below
// loValue and rose above hiValue.
func IncrementCount(value, loValue, hiValue, loCount, hiCount *view.View) {
	for y := 0; y < value.Height; y++ {
		v, lv, hv := value.Row(y), loValue.Row(y), hiValue.Row(y)
		lc, hc := loCount.Row(y), hiCount.Row(y)
		for x := range v {
			if v[x] < lv[x] && lc[x] < 0xFF {
				lc[x]++
			}
			if v[x] > hv[x] && hc[x] < 0xFF {
				hc[x]++
			}
		}
	}
}

func adjustLo(count uint8, value *uint8, threshold uint8) {
	if count > threshold {
		if *value > 0 {
			*value--
		}
	} else if count < threshold {
		if *value < 0xFF {
			*value++
		}
	}
}

func adjustHi(count uint8, value *uint8, threshold uint8) {
	if count > threshold {
		if *value < 0xFF {
			*value++
		}
	} else if count < threshold {
		if *value > 0 {
			*value--
		}
	}
}

// AdjustRange moves each range bound one level according to how its counter
// compares with threshold, then clears both counters.
func AdjustRange(loCount, loValue, hiCount, hiValue *view.View, threshold uint8) {
	for y := 0; y < loCount.Height; y++ {
		lc, lv, hc, hv := loCount.Row(y), loValue.Row(y), hiCount.Row(y), hiValue.Row(y)
		for x := range lc {
			adjustLo(lc[x], &lv[x], threshold)
			adjustHi(hc[x], &hv[x], threshold)
			lc[x] = 0
			hc[x] = 0
		}
	}
}

// AdjustRangeMasked is AdjustRange restricted to pixels with a non-zero
// mask. Counters are cleared everywhere.
func AdjustRangeMasked(loCount, loValue, hiCount, hiValue *view.View, threshold uint8, mask *view.View) {
	for y := 0; y < loCount.Height; y++ {
		lc, lv, hc, hv := loCount.Row(y), loValue.Row(y), hiCount.Row(y), hiValue.Row(y)
		m := mask.Row(y)
		for x := range lc {
			if m[x] != 0 {
				adjustLo(lc[x], &lv[x], threshold)
				adjustHi(hc[x], &hv[x], threshold)
			}
			lc[x] = 0
			hc[x] = 0
		}
	}
}

func shift(v uint8, lo, hi *uint8) {
	add, sub := 0, 0
	if v > *hi {
		add = int(v) - int(*hi)
	}
	if *lo > v {
		sub = int(*lo) - int(v)
	}
	*lo = clamp8(int(*lo) + add - sub)
	*hi = clamp8(int(*hi) + add - sub)
}

// ShiftRange translates [lo, hi] so that it covers value, keeping its width
// where the byte range allows.
func ShiftRange(value, lo, hi *view.View) {
	for y := 0; y < value.Height; y++ {
		v, l, h := value.Row(y), lo.Row(y), hi.Row(y)
		for x := range v {
			shift(v[x], &l[x], &h[x])
		}
	}
}

// ShiftRangeMasked is ShiftRange restricted to pixels with a non-zero mask.
func ShiftRangeMasked(value, lo, hi, mask *view.View) {
	for y := 0; y < value.Height; y++ {
		v, l, h, m := value.Row(y), lo.Row(y), hi.Row(y), mask.Row(y)
		for x := range v {
			if m[x] != 0 {
				shift(v[x], &l[x], &h[x])
			}
		}
	}
}

// InitMask writes value to dst wherever src equals index. Other dst pixels
// are left unchanged.
func InitMask(src *view.View, index, value uint8, dst *view.View) {
	for y := 0; y < src.Height; y++ {
		s, d := src.Row(y), dst.Row(y)
		for x := range s {
			if s[x] == index {
				d[x] = value
			}
		}
	}
}

func clamp8(v int) uint8 {
	if v < 0 {
		return 0
	}
	if v > 0xFF {
		return 0xFF
	}
	return uint8(v)
}

// Package fast holds accelerated kernels.
//
// The kernels produce the same results as package base but trade the
// straightforward loops for word-at-a-time arithmetic, unrolled loops with
// scalar tails, lookup tables and the hardware CRC of hash/crc32. Unrolled
// loops process blocks of 8 bytes; widths that are not a multiple of the
// block size finish in a scalar tail.
package fast

import (
	"github.com/cwbudde/pixelparity/internal/view"
)

const block = 8

// GrowRangeSlow widens [lo, hi] by one level towards every value outside it.
func GrowRangeSlow(value, lo, hi *view.View) {
	for y := 0; y < value.Height; y++ {
		v, l, h := value.Row(y), lo.Row(y), hi.Row(y)
		n := len(v)
		l, h = l[:n], h[:n]
		for x := 0; x < n; x++ {
			vx := v[x]
			l[x] -= b2u(vx < l[x])
			h[x] += b2u(vx > h[x])
		}
	}
}

// GrowRangeFast widens [lo, hi] to include every value.
func GrowRangeFast(value, lo, hi *view.View) {
	for y := 0; y < value.Height; y++ {
		v, l, h := value.Row(y), lo.Row(y), hi.Row(y)
		n := len(v)
		l, h = l[:n], h[:n]
		x := 0
		for ; x+block <= n; x += block {
			vb, lb, hb := v[x:x+block:x+block], l[x:x+block:x+block], h[x:x+block:x+block]
			for i := range vb {
				lb[i] = min(lb[i], vb[i])
				hb[i] = max(hb[i], vb[i])
			}
		}
		for ; x < n; x++ {
			l[x] = min(l[x], v[x])
			h[x] = max(h[x], v[x])
		}
	}
}

// IncrementCount counts, with saturation at 255, how often value fell below
// loValue and rose above hiValue.
func IncrementCount(value, loValue, hiValue, loCount, hiCount *view.View) {
	for y := 0; y < value.Height; y++ {
		v := value.Row(y)
		n := len(v)
		lv, hv := loValue.Row(y)[:n], hiValue.Row(y)[:n]
		lc, hc := loCount.Row(y)[:n], hiCount.Row(y)[:n]
		for x := 0; x < n; x++ {
			lc[x] += b2u(v[x] < lv[x] && lc[x] != 0xFF)
			hc[x] += b2u(v[x] > hv[x] && hc[x] != 0xFF)
		}
	}
}

// adjustStep is the signed step of the low bound for count against
// threshold; the high bound moves the opposite way.
func adjustStep(count, threshold uint8) int {
	switch {
	case count > threshold:
		return -1
	case count < threshold:
		return 1
	default:
		return 0
	}
}

// AdjustRange moves each range bound one level according to how its counter
// compares with threshold, then clears both counters.
func AdjustRange(loCount, loValue, hiCount, hiValue *view.View, threshold uint8) {
	var lut [256]int
	for c := range lut {
		lut[c] = adjustStep(uint8(c), threshold)
	}
	for y := 0; y < loCount.Height; y++ {
		lc := loCount.Row(y)
		n := len(lc)
		lv, hc, hv := loValue.Row(y)[:n], hiCount.Row(y)[:n], hiValue.Row(y)[:n]
		for x := 0; x < n; x++ {
			lv[x] = sat8(int(lv[x]) + lut[lc[x]])
			hv[x] = sat8(int(hv[x]) - lut[hc[x]])
		}
		clear(lc)
		clear(hc)
	}
}

// AdjustRangeMasked is AdjustRange restricted to pixels with a non-zero
// mask. Counters are cleared everywhere.
func AdjustRangeMasked(loCount, loValue, hiCount, hiValue *view.View, threshold uint8, mask *view.View) {
	var lut [256]int
	for c := range lut {
		lut[c] = adjustStep(uint8(c), threshold)
	}
	for y := 0; y < loCount.Height; y++ {
		lc := loCount.Row(y)
		n := len(lc)
		lv, hc, hv, m := loValue.Row(y)[:n], hiCount.Row(y)[:n], hiValue.Row(y)[:n], mask.Row(y)[:n]
		for x := 0; x < n; x++ {
			on := int(b2u(m[x] != 0))
			lv[x] = sat8(int(lv[x]) + on*lut[lc[x]])
			hv[x] = sat8(int(hv[x]) - on*lut[hc[x]])
		}
		clear(lc)
		clear(hc)
	}
}

// ShiftRange translates [lo, hi] so that it covers value, keeping its width
// where the byte range allows.
func ShiftRange(value, lo, hi *view.View) {
	for y := 0; y < value.Height; y++ {
		v := value.Row(y)
		n := len(v)
		l, h := lo.Row(y)[:n], hi.Row(y)[:n]
		for x := 0; x < n; x++ {
			d := int(subs(v[x], h[x])) - int(subs(l[x], v[x]))
			l[x] = sat8(int(l[x]) + d)
			h[x] = sat8(int(h[x]) + d)
		}
	}
}

// ShiftRangeMasked is ShiftRange restricted to pixels with a non-zero mask.
func ShiftRangeMasked(value, lo, hi, mask *view.View) {
	for y := 0; y < value.Height; y++ {
		v := value.Row(y)
		n := len(v)
		l, h, m := lo.Row(y)[:n], hi.Row(y)[:n], mask.Row(y)[:n]
		for x := 0; x < n; x++ {
			if m[x] == 0 {
				continue
			}
			d := int(subs(v[x], h[x])) - int(subs(l[x], v[x]))
			l[x] = sat8(int(l[x]) + d)
			h[x] = sat8(int(h[x]) + d)
		}
	}
}

// InitMask writes value to dst wherever src equals index. Other dst pixels
// are left unchanged.
func InitMask(src *view.View, index, value uint8, dst *view.View) {
	for y := 0; y < src.Height; y++ {
		s := src.Row(y)
		d := dst.Row(y)[:len(s)]
		for x := range s {
			eq := -b2u(s[x] == index) // 0xFF when equal
			d[x] = d[x]&^eq | value&eq
		}
	}
}

// b2u converts a boolean to 0 or 1.
func b2u(b bool) uint8 {
	if b {
		return 1
	}
	return 0
}

// subs is saturated byte subtraction.
func subs(a, b uint8) uint8 {
	if a > b {
		return a - b
	}
	return 0
}

func sat8(v int) uint8 {
	return uint8(min(max(v, 0), 0xFF))
}

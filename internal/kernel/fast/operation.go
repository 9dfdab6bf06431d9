package fast

import (
	"encoding/binary"

	"github.com/cwbudde/pixelparity/internal/kernel/base"
	"github.com/cwbudde/pixelparity/internal/view"
)

const lsbMask = 0xFEFEFEFEFEFEFEFE

// OperationBinary8u combines every channel byte of a and b into dst. And, Or
// and Average work on 8 bytes per 64-bit word.
func OperationBinary8u(a, b, dst *view.View, t base.Binary8uType) {
	for y := 0; y < a.Height; y++ {
		ra, rb, rd := a.Row(y), b.Row(y), dst.Row(y)
		n := len(ra)
		rb, rd = rb[:n], rd[:n]
		x := 0
		switch t {
		case base.Binary8uAnd, base.Binary8uOr, base.Binary8uAverage:
			for ; x+block <= n; x += block {
				wa := binary.LittleEndian.Uint64(ra[x:])
				wb := binary.LittleEndian.Uint64(rb[x:])
				binary.LittleEndian.PutUint64(rd[x:], word(wa, wb, t))
			}
		}
		for ; x < n; x++ {
			rd[x] = binary8u(ra[x], rb[x], t)
		}
	}
}

// word applies t to eight packed bytes. Average is the rounding-up average
// (a | b) - ((a ^ b) >> 1) taken per byte.
func word(a, b uint64, t base.Binary8uType) uint64 {
	switch t {
	case base.Binary8uAnd:
		return a & b
	case base.Binary8uOr:
		return a | b
	default:
		return (a | b) - ((a ^ b) & lsbMask >> 1)
	}
}

func binary8u(a, b uint8, t base.Binary8uType) uint8 {
	switch t {
	case base.Binary8uAverage:
		return (a | b) - ((a ^ b) >> 1)
	case base.Binary8uAnd:
		return a & b
	case base.Binary8uOr:
		return a | b
	case base.Binary8uMaximum:
		return max(a, b)
	case base.Binary8uMinimum:
		return min(a, b)
	case base.Binary8uSaturatedSubtraction:
		return subs(a, b)
	case base.Binary8uSaturatedAddition:
		s := uint16(a) + uint16(b)
		return uint8(s | -(s >> 8))
	default:
		panic("fast: unknown Binary8uType")
	}
}

// OperationBinary16i combines Int16 views with wrap-around arithmetic.
func OperationBinary16i(a, b, dst *view.View, t base.Binary16iType) {
	for y := 0; y < a.Height; y++ {
		ra, rb, rd := a.Row16(y), b.Row16(y), dst.Row16(y)
		n := len(ra)
		rb, rd = rb[:n], rd[:n]
		if t == base.Binary16iSubtraction {
			for i := range ra {
				rd[i] = ra[i] - rb[i]
			}
			continue
		}
		for i := range ra {
			rd[i] = ra[i] + rb[i]
		}
	}
}

// VectorProduct writes the scaled outer product of vertical and horizontal
// into the Gray8 dst.
func VectorProduct(vertical, horizontal []uint8, dst *view.View) {
	for y := 0; y < dst.Height; y++ {
		v := int(vertical[y])
		d := dst.Row(y)
		h := horizontal[:len(d)]
		for x := range d {
			p := v * int(h[x])
			d[x] = uint8((p + 1 + (p >> 8)) >> 8)
		}
	}
}

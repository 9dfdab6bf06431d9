package base

import "github.com/cwbudde/pixelparity/internal/view"

// Binary8uType selects the per-byte operation of OperationBinary8u.
type Binary8uType int

const (
	Binary8uAverage Binary8uType = iota
	Binary8uAnd
	Binary8uOr
	Binary8uMaximum
	Binary8uMinimum
	Binary8uSaturatedSubtraction
	Binary8uSaturatedAddition
)

// Binary8uTypes lists every Binary8uType in order.
var Binary8uTypes = []Binary8uType{
	Binary8uAverage, Binary8uAnd, Binary8uOr, Binary8uMaximum,
	Binary8uMinimum, Binary8uSaturatedSubtraction, Binary8uSaturatedAddition,
}

func (t Binary8uType) String() string {
	switch t {
	case Binary8uAverage:
		return "Average"
	case Binary8uAnd:
		return "And"
	case Binary8uOr:
		return "Or"
	case Binary8uMaximum:
		return "Maximum"
	case Binary8uMinimum:
		return "Minimum"
	case Binary8uSaturatedSubtraction:
		return "SaturatedSubtraction"
	case Binary8uSaturatedAddition:
		return "SaturatedAddition"
	default:
		return "Unknown"
	}
}

// Binary16iType selects the per-element operation of OperationBinary16i.
type Binary16iType int

const (
	Binary16iAddition Binary16iType = iota
	Binary16iSubtraction
)

func (t Binary16iType) String() string {
	switch t {
	case Binary16iAddition:
		return "Addition"
	case Binary16iSubtraction:
		return "Subtraction"
	default:
		return "Unknown"
	}
}

// Binary8u applies t to a single pair of bytes.
func Binary8u(a, b uint8, t Binary8uType) uint8 {
	switch t {
	case Binary8uAverage:
		return uint8((int(a) + int(b) + 1) >> 1)
	case Binary8uAnd:
		return a & b
	case Binary8uOr:
		return a | b
	case Binary8uMaximum:
		return max(a, b)
	case Binary8uMinimum:
		return min(a, b)
	case Binary8uSaturatedSubtraction:
		return clamp8(int(a) - int(b))
	case Binary8uSaturatedAddition:
		return clamp8(int(a) + int(b))
	default:
		panic("base: unknown Binary8uType")
	}
}

// OperationBinary8u combines every channel byte of a and b into dst. The
// three views share any of the 8-bit interleaved formats.
func OperationBinary8u(a, b, dst *view.View, t Binary8uType) {
	for y := 0; y < a.Height; y++ {
		ra, rb, rd := a.Row(y), b.Row(y), dst.Row(y)
		for i := range ra {
			rd[i] = Binary8u(ra[i], rb[i], t)
		}
	}
}

// OperationBinary16i combines Int16 views with wrap-around arithmetic.
func OperationBinary16i(a, b, dst *view.View, t Binary16iType) {
	for y := 0; y < a.Height; y++ {
		ra, rb, rd := a.Row16(y), b.Row16(y), dst.Row16(y)
		for i := range ra {
			switch t {
			case Binary16iAddition:
				rd[i] = ra[i] + rb[i]
			case Binary16iSubtraction:
				rd[i] = ra[i] - rb[i]
			}
		}
	}
}

// VectorProduct writes the scaled outer product of vertical (one value per
// row) and horizontal (one value per column) into the Gray8 dst.
func VectorProduct(vertical, horizontal []uint8, dst *view.View) {
	for y := 0; y < dst.Height; y++ {
		v := int(vertical[y])
		d := dst.Row(y)
		for x := range d {
			d[x] = DivideBy255(v * int(horizontal[x]))
		}
	}
}

// DivideBy255 returns round(value / 255) for value in [0, 255*255].
func DivideBy255(value int) uint8 {
	return uint8((value + 1 + (value >> 8)) >> 8)
}

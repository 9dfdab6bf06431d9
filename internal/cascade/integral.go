package cascade

import (
	"fmt"

	"github.com/cwbudde/pixelparity/internal/view"
)

// Integral computes the integral image sum and, when sqsum is not nil, the
// integral of squares of the Gray8 view src. Both outputs are Int32 views of
// (W+1)x(H+1) elements with a zero first row and column.
//
// Accumulation wraps modulo 2^32. Differences of four corners are exact as
// long as the true sum over the addressed rectangle fits in 32 bits, which
// holds for any window of up to 66051 pixels.
func Integral(src, sum, sqsum *view.View) error {
	if err := checkIntegral(src, sum); err != nil {
		return err
	}
	if sqsum != nil {
		if err := checkIntegral(src, sqsum); err != nil {
			return err
		}
	}

	clear(sum.Row32(0))
	if sqsum != nil {
		clear(sqsum.Row32(0))
	}
	for y := 0; y < src.Height; y++ {
		s := src.Row(y)
		prev, cur := sum.Row32(y), sum.Row32(y+1)
		var row uint32
		cur[0] = 0
		for x, v := range s {
			row += uint32(v)
			cur[x+1] = int32(uint32(prev[x+1]) + row)
		}
		if sqsum == nil {
			continue
		}
		prevSq, curSq := sqsum.Row32(y), sqsum.Row32(y+1)
		var rowSq uint32
		curSq[0] = 0
		for x, v := range s {
			rowSq += uint32(v) * uint32(v)
			curSq[x+1] = int32(uint32(prevSq[x+1]) + rowSq)
		}
	}
	return nil
}

func checkIntegral(src, dst *view.View) error {
	if src.Format != view.Gray8 {
		return fmt.Errorf("%w: integral of %s", view.ErrFormat, src.Format)
	}
	if dst.Format != view.Int32 || dst.Width != src.Width+1 || dst.Height != src.Height+1 {
		return fmt.Errorf("%w: integral of %dx%d into %dx%d %s", view.ErrShapeMismatch,
			src.Width, src.Height, dst.Width, dst.Height, dst.Format)
	}
	return nil
}

// RectSum returns the sum of the integral image over the w x h rectangle at
// (x, y) in source coordinates.
func RectSum(integral *view.View, x, y, w, h int) uint32 {
	top, bottom := integral.Row32(y), integral.Row32(y+h)
	return uint32(bottom[x+w]) - uint32(bottom[x]) - uint32(top[x+w]) + uint32(top[x])
}

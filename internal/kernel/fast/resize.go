package fast

import "github.com/cwbudde/pixelparity/internal/view"

const (
	resizeBits  = 11
	resizeRange = 1 << resizeBits
)

// resizeTable returns the left source tap and right tap weight for every
// destination coordinate, computed in integer arithmetic.
func resizeTable(dstSize, srcSize int) (index, weight []int) {
	index, weight = make([]int, dstSize), make([]int, dstSize)
	den := 2 * dstSize
	for d := 0; d < dstSize; d++ {
		num := (2*d+1)*srcSize - dstSize
		if num < 0 {
			continue
		}
		i := num / den
		if i >= srcSize-1 {
			index[d] = srcSize - 1
			continue
		}
		index[d] = i
		weight[d] = ((num%den)*resizeRange + dstSize) / den
	}
	return index, weight
}

// ResizeBilinear scales src into dst with bilinear interpolation. Source
// rows are interpolated horizontally once and reused by every destination
// row that reads them.
func ResizeBilinear(src, dst *view.View) {
	channels := src.Format.PixelSize()
	ix, fx := resizeTable(dst.Width, src.Width)
	iy, fy := resizeTable(dst.Height, src.Height)
	rowLen := dst.Width * channels

	// horizontal holds the unrounded horizontal interpolation of the two
	// source rows currently in use.
	var horizontal [2][]int
	var cached [2]int
	for k := range horizontal {
		horizontal[k] = make([]int, rowLen)
		cached[k] = -1
	}
	fill := func(k, sy int) {
		if cached[k] == sy {
			return
		}
		s, h := src.Row(sy), horizontal[k]
		for x := 0; x < dst.Width; x++ {
			l := ix[x] * channels
			r := min(ix[x]+1, src.Width-1) * channels
			w := fx[x]
			for c := 0; c < channels; c++ {
				h[x*channels+c] = int(s[l+c])*(resizeRange-w) + int(s[r+c])*w
			}
		}
		cached[k] = sy
	}

	for y := 0; y < dst.Height; y++ {
		fill(0, iy[y])
		fill(1, min(iy[y]+1, src.Height-1))
		w := fy[y]
		top, bottom, d := horizontal[0], horizontal[1], dst.Row(y)[:rowLen]
		for i := range d {
			d[i] = uint8((top[i]*(resizeRange-w) + bottom[i]*w + resizeRange*resizeRange/2) >> (2 * resizeBits))
		}
	}
}

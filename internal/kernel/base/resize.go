package base

import "github.com/cwbudde/pixelparity/internal/view"

const (
	resizeBits  = 11
	resizeRange = 1 << resizeBits
)

// resizeCoord maps destination coordinate d to the left source tap and the
// fixed-point weight of the right tap. Pixel centers are aligned.
func resizeCoord(d, dstSize, srcSize int) (int, int) {
	s := (float64(d)+0.5)*float64(srcSize)/float64(dstSize) - 0.5
	if s < 0 {
		s = 0
	}
	i := int(s)
	if i >= srcSize-1 {
		return srcSize - 1, 0
	}
	return i, int((s-float64(i))*resizeRange + 0.5)
}

// ResizeBilinear scales src into dst with bilinear interpolation. Both views
// share one of the 8-bit interleaved formats; channels are interpolated
// independently. Weights are computed per destination pixel.
func ResizeBilinear(src, dst *view.View) {
	channels := src.Format.PixelSize()
	for y := 0; y < dst.Height; y++ {
		iy, fy := resizeCoord(y, dst.Height, src.Height)
		iy1 := min(iy+1, src.Height-1)
		top, bottom, d := src.Row(iy), src.Row(iy1), dst.Row(y)
		for x := 0; x < dst.Width; x++ {
			ix, fx := resizeCoord(x, dst.Width, src.Width)
			ix1 := min(ix+1, src.Width-1)
			for c := 0; c < channels; c++ {
				t := int(top[ix*channels+c])*(resizeRange-fx) + int(top[ix1*channels+c])*fx
				b := int(bottom[ix*channels+c])*(resizeRange-fx) + int(bottom[ix1*channels+c])*fx
				d[x*channels+c] = uint8((t*(resizeRange-fy) + b*fy + resizeRange*resizeRange/2) >> (2 * resizeBits))
			}
		}
	}
}

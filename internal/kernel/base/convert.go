package base

import "github.com/cwbudde/pixelparity/internal/view"

// BgraToBgr drops the alpha channel of a Bgra32 view into a Bgr24 view.
func BgraToBgr(bgra, bgr *view.View) {
	for y := 0; y < bgra.Height; y++ {
		s, d := bgra.Row(y), bgr.Row(y)
		for x := 0; x < bgra.Width; x++ {
			d[3*x+0] = s[4*x+0]
			d[3*x+1] = s[4*x+1]
			d[3*x+2] = s[4*x+2]
		}
	}
}

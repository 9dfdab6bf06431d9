package fast

import "github.com/cwbudde/pixelparity/internal/view"

// BgraToBgr drops the alpha channel of a Bgra32 view into a Bgr24 view, four
// pixels per iteration.
func BgraToBgr(bgra, bgr *view.View) {
	w := bgra.Width
	for y := 0; y < bgra.Height; y++ {
		s, d := bgra.Row(y)[:4*w], bgr.Row(y)[:3*w]
		x := 0
		for ; x+4 <= w; x += 4 {
			sb, db := s[4*x:4*x+16:4*x+16], d[3*x:3*x+12:3*x+12]
			db[0], db[1], db[2] = sb[0], sb[1], sb[2]
			db[3], db[4], db[5] = sb[4], sb[5], sb[6]
			db[6], db[7], db[8] = sb[8], sb[9], sb[10]
			db[9], db[10], db[11] = sb[12], sb[13], sb[14]
		}
		for ; x < w; x++ {
			copy(d[3*x:3*x+3], s[4*x:4*x+3])
		}
	}
}

package base

import (
	"image"

	"github.com/cwbudde/pixelparity/internal/cascade"
	"github.com/cwbudde/pixelparity/internal/view"
)

// DetectionHaarDetect marks with 1 in dst every window origin inside rect
// where mask is non-zero and the cascade of h accepts the window. Other dst
// pixels are left unchanged.
//
// With a through-column handle only even columns are scanned; an odd column
// is evaluated only when the even column to its left was accepted.
func DetectionHaarDetect(h *cascade.Handle, mask *view.View, rect image.Rectangle, dst *view.View) error {
	if err := h.Ready(); err != nil {
		return err
	}
	c := h.Cascade()
	sum, sqsum := h.Sum(), h.SqSum()
	area := int64(c.Width * c.Height)
	scan := h.Scan(rect).Intersect(mask.Bounds())

	accept := func(x, y int) bool {
		norm := cascade.Norm(
			cascade.RectSum(sum, x, y, c.Width, c.Height),
			cascade.RectSum(sqsum, x, y, c.Width, c.Height), area)
		for si := range c.Stages {
			s := &c.Stages[si]
			var stage int64
			for ti := range s.Trees {
				t := &s.Trees[ti]
				var value int64
				for _, r := range t.Feature.Rects {
					value += int64(r.Weight) * int64(cascade.RectSum(sum, x+r.X, y+r.Y, r.W, r.H))
				}
				stage += t.Output(value, norm)
			}
			if stage < int64(s.Threshold) {
				return false
			}
		}
		return true
	}

	through := h.ThroughColumn()
	for y := scan.Min.Y; y < scan.Max.Y; y++ {
		m, d := mask.Row(y), dst.Row(y)
		prevHit := false
		for x := scan.Min.X; x < scan.Max.X; x++ {
			even := x%2 == 0
			hit := false
			if (!through || even || prevHit) && m[x] != 0 && accept(x, y) {
				d[x] = 1
				hit = true
			}
			prevHit = hit && even
		}
	}
	return nil
}

package fast

import (
	"image"

	"github.com/cwbudde/pixelparity/internal/cascade"
	"github.com/cwbudde/pixelparity/internal/view"
)

// DetectionHaarDetect marks with 1 in dst every window origin inside rect
// where mask is non-zero and the cascade of h accepts the window. Feature
// rectangles are read through the prepared plan as flat offsets into the
// integral images.
func DetectionHaarDetect(h *cascade.Handle, mask *view.View, rect image.Rectangle, dst *view.View) error {
	plan, err := h.Plan()
	if err != nil {
		return err
	}
	sum := view.ElementsOf[int32](h.Sum())
	sqsum := view.ElementsOf[int32](h.SqSum())
	stride := h.Sum().Stride / h.Sum().Format.ChannelSize()
	scan := h.Scan(rect).Intersect(mask.Bounds())

	accept := func(origin int) bool {
		norm := cascade.Norm(plan.Window.Sum(sum, origin), plan.Window.Sum(sqsum, origin), plan.Area)
		for si := range plan.Stages {
			s := &plan.Stages[si]
			var stage int64
			for ti := range s.Trees {
				t := &s.Trees[ti]
				var value int64
				for ri := range t.Rects {
					r := &t.Rects[ri]
					value += r.Weight * int64(r.Sum(sum, origin))
				}
				if value*4096 < t.Threshold*norm {
					stage += t.Left
				} else {
					stage += t.Right
				}
			}
			if stage < s.Threshold {
				return false
			}
		}
		return true
	}

	through := h.ThroughColumn()
	for y := scan.Min.Y; y < scan.Max.Y; y++ {
		m, d := mask.Row(y), dst.Row(y)
		row := y * stride
		if !through {
			for x := scan.Min.X; x < scan.Max.X; x++ {
				if m[x] != 0 && accept(row+x) {
					d[x] = 1
				}
			}
			continue
		}
		x := scan.Min.X
		if x%2 != 0 {
			x++
		}
		for ; x < scan.Max.X; x += 2 {
			if m[x] == 0 || !accept(row+x) {
				continue
			}
			d[x] = 1
			if x+1 < scan.Max.X && m[x+1] != 0 && accept(row+x+1) {
				d[x+1] = 1
			}
		}
	}
	return nil
}

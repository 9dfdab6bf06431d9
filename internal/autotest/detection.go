package autotest

import (
	"fmt"
	"image"

	"github.com/cwbudde/pixelparity/internal/cascade"
	"github.com/cwbudde/pixelparity/internal/compare"
	"github.com/cwbudde/pixelparity/internal/harness"
	"github.com/cwbudde/pixelparity/internal/kernel"
	"github.com/cwbudde/pixelparity/internal/kernel/base"
	"github.com/cwbudde/pixelparity/internal/kernel/fast"
	"github.com/cwbudde/pixelparity/internal/view"
)

type detectFunc func(h *cascade.Handle, mask *view.View, rect image.Rectangle, dst *view.View) error

// Cascades lists the cascades swept by the detection tests. It defaults to
// the built-in cascades; the command line may replace it.
type Cascades []*cascade.Cascade

// DetectionTests returns the detection test over cs, or over the built-in
// cascades when cs is empty.
func DetectionTests(cs Cascades) []harness.Test {
	run := func(r *harness.Runner) bool {
		list := cs
		if len(list) == 0 {
			for _, name := range cascade.BuiltinNames() {
				c, err := cascade.Builtin(name)
				if err != nil {
					return r.Fail(detectionName, harness.Size{}, err)
				}
				list = append(list, c)
			}
		}
		ok := true
		for _, c := range list {
			if !detectCascade(r, c) {
				ok = false
			}
		}
		return ok
	}
	return []harness.Test{{Name: detectionName, Family: "detection", Run: run}}
}

const detectionName = "DetectionHaarDetect"

// detectCascade sweeps one cascade with and without the through-column scan.
func detectCascade(r *harness.Runner, c *cascade.Cascade) bool {
	ps := pairs[detectFunc](detectionName, base.DetectionHaarDetect, fast.DetectionHaarDetect, kernel.DetectionHaarDetect)
	ok := true
	for _, through := range []bool{false, true} {
		variant := sub(ps, fmt.Sprint(b2i(through)))
		if !each(r, r.Sizes(), variant, func(s harness.Size, a, b harness.Candidate[detectFunc]) bool {
			return detect(r, c, through, s, a, b)
		}) {
			ok = false
		}
	}
	return ok
}

func detect(r *harness.Runner, c *cascade.Cascade, through bool, s harness.Size, a, b harness.Candidate[detectFunc]) bool {
	src, err := r.Sample(s)
	if err != nil {
		return r.Fail(detectionName, s, err)
	}
	sum := r.NewView(harness.Size{W: s.W + 1, H: s.H + 1}, view.Int32)
	sqsum := r.NewView(harness.Size{W: s.W + 1, H: s.H + 1}, view.Int32)
	if err := cascade.Integral(src, sum, sqsum); err != nil {
		return r.Fail(detectionName, s, err)
	}
	h, err := cascade.Init(c, sum, sqsum, through)
	if err != nil {
		return r.Fail(detectionName, s, fmt.Errorf("failed to init cascade %s: %w", c.Name, err))
	}
	defer h.Free()
	if err := h.Prepare(); err != nil {
		return r.Fail(detectionName, s, err)
	}

	w, hh, _ := c.Info()
	rect := image.Rect(s.W/9, s.H/11, s.W-w, s.H-hh)
	mask := r.NewView(s, view.Gray8)
	inner, err := mask.Region(rect.Intersect(mask.Bounds()))
	if err != nil {
		return r.Fail(detectionName, s, err)
	}
	inner.Fill(0xFF)
	dst := r.NewView(s, view.Gray8)

	var callErr error
	detail := c.Name
	if through {
		detail += ", through column"
	}
	return harness.Execute(r, harness.Trial[detectFunc, harness.Frame]{
		Operation: detectionName,
		Size:      s,
		Detail:    detail,
		Adapter: harness.InPlace(func(fn detectFunc, d harness.Frame) {
			if err := fn(h, mask, rect, d[0]); err != nil {
				callErr = err
			}
		}, dst),
		Check: func(x, y harness.Frame) []compare.Verdict {
			v := compare.Buffers(x[0], y[0], compare.Exact(), "dst")
			if callErr != nil {
				v.Pass, v.Err = false, callErr
			}
			return []compare.Verdict{v}
		},
	}, a, b)
}

func b2i(b bool) int {
	if b {
		return 1
	}
	return 0
}

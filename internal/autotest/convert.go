package autotest

import (
	"github.com/cwbudde/pixelparity/internal/compare"
	"github.com/cwbudde/pixelparity/internal/harness"
	"github.com/cwbudde/pixelparity/internal/kernel"
	"github.com/cwbudde/pixelparity/internal/kernel/base"
	"github.com/cwbudde/pixelparity/internal/kernel/fast"
	"github.com/cwbudde/pixelparity/internal/view"
)

type bgraToBgrFunc func(bgra, bgr *view.View)

func convertTests() []harness.Test {
	return []harness.Test{{Name: "BgraToBgr", Family: "convert", Run: bgraToBgr}}
}

func bgraToBgr(r *harness.Runner) bool {
	const name = "BgraToBgr"
	ps := pairs[bgraToBgrFunc](name, base.BgraToBgr, fast.BgraToBgr, kernel.BgraToBgr)
	return each(r, r.Sizes(), ps, func(s harness.Size, a, b harness.Candidate[bgraToBgrFunc]) bool {
		src := random(r, r.Rand(name, s), s, view.Bgra32)
		return harness.Execute(r, harness.Trial[bgraToBgrFunc, harness.Frame]{
			Operation: name,
			Size:      s,
			Adapter: outputs(func(fn bgraToBgrFunc, d harness.Frame) {
				fn(src, d[0])
			}, r.NewView(s, view.Bgr24)),
			Check: harness.CheckFrames(compare.Exact(), "bgr"),
		}, a, b)
	})
}

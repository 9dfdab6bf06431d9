package autotest

import (
	"fmt"

	"github.com/cwbudde/pixelparity/internal/compare"
	"github.com/cwbudde/pixelparity/internal/harness"
	"github.com/cwbudde/pixelparity/internal/kernel"
	"github.com/cwbudde/pixelparity/internal/kernel/base"
	"github.com/cwbudde/pixelparity/internal/kernel/fast"
	"github.com/cwbudde/pixelparity/internal/view"
)

// resizePolicy accepts off-by-one channels from integer weight tables.
var resizePolicy = compare.Outliers(1, 64)

// resizeFactors are the source scale factors of the three sweep sizes.
var resizeFactors = []float64{0.9, 1.3, 0.7}

type resizeFunc func(src, dst *view.View)

func resizeTests() []harness.Test {
	return []harness.Test{{Name: "ResizeBilinear", Family: "resize", Run: resizeBilinear}}
}

func resizeBilinear(r *harness.Runner) bool {
	const name = "ResizeBilinear"
	ps := pairs[resizeFunc](name, base.ResizeBilinear, fast.ResizeBilinear, kernel.ResizeBilinear)
	sizes := r.Sizes()
	ok := true
	for _, f := range view.ColorFormats {
		for i, s := range sizes {
			k := resizeFactors[i%len(resizeFactors)]
			from := harness.Size{W: int(float64(s.W) * k), H: int(float64(s.H) * k)}
			if !each(r, []harness.Size{s}, sub(ps, f.String()), func(s harness.Size, a, b harness.Candidate[resizeFunc]) bool {
				src := random(r, r.Rand(name+"/"+f.String(), from), from, f)
				return harness.Execute(r, harness.Trial[resizeFunc, harness.Frame]{
					Operation: name,
					Size:      s,
					Detail:    fmt.Sprintf("from %s", from),
					Adapter: outputs(func(fn resizeFunc, d harness.Frame) {
						fn(src, d[0])
					}, r.NewView(s, f)),
					Check: harness.CheckFrames(resizePolicy, "dst"),
				}, a, b)
			}) {
				ok = false
			}
		}
	}
	return ok
}

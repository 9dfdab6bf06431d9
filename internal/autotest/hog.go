package autotest

import (
	"github.com/cwbudde/pixelparity/internal/compare"
	"github.com/cwbudde/pixelparity/internal/harness"
	"github.com/cwbudde/pixelparity/internal/kernel"
	"github.com/cwbudde/pixelparity/internal/kernel/base"
	"github.com/cwbudde/pixelparity/internal/kernel/fast"
	"github.com/cwbudde/pixelparity/internal/view"
)

const (
	hogCell         = 8
	hogQuantization = 18
	hogTolerance    = 1e-4
)

type hogFunc func(src *view.View, cellX, cellY, quantization int, histograms []float32)

func hogTests() []harness.Test {
	return []harness.Test{{Name: "HogDirectionHistograms", Family: "hog", Run: hogDirectionHistograms}}
}

// hogSizes are image sizes of (32, 24), (33, 25) and (31, 23) cells.
func hogSizes() []harness.Size {
	var sizes []harness.Size
	for _, c := range []harness.Size{{W: 32, H: 24}, {W: 33, H: 25}, {W: 31, H: 23}} {
		sizes = append(sizes, harness.Size{W: c.W * hogCell, H: c.H * hogCell})
	}
	return sizes
}

func hogDirectionHistograms(r *harness.Runner) bool {
	const name = "HogDirectionHistograms"
	ps := pairs[hogFunc](name, base.HogDirectionHistograms, fast.HogDirectionHistograms, kernel.HogDirectionHistograms)
	return each(r, hogSizes(), ps, func(s harness.Size, a, b harness.Candidate[hogFunc]) bool {
		src := random(r, r.Rand(name, s), s, view.Gray8)
		n := (s.W / hogCell) * (s.H / hogCell) * hogQuantization
		return harness.Execute(r, harness.Trial[hogFunc, []float32]{
			Operation: name,
			Size:      s,
			Adapter: harness.Adapter[hogFunc, []float32]{
				Alloc: func() []float32 { return make([]float32, n) },
				Call: func(fn hogFunc, h []float32) {
					fn(src, hogCell, hogCell, hogQuantization, h)
				},
			},
			Check: func(x, y []float32) []compare.Verdict {
				return []compare.Verdict{compare.Sequence(x, y, compare.Within(hogTolerance), "histograms")}
			},
		}, a, b)
	})
}

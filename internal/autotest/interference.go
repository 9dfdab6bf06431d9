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
	interferenceValue      = 3
	interferenceSaturation = 8888
	interferenceIndex      = 11
)

type (
	interferenceFunc       func(statistic *view.View, value uint8, saturation int16)
	interferenceMaskedFunc func(statistic *view.View, value uint8, saturation int16, mask *view.View, index uint8)
)

func interferenceTests() []harness.Test {
	return []harness.Test{
		interferenceTest("InterferenceIncrement",
			base.InterferenceIncrement, fast.InterferenceIncrement, kernel.InterferenceIncrement),
		interferenceMaskedTest("InterferenceIncrementMasked",
			base.InterferenceIncrementMasked, fast.InterferenceIncrementMasked, kernel.InterferenceIncrementMasked),
		interferenceTest("InterferenceDecrement",
			base.InterferenceDecrement, fast.InterferenceDecrement, kernel.InterferenceDecrement),
		interferenceMaskedTest("InterferenceDecrementMasked",
			base.InterferenceDecrementMasked, fast.InterferenceDecrementMasked, kernel.InterferenceDecrementMasked),
	}
}

func interferenceTest(name string, b, f, k interferenceFunc) harness.Test {
	run := func(r *harness.Runner) bool {
		return each(r, r.Sizes(), pairs(name, b, f, k), func(s harness.Size, x, y harness.Candidate[interferenceFunc]) bool {
			g := r.Rand(name, s)
			statistic := uniform(r, g, s, view.Int16, 0, 64)
			return harness.Execute(r, harness.Trial[interferenceFunc, harness.Frame]{
				Operation: name,
				Size:      s,
				Adapter: harness.InPlace(func(fn interferenceFunc, d harness.Frame) {
					fn(d[0], interferenceValue, interferenceSaturation)
				}, statistic),
				Check: harness.CheckFrames(compare.Exact(), "statistic"),
			}, x, y)
		})
	}
	return harness.Test{Name: name, Family: "interference", Run: run}
}

func interferenceMaskedTest(name string, b, f, k interferenceMaskedFunc) harness.Test {
	run := func(r *harness.Runner) bool {
		return each(r, r.Sizes(), pairs(name, b, f, k), func(s harness.Size, x, y harness.Candidate[interferenceMaskedFunc]) bool {
			g := r.Rand(name, s)
			statistic := uniform(r, g, s, view.Int16, 0, 64)
			mask := indexed(r, g, s, interferenceIndex)
			return harness.Execute(r, harness.Trial[interferenceMaskedFunc, harness.Frame]{
				Operation: name,
				Size:      s,
				Adapter: harness.InPlace(func(fn interferenceMaskedFunc, d harness.Frame) {
					fn(d[0], interferenceValue, interferenceSaturation, mask, interferenceIndex)
				}, statistic),
				Check: harness.CheckFrames(compare.Exact(), "statistic"),
			}, x, y)
		})
	}
	return harness.Test{Name: name, Family: "interference", Run: run}
}

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
	familyBackground = "background"
	adjustThreshold  = 0x80
)

type (
	rangeFunc          func(value, lo, hi *view.View)
	rangeMaskedFunc    func(value, lo, hi, mask *view.View)
	incrementCountFunc func(value, loValue, hiValue, loCount, hiCount *view.View)
	adjustRangeFunc    func(loCount, loValue, hiCount, hiValue *view.View, threshold uint8)
	adjustMaskedFunc   func(loCount, loValue, hiCount, hiValue *view.View, threshold uint8, mask *view.View)
	initMaskFunc       func(src *view.View, index, value uint8, dst *view.View)
)

func backgroundTests() []harness.Test {
	return []harness.Test{
		rangeTest("BackgroundGrowRangeSlow", base.GrowRangeSlow, fast.GrowRangeSlow, kernel.GrowRangeSlow),
		rangeTest("BackgroundGrowRangeFast", base.GrowRangeFast, fast.GrowRangeFast, kernel.GrowRangeFast),
		{Name: "BackgroundIncrementCount", Family: familyBackground, Run: incrementCount},
		{Name: "BackgroundAdjustRange", Family: familyBackground, Run: adjustRange},
		{Name: "BackgroundAdjustRangeMasked", Family: familyBackground, Run: adjustRangeMasked},
		rangeTest("BackgroundShiftRange", base.ShiftRange, fast.ShiftRange, kernel.ShiftRange),
		{Name: "BackgroundShiftRangeMasked", Family: familyBackground, Run: shiftRangeMasked},
		{Name: "BackgroundInitMask", Family: familyBackground, Run: initMask},
	}
}

// rangeTest checks a kernel updating the lo and hi bounds in place.
func rangeTest(name string, b, f, k rangeFunc) harness.Test {
	run := func(r *harness.Runner) bool {
		return each(r, r.Sizes(), pairs(name, b, f, k), func(s harness.Size, x, y harness.Candidate[rangeFunc]) bool {
			g := r.Rand(name, s)
			value := random(r, g, s, view.Gray8)
			lo := random(r, g, s, view.Gray8)
			hi := random(r, g, s, view.Gray8)
			return harness.Execute(r, harness.Trial[rangeFunc, harness.Frame]{
				Operation: name,
				Size:      s,
				Adapter:   harness.InPlace(func(fn rangeFunc, d harness.Frame) { fn(value, d[0], d[1]) }, lo, hi),
				Check:     harness.CheckFrames(compare.Exact(), "lo", "hi"),
			}, x, y)
		})
	}
	return harness.Test{Name: name, Family: familyBackground, Run: run}
}

func incrementCount(r *harness.Runner) bool {
	const name = "BackgroundIncrementCount"
	ps := pairs[incrementCountFunc](name, base.IncrementCount, fast.IncrementCount, kernel.IncrementCount)
	return each(r, r.Sizes(), ps, func(s harness.Size, a, b harness.Candidate[incrementCountFunc]) bool {
		g := r.Rand(name, s)
		value := random(r, g, s, view.Gray8)
		loValue := random(r, g, s, view.Gray8)
		hiValue := random(r, g, s, view.Gray8)
		loCount := random(r, g, s, view.Gray8)
		hiCount := random(r, g, s, view.Gray8)
		return harness.Execute(r, harness.Trial[incrementCountFunc, harness.Frame]{
			Operation: name,
			Size:      s,
			Adapter: harness.InPlace(func(fn incrementCountFunc, d harness.Frame) {
				fn(value, loValue, hiValue, d[0], d[1])
			}, loCount, hiCount),
			Check: harness.CheckFrames(compare.Exact(), "lo", "hi"),
		}, a, b)
	})
}

func adjustRange(r *harness.Runner) bool {
	const name = "BackgroundAdjustRange"
	ps := pairs[adjustRangeFunc](name, base.AdjustRange, fast.AdjustRange, kernel.AdjustRange)
	return each(r, r.Sizes(), ps, func(s harness.Size, a, b harness.Candidate[adjustRangeFunc]) bool {
		g := r.Rand(name, s)
		frame := []*view.View{
			random(r, g, s, view.Gray8), random(r, g, s, view.Gray8),
			random(r, g, s, view.Gray8), random(r, g, s, view.Gray8),
		}
		return harness.Execute(r, harness.Trial[adjustRangeFunc, harness.Frame]{
			Operation: name,
			Size:      s,
			Adapter: harness.InPlace(func(fn adjustRangeFunc, d harness.Frame) {
				fn(d[0], d[1], d[2], d[3], adjustThreshold)
			}, frame...),
			Check: harness.CheckFrames(compare.Exact(), "loCount", "loValue", "hiCount", "hiValue"),
		}, a, b)
	})
}

func adjustRangeMasked(r *harness.Runner) bool {
	const name = "BackgroundAdjustRangeMasked"
	ps := pairs[adjustMaskedFunc](name, base.AdjustRangeMasked, fast.AdjustRangeMasked, kernel.AdjustRangeMasked)
	return each(r, r.Sizes(), ps, func(s harness.Size, a, b harness.Candidate[adjustMaskedFunc]) bool {
		g := r.Rand(name, s)
		frame := []*view.View{
			random(r, g, s, view.Gray8), random(r, g, s, view.Gray8),
			random(r, g, s, view.Gray8), random(r, g, s, view.Gray8),
		}
		mask := indexed(r, g, s, 0xFF)
		return harness.Execute(r, harness.Trial[adjustMaskedFunc, harness.Frame]{
			Operation: name,
			Size:      s,
			Adapter: harness.InPlace(func(fn adjustMaskedFunc, d harness.Frame) {
				fn(d[0], d[1], d[2], d[3], adjustThreshold, mask)
			}, frame...),
			Check: harness.CheckFrames(compare.Exact(), "loCount", "loValue", "hiCount", "hiValue"),
		}, a, b)
	})
}

func shiftRangeMasked(r *harness.Runner) bool {
	const name = "BackgroundShiftRangeMasked"
	ps := pairs[rangeMaskedFunc](name, base.ShiftRangeMasked, fast.ShiftRangeMasked, kernel.ShiftRangeMasked)
	return each(r, r.Sizes(), ps, func(s harness.Size, a, b harness.Candidate[rangeMaskedFunc]) bool {
		g := r.Rand(name, s)
		value := random(r, g, s, view.Gray8)
		lo := random(r, g, s, view.Gray8)
		hi := random(r, g, s, view.Gray8)
		mask := indexed(r, g, s, 0xFF)
		return harness.Execute(r, harness.Trial[rangeMaskedFunc, harness.Frame]{
			Operation: name,
			Size:      s,
			Adapter:   harness.InPlace(func(fn rangeMaskedFunc, d harness.Frame) { fn(value, d[0], d[1], mask) }, lo, hi),
			Check:     harness.CheckFrames(compare.Exact(), "lo", "hi"),
		}, a, b)
	})
}

func initMask(r *harness.Runner) bool {
	const name = "BackgroundInitMask"
	ps := pairs[initMaskFunc](name, base.InitMask, fast.InitMask, kernel.InitMask)
	return each(r, r.Sizes(), ps, func(s harness.Size, a, b harness.Candidate[initMaskFunc]) bool {
		g := r.Rand(name, s)
		index := uint8(g.Range(1, 255))
		src := indexed(r, g, s, index)
		dst := r.NewView(s, view.Gray8)
		return harness.Execute(r, harness.Trial[initMaskFunc, harness.Frame]{
			Operation: name,
			Size:      s,
			Adapter:   harness.InPlace(func(fn initMaskFunc, d harness.Frame) { fn(src, index, 0xFF, d[0]) }, dst),
			Check:     harness.CheckFrames(compare.Exact(), "dst"),
		}, a, b)
	})
}

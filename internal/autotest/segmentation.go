package autotest

import (
	"image"

	"github.com/cwbudde/pixelparity/internal/compare"
	"github.com/cwbudde/pixelparity/internal/gen"
	"github.com/cwbudde/pixelparity/internal/harness"
	"github.com/cwbudde/pixelparity/internal/kernel"
	"github.com/cwbudde/pixelparity/internal/kernel/base"
	"github.com/cwbudde/pixelparity/internal/kernel/fast"
	"github.com/cwbudde/pixelparity/internal/view"
)

const familySegmentation = "segmentation"

type (
	shrinkRegionFunc    func(mask *view.View, index uint8, rect *image.Rectangle)
	fillSingleHolesFunc func(mask *view.View, index uint8)
	changeIndexFunc     func(mask *view.View, oldIndex, newIndex uint8)
	propagate2x2Func    func(parent, child, difference *view.View, currentIndex, invalidIndex, emptyIndex, threshold uint8)
)

func segmentationTests() []harness.Test {
	return []harness.Test{
		{Name: "SegmentationShrinkRegion", Family: familySegmentation, Run: shrinkRegion},
		{Name: "SegmentationFillSingleHoles", Family: familySegmentation, Run: fillSingleHoles},
		{Name: "SegmentationChangeIndex", Family: familySegmentation, Run: changeIndex},
		{Name: "SegmentationPropagate2x2", Family: familySegmentation, Run: propagate2x2},
	}
}

func shrinkRegion(r *harness.Runner) bool {
	const (
		name  = "SegmentationShrinkRegion"
		index = 3
	)
	ps := pairs[shrinkRegionFunc](name, base.ShrinkRegion, fast.ShrinkRegion, kernel.ShrinkRegion)
	return each(r, r.Sizes(), ps, func(s harness.Size, a, b harness.Candidate[shrinkRegionFunc]) bool {
		mask := r.NewView(s, view.Gray8)
		gen.FillRhombMask(mask, image.Rect(s.W*1/15, s.H*2/15, s.W*11/15, s.H*12/15), index)
		return harness.Execute(r, harness.Trial[shrinkRegionFunc, *image.Rectangle]{
			Operation: name,
			Size:      s,
			Adapter: harness.Adapter[shrinkRegionFunc, *image.Rectangle]{
				Alloc: func() *image.Rectangle { return new(image.Rectangle) },
				Reset: func(rect *image.Rectangle) { *rect = mask.Bounds() },
				Call:  func(fn shrinkRegionFunc, rect *image.Rectangle) { fn(mask, index, rect) },
			},
			Check: func(x, y *image.Rectangle) []compare.Verdict {
				return []compare.Verdict{compare.Rects(*x, *y, "rect")}
			},
		}, a, b)
	})
}

func fillSingleHoles(r *harness.Runner) bool {
	const (
		name  = "SegmentationFillSingleHoles"
		index = 3
	)
	ps := pairs[fillSingleHolesFunc](name, base.FillSingleHoles, fast.FillSingleHoles, kernel.FillSingleHoles)
	return each(r, r.Sizes(), ps, func(s harness.Size, a, b harness.Candidate[fillSingleHolesFunc]) bool {
		mask := indexed(r, r.Rand(name, s), s, index)
		return harness.Execute(r, harness.Trial[fillSingleHolesFunc, harness.Frame]{
			Operation: name,
			Size:      s,
			Adapter:   harness.InPlace(func(fn fillSingleHolesFunc, d harness.Frame) { fn(d[0], index) }, mask),
			Check:     harness.CheckFrames(compare.Exact(), "mask"),
		}, a, b)
	})
}

func changeIndex(r *harness.Runner) bool {
	const (
		name     = "SegmentationChangeIndex"
		oldIndex = 3
		newIndex = 2
	)
	ps := pairs[changeIndexFunc](name, base.ChangeIndex, fast.ChangeIndex, kernel.ChangeIndex)
	return each(r, r.Sizes(), ps, func(s harness.Size, a, b harness.Candidate[changeIndexFunc]) bool {
		mask := indexed(r, r.Rand(name, s), s, oldIndex)
		return harness.Execute(r, harness.Trial[changeIndexFunc, harness.Frame]{
			Operation: name,
			Size:      s,
			Adapter:   harness.InPlace(func(fn changeIndexFunc, d harness.Frame) { fn(d[0], oldIndex, newIndex) }, mask),
			Check:     harness.CheckFrames(compare.Exact(), "mask"),
		}, a, b)
	})
}

func propagate2x2(r *harness.Runner) bool {
	const (
		name         = "SegmentationPropagate2x2"
		currentIndex = 3
		invalidIndex = 2
		emptyIndex   = 0
		threshold    = 128
	)
	ps := pairs[propagate2x2Func](name, base.Propagate2x2, fast.Propagate2x2, kernel.Propagate2x2)
	return each(r, r.Sizes(), ps, func(s harness.Size, a, b harness.Candidate[propagate2x2Func]) bool {
		g := r.Rand(name, s)
		double := harness.Size{W: 2 * s.W, H: 2 * s.H}
		parent := indexed(r, g, s, currentIndex)
		child := uniform(r, g, double, view.Gray8, 0, currentIndex-1)
		difference := random(r, g, double, view.Gray8)
		return harness.Execute(r, harness.Trial[propagate2x2Func, harness.Frame]{
			Operation: name,
			Size:      s,
			Adapter: harness.InPlace(func(fn propagate2x2Func, d harness.Frame) {
				fn(parent, d[0], difference, currentIndex, invalidIndex, emptyIndex, threshold)
			}, child),
			Check: harness.CheckFrames(compare.Exact(), "child"),
		}, a, b)
	})
}

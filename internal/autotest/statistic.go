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

const familyStatistic = "statistic"

type (
	statisticFunc func(src *view.View) (lo, hi, average uint8)
	momentsFunc   func(mask *view.View, index uint8) base.Moments
	sumsFunc      func(src *view.View, sums []uint32)
	sumFunc       func(src *view.View) uint64
	pairSumFunc   func(a, b *view.View) uint64
)

// momentScales multiply the nominal geometry for the moment tests.
var momentScales = [][2]int{{1, 1}, {5, 2}}

func statisticTests() []harness.Test {
	return []harness.Test{
		{Name: "GetStatistic", Family: familyStatistic, Run: getStatistic},
		{Name: "GetMoments", Family: familyStatistic, Run: getMoments},
		sumsTest("GetRowSums", base.GetRowSums, fast.GetRowSums, kernel.GetRowSums, func(s harness.Size) int { return s.H }),
		sumsTest("GetColSums", base.GetColSums, fast.GetColSums, kernel.GetColSums, func(s harness.Size) int { return s.W }),
		sumTest("ValueSum", base.ValueSum, fast.ValueSum, kernel.ValueSum),
		sumTest("SquareSum", base.SquareSum, fast.SquareSum, kernel.SquareSum),
		pairSumTest("CorrelationSum", []view.Format{view.Gray8},
			base.CorrelationSum, fast.CorrelationSum, kernel.CorrelationSum),
		pairSumTest("AbsDifferenceSum", view.ColorFormats,
			base.AbsDifferenceSum, fast.AbsDifferenceSum, kernel.AbsDifferenceSum),
		pairSumTest("SquaredDifferenceSum", view.ColorFormats,
			base.SquaredDifferenceSum, fast.SquaredDifferenceSum, kernel.SquaredDifferenceSum),
	}
}

func getStatistic(r *harness.Runner) bool {
	const name = "GetStatistic"
	ps := pairs[statisticFunc](name, base.GetStatistic, fast.GetStatistic, kernel.GetStatistic)
	return each(r, r.Sizes(), ps, func(s harness.Size, a, b harness.Candidate[statisticFunc]) bool {
		src := random(r, r.Rand(name, s), s, view.Gray8)
		return harness.Execute(r, harness.Trial[statisticFunc, *result[[3]uint8]]{
			Operation: name,
			Size:      s,
			Adapter: returning(func(fn statisticFunc) [3]uint8 {
				lo, hi, avg := fn(src)
				return [3]uint8{lo, hi, avg}
			}),
			Check: func(x, y *result[[3]uint8]) []compare.Verdict {
				return []compare.Verdict{
					compare.Scalar(x.v[0], y.v[0], 0, "min"),
					compare.Scalar(x.v[1], y.v[1], 0, "max"),
					compare.Scalar(x.v[2], y.v[2], 0, "average"),
				}
			},
		}, a, b)
	})
}

func getMoments(r *harness.Runner) bool {
	const (
		name  = "GetMoments"
		index = 7
	)
	ps := pairs[momentsFunc](name, base.GetMoments, fast.GetMoments, kernel.GetMoments)
	ok := true
	for _, sc := range momentScales {
		sizes := r.Config().Scaled(sc[0], sc[1]).Sizes()
		detail := fmt.Sprintf("scale %dx%d", sc[0], sc[1])
		if !each(r, sizes, sub(ps, detail), func(s harness.Size, a, b harness.Candidate[momentsFunc]) bool {
			mask := indexed(r, r.Rand(name, s), s, index)
			return harness.Execute(r, harness.Trial[momentsFunc, *result[base.Moments]]{
				Operation: name,
				Size:      s,
				Detail:    detail,
				Adapter:   returning(func(fn momentsFunc) base.Moments { return fn(mask, index) }),
				Check: func(x, y *result[base.Moments]) []compare.Verdict {
					mx, my := x.v, y.v
					return []compare.Verdict{
						compare.Scalar(mx.Area, my.Area, 0, "area"),
						compare.Scalar(mx.X, my.X, 0, "x"),
						compare.Scalar(mx.Y, my.Y, 0, "y"),
						compare.Scalar(mx.XX, my.XX, 0, "xx"),
						compare.Scalar(mx.XY, my.XY, 0, "xy"),
						compare.Scalar(mx.YY, my.YY, 0, "yy"),
					}
				},
			}, a, b)
		}) {
			ok = false
		}
	}
	return ok
}

// sumsTest checks a kernel writing one sum per row or column.
func sumsTest(name string, b, f, k sumsFunc, length func(harness.Size) int) harness.Test {
	run := func(r *harness.Runner) bool {
		return each(r, r.Sizes(), pairs(name, b, f, k), func(s harness.Size, x, y harness.Candidate[sumsFunc]) bool {
			src := random(r, r.Rand(name, s), s, view.Gray8)
			n := length(s)
			return harness.Execute(r, harness.Trial[sumsFunc, []uint32]{
				Operation: name,
				Size:      s,
				Adapter: harness.Adapter[sumsFunc, []uint32]{
					Alloc: func() []uint32 { return make([]uint32, n) },
					Call:  func(fn sumsFunc, sums []uint32) { fn(src, sums) },
				},
				Check: func(p, q []uint32) []compare.Verdict {
					return []compare.Verdict{compare.Sequence(p, q, compare.Exact(), "sums")}
				},
			}, x, y)
		})
	}
	return harness.Test{Name: name, Family: familyStatistic, Run: run}
}

func sumTest(name string, b, f, k sumFunc) harness.Test {
	run := func(r *harness.Runner) bool {
		return each(r, r.Sizes(), pairs(name, b, f, k), func(s harness.Size, x, y harness.Candidate[sumFunc]) bool {
			src := random(r, r.Rand(name, s), s, view.Gray8)
			return harness.Execute(r, harness.Trial[sumFunc, *result[uint64]]{
				Operation: name,
				Size:      s,
				Adapter:   returning(func(fn sumFunc) uint64 { return fn(src) }),
				Check: func(p, q *result[uint64]) []compare.Verdict {
					return []compare.Verdict{compare.Scalar(p.v, q.v, 0, "sum")}
				},
			}, x, y)
		})
	}
	return harness.Test{Name: name, Family: familyStatistic, Run: run}
}

// pairSumTest checks a kernel reducing two views of each format to a sum.
func pairSumTest(name string, formats []view.Format, b, f, k pairSumFunc) harness.Test {
	run := func(r *harness.Runner) bool {
		ps := pairs(name, b, f, k)
		ok := true
		for _, format := range formats {
			variant := ps
			if len(formats) > 1 {
				variant = sub(ps, format.String())
			}
			if !each(r, r.Sizes(), variant, func(s harness.Size, x, y harness.Candidate[pairSumFunc]) bool {
				g := r.Rand(name+"/"+format.String(), s)
				va, vb := random(r, g, s, format), random(r, g, s, format)
				return harness.Execute(r, harness.Trial[pairSumFunc, *result[uint64]]{
					Operation: name,
					Size:      s,
					Detail:    format.String(),
					Adapter:   returning(func(fn pairSumFunc) uint64 { return fn(va, vb) }),
					Check: func(p, q *result[uint64]) []compare.Verdict {
						return []compare.Verdict{compare.Scalar(p.v, q.v, 0, "sum")}
					},
				}, x, y)
			}) {
				ok = false
			}
		}
		return ok
	}
	return harness.Test{Name: name, Family: familyStatistic, Run: run}
}

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

const familyTexture = "texture"

type (
	gradientFunc      func(src *view.View, saturation, boost uint8, dx, dy *view.View)
	boostedUvFunc     func(src *view.View, boost uint8, dst *view.View)
	differenceSumFunc func(src, lo, hi *view.View) int64
	compensationFunc  func(src *view.View, shift int, dst *view.View)
)

func textureTests() []harness.Test {
	return []harness.Test{
		{Name: "TextureBoostedSaturatedGradient", Family: familyTexture, Run: boostedSaturatedGradient},
		{Name: "TextureBoostedUv", Family: familyTexture, Run: boostedUv},
		{Name: "TextureGetDifferenceSum", Family: familyTexture, Run: getDifferenceSum},
		{Name: "TexturePerformCompensation", Family: familyTexture, Run: performCompensation},
	}
}

func boostedSaturatedGradient(r *harness.Runner) bool {
	const name = "TextureBoostedSaturatedGradient"
	ps := pairs[gradientFunc](name, base.BoostedSaturatedGradient, fast.BoostedSaturatedGradient, kernel.BoostedSaturatedGradient)
	ok := true
	for _, p := range []struct{ saturation, boost uint8 }{{32, 3}, {16, 4}, {16, 5}} {
		detail := fmt.Sprintf("saturation %d, boost %d", p.saturation, p.boost)
		if !each(r, r.Sizes(), ps, func(s harness.Size, a, b harness.Candidate[gradientFunc]) bool {
			src := random(r, r.Rand(name, s), s, view.Gray8)
			return harness.Execute(r, harness.Trial[gradientFunc, harness.Frame]{
				Operation: name,
				Size:      s,
				Detail:    detail,
				Adapter: outputs(func(fn gradientFunc, d harness.Frame) {
					fn(src, p.saturation, p.boost, d[0], d[1])
				}, r.NewView(s, view.Gray8), r.NewView(s, view.Gray8)),
				Check: harness.CheckFrames(compare.Exact(), "dx", "dy"),
			}, a, b)
		}) {
			ok = false
		}
	}
	return ok
}

func boostedUv(r *harness.Runner) bool {
	const name = "TextureBoostedUv"
	ps := pairs[boostedUvFunc](name, base.BoostedUv, fast.BoostedUv, kernel.BoostedUv)
	ok := true
	for _, boost := range []uint8{3, 4, 5} {
		detail := fmt.Sprintf("boost %d", boost)
		if !each(r, r.Sizes(), ps, func(s harness.Size, a, b harness.Candidate[boostedUvFunc]) bool {
			src := random(r, r.Rand(name, s), s, view.Gray8)
			return harness.Execute(r, harness.Trial[boostedUvFunc, harness.Frame]{
				Operation: name,
				Size:      s,
				Detail:    detail,
				Adapter: outputs(func(fn boostedUvFunc, d harness.Frame) {
					fn(src, boost, d[0])
				}, r.NewView(s, view.Gray8)),
				Check: harness.CheckFrames(compare.Exact(), "dst"),
			}, a, b)
		}) {
			ok = false
		}
	}
	return ok
}

func getDifferenceSum(r *harness.Runner) bool {
	const name = "TextureGetDifferenceSum"
	ps := pairs[differenceSumFunc](name, base.GetDifferenceSum, fast.GetDifferenceSum, kernel.GetDifferenceSum)
	return each(r, r.Sizes(), ps, func(s harness.Size, a, b harness.Candidate[differenceSumFunc]) bool {
		g := r.Rand(name, s)
		src, lo, hi := random(r, g, s, view.Gray8), random(r, g, s, view.Gray8), random(r, g, s, view.Gray8)
		return harness.Execute(r, harness.Trial[differenceSumFunc, *result[int64]]{
			Operation: name,
			Size:      s,
			Adapter:   returning(func(fn differenceSumFunc) int64 { return fn(src, lo, hi) }),
			Check: func(x, y *result[int64]) []compare.Verdict {
				return []compare.Verdict{compare.Scalar(x.v, y.v, 0, "sum")}
			},
		}, a, b)
	})
}

func performCompensation(r *harness.Runner) bool {
	const name = "TexturePerformCompensation"
	ps := pairs[compensationFunc](name, base.PerformCompensation, fast.PerformCompensation, kernel.PerformCompensation)
	ok := true
	for _, shift := range []int{17, 3, 0, -4, -33} {
		detail := fmt.Sprintf("shift %d", shift)
		if !each(r, r.Sizes(), ps, func(s harness.Size, a, b harness.Candidate[compensationFunc]) bool {
			src := random(r, r.Rand(name, s), s, view.Gray8)
			return harness.Execute(r, harness.Trial[compensationFunc, harness.Frame]{
				Operation: name,
				Size:      s,
				Detail:    detail,
				Adapter: outputs(func(fn compensationFunc, d harness.Frame) {
					fn(src, shift, d[0])
				}, r.NewView(s, view.Gray8)),
				Check: harness.CheckFrames(compare.Exact(), "dst"),
			}, a, b)
		}) {
			ok = false
		}
	}
	return ok
}

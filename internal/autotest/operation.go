package autotest

import (
	"github.com/cwbudde/pixelparity/internal/compare"
	"github.com/cwbudde/pixelparity/internal/harness"
	"github.com/cwbudde/pixelparity/internal/kernel"
	"github.com/cwbudde/pixelparity/internal/kernel/base"
	"github.com/cwbudde/pixelparity/internal/kernel/fast"
	"github.com/cwbudde/pixelparity/internal/view"
)

const familyOperation = "operation"

type (
	binary8uFunc      func(a, b, dst *view.View, t base.Binary8uType)
	binary16iFunc     func(a, b, dst *view.View, t base.Binary16iType)
	vectorProductFunc func(vertical, horizontal []uint8, dst *view.View)
)

func operationTests() []harness.Test {
	return []harness.Test{
		{Name: "OperationBinary8u", Family: familyOperation, Run: operationBinary8u},
		{Name: "OperationBinary16i", Family: familyOperation, Run: operationBinary16i},
		{Name: "VectorProduct", Family: familyOperation, Run: vectorProduct},
	}
}

func operationBinary8u(r *harness.Runner) bool {
	const name = "OperationBinary8u"
	ps := pairs[binary8uFunc](name, base.OperationBinary8u, fast.OperationBinary8u, kernel.OperationBinary8u)
	ok := true
	for _, f := range view.ColorFormats {
		for _, op := range base.Binary8uTypes {
			variant := sub(sub(ps, op.String()), f.String())
			if !each(r, r.Sizes(), variant, func(s harness.Size, a, b harness.Candidate[binary8uFunc]) bool {
				g := r.Rand(name+"/"+f.String(), s)
				x, y := random(r, g, s, f), random(r, g, s, f)
				return harness.Execute(r, harness.Trial[binary8uFunc, harness.Frame]{
					Operation: name,
					Size:      s,
					Detail:    op.String() + ", " + f.String(),
					Adapter: outputs(func(fn binary8uFunc, d harness.Frame) {
						fn(x, y, d[0], op)
					}, r.NewView(s, f)),
					Check: harness.CheckFrames(compare.Exact(), "dst"),
				}, a, b)
			}) {
				ok = false
			}
		}
	}
	return ok
}

func operationBinary16i(r *harness.Runner) bool {
	const name = "OperationBinary16i"
	ps := pairs[binary16iFunc](name, base.OperationBinary16i, fast.OperationBinary16i, kernel.OperationBinary16i)
	ok := true
	for _, op := range []base.Binary16iType{base.Binary16iAddition, base.Binary16iSubtraction} {
		if !each(r, r.Sizes(), sub(ps, op.String()), func(s harness.Size, a, b harness.Candidate[binary16iFunc]) bool {
			g := r.Rand(name, s)
			x, y := random(r, g, s, view.Int16), random(r, g, s, view.Int16)
			return harness.Execute(r, harness.Trial[binary16iFunc, harness.Frame]{
				Operation: name,
				Size:      s,
				Detail:    op.String(),
				Adapter: outputs(func(fn binary16iFunc, d harness.Frame) {
					fn(x, y, d[0], op)
				}, r.NewView(s, view.Int16)),
				Check: harness.CheckFrames(compare.Exact(), "dst"),
			}, a, b)
		}) {
			ok = false
		}
	}
	return ok
}

func vectorProduct(r *harness.Runner) bool {
	const name = "VectorProduct"
	ps := pairs[vectorProductFunc](name, base.VectorProduct, fast.VectorProduct, kernel.VectorProduct)
	return each(r, r.Sizes(), ps, func(s harness.Size, a, b harness.Candidate[vectorProductFunc]) bool {
		g := r.Rand(name, s)
		vertical, horizontal := g.Bytes(s.H), g.Bytes(s.W)
		return harness.Execute(r, harness.Trial[vectorProductFunc, harness.Frame]{
			Operation: name,
			Size:      s,
			Adapter: outputs(func(fn vectorProductFunc, d harness.Frame) {
				fn(vertical, horizontal, d[0])
			}, r.NewView(s, view.Gray8)),
			Check: harness.CheckFrames(compare.Exact(), "dst"),
		}, a, b)
	})
}

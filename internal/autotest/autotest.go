// Package autotest registers the differential tests of every kernel family.
//
// Each test compares the reference kernel of package base with the fast
// kernel and with the dispatched kernel over the three sweep geometries of
// the run. Inputs are drawn from generators forked per operation and size,
// so both pairs of a test see the same data.
package autotest

import (
	"github.com/cwbudde/pixelparity/internal/gen"
	"github.com/cwbudde/pixelparity/internal/harness"
	"github.com/cwbudde/pixelparity/internal/view"
)

// Default returns the suite of every registered test in family order.
func Default() *harness.Suite {
	return New(nil)
}

// New returns the full suite with the detection test sweeping cs. An empty
// cs selects the built-in cascades.
func New(cs Cascades) *harness.Suite {
	s := harness.NewSuite()
	s.Add(backgroundTests()...)
	s.Add(interferenceTests()...)
	s.Add(crc32Tests()...)
	s.Add(DetectionTests(cs)...)
	s.Add(hogTests()...)
	s.Add(operationTests()...)
	s.Add(resizeTests()...)
	s.Add(segmentationTests()...)
	s.Add(statisticTests()...)
	s.Add(textureTests()...)
	s.Add(convertTests()...)
	return s
}

// pair is a reference candidate and the candidate checked against it.
type pair[F any] [2]harness.Candidate[F]

// pairs returns the (Base, Fast) and (Base, Kernel) pairs of one kernel.
func pairs[F any](name string, base, fast, dispatched F) []pair[F] {
	ref := harness.Candidate[F]{Label: "Base::" + name, Func: base}
	return []pair[F]{
		{ref, {Label: "Fast::" + name, Func: fast}},
		{ref, {Label: "Kernel::" + name, Func: dispatched}},
	}
}

// each runs fn for every pair on every size. All combinations run even
// after a failure.
func each[F any](r *harness.Runner, sizes []harness.Size, ps []pair[F], fn func(s harness.Size, a, b harness.Candidate[F]) bool) bool {
	ok := true
	for _, p := range ps {
		if !r.Sweep(sizes, func(s harness.Size) bool { return fn(s, p[0], p[1]) }) {
			ok = false
		}
	}
	return ok
}

// sub appends a variant suffix to both candidates of ps.
func sub[F any](ps []pair[F], suffix string) []pair[F] {
	out := make([]pair[F], len(ps))
	for i, p := range ps {
		out[i] = pair[F]{p[0].Sub(suffix), p[1].Sub(suffix)}
	}
	return out
}

func random(r *harness.Runner, g *gen.Generator, s harness.Size, f view.Format) *view.View {
	v := r.NewView(s, f)
	g.FillRandom(v)
	return v
}

func uniform(r *harness.Runner, g *gen.Generator, s harness.Size, f view.Format, lo, hi int) *view.View {
	v := r.NewView(s, f)
	g.FillUniform(v, lo, hi)
	return v
}

func indexed(r *harness.Runner, g *gen.Generator, s harness.Size, index uint8) *view.View {
	v := r.NewView(s, view.Gray8)
	g.FillIndexedMask(v, index)
	return v
}

// result holds a value computed by a candidate.
type result[T any] struct {
	v T
}

// returning adapts a kernel that returns T rather than writing a view.
func returning[F, T any](call func(F) T) harness.Adapter[F, *result[T]] {
	return harness.Adapter[F, *result[T]]{
		Alloc: func() *result[T] { return new(result[T]) },
		Call:  func(f F, o *result[T]) { o.v = call(f) },
	}
}

// outputs returns an adapter for kernels that write every destination
// completely. Each candidate gets fresh views shaped like shapes.
func outputs[F any](call func(F, harness.Frame), shapes ...*view.View) harness.Adapter[F, harness.Frame] {
	return harness.Adapter[F, harness.Frame]{
		Alloc: func() harness.Frame {
			f := make(harness.Frame, len(shapes))
			for i, v := range shapes {
				f[i] = view.NewStride(v.Width, v.Height, v.Format, v.Stride)
			}
			return f
		},
		Call: call,
	}
}

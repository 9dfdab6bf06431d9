package harness

import (
	"strconv"

	"github.com/cwbudde/pixelparity/internal/compare"
	"github.com/cwbudde/pixelparity/internal/view"
)

// Candidate is one implementation of an operation.
type Candidate[F any] struct {
	Label string
	Func  F
}

// Sub returns a copy of c whose label carries a variant suffix,
// e.g. "Base::OperationBinary8u<Maximum>".
func (c Candidate[F]) Sub(suffix string) Candidate[F] {
	return Candidate[F]{Label: c.Label + "<" + suffix + ">", Func: c.Func}
}

// Adapter binds a candidate signature F to its destination set O.
// Each candidate gets its own O from Alloc. Reset restores the pre-call state
// before every invocation and is never timed; it may be nil for outputs the
// call writes completely.
type Adapter[F, O any] struct {
	Alloc func() O
	Reset func(O)
	Call  func(F, O)
}

// Frame is an ordered set of destination templates. In-place operations read
// their destination before writing it, so each candidate works on a private
// clone that is restored from the templates before every call.
type Frame []*view.View

// Clone returns private deep copies of every template.
func (f Frame) Clone() Frame {
	out := make(Frame, len(f))
	for i, v := range f {
		out[i] = v.Clone()
	}
	return out
}

// Restore copies the templates into dst.
func (f Frame) Restore(dst Frame) {
	for i, v := range f {
		// Clone guarantees matching shapes.
		_ = view.Copy(v, dst[i])
	}
}

// InPlace returns an adapter whose destinations are clones of templates.
func InPlace[F any](call func(F, Frame), templates ...*view.View) Adapter[F, Frame] {
	f := Frame(templates)
	return Adapter[F, Frame]{
		Alloc: f.Clone,
		Reset: f.Restore,
		Call:  call,
	}
}

// CheckFrames compares two frames view by view under p. labels name the
// views in order; missing labels fall back to the view index.
func CheckFrames(p compare.Policy, labels ...string) func(a, b Frame) []compare.Verdict {
	return func(a, b Frame) []compare.Verdict {
		verdicts := make([]compare.Verdict, len(a))
		for i := range a {
			label := "dst" + strconv.Itoa(i)
			if i < len(labels) {
				label = labels[i]
			}
			verdicts[i] = compare.Buffers(a[i], b[i], p, label)
		}
		return verdicts
	}
}

package compare

import (
	"fmt"
	"image"
	"log/slog"
	"math"

	"github.com/cwbudde/pixelparity/internal/view"
)

// Mismatch locates the first element that violated a policy.
type Mismatch struct {
	X, Y     int
	Channel  int
	Index    int // flat element index for sequences and scalars
	Expected float64
	Actual   float64
}

// Verdict is the outcome of one comparison. Expected values come from the
// first candidate, actual values from the second.
type Verdict struct {
	Label         string
	Pass          bool
	Compared      int
	Differences   int
	MaxDifference float64
	First         *Mismatch
	Err           error
}

func (v Verdict) String() string {
	if v.Err != nil {
		return fmt.Sprintf("%s: %v", v.Label, v.Err)
	}
	if v.Pass {
		return fmt.Sprintf("%s: ok (%d compared, %d differ, max %g)", v.Label, v.Compared, v.Differences, v.MaxDifference)
	}
	s := fmt.Sprintf("%s: %d of %d differ, max %g", v.Label, v.Differences, v.Compared, v.MaxDifference)
	if m := v.First; m != nil {
		s += fmt.Sprintf("; first at [%d, %d] channel %d: %g != %g", m.X, m.Y, m.Channel, m.Expected, m.Actual)
	}
	return s
}

// LogValue implements slog.LogValuer.
func (v Verdict) LogValue() slog.Value {
	attrs := []slog.Attr{
		slog.String("label", v.Label),
		slog.Bool("pass", v.Pass),
		slog.Int("compared", v.Compared),
		slog.Int("differences", v.Differences),
		slog.Float64("max_difference", v.MaxDifference),
	}
	if m := v.First; m != nil {
		attrs = append(attrs, slog.Group("first",
			"x", m.X, "y", m.Y, "channel", m.Channel,
			"expected", m.Expected, "actual", m.Actual))
	}
	if v.Err != nil {
		attrs = append(attrs, slog.String("error", v.Err.Error()))
	}
	return slog.GroupValue(attrs...)
}

// Number is the set of scalar types a comparison can read.
type Number interface {
	~uint8 | ~int8 | ~uint16 | ~int16 | ~uint32 | ~int32 | ~uint64 | ~int64 | ~int | ~float32 | ~float64
}

type tally struct {
	policy   Policy
	compared int
	diffs    int
	max      float64
	first    *Mismatch
}

// element tallies one pair of values. Integers are differenced in 64-bit
// integer arithmetic so that values beyond 2^53 stay distinguishable; float64
// is used only for floating point types and for reporting.
func element[T Number](t *tally, a, b T, at func() Mismatch) {
	if floating[T]() {
		t.add(float64(a), float64(b), at)
		return
	}
	t.compared++
	if a == b {
		return
	}
	// Modular subtraction of the larger minus the smaller value is the exact
	// distance for signed and unsigned operands alike.
	var d uint64
	if a > b {
		d = uint64(a) - uint64(b)
	} else {
		d = uint64(b) - uint64(a)
	}
	t.record(float64(d), float64(d) > t.policy.MaxDifference, float64(a), float64(b), at)
}

func floating[T Number]() bool {
	half := 0.5
	return T(half) != 0
}

func (t *tally) add(a, b float64, at func() Mismatch) {
	t.compared++
	d := math.Abs(a - b)
	if math.IsNaN(d) {
		d = math.Inf(1)
	}
	t.record(d, d > t.policy.MaxDifference, a, b, at)
}

func (t *tally) record(d float64, differs bool, a, b float64, at func() Mismatch) {
	if d > t.max {
		t.max = d
	}
	if differs {
		t.diffs++
		if t.first == nil {
			m := at()
			m.Expected, m.Actual = a, b
			t.first = &m
		}
	}
}

func (t *tally) verdict(label string) Verdict {
	return Verdict{
		Label:         label,
		Pass:          t.policy.accepts(t.diffs),
		Compared:      t.compared,
		Differences:   t.diffs,
		MaxDifference: t.max,
		First:         t.first,
	}
}

// Buffers compares every channel element of a and b under p. Views of
// different shape or format yield a failed verdict wrapping
// view.ErrShapeMismatch. Padding bytes are not compared.
func Buffers(a, b *view.View, p Policy, label string) Verdict {
	if !a.SameShape(b) {
		return Verdict{Label: label, Err: fmt.Errorf("%w: %dx%d %s vs %dx%d %s", view.ErrShapeMismatch,
			a.Width, a.Height, a.Format, b.Width, b.Height, b.Format)}
	}
	t := tally{policy: p}
	for y := 0; y < a.Height; y++ {
		switch a.Format {
		case view.Gray8, view.Uv16, view.Bgr24, view.Bgra32:
			rows(&t, a.Row(y), b.Row(y), a.Format.ChannelCount(), y)
		case view.Int16:
			rows(&t, a.Row16(y), b.Row16(y), 1, y)
		case view.Int32:
			rows(&t, a.Row32(y), b.Row32(y), 1, y)
		case view.Int64:
			rows(&t, a.Row64(y), b.Row64(y), 1, y)
		case view.Float:
			rows(&t, a.RowF32(y), b.RowF32(y), 1, y)
		case view.Double:
			rows(&t, view.RowOf[float64](a, y), view.RowOf[float64](b, y), 1, y)
		default:
			return Verdict{Label: label, Err: fmt.Errorf("%w: %s", view.ErrFormat, a.Format)}
		}
	}
	return t.verdict(label)
}

func rows[T Number](t *tally, a, b []T, channels, y int) {
	for i := range a {
		element(t, a[i], b[i], func() Mismatch {
			return Mismatch{X: i / channels, Y: y, Channel: i % channels, Index: i}
		})
	}
}

// Scalar compares two scalar results. eps of zero demands equality.
func Scalar[T Number](a, b T, eps float64, label string) Verdict {
	t := tally{policy: Within(eps)}
	element(&t, a, b, func() Mismatch { return Mismatch{} })
	return t.verdict(label)
}

// Sequence compares two equally long sequences element-wise under p.
func Sequence[T Number](a, b []T, p Policy, label string) Verdict {
	if len(a) != len(b) {
		return Verdict{Label: label, Err: fmt.Errorf("%w: length %d vs %d", view.ErrShapeMismatch, len(a), len(b))}
	}
	t := tally{policy: p}
	for i := range a {
		element(&t, a[i], b[i], func() Mismatch { return Mismatch{X: i, Index: i} })
	}
	return t.verdict(label)
}

// Rects compares two rectangles coordinate by coordinate.
func Rects(a, b image.Rectangle, label string) Verdict {
	return Sequence(
		[]int{a.Min.X, a.Min.Y, a.Max.X, a.Max.Y},
		[]int{b.Min.X, b.Min.Y, b.Max.X, b.Max.Y},
		Exact(), label)
}

// All reports whether every verdict passed.
func All(verdicts ...Verdict) bool {
	for _, v := range verdicts {
		if !v.Pass {
			return false
		}
	}
	return true
}

// Failed returns the verdicts that did not pass.
func Failed(verdicts []Verdict) []Verdict {
	var out []Verdict
	for _, v := range verdicts {
		if !v.Pass {
			out = append(out, v)
		}
	}
	return out
}

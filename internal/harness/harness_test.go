package harness

import (
	"bytes"
	"context"
	"errors"
	"image"
	"log/slog"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cwbudde/pixelparity/internal/compare"
	"github.com/cwbudde/pixelparity/internal/view"
)

type memRecorder struct {
	outcomes []Outcome
}

func (m *memRecorder) Record(o Outcome) error {
	m.outcomes = append(m.outcomes, o)
	return nil
}

func testRunner(t *testing.T) (*Runner, *bytes.Buffer, *memRecorder) {
	t.Helper()
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	cfg := DefaultConfig()
	cfg.Width, cfg.Height, cfg.Seed = 32, 24, 1
	rec := &memRecorder{}
	return NewRunner(cfg, logger).WithRecorder(rec), &buf, rec
}

func TestConfigValidate(t *testing.T) {
	require.NoError(t, DefaultConfig().Validate())

	tests := []struct {
		name string
		mod  func(*Config)
	}{
		{"zero width", func(c *Config) { c.Width = 0 }},
		{"even offset", func(c *Config) { c.Offset = 8 }},
		{"degenerate", func(c *Config) { c.Height = 9 }},
		{"negative align", func(c *Config) { c.Align = -1 }},
		{"negative time", func(c *Config) { c.MinTime = -1 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := DefaultConfig()
			tt.mod(&c)
			assert.Error(t, c.Validate())
		})
	}
}

func TestConfigSizes(t *testing.T) {
	c := DefaultConfig()
	assert.Equal(t, []Size{{256, 192}, {265, 183}, {247, 201}}, c.Sizes())
	s := c.Scaled(5, 2)
	assert.Equal(t, Size{1280, 384}, s.Sizes()[0])
	assert.Equal(t, Size{1289, 375}, s.Sizes()[1])
	assert.Equal(t, "[256, 192]", c.Sizes()[0].String())
}

func TestSweepDoesNotStopEarly(t *testing.T) {
	r, _, _ := testRunner(t)
	var visited []Size
	ok := r.Sweep(r.Sizes(), func(s Size) bool {
		visited = append(visited, s)
		return len(visited) != 1
	})
	assert.False(t, ok)
	assert.Len(t, visited, 3)
}

type fillFunc func(dst *view.View)

func TestExecuteAgree(t *testing.T) {
	r, logs, rec := testRunner(t)
	s := Size{32, 24}
	tmpl := r.NewView(s, view.Gray8)
	tmpl.Fill(5)

	inc := func(dst *view.View) {
		for y := 0; y < dst.Height; y++ {
			row := dst.Row(y)
			for i := range row {
				row[i]++
			}
		}
	}
	trial := Trial[fillFunc, Frame]{
		Operation: "Increment",
		Size:      s,
		Adapter:   InPlace(func(f fillFunc, d Frame) { f(d[0]) }, tmpl),
		Check:     CheckFrames(compare.Exact(), "dst"),
	}
	a := Candidate[fillFunc]{Label: "Base::Increment", Func: inc}
	b := Candidate[fillFunc]{Label: "Fast::Increment", Func: inc}

	r.cfg.MinTime = 2 * time.Millisecond
	require.True(t, Execute(r, trial, a, b))
	assert.Equal(t, uint8(5), tmpl.At(0, 0), "template must not be modified")

	require.Len(t, rec.outcomes, 1)
	o := rec.outcomes[0]
	assert.True(t, o.Pass)
	assert.Equal(t, "Base::Increment", o.A)
	require.Len(t, o.Samples, 2)
	assert.GreaterOrEqual(t, o.Samples[0].Iterations, 1)
	assert.Contains(t, logs.String(), "Test Base::Increment & Fast::Increment [32, 24].")
	assert.Equal(t, 2, r.Perf().Len())
}

func TestExecuteDisagree(t *testing.T) {
	r, logs, rec := testRunner(t)
	s := Size{8, 8}
	tmpl := r.NewView(s, view.Gray8)

	trial := Trial[fillFunc, Frame]{
		Operation: "Fill",
		Size:      s,
		Adapter:   InPlace(func(f fillFunc, d Frame) { f(d[0]) }, tmpl),
		Check:     CheckFrames(compare.Exact()),
	}
	a := Candidate[fillFunc]{Label: "A", Func: func(d *view.View) { d.Fill(1) }}
	b := Candidate[fillFunc]{Label: "B", Func: func(d *view.View) { d.Fill(1); d.Set(3, 4, 2) }}

	assert.False(t, Execute(r, trial, a, b))
	require.Len(t, rec.outcomes, 1)
	v := rec.outcomes[0].Verdicts[0]
	assert.Equal(t, 1, v.Differences)
	assert.Equal(t, 3, v.First.X)
	assert.Equal(t, 4, v.First.Y)
	assert.Contains(t, logs.String(), "Candidates disagree")
}

type unaryFunc func(src, dst *view.View)

// TestSweepCatchesTailBug runs a candidate that skips the remainder of each
// row after whole 8-byte blocks. Only the odd-offset geometries expose it.
func TestSweepCatchesTailBug(t *testing.T) {
	r, _, rec := testRunner(t)
	sizes := r.Sizes()
	require.Zero(t, sizes[0].W%8)

	invert := func(src, dst *view.View) {
		for y := 0; y < src.Height; y++ {
			s, d := src.Row(y), dst.Row(y)
			for i := range s {
				d[i] = ^s[i]
			}
		}
	}
	blocked := func(src, dst *view.View) {
		for y := 0; y < src.Height; y++ {
			s, d := src.Row(y), dst.Row(y)
			for i := 0; i+8 <= len(s); i += 8 {
				for j := i; j < i+8; j++ {
					d[j] = ^s[j]
				}
			}
		}
	}
	a := Candidate[unaryFunc]{Label: "Base::Invert", Func: invert}
	b := Candidate[unaryFunc]{Label: "Fast::Invert", Func: blocked}

	ok := r.Sweep(sizes, func(s Size) bool {
		src := r.NewView(s, view.Gray8)
		r.Rand("Invert", s).FillUniform(src, 1, 255)
		return Execute(r, Trial[unaryFunc, Frame]{
			Operation: "Invert",
			Size:      s,
			Adapter:   InPlace(func(f unaryFunc, d Frame) { f(src, d[0]) }, r.NewView(s, view.Gray8)),
			Check:     CheckFrames(compare.Exact(), "dst"),
		}, a, b)
	})
	assert.False(t, ok)

	require.Len(t, rec.outcomes, 3)
	assert.True(t, rec.outcomes[0].Pass, "nominal %v", sizes[0])
	for i, o := range rec.outcomes[1:] {
		s := sizes[i+1]
		require.NotZero(t, s.W%8)
		assert.Equal(t, s, o.Size)
		assert.False(t, o.Pass, "geometry %v", s)
		require.Len(t, o.Verdicts, 1)
		assert.Equal(t, (s.W%8)*s.H, o.Verdicts[0].Differences)
		require.NotNil(t, o.Verdicts[0].First)
		assert.Equal(t, s.W/8*8, o.Verdicts[0].First.X)
	}
}

func TestExecuteRecoversPanic(t *testing.T) {
	r, _, rec := testRunner(t)
	s := Size{4, 4}
	trial := Trial[fillFunc, Frame]{
		Operation: "Crash",
		Size:      s,
		Adapter:   InPlace(func(f fillFunc, d Frame) { f(d[0]) }, r.NewView(s, view.Gray8)),
		Check:     CheckFrames(compare.Exact()),
	}
	a := Candidate[fillFunc]{Label: "A", Func: func(d *view.View) {}}
	b := Candidate[fillFunc]{Label: "B", Func: func(d *view.View) { d.Set(100, 100, 1) }}

	assert.False(t, Execute(r, trial, a, b))
	require.Len(t, rec.outcomes, 1)
	assert.ErrorContains(t, rec.outcomes[0].Verdicts[0].Err, "B panicked")
}

func TestCandidateSub(t *testing.T) {
	c := Candidate[int]{Label: "Base::Operation", Func: 1}
	assert.Equal(t, "Base::Operation<Max>", c.Sub("Max").Label)
	assert.Equal(t, "Base::Operation", c.Label)
}

func TestFrameCloneIsolated(t *testing.T) {
	tmpl := view.NewAligned(5, 3, view.Int16, 16)
	tmpl.Row16(2)[4] = 77
	f := Frame{tmpl}
	c := f.Clone()
	c[0].Row16(2)[4] = 0
	assert.Equal(t, int16(77), tmpl.Row16(2)[4])
	f.Restore(c)
	assert.Equal(t, int16(77), c[0].Row16(2)[4])
}

func TestFail(t *testing.T) {
	r, logs, rec := testRunner(t)
	assert.False(t, r.Fail("Detection", Size{1, 1}, errors.New("no cascade")))
	require.Len(t, rec.outcomes, 1)
	assert.EqualError(t, rec.outcomes[0].Err, "no cascade")
	assert.Contains(t, logs.String(), "Test setup failed")
}

type fixedSamples struct{}

func (fixedSamples) Get(size image.Point) (*view.View, error) {
	return view.New(size.X, size.Y, view.Gray8), nil
}

func TestSample(t *testing.T) {
	r, _, _ := testRunner(t)
	_, err := r.Sample(Size{4, 4})
	assert.Error(t, err)

	v, err := r.WithSamples(fixedSamples{}).Sample(Size{6, 5})
	require.NoError(t, err)
	assert.Equal(t, image.Pt(6, 5), v.Size())
}

func TestRandDeterministic(t *testing.T) {
	r, _, _ := testRunner(t)
	a := r.Rand("op", Size{3, 3}).Bytes(16)
	b := r.Rand("op", Size{3, 3}).Bytes(16)
	c := r.Rand("op", Size{4, 3}).Bytes(16)
	assert.Equal(t, a, b)
	assert.NotEqual(t, a, c)
}

func TestSuiteRun(t *testing.T) {
	r, logs, _ := testRunner(t)
	s := NewSuite(
		Test{Name: "GrowRangeSlow", Family: "background", Run: func(*Runner) bool { return true }},
		Test{Name: "Crc32c", Family: "crc32", Run: func(*Runner) bool { return false }},
		Test{Name: "Boom", Family: "crc32", Run: func(*Runner) bool { panic("boom") }},
	)

	res := s.Run(context.Background(), r)
	assert.False(t, res.Passed)
	assert.Equal(t, []string{"Crc32c", "Boom"}, res.Failed())
	assert.Equal(t, "panic: boom", res.Tests[2].Error)
	assert.Contains(t, logs.String(), "Crc32c test failed!")

	only := s.Filter(regexp.MustCompile("^background$"))
	require.Equal(t, 1, only.Len())
	assert.True(t, only.Run(context.Background(), r).Passed)
	assert.Equal(t, 3, s.Filter(nil).Len())
}

func TestSuiteCancelled(t *testing.T) {
	r, _, _ := testRunner(t)
	ran := false
	s := NewSuite(Test{Name: "X", Run: func(*Runner) bool { ran = true; return true }})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	res := s.Run(ctx, r)
	assert.False(t, ran)
	assert.False(t, res.Passed)
	assert.True(t, res.Tests[0].Skipped)
	assert.True(t, strings.Contains(res.Tests[0].Error, "canceled"))
}

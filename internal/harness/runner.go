package harness

import (
	"fmt"
	"image"
	"log/slog"
	"time"

	"github.com/cwbudde/pixelparity/internal/compare"
	"github.com/cwbudde/pixelparity/internal/gen"
	"github.com/cwbudde/pixelparity/internal/perf"
	"github.com/cwbudde/pixelparity/internal/view"
)

// Outcome is the result of one trial: two candidates on one geometry.
type Outcome struct {
	Time      time.Time
	Operation string
	A, B      string
	Size      Size
	Detail    string
	Pass      bool
	Verdicts  []compare.Verdict
	Samples   []perf.Sample
	Err       error // setup failure; no candidate ran
}

// Recorder receives every outcome of a run.
type Recorder interface {
	Record(Outcome) error
}

// Samples provides face-like detection samples of a given size.
type Samples interface {
	Get(size image.Point) (*view.View, error)
}

// Runner carries the state shared by all tests of a run.
type Runner struct {
	cfg     Config
	logger  *slog.Logger
	gen     *gen.Generator
	perf    *perf.Storage
	rec     Recorder
	samples Samples
}

// NewRunner returns a runner for cfg. A nil logger uses slog.Default.
func NewRunner(cfg Config, logger *slog.Logger) *Runner {
	if logger == nil {
		logger = slog.Default()
	}
	return &Runner{
		cfg:    cfg,
		logger: logger,
		gen:    gen.New(cfg.Seed),
		perf:   perf.NewStorage(),
	}
}

// WithRecorder sets the outcome recorder and returns r.
func (r *Runner) WithRecorder(rec Recorder) *Runner {
	r.rec = rec
	return r
}

// WithSamples sets the detection sample source and returns r.
func (r *Runner) WithSamples(s Samples) *Runner {
	r.samples = s
	return r
}

func (r *Runner) Config() Config { return r.cfg }

func (r *Runner) Logger() *slog.Logger { return r.logger }

// Perf returns the throughput storage of the run.
func (r *Runner) Perf() *perf.Storage { return r.perf }

// Sizes returns the sweep geometries of the configuration.
func (r *Runner) Sizes() []Size { return r.cfg.Sizes() }

// Rand returns the input generator for one operation on one geometry. The
// stream depends only on the run seed, the operation and the size.
func (r *Runner) Rand(operation string, s Size) *gen.Generator {
	return r.gen.Fork(fmt.Sprintf("%s/%dx%d", operation, s.W, s.H))
}

// NewView allocates a zeroed view with the configured row alignment.
func (r *Runner) NewView(s Size, f view.Format) *view.View {
	return view.NewAligned(s.W, s.H, f, r.cfg.Align)
}

// Sample returns a detection sample of size s.
func (r *Runner) Sample(s Size) (*view.View, error) {
	if r.samples == nil {
		return nil, fmt.Errorf("no sample source configured")
	}
	return r.samples.Get(s.Point())
}

// Sweep calls fn for every size and reports whether all calls passed.
// A failing size does not stop the sweep.
func (r *Runner) Sweep(sizes []Size, fn func(Size) bool) bool {
	result := true
	for _, s := range sizes {
		if !fn(s) {
			result = false
		}
	}
	return result
}

// Fail logs and records a setup failure for operation and returns false.
func (r *Runner) Fail(operation string, s Size, err error) bool {
	r.logger.Error("Test setup failed", "operation", operation, "width", s.W, "height", s.H, "error", err)
	r.record(Outcome{Time: time.Now(), Operation: operation, Size: s, Err: err})
	return false
}

func (r *Runner) record(o Outcome) {
	if r.rec == nil {
		return
	}
	if err := r.rec.Record(o); err != nil {
		r.logger.Warn("Failed to record outcome", "operation", o.Operation, "error", err)
	}
}

// Trial describes one differential comparison on one geometry.
type Trial[F, O any] struct {
	Operation string
	Size      Size
	Detail    string
	Adapter   Adapter[F, O]
	Check     func(a, b O) []compare.Verdict
}

// Execute runs candidate a, then b, each on private destinations through
// the timer, and compares their outputs with t.Check. A panicking candidate
// fails the trial without stopping the run.
func Execute[F, O any](r *Runner, t Trial[F, O], a, b Candidate[F]) bool {
	out := Outcome{
		Time:      time.Now(),
		Operation: t.Operation,
		A:         a.Label,
		B:         b.Label,
		Size:      t.Size,
		Detail:    t.Detail,
	}

	dstA, dstB := t.Adapter.Alloc(), t.Adapter.Alloc()
	sa, errA := measure(r, t.Adapter, a, dstA)
	sb, errB := measure(r, t.Adapter, b, dstB)
	out.Samples = []perf.Sample{sa, sb}

	switch {
	case errA != nil:
		out.Verdicts = []compare.Verdict{{Label: a.Label, Err: errA}}
	case errB != nil:
		out.Verdicts = []compare.Verdict{{Label: b.Label, Err: errB}}
	default:
		r.perf.Add(sa)
		r.perf.Add(sb)
		out.Verdicts = t.Check(dstA, dstB)
	}
	out.Pass = compare.All(out.Verdicts...)

	msg := fmt.Sprintf("Test %s & %s %s", a.Label, b.Label, t.Size)
	if t.Detail != "" {
		msg += " <" + t.Detail + ">"
	}
	r.logger.Info(msg+".", "operation", t.Operation, "a", a.Label, "b", b.Label,
		"width", t.Size.W, "height", t.Size.H, "pass", out.Pass)
	for _, v := range compare.Failed(out.Verdicts) {
		r.logger.Error("Candidates disagree", "operation", t.Operation, "verdict", v)
	}

	r.record(out)
	return out.Pass
}

func measure[F, O any](r *Runner, ad Adapter[F, O], c Candidate[F], dst O) (s perf.Sample, err error) {
	defer func() {
		if p := recover(); p != nil {
			err = fmt.Errorf("%s panicked: %v", c.Label, p)
		}
	}()
	var prepare func()
	if ad.Reset != nil {
		prepare = func() { ad.Reset(dst) }
	}
	s = perf.Measure(c.Label, r.cfg.MinTime, prepare, func() { ad.Call(c.Func, dst) })
	return s, nil
}

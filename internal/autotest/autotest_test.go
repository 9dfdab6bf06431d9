package autotest

import (
	"bytes"
	"context"
	"image"
	"log/slog"
	"regexp"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cwbudde/pixelparity/internal/cascade"
	"github.com/cwbudde/pixelparity/internal/gen"
	"github.com/cwbudde/pixelparity/internal/harness"
	"github.com/cwbudde/pixelparity/internal/kernel/base"
	"github.com/cwbudde/pixelparity/internal/kernel/fast"
	"github.com/cwbudde/pixelparity/internal/sample"
	"github.com/cwbudde/pixelparity/internal/view"
)

type memRecorder struct {
	outcomes []harness.Outcome
}

func (m *memRecorder) Record(o harness.Outcome) error {
	m.outcomes = append(m.outcomes, o)
	return nil
}

func testConfig() harness.Config {
	cfg := harness.DefaultConfig()
	cfg.Width, cfg.Height, cfg.Offset, cfg.Seed = 48, 40, 3, 7
	return cfg
}

func testRunner(t *testing.T, cfg harness.Config) (*harness.Runner, *memRecorder) {
	t.Helper()
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelWarn}))
	rec := &memRecorder{}
	t.Cleanup(func() {
		if t.Failed() {
			t.Log(buf.String())
		}
	})
	return harness.NewRunner(cfg, logger).WithRecorder(rec), rec
}

func withSamples(r *harness.Runner, seed int64) *harness.Runner {
	return r.WithSamples(sample.New(sample.Synthetic(), gen.New(seed)))
}

func run(t *testing.T, r *harness.Runner, filter string) harness.Result {
	t.Helper()
	s := Default().Filter(regexp.MustCompile(filter))
	require.NotZero(t, s.Len(), "filter %q selects nothing", filter)
	return s.Run(context.Background(), r)
}

func TestDefaultNamesUnique(t *testing.T) {
	seen := map[string]bool{}
	for _, tt := range Default().Tests() {
		assert.NotEmpty(t, tt.Family, tt.Name)
		assert.False(t, seen[tt.Name], "duplicate test %s", tt.Name)
		seen[tt.Name] = true
	}
	assert.Len(t, seen, Default().Len())
}

func TestDefaultSuitePasses(t *testing.T) {
	if testing.Short() {
		t.Skip("full suite")
	}
	r, rec := testRunner(t, testConfig())
	res := Default().Run(context.Background(), withSamples(r, 1))

	assert.True(t, res.Passed, "failed: %v", res.Failed())
	assert.Len(t, res.Tests, Default().Len())
	for _, o := range rec.outcomes {
		assert.NoError(t, o.Err, o.Operation)
		assert.True(t, o.Pass, "%s %s & %s %s", o.Operation, o.A, o.B, o.Size)
	}
}

func TestFamilies(t *testing.T) {
	families := []string{
		"background", "interference", "crc32", "detection", "hog", "operation",
		"resize", "segmentation", "statistic", "texture", "convert",
	}
	var got []string
	for _, tt := range Default().Tests() {
		if len(got) == 0 || got[len(got)-1] != tt.Family {
			got = append(got, tt.Family)
		}
	}
	assert.Equal(t, families, got)

	texture := Default().Filter(regexp.MustCompile("^texture$"))
	assert.Equal(t, 4, texture.Len())
	for _, tt := range texture.Tests() {
		assert.Equal(t, "texture", tt.Family)
	}
}

func TestOperationMaxScenario(t *testing.T) {
	cfg := testConfig()
	cfg.Width, cfg.Height = 32, 24
	r, rec := testRunner(t, cfg)
	res := run(t, r, "^OperationBinary8u$")
	require.True(t, res.Passed, "failed: %v", res.Failed())

	var found bool
	for _, o := range rec.outcomes {
		if o.B != "Fast::OperationBinary8u<Maximum><Gray8>" || o.Size != (harness.Size{W: 32, H: 24}) {
			continue
		}
		found = true
		assert.Equal(t, "Base::OperationBinary8u<Maximum><Gray8>", o.A)
		for _, v := range o.Verdicts {
			assert.Zero(t, v.Differences, v.Label)
		}
	}
	assert.True(t, found)
}

func TestCrc32Sizes(t *testing.T) {
	cfg := testConfig()
	r, rec := testRunner(t, cfg)
	res := run(t, r, "^Crc32c$")
	require.True(t, res.Passed)

	n := cfg.Width * cfg.Height
	want := []harness.Size{{W: n, H: 1}, {W: n + cfg.Offset, H: 1}, {W: n - cfg.Offset, H: 1}}
	require.Len(t, rec.outcomes, 2*len(want))
	for i, o := range rec.outcomes {
		assert.Equal(t, want[i%len(want)], o.Size)
		assert.Equal(t, "Base::Crc32c", o.A)
	}
	assert.Equal(t, "Fast::Crc32c", rec.outcomes[0].B)
	assert.Equal(t, "Kernel::Crc32c", rec.outcomes[len(want)].B)
}

func TestStrideInvariance(t *testing.T) {
	for _, align := range []int{1, 64} {
		cfg := testConfig()
		cfg.Align = align
		r, rec := testRunner(t, cfg)
		res := run(t, r, "^(statistic|texture|convert)$")
		assert.True(t, res.Passed, "align %d failed: %v", align, res.Failed())
		assert.NotEmpty(t, rec.outcomes)
	}
}

func TestScaledMoments(t *testing.T) {
	cfg := testConfig()
	r, rec := testRunner(t, cfg)
	res := run(t, r, "^GetMoments$")
	require.True(t, res.Passed)

	var scaled int
	for _, o := range rec.outcomes {
		if o.Detail == "scale 5x2" {
			scaled++
			assert.GreaterOrEqual(t, o.Size.W, 5*(cfg.Width-cfg.Offset))
		}
	}
	// Three sizes for each of two pairs.
	assert.Equal(t, 6, scaled)
	assert.Contains(t, rec.outcomes[len(rec.outcomes)-1].B, "<scale 5x2>")
}

func TestDetectionWithoutSamples(t *testing.T) {
	r, rec := testRunner(t, testConfig())
	res := run(t, r, "^detection$")

	assert.False(t, res.Passed)
	require.NotEmpty(t, rec.outcomes)
	for _, o := range rec.outcomes {
		assert.Error(t, o.Err)
		assert.False(t, o.Pass)
		assert.Empty(t, o.Samples, "no candidate runs without a sample")
	}
}

func TestDetectionPasses(t *testing.T) {
	r, rec := testRunner(t, testConfig())
	res := run(t, withSamples(r, 3), "^detection$")
	require.True(t, res.Passed, "failed: %v", res.Failed())

	var through int
	for _, o := range rec.outcomes {
		if strings.HasSuffix(o.Detail, ", through column") {
			through++
		}
	}
	assert.Equal(t, len(rec.outcomes)/2, through)
}

// TestDetectionSmallSample runs 20x20 cascades against a 32x32 sample, which
// the sample cache builds from a centered crop of the face.
func TestDetectionSmallSample(t *testing.T) {
	cfg := testConfig()
	cfg.Width, cfg.Height = 32, 32
	r, rec := testRunner(t, cfg)
	r = withSamples(r, 5)
	res := run(t, r, "^detection$")
	require.True(t, res.Passed, "failed: %v", res.Failed())

	// Two cascades, with and without through column, two pairs, three sizes.
	require.Len(t, rec.outcomes, 24)
	var nominal int
	for _, o := range rec.outcomes {
		require.NoError(t, o.Err)
		require.Len(t, o.Verdicts, 1)
		assert.Zero(t, o.Verdicts[0].Differences, "%s & %s %s", o.A, o.B, o.Size)
		if o.Size == (harness.Size{W: 32, H: 32}) {
			nominal++
			assert.Equal(t, 32*32, o.Verdicts[0].Compared)
		}
	}
	assert.Equal(t, 8, nominal)

	src, err := r.Sample(harness.Size{W: 32, H: 32})
	require.NoError(t, err)
	sum := view.New(33, 33, view.Int32)
	sqsum := view.New(33, 33, view.Int32)
	require.NoError(t, cascade.Integral(src, sum, sqsum))
	mask := view.New(32, 32, view.Gray8)
	mask.Fill(0xFF)

	for _, name := range cascade.BuiltinNames() {
		c, err := cascade.Builtin(name)
		require.NoError(t, err)
		w, h, _ := c.Info()
		require.Equal(t, 20, w)
		require.Equal(t, 20, h)

		handle, err := cascade.Init(c, sum, sqsum, false)
		require.NoError(t, err)
		require.NoError(t, handle.Prepare())
		rect := image.Rect(0, 0, 32-w, 32-h)
		want, got := view.New(32, 32, view.Gray8), view.New(32, 32, view.Gray8)
		require.NoError(t, base.DetectionHaarDetect(handle, mask, rect, want))
		require.NoError(t, fast.DetectionHaarDetect(handle, mask, rect, got))
		require.NoError(t, handle.Free())

		var hits int
		for y := 0; y < want.Height; y++ {
			for _, v := range want.Row(y) {
				hits += int(v)
			}
		}
		assert.Positive(t, hits, name)
		assert.Equal(t, want.Data, got.Data, name)
	}
}

func TestDeterministicInputs(t *testing.T) {
	cfg := testConfig()
	a, _ := testRunner(t, cfg)
	b, _ := testRunner(t, cfg)
	s := cfg.Sizes()[1]
	assert.Equal(t, a.Rand("ValueSum", s).Bytes(64), b.Rand("ValueSum", s).Bytes(64))
	assert.NotEqual(t, a.Rand("ValueSum", s).Bytes(64), a.Rand("SquareSum", s).Bytes(64))
}

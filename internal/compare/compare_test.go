package compare

import (
	"bytes"
	"image"
	"log/slog"
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cwbudde/pixelparity/internal/view"
)

func ramp(w, h int, f view.Format, align int) *view.View {
	v := view.NewAligned(w, h, f, align)
	for y := 0; y < h; y++ {
		row := v.Row(y)
		for i := range row {
			row[i] = uint8(i*7 + y)
		}
	}
	return v
}

func TestBuffersIdentical(t *testing.T) {
	a := ramp(32, 24, view.Bgra32, 1)
	b := a.Clone()
	v := Buffers(a, b, Exact(), "Max")
	assert.True(t, v.Pass)
	assert.Zero(t, v.Differences)
	assert.Equal(t, 32*24*4, v.Compared)
	assert.Nil(t, v.First)
}

func TestBuffersIgnoresPadding(t *testing.T) {
	a := ramp(9, 5, view.Gray8, 16)
	b := ramp(9, 5, view.Gray8, 32)
	for i := range b.Data {
		if i%b.Stride >= b.RowBytes() {
			b.Data[i] = 0xAA
		}
	}
	assert.True(t, Buffers(a, b, Exact(), "padding").Pass)
}

func TestBuffersFirstMismatch(t *testing.T) {
	a := ramp(10, 4, view.Bgr24, 1)
	b := a.Clone()
	b.Row(2)[3*5+1] += 3
	b.Row(3)[0] += 1

	v := Buffers(a, b, Exact(), "diff")
	require.False(t, v.Pass)
	assert.Equal(t, 2, v.Differences)
	assert.Equal(t, 3.0, v.MaxDifference)
	require.NotNil(t, v.First)
	assert.Equal(t, 5, v.First.X)
	assert.Equal(t, 2, v.First.Y)
	assert.Equal(t, 1, v.First.Channel)
	assert.Contains(t, v.String(), "first at [5, 2] channel 1")
}

func TestBuffersPolicies(t *testing.T) {
	a := view.New(8, 8, view.Float)
	b := view.New(8, 8, view.Float)
	b.RowF32(0)[0] = 5e-5
	b.RowF32(1)[1] = 2e-4

	assert.False(t, Buffers(a, b, Within(1e-4), "hog").Pass)
	b.RowF32(1)[1] = 0
	assert.True(t, Buffers(a, b, Within(1e-4), "hog").Pass)

	g := view.New(16, 1, view.Gray8)
	h := g.Clone()
	for i := 0; i < 3; i++ {
		h.Row(0)[i] = 2
	}
	assert.True(t, Buffers(g, h, Outliers(1, 3), "resize").Pass)
	assert.False(t, Buffers(g, h, Outliers(1, 2), "resize").Pass)
	assert.True(t, Buffers(g, h, Outliers(2, 0), "resize").Pass)
}

func TestBuffersShapeMismatch(t *testing.T) {
	v := Buffers(view.New(4, 4, view.Gray8), view.New(4, 5, view.Gray8), Exact(), "shape")
	assert.False(t, v.Pass)
	assert.ErrorIs(t, v.Err, view.ErrShapeMismatch)

	v = Buffers(view.New(4, 4, view.Gray8), view.New(4, 4, view.Int16), Exact(), "format")
	assert.ErrorIs(t, v.Err, view.ErrShapeMismatch)
}

func TestScalarAndSequence(t *testing.T) {
	assert.True(t, Scalar(uint32(0xE3069283), uint32(0xE3069283), 0, "crc").Pass)
	assert.False(t, Scalar(uint32(1), uint32(2), 0, "crc").Pass)
	assert.True(t, Scalar(1.0, 1.00001, 1e-4, "avg").Pass)

	v := Sequence([]uint64{1, 2, 3}, []uint64{1, 2, 4}, Exact(), "moments")
	assert.False(t, v.Pass)
	require.NotNil(t, v.First)
	assert.Equal(t, 2, v.First.Index)

	v = Sequence([]int{1}, []int{1, 2}, Exact(), "len")
	assert.ErrorIs(t, v.Err, view.ErrShapeMismatch)
}

func TestLargeIntegersExact(t *testing.T) {
	const big = uint64(1) << 53
	v := Scalar(big, big+1, 0, "xx")
	assert.False(t, v.Pass)
	assert.Equal(t, 1, v.Differences)
	assert.Equal(t, 1.0, v.MaxDifference)
	assert.True(t, Scalar(big+1, big+1, 0, "xx").Pass)

	assert.False(t, Sequence([]uint64{7, big}, []uint64{7, big + 1}, Exact(), "moments").Pass)
	assert.False(t, Scalar(int64(-1)<<62, int64(-1)<<62+1, 0, "sum").Pass)
	assert.False(t, Scalar(uint64(math.MaxUint64), uint64(math.MaxUint64-1), 0, "sum").Pass)

	extreme := Scalar(int64(math.MinInt64), int64(math.MaxInt64), 0, "range")
	assert.False(t, extreme.Pass)
	assert.Equal(t, float64(math.MaxUint64), extreme.MaxDifference)

	// A tolerance still applies to integer distances.
	assert.True(t, Scalar(big, big+1, 1, "xx").Pass)

	a := view.New(3, 2, view.Int64)
	b := view.New(3, 2, view.Int64)
	a.Row64(1)[2] = 1 << 60
	b.Row64(1)[2] = 1<<60 + 7
	bv := Buffers(a, b, Exact(), "int64")
	require.False(t, bv.Pass)
	assert.Equal(t, 1, bv.Differences)
	assert.Equal(t, 7.0, bv.MaxDifference)
	require.NotNil(t, bv.First)
	assert.Equal(t, 2, bv.First.X)
	assert.Equal(t, 1, bv.First.Y)
}

func TestRects(t *testing.T) {
	r := image.Rect(3, 4, 10, 12)
	assert.True(t, Rects(r, r, "shrink").Pass)
	assert.False(t, Rects(r, image.Rect(3, 4, 10, 11), "shrink").Pass)
	assert.True(t, Rects(image.Rectangle{}, image.Rectangle{}, "empty").Pass)
}

func TestAllAndFailed(t *testing.T) {
	ok := Verdict{Label: "a", Pass: true}
	bad := Verdict{Label: "b"}
	assert.True(t, All(ok, ok))
	assert.False(t, All(ok, bad))
	assert.True(t, All())
	assert.Equal(t, []Verdict{bad}, Failed([]Verdict{ok, bad, ok}))
}

func TestVerdictLogValue(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))
	v := Sequence([]int{1, 2}, []int{1, 9}, Exact(), "sums")
	logger.Error("mismatch", "verdict", v)

	out := buf.String()
	assert.True(t, strings.Contains(out, "verdict.label=sums"), out)
	assert.Contains(t, out, "verdict.first.actual=9")
}

func TestPolicyString(t *testing.T) {
	assert.Equal(t, "exact", Exact().String())
	assert.Equal(t, "within 0.0001", Within(1e-4).String())
	assert.Equal(t, "at most 64 outliers beyond 1", Outliers(1, 64).String())
}

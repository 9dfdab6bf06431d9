package view

import (
	"errors"
	"fmt"
	"image"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewAlignedStride(t *testing.T) {
	tests := []struct {
		width  int
		format Format
		align  int
		stride int
	}{
		{32, Gray8, 1, 32},
		{33, Gray8, 16, 48},
		{31, Gray8, 64, 64},
		{10, Bgr24, 16, 32},
		{7, Int16, 1, 14},
		{7, Int16, 8, 16},
		{5, Bgra32, 0, 20},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("%s_%d_align%d", tt.format, tt.width, tt.align), func(t *testing.T) {
			v := NewAligned(tt.width, 3, tt.format, tt.align)
			assert.Equal(t, tt.stride, v.Stride)
			assert.Len(t, v.Data, tt.stride*3)
			assert.True(t, v.Owner())
		})
	}
}

func TestNewStridePanics(t *testing.T) {
	assert.Panics(t, func() { New(-1, 4, Gray8) })
	assert.Panics(t, func() { NewStride(8, 4, Gray8, 7) })
	assert.Panics(t, func() { NewStride(8, 4, Int16, 17) })
	assert.Panics(t, func() { New(4, 4, None) })
}

func TestRowExcludesPadding(t *testing.T) {
	v := NewAligned(5, 2, Gray8, 16)
	v.Fill(7)

	for y := 0; y < v.Height; y++ {
		assert.Len(t, v.Row(y), 5)
		for x := v.Width; x < v.Stride; x++ {
			assert.Zero(t, v.Data[y*v.Stride+x], "padding byte at (%d,%d) written", x, y)
		}
	}
}

func TestRegion(t *testing.T) {
	v := NewAligned(10, 8, Gray8, 16)
	for y := 0; y < v.Height; y++ {
		for x := 0; x < v.Width; x++ {
			v.Set(x, y, uint8(y*10+x))
		}
	}

	r, err := v.Region(image.Rect(2, 3, 6, 7))
	require.NoError(t, err)
	assert.Equal(t, 4, r.Width)
	assert.Equal(t, 4, r.Height)
	assert.Equal(t, v.Stride, r.Stride)
	assert.False(t, r.Owner())
	assert.Equal(t, uint8(32), r.At(0, 0))
	assert.Equal(t, uint8(65), r.At(3, 3))

	// Writes through the region land in the parent.
	r.Set(1, 1, 0xEE)
	assert.Equal(t, uint8(0xEE), v.At(3, 4))

	empty, err := v.Region(image.Rect(10, 8, 10, 8))
	require.NoError(t, err)
	assert.Zero(t, empty.Width)
}

func TestRegionEmpty(t *testing.T) {
	v := NewAligned(8, 6, Gray8, 16)
	for _, rect := range []image.Rectangle{
		image.Rect(2, 0, 2, 5),
		image.Rect(8, 1, 8, 6),
		image.Rect(0, 6, 8, 6),
		image.Rect(3, 2, 3, 2),
	} {
		r, err := v.Region(rect)
		require.NoError(t, err, "rect %v", rect)
		assert.Equal(t, rect.Dx(), r.Width, "rect %v", rect)
		assert.Equal(t, rect.Dy(), r.Height, "rect %v", rect)

		assert.NotPanics(t, func() {
			r.Fill(1)
			c := r.Clone()
			require.NoError(t, Copy(r, c))
			for y := 0; y < r.Height; y++ {
				assert.Empty(t, r.Row(y))
			}
		}, "rect %v", rect)
	}
	for _, b := range v.Data {
		assert.Zero(t, b)
	}
}

func TestRegionOutOfBounds(t *testing.T) {
	v := New(10, 8, Gray8)
	rects := []image.Rectangle{
		image.Rect(-1, 0, 4, 4),
		image.Rect(0, 0, 11, 4),
		image.Rect(0, 5, 4, 9),
		{Min: image.Pt(5, 5), Max: image.Pt(4, 6)},
	}
	for _, rect := range rects {
		_, err := v.Region(rect)
		assert.ErrorIs(t, err, ErrOutOfBounds, "rect %v", rect)
	}
}

func TestCopy(t *testing.T) {
	src := NewAligned(9, 4, Bgr24, 32)
	for y := 0; y < src.Height; y++ {
		row := src.Row(y)
		for i := range row {
			row[i] = uint8(i + y)
		}
	}

	dst := New(9, 4, Bgr24)
	require.NoError(t, Copy(src, dst))
	for y := 0; y < src.Height; y++ {
		assert.Equal(t, src.Row(y), dst.Row(y))
	}

	err := Copy(src, New(9, 4, Bgra32))
	assert.True(t, errors.Is(err, ErrShapeMismatch))
	err = Copy(src, New(8, 4, Bgr24))
	assert.ErrorIs(t, err, ErrShapeMismatch)
}

func TestCloneKeepsStride(t *testing.T) {
	v := NewAligned(3, 3, Int16, 32)
	v.Row16(1)[2] = -1234
	c := v.Clone()
	assert.Equal(t, v.Stride, c.Stride)
	assert.Equal(t, int16(-1234), c.Row16(1)[2])
	c.Row16(1)[2] = 0
	assert.Equal(t, int16(-1234), v.Row16(1)[2])
}

func TestRowOfElementSize(t *testing.T) {
	v := New(4, 2, Float)
	assert.Len(t, v.RowF32(0), 4)
	assert.Panics(t, func() { v.Row16(0) })

	uv := New(4, 2, Uv16)
	assert.Len(t, RowOf[uint8](uv, 1), 8)
}

func TestGray(t *testing.T) {
	v := NewAligned(5, 5, Gray8, 8)
	v.Set(4, 4, 200)
	img, err := v.Gray()
	require.NoError(t, err)
	assert.Equal(t, uint8(200), img.GrayAt(4, 4).Y)

	back := FromGray(img)
	assert.Equal(t, uint8(200), back.At(4, 4))

	_, err = New(2, 2, Int32).Gray()
	assert.ErrorIs(t, err, ErrFormat)
}

func TestFormatSizes(t *testing.T) {
	for _, f := range []Format{Gray8, Uv16, Bgr24, Bgra32, Int16, Int32, Int64, Float, Double} {
		assert.Equal(t, f.PixelSize(), f.ChannelSize()*f.ChannelCount(), f.String())
	}
	assert.Equal(t, "None", Format(99).String())
}

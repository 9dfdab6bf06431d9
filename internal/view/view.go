// Package view provides strided 2-D pixel buffers.
//
// A View stores Height rows of Width pixels. Consecutive rows are Stride
// bytes apart and Stride may exceed Width*PixelSize when rows are padded for
// alignment. Padding bytes are never part of the image: every accessor in
// this package addresses rows through the stride and touches only the first
// Width*PixelSize bytes of each row.
//
// Example usage:
//
//	v := view.NewAligned(641, 480, view.Gray8, 64)
//	for y := 0; y < v.Height; y++ {
//	    row := v.Row(y)
//	    // row has exactly 641 bytes
//	}
package view

import (
	"errors"
	"fmt"
	"image"
	"unsafe"
)

var (
	// ErrOutOfBounds is returned when a region does not fit inside its parent.
	ErrOutOfBounds = errors.New("view: region out of bounds")

	// ErrShapeMismatch is returned when two views differ in size or format.
	ErrShapeMismatch = errors.New("view: shape mismatch")

	// ErrFormat is returned when an operation does not support a view's format.
	ErrFormat = errors.New("view: unsupported format")
)

// View is a rectangular grid of pixels backed by a contiguous byte slice.
type View struct {
	Width  int
	Height int
	Stride int // bytes between the starts of consecutive rows
	Format Format
	Data   []byte

	owner bool
}

// New allocates a zeroed view with a tight stride.
func New(width, height int, format Format) *View {
	return NewAligned(width, height, format, 1)
}

// NewAligned allocates a zeroed view whose stride is the tight row size
// rounded up to a multiple of align bytes.
func NewAligned(width, height int, format Format, align int) *View {
	if align < 1 {
		align = 1
	}
	tight := width * format.PixelSize()
	stride := (tight + align - 1) / align * align
	return NewStride(width, height, format, stride)
}

// NewStride allocates a zeroed view with an explicit stride.
// It panics on negative dimensions or a stride shorter than one row.
func NewStride(width, height int, format Format, stride int) *View {
	if width < 0 || height < 0 {
		panic(fmt.Sprintf("view: negative size %dx%d", width, height))
	}
	if format == None {
		panic("view: format None")
	}
	if stride < width*format.PixelSize() {
		panic(fmt.Sprintf("view: stride %d shorter than row of %d bytes", stride, width*format.PixelSize()))
	}
	if cs := format.ChannelSize(); stride%cs != 0 {
		panic(fmt.Sprintf("view: stride %d not a multiple of channel size %d", stride, cs))
	}
	return &View{
		Width:  width,
		Height: height,
		Stride: stride,
		Format: format,
		Data:   make([]byte, stride*height),
		owner:  true,
	}
}

// FromGray wraps an *image.Gray without copying.
func FromGray(img *image.Gray) *View {
	b := img.Bounds()
	return &View{
		Width:  b.Dx(),
		Height: b.Dy(),
		Stride: img.Stride,
		Format: Gray8,
		Data:   img.Pix[img.PixOffset(b.Min.X, b.Min.Y):],
	}
}

// Owner reports whether the view owns its backing store (false for regions).
func (v *View) Owner() bool {
	return v.owner
}

// Size returns the view dimensions as a point.
func (v *View) Size() image.Point {
	return image.Pt(v.Width, v.Height)
}

// Bounds returns the view rectangle anchored at the origin.
func (v *View) Bounds() image.Rectangle {
	return image.Rect(0, 0, v.Width, v.Height)
}

// RowBytes returns the number of data bytes per row, excluding padding.
func (v *View) RowBytes() int {
	return v.Width * v.Format.PixelSize()
}

// Row returns the data bytes of row y, excluding padding.
func (v *View) Row(y int) []byte {
	off := y * v.Stride
	return v.Data[off : off+v.RowBytes() : off+v.RowBytes()]
}

// At returns the Gray8 pixel at (x, y).
func (v *View) At(x, y int) uint8 {
	return v.Data[y*v.Stride+x]
}

// Set stores a Gray8 pixel at (x, y).
func (v *View) Set(x, y int, value uint8) {
	v.Data[y*v.Stride+x] = value
}

// SameShape reports whether both views share width, height and format.
func (v *View) SameShape(o *View) bool {
	return v.Width == o.Width && v.Height == o.Height && v.Format == o.Format
}

// Region returns a non-owning sub-view of rect. The region shares the
// parent's backing store and stride and must not be used after the parent
// is discarded.
func (v *View) Region(rect image.Rectangle) (*View, error) {
	if rect.Min.X < 0 || rect.Min.Y < 0 || rect.Max.X > v.Width || rect.Max.Y > v.Height ||
		rect.Min.X > rect.Max.X || rect.Min.Y > rect.Max.Y {
		return nil, fmt.Errorf("%w: %v not in %v", ErrOutOfBounds, rect, v.Bounds())
	}
	if rect.Dy() == 0 {
		return &View{Width: rect.Dx(), Stride: v.Stride, Format: v.Format}, nil
	}
	ps := v.Format.PixelSize()
	off := rect.Min.Y*v.Stride + rect.Min.X*ps
	end := off + (rect.Dy()-1)*v.Stride + rect.Dx()*ps
	return &View{
		Width:  rect.Dx(),
		Height: rect.Dy(),
		Stride: v.Stride,
		Format: v.Format,
		Data:   v.Data[off:end:end],
	}, nil
}

// Clone returns an owning deep copy with the same stride.
func (v *View) Clone() *View {
	c := NewStride(v.Width, v.Height, v.Format, v.Stride)
	for y := 0; y < v.Height; y++ {
		copy(c.Row(y), v.Row(y))
	}
	return c
}

// Fill sets every data byte to value. Padding is left untouched.
func (v *View) Fill(value byte) {
	for y := 0; y < v.Height; y++ {
		row := v.Row(y)
		for i := range row {
			row[i] = value
		}
	}
}

// Gray exposes a Gray8 view as an *image.Gray sharing the same memory.
func (v *View) Gray() (*image.Gray, error) {
	if v.Format != Gray8 {
		return nil, fmt.Errorf("%w: %s is not Gray8", ErrFormat, v.Format)
	}
	return &image.Gray{Pix: v.Data, Stride: v.Stride, Rect: v.Bounds()}, nil
}

// Copy copies the data of src into dst row by row.
func Copy(src, dst *View) error {
	if !src.SameShape(dst) {
		return fmt.Errorf("%w: %dx%d %s -> %dx%d %s", ErrShapeMismatch,
			src.Width, src.Height, src.Format, dst.Width, dst.Height, dst.Format)
	}
	for y := 0; y < src.Height; y++ {
		copy(dst.Row(y), src.Row(y))
	}
	return nil
}

// Element is the set of channel element types addressable through RowOf.
type Element interface {
	~uint8 | ~int8 | ~uint16 | ~int16 | ~uint32 | ~int32 | ~uint64 | ~int64 | ~float32 | ~float64
}

// RowOf returns row y reinterpreted as channel elements of type T.
// It panics when the size of T does not match the view's channel size.
func RowOf[T Element](v *View, y int) []T {
	var zero T
	size := int(unsafe.Sizeof(zero))
	if size != v.Format.ChannelSize() {
		panic(fmt.Sprintf("view: %d-byte element for %s", size, v.Format))
	}
	n := v.Width * v.Format.ChannelCount()
	if n == 0 {
		return nil
	}
	row := v.Row(y)
	return unsafe.Slice((*T)(unsafe.Pointer(&row[0])), n)
}

// ElementsOf returns the whole backing store of v, padding included, as
// channel elements of type T. Element (x, y) of a single-channel view is at
// index y*Stride/ChannelSize + x.
func ElementsOf[T Element](v *View) []T {
	var zero T
	size := int(unsafe.Sizeof(zero))
	if size != v.Format.ChannelSize() {
		panic(fmt.Sprintf("view: %d-byte element for %s", size, v.Format))
	}
	if len(v.Data) < size {
		return nil
	}
	return unsafe.Slice((*T)(unsafe.Pointer(&v.Data[0])), len(v.Data)/size)
}

// Row16 returns row y of an Int16 view.
func (v *View) Row16(y int) []int16 { return RowOf[int16](v, y) }

// Row32 returns row y of an Int32 view.
func (v *View) Row32(y int) []int32 { return RowOf[int32](v, y) }

// Row64 returns row y of an Int64 view.
func (v *View) Row64(y int) []int64 { return RowOf[int64](v, y) }

// RowF32 returns row y of a Float view.
func (v *View) RowF32(y int) []float32 { return RowOf[float32](v, y) }

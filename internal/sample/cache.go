// Package sample builds the gray test images used by the detection tests.
//
// A sample of a requested size is a noisy background with copies of the
// source object composed into it: several scaled and alpha-blended copies
// when the sample is larger than the object, or a single 32x32 crop of the
// object's center otherwise.
package sample

import (
	"errors"
	"fmt"
	"image"
	"log/slog"
	"sync"

	"golang.org/x/image/draw"

	"github.com/cwbudde/pixelparity/internal/gen"
	"github.com/cwbudde/pixelparity/internal/kernel/base"
	"github.com/cwbudde/pixelparity/internal/view"
)

// ErrClosed is returned by Get after Close.
var ErrClosed = errors.New("sample: cache closed")

const (
	align     = 64
	smallSide = 32
)

// Cache composes samples on demand and keeps one per width. It is safe for
// concurrent use.
type Cache struct {
	mu      sync.Mutex
	source  Source
	gen     *gen.Generator
	object  *image.Gray
	samples map[int]*view.View
	closed  bool
}

// New returns a cache composing samples from source with randomness forked
// from g.
func New(source Source, g *gen.Generator) *Cache {
	return &Cache{
		source:  source,
		gen:     g,
		samples: make(map[int]*view.View),
	}
}

// Get returns the sample of the given size. A cached sample of the same
// width but another height is rebuilt. Callers must not modify the result.
func (c *Cache) Get(size image.Point) (*view.View, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return nil, ErrClosed
	}
	if size.X <= 0 || size.Y <= 0 {
		return nil, fmt.Errorf("%w: sample size %v", view.ErrShapeMismatch, size)
	}
	if s, ok := c.samples[size.X]; ok && s.Height == size.Y {
		return s, nil
	}
	if c.object == nil {
		obj, err := c.source.Load()
		if err != nil {
			return nil, err
		}
		c.object = obj
		slog.Debug("Sample source loaded", "source", c.source.String(),
			"width", obj.Rect.Dx(), "height", obj.Rect.Dy())
	}
	s := compose(c.object, size, c.gen.Fork(fmt.Sprintf("sample/%dx%d", size.X, size.Y)))
	c.samples[size.X] = s
	return s, nil
}

// Len returns the number of cached samples.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.samples)
}

// Close drops every cached sample. Further Get calls fail with ErrClosed.
func (c *Cache) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return ErrClosed
	}
	c.samples, c.object, c.closed = nil, nil, true
	return nil
}

func compose(obj *image.Gray, size image.Point, g *gen.Generator) *view.View {
	dst := view.NewAligned(size.X, size.Y, view.Gray8, align)

	lo, hi, avg := base.GetStatistic(view.FromGray(obj))
	g.FillUniform(dst, (int(avg)+int(lo))/2, (int(avg)+int(hi))/2)
	canvas, _ := dst.Gray()

	ow, oh := obj.Rect.Dx(), obj.Rect.Dy()
	if ow >= size.X && oh >= size.Y {
		crop := image.Rect(0, 0, ow*4/7, oh*4/7).Add(image.Pt(ow*3/14, oh*3/14)).Add(obj.Rect.Min)
		target := centered(size, smallSide).Intersect(canvas.Rect)
		draw.BiLinear.Scale(canvas, target, obj, crop, draw.Src, nil)
		return dst
	}

	rows := max(size.Y/oh*2, 1)
	cols := max(size.X/ow*2, 1)
	for row := 0; row < rows; row++ {
		y := size.Y * (row*2 + 1) / (2 * rows)
		for col := 0; col < cols; col++ {
			x := size.X * (col*2 + 1) / (2 * cols)
			s := (ow*2 + g.Intn(ow)) / 10
			if s < 1 {
				continue
			}
			scaled := image.NewGray(image.Rect(0, 0, s, s))
			draw.BiLinear.Scale(scaled, scaled.Rect, obj, obj.Rect, draw.Src, nil)

			alpha := view.New(s, s, view.Gray8)
			p := profile(s)
			base.VectorProduct(p, p, alpha)
			mask := &image.Alpha{Pix: alpha.Data, Stride: alpha.Stride, Rect: alpha.Bounds()}

			at := image.Pt(x-s/2, y-s/2)
			r := image.Rectangle{Min: at, Max: at.Add(image.Pt(s, s))}
			draw.DrawMask(canvas, r, scaled, image.Point{}, mask, image.Point{}, draw.Over)
		}
	}
	return dst
}

// profile ramps linearly from 0 to 255 over the outer quarter on each side.
func profile(s int) []uint8 {
	p := make([]uint8, s)
	for i := range p {
		p[i] = 0xFF
	}
	n := s / 4
	for i := 0; i < n; i++ {
		v := uint8(i * 255 / n)
		p[i], p[s-i-1] = v, v
	}
	return p
}

func centered(size image.Point, side int) image.Rectangle {
	at := image.Pt((size.X-side)/2, (size.Y-side)/2)
	return image.Rectangle{Min: at, Max: at.Add(image.Pt(side, side))}
}

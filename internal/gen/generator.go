// Package gen fills views with reproducible test inputs.
//
// All randomness flows from a single Generator seeded once per run. A test
// derives its own stream with Fork so that adding or filtering tests does not
// shift the inputs of the others.
package gen

import (
	"fmt"
	"hash/fnv"
	"image"
	"math"
	"math/rand"

	"github.com/cwbudde/pixelparity/internal/view"
)

// Generator is a seeded source of test data. It is not safe for concurrent use.
type Generator struct {
	seed int64
	rng  *rand.Rand
}

// New returns a generator seeded with seed.
func New(seed int64) *Generator {
	return &Generator{seed: seed, rng: rand.New(rand.NewSource(seed))}
}

// Seed returns the seed the generator was created with.
func (g *Generator) Seed() int64 {
	return g.seed
}

// Fork returns an independent generator whose seed is derived from this
// generator's seed and salt. Forking does not consume from g.
func (g *Generator) Fork(salt string) *Generator {
	h := fnv.New64a()
	h.Write([]byte(salt))
	return New(g.seed ^ int64(h.Sum64()))
}

// Intn returns a value in [0, n).
func (g *Generator) Intn(n int) int {
	return g.rng.Intn(n)
}

// Range returns a value in [lo, hi].
func (g *Generator) Range(lo, hi int) int {
	return lo + g.rng.Intn(hi-lo+1)
}

// Bytes returns n random bytes.
func (g *Generator) Bytes(n int) []byte {
	b := make([]byte, n)
	g.rng.Read(b)
	return b
}

// FillUniform sets every channel element of v to a value in [lo, hi].
// Float formats receive values in [lo, hi).
func (g *Generator) FillUniform(v *view.View, lo, hi int) {
	if hi < lo {
		panic(fmt.Sprintf("gen: empty range [%d, %d]", lo, hi))
	}
	span := int64(hi) - int64(lo) + 1
	next := func() int64 { return int64(lo) + g.rng.Int63n(span) }

	for y := 0; y < v.Height; y++ {
		switch v.Format {
		case view.Gray8, view.Uv16, view.Bgr24, view.Bgra32:
			row := v.Row(y)
			for i := range row {
				row[i] = uint8(next())
			}
		case view.Int16:
			row := v.Row16(y)
			for i := range row {
				row[i] = int16(next())
			}
		case view.Int32:
			row := v.Row32(y)
			for i := range row {
				row[i] = int32(next())
			}
		case view.Int64:
			row := v.Row64(y)
			for i := range row {
				row[i] = next()
			}
		case view.Float:
			row := v.RowF32(y)
			for i := range row {
				row[i] = float32(float64(lo) + g.rng.Float64()*float64(hi-lo))
			}
		case view.Double:
			row := view.RowOf[float64](v, y)
			for i := range row {
				row[i] = float64(lo) + g.rng.Float64()*float64(hi-lo)
			}
		}
	}
}

// FillRandom fills v over the natural domain of its element type: the full
// byte range for 8-bit formats, [0, 0xffff] for wider integers and [0, 1)
// for floats.
func (g *Generator) FillRandom(v *view.View) {
	switch {
	case v.Format.Floating():
		g.FillUniform(v, 0, 1)
	case v.Format.ChannelSize() == 1:
		g.FillUniform(v, 0, math.MaxUint8)
	case v.Format == view.Int16:
		g.FillUniform(v, math.MinInt16, math.MaxInt16)
	default:
		g.FillUniform(v, 0, math.MaxUint16)
	}
}

// FillIndexedMask sets each Gray8 element of v to 0 or index with equal
// probability.
func (g *Generator) FillIndexedMask(v *view.View, index uint8) {
	for y := 0; y < v.Height; y++ {
		row := v.Row(y)
		for i := range row {
			if g.rng.Intn(2) == 1 {
				row[i] = index
			} else {
				row[i] = 0
			}
		}
	}
}

// FillRhombMask zeroes the Gray8 view v and sets every pixel whose center
// lies inside the rhombus inscribed in rect to index. The part of rect
// outside v is ignored.
func FillRhombMask(v *view.View, rect image.Rectangle, index uint8) {
	v.Fill(0)
	w, h := rect.Dx(), rect.Dy()
	if w <= 0 || h <= 0 {
		return
	}
	cx2 := rect.Min.X + rect.Max.X
	cy2 := rect.Min.Y + rect.Max.Y
	clip := rect.Intersect(v.Bounds())
	for y := clip.Min.Y; y < clip.Max.Y; y++ {
		row := v.Row(y)
		dy := abs(2*y+1-cy2) * w
		for x := clip.Min.X; x < clip.Max.X; x++ {
			if abs(2*x+1-cx2)*h+dy <= w*h {
				row[x] = index
			}
		}
	}
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

package cascade

import (
	"fmt"
	"image"
	"math"

	"github.com/cwbudde/pixelparity/internal/view"
)

// State is the lifecycle state of a Handle.
type State int

const (
	Unloaded State = iota
	Initialized
	Prepared
	Freed
)

func (s State) String() string {
	switch s {
	case Unloaded:
		return "unloaded"
	case Initialized:
		return "initialized"
	case Prepared:
		return "prepared"
	case Freed:
		return "freed"
	default:
		return "unknown"
	}
}

// Handle binds a cascade to a pair of integral images.
//
// The zero Handle is Unloaded. Init returns an Initialized handle; Prepare
// resolves feature rectangles into offsets and moves it to Prepared, the
// only state in which detection may run; Free releases it for good.
type Handle struct {
	cascade       *Cascade
	sum, sqsum    *view.View
	throughColumn bool
	state         State
	plan          *Plan
}

// Init binds c to the integral images sum and sqsum. throughColumn selects
// the sparse column scan. It fails on an invalid cascade, on integral images
// of different size or format, and on images that cannot hold one window.
func Init(c *Cascade, sum, sqsum *view.View, throughColumn bool) (*Handle, error) {
	if c == nil {
		return nil, fmt.Errorf("%w: nil cascade", ErrMalformed)
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	if sum == nil || sqsum == nil {
		return nil, fmt.Errorf("%w: missing integral image", view.ErrShapeMismatch)
	}
	if sum.Format != view.Int32 || !sum.SameShape(sqsum) || sum.Stride != sqsum.Stride {
		return nil, fmt.Errorf("%w: integral images %dx%d %s and %dx%d %s", view.ErrShapeMismatch,
			sum.Width, sum.Height, sum.Format, sqsum.Width, sqsum.Height, sqsum.Format)
	}
	if sum.Width-1 < c.Width || sum.Height-1 < c.Height {
		return nil, fmt.Errorf("%w: %dx%d image, %dx%d window", ErrDegenerate,
			sum.Width-1, sum.Height-1, c.Width, c.Height)
	}
	return &Handle{
		cascade:       c,
		sum:           sum,
		sqsum:         sqsum,
		throughColumn: throughColumn,
		state:         Initialized,
	}, nil
}

// State returns the lifecycle state.
func (h *Handle) State() State {
	return h.state
}

// Prepare resolves the cascade into a Plan for the bound integral images.
// Preparing a prepared handle rebuilds the plan.
func (h *Handle) Prepare() error {
	if h.state != Initialized && h.state != Prepared {
		return fmt.Errorf("%w: prepare in state %s", ErrState, h.state)
	}
	h.plan = newPlan(h.cascade, h.sum, h.sqsum)
	h.state = Prepared
	return nil
}

// Free releases the handle. Any further use fails with ErrState.
func (h *Handle) Free() error {
	if h.state == Freed || h.state == Unloaded {
		return fmt.Errorf("%w: free in state %s", ErrState, h.state)
	}
	h.cascade, h.sum, h.sqsum, h.plan = nil, nil, nil, nil
	h.state = Freed
	return nil
}

// Ready reports whether detection may run on h.
func (h *Handle) Ready() error {
	if h.state != Prepared {
		return fmt.Errorf("%w: detect in state %s", ErrState, h.state)
	}
	return nil
}

// Cascade returns the bound cascade, or nil after Free.
func (h *Handle) Cascade() *Cascade { return h.cascade }

// Sum returns the bound integral image.
func (h *Handle) Sum() *view.View { return h.sum }

// SqSum returns the bound integral image of squares.
func (h *Handle) SqSum() *view.View { return h.sqsum }

// ThroughColumn reports whether the sparse column scan is selected.
func (h *Handle) ThroughColumn() bool { return h.throughColumn }

// Plan returns the prepared plan. It fails unless the handle is Prepared.
func (h *Handle) Plan() (*Plan, error) {
	if err := h.Ready(); err != nil {
		return nil, err
	}
	return h.plan, nil
}

// Scan returns the part of rect where a window fits inside the image.
func (h *Handle) Scan(rect image.Rectangle) image.Rectangle {
	return rect.Intersect(image.Rect(0, 0, h.sum.Width-h.cascade.Width, h.sum.Height-h.cascade.Height))
}

// Norm returns the normalization factor of a window from its pixel sum and
// squared sum: the square root of area*sqsum - sum*sum, at least 1.
func Norm(sum, sqsum uint32, area int64) int64 {
	v := int64(sqsum)*area - int64(sum)*int64(sum)
	if v < 1 {
		v = 1
	}
	return int64(math.Sqrt(float64(v)))
}

// Output returns the stump output for a feature value.
func (t *Tree) Output(value, norm int64) int64 {
	if value*4096 < int64(t.Threshold)*norm {
		return int64(t.Left)
	}
	return int64(t.Right)
}

// Plan is a cascade resolved against the stride shared by one pair of
// integral images. Offsets are element indices relative to the window
// origin.
type Plan struct {
	Area   int64
	Window Corners
	Stages []PlanStage
}

// Corners are the four element offsets of a rectangle in an integral image:
// top-left, top-right, bottom-left and bottom-right.
type Corners [4]int

// Sum evaluates the rectangle at base in data with wrap-around arithmetic.
func (c *Corners) Sum(data []int32, base int) uint32 {
	return uint32(data[base+c[3]]) - uint32(data[base+c[2]]) - uint32(data[base+c[1]]) + uint32(data[base+c[0]])
}

// PlanRect is a weighted feature rectangle.
type PlanRect struct {
	Corners
	Weight int64
}

// PlanTree is a prepared decision stump.
type PlanTree struct {
	Rects       []PlanRect
	Threshold   int64
	Left, Right int64
}

// PlanStage is a prepared stage.
type PlanStage struct {
	Threshold int64
	Trees     []PlanTree
}

func corners(x, y, w, h, stride int) Corners {
	return Corners{
		y*stride + x,
		y*stride + x + w,
		(y+h)*stride + x,
		(y+h)*stride + x + w,
	}
}

func newPlan(c *Cascade, sum, sqsum *view.View) *Plan {
	stride := sum.Stride / sum.Format.ChannelSize()
	p := &Plan{
		Area:   int64(c.Width * c.Height),
		Window: corners(0, 0, c.Width, c.Height, stride),
		Stages: make([]PlanStage, len(c.Stages)),
	}
	for si, s := range c.Stages {
		ps := PlanStage{Threshold: int64(s.Threshold), Trees: make([]PlanTree, len(s.Trees))}
		for ti, t := range s.Trees {
			pt := PlanTree{
				Threshold: int64(t.Threshold),
				Left:      int64(t.Left),
				Right:     int64(t.Right),
				Rects:     make([]PlanRect, len(t.Feature.Rects)),
			}
			for ri, r := range t.Feature.Rects {
				pt.Rects[ri] = PlanRect{Corners: corners(r.X, r.Y, r.W, r.H, stride), Weight: int64(r.Weight)}
			}
			ps.Trees[ti] = pt
		}
		p.Stages[si] = ps
	}
	return p
}

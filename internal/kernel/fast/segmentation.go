package fast

import (
	"bytes"
	"image"

	"github.com/cwbudde/pixelparity/internal/view"
)

// ShrinkRegion shrinks rect to the bounding box of the mask pixels equal to
// index inside it. Rows are trimmed from the top and bottom first, then the
// remaining rows are searched for the outermost matching columns.
func ShrinkRegion(mask *view.View, index uint8, rect *image.Rectangle) {
	r := rect.Intersect(mask.Bounds())
	hasIndex := func(y int) bool {
		return bytes.IndexByte(mask.Row(y)[r.Min.X:r.Max.X], index) >= 0
	}
	top := r.Min.Y
	for top < r.Max.Y && !hasIndex(top) {
		top++
	}
	if top == r.Max.Y {
		*rect = image.Rectangle{}
		return
	}
	bottom := r.Max.Y
	for !hasIndex(bottom - 1) {
		bottom--
	}
	left, right := r.Max.X, r.Min.X
	for y := top; y < bottom; y++ {
		row := mask.Row(y)[r.Min.X:r.Max.X]
		if i := bytes.IndexByte(row[:left-r.Min.X], index); i >= 0 {
			left = r.Min.X + i
		}
		if i := bytes.LastIndexByte(row[right-r.Min.X:], index); i >= 0 {
			right = right + i + 1
		}
	}
	*rect = image.Rect(left, top, right, bottom)
}

// FillSingleHoles sets every interior pixel that differs from index but
// whose four neighbors all equal index to index.
func FillSingleHoles(mask *view.View, index uint8) {
	for y := 1; y < mask.Height-1; y++ {
		up, row, down := mask.Row(y-1), mask.Row(y), mask.Row(y+1)
		n := mask.Width
		up, down = up[:n], down[:n]
		for x := 1; x < n-1; x++ {
			if up[x] != index || down[x] != index || row[x] == index {
				continue
			}
			if row[x-1] == index && row[x+1] == index {
				row[x] = index
			}
		}
	}
}

// ChangeIndex replaces oldIndex with newIndex in mask.
func ChangeIndex(mask *view.View, oldIndex, newIndex uint8) {
	if oldIndex == newIndex {
		return
	}
	for y := 0; y < mask.Height; y++ {
		row := mask.Row(y)
		for i := bytes.IndexByte(row, oldIndex); i >= 0; i = bytes.IndexByte(row, oldIndex) {
			row[i] = newIndex
			row = row[i+1:]
		}
	}
}

// Propagate2x2 propagates currentIndex from parent into the 2x2 child
// blocks below it. A child pixel below invalidIndex becomes currentIndex
// when its difference exceeds threshold and emptyIndex otherwise.
func Propagate2x2(parent, child, difference *view.View, currentIndex, invalidIndex, emptyIndex, threshold uint8) {
	for y := 0; y < parent.Height; y++ {
		p := parent.Row(y)
		c0, c1 := child.Row(2*y), child.Row(2*y+1)
		d0, d1 := difference.Row(2*y), difference.Row(2*y+1)
		for x := range p {
			if p[x] != currentIndex {
				continue
			}
			cx := 2 * x
			c0[cx] = propagate(c0[cx], d0[cx], currentIndex, invalidIndex, emptyIndex, threshold)
			c0[cx+1] = propagate(c0[cx+1], d0[cx+1], currentIndex, invalidIndex, emptyIndex, threshold)
			c1[cx] = propagate(c1[cx], d1[cx], currentIndex, invalidIndex, emptyIndex, threshold)
			c1[cx+1] = propagate(c1[cx+1], d1[cx+1], currentIndex, invalidIndex, emptyIndex, threshold)
		}
	}
}

func propagate(c, d, current, invalid, empty, threshold uint8) uint8 {
	switch {
	case c >= invalid:
		return c
	case d > threshold:
		return current
	default:
		return empty
	}
}

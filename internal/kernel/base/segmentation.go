package base

import (
	"image"

	"github.com/cwbudde/pixelparity/internal/view"
)

// ShrinkRegion shrinks rect to the bounding box of the mask pixels equal to
// index inside it. rect becomes empty when no pixel matches.
func ShrinkRegion(mask *view.View, index uint8, rect *image.Rectangle) {
	r := rect.Intersect(mask.Bounds())
	found := image.Rectangle{Min: r.Max, Max: r.Min}
	for y := r.Min.Y; y < r.Max.Y; y++ {
		row := mask.Row(y)
		for x := r.Min.X; x < r.Max.X; x++ {
			if row[x] != index {
				continue
			}
			found.Min.X = min(found.Min.X, x)
			found.Min.Y = min(found.Min.Y, y)
			found.Max.X = max(found.Max.X, x+1)
			found.Max.Y = max(found.Max.Y, y+1)
		}
	}
	if found.Min.X >= found.Max.X {
		*rect = image.Rectangle{}
		return
	}
	*rect = found
}

// FillSingleHoles sets every interior pixel that differs from index but
// whose four neighbors all equal index to index.
func FillSingleHoles(mask *view.View, index uint8) {
	for y := 1; y < mask.Height-1; y++ {
		up, row, down := mask.Row(y-1), mask.Row(y), mask.Row(y+1)
		for x := 1; x < mask.Width-1; x++ {
			if row[x] != index && up[x] == index && down[x] == index &&
				row[x-1] == index && row[x+1] == index {
				row[x] = index
			}
		}
	}
}

// ChangeIndex replaces oldIndex with newIndex in mask.
func ChangeIndex(mask *view.View, oldIndex, newIndex uint8) {
	for y := 0; y < mask.Height; y++ {
		row := mask.Row(y)
		for x := range row {
			if row[x] == oldIndex {
				row[x] = newIndex
			}
		}
	}
}

// Propagate2x2 propagates currentIndex from parent into the 2x2 child
// blocks below it. A child pixel below invalidIndex becomes currentIndex
// when its difference exceeds threshold and emptyIndex otherwise. child and
// difference are twice the size of parent.
func Propagate2x2(parent, child, difference *view.View, currentIndex, invalidIndex, emptyIndex, threshold uint8) {
	for y := 0; y < parent.Height; y++ {
		p := parent.Row(y)
		for dy := 0; dy < 2; dy++ {
			c, d := child.Row(2*y+dy), difference.Row(2*y+dy)
			for x := range p {
				if p[x] != currentIndex {
					continue
				}
				for dx := 2 * x; dx < 2*x+2; dx++ {
					if c[dx] >= invalidIndex {
						continue
					}
					if d[dx] > threshold {
						c[dx] = currentIndex
					} else {
						c[dx] = emptyIndex
					}
				}
			}
		}
	}
}

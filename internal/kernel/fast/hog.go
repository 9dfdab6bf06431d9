package fast

import (
	"math"
	"sync"

	"github.com/cwbudde/pixelparity/internal/view"
)

const gradRange = 2*255 + 1

type hogTable struct {
	magnitude []float32 // indexed by (dy+255)*gradRange + dx+255
	bin       []uint8
}

var (
	hogMu     sync.Mutex
	hogTables = map[int]*hogTable{}
)

// hogLookup returns the gradient table for quantization, building it on
// first use.
func hogLookup(quantization int) *hogTable {
	hogMu.Lock()
	defer hogMu.Unlock()
	if t, ok := hogTables[quantization]; ok {
		return t
	}
	t := &hogTable{
		magnitude: make([]float32, gradRange*gradRange),
		bin:       make([]uint8, gradRange*gradRange),
	}
	for dy := -255; dy <= 255; dy++ {
		for dx := -255; dx <= 255; dx++ {
			i := (dy+255)*gradRange + dx + 255
			t.magnitude[i] = float32(math.Sqrt(float64(dx*dx + dy*dy)))
			angle := math.Atan2(float64(dy), float64(dx))
			if angle < 0 {
				angle += 2 * math.Pi
			}
			t.bin[i] = uint8(int(angle*float64(quantization)/(2*math.Pi)+0.5) % quantization)
		}
	}
	hogTables[quantization] = t
	return t
}

// HogDirectionHistograms accumulates gradient magnitudes of the Gray8 image
// src into per-cell orientation histograms. Gradient magnitude and bin come
// from a table indexed by the central differences.
func HogDirectionHistograms(src *view.View, cellX, cellY, quantization int, histograms []float32) {
	clear(histograms)
	t := hogLookup(quantization)
	cellsX := src.Width / cellX
	center := 255*gradRange + 255
	for y := 1; y < src.Height-1; y++ {
		up, row, down := src.Row(y-1), src.Row(y), src.Row(y+1)
		hist := histograms[(y/cellY)*cellsX*quantization:]
		for x := 1; x < src.Width-1; x++ {
			i := center + (int(down[x])-int(up[x]))*gradRange + int(row[x+1]) - int(row[x-1])
			if i == center {
				continue
			}
			hist[(x/cellX)*quantization+int(t.bin[i])] += t.magnitude[i]
		}
	}
}

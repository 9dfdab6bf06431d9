package base

import (
	"math"

	"github.com/cwbudde/pixelparity/internal/view"
)

// HogDirectionHistograms accumulates gradient magnitudes of the Gray8 image
// src into per-cell orientation histograms.
//
// src must be exactly cellX*cellsX by cellY*cellsY pixels. histograms holds
// cellsX*cellsY*quantization floats, cell-major in row order. Border pixels
// have no central difference and are skipped. The direction of (dx, dy) in
// [0, 2π) is quantized to the nearest of quantization bins.
func HogDirectionHistograms(src *view.View, cellX, cellY, quantization int, histograms []float32) {
	for i := range histograms {
		histograms[i] = 0
	}
	cellsX := src.Width / cellX
	for y := 1; y < src.Height-1; y++ {
		up, row, down := src.Row(y-1), src.Row(y), src.Row(y+1)
		cellRow := (y / cellY) * cellsX
		for x := 1; x < src.Width-1; x++ {
			dx := int(row[x+1]) - int(row[x-1])
			dy := int(down[x]) - int(up[x])
			if dx == 0 && dy == 0 {
				continue
			}
			bin := OrientationBin(dx, dy, quantization)
			magnitude := float32(math.Sqrt(float64(dx*dx + dy*dy)))
			histograms[(cellRow+x/cellX)*quantization+bin] += magnitude
		}
	}
}

// OrientationBin returns the histogram bin of the gradient (dx, dy).
func OrientationBin(dx, dy, quantization int) int {
	angle := math.Atan2(float64(dy), float64(dx))
	if angle < 0 {
		angle += 2 * math.Pi
	}
	return int(angle*float64(quantization)/(2*math.Pi)+0.5) % quantization
}

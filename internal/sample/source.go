package sample

import (
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io/fs"
	"os"

	_ "golang.org/x/image/bmp"
	"golang.org/x/image/draw"
	_ "golang.org/x/image/tiff"
)

// ErrNoSample is returned when the sample image cannot be found.
var ErrNoSample = errors.New("sample: no sample image")

// Source provides the object image composed into samples.
type Source interface {
	Load() (*image.Gray, error)
	String() string
}

// File returns a Source that decodes the image at path. PNG, JPEG, GIF,
// BMP and TIFF are supported; color images are converted to gray.
func File(path string) Source {
	return fileSource(path)
}

type fileSource string

func (f fileSource) String() string { return string(f) }

func (f fileSource) Load() (*image.Gray, error) {
	r, err := os.Open(string(f))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrNoSample, f)
		}
		return nil, fmt.Errorf("failed to open sample: %w", err)
	}
	defer r.Close()

	img, _, err := image.Decode(r)
	if err != nil {
		return nil, fmt.Errorf("failed to decode sample %s: %w", f, err)
	}
	if g, ok := img.(*image.Gray); ok && g.Rect.Min == (image.Point{}) {
		return g, nil
	}
	b := img.Bounds()
	g := image.NewGray(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(g, g.Bounds(), img, b.Min, draw.Src)
	return g, nil
}

// Synthetic returns a Source that draws a 128x128 gray face: a shaded oval
// with darker eyes, brows, nose and mouth on a flat background.
func Synthetic() Source {
	return syntheticSource{}
}

type syntheticSource struct{}

func (syntheticSource) String() string { return "synthetic" }

const faceSize = 128

type ellipse struct {
	cx, cy, rx, ry float64
	value          uint8
}

func (e ellipse) contains(x, y float64) bool {
	dx, dy := (x-e.cx)/e.rx, (y-e.cy)/e.ry
	return dx*dx+dy*dy <= 1
}

var features = []ellipse{
	{46, 50, 11, 3, 70},  // left brow
	{82, 50, 11, 3, 70},  // right brow
	{46, 58, 8, 5, 35},   // left eye
	{82, 58, 8, 5, 35},   // right eye
	{64, 76, 4, 10, 120}, // nose
	{64, 98, 18, 5, 55},  // mouth
}

func (syntheticSource) Load() (*image.Gray, error) {
	img := image.NewGray(image.Rect(0, 0, faceSize, faceSize))
	face := ellipse{64, 68, 44, 56, 0}
	for y := 0; y < faceSize; y++ {
		row := img.Pix[y*img.Stride : y*img.Stride+faceSize]
		fy := float64(y) + 0.5
		for x := range row {
			fx := float64(x) + 0.5
			row[x] = 90
			if !face.contains(fx, fy) {
				continue
			}
			// lighter towards the upper left
			row[x] = uint8(200 - (fx+fy)/8)
			for _, f := range features {
				if f.contains(fx, fy) {
					row[x] = f.value
					break
				}
			}
		}
	}
	return img, nil
}

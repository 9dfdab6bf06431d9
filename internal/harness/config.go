package harness

import (
	"errors"
	"fmt"
	"image"
	"time"
)

// Size is a buffer geometry in pixels.
type Size struct {
	W, H int
}

func (s Size) String() string {
	return fmt.Sprintf("[%d, %d]", s.W, s.H)
}

// Point returns s as an image.Point.
func (s Size) Point() image.Point {
	return image.Pt(s.W, s.H)
}

// Config holds the run parameters shared by every test.
type Config struct {
	Width   int           `json:"width"`
	Height  int           `json:"height"`
	Offset  int           `json:"offset"`
	MinTime time.Duration `json:"minTime"`
	Align   int           `json:"align"`
	Seed    int64         `json:"seed"`
}

// DefaultConfig returns the nominal geometry used by the command line.
func DefaultConfig() Config {
	return Config{
		Width:  256,
		Height: 192,
		Offset: 9,
		Align:  64,
	}
}

// Validate checks that all three sweep geometries are usable.
func (c Config) Validate() error {
	if c.Width <= 0 || c.Height <= 0 {
		return fmt.Errorf("invalid size %dx%d: must be positive", c.Width, c.Height)
	}
	if c.Offset <= 0 || c.Offset%2 == 0 {
		return fmt.Errorf("invalid offset %d: must be positive and odd", c.Offset)
	}
	if c.Width-c.Offset <= 0 || c.Height-c.Offset <= 0 {
		return fmt.Errorf("offset %d too large for %dx%d", c.Offset, c.Width, c.Height)
	}
	if c.Align < 0 {
		return errors.New("alignment must not be negative")
	}
	if c.MinTime < 0 {
		return errors.New("minimum time must not be negative")
	}
	return nil
}

// Sizes returns the sweep geometries (W, H), (W+O, H-O) and (W-O, H+O).
func (c Config) Sizes() []Size {
	return []Size{
		{c.Width, c.Height},
		{c.Width + c.Offset, c.Height - c.Offset},
		{c.Width - c.Offset, c.Height + c.Offset},
	}
}

// Scaled returns a copy of c with the nominal size multiplied by sx and sy.
// The offset is unchanged.
func (c Config) Scaled(sx, sy int) Config {
	c.Width *= sx
	c.Height *= sy
	return c
}

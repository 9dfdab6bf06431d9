// Package cascade loads Haar-like object detection cascades and prepares
// them for evaluation over integral images.
//
// A cascade is a sequence of stages. Each stage sums the outputs of its
// decision stumps and rejects the window when the sum falls below the stage
// threshold. All weights and thresholds are integers so that every
// implementation evaluating the same cascade produces identical results.
package cascade

import (
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

var (
	// ErrMalformed is returned for cascade data that cannot be evaluated.
	ErrMalformed = errors.New("cascade: malformed data")

	// ErrDegenerate is returned when an image cannot hold a single window.
	ErrDegenerate = errors.New("cascade: image smaller than object window")

	// ErrState is returned when a handle is used in the wrong state.
	ErrState = errors.New("cascade: invalid handle state")
)

// Flags describe the features a cascade uses.
type Flags uint32

const (
	FeatureHaar Flags = 0
	FeatureLbp  Flags = 1
	FeatureMask Flags = 3
	HasTilted   Flags = 4
)

func (f Flags) String() string {
	var parts []string
	switch f & FeatureMask {
	case FeatureHaar:
		parts = append(parts, "haar")
	case FeatureLbp:
		parts = append(parts, "lbp")
	default:
		parts = append(parts, "unknown")
	}
	if f&HasTilted != 0 {
		parts = append(parts, "tilted")
	}
	return strings.Join(parts, "|")
}

// Rect is a weighted rectangle of a feature, relative to the window origin.
type Rect struct {
	X      int `json:"x"`
	Y      int `json:"y"`
	W      int `json:"w"`
	H      int `json:"h"`
	Weight int `json:"weight"`
}

// Feature is a weighted sum of rectangle sums.
type Feature struct {
	Rects []Rect `json:"rects"`
}

// Tree is a decision stump. It outputs Left when the normalized feature
// value lies below Threshold and Right otherwise.
type Tree struct {
	Feature   Feature `json:"feature"`
	Threshold int     `json:"threshold"`
	Left      int     `json:"left"`
	Right     int     `json:"right"`
}

// Stage passes a window when the sum of its tree outputs reaches Threshold.
type Stage struct {
	Threshold int    `json:"threshold"`
	Trees     []Tree `json:"trees"`
}

// Cascade is a loaded detector for Width x Height objects.
type Cascade struct {
	Name   string  `json:"name,omitempty"`
	Width  int     `json:"width"`
	Height int     `json:"height"`
	Flags  Flags   `json:"flags"`
	Stages []Stage `json:"stages"`
}

// Parse decodes and validates a JSON cascade.
func Parse(data []byte) (*Cascade, error) {
	var c Cascade
	if err := json.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

// Load reads a JSON cascade from path.
func Load(path string) (*Cascade, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read cascade: %w", err)
	}
	c, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("failed to load cascade %s: %w", path, err)
	}
	if c.Name == "" {
		c.Name = strings.TrimSuffix(filepath.Base(path), ".json")
	}
	return c, nil
}

// Validate checks that the cascade can be evaluated: a positive window,
// Haar features only, and every rectangle inside the window.
func (c *Cascade) Validate() error {
	if c.Width <= 0 || c.Height <= 0 {
		return fmt.Errorf("%w: window %dx%d", ErrMalformed, c.Width, c.Height)
	}
	if c.Flags&FeatureMask != FeatureHaar || c.Flags&HasTilted != 0 {
		return fmt.Errorf("%w: unsupported features %s", ErrMalformed, c.Flags)
	}
	if len(c.Stages) == 0 {
		return fmt.Errorf("%w: no stages", ErrMalformed)
	}
	for si, s := range c.Stages {
		if len(s.Trees) == 0 {
			return fmt.Errorf("%w: stage %d has no trees", ErrMalformed, si)
		}
		for ti, t := range s.Trees {
			if len(t.Feature.Rects) == 0 {
				return fmt.Errorf("%w: stage %d tree %d has no rects", ErrMalformed, si, ti)
			}
			for _, r := range t.Feature.Rects {
				if r.W <= 0 || r.H <= 0 || r.X < 0 || r.Y < 0 || r.X+r.W > c.Width || r.Y+r.H > c.Height {
					return fmt.Errorf("%w: stage %d tree %d rect %+v outside %dx%d window",
						ErrMalformed, si, ti, r, c.Width, c.Height)
				}
			}
		}
	}
	return nil
}

// Info returns the object window size and feature flags.
func (c *Cascade) Info() (width, height int, flags Flags) {
	return c.Width, c.Height, c.Flags
}

//go:embed data/*.json
var builtin embed.FS

// Builtin returns one of the cascades shipped with the package.
func Builtin(name string) (*Cascade, error) {
	data, err := builtin.ReadFile("data/" + name + ".json")
	if err != nil {
		return nil, fmt.Errorf("unknown builtin cascade %q", name)
	}
	c, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("builtin cascade %s: %w", name, err)
	}
	c.Name = name
	return c, nil
}

// BuiltinNames lists the shipped cascades in order.
func BuiltinNames() []string {
	entries, _ := builtin.ReadDir("data")
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, strings.TrimSuffix(e.Name(), ".json"))
	}
	sort.Strings(names)
	return names
}

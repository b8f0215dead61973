// Package config loads pipeline and overlay settings from JSON or YAML files.
//
// File fields are pointers so that anything omitted keeps its default; a
// partial file is always safe. Command-line flags are applied on top of the
// file by the caller.
package config

import (
	"encoding/json"
	"fmt"
	"image"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/ironsheep/qr-edgemap/internal/edgemap"
	"github.com/ironsheep/qr-edgemap/internal/grid"
)

// maxFileSize caps configuration files at 1 MiB.
const maxFileSize = 1 * 1024 * 1024

// Overlay describes the rectangle drawn over rendered output to mark the
// candidate marker region.
type Overlay struct {
	Region    image.Rectangle
	Color     string
	LineWidth int
}

// DefaultOverlay is a 70x50 green rectangle at (10,30), 3 pixels wide.
func DefaultOverlay() Overlay {
	return Overlay{
		Region:    image.Rect(10, 30, 10+70, 30+50),
		Color:     "#00ff00",
		LineWidth: 3,
	}
}

// Settings is the fully resolved configuration.
type Settings struct {
	Pipeline edgemap.Config
	Overlay  Overlay

	// MaxDimension, when above zero, shrinks larger inputs to fit within a
	// MaxDimension square before the pipeline runs.
	MaxDimension int
}

// Defaults returns the reference settings.
func Defaults() Settings {
	return Settings{
		Pipeline: edgemap.DefaultConfig(),
		Overlay:  DefaultOverlay(),
	}
}

// File mirrors the on-disk configuration schema.
type File struct {
	Iterations       *int         `json:"iterations,omitempty" yaml:"iterations,omitempty"`
	Threshold        *int         `json:"threshold,omitempty" yaml:"threshold,omitempty"`
	MagnitudeFormula *string      `json:"magnitude_formula,omitempty" yaml:"magnitude_formula,omitempty"`
	Parallel         *bool        `json:"parallel,omitempty" yaml:"parallel,omitempty"`
	MaxDimension     *int         `json:"max_dimension,omitempty" yaml:"max_dimension,omitempty"`
	Overlay          *OverlayFile `json:"overlay,omitempty" yaml:"overlay,omitempty"`
}

// OverlayFile is the overlay section of File.
type OverlayFile struct {
	X         *int    `json:"x,omitempty" yaml:"x,omitempty"`
	Y         *int    `json:"y,omitempty" yaml:"y,omitempty"`
	Width     *int    `json:"width,omitempty" yaml:"width,omitempty"`
	Height    *int    `json:"height,omitempty" yaml:"height,omitempty"`
	Color     *string `json:"color,omitempty" yaml:"color,omitempty"`
	LineWidth *int    `json:"line_width,omitempty" yaml:"line_width,omitempty"`
}

// Load reads a configuration file. The extension selects the format:
// .json, or .yaml / .yml.
func Load(path string) (*File, error) {
	cleanPath := filepath.Clean(path)
	ext := strings.ToLower(filepath.Ext(cleanPath))
	if ext != ".json" && ext != ".yaml" && ext != ".yml" {
		return nil, fmt.Errorf("config file must have .json, .yaml or .yml extension, got %q", ext)
	}

	fileInfo, err := os.Stat(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to stat config file: %w", err)
	}
	if fileInfo.Size() > maxFileSize {
		return nil, fmt.Errorf("config file too large: %d bytes (max %d)", fileInfo.Size(), maxFileSize)
	}

	data, err := os.ReadFile(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var f File
	if ext == ".json" {
		err = json.Unmarshal(data, &f)
	} else {
		err = yaml.Unmarshal(data, &f)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", cleanPath, err)
	}
	return &f, nil
}

// Apply merges the values present in f into s and validates the result.
func (f *File) Apply(s *Settings) error {
	if f.Iterations != nil {
		s.Pipeline.Iterations = *f.Iterations
	}
	if f.Threshold != nil {
		s.Pipeline.Threshold = *f.Threshold
	}
	if f.MagnitudeFormula != nil {
		formula, err := edgemap.ParseMagnitudeFormula(*f.MagnitudeFormula)
		if err != nil {
			return err
		}
		s.Pipeline.Formula = formula
	}
	if f.Parallel != nil {
		s.Pipeline.Parallel = *f.Parallel
	}
	if f.MaxDimension != nil {
		s.MaxDimension = *f.MaxDimension
	}

	if o := f.Overlay; o != nil {
		r := s.Overlay.Region
		x, y, w, h := r.Min.X, r.Min.Y, r.Dx(), r.Dy()
		if o.X != nil {
			x = *o.X
		}
		if o.Y != nil {
			y = *o.Y
		}
		if o.Width != nil {
			w = *o.Width
		}
		if o.Height != nil {
			h = *o.Height
		}
		r, err := Region(x, y, w, h)
		if err != nil {
			return err
		}
		s.Overlay.Region = r
		if o.Color != nil {
			s.Overlay.Color = *o.Color
		}
		if o.LineWidth != nil {
			s.Overlay.LineWidth = *o.LineWidth
		}
	}

	return s.Validate()
}

// Validate checks the pipeline parameters and the overlay geometry.
func (s Settings) Validate() error {
	if err := s.Pipeline.Validate(); err != nil {
		return err
	}
	if s.MaxDimension < 0 {
		return fmt.Errorf("max dimension %d must not be negative: %w", s.MaxDimension, edgemap.ErrInvalidConfig)
	}
	if s.MaxDimension > 0 && s.MaxDimension < grid.MinDimension {
		return fmt.Errorf("max dimension %d below minimum %d: %w", s.MaxDimension, grid.MinDimension, edgemap.ErrInvalidConfig)
	}
	if s.Overlay.Region.Empty() {
		return fmt.Errorf("overlay region %v is empty", s.Overlay.Region)
	}
	if s.Overlay.LineWidth < 1 {
		return fmt.Errorf("overlay line width %d must be at least 1", s.Overlay.LineWidth)
	}
	return nil
}

// ParseRegion parses "x,y,width,height" into a rectangle.
func ParseRegion(s string) (image.Rectangle, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 4 {
		return image.Rectangle{}, fmt.Errorf("region %q: want x,y,width,height", s)
	}
	var v [4]int
	for i, p := range parts {
		n, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil {
			return image.Rectangle{}, fmt.Errorf("region %q: %w", s, err)
		}
		v[i] = n
	}
	r, err := Region(v[0], v[1], v[2], v[3])
	if err != nil {
		return image.Rectangle{}, fmt.Errorf("region %q: %w", s, err)
	}
	return r, nil
}

// Region builds the rectangle with top-left corner (x, y) and the given size.
// Width and height must be positive.
func Region(x, y, width, height int) (image.Rectangle, error) {
	if width <= 0 || height <= 0 {
		return image.Rectangle{}, fmt.Errorf("region size %dx%d: width and height must be positive", width, height)
	}
	return image.Rect(x, y, x+width, y+height), nil
}

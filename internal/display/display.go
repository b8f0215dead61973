// Package display renders images and pipeline stages as annotated figures.
//
// A figure shows the picture on pixel axes with the origin at the top-left,
// optionally with the candidate marker region outlined. Figures are built
// with gonum.org/v1/plot and can be saved as PNG, SVG or PDF.
package display

import (
	"fmt"
	"image"
	"image/color"
	"io"
	"strconv"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
)

// Options controls figure layout.
type Options struct {
	// Title is printed above the image.
	Title string

	// Region is outlined over the image when non-empty. Coordinates are
	// image pixels with Y growing downward.
	Region image.Rectangle

	// RegionColor is the outline color.
	RegionColor color.Color

	// LineWidth is the outline thickness in points.
	LineWidth float64

	// Width and Height are the saved figure size.
	Width, Height vg.Length
}

// DefaultOptions returns a 6x6 inch figure with a 3 point green outline and
// no region.
func DefaultOptions() Options {
	return Options{
		RegionColor: color.NRGBA{G: 0xff, A: 0xff},
		LineWidth:   3,
		Width:       6 * vg.Inch,
		Height:      6 * vg.Inch,
	}
}

// Figure places img on pixel axes and outlines opts.Region.
func Figure(img image.Image, opts Options) (*plot.Plot, error) {
	b := img.Bounds()
	w, h := float64(b.Dx()), float64(b.Dy())
	if w == 0 || h == 0 {
		return nil, fmt.Errorf("cannot plot empty image")
	}

	p := plot.New()
	p.Title.Text = opts.Title
	p.X.Label.Text = "x"
	p.Y.Label.Text = "y"

	// plot Y grows upward, so the image spans [0,h] and rows are labelled
	// from the top.
	p.Add(plotter.NewImage(img, 0, 0, w, h))
	p.Y.Tick.Marker = flippedTicks{height: h}

	if !opts.Region.Empty() {
		line, err := regionLine(opts.Region, h)
		if err != nil {
			return nil, err
		}
		if opts.RegionColor != nil {
			line.Color = opts.RegionColor
		}
		if opts.LineWidth > 0 {
			line.Width = vg.Points(opts.LineWidth)
		}
		p.Add(line)
	}
	return p, nil
}

// Save writes p to path; the extension selects the format.
func Save(p *plot.Plot, opts Options, path string) error {
	w, h := figureSize(opts)
	if err := p.Save(w, h, path); err != nil {
		return fmt.Errorf("save figure %s: %w", path, err)
	}
	return nil
}

// WritePNG writes p to w as PNG.
func WritePNG(w io.Writer, p *plot.Plot, opts Options) error {
	fw, fh := figureSize(opts)
	wt, err := p.WriterTo(fw, fh, "png")
	if err != nil {
		return fmt.Errorf("render figure: %w", err)
	}
	if _, err := wt.WriteTo(w); err != nil {
		return fmt.Errorf("write figure: %w", err)
	}
	return nil
}

func figureSize(opts Options) (vg.Length, vg.Length) {
	w, h := opts.Width, opts.Height
	if w <= 0 {
		w = 6 * vg.Inch
	}
	if h <= 0 {
		h = 6 * vg.Inch
	}
	return w, h
}

// regionLine traces r as a closed polygon in plot coordinates.
func regionLine(r image.Rectangle, height float64) (*plotter.Line, error) {
	x0, x1 := float64(r.Min.X), float64(r.Max.X)
	y0, y1 := height-float64(r.Min.Y), height-float64(r.Max.Y)
	pts := plotter.XYs{
		{X: x0, Y: y0},
		{X: x1, Y: y0},
		{X: x1, Y: y1},
		{X: x0, Y: y1},
		{X: x0, Y: y0},
	}
	return plotter.NewLine(pts)
}

// flippedTicks labels the Y axis with image row numbers.
type flippedTicks struct {
	height float64
}

func (f flippedTicks) Ticks(lo, hi float64) []plot.Tick {
	ticks := plot.DefaultTicks{}.Ticks(lo, hi)
	for i := range ticks {
		if ticks[i].Label == "" {
			continue
		}
		ticks[i].Label = strconv.FormatFloat(f.height-ticks[i].Value, 'f', -1, 64)
	}
	return ticks
}

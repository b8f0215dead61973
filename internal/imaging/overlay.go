package imaging

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"

	"github.com/disintegration/imaging"
	"github.com/lucasb-eyer/go-colorful"
)

// ParseColor parses a "#rrggbb" hex string into an opaque color.
func ParseColor(hex string) (color.NRGBA, error) {
	c, err := colorful.Hex(hex)
	if err != nil {
		return color.NRGBA{}, fmt.Errorf("invalid color %q: %w", hex, err)
	}
	r, g, b := c.RGB255()
	return color.NRGBA{R: r, G: g, B: b, A: 0xff}, nil
}

// DrawRegion returns a copy of img with the outline of r drawn in c.
//
// The outline is width pixels thick and lies inside r. Parts of r outside
// the image are clipped; img itself is not modified.
func DrawRegion(img image.Image, r image.Rectangle, c color.Color, width int) *image.NRGBA {
	out := imaging.Clone(img)
	if width < 1 || r.Empty() {
		return out
	}
	width = min(width, (r.Dx()+1)/2, (r.Dy()+1)/2)

	fill := image.NewUniform(c)
	edges := []image.Rectangle{
		image.Rect(r.Min.X, r.Min.Y, r.Max.X, r.Min.Y+width), // top
		image.Rect(r.Min.X, r.Max.Y-width, r.Max.X, r.Max.Y), // bottom
		image.Rect(r.Min.X, r.Min.Y, r.Min.X+width, r.Max.Y), // left
		image.Rect(r.Max.X-width, r.Min.Y, r.Max.X, r.Max.Y), // right
	}
	for _, e := range edges {
		draw.Draw(out, e.Intersect(out.Bounds()), fill, image.Point{}, draw.Src)
	}
	return out
}

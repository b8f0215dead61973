package imaging

import (
	"bytes"
	"encoding/base64"
	"errors"
	"fmt"
	"image"
	"io"

	"github.com/disintegration/imaging"

	"github.com/ironsheep/qr-edgemap/internal/edgemap"
	"github.com/ironsheep/qr-edgemap/internal/grid"
)

// ErrOutOfRange is returned when a grid holds values that do not fit in an
// 8-bit grey pixel.
var ErrOutOfRange = errors.New("grid value outside 0-255")

// GreyImage converts an integer grid with values in 0-255 to a grey image.
func GreyImage(g *grid.IntGrid) (*image.Gray, error) {
	img := image.NewGray(image.Rect(0, 0, g.Width, g.Height))
	for y := 0; y < g.Height; y++ {
		row := g.Row(y)
		dst := img.Pix[y*img.Stride : y*img.Stride+g.Width]
		for x, v := range row {
			if v < 0 || v > 255 {
				return nil, fmt.Errorf("pixel (%d,%d) = %d: %w", x, y, v, ErrOutOfRange)
			}
			dst[x] = uint8(v)
		}
	}
	return img, nil
}

// WriteGrey saves g as a greyscale image. The format is chosen from the
// file extension.
func WriteGrey(path string, g *grid.IntGrid) error {
	img, err := GreyImage(g)
	if err != nil {
		return err
	}
	return Save(path, img)
}

// Save writes img to path. The format is chosen from the file extension.
func Save(path string, img image.Image) error {
	if err := imaging.Save(img, path); err != nil {
		return fmt.Errorf("failed to save %s: %w", path, err)
	}
	return nil
}

// EncodeGrey writes g to w as a greyscale PNG.
func EncodeGrey(w io.Writer, g *grid.IntGrid) error {
	img, err := GreyImage(g)
	if err != nil {
		return err
	}
	return EncodePNG(w, img)
}

// EncodePNG writes img to w as PNG.
func EncodePNG(w io.Writer, img image.Image) error {
	if err := imaging.Encode(w, img, imaging.PNG); err != nil {
		return fmt.Errorf("failed to encode PNG: %w", err)
	}
	return nil
}

// PNGBase64 encodes img as a base64 PNG for embedding in JSON responses.
func PNGBase64(img image.Image) (string, error) {
	var buf bytes.Buffer
	if err := EncodePNG(&buf, img); err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString(buf.Bytes()), nil
}

// StageGrey renders any stage grid as an 8-bit grey image. Integer grids
// already in 0-255 are used as they are; anything else, such as signed Sobel
// responses, is stretched onto 0-255 with the pipeline normalizer.
func StageGrey[T grid.Number](g *grid.Grid[T]) (*image.Gray, error) {
	sum := grid.Summarize(g)
	if ig, ok := any(g).(*grid.IntGrid); ok && sum.Min >= 0 && sum.Max <= 255 {
		return GreyImage(ig)
	}
	return GreyImage(edgemap.Normalize(g))
}

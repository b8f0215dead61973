package imaging

import (
	"fmt"
	"image"

	"github.com/disintegration/imaging"
)

// CropResult contains the cropped image data
type CropResult struct {
	Region      image.Rectangle `json:"-"`
	Width       int             `json:"width"`
	Height      int             `json:"height"`
	ImageBase64 string          `json:"image_base64"`
	MimeType    string          `json:"mime_type"`
}

// CropImage extracts r from img, optionally resized by scale. The region is
// given in 0-based image coordinates and must lie within the image.
func CropImage(img image.Image, r image.Rectangle, scale float64) (*image.NRGBA, error) {
	if r.Empty() {
		return nil, fmt.Errorf("invalid crop region %v: width and height must be positive", r)
	}
	b := img.Bounds()
	abs := r.Add(b.Min)
	if !abs.In(b) {
		return nil, fmt.Errorf("crop region %v outside image bounds %v", r, b.Sub(b.Min))
	}

	cropped := imaging.Crop(img, abs)
	if scale != 1.0 && scale > 0 {
		newWidth := max(1, int(float64(cropped.Bounds().Dx())*scale))
		newHeight := max(1, int(float64(cropped.Bounds().Dy())*scale))
		cropped = imaging.Resize(cropped, newWidth, newHeight, imaging.Lanczos)
	}
	return cropped, nil
}

// Crop extracts a rectangular region from an image and encodes it as PNG.
func Crop(img image.Image, r image.Rectangle, scale float64) (*CropResult, error) {
	cropped, err := CropImage(img, r, scale)
	if err != nil {
		return nil, err
	}
	b64, err := PNGBase64(cropped)
	if err != nil {
		return nil, fmt.Errorf("failed to encode cropped image: %w", err)
	}
	return &CropResult{
		Region:      r,
		Width:       cropped.Bounds().Dx(),
		Height:      cropped.Bounds().Dy(),
		ImageBase64: b64,
		MimeType:    "image/png",
	}, nil
}

package imaging

import (
	"bytes"
	"encoding/base64"
	"image"
	"image/color"
	"image/png"
	"testing"
)

func decodeBase64PNG(t *testing.T, s string) image.Image {
	t.Helper()
	data, err := base64.StdEncoding.DecodeString(s)
	if err != nil {
		t.Fatalf("failed to decode base64: %v", err)
	}
	img, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("failed to decode PNG: %v", err)
	}
	return img
}

func TestCrop(t *testing.T) {
	img := createPatternImage(100, 100)

	result, err := Crop(img, image.Rect(0, 0, 50, 50), 1.0)
	if err != nil {
		t.Fatalf("Crop failed: %v", err)
	}

	if result.Width != 50 || result.Height != 50 {
		t.Errorf("dimensions: got %dx%d, want 50x50", result.Width, result.Height)
	}
	if result.MimeType != "image/png" {
		t.Errorf("MimeType: got %s, want image/png", result.MimeType)
	}
	decodeBase64PNG(t, result.ImageBase64)
}

func TestCrop_Scale(t *testing.T) {
	img := createInMemoryImage(100, 100, color.RGBA{255, 0, 0, 255})

	tests := []struct {
		name         string
		region       image.Rectangle
		scale        float64
		wantW, wantH int
	}{
		{"up 2x", image.Rect(0, 0, 50, 50), 2.0, 100, 100},
		{"down 0.5x", image.Rect(0, 0, 100, 100), 0.5, 50, 50},
		{"zero means unscaled", image.Rect(0, 0, 40, 20), 0, 40, 20},
		{"tiny stays one pixel", image.Rect(0, 0, 3, 3), 0.01, 1, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := Crop(img, tt.region, tt.scale)
			if err != nil {
				t.Fatalf("Crop failed: %v", err)
			}
			if result.Width != tt.wantW || result.Height != tt.wantH {
				t.Errorf("dimensions: got %dx%d, want %dx%d", result.Width, result.Height, tt.wantW, tt.wantH)
			}
		})
	}
}

func TestCrop_InvalidRegion(t *testing.T) {
	img := createInMemoryImage(100, 100, color.RGBA{255, 0, 0, 255})

	tests := []struct {
		name   string
		region image.Rectangle
	}{
		{"x negative", image.Rect(-1, 0, 50, 50)},
		{"y negative", image.Rect(0, -1, 50, 50)},
		{"too wide", image.Rect(0, 0, 101, 50)},
		{"too tall", image.Rect(0, 0, 50, 101)},
		{"zero width", image.Rect(50, 0, 50, 50)},
		{"zero area", image.Rect(50, 50, 50, 50)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Crop(img, tt.region, 1.0); err == nil {
				t.Errorf("Crop should fail for %v", tt.region)
			}
		})
	}
}

func TestCrop_VerifyContent(t *testing.T) {
	img := createPatternImage(100, 100)

	tests := []struct {
		name   string
		region image.Rectangle
		want   color.NRGBA
	}{
		{"top-left", image.Rect(0, 0, 50, 50), color.NRGBA{255, 0, 0, 255}},
		{"top-right", image.Rect(50, 0, 100, 50), color.NRGBA{0, 255, 0, 255}},
		{"bottom-left", image.Rect(0, 50, 50, 100), color.NRGBA{0, 0, 255, 255}},
		{"bottom-right", image.Rect(50, 50, 100, 100), color.NRGBA{255, 255, 255, 255}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := Crop(img, tt.region, 1.0)
			if err != nil {
				t.Fatalf("Crop failed: %v", err)
			}
			cropped := decodeBase64PNG(t, result.ImageBase64)
			got := color.NRGBAModel.Convert(cropped.At(25, 25)).(color.NRGBA)
			if got != tt.want {
				t.Errorf("color: got %v, want %v", got, tt.want)
			}
		})
	}
}

func TestCropImage_OffsetBounds(t *testing.T) {
	// Regions are relative to the image origin, not to absolute bounds.
	sub := createPatternImage(100, 100).SubImage(image.Rect(50, 0, 100, 50))

	cropped, err := CropImage(sub, image.Rect(0, 0, 10, 10), 1.0)
	if err != nil {
		t.Fatalf("CropImage failed: %v", err)
	}
	got := cropped.NRGBAAt(5, 5)
	if want := (color.NRGBA{0, 255, 0, 255}); got != want {
		t.Errorf("color: got %v, want %v", got, want)
	}

	if _, err := CropImage(sub, image.Rect(40, 40, 60, 60), 1.0); err == nil {
		t.Error("CropImage should fail past the sub-image bounds")
	}
}

func TestDownscale(t *testing.T) {
	img := createInMemoryImage(200, 100, color.RGBA{1, 2, 3, 255})

	tests := []struct {
		name         string
		max          int
		wantW, wantH int
	}{
		{"disabled", 0, 200, 100},
		{"negative disabled", -5, 200, 100},
		{"already fits", 200, 200, 100},
		{"halved", 100, 100, 50},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := Downscale(img, tt.max).Bounds()
			if b.Dx() != tt.wantW || b.Dy() != tt.wantH {
				t.Errorf("dimensions: got %dx%d, want %dx%d", b.Dx(), b.Dy(), tt.wantW, tt.wantH)
			}
		})
	}
}

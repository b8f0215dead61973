package imaging

import (
	"image"

	"github.com/disintegration/imaging"

	"github.com/ironsheep/qr-edgemap/internal/edgemap"
	"github.com/ironsheep/qr-edgemap/internal/grid"
)

// SplitChannels separates img into red, green and blue grids of 8-bit
// values. The grids are indexed from (0,0) regardless of img.Bounds().Min.
func SplitChannels(img image.Image) edgemap.Channels {
	src := imaging.Clone(img)
	w, h := src.Rect.Dx(), src.Rect.Dy()

	ch := edgemap.Channels{
		R: grid.NewInt(w, h),
		G: grid.NewInt(w, h),
		B: grid.NewInt(w, h),
	}
	for y := 0; y < h; y++ {
		row := src.Pix[y*src.Stride : y*src.Stride+w*4]
		rr, gr, br := ch.R.Row(y), ch.G.Row(y), ch.B.Row(y)
		for x := 0; x < w; x++ {
			rr[x] = int(row[x*4])
			gr[x] = int(row[x*4+1])
			br[x] = int(row[x*4+2])
		}
	}
	return ch
}

// LoadChannels loads the image at path through the cache and splits it into
// channel grids. A maxDimension above zero first shrinks the image to fit
// within maxDimension x maxDimension, keeping its aspect ratio.
func LoadChannels(cache *ImageCache, path string, maxDimension int) (edgemap.Channels, error) {
	img, err := cache.Load(path)
	if err != nil {
		return edgemap.Channels{}, err
	}
	return ScaledChannels(img, maxDimension), nil
}

// ScaledChannels applies Downscale and splits the result into channel grids.
func ScaledChannels(img image.Image, maxDimension int) edgemap.Channels {
	return SplitChannels(Downscale(img, maxDimension))
}

// Downscale shrinks img to fit within maxDimension x maxDimension using
// Lanczos resampling. Images that already fit, or a maxDimension <= 0, are
// returned unchanged.
func Downscale(img image.Image, maxDimension int) image.Image {
	if maxDimension <= 0 {
		return img
	}
	b := img.Bounds()
	if b.Dx() <= maxDimension && b.Dy() <= maxDimension {
		return img
	}
	return imaging.Fit(img, maxDimension, maxDimension, imaging.Lanczos)
}

// MergeChannels reassembles channel grids into an opaque RGB image. It is
// the inverse of SplitChannels for opaque 8-bit images and is used to
// preview the input alongside pipeline stages.
func MergeChannels(ch edgemap.Channels) (*image.NRGBA, error) {
	if err := ch.Validate(); err != nil {
		return nil, err
	}
	w, h := ch.Size()
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		rr, gr, br := ch.R.Row(y), ch.G.Row(y), ch.B.Row(y)
		row := img.Pix[y*img.Stride : y*img.Stride+w*4]
		for x := 0; x < w; x++ {
			row[x*4] = uint8(rr[x])
			row[x*4+1] = uint8(gr[x])
			row[x*4+2] = uint8(br[x])
			row[x*4+3] = 0xff
		}
	}
	return img, nil
}

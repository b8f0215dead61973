// Package imaging connects the edge map pipeline to image files.
//
// It decodes raster files into the three 8-bit channel grids the pipeline
// consumes, encodes result grids as single-channel images, and renders the
// marker-region overlay. Decoding and encoding go through
// github.com/disintegration/imaging, so PNG, JPEG, GIF, TIFF and BMP are
// supported; WebP input is registered as well.
//
// # Coordinate System
//
// All pixel coordinates in this package are 0-based:
//   - X: horizontal position (0 = leftmost pixel)
//   - Y: vertical position (0 = topmost pixel)
//   - Regions are image.Rectangle values: Min is inclusive, Max is exclusive
//
// # Thread Safety
//
// The ImageCache type is safe for concurrent use. The conversion functions
// are stateless and can be called concurrently on different images.
//
// # Channel Values
//
// Channels are taken from the non-premultiplied 8-bit representation of the
// image (image.NRGBA). Alpha is ignored, so a half-transparent red pixel
// contributes R=255 rather than a blended value. 16-bit images are reduced
// to 8 bits by dropping the low byte.
//
// # Error Handling
//
// Functions return errors for invalid inputs such as:
//   - File I/O errors during image loading
//   - Undecodable image data
//   - Grid values outside 0-255 when encoding
//   - Regions outside the image bounds when cropping
package imaging

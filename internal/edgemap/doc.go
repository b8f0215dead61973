// Package edgemap converts an RGB photograph into a binary edge map used to
// find the region of a printed marker such as a QR code.
//
// # Algorithm
//
// Run applies a fixed sequence of whole-grid stages. Each stage returns a
// new grid and never modifies its input:
//
//  1. Greyscale: luma = round(0.299*R + 0.587*G + 0.114*B)
//  2. Normalize: stretch the greyscale grid to span 0-255
//  3. Sobel: vertical and horizontal 3x3 gradients of the normalized grid,
//     each divided by 8
//  4. Combine: magnitude = |vertical| + |horizontal| (or the Euclidean norm
//     when configured)
//  5. Smooth: Config.Iterations passes of a 3x3 box average of |sum|/9
//  6. Normalize: stretch the smoothed magnitude to span 0-255
//  7. Threshold: pixels >= Config.Threshold become 255, the rest 0
//
// # Borders
//
// The convolution stages (Sobel and Smooth) compute interior pixels only and
// write grid.BorderValue (0) to the 1-pixel frame. Because every smoothing
// pass resets the frame instead of inheriting it, the border stays exactly 0
// through any number of iterations. The normalizer, in contrast, scans and
// rescales every pixel including the border.
//
// # Rounding
//
// All rounding is round-half-to-even (math.RoundToEven), so 24.5 rounds to
// 24 and 25.5 rounds to 26.
//
// # Errors
//
// Run rejects malformed input before computing anything: nil or mismatched
// channel grids, channel values outside 0-255, and grids narrower or shorter
// than grid.MinDimension. A flat grid is not an error; it normalizes to 0.
//
// # Concurrency
//
// With Config.Parallel set, rows within a stage are computed concurrently.
// A stage still completes before the next one starts, and smoothing passes
// run strictly one after another.
package edgemap

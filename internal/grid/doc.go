// Package grid provides the dense pixel grids and 3x3 kernels that the edge
// map pipeline operates on.
//
// A Grid stores W*H values in a single row-major slice. Two instantiations
// are used throughout the module:
//   - IntGrid: 8-bit channel and greyscale values after quantisation
//   - RealGrid: intermediate filter output, which may be negative or fractional
//
// # Coordinate System
//
// Accessors follow the image package convention: At(x, y) where x is the
// column (0 = leftmost) and y is the row (0 = topmost). Row(y) exposes a
// whole row as a slice sharing the grid's storage.
//
// # Interior and Border
//
// Convolution stages only compute interior pixels, those with all eight
// neighbours inside the grid. The remaining 1-pixel frame is the border and
// is written as BorderValue. A grid narrower or shorter than MinDimension
// has no interior.
package grid

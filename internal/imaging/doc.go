// Package imaging turns images into the binary masks that regions are built
// from, and encodes reconstructed masks for output.
//
// # Coordinate System
//
// All pixel coordinates in this package are 0-based with (0,0) at the top-left
// corner, X increasing rightward and Y increasing downward. Windows use an
// inclusive top-left (X1,Y1) and exclusive bottom-right (X2,Y2).
//
// Masks produced here keep the coordinates of the image they were cut from:
// a mask extracted through a window starting at (40,25) has bounds starting at
// (40,25), not at the origin. This lets region boundaries be reported in
// full-image coordinates.
//
// # Mask Sources
//
//   - ThresholdMask: luminance threshold (bild)
//   - ColorMask: CIE-Lab distance to a target color (go-colorful)
//   - CropWindow: region-of-interest extraction (disintegration/imaging)
//   - Components: split a mask into 4-connected components
//
// Mask pixels are always 0 (unset) or 255 (set).
//
// # Thread Safety
//
// ImageCache is safe for concurrent use. The mask functions are stateless and
// never modify their input image.
package imaging

package imaging

import (
	"fmt"
	"image"

	"github.com/anthonynsimon/bild/segment"
	"github.com/disintegration/imaging"
	"github.com/lucasb-eyer/go-colorful"
)

// Window is a rectangular region of interest within an image.
//
// Coordinates follow the standard image convention:
//   - (X1, Y1) is the top-left corner (inclusive)
//   - (X2, Y2) is the bottom-right corner (exclusive)
type Window struct {
	X1 int `json:"x1"` // Left edge X coordinate (inclusive)
	Y1 int `json:"y1"` // Top edge Y coordinate (inclusive)
	X2 int `json:"x2"` // Right edge X coordinate (exclusive)
	Y2 int `json:"y2"` // Bottom edge Y coordinate (exclusive)
}

// Rect converts the window to an image.Rectangle.
func (w Window) Rect() image.Rectangle {
	return image.Rect(w.X1, w.Y1, w.X2, w.Y2)
}

// MaskOptions selects how an image is turned into a binary mask.
type MaskOptions struct {
	// Window restricts the mask to a region of interest. Nil means the whole
	// image. Mask pixels keep the image's coordinates either way.
	Window *Window

	// Color, when set, selects pixels close to this hex color ("#RRGGBB")
	// instead of thresholding luminance.
	Color string

	// Tolerance is the maximum CIE76 distance (ΔE, roughly 0-100) from Color
	// for a pixel to be selected. Ignored unless Color is set.
	Tolerance float64

	// Threshold is the luminance level (0-255) at or above which a pixel is
	// set. Ignored when Color is set.
	Threshold uint8

	// Invert flips the selection.
	Invert bool
}

// ExtractMask turns img into a binary mask (0 or 255) according to opts.
//
// The returned mask is positioned at the window's top-left corner in img's
// coordinate space, so a region built from it reports points in image
// coordinates.
func ExtractMask(img image.Image, opts MaskOptions) (*image.Gray, error) {
	src, err := CropWindow(img, opts.Window)
	if err != nil {
		return nil, err
	}

	if opts.Color != "" {
		return ColorMask(src, opts.Color, opts.Tolerance, opts.Invert)
	}
	return ThresholdMask(src, opts.Threshold, opts.Invert), nil
}

// CropWindow extracts a window from img. A nil window returns img unchanged.
//
// Unlike imaging.Crop, the result keeps img's coordinates: its bounds equal
// the window rather than starting at the origin.
func CropWindow(img image.Image, w *Window) (image.Image, error) {
	if w == nil {
		return img, nil
	}

	bounds := img.Bounds()
	if w.X1 < bounds.Min.X || w.Y1 < bounds.Min.Y || w.X2 > bounds.Max.X || w.Y2 > bounds.Max.Y {
		return nil, fmt.Errorf("window (%d,%d)-(%d,%d) outside image bounds (%d,%d)-(%d,%d)",
			w.X1, w.Y1, w.X2, w.Y2, bounds.Min.X, bounds.Min.Y, bounds.Max.X, bounds.Max.Y)
	}
	if w.X1 >= w.X2 || w.Y1 >= w.Y2 {
		return nil, fmt.Errorf("invalid window: x1 must be < x2, y1 must be < y2")
	}

	cropped := imaging.Crop(img, w.Rect())
	cropped.Rect = cropped.Rect.Add(w.Rect().Min)
	return cropped, nil
}

// ThresholdMask binarizes img by luminance: pixels at or above level become
// 255, the rest 0. Fully transparent pixels count as set. Invert swaps the
// two values.
func ThresholdMask(img image.Image, level uint8, invert bool) *image.Gray {
	mask := positionAt(segment.Threshold(img, level), img.Bounds().Min)
	if invert {
		for i, v := range mask.Pix {
			mask.Pix[i] = 255 - v
		}
	}
	return mask
}

// ColorMask selects pixels whose CIE-Lab distance to hexColor is within
// tolerance. Fully transparent pixels are never selected. Invert swaps
// selected and unselected pixels.
func ColorMask(img image.Image, hexColor string, tolerance float64, invert bool) (*image.Gray, error) {
	target, err := colorful.Hex(hexColor)
	if err != nil {
		return nil, fmt.Errorf("invalid color %q: %w", hexColor, err)
	}

	bounds := img.Bounds()
	mask := image.NewGray(bounds)

	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			c, ok := colorful.MakeColor(img.At(x, y))
			match := ok && c.DistanceLab(target)*100 <= tolerance
			if match != invert {
				mask.Pix[mask.PixOffset(x, y)] = 255
			}
		}
	}

	return mask, nil
}

// positionAt moves m so its top-left corner is at origin. Only the bounds
// change; pixel data is untouched.
func positionAt(m *image.Gray, origin image.Point) *image.Gray {
	m.Rect = image.Rectangle{Min: origin, Max: origin.Add(m.Rect.Size())}
	return m
}

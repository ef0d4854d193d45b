package imaging

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	"image/png"
)

// MaskResult contains a mask encoded as base64 PNG.
//
// The PNG itself always starts at (0,0); OffsetX and OffsetY give the position
// of its top-left pixel in the source coordinate space.
type MaskResult struct {
	// Width of the mask in pixels.
	Width int `json:"width"`

	// Height of the mask in pixels.
	Height int `json:"height"`

	// OffsetX is the X coordinate of the mask's left column.
	OffsetX int `json:"offset_x"`

	// OffsetY is the Y coordinate of the mask's top row.
	OffsetY int `json:"offset_y"`

	// SetPixels counts non-zero pixels.
	SetPixels int `json:"set_pixels"`

	// ImageBase64 is the grayscale mask encoded as base64 PNG.
	// Empty when the mask has no pixels.
	ImageBase64 string `json:"image_base64,omitempty"`

	// MimeType is "image/png" when ImageBase64 is present.
	MimeType string `json:"mime_type,omitempty"`
}

// EncodeMask encodes m as a base64 PNG. A zero-size mask produces a result
// with no image data, since PNG cannot represent an empty image.
func EncodeMask(m *image.Gray) (*MaskResult, error) {
	bounds := m.Bounds()
	result := &MaskResult{
		Width:   bounds.Dx(),
		Height:  bounds.Dy(),
		OffsetX: bounds.Min.X,
		OffsetY: bounds.Min.Y,
	}
	if bounds.Empty() {
		result.Width, result.Height = 0, 0
		return result, nil
	}

	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			if m.Pix[m.PixOffset(x, y)] != 0 {
				result.SetPixels++
			}
		}
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, m); err != nil {
		return nil, fmt.Errorf("failed to encode mask: %w", err)
	}

	result.ImageBase64 = base64.StdEncoding.EncodeToString(buf.Bytes())
	result.MimeType = "image/png"
	return result, nil
}

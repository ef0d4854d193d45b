package imaging

import (
	"image"
	"image/color"
	"testing"
)

// createSquareImage returns a black image with a filled square of color c.
func createSquareImage(width, height int, square image.Rectangle, c color.Color) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			if image.Pt(x, y).In(square) {
				img.Set(x, y, c)
			} else {
				img.Set(x, y, color.RGBA{0, 0, 0, 255})
			}
		}
	}
	return img
}

// countSet returns the number of non-zero pixels in m.
func countSet(m *image.Gray) int {
	n := 0
	b := m.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			if m.GrayAt(x, y).Y != 0 {
				n++
			}
		}
	}
	return n
}

func TestThresholdMask(t *testing.T) {
	square := image.Rect(10, 10, 20, 15)
	img := createSquareImage(40, 30, square, color.RGBA{255, 255, 255, 255})

	mask := ThresholdMask(img, 128, false)

	if mask.Bounds() != img.Bounds() {
		t.Fatalf("bounds: got %v, want %v", mask.Bounds(), img.Bounds())
	}
	if got := countSet(mask); got != 50 {
		t.Errorf("set pixels: got %d, want 50", got)
	}
	if mask.GrayAt(10, 10).Y != 255 || mask.GrayAt(9, 10).Y != 0 {
		t.Error("square edge not thresholded as expected")
	}
}

func TestThresholdMask_Invert(t *testing.T) {
	img := createSquareImage(40, 30, image.Rect(10, 10, 20, 15), color.RGBA{255, 255, 255, 255})

	mask := ThresholdMask(img, 128, true)

	if got := countSet(mask); got != 40*30-50 {
		t.Errorf("set pixels: got %d, want %d", got, 40*30-50)
	}
	if mask.GrayAt(12, 12).Y != 0 {
		t.Error("inverted square pixel should be 0")
	}
}

func TestCropWindow_KeepsCoordinates(t *testing.T) {
	img := createSquareImage(40, 30, image.Rect(10, 10, 20, 15), color.RGBA{255, 255, 255, 255})

	cropped, err := CropWindow(img, &Window{X1: 5, Y1: 8, X2: 25, Y2: 20})
	if err != nil {
		t.Fatalf("CropWindow failed: %v", err)
	}

	if cropped.Bounds() != image.Rect(5, 8, 25, 20) {
		t.Errorf("bounds: got %v, want %v", cropped.Bounds(), image.Rect(5, 8, 25, 20))
	}

	r, _, _, _ := cropped.At(10, 10).RGBA()
	if r>>8 != 255 {
		t.Errorf("pixel (10,10): got red %d, want 255", r>>8)
	}
	r, _, _, _ = cropped.At(9, 10).RGBA()
	if r>>8 != 0 {
		t.Errorf("pixel (9,10): got red %d, want 0", r>>8)
	}
}

func TestCropWindow_Nil(t *testing.T) {
	img := createSquareImage(10, 10, image.Rect(0, 0, 5, 5), color.White)

	got, err := CropWindow(img, nil)
	if err != nil {
		t.Fatalf("CropWindow failed: %v", err)
	}
	if got != image.Image(img) {
		t.Error("nil window should return the source image")
	}
}

func TestCropWindow_Invalid(t *testing.T) {
	img := createSquareImage(100, 100, image.Rect(0, 0, 5, 5), color.White)

	tests := []struct {
		name string
		w    Window
	}{
		{"x1 negative", Window{-1, 0, 50, 50}},
		{"y2 too large", Window{0, 0, 50, 101}},
		{"x1 >= x2", Window{50, 0, 50, 50}},
		{"y1 > y2", Window{0, 60, 50, 50}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := tt.w
			if _, err := CropWindow(img, &w); err == nil {
				t.Error("CropWindow should fail")
			}
		})
	}
}

func TestExtractMask_Window(t *testing.T) {
	img := createSquareImage(40, 30, image.Rect(10, 10, 20, 15), color.RGBA{255, 255, 255, 255})

	mask, err := ExtractMask(img, MaskOptions{
		Window:    &Window{X1: 15, Y1: 5, X2: 30, Y2: 25},
		Threshold: 128,
	})
	if err != nil {
		t.Fatalf("ExtractMask failed: %v", err)
	}

	if mask.Bounds() != image.Rect(15, 5, 30, 25) {
		t.Errorf("bounds: got %v, want %v", mask.Bounds(), image.Rect(15, 5, 30, 25))
	}
	// Columns 15..19 of the square fall inside the window.
	if got := countSet(mask); got != 25 {
		t.Errorf("set pixels: got %d, want 25", got)
	}
	if mask.GrayAt(15, 10).Y != 255 {
		t.Error("pixel (15,10) should be set")
	}
}

func TestColorMask(t *testing.T) {
	img := createSquareImage(20, 20, image.Rect(2, 3, 7, 9), color.RGBA{220, 30, 30, 255})

	tests := []struct {
		name      string
		hex       string
		tolerance float64
		invert    bool
		want      int
	}{
		{"exact", "#DC1E1E", 1, false, 30},
		{"near red", "#E02020", 10, false, 30},
		{"black background", "#000000", 1, false, 400 - 30},
		{"inverted", "#DC1E1E", 1, true, 400 - 30},
		{"no match", "#0000FF", 5, false, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mask, err := ColorMask(img, tt.hex, tt.tolerance, tt.invert)
			if err != nil {
				t.Fatalf("ColorMask failed: %v", err)
			}
			if got := countSet(mask); got != tt.want {
				t.Errorf("set pixels: got %d, want %d", got, tt.want)
			}
		})
	}
}

func TestColorMask_InvalidColor(t *testing.T) {
	img := createSquareImage(4, 4, image.Rect(0, 0, 2, 2), color.White)
	if _, err := ColorMask(img, "red", 10, false); err == nil {
		t.Error("ColorMask should fail for invalid hex color")
	}
}

func TestColorMask_Transparent(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 4, 4))

	mask, err := ColorMask(img, "#000000", 100, false)
	if err != nil {
		t.Fatalf("ColorMask failed: %v", err)
	}
	if got := countSet(mask); got != 0 {
		t.Errorf("transparent pixels selected: got %d, want 0", got)
	}
}

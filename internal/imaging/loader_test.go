package imaging

import (
	"errors"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"golang.org/x/image/bmp"
)

// writePNG encodes a solid-colored image to path.
func writePNG(t *testing.T, path string, width, height int, c color.Color) {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.Set(x, y, c)
		}
	}

	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("failed to create %s: %v", path, err)
	}
	defer f.Close()

	if err := png.Encode(f, img); err != nil {
		t.Fatalf("failed to encode image: %v", err)
	}
}

// createTestImage writes a solid PNG into a per-test directory and returns its
// path.
func createTestImage(t *testing.T, width, height int, c color.Color) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "mask.png")
	writePNG(t, path, width, height, c)
	return path
}

// createBMPImage writes a BMP with a white square on black and returns its path.
func createBMPImage(t *testing.T, width, height int) string {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			c := color.RGBA{0, 0, 0, 255}
			if x >= width/4 && x < 3*width/4 && y >= height/4 && y < 3*height/4 {
				c = color.RGBA{255, 255, 255, 255}
			}
			img.Set(x, y, c)
		}
	}

	path := filepath.Join(t.TempDir(), "mask.bmp")
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("failed to create temp file: %v", err)
	}
	defer f.Close()

	if err := bmp.Encode(f, img); err != nil {
		t.Fatalf("failed to encode image: %v", err)
	}
	return path
}

func TestImageCache_LoadReusesDecodedImage(t *testing.T) {
	cache := NewImageCache(0)
	path := createTestImage(t, 30, 20, color.White)

	first, err := cache.Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if b := first.Bounds(); b.Dx() != 30 || b.Dy() != 20 {
		t.Errorf("dimensions: got %dx%d, want 30x20", b.Dx(), b.Dy())
	}

	second, err := cache.Load(path)
	if err != nil {
		t.Fatalf("second Load failed: %v", err)
	}
	if first != second {
		t.Error("unchanged file was decoded again")
	}
	if cache.Len() != 1 {
		t.Errorf("Len: got %d, want 1", cache.Len())
	}
}

func TestImageCache_LoadRereadsRewrittenFile(t *testing.T) {
	cache := NewImageCache(0)
	path := createTestImage(t, 10, 10, color.White)

	if _, err := cache.Load(path); err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	// A segmentation step rewrites the mask in place.
	writePNG(t, path, 16, 12, color.Black)
	later := time.Now().Add(time.Minute)
	if err := os.Chtimes(path, later, later); err != nil {
		t.Fatalf("Chtimes failed: %v", err)
	}

	img, err := cache.Load(path)
	if err != nil {
		t.Fatalf("Load after rewrite failed: %v", err)
	}
	if b := img.Bounds(); b.Dx() != 16 || b.Dy() != 12 {
		t.Errorf("stale image returned: got %dx%d, want 16x12", b.Dx(), b.Dy())
	}
	if cache.Len() != 1 {
		t.Errorf("Len: got %d, want 1", cache.Len())
	}
}

func TestImageCache_LoadDropsDeletedFile(t *testing.T) {
	cache := NewImageCache(0)
	path := createTestImage(t, 8, 8, color.White)

	if _, err := cache.Load(path); err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if err := os.Remove(path); err != nil {
		t.Fatalf("Remove failed: %v", err)
	}

	if _, err := cache.Load(path); err == nil {
		t.Error("Load should fail once the file is gone")
	}
	if cache.Len() != 0 {
		t.Errorf("Len: got %d, want 0", cache.Len())
	}
}

func TestImageCache_LoadErrors(t *testing.T) {
	invalid := filepath.Join(t.TempDir(), "invalid.png")
	if err := os.WriteFile(invalid, []byte("not an image"), 0o644); err != nil {
		t.Fatalf("failed to write file: %v", err)
	}

	tests := []struct {
		name      string
		path      string
		maxPixels int
	}{
		{"missing file", filepath.Join(t.TempDir(), "missing.png"), 0},
		{"invalid data", invalid, 0},
		{"invalid data with limit", invalid, 100},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cache := NewImageCache(tt.maxPixels)
			if _, err := cache.Load(tt.path); err == nil {
				t.Error("expected error")
			}
			if cache.Len() != 0 {
				t.Errorf("failed load was cached")
			}
		})
	}
}

func TestImageCache_PixelLimit(t *testing.T) {
	path := createTestImage(t, 20, 10, color.White)

	if _, err := NewImageCache(199).Load(path); !errors.Is(err, ErrTooLarge) {
		t.Errorf("limit 199: got %v, want ErrTooLarge", err)
	}
	if _, err := NewImageCache(200).Load(path); err != nil {
		t.Errorf("limit 200: unexpected error %v", err)
	}
}

func TestExceedsPixels(t *testing.T) {
	tests := []struct {
		width, height, max int
		want               bool
	}{
		{10, 10, 100, false},
		{10, 11, 100, true},
		{1 << 40, 1 << 40, 1 << 26, true},
		{1 << 40, 1, 0, false},
		{0, 5, 1, false},
	}

	for _, tt := range tests {
		if got := ExceedsPixels(tt.width, tt.height, tt.max); got != tt.want {
			t.Errorf("ExceedsPixels(%d, %d, %d): got %v, want %v",
				tt.width, tt.height, tt.max, got, tt.want)
		}
	}
}

func TestImageCache_Evict(t *testing.T) {
	cache := NewImageCache(0)
	path := createTestImage(t, 5, 5, color.White)

	if _, err := cache.Load(path); err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	cache.Evict(path)
	cache.Evict("/not/cached")

	if cache.Len() != 0 {
		t.Errorf("Len after Evict: got %d, want 0", cache.Len())
	}
}

func TestImageCache_ConcurrentLoads(t *testing.T) {
	cache := NewImageCache(0)
	path := createTestImage(t, 40, 40, color.Gray{Y: 200})

	var wg sync.WaitGroup
	errs := make(chan error, 50)
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := cache.Load(path); err != nil {
				errs <- err
			}
		}()
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		t.Errorf("concurrent Load error: %v", err)
	}
}

func TestImageCache_LoadBMP(t *testing.T) {
	cache := NewImageCache(0)
	path := createBMPImage(t, 40, 20)

	img, err := cache.Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	mask := ThresholdMask(img, 128, false)
	if got := mask.GrayAt(20, 10).Y; got != 255 {
		t.Errorf("center pixel: got %d, want 255", got)
	}
	if got := mask.GrayAt(0, 0).Y; got != 0 {
		t.Errorf("corner pixel: got %d, want 0", got)
	}
}

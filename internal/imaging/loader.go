package imaging

import (
	"errors"
	"fmt"
	"image"
	_ "image/gif"  // Register GIF format decoder
	_ "image/jpeg" // Register JPEG format decoder
	_ "image/png"  // Register PNG format decoder
	"io"
	"os"
	"sync"
	"time"

	_ "golang.org/x/image/bmp"  // Register BMP format decoder
	_ "golang.org/x/image/tiff" // Register TIFF format decoder
	_ "golang.org/x/image/webp" // Register WebP format decoder
)

// ErrTooLarge is returned for images whose pixel count exceeds the limit.
var ErrTooLarge = errors.New("image exceeds pixel limit")

// ExceedsPixels reports whether a width x height area is larger than
// maxPixels. A maxPixels of 0 or less means no limit.
func ExceedsPixels(width, height, maxPixels int) bool {
	if maxPixels <= 0 || width <= 0 || height <= 0 {
		return false
	}
	return width > maxPixels/height
}

// cacheEntry is a decoded image together with the file state it came from.
type cacheEntry struct {
	img     image.Image
	modTime time.Time
	size    int64
}

// ImageCache keeps decoded mask source images keyed by file path.
//
// Segmentation clients tend to ask several questions about the same mask
// (build a region, classify points, test adjacency against a neighbor), so each
// file is decoded once. A pipeline may rewrite a mask in place between
// calls, so every Load checks the file's modification time and size and
// decodes it again when either changed.
//
// ImageCache is safe for concurrent use by multiple goroutines.
type ImageCache struct {
	mu        sync.RWMutex
	entries   map[string]cacheEntry
	maxPixels int
}

// NewImageCache creates an empty image cache. Files larger than maxPixels
// are rejected before their pixel data is decoded; 0 disables the check.
func NewImageCache(maxPixels int) *ImageCache {
	return &ImageCache{
		entries:   make(map[string]cacheEntry),
		maxPixels: maxPixels,
	}
}

// Load returns the decoded image at path, reading it from disk on first use
// or when the file has changed since it was cached.
//
// Supported formats are PNG, JPEG, GIF, BMP, TIFF and WebP. Entries are keyed
// by the exact path string, so a relative and an absolute path to the same
// file are cached separately.
func (c *ImageCache) Load(path string) (image.Image, error) {
	info, err := os.Stat(path)
	if err != nil {
		c.Evict(path)
		return nil, fmt.Errorf("failed to open image: %w", err)
	}

	c.mu.RLock()
	entry, ok := c.entries[path]
	c.mu.RUnlock()
	if ok {
		if entry.modTime.Equal(info.ModTime()) && entry.size == info.Size() {
			return entry.img, nil
		}
		c.Evict(path)
	}

	img, err := c.decode(path)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	c.entries[path] = cacheEntry{img: img, modTime: info.ModTime(), size: info.Size()}
	c.mu.Unlock()

	return img, nil
}

// decode reads the image at path, checking its dimensions against the pixel
// limit first.
func (c *ImageCache) decode(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open image: %w", err)
	}
	defer f.Close()

	if c.maxPixels > 0 {
		cfg, _, err := image.DecodeConfig(f)
		if err != nil {
			return nil, fmt.Errorf("failed to decode image: %w", err)
		}
		if ExceedsPixels(cfg.Width, cfg.Height, c.maxPixels) {
			return nil, fmt.Errorf("%s is %dx%d, limit %d pixels: %w",
				path, cfg.Width, cfg.Height, c.maxPixels, ErrTooLarge)
		}
		if _, err := f.Seek(0, io.SeekStart); err != nil {
			return nil, fmt.Errorf("failed to rewind image: %w", err)
		}
	}

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}
	return img, nil
}

// Len returns the number of cached images.
func (c *ImageCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// Evict drops the image cached under path. Unknown paths are ignored.
func (c *ImageCache) Evict(path string) {
	c.mu.Lock()
	delete(c.entries, path)
	c.mu.Unlock()
}

// Package config loads the tool argument defaults used when a request omits
// them.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Defaults are applied to omitted tool arguments.
type Defaults struct {
	// Threshold is the luminance level (1-255) at or above which a pixel is set.
	Threshold int `yaml:"threshold"`

	// Tolerance is the maximum CIE-Lab distance for color masks.
	Tolerance float64 `yaml:"tolerance"`

	// MinPixels drops smaller components in region_components.
	MinPixels int `yaml:"min_pixels"`

	// MaxPixels caps the area of any rect argument and of any decoded mask
	// image. Regions and their reconstructed masks stay within it.
	MaxPixels int `yaml:"max_pixels"`
}

// Default returns the built-in defaults.
func Default() Defaults {
	return Defaults{
		Threshold: 128,
		Tolerance: 10,
		MinPixels: 1,
		MaxPixels: 1 << 26,
	}
}

// Load reads defaults from a YAML file. Keys missing from the file keep their
// built-in values.
//
//	threshold: 100
//	tolerance: 15
//	min_pixels: 4
//	max_pixels: 16777216
func Load(path string) (Defaults, error) {
	d := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		return d, fmt.Errorf("failed to read config file %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &d); err != nil {
		return d, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	if err := d.Validate(); err != nil {
		return d, fmt.Errorf("config file %s: %w", path, err)
	}
	return d, nil
}

// Validate checks that every default is usable.
func (d Defaults) Validate() error {
	if d.Threshold < 1 || d.Threshold > 255 {
		return fmt.Errorf("threshold %d out of range 1-255", d.Threshold)
	}
	if d.Tolerance < 0 {
		return fmt.Errorf("tolerance must not be negative, got %g", d.Tolerance)
	}
	if d.MinPixels < 1 {
		return fmt.Errorf("min_pixels must be at least 1, got %d", d.MinPixels)
	}
	if d.MaxPixels < 1 {
		return fmt.Errorf("max_pixels must be at least 1, got %d", d.MaxPixels)
	}
	return nil
}

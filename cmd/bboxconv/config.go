package main

import (
	"fmt"
	"os"

	"github.com/sensorable/bboxconv"
	"gopkg.in/yaml.v3"
)

// Config holds the settings that can be given in a configuration file. Flags that are set
// explicitly take precedence.
type Config struct {
	Input  string `yaml:"input"`  // The input format alias.
	Output string `yaml:"output"` // The output format alias.
	Width  *int   `yaml:"width"`  // The image width in pixels.
	Height *int   `yaml:"height"` // The image height in pixels.
	Image  string `yaml:"image"`  // An image to read the width and height from.

	Records     string `yaml:"records"`      // The input file; stdin if empty.
	RecordsOut  string `yaml:"records_out"`  // The output file; stdout if empty.
	TFRecordOut string `yaml:"tfrecord_out"` // An optional TFRecord output file.

	CropsOut     string `yaml:"crops_out"`     // An optional directory for box crops.
	CropEncoding string `yaml:"crop_encoding"` // The encoding for crops {jpg, png, webp}.
	JPEGQuality  int    `yaml:"jpeg_quality"`  // The JPEG quality for crops [1, 100].
}

// DefaultConfig returns a configuration with default values.
func DefaultConfig() *Config {
	return &Config{
		CropEncoding: "jpg",
		JPEGQuality:  90,
	}
}

// LoadConfig reads the YAML configuration file at path. Values that are missing from the file keep
// their defaults.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config := DefaultConfig()
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config file %q: %w", path, err)
	}

	return config, nil
}

// Validate checks the configuration for settings that cannot be used together.
func (c *Config) Validate() error {
	if c.Input == "" || c.Output == "" {
		return fmt.Errorf("the input and output formats are required")
	}
	if (c.Width == nil) != (c.Height == nil) {
		return fmt.Errorf("the image width and height must be given together")
	}
	if c.CropsOut != "" && c.Image == "" {
		return fmt.Errorf("cropping requires an image")
	}
	if c.Records != "" && c.Records == c.RecordsOut {
		return fmt.Errorf("the input and output paths cannot be identical")
	}
	return nil
}

// imageSize returns the image size from the width and height, or from the image header. It returns
// nil if neither is configured.
func (c *Config) imageSize() (*bboxconv.Vec2, error) {
	if c.Width != nil && c.Height != nil {
		return &bboxconv.Vec2{X: float32(*c.Width), Y: float32(*c.Height)}, nil
	}
	if c.Image != "" {
		size, err := bboxconv.ImageSizeFromFile(c.Image)
		if err != nil {
			return nil, err
		}
		return &size, nil
	}
	return nil, nil
}

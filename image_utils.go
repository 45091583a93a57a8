package bboxconv

import (
	"errors"
	"fmt"
	"image"
	_ "image/gif"  // Register the GIF decoder.
	_ "image/jpeg" // Register the JPEG decoder.
	_ "image/png"  // Register the PNG decoder.
	"os"
	"path/filepath"
	"strings"

	"github.com/chai2010/webp"
	"github.com/disintegration/imaging"
	_ "golang.org/x/image/bmp"  // Register the BMP decoder.
	_ "golang.org/x/image/tiff" // Register the TIFF decoder.
)

// ErrUnsupportedEncoding is returned for unknown image output encodings.
var ErrUnsupportedEncoding = errors.New("unsupported image encoding")

// ImageSizeFromFile reads the width and height of the image at path. Only the image header is
// decoded.
func ImageSizeFromFile(path string) (Vec2, error) {
	config, _, err := decodeImageConfig(path)
	if err != nil {
		return Vec2{}, fmt.Errorf("failed to decode the image metadata of %q: %v", path, err)
	}
	return Vec2{float32(config.Width), float32(config.Height)}, nil
}

// decodeImageConfig opens the file at path and returns the results of image.DecodeConfig.
func decodeImageConfig(path string) (config image.Config, format string, err error) {
	file, err := os.Open(path)
	if err != nil {
		return image.Config{}, "", err
	}
	defer file.Close()

	return image.DecodeConfig(file)
}

// LoadImage reads and decodes the image at path.
func LoadImage(path string) (image.Image, error) {
	img, err := imaging.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load image %q: %v", path, err)
	}
	return img, nil
}

// imageFileExt returns the file extension (with the dot) for the given encoding.
func imageFileExt(encoding string) (string, error) {
	switch strings.ToLower(encoding) {
	case "jpg", "jpeg":
		return ".jpg", nil
	case "png":
		return ".png", nil
	case "webp":
		return ".webp", nil
	}
	return "", fmt.Errorf("%w %q", ErrUnsupportedEncoding, encoding)
}

// saveImage saves the image to path, encoding it as PNG, WebP or JPG, depending on the file
// extension of path.
func saveImage(path string, img image.Image, jpegQuality int) (err error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".png":
		return imaging.Save(img, path)
	case ".webp":
		var f *os.File
		if f, err = os.Create(path); err != nil {
			return err
		}
		defer CloseWithErrCheck(f, &err)
		return webp.Encode(f, img, &webp.Options{Quality: float32(jpegQuality)})
	default:
		return imaging.Save(img, path, imaging.JPEGQuality(jpegQuality))
	}
}

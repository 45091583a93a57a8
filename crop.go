package bboxconv

// Cropping of bounding boxes from the source image.

import (
	"fmt"
	"image"
	"log"
	"os"
	"path/filepath"

	"github.com/disintegration/imaging"
)

// CropWriter is a BoxWriter that crops each box from a source image and saves the crop to a
// directory.
type CropWriter struct {
	img         image.Image
	imageSize   Vec2 // Used to convert normalised boxes.
	outDir      string
	baseName    string
	fileExt     string
	jpegQuality int

	skipped int
}

// NewCropWriter returns a CropWriter that saves crops of img to outDir.
//
// The crop file names are derived from baseName, with a "_xxxx" suffix, where xxxx is the record
// index, and the file extension for the encoding {jpg, png, webp}.
func NewCropWriter(img image.Image, imageSize Vec2, outDir, baseName, encoding string,
		jpegQuality int) (*CropWriter, error) {

	ext, err := imageFileExt(encoding)
	if err != nil {
		return nil, err
	}

	dirInfo, err := os.Stat(outDir)
	if err != nil || !dirInfo.IsDir() {
		return nil, fmt.Errorf("cannot access directory %q: %v", outDir, err)
	}

	return &CropWriter{
		img:         img,
		imageSize:   imageSize,
		outDir:      outDir,
		baseName:    baseName,
		fileExt:     ext,
		jpegQuality: jpegQuality,
	}, nil
}

// WriteBox crops b from the image. Boxes that do not overlap the image are skipped.
func (w *CropWriter) WriteBox(index int, b Box) error {
	bb := ToBoundingBox(b, w.imageSize)

	// Clip the bounding box to the image bounds.
	r := image.Rect(int(bb.Min.X), int(bb.Min.Y), int(bb.Max.X), int(bb.Max.Y))
	r = r.Intersect(w.img.Bounds())
	if r.Empty() {
		log.Printf("Record %d is outside of the image, skipping the crop", index+1)
		w.skipped++
		return nil
	}

	path := filepath.Join(w.outDir, fmt.Sprintf("%s_%04d%s", w.baseName, index, w.fileExt))
	if err := saveImage(path, imaging.Crop(w.img, r), w.jpegQuality); err != nil {
		return fmt.Errorf("failed to save the crop %q: %v", path, err)
	}

	return nil
}

// Skipped returns the number of boxes for which no crop was written.
func (w *CropWriter) Skipped() int {
	return w.skipped
}

package bboxconv

import (
	"errors"
	"fmt"
)

var (
	// ErrUnknownFormat is returned for format names that are not in the alias table.
	ErrUnknownFormat = errors.New("unknown bounding box format")

	// ErrMissingImageSize is returned when a conversion involves the normalised format but no
	// image size was given.
	ErrMissingImageSize = errors.New("the normalized center bounding box format requires the" +
			" image width and height")
)

// Format identifies a bounding box representation.
type Format int

// The known bounding box formats.
const (
	Unknown          Format = iota // If an unknown format is specified.
	Corner                         // BoundingBox
	TopLeft                        // TopLeftBoundingBox
	Center                         // CenterBoundingBox
	NormalizedCenter               // NormalizedCenterBoundingBox
)

// Formats lists the known formats in alias table order.
var Formats = []Format{Corner, TopLeft, Center, NormalizedCenter}

var formatAliases = map[Format][]string{
	Corner:           {"bb", "bbox", "xyxy"},
	TopLeft:          {"tlbb", "tlbbox", "top-left-bounding-box"},
	Center:           {"cbb", "cbbox", "center-bounding-box"},
	NormalizedCenter: {"ncbb", "ncbbox", "normalized-center-bounding-box", "yolo"},
}

// ParseFormat resolves a format alias. Aliases are matched exactly, including case.
func ParseFormat(s string) (Format, error) {
	for _, f := range Formats {
		for _, a := range formatAliases[f] {
			if a == s {
				return f, nil
			}
		}
	}
	return Unknown, fmt.Errorf("%w: %q", ErrUnknownFormat, s)
}

// Aliases returns all names that ParseFormat accepts for f.
func (f Format) Aliases() []string {
	return formatAliases[f]
}

// String returns the short alias of f.
func (f Format) String() string {
	if a := formatAliases[f]; len(a) > 0 {
		return a[0]
	}
	return "unknown"
}

// Normalized reports whether boxes of format f are relative to the image size.
func (f Format) Normalized() bool {
	return f == NormalizedCenter
}

func (f Format) valid() bool {
	return f >= Corner && f <= NormalizedCenter
}

// box interprets values as the fields of a box of format f. The pixel formats truncate the values
// toward zero.
func (f Format) box(v [4]float32) Box {
	first := IVec2{int32(v[0]), int32(v[1])}
	second := IVec2{int32(v[2]), int32(v[3])}
	switch f {
	case Corner:
		return BoundingBox{Min: first, Max: second}
	case TopLeft:
		return TopLeftBoundingBox{TopLeft: first, Size: second}
	case Center:
		return CenterBoundingBox{Center: first, Size: second}
	case NormalizedCenter:
		return NormalizedCenterBoundingBox{Center: Vec2{v[0], v[1]}, Size: Vec2{v[2], v[3]}}
	}
	panic(fmt.Sprintf("unsupported format %v", f))
}

// Converter converts boxes from one format to another. It holds no state besides its
// configuration and is safe to reuse for any number of records.
type Converter struct {
	from, to  Format
	imageSize Vec2
	haveSize  bool
}

// NewConverter returns a Converter from format from to format to.
//
// imageSize is the image width and height in pixels. It may be nil unless one of the formats is
// NormalizedCenter, in which case ErrMissingImageSize is returned.
func NewConverter(from, to Format, imageSize *Vec2) (*Converter, error) {
	if !from.valid() {
		return nil, fmt.Errorf("input format: %w", ErrUnknownFormat)
	}
	if !to.valid() {
		return nil, fmt.Errorf("output format: %w", ErrUnknownFormat)
	}

	c := &Converter{from: from, to: to}
	if imageSize != nil {
		c.imageSize = *imageSize
		c.haveSize = true
	} else if from.Normalized() || to.Normalized() {
		return nil, ErrMissingImageSize
	}

	return c, nil
}

// From returns the input format.
func (c *Converter) From() Format { return c.from }

// To returns the output format.
func (c *Converter) To() Format { return c.to }

// ImageSize returns the image size and whether one was configured.
func (c *Converter) ImageSize() (Vec2, bool) {
	return c.imageSize, c.haveSize
}

// Convert interprets values as a box in the input format and converts it to the output format.
//
// Boxes are returned unchanged if both formats are the same. Otherwise they are converted via the
// canonical BoundingBox.
func (c *Converter) Convert(values [4]float32) Box {
	in := c.from.box(values)
	if c.from == c.to {
		return in
	}

	return FromBoundingBox(ToBoundingBox(in, c.imageSize), c.to, c.imageSize)
}

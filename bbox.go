package bboxconv

// The bounding box representations.
//
// BoundingBox is the canonical representation: every other representation converts to and from
// it. Only the normalised representation needs the image size to do so.

import (
	"fmt"
)

// Box is implemented by the four bounding box representations.
type Box interface {
	fmt.Stringer

	// Format returns the representation of the box.
	Format() Format

	// Values returns the two vector fields as first.x, first.y, second.x, second.y.
	Values() [4]float32
}

// BoundingBox is a bounding box with the min and max pixel defining the top-left and bottom-right
// coordinate respectively.
type BoundingBox struct {
	Min IVec2
	Max IVec2
}

func (b BoundingBox) Format() Format     { return Corner }
func (b BoundingBox) Values() [4]float32 { return intValues(b.Min, b.Max) }
func (b BoundingBox) String() string     { return formatInts(b.Min, b.Max) }

// TopLeft converts b to a TopLeftBoundingBox.
func (b BoundingBox) TopLeft() TopLeftBoundingBox {
	return TopLeftBoundingBox{
		TopLeft: b.Min,
		Size:    b.Max.Sub(b.Min),
	}
}

// Center converts b to a CenterBoundingBox. The half size is truncated toward zero, so for odd
// sizes the center is not exact.
func (b BoundingBox) Center() CenterBoundingBox {
	size := b.Max.Sub(b.Min)
	return CenterBoundingBox{
		Center: size.DivScalar(2).Add(b.Min),
		Size:   size,
	}
}

// TopLeftBoundingBox is a bounding box defined by its top-left coordinate and its size (width,
// height). The origin (0,0) is the top-left of the image.
//
// The bounding box in the COCO annotations json format is a top-left bounding box.
type TopLeftBoundingBox struct {
	TopLeft IVec2
	Size    IVec2
}

func (b TopLeftBoundingBox) Format() Format     { return TopLeft }
func (b TopLeftBoundingBox) Values() [4]float32 { return intValues(b.TopLeft, b.Size) }
func (b TopLeftBoundingBox) String() string     { return formatInts(b.TopLeft, b.Size) }

// BoundingBox converts b to the canonical representation.
func (b TopLeftBoundingBox) BoundingBox() BoundingBox {
	return BoundingBox{
		Min: b.TopLeft,
		Max: b.TopLeft.Add(b.Size),
	}
}

// CenterBoundingBox is a bounding box defined by its center pixel and its size (width, height).
type CenterBoundingBox struct {
	Center IVec2
	Size   IVec2
}

func (b CenterBoundingBox) Format() Format     { return Center }
func (b CenterBoundingBox) Values() [4]float32 { return intValues(b.Center, b.Size) }
func (b CenterBoundingBox) String() string     { return formatInts(b.Center, b.Size) }

// BoundingBox converts b to the canonical representation.
func (b CenterBoundingBox) BoundingBox() BoundingBox {
	topLeft := b.Center.Sub(b.Size.DivScalar(2))
	return BoundingBox{
		Min: topLeft,
		Max: topLeft.Add(b.Size),
	}
}

// Normalize divides the center and size by imageSize. Zero image dimensions yield Inf or NaN.
func (b CenterBoundingBox) Normalize(imageSize Vec2) NormalizedCenterBoundingBox {
	return NormalizedCenterBoundingBox{
		Center: b.Center.Float().Div(imageSize),
		Size:   b.Size.Float().Div(imageSize),
	}
}

// NormalizedCenterBoundingBox is a center bounding box relative to the image size. Values are
// normally in [0, 1], as fractions of the image width and height.
//
// The bounding box of YOLO labels is a normalised center bounding box with the origin at the top
// left.
type NormalizedCenterBoundingBox struct {
	Center Vec2
	Size   Vec2
}

func (b NormalizedCenterBoundingBox) Format() Format { return NormalizedCenter }

func (b NormalizedCenterBoundingBox) Values() [4]float32 {
	return [4]float32{b.Center.X, b.Center.Y, b.Size.X, b.Size.Y}
}

func (b NormalizedCenterBoundingBox) String() string {
	return formatFloat(b.Center.X) + "," + formatFloat(b.Center.Y) + "," +
			formatFloat(b.Size.X) + "," + formatFloat(b.Size.Y)
}

// Denormalize scales the center and size by imageSize and truncates them to pixels.
func (b NormalizedCenterBoundingBox) Denormalize(imageSize Vec2) CenterBoundingBox {
	return CenterBoundingBox{
		Center: b.Center.Mul(imageSize).Int(),
		Size:   b.Size.Mul(imageSize).Int(),
	}
}

// BoundingBox converts b to the canonical representation via the pixel space center box.
func (b NormalizedCenterBoundingBox) BoundingBox(imageSize Vec2) BoundingBox {
	return b.Denormalize(imageSize).BoundingBox()
}

// ToBoundingBox converts any box to the canonical representation. imageSize is only used for
// normalised boxes.
func ToBoundingBox(b Box, imageSize Vec2) BoundingBox {
	switch b := b.(type) {
	case BoundingBox:
		return b
	case TopLeftBoundingBox:
		return b.BoundingBox()
	case CenterBoundingBox:
		return b.BoundingBox()
	case NormalizedCenterBoundingBox:
		return b.BoundingBox(imageSize)
	}
	panic(fmt.Sprintf("unsupported box type %T", b))
}

// FromBoundingBox converts the canonical box bb to format f. imageSize is only used for the
// normalised format. It panics for Unknown.
func FromBoundingBox(bb BoundingBox, f Format, imageSize Vec2) Box {
	switch f {
	case Corner:
		return bb
	case TopLeft:
		return bb.TopLeft()
	case Center:
		return bb.Center()
	case NormalizedCenter:
		return bb.Center().Normalize(imageSize)
	}
	panic(fmt.Sprintf("unsupported format %v", f))
}

func intValues(a, b IVec2) [4]float32 {
	return [4]float32{float32(a.X), float32(a.Y), float32(b.X), float32(b.Y)}
}

func formatInts(a, b IVec2) string {
	return fmt.Sprintf("%d,%d,%d,%d", a.X, a.Y, b.X, b.Y)
}

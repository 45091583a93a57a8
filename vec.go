package bboxconv

// IVec2 is a 2D vector with integer components. It is used for pixel positions and sizes.
type IVec2 struct {
	X, Y int32
}

// Add returns v+w.
func (v IVec2) Add(w IVec2) IVec2 {
	return IVec2{v.X + w.X, v.Y + w.Y}
}

// Sub returns v-w.
func (v IVec2) Sub(w IVec2) IVec2 {
	return IVec2{v.X - w.X, v.Y - w.Y}
}

// Mul returns the component-wise product of v and w.
func (v IVec2) Mul(w IVec2) IVec2 {
	return IVec2{v.X * w.X, v.Y * w.Y}
}

// Div returns the component-wise quotient of v and w, truncated toward zero. It panics if a
// component of w is zero.
func (v IVec2) Div(w IVec2) IVec2 {
	return IVec2{v.X / w.X, v.Y / w.Y}
}

// DivScalar divides both components by n, truncating toward zero.
func (v IVec2) DivScalar(n int32) IVec2 {
	return IVec2{v.X / n, v.Y / n}
}

// Float converts v to a Vec2.
func (v IVec2) Float() Vec2 {
	return Vec2{float32(v.X), float32(v.Y)}
}

// Vec2 is a 2D vector with float32 components. It is only used for normalised quantities.
type Vec2 struct {
	X, Y float32
}

func (v Vec2) Add(w Vec2) Vec2 { return Vec2{v.X + w.X, v.Y + w.Y} }
func (v Vec2) Sub(w Vec2) Vec2 { return Vec2{v.X - w.X, v.Y - w.Y} }
func (v Vec2) Mul(w Vec2) Vec2 { return Vec2{v.X * w.X, v.Y * w.Y} }
func (v Vec2) Div(w Vec2) Vec2 { return Vec2{v.X / w.X, v.Y / w.Y} }

// Int converts v to an IVec2. Each component is truncated toward zero.
func (v Vec2) Int() IVec2 {
	return IVec2{int32(v.X), int32(v.Y)}
}

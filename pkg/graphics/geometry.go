package graphics

import "math"

// epsilon is the tolerance for floating-point comparisons.
const epsilon = 0.0001

// Aspect ratio presets, expressed as height over width.
const (
	// LandscapeRatio is the 16:9 landscape height/width ratio.
	LandscapeRatio = 9.0 / 16.0
	// PortraitRatio is the 9:16 portrait height/width ratio.
	PortraitRatio = 16.0 / 9.0
)

// Offset represents a 2D point or vector in points.
type Offset struct {
	X float64
	Y float64
}

// Add returns o translated by other.
func (o Offset) Add(other Offset) Offset {
	return Offset{X: o.X + other.X, Y: o.Y + other.Y}
}

// Sub returns the vector from other to o.
func (o Offset) Sub(other Offset) Offset {
	return Offset{X: o.X - other.X, Y: o.Y - other.Y}
}

// Size represents width and height dimensions.
type Size struct {
	Width  float64
	Height float64
}

// Rect represents a rectangle using left, top, right, bottom coordinates.
type Rect struct {
	Left   float64
	Top    float64
	Right  float64
	Bottom float64
}

// RectFromLTWH constructs a Rect from left, top, width, height values.
func RectFromLTWH(left, top, width, height float64) Rect {
	return Rect{
		Left:   left,
		Top:    top,
		Right:  left + width,
		Bottom: top + height,
	}
}

// Width returns the width of the rectangle.
func (r Rect) Width() float64 {
	return r.Right - r.Left
}

// Height returns the height of the rectangle.
func (r Rect) Height() float64 {
	return r.Bottom - r.Top
}

// Size returns the size of the rectangle.
func (r Rect) Size() Size {
	return Size{Width: r.Width(), Height: r.Height()}
}

// Origin returns the top-left corner.
func (r Rect) Origin() Offset {
	return Offset{X: r.Left, Y: r.Top}
}

// IsEmpty reports whether the rectangle has no area.
func (r Rect) IsEmpty() bool {
	return r.Width() <= 0 || r.Height() <= 0
}

// Translate returns the rectangle moved by dx, dy.
func (r Rect) Translate(dx, dy float64) Rect {
	return Rect{
		Left:   r.Left + dx,
		Top:    r.Top + dy,
		Right:  r.Right + dx,
		Bottom: r.Bottom + dy,
	}
}

// WithOrigin returns a rectangle of the same size whose top-left corner is at (x, y).
func (r Rect) WithOrigin(x, y float64) Rect {
	return RectFromLTWH(x, y, r.Width(), r.Height())
}

// ApproxEqual reports whether two rectangles match within a small tolerance.
func (r Rect) ApproxEqual(other Rect) bool {
	return FloatEqual(r.Left, other.Left) &&
		FloatEqual(r.Top, other.Top) &&
		FloatEqual(r.Right, other.Right) &&
		FloatEqual(r.Bottom, other.Bottom)
}

// LerpRect interpolates each edge of a toward b by t.
func LerpRect(a, b Rect, t float64) Rect {
	return Rect{
		Left:   Lerp(a.Left, b.Left, t),
		Top:    Lerp(a.Top, b.Top, t),
		Right:  Lerp(a.Right, b.Right, t),
		Bottom: Lerp(a.Bottom, b.Bottom, t),
	}
}

// Lerp linearly interpolates between a and b.
func Lerp(a, b, t float64) float64 {
	return a + (b-a)*t
}

// FloatEqual compares two floats within epsilon.
func FloatEqual(a, b float64) bool {
	return math.Abs(a-b) < epsilon
}

// Clamp restricts v to [lo, hi].
func Clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// Clamp01 restricts v to [0, 1].
func Clamp01(v float64) float64 {
	return Clamp(v, 0, 1)
}

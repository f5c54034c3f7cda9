package stroke

import (
	"math"

	"github.com/gogpu/spans/path"
)

// Vec2 is a 2D displacement.
type Vec2 struct {
	X, Y float64
}

func sub(p, q path.Point) Vec2 {
	return Vec2{X: p.X - q.X, Y: p.Y - q.Y}
}

func offset(p path.Point, v Vec2) path.Point {
	return path.Point{X: p.X + v.X, Y: p.Y + v.Y}
}

// Scale returns v scaled by s.
func (v Vec2) Scale(s float64) Vec2 {
	return Vec2{X: v.X * s, Y: v.Y * s}
}

// Neg returns -v.
func (v Vec2) Neg() Vec2 {
	return Vec2{X: -v.X, Y: -v.Y}
}

// Dot returns the dot product.
func (v Vec2) Dot(w Vec2) float64 {
	return v.X*w.X + v.Y*w.Y
}

// Cross returns the z component of the cross product.
func (v Vec2) Cross(w Vec2) float64 {
	return v.X*w.Y - v.Y*w.X
}

// Length returns the length of v.
func (v Vec2) Length() float64 {
	return math.Hypot(v.X, v.Y)
}

// Perp returns v rotated by 90 degrees.
func (v Vec2) Perp() Vec2 {
	return Vec2{X: -v.Y, Y: v.X}
}

// Angle returns the angle of v in radians.
func (v Vec2) Angle() float64 {
	return math.Atan2(v.Y, v.X)
}

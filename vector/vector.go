package vector

import "math"

// Vector2d is a point or direction on the osu! playfield.
type Vector2d struct {
	X, Y float64
}

func NewVec2d(x, y float64) Vector2d {
	return Vector2d{X: x, Y: y}
}

func (v Vector2d) Add(v1 Vector2d) Vector2d {
	return Vector2d{v.X + v1.X, v.Y + v1.Y}
}

func (v Vector2d) Sub(v1 Vector2d) Vector2d {
	return Vector2d{v.X - v1.X, v.Y - v1.Y}
}

func (v Vector2d) Scl(mag float64) Vector2d {
	return Vector2d{v.X * mag, v.Y * mag}
}

func (v Vector2d) Dot(v1 Vector2d) float64 {
	return v.X*v1.X + v.Y*v1.Y
}

func (v Vector2d) Len() float64 {
	return math.Sqrt(v.X*v.X + v.Y*v.Y)
}

func (v Vector2d) LenSq() float64 {
	return v.X*v.X + v.Y*v.Y
}

func (v Vector2d) Dst(v1 Vector2d) float64 {
	return v.Sub(v1).Len()
}

// Nor returns the unit vector, or the zero vector when v has no length.
func (v Vector2d) Nor() Vector2d {
	l := v.Len()
	if l == 0 {
		return Vector2d{}
	}
	return Vector2d{v.X / l, v.Y / l}
}

func (v Vector2d) AngleR() float64 {
	return math.Atan2(v.Y, v.X)
}

func (v Vector2d) Equal(v1 Vector2d) bool {
	return v.X == v1.X && v.Y == v1.Y
}

// Package game implements the authoritative world simulation: snakes,
// food, collision and scoring on a square toroidal arena. It contains no
// networking; the server drives it through a single goroutine and ships
// snapshots out through the protocol view types.
package game

import "math"

// Vec is a 2D world coordinate or direction vector.
type Vec struct {
	X, Y float64
}

// Add returns v + o.
func (v Vec) Add(o Vec) Vec {
	return Vec{X: v.X + o.X, Y: v.Y + o.Y}
}

// Scale returns v scaled by s.
func (v Vec) Scale(s float64) Vec {
	return Vec{X: v.X * s, Y: v.Y * s}
}

// Len returns the magnitude of v.
func (v Vec) Len() float64 {
	return math.Hypot(v.X, v.Y)
}

// Dot returns the dot product of v and o.
func (v Vec) Dot(o Vec) float64 {
	return v.X*o.X + v.Y*o.Y
}

// Normalize returns v scaled to unit length. The zero vector is returned
// unchanged.
func (v Vec) Normalize() Vec {
	l := v.Len()
	if l == 0 {
		return v
	}
	return Vec{X: v.X / l, Y: v.Y / l}
}

// Wrap maps both axes into [0, size), including negative inputs.
func (v Vec) Wrap(size float64) Vec {
	return Vec{X: wrap(v.X, size), Y: wrap(v.Y, size)}
}

func wrap(x, size float64) float64 {
	x = math.Mod(x, size)
	if x < 0 {
		x += size
	}
	return x
}

// Dist returns the straight-line distance between a and b.
func Dist(a, b Vec) float64 {
	return math.Hypot(a.X-b.X, a.Y-b.Y)
}

// ManhattanDist returns |ax-bx| + |ay-by|, the cheap pre-check used
// before full collision scans.
func ManhattanDist(a, b Vec) float64 {
	return math.Abs(a.X-b.X) + math.Abs(a.Y-b.Y)
}

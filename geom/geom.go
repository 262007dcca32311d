// Package geom provides the planar geometry primitives used by the map
// server and its spatial index: points and axis-aligned bounding boxes.
//
// Coordinates are projected meters, not lat/lon; the loader converts
// geographic coordinates before anything reaches this package.
package geom

import "math"

// Point is a planar point in meters. It is a value type with no identity.
type Point struct {
	X float64
	Y float64
}

// DistanceTo returns the Euclidean distance to other.
func (p Point) DistanceTo(other Point) float64 {
	dx := p.X - other.X
	dy := p.Y - other.Y
	return math.Sqrt(dx*dx + dy*dy)
}

// BoundingBox is an axis-aligned rectangle. The zero value is the empty box,
// a valid transient state before the first point is added. For any non-empty
// box Min.X <= Max.X and Min.Y <= Max.Y; degenerate (zero-area) boxes such as
// a box built from a single point are valid everywhere.
type BoundingBox struct {
	Min Point
	Max Point
}

// NewBoundingBox returns the box spanning min and max.
func NewBoundingBox(min, max Point) BoundingBox {
	return BoundingBox{Min: min, Max: max}
}

// PointBox returns the degenerate box containing only p.
func PointBox(p Point) BoundingBox {
	return BoundingBox{Min: p, Max: p}
}

// Contains reports whether p lies inside the box, borders included.
func (b BoundingBox) Contains(p Point) bool {
	return p.X >= b.Min.X && p.X <= b.Max.X && p.Y >= b.Min.Y && p.Y <= b.Max.Y
}

// Intersects reports whether the two boxes overlap, borders included.
func (b BoundingBox) Intersects(other BoundingBox) bool {
	return !(b.Max.X < other.Min.X || b.Min.X > other.Max.X ||
		b.Max.Y < other.Min.Y || b.Min.Y > other.Max.Y)
}

// Area returns the area of the box. Degenerate boxes have zero area.
func (b BoundingBox) Area() float64 {
	return (b.Max.X - b.Min.X) * (b.Max.Y - b.Min.Y)
}

// Center returns the center point of the box.
func (b BoundingBox) Center() Point {
	return Point{X: (b.Min.X + b.Max.X) / 2, Y: (b.Min.Y + b.Max.Y) / 2}
}

// Extend returns the smallest box covering both b and other.
func (b BoundingBox) Extend(other BoundingBox) BoundingBox {
	return BoundingBox{
		Min: Point{X: math.Min(b.Min.X, other.Min.X), Y: math.Min(b.Min.Y, other.Min.Y)},
		Max: Point{X: math.Max(b.Max.X, other.Max.X), Y: math.Max(b.Max.Y, other.Max.Y)},
	}
}

// ExtendPoint returns the smallest box covering both b and p.
func (b BoundingBox) ExtendPoint(p Point) BoundingBox {
	return b.Extend(PointBox(p))
}

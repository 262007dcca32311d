package geom

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPointDistanceTo(t *testing.T) {
	t.Run("Axis", func(t *testing.T) {
		assert.Equal(t, 5.0, Point{0, 0}.DistanceTo(Point{5, 0}))
		assert.Equal(t, 5.0, Point{0, 0}.DistanceTo(Point{0, 5}))
	})

	t.Run("Diagonal", func(t *testing.T) {
		assert.InDelta(t, math.Sqrt2, Point{0, 0}.DistanceTo(Point{1, 1}), 1e-12)
	})

	t.Run("Self", func(t *testing.T) {
		p := Point{3.5, -2.25}
		assert.Equal(t, 0.0, p.DistanceTo(p))
	})
}

func TestBoundingBoxContains(t *testing.T) {
	b := NewBoundingBox(Point{0, 0}, Point{10, 10})

	assert.True(t, b.Contains(Point{5, 5}))
	assert.True(t, b.Contains(Point{0, 0}), "border is inside")
	assert.True(t, b.Contains(Point{10, 10}), "border is inside")
	assert.False(t, b.Contains(Point{10.001, 5}))
	assert.False(t, b.Contains(Point{5, -0.001}))
}

func TestBoundingBoxIntersects(t *testing.T) {
	b := NewBoundingBox(Point{0, 0}, Point{10, 10})

	t.Run("Overlapping", func(t *testing.T) {
		assert.True(t, b.Intersects(NewBoundingBox(Point{5, 5}, Point{15, 15})))
	})

	t.Run("Touching", func(t *testing.T) {
		assert.True(t, b.Intersects(NewBoundingBox(Point{10, 10}, Point{20, 20})))
	})

	t.Run("Disjoint", func(t *testing.T) {
		assert.False(t, b.Intersects(NewBoundingBox(Point{11, 11}, Point{20, 20})))
		assert.False(t, b.Intersects(NewBoundingBox(Point{-5, 0}, Point{-1, 10})))
	})

	t.Run("Contained", func(t *testing.T) {
		assert.True(t, b.Intersects(NewBoundingBox(Point{2, 2}, Point{3, 3})))
	})
}

func TestBoundingBoxAreaAndCenter(t *testing.T) {
	b := NewBoundingBox(Point{0, 0}, Point{4, 2})
	assert.Equal(t, 8.0, b.Area())
	assert.Equal(t, Point{2, 1}, b.Center())
}

func TestDegenerateBox(t *testing.T) {
	p := Point{7, -3}
	b := PointBox(p)

	assert.Equal(t, 0.0, b.Area())
	assert.Equal(t, p, b.Center())
	assert.True(t, b.Contains(p))
	assert.True(t, b.Intersects(NewBoundingBox(Point{0, -10}, Point{10, 0})))
	assert.False(t, b.Contains(Point{7, -2.999}))
}

func TestBoundingBoxExtend(t *testing.T) {
	a := NewBoundingBox(Point{0, 0}, Point{5, 5})
	b := NewBoundingBox(Point{3, -2}, Point{8, 4})

	u := a.Extend(b)
	assert.Equal(t, NewBoundingBox(Point{0, -2}, Point{8, 5}), u)

	// Extend is symmetric.
	assert.Equal(t, u, b.Extend(a))

	p := a.ExtendPoint(Point{-1, 6})
	assert.Equal(t, NewBoundingBox(Point{-1, 0}, Point{5, 6}), p)
}

// Package geom provides the small set of 2D types shared by the layout,
// drawing and serialization stages. Coordinates are pixels with y growing
// downward.
package geom

import "math"

// Point is a position in pixels.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Add returns p translated by (dx, dy).
func (p Point) Add(dx, dy float64) Point { return Point{X: p.X + dx, Y: p.Y + dy} }

// Box is an axis-aligned rectangle given by its top-left corner and size.
type Box struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	W float64 `json:"width"`
	H float64 `json:"height"`
}

// X2 returns the right edge.
func (b Box) X2() float64 { return b.X + b.W }

// Y2 returns the bottom edge.
func (b Box) Y2() float64 { return b.Y + b.H }

// Center returns the midpoint.
func (b Box) Center() Point { return Point{X: b.X + b.W/2, Y: b.Y + b.H/2} }

// IsZero reports whether b has no area.
func (b Box) IsZero() bool { return b.W == 0 || b.H == 0 }

// Contains reports whether o lies inside b, edges included.
func (b Box) Contains(o Box) bool {
	return o.X >= b.X && o.Y >= b.Y && o.X2() <= b.X2() && o.Y2() <= b.Y2()
}

// ContainsStrict reports whether o lies inside b without touching its edges.
func (b Box) ContainsStrict(o Box) bool {
	return o.X > b.X && o.Y > b.Y && o.X2() < b.X2() && o.Y2() < b.Y2()
}

// Union returns the smallest box containing b and o.
func (b Box) Union(o Box) Box {
	x1, y1 := math.Min(b.X, o.X), math.Min(b.Y, o.Y)
	x2, y2 := math.Max(b.X2(), o.X2()), math.Max(b.Y2(), o.Y2())
	return Box{X: x1, Y: y1, W: x2 - x1, H: y2 - y1}
}

// Outset grows b by d on every side. A negative d shrinks it.
func (b Box) Outset(d float64) Box {
	return Box{X: b.X - d, Y: b.Y - d, W: b.W + 2*d, H: b.H + 2*d}
}

// Distance returns how far p lies from b; zero when p is inside or on it.
func (b Box) Distance(p Point) float64 {
	dx := math.Max(math.Max(b.X-p.X, 0), p.X-b.X2())
	dy := math.Max(math.Max(b.Y-p.Y, 0), p.Y-b.Y2())
	return math.Hypot(dx, dy)
}

// Translate moves b by (dx, dy).
func (b Box) Translate(dx, dy float64) Box {
	return Box{X: b.X + dx, Y: b.Y + dy, W: b.W, H: b.H}
}

// BoundsOf returns the bounding box of pts. It returns the zero Box for no points.
func BoundsOf(pts ...Point) Box {
	if len(pts) == 0 {
		return Box{}
	}
	x1, y1, x2, y2 := pts[0].X, pts[0].Y, pts[0].X, pts[0].Y
	for _, p := range pts[1:] {
		x1, y1 = math.Min(x1, p.X), math.Min(y1, p.Y)
		x2, y2 = math.Max(x2, p.X), math.Max(y2, p.Y)
	}
	return Box{X: x1, Y: y1, W: x2 - x1, H: y2 - y1}
}

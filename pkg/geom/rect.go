package geom

// Point is a 2D integer coordinate, used for pixel and cell positions.
type Point struct {
	X, Y int
}

// Add returns p + other.
func (p Point) Add(other Point) Point {
	return Point{p.X + other.X, p.Y + other.Y}
}

// Sub returns p - other.
func (p Point) Sub(other Point) Point {
	return Point{p.X - other.X, p.Y - other.Y}
}

// Pt is shorthand for Point{x, y}.
func Pt(x, y int) Point {
	return Point{x, y}
}

// Rect is an integer rectangle with inclusive Min and exclusive Max.
type Rect struct {
	Min, Max Point
}

// Rct is shorthand for Rect{Point{x0, y0}, Point{x1, y1}}.
func Rct(x0, y0, x1, y1 int) Rect {
	return Rect{Point{x0, y0}, Point{x1, y1}}
}

// Dx returns the width.
func (r Rect) Dx() int {
	return r.Max.X - r.Min.X
}

// Dy returns the height.
func (r Rect) Dy() int {
	return r.Max.Y - r.Min.Y
}

// Empty reports whether the rectangle has no area.
func (r Rect) Empty() bool {
	return r.Min.X >= r.Max.X || r.Min.Y >= r.Max.Y
}

// Contains reports whether p lies inside r.
func (r Rect) Contains(p Point) bool {
	return p.X >= r.Min.X && p.X < r.Max.X && p.Y >= r.Min.Y && p.Y < r.Max.Y
}

// Overlaps reports whether r and other share any area.
func (r Rect) Overlaps(other Rect) bool {
	return r.Min.X < other.Max.X && other.Min.X < r.Max.X &&
		r.Min.Y < other.Max.Y && other.Min.Y < r.Max.Y
}

// Intersect returns the largest rectangle contained in both r and other.
func (r Rect) Intersect(other Rect) Rect {
	if r.Min.X < other.Min.X {
		r.Min.X = other.Min.X
	}
	if r.Min.Y < other.Min.Y {
		r.Min.Y = other.Min.Y
	}
	if r.Max.X > other.Max.X {
		r.Max.X = other.Max.X
	}
	if r.Max.Y > other.Max.Y {
		r.Max.Y = other.Max.Y
	}
	if r.Empty() {
		return Rect{}
	}
	return r
}

// Rect2 is a float rectangle in world space.
type Rect2 struct {
	Min, Max Vec2
}

// Dx returns the width.
func (r Rect2) Dx() float32 {
	return r.Max.X - r.Min.X
}

// Dy returns the height.
func (r Rect2) Dy() float32 {
	return r.Max.Y - r.Min.Y
}

// Center returns the midpoint.
func (r Rect2) Center() Vec2 {
	return Vec2{(r.Min.X + r.Max.X) * 0.5, (r.Min.Y + r.Max.Y) * 0.5}
}

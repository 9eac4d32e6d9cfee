package runtime

import "fmt"

// Point is an immutable 2D value used for positions, sizes and deltas.
// Ordering is component-wise: p dominates q only when both coordinates
// are greater.
type Point struct {
	X, Y int
}

// Pt is shorthand for Point{X: x, Y: y}.
func Pt(x, y int) Point {
	return Point{X: x, Y: y}
}

// Add returns p + o.
func (p Point) Add(o Point) Point {
	return Point{X: p.X + o.X, Y: p.Y + o.Y}
}

// Sub returns p - o.
func (p Point) Sub(o Point) Point {
	return Point{X: p.X - o.X, Y: p.Y - o.Y}
}

// Dominates reports whether both coordinates of p are strictly greater than o's.
func (p Point) Dominates(o Point) bool {
	return p.X > o.X && p.Y > o.Y
}

// DominatesOrEqual reports whether both coordinates of p are >= o's.
func (p Point) DominatesOrEqual(o Point) bool {
	return p.X >= o.X && p.Y >= o.Y
}

// Eq reports whether p and o are equal.
func (p Point) Eq(o Point) bool {
	return p == o
}

func (p Point) String() string {
	return fmt.Sprintf("Point(%d, %d)", p.X, p.Y)
}

// Rect is a positioned rectangle.
type Rect struct {
	X, Y, Width, Height int
}

// RectAt creates a rect from a position and a size.
func RectAt(pos, size Point) Rect {
	return Rect{X: pos.X, Y: pos.Y, Width: size.X, Height: size.Y}
}

// Contains returns true if the point is inside the rect.
func (r Rect) Contains(p Point) bool {
	return p.X >= r.X && p.X < r.X+r.Width && p.Y >= r.Y && p.Y < r.Y+r.Height
}

// Empty reports whether the rect covers no cells.
func (r Rect) Empty() bool {
	return r.Width <= 0 || r.Height <= 0
}

package render

import "math"

// Rect is a rectangle in view cells; Y counts rows from the top of the document
type Rect struct {
	X, Y, W, H int
}

// Empty reports a zero-area rectangle
func (r Rect) Empty() bool { return r.W <= 0 || r.H <= 0 }

// Union returns the smallest rectangle containing r and o
func (r Rect) Union(o Rect) Rect {
	x0 := min(r.X, o.X)
	y0 := min(r.Y, o.Y)
	x1 := max(r.X+r.W, o.X+o.W)
	y1 := max(r.Y+r.H, o.Y+o.H)
	return Rect{X: x0, Y: y0, W: x1 - x0, H: y1 - y0}
}

// Contains reports whether the cell (x, y) lies inside r
func (r Rect) Contains(x, y int) bool {
	return x >= r.X && x < r.X+r.W && y >= r.Y && y < r.Y+r.H
}

// Distance returns the Euclidean distance from the cell (x, y) to the
// nearest cell of r; 0 when the point is inside
func (r Rect) Distance(x, y int) float64 {
	dx := 0
	switch {
	case x < r.X:
		dx = r.X - x
	case x >= r.X+r.W:
		dx = x - (r.X + r.W - 1)
	}
	dy := 0
	switch {
	case y < r.Y:
		dy = r.Y - y
	case y >= r.Y+r.H:
		dy = y - (r.Y + r.H - 1)
	}
	return math.Hypot(float64(dx), float64(dy))
}

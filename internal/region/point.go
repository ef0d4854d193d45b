package region

import (
	"fmt"
	"image"
)

// Point is an integer pixel coordinate.
type Point struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// Pt is shorthand for Point{X: x, Y: y}.
func Pt(x, y int) Point {
	return Point{X: x, Y: y}
}

// Add returns the vector sum p+q.
func (p Point) Add(q Point) Point {
	return Point{X: p.X + q.X, Y: p.Y + q.Y}
}

// Less reports whether p precedes q in row-major order.
func (p Point) Less(q Point) bool {
	return p.Y < q.Y || (p.Y == q.Y && p.X < q.X)
}

// Image converts p to an image.Point.
func (p Point) Image() image.Point {
	return image.Point{X: p.X, Y: p.Y}
}

func (p Point) String() string {
	return fmt.Sprintf("(%d,%d)", p.X, p.Y)
}

// neighbors4 are the offsets of the four axis-aligned neighbors.
var neighbors4 = [4]Point{{X: -1}, {X: 1}, {Y: -1}, {Y: 1}}

package region

import (
	"fmt"
	"image"
	"math"
	"sort"
)

// span is the half-open range of boundary indices holding one row.
type span struct {
	start, end int
}

// Region is a pixel region encoded by its boundary points.
//
// The zero value is the empty region. A Region is immutable once built, so
// copies of the pointer or the struct may share storage safely; use Clone
// when an independently owned copy is needed.
type Region struct {
	points []Point      // boundary, row-major, no duplicates
	min    Point        // inclusive top-left of the bounding box
	max    Point        // inclusive bottom-right of the bounding box
	rows   map[int]span // y -> range of points on that row
}

// FromMask builds a region from the set (non-zero) pixels of a mask.
//
// The mask's bounds define the scanning window. Because image.Gray keeps its
// parent's coordinates through SubImage, a window cut out of a larger mask
// yields boundary points in the larger mask's coordinate space.
//
// A set pixel is a boundary point when it lies on the window border or when
// any of its four neighbors is unset. Pixels are visited row by row, so the
// resulting boundary is already in row-major order.
//
// A nil or all-zero mask yields the empty region.
func FromMask(m *image.Gray) *Region {
	if m == nil {
		return &Region{}
	}

	b := m.Bounds()
	w, h := b.Dx(), b.Dy()

	// Enough for a rectangle all the way around the window plus some slack
	// for irregular outlines.
	r := &Region{
		points: make([]Point, 0, int(math.Round(float64(w+h)*2.5))),
	}

	set := func(x, y int) bool {
		return m.Pix[m.PixOffset(x, y)] != 0
	}

	for i := 0; i < h; i++ {
		y := b.Min.Y + i
		for j := 0; j < w; j++ {
			x := b.Min.X + j
			if !set(x, y) {
				continue
			}
			if i == 0 || j == 0 || i == h-1 || j == w-1 ||
				!set(x-1, y) || !set(x+1, y) ||
				!set(x, y-1) || !set(x, y+1) {
				r.points = append(r.points, Point{X: x, Y: y})
			}
		}
	}

	r.buildIndex()
	return r
}

// FromRect builds a solid rectangular region with its top-left corner at
// (px, py). Only the perimeter is stored: the top row, then the left and right
// edge of every inner row, then the bottom row.
//
// A non-positive width or height yields the empty region, as does a rectangle
// that does not fit in the int coordinate range with one pixel to spare on
// every side, since its boundary could not be kept in row-major order.
func FromRect(px, py, width, height int) *Region {
	if width <= 0 || height <= 0 || !fits(px, width) || !fits(py, height) {
		return &Region{}
	}

	n := 2 * width
	if height > 2 {
		n += 2 * (height - 2)
	}
	r := &Region{points: make([]Point, 0, n)}

	for i := 0; i < width; i++ {
		r.points = append(r.points, Point{X: px + i, Y: py})
	}
	for i := 1; i < height-1; i++ {
		r.points = append(r.points, Point{X: px, Y: py + i})
		if width > 1 {
			r.points = append(r.points, Point{X: px + width - 1, Y: py + i})
		}
	}
	if height > 1 {
		for i := 0; i < width; i++ {
			r.points = append(r.points, Point{X: px + i, Y: py + height - 1})
		}
	}

	r.buildIndex()
	return r
}

// fits reports whether the span [p-1, p+n] is representable, so that the
// exclusive far edge and every 4-neighbor of the span's pixels exist.
func fits(p, n int) bool {
	return p > math.MinInt && p <= math.MaxInt-n
}

// buildIndex computes the row index and the bounding box from r.points.
func (r *Region) buildIndex() {
	r.rows = make(map[int]span)
	if len(r.points) == 0 {
		r.min, r.max = Point{}, Point{}
		return
	}

	r.min = r.points[0]
	r.max = r.points[len(r.points)-1]

	start := 0
	for i, p := range r.points {
		if p.X < r.min.X {
			r.min.X = p.X
		}
		if p.X > r.max.X {
			r.max.X = p.X
		}
		if p.Y != r.points[start].Y {
			r.rows[r.points[start].Y] = span{start: start, end: i}
			start = i
		}
	}
	r.rows[r.points[start].Y] = span{start: start, end: len(r.points)}
}

// IsEmpty reports whether the region has no boundary points.
func (r *Region) IsEmpty() bool {
	return len(r.points) == 0
}

// Len returns the number of boundary points.
func (r *Region) Len() int {
	return len(r.points)
}

// Min returns the inclusive top-left corner of the bounding box.
// The result is meaningless for an empty region.
func (r *Region) Min() Point {
	return r.min
}

// Max returns the inclusive bottom-right corner of the bounding box.
// The result is meaningless for an empty region.
func (r *Region) Max() Point {
	return r.max
}

// Bounds returns the bounding box as a half-open rectangle, or the zero
// rectangle for an empty region.
func (r *Region) Bounds() image.Rectangle {
	if r.IsEmpty() {
		return image.Rectangle{}
	}
	return image.Rect(r.min.X, r.min.Y, r.max.X+1, r.max.Y+1)
}

// Points returns a copy of the boundary points in row-major order.
func (r *Region) Points() []Point {
	out := make([]Point, len(r.points))
	copy(out, r.points)
	return out
}

// Clone returns a deep copy of r.
func (r *Region) Clone() *Region {
	c := &Region{
		points: r.Points(),
		min:    r.min,
		max:    r.max,
		rows:   make(map[int]span, len(r.rows)),
	}
	for y, s := range r.rows {
		c.rows[y] = s
	}
	return c
}

func (r *Region) String() string {
	if r.IsEmpty() {
		return "Region{empty}"
	}
	return fmt.Sprintf("Region{%d points, %v-%v}", len(r.points), r.min, r.max)
}

// inBox reports whether p lies inside the inclusive bounding box.
func (r *Region) inBox(p Point) bool {
	return p.X >= r.min.X && p.X <= r.max.X && p.Y >= r.min.Y && p.Y <= r.max.Y
}

// InBoundary reports whether p is one of the region's boundary points.
// Only the row holding p.Y is searched.
func (r *Region) InBoundary(p Point) bool {
	s, ok := r.rows[p.Y]
	if !ok {
		return false
	}
	row := r.points[s.start:s.end]
	i := sort.Search(len(row), func(i int) bool { return row[i].X >= p.X })
	return i < len(row) && row[i].X == p.X
}

// Interior reports whether p lies strictly inside the region.
//
// Rays are cast from p along +X, -X, +Y and -Y one pixel at a time. p is
// interior when every ray hits a boundary point before it leaves the bounding
// box. Boundary points themselves are not interior.
func (r *Region) Interior(p Point) bool {
	if r.IsEmpty() || r.InBoundary(p) {
		return false
	}

	var hit [4]bool
	remaining := len(neighbors4)
	for i := 1; remaining > 0; i++ {
		for d, dir := range neighbors4 {
			if hit[d] {
				continue
			}
			q := Point{X: p.X + dir.X*i, Y: p.Y + dir.Y*i}
			if r.InBoundary(q) {
				hit[d] = true
				remaining--
				continue
			}
			// An unresolved ray that has left the box can never hit.
			if !r.inBox(q) {
				return false
			}
		}
	}
	return true
}

// Contains reports whether p is on the boundary or in the interior.
func (r *Region) Contains(p Point) bool {
	if r.IsEmpty() || !r.inBox(p) {
		return false
	}
	return r.InBoundary(p) || r.Interior(p)
}

// AdjacentTo reports whether some boundary point of r has a 4-neighbor on the
// boundary of other. Regions whose bounding boxes are more than one pixel
// apart on either axis are rejected without scanning points.
func (r *Region) AdjacentTo(other *Region) bool {
	if other == nil || r.IsEmpty() || other.IsEmpty() {
		return false
	}
	if other.max.X+1 < r.min.X || r.max.X+1 < other.min.X ||
		other.max.Y+1 < r.min.Y || r.max.Y+1 < other.min.Y {
		return false
	}

	for _, p := range r.points {
		for _, d := range neighbors4 {
			if other.InBoundary(p.Add(d)) {
				return true
			}
		}
	}
	return false
}

// Column states used by ToMask.
const (
	afterBoundary uint8 = 1 << iota // previous cell in this column was boundary
	filled                          // column is inside the region
)

// ToMask reconstructs a dense mask covering the bounding box, with 255 for
// region pixels and 0 elsewhere. The mask is positioned at Bounds, so its
// coordinates match the region's. An empty region yields an empty mask.
//
// Rows are filled top to bottom. Each column remembers whether its previous
// cell was a boundary point and whether it is currently inside the region.
// Containment is only evaluated on the first non-boundary cell after a
// boundary crossing; the result carries down the column until the next
// crossing. That evaluation both sets and clears the inside state, so a
// column that leaves the region through a boundary and continues below it,
// as under the arch of a ∩ shape, is left unfilled there. A fill that only
// ever sets the state would paint those cells, so output differs from such a
// fill for shapes that are concave from below.
func (r *Region) ToMask() *image.Gray {
	if r.IsEmpty() {
		return image.NewGray(image.Rectangle{})
	}

	b := r.Bounds()
	m := image.NewGray(b)

	state := make([]uint8, b.Dx())
	for i := range state {
		state[i] = afterBoundary
	}

	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			col := x - b.Min.X
			p := Point{X: x, Y: y}
			if r.InBoundary(p) {
				state[col] |= afterBoundary
			} else {
				if state[col]&afterBoundary != 0 {
					if r.Contains(p) {
						state[col] |= filled
					} else {
						state[col] &^= filled
					}
				}
				state[col] &^= afterBoundary
			}
			if state[col] != 0 {
				m.Pix[m.PixOffset(x, y)] = 255
			}
		}
	}

	return m
}

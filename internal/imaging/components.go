package imaging

import "image"

// Components splits a binary mask into its 4-connected components.
//
// Each component is returned as its own mask, sized to the component's
// bounding box and positioned in the source mask's coordinate space. Only the
// component's pixels are set within it, so pixels of a neighboring component
// that fall inside the box stay 0.
//
// Components with fewer than minPixels pixels are dropped. Results are ordered
// by the row-major position of each component's first pixel.
func Components(mask *image.Gray, minPixels int) []*image.Gray {
	bounds := mask.Bounds()
	width := bounds.Dx()
	height := bounds.Dy()

	set := func(x, y int) bool {
		return mask.Pix[mask.PixOffset(x+bounds.Min.X, y+bounds.Min.Y)] != 0
	}

	visited := make([]bool, width*height)
	components := make([]*image.Gray, 0)

	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			if visited[y*width+x] || !set(x, y) {
				continue
			}

			pixels := floodFill(set, visited, x, y, width, height)
			if len(pixels) < minPixels {
				continue
			}
			components = append(components, componentMask(pixels, bounds.Min))
		}
	}

	return components
}

// floodFill collects the 4-connected set pixels reachable from (startX, startY),
// in local coordinates. It uses an explicit stack so large components do not
// exhaust the goroutine stack.
func floodFill(set func(x, y int) bool, visited []bool, startX, startY, width, height int) []image.Point {
	pixels := make([]image.Point, 0)
	stack := []image.Point{{X: startX, Y: startY}}

	for len(stack) > 0 {
		p := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if p.X < 0 || p.X >= width || p.Y < 0 || p.Y >= height {
			continue
		}
		if visited[p.Y*width+p.X] || !set(p.X, p.Y) {
			continue
		}

		visited[p.Y*width+p.X] = true
		pixels = append(pixels, p)

		stack = append(stack,
			image.Point{X: p.X - 1, Y: p.Y},
			image.Point{X: p.X + 1, Y: p.Y},
			image.Point{X: p.X, Y: p.Y - 1},
			image.Point{X: p.X, Y: p.Y + 1},
		)
	}

	return pixels
}

// componentMask draws pixels (local coordinates) into a new mask covering
// their bounding box, translated by origin.
func componentMask(pixels []image.Point, origin image.Point) *image.Gray {
	box := image.Rectangle{Min: pixels[0], Max: pixels[0].Add(image.Pt(1, 1))}
	for _, p := range pixels[1:] {
		box = box.Union(image.Rectangle{Min: p, Max: p.Add(image.Pt(1, 1))})
	}

	m := image.NewGray(box.Add(origin))
	for _, p := range pixels {
		q := p.Add(origin)
		m.Pix[m.PixOffset(q.X, q.Y)] = 255
	}
	return m
}

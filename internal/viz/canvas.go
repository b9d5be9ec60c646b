package viz

import (
	"strings"
)

// Braille Patterns: 2x4 dots
// 1 4
// 2 5
// 3 6
// 7 8
//
// Unicode offset 0x2800
var pixelMap = [4][2]int{
	{0x1, 0x8},
	{0x2, 0x10},
	{0x4, 0x20},
	{0x40, 0x80},
}

// Canvas is a grid of braille cells, each holding 2x4 sub-pixels.
type Canvas struct {
	Width, Height int
	Grid          [][]rune
}

func NewCanvas(w, h int) *Canvas {
	c := &Canvas{
		Width:  w,
		Height: h,
		Grid:   make([][]rune, h),
	}
	for i := range c.Grid {
		c.Grid[i] = make([]rune, w)
	}
	c.Clear()
	return c
}

// Set lights the sub-pixel (x, y). The canvas is (Width*2) x (Height*4)
// sub-pixels with y growing downward.
func (c *Canvas) Set(x, y int) {
	if x < 0 || y < 0 {
		return
	}

	col := x / 2
	row := y / 4
	if col >= c.Width || row >= c.Height {
		return
	}

	c.Grid[row][col] |= rune(pixelMap[y%4][x%2])
}

func (c *Canvas) Clear() {
	for i := range c.Grid {
		for j := range c.Grid[i] {
			c.Grid[i][j] = 0x2800
		}
	}
}

// DrawLine draws a line using Bresenham's algorithm
func (c *Canvas) DrawLine(x0, y0, x1, y1 int) {
	dx := absInt(x1 - x0)
	dy := absInt(y1 - y0)
	sx := -1
	if x0 < x1 {
		sx = 1
	}
	sy := -1
	if y0 < y1 {
		sy = 1
	}
	err := dx - dy

	for {
		c.Set(x0, y0)
		if x0 == x1 && y0 == y1 {
			break
		}
		e2 := 2 * err
		if e2 > -dy {
			err -= dy
			x0 += sx
		}
		if e2 < dx {
			err += dx
			y0 += sy
		}
	}
}

// Path scales the points (xs[i], ys[i]) to fill the canvas and joins
// consecutive ones.
func (c *Canvas) Path(xs, ys []float64) {
	xlo, xhi := bounds(xs)
	ylo, yhi := bounds(ys)
	c.PathWithin(xs, ys, xlo, xhi, ylo, yhi)
}

// PathWithin is Path with fixed data bounds. Non-finite points break the
// path; points outside the bounds are clipped.
func (c *Canvas) PathWithin(xs, ys []float64, xlo, xhi, ylo, yhi float64) {
	n := min(len(xs), len(ys))
	w, h := c.Width*2-1, c.Height*4-1

	project := func(v, lo, hi float64, size int) int {
		if hi == lo {
			return size / 2
		}
		return int(float64(size) * (v - lo) / (hi - lo))
	}

	prevOK := false
	var px, py int
	for i := 0; i < n; i++ {
		if !finite(xs[i]) || !finite(ys[i]) {
			prevOK = false
			continue
		}
		x := project(xs[i], xlo, xhi, w)
		y := h - project(ys[i], ylo, yhi, h)
		if prevOK {
			c.DrawLine(px, py, x, y)
		} else {
			c.Set(x, y)
		}
		px, py, prevOK = x, y, true
	}
}

func (c *Canvas) String() string {
	var b strings.Builder
	for _, row := range c.Grid {
		b.WriteString(string(row) + "\n")
	}
	return b.String()
}

func absInt(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

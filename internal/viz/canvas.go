package viz

import (
	"strings"
)

// Braille cells hold 2x4 dots:
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

const blank = 0x2800

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
		for j := range c.Grid[i] {
			c.Grid[i][j] = blank
		}
	}
	return c
}

// Set lights the dot at (x, y) in sub-pixel coordinates.
// The canvas size in sub-pixels is (Width*2) x (Height*4).
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
			c.Grid[i][j] = blank
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

// Viewport maps world coordinates onto the sub-pixel grid of a canvas,
// with y growing upward.
type Viewport struct {
	MinX, MaxX, MinY, MaxY float64
}

func (vp Viewport) Project(c *Canvas, x, y float64) (int, int) {
	w, h := float64(c.Width*2-1), float64(c.Height*4-1)
	px := (x - vp.MinX) / (vp.MaxX - vp.MinX) * w
	py := h - (y-vp.MinY)/(vp.MaxY-vp.MinY)*h
	return int(px + 0.5), int(py + 0.5)
}

// Axes draws the x and y axes where they cross the viewport.
func (c *Canvas) Axes(vp Viewport) {
	if vp.MinX <= 0 && vp.MaxX >= 0 {
		x, bottom := vp.Project(c, 0, vp.MinY)
		_, top := vp.Project(c, 0, vp.MaxY)
		for y := top; y <= bottom; y += 2 {
			c.Set(x, y)
		}
	}
	if vp.MinY <= 0 && vp.MaxY >= 0 {
		left, y := vp.Project(c, vp.MinX, 0)
		right, _ := vp.Project(c, vp.MaxX, 0)
		for x := left; x <= right; x += 2 {
			c.Set(x, y)
		}
	}
}

// Polyline connects consecutive points in world coordinates.
func (c *Canvas) Polyline(vp Viewport, xs, ys []float64) {
	n := min(len(xs), len(ys))
	if n == 0 {
		return
	}
	px, py := vp.Project(c, xs[0], ys[0])
	c.Set(px, py)
	for i := 1; i < n; i++ {
		qx, qy := vp.Project(c, xs[i], ys[i])
		c.DrawLine(px, py, qx, qy)
		px, py = qx, qy
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

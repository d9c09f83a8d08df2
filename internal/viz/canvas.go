package viz

import (
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"
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

// Ink tags a cell with what was drawn into it last.
type Ink uint8

const (
	InkNone Ink = iota
	InkObstacle
	InkBody
	InkSelected
	InkContact
	InkCue
)

type Canvas struct {
	Width, Height int
	Grid          [][]rune
	Ink           [][]Ink

	pen Ink
}

func NewCanvas(w, h int) *Canvas {
	c := &Canvas{
		Width:  w,
		Height: h,
		Grid:   make([][]rune, h),
		Ink:    make([][]Ink, h),
	}
	for i := range c.Grid {
		c.Grid[i] = make([]rune, w)
		c.Ink[i] = make([]Ink, w)
	}
	c.Clear()
	return c
}

// SetPen selects the ink used by subsequent drawing.
func (c *Canvas) SetPen(ink Ink) { c.pen = ink }

// Set lights the sub-pixel (x, y). The canvas is (Width*2) x (Height*4)
// sub-pixels; anything outside is dropped.
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
	c.Ink[row][col] = c.pen
}

// Clear resets the canvas
func (c *Canvas) Clear() {
	for i := range c.Grid {
		for j := range c.Grid[i] {
			c.Grid[i][j] = 0x2800
			c.Ink[i][j] = InkNone
		}
	}
	c.pen = InkNone
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

// DrawCircle outlines a circle with the midpoint algorithm. Radii below
// one sub-pixel collapse to a dot.
func (c *Canvas) DrawCircle(cx, cy int, r float64) {
	ri := int(math.Round(r))
	if ri < 1 {
		c.Set(cx, cy)
		return
	}

	x, y := ri, 0
	d := 1 - ri
	for x >= y {
		c.Set(cx+x, cy+y)
		c.Set(cx-x, cy+y)
		c.Set(cx+x, cy-y)
		c.Set(cx-x, cy-y)
		c.Set(cx+y, cy+x)
		c.Set(cx-y, cy+x)
		c.Set(cx+y, cy-x)
		c.Set(cx-y, cy-x)
		y++
		if d < 0 {
			d += 2*y + 1
		} else {
			x--
			d += 2*(y-x) + 1
		}
	}
}

// DrawCapsule outlines the segment (x0,y0)-(x1,y1) swept by radius r: two
// sides and a half circle at each end.
func (c *Canvas) DrawCapsule(x0, y0, x1, y1, r float64) {
	dx, dy := x1-x0, y1-y0
	length := math.Hypot(dx, dy)
	if length == 0 {
		c.DrawCircle(int(math.Round(x0)), int(math.Round(y0)), r)
		return
	}

	nx, ny := -dy/length*r, dx/length*r
	c.DrawLine(round(x0+nx), round(y0+ny), round(x1+nx), round(y1+ny))
	c.DrawLine(round(x0-nx), round(y0-ny), round(x1-nx), round(y1-ny))

	base := math.Atan2(ny, nx)
	c.arc(x0, y0, r, base, base+math.Pi)
	c.arc(x1, y1, r, base-math.Pi, base)
}

func (c *Canvas) arc(cx, cy, r, from, to float64) {
	steps := max(8, int(r*4))
	for k := 0; k <= steps; k++ {
		a := from + (to-from)*float64(k)/float64(steps)
		c.Set(round(cx+r*math.Cos(a)), round(cy+r*math.Sin(a)))
	}
}

func (c *Canvas) String() string {
	var b strings.Builder
	for _, row := range c.Grid {
		b.WriteString(string(row) + "\n")
	}
	return b.String()
}

// Render is String with each run of equally inked cells drawn in its
// style. Cells without a style are written plain.
func (c *Canvas) Render(styles map[Ink]lipgloss.Style) string {
	var b strings.Builder
	for i, row := range c.Grid {
		start := 0
		for j := 1; j <= len(row); j++ {
			if j < len(row) && c.Ink[i][j] == c.Ink[i][start] {
				continue
			}
			run := string(row[start:j])
			if st, ok := styles[c.Ink[i][start]]; ok {
				run = st.Render(run)
			}
			b.WriteString(run)
			start = j
		}
		b.WriteByte('\n')
	}
	return b.String()
}

func round(v float64) int { return int(math.Round(v)) }

func absInt(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

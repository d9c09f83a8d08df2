package analysis

import (
	"strings"

	"github.com/san-kum/ballpit/internal/physics"
	"github.com/san-kum/ballpit/internal/sim"
)

type Point struct{ X, Y float64 }

// Portrait holds one body's trajectory through two state components.
type Portrait struct {
	XAxis, YAxis Axis
	Points       []Point
}

// BodyPortrait collects (xAxis, yAxis) for body id from every frame in
// which it exists. It returns nil if the body never appears.
func BodyPortrait(frames []sim.Frame, id physics.BodyID, xAxis, yAxis Axis) *Portrait {
	portrait := &Portrait{
		XAxis:  xAxis,
		YAxis:  yAxis,
		Points: make([]Point, 0, len(frames)),
	}

	for i := range frames {
		b := find(frames[i].Bodies, id)
		if b == nil {
			continue
		}
		portrait.Points = append(portrait.Points, Point{X: xAxis.of(b), Y: yAxis.of(b)})
	}

	if len(portrait.Points) == 0 {
		return nil
	}
	return portrait
}

// PortraitToASCII plots the points on a width x height character grid,
// padded by a tenth of the range on every side. Zero axes are drawn when
// they fall inside the grid.
func PortraitToASCII(portrait *Portrait, width, height int) string {
	if portrait == nil || len(portrait.Points) == 0 || width < 2 || height < 2 {
		return ""
	}

	// Find bounds
	minX, maxX := portrait.Points[0].X, portrait.Points[0].X
	minY, maxY := portrait.Points[0].Y, portrait.Points[0].Y

	for _, p := range portrait.Points {
		if p.X < minX {
			minX = p.X
		}
		if p.X > maxX {
			maxX = p.X
		}
		if p.Y < minY {
			minY = p.Y
		}
		if p.Y > maxY {
			maxY = p.Y
		}
	}

	// Add padding
	rangeX := maxX - minX
	rangeY := maxY - minY
	if rangeX == 0 {
		rangeX = 1
	}
	if rangeY == 0 {
		rangeY = 1
	}
	minX -= rangeX * 0.1
	maxX += rangeX * 0.1
	minY -= rangeY * 0.1
	maxY += rangeY * 0.1
	rangeX = maxX - minX
	rangeY = maxY - minY

	// Create canvas
	canvas := make([][]rune, height)
	for i := range canvas {
		canvas[i] = make([]rune, width)
		for j := range canvas[i] {
			canvas[i][j] = ' '
		}
	}

	// Plot points
	for _, p := range portrait.Points {
		col := int((p.X - minX) / rangeX * float64(width-1))
		row := height - 1 - int((p.Y-minY)/rangeY*float64(height-1))

		if row >= 0 && row < height && col >= 0 && col < width {
			canvas[row][col] = '•'
		}
	}

	// Draw axes if they cross the visible area
	if minX <= 0 && maxX >= 0 {
		col := int((0 - minX) / rangeX * float64(width-1))
		for row := 0; row < height; row++ {
			if col >= 0 && col < width && canvas[row][col] == ' ' {
				canvas[row][col] = '│'
			}
		}
	}
	if minY <= 0 && maxY >= 0 {
		row := height - 1 - int((0-minY)/rangeY*float64(height-1))
		for col := 0; col < width; col++ {
			if row >= 0 && row < height && canvas[row][col] == ' ' {
				canvas[row][col] = '─'
			}
		}
	}

	// Convert to string
	var sb strings.Builder
	for _, row := range canvas {
		sb.WriteString(string(row))
		sb.WriteRune('\n')
	}
	return sb.String()
}

// Crossings records (y, vy) each time the body passes x = line moving
// right. Jumps longer than half the width are wraparounds, not passes.
func Crossings(frames []sim.Frame, id physics.BodyID, line, width float64) []Point {
	points := make([]Point, 0)

	var prev *physics.Body
	for i := range frames {
		b := find(frames[i].Bodies, id)
		if b == nil {
			prev = nil
			continue
		}
		if prev != nil && b.Pos[0]-prev.Pos[0] < width/2 && prev.Pos[0] < line && b.Pos[0] >= line {
			points = append(points, Point{X: b.Pos[1], Y: b.Vel[1]})
		}
		prev = b
	}

	return points
}

// CrossingsToASCII plots a crossing section the same way as a portrait.
func CrossingsToASCII(points []Point, width, height int) string {
	if len(points) == 0 {
		return "No crossings detected"
	}
	return PortraitToASCII(&Portrait{XAxis: AxisY, YAxis: AxisVY, Points: points}, width, height)
}

package export

import (
	"fmt"
	"strings"

	"github.com/san-kum/ballpit/internal/analysis"
	"github.com/san-kum/ballpit/internal/physics"
	"github.com/san-kum/ballpit/internal/sim"
)

// Scene is everything drawn by SceneToSVG.
type Scene struct {
	Width, Height float64
	Bodies        []physics.Body
	Obstacles     []physics.Obstacle
	Collisions    []sim.Collision
}

// WorldScene captures a world as it stands, including the collisions of
// the last Advance.
func WorldScene(w *sim.World) Scene {
	p := w.Params()
	return Scene{
		Width:      p.Width,
		Height:     p.Height,
		Bodies:     w.Bodies(),
		Obstacles:  w.Obstacles(),
		Collisions: w.Collisions(),
	}
}

// SceneToSVG draws bodies as outlined circles and obstacles as round-capped
// strokes, scaled by scale. Collisions are drawn as red lines between the
// centers at detection time.
func SceneToSVG(s Scene, scale float64) string {
	if scale <= 0 {
		scale = 1
	}
	width := s.Width * scale
	height := s.Height * scale

	var sb strings.Builder

	sb.WriteString(fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%.0f" height="%.0f" viewBox="0 0 %.0f %.0f">
<rect width="100%%" height="100%%" fill="#0a0a0a"/>
`, width, height, width, height))

	sb.WriteString("<g stroke=\"#4a4a4a\" stroke-linecap=\"round\" fill=\"#4a4a4a\">\n")
	for _, o := range s.Obstacles {
		sx, sy := o.Start[0]*scale, o.Start[1]*scale
		ex, ey := o.End[0]*scale, o.End[1]*scale
		r := o.Thickness * scale
		if o.Start == o.End {
			sb.WriteString(fmt.Sprintf(`<circle cx="%.1f" cy="%.1f" r="%.1f"/>
`, sx, sy, r))
			continue
		}
		sb.WriteString(fmt.Sprintf(`<line x1="%.1f" y1="%.1f" x2="%.1f" y2="%.1f" stroke-width="%.1f"/>
`, sx, sy, ex, ey, 2*r))
	}
	sb.WriteString("</g>\n")

	sb.WriteString("<g fill=\"none\" stroke=\"#e0e0e0\" stroke-width=\"1\">\n")
	for _, b := range s.Bodies {
		sb.WriteString(fmt.Sprintf(`<circle cx="%.1f" cy="%.1f" r="%.1f"/>
`, b.Pos[0]*scale, b.Pos[1]*scale, b.Radius*scale))
	}
	sb.WriteString("</g>\n")

	if len(s.Collisions) > 0 {
		sb.WriteString("<g stroke=\"#ff3030\" stroke-width=\"1\">\n")
		for _, c := range s.Collisions {
			sb.WriteString(fmt.Sprintf(`<line x1="%.1f" y1="%.1f" x2="%.1f" y2="%.1f"/>
`, c.From[0]*scale, c.From[1]*scale, c.To[0]*scale, c.To[1]*scale))
		}
		sb.WriteString("</g>\n")
	}

	sb.WriteString("</svg>")
	return sb.String()
}

// TrajectoryToSVG draws points as a polyline fitted to width x height
// with a tenth of the range as padding. The y axis points up.
func TrajectoryToSVG(points []analysis.Point, width, height int, strokeColor string) string {
	if len(points) < 2 {
		return ""
	}

	minX, maxX := points[0].X, points[0].X
	minY, maxY := points[0].Y, points[0].Y
	for _, p := range points {
		minX = min(minX, p.X)
		maxX = max(maxX, p.X)
		minY = min(minY, p.Y)
		maxY = max(maxY, p.Y)
	}

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

	var sb strings.Builder

	sb.WriteString(fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="#0a0a0a"/>
<path fill="none" stroke="%s" stroke-width="1.5" d="M`,
		width, height, width, height, strokeColor))

	for i, p := range points {
		x := (p.X - minX) / rangeX * float64(width)
		y := float64(height) - (p.Y-minY)/rangeY*float64(height)

		if i == 0 {
			sb.WriteString(fmt.Sprintf("%.1f,%.1f", x, y))
		} else {
			sb.WriteString(fmt.Sprintf(" L%.1f,%.1f", x, y))
		}
	}

	sb.WriteString(`"/>
</svg>`)
	return sb.String()
}

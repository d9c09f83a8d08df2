//go:build raylib

package gui

import (
	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/go-gl/mathgl/mgl64"

	"github.com/san-kum/ballpit/internal/control"
)

func (a *App) screen(p mgl64.Vec2) rl.Vector2 {
	return rl.NewVector2(float32(p[0])*a.Scale, float32(p[1])*a.Scale)
}

func (a *App) drawWorld() {
	p := a.World.Params()
	rl.DrawRectangleLines(0, 0, int32(float32(p.Width)*a.Scale), int32(float32(p.Height)*a.Scale), ColTextDim)

	for _, o := range a.World.Obstacles() {
		r := float32(o.Thickness) * a.Scale
		s, e := a.screen(o.Start), a.screen(o.End)
		rl.DrawCircleV(s, r, ColObstacle)
		rl.DrawCircleV(e, r, ColObstacle)
		rl.DrawLineEx(s, e, 2*r, ColObstacle)
	}

	selected, hasSel := a.Hand.Selected()
	for _, b := range a.World.Bodies() {
		col := ColBody
		if hasSel && b.ID == selected {
			col = ColSelect
		}
		rl.DrawCircleLinesV(a.screen(b.Pos), float32(b.Radius)*a.Scale, col)
	}

	if a.ShowContacts {
		for _, c := range a.World.Collisions() {
			rl.DrawLineV(a.screen(c.From), a.screen(c.To), ColContact)
		}
	}

	if a.Held != nil && *a.Held == control.Secondary {
		if from, to, ok := a.Hand.Cue(); ok {
			rl.DrawLineV(a.screen(from), a.screen(to), ColCue)
		}
	}
}

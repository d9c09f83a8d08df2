//go:build raylib

package gui

import (
	"fmt"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/san-kum/ballpit/internal/config"
	"github.com/san-kum/ballpit/internal/control"
	"github.com/san-kum/ballpit/internal/sim"
)

// Theme Colors (Monochrome Hyper-Minimalist)
var (
	ColBg       = rl.NewColor(10, 10, 10, 255)
	ColBody     = rl.NewColor(220, 220, 220, 255)
	ColSelect   = rl.NewColor(255, 255, 255, 255)
	ColObstacle = rl.NewColor(90, 90, 90, 255)
	ColContact  = rl.NewColor(255, 60, 60, 255)
	ColCue      = rl.NewColor(80, 160, 255, 255)
	ColText     = rl.NewColor(140, 140, 140, 255)
	ColTextDim  = rl.NewColor(60, 60, 60, 255)
)

type App struct {
	Cfg   *config.Config
	Name  string
	World *sim.World
	Hand  *control.Manipulator

	Scale        float32
	Running      bool
	ShowContacts bool
	Held         *control.Button
	Err          error
}

func initWindow() {
	rl.SetConfigFlags(rl.FlagMsaa4xHint)
	rl.InitWindow(screenWidth, screenHeight, "ballpit")
	rl.SetTargetFPS(60)
	rl.SetExitKey(0)
}

// NewApp builds the scene and fits the world to the window.
func NewApp(cfg *config.Config, name string) (*App, error) {
	w, err := cfg.Build()
	if err != nil {
		return nil, err
	}
	p := w.Params()
	scale := min(float32(screenWidth)/float32(p.Width), float32(screenHeight)/float32(p.Height))

	return &App{
		Cfg:          cfg,
		Name:         name,
		World:        w,
		Hand:         control.NewManipulator(w),
		Scale:        scale,
		Running:      true,
		ShowContacts: true,
	}, nil
}

// Run opens a window on the scene and blocks until it is closed.
func Run(cfg *config.Config, name string) error {
	app, err := NewApp(cfg, name)
	if err != nil {
		return err
	}

	initWindow()
	defer rl.CloseWindow()

	for !rl.WindowShouldClose() {
		if rl.IsKeyPressed(rl.KeyQ) {
			break
		}
		app.Update()
		app.Draw()
	}
	return nil
}

func (a *App) reset() {
	w, err := a.Cfg.Build()
	if err != nil {
		a.Err = err
		return
	}
	a.World = w
	a.Hand = control.NewManipulator(w)
	a.Held = nil
}

// Update applies input, then advances the world by the real frame time.
func (a *App) Update() {
	if rl.IsKeyPressed(rl.KeySpace) {
		a.Running = !a.Running
	}
	if rl.IsKeyPressed(rl.KeyR) {
		a.reset()
	}
	if rl.IsKeyPressed(rl.KeyC) {
		a.ShowContacts = !a.ShowContacts
	}

	a.handleMouse()

	if a.Running {
		a.World.Advance(float64(rl.GetFrameTime()))
	}
}

func (a *App) cursor() (float64, float64) {
	m := rl.GetMousePosition()
	return float64(m.X / a.Scale), float64(m.Y / a.Scale)
}

func (a *App) handleMouse() {
	x, y := a.cursor()

	for _, b := range []struct {
		mouse rl.MouseButton
		btn   control.Button
	}{
		{rl.MouseLeftButton, control.Primary},
		{rl.MouseRightButton, control.Secondary},
	} {
		if a.Held == nil && rl.IsMouseButtonPressed(b.mouse) {
			held := b.btn
			a.Held = &held
			a.Hand.Press(x, y, held)
		}
		if a.Held != nil && *a.Held == b.btn && rl.IsMouseButtonReleased(b.mouse) {
			a.Err = a.Hand.Release(x, y, b.btn)
			a.Held = nil
			return
		}
	}

	if a.Held != nil {
		if err := a.Hand.Drag(x, y); err != nil {
			a.Err = err
		}
	}
}

func (a *App) Draw() {
	rl.BeginDrawing()
	rl.ClearBackground(ColBg)

	a.drawWorld()
	a.DrawHUD()

	rl.EndDrawing()
}

func (a *App) DrawHUD() {
	rl.DrawText("ballpit", 20, 20, 24, ColSelect)
	rl.DrawText(fmt.Sprintf(":: %s", a.Name), 130, 26, 16, ColText)

	status, col := "RUNNING", ColSelect
	if !a.Running {
		status, col = "PAUSED", ColTextDim
	}
	rl.DrawText(status, screenWidth-110, 20, 16, col)

	rl.DrawText(fmt.Sprintf("t=%.2fs  bodies=%d  contacts=%d", a.World.Time(), a.World.NumBodies(), len(a.World.Collisions())), 20, 52, 14, ColText)
	if a.Err != nil {
		rl.DrawText(a.Err.Error(), 20, 72, 14, ColContact)
	}

	rl.DrawText("[SPACE] PAUSE  [R] RESET  [C] CONTACTS  [Q] QUIT", 20, screenHeight-30, 14, ColTextDim)
	rl.DrawText(fmt.Sprintf("%d FPS", int32(rl.GetFPS())), screenWidth-80, screenHeight-30, 14, ColTextDim)
}

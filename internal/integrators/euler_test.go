package integrators

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/san-kum/ballpit/internal/physics"
)

func TestEulerDragDecay(t *testing.T) {
	integ := NewEuler(0.8, 0, 0.01, 320, 240)
	b := &physics.Body{Pos: mgl64.Vec2{100, 100}, Vel: mgl64.Vec2{10, 0}}
	dt := 0.1

	last := b.Speed()
	for i := 0; i < 200; i++ {
		integ.Step(b, dt)
		speed := b.Speed()
		if speed == 0 {
			break
		}
		if ratio := speed / last; math.Abs(ratio-(1-0.8*dt)) > 1e-12 {
			t.Fatalf("step %d: expected decay ratio %v, got %v", i, 1-0.8*dt, ratio)
		}
		last = speed
	}

	if b.Vel != (mgl64.Vec2{}) {
		t.Errorf("expected body to come to rest, got %v", b.Vel)
	}
}

func TestEulerGravity(t *testing.T) {
	integ := NewEuler(0, 100, 0, 320, 240)
	b := &physics.Body{Pos: mgl64.Vec2{50, 10}}

	integ.Step(b, 0.1)

	if b.Acc != (mgl64.Vec2{0, 100}) {
		t.Errorf("expected acceleration (0,100), got %v", b.Acc)
	}
	if math.Abs(b.Vel[1]-10) > 1e-12 {
		t.Errorf("expected vy=10, got %v", b.Vel[1])
	}
	// semi-implicit: the position uses the updated velocity
	if math.Abs(b.Pos[1]-11) > 1e-12 {
		t.Errorf("expected y=11, got %v", b.Pos[1])
	}
}

func TestEulerSnap(t *testing.T) {
	tests := []struct {
		name string
		vel  mgl64.Vec2
		rest bool
	}{
		{"below threshold", mgl64.Vec2{0.09, 0.03}, true},
		{"well above", mgl64.Vec2{0.2, 0}, false},
		{"diagonal above", mgl64.Vec2{0.1, 0.1}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			integ := NewEuler(0.8, 0, 0.01, 320, 240)
			b := &physics.Body{Pos: mgl64.Vec2{10, 10}, Vel: tt.vel}
			integ.Step(b, 0.001)

			if got := b.Vel == (mgl64.Vec2{}); got != tt.rest {
				t.Errorf("expected rest=%v, got velocity %v", tt.rest, b.Vel)
			}
		})
	}
}

func TestEulerWrapsAllEdges(t *testing.T) {
	tests := []struct {
		name string
		pos  mgl64.Vec2
		vel  mgl64.Vec2
		want mgl64.Vec2
	}{
		{"right", mgl64.Vec2{99, 50}, mgl64.Vec2{20, 0}, mgl64.Vec2{1, 50}},
		{"left", mgl64.Vec2{1, 50}, mgl64.Vec2{-20, 0}, mgl64.Vec2{99, 50}},
		{"bottom", mgl64.Vec2{50, 79}, mgl64.Vec2{0, 20}, mgl64.Vec2{50, 1}},
		{"top", mgl64.Vec2{50, 1}, mgl64.Vec2{0, -20}, mgl64.Vec2{50, 79}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			integ := NewEuler(0, 0, 0, 100, 80)
			b := &physics.Body{Pos: tt.pos, Vel: tt.vel}
			integ.Step(b, 0.1)

			if math.Abs(b.Pos[0]-tt.want[0]) > 1e-9 || math.Abs(b.Pos[1]-tt.want[1]) > 1e-9 {
				t.Errorf("expected %v, got %v", tt.want, b.Pos)
			}
		})
	}
}

func TestWrap(t *testing.T) {
	tests := []struct {
		x, size  float64
		expected float64
	}{
		{50, 100, 50},
		{0, 100, 0},
		{-1, 100, 99},
		{100, 100, 0},
		{101, 100, 1},
		{250, 100, 50},
		{-250, 100, 50},
		{-1e-17, 100, 0},
		{42, 0, 42},
	}

	for _, tt := range tests {
		if got := Wrap(tt.x, tt.size); math.Abs(got-tt.expected) > 1e-9 {
			t.Errorf("Wrap(%v, %v) = %v, expected %v", tt.x, tt.size, got, tt.expected)
		}
	}
}

func TestDelta(t *testing.T) {
	tests := []struct {
		a, b, size float64
		expected   float64
	}{
		{10, 20, 100, 10},
		{20, 10, 100, -10},
		{98, 2, 100, 4},
		{2, 98, 100, -4},
		{0, 50, 100, 50},
		{5, 300, 0, 295},
	}

	for _, tt := range tests {
		if got := Delta(tt.a, tt.b, tt.size); math.Abs(got-tt.expected) > 1e-12 {
			t.Errorf("Delta(%v, %v, %v) = %v, expected %v", tt.a, tt.b, tt.size, got, tt.expected)
		}
	}
}

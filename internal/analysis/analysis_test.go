package analysis

import (
	"math"
	"strings"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/san-kum/ballpit/internal/physics"
	"github.com/san-kum/ballpit/internal/sim"
)

func track(xs ...float64) []sim.Frame {
	frames := make([]sim.Frame, len(xs))
	for i, x := range xs {
		frames[i] = sim.Frame{Index: i, Bodies: []physics.Body{
			{ID: 0, Pos: mgl64.Vec2{x, 50}, Vel: mgl64.Vec2{1, float64(i)}, Mass: 2},
		}}
	}
	return frames
}

func TestDominantFrequency(t *testing.T) {
	const n = 64
	dt := 1.0 / n
	data := make([]float64, n)
	for i := range data {
		data[i] = 3 + math.Sin(2*math.Pi*8*float64(i)*dt)
	}

	freq, power := DominantFrequency(data, dt)
	if math.Abs(freq-8) > 1e-9 {
		t.Errorf("expected 8 Hz, got %f", freq)
	}
	if power <= 0 {
		t.Errorf("expected positive power, got %f", power)
	}

	ps := PowerSpectrum(data)
	if len(ps) != n/2 {
		t.Errorf("expected %d bins, got %d", n/2, len(ps))
	}
	if ps[0] > ps[8]/10 {
		t.Errorf("expected offset removed, DC bin %g vs peak %g", ps[0], ps[8])
	}
}

func TestDominantFrequency_Degenerate(t *testing.T) {
	tests := []struct {
		name string
		data []float64
	}{
		{"empty", nil},
		{"single", []float64{4}},
		{"flat", []float64{2, 2, 2, 2, 2, 2}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if f, p := DominantFrequency(tt.data, 0.1); f != 0 || p != 0 {
				t.Errorf("expected (0, 0), got (%f, %f)", f, p)
			}
		})
	}
}

func TestEnergySeries(t *testing.T) {
	frames := track(0, 1, 2)
	got := EnergySeries(frames)
	want := []float64{1, 2, 5}
	for i := range want {
		if math.Abs(got[i]-want[i]) > 1e-12 {
			t.Errorf("frame %d: expected %f, got %f", i, want[i], got[i])
		}
	}
}

func TestBodySeries(t *testing.T) {
	frames := track(5, 6, 7)
	frames[2].Bodies = append(frames[2].Bodies, physics.Body{ID: 1, Pos: mgl64.Vec2{9, 9}})

	if got := BodySeries(frames, 0, AxisX); len(got) != 3 || got[2] != 7 {
		t.Errorf("unexpected x series %v", got)
	}
	if got := BodySeries(frames, 1, AxisY); len(got) != 1 || got[0] != 9 {
		t.Errorf("expected late body to appear once, got %v", got)
	}
	if got := BodySeries(frames, 0, AxisVY); got[1] != 1 {
		t.Errorf("unexpected vy series %v", got)
	}
}

func TestParseAxis(t *testing.T) {
	if a, err := ParseAxis("vx"); err != nil || a != AxisVX {
		t.Errorf("expected AxisVX, got %v (%v)", a, err)
	}
	if _, err := ParseAxis("z"); err == nil {
		t.Error("expected error for unknown axis")
	}
}

func TestBodyPortrait(t *testing.T) {
	frames := track(10, 20, 30)

	p := BodyPortrait(frames, 0, AxisX, AxisVY)
	if p == nil || len(p.Points) != 3 || p.Points[2] != (Point{30, 2}) {
		t.Fatalf("unexpected portrait %+v", p)
	}
	if BodyPortrait(frames, 7, AxisX, AxisY) != nil {
		t.Error("expected nil portrait for a missing body")
	}

	out := PortraitToASCII(p, 20, 8)
	lines := strings.Split(strings.TrimSuffix(out, "\n"), "\n")
	if len(lines) != 8 {
		t.Errorf("expected 8 rows, got %d", len(lines))
	}
	if strings.Count(out, "•") != 3 {
		t.Errorf("expected 3 plotted points, got:\n%s", out)
	}
	if PortraitToASCII(nil, 20, 8) != "" {
		t.Error("expected empty plot for nil portrait")
	}
}

func TestCrossings(t *testing.T) {
	frames := track(90, 110, 300, 5, 95, 105)

	points := Crossings(frames, 0, 100, 320)
	if len(points) != 2 {
		t.Fatalf("expected 2 crossings, got %v", points)
	}
	if points[0] != (Point{50, 1}) || points[1] != (Point{50, 5}) {
		t.Errorf("unexpected crossings %v", points)
	}

	if CrossingsToASCII(nil, 10, 5) != "No crossings detected" {
		t.Error("expected placeholder for no crossings")
	}
}

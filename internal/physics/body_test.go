package physics

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/google/go-cmp/cmp"
)

func copyOf(s *Bodies, id BodyID) Body {
	b, _ := s.Get(id)
	return *b
}

func TestBody_AccessorsOnCopies(t *testing.T) {
	s := NewBodies(1)
	id := s.Spawn(mgl64.Vec2{10, 20}, 2, 10)
	b, _ := s.Get(id)
	b.Vel = mgl64.Vec2{3, 4}

	if got := copyOf(s, id).Speed(); math.Abs(got-5) > 1e-12 {
		t.Errorf("expected speed 5, got %v", got)
	}
	if got := copyOf(s, id).KineticEnergy(); math.Abs(got-250) > 1e-9 {
		t.Errorf("expected kinetic energy 250, got %v", got)
	}
	if diff := cmp.Diff(mgl64.Vec2{60, 80}, copyOf(s, id).Momentum(), approx); diff != "" {
		t.Errorf("momentum mismatch (-want +got):\n%s", diff)
	}
	if !copyOf(s, id).Contains(mgl64.Vec2{11, 20}) {
		t.Error("expected interior point to be contained")
	}
	if copyOf(s, id).Contains(mgl64.Vec2{12, 20}) {
		t.Error("expected point on the rim not to be contained")
	}

	for _, snap := range s.Snapshot() {
		if snap.Speed() != b.Speed() {
			t.Errorf("expected snapshot speed %v, got %v", b.Speed(), snap.Speed())
		}
	}
}

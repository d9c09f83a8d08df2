package physics

import "github.com/go-gl/mathgl/mgl64"

type ObstacleID int

// End selects one endpoint of an obstacle.
type End uint8

const (
	StartEnd End = iota
	FinishEnd
)

func (e End) String() string {
	if e == StartEnd {
		return "start"
	}
	return "end"
}

// Obstacle is an immovable capsule: the segment Start-End swept by a
// circle of radius Thickness. Physics never moves it.
type Obstacle struct {
	ID        ObstacleID
	Start     mgl64.Vec2
	End       mgl64.Vec2
	Thickness float64
}

// ClosestPoint returns the point of the segment nearest to p. The
// projection parameter is clamped to [0,1]; a zero-length segment yields
// its start point.
func (o *Obstacle) ClosestPoint(p mgl64.Vec2) mgl64.Vec2 {
	edge := o.End.Sub(o.Start)
	lenSq := edge.Dot(edge)
	if lenSq == 0 {
		return o.Start
	}
	t := p.Sub(o.Start).Dot(edge) / lenSq
	if t < 0 {
		t = 0
	} else if t > 1 {
		t = 1
	}
	return o.Start.Add(edge.Mul(t))
}

// Endpoint returns the position of the given end.
func (o *Obstacle) Endpoint(e End) mgl64.Vec2 {
	if e == StartEnd {
		return o.Start
	}
	return o.End
}

// CapContains reports whether p lies strictly inside the cap circle at end e.
func (o *Obstacle) CapContains(e End, p mgl64.Vec2) bool {
	d := p.Sub(o.Endpoint(e))
	return d.Dot(d) < o.Thickness*o.Thickness
}

// Obstacles owns every static segment in a world.
type Obstacles struct {
	items []Obstacle
}

func NewObstacles(capacity int) *Obstacles {
	return &Obstacles{items: make([]Obstacle, 0, capacity)}
}

func (s *Obstacles) Add(start, end mgl64.Vec2, thickness float64) ObstacleID {
	id := ObstacleID(len(s.items))
	s.items = append(s.items, Obstacle{ID: id, Start: start, End: end, Thickness: thickness})
	return id
}

func (s *Obstacles) Get(id ObstacleID) (*Obstacle, bool) {
	if id < 0 || int(id) >= len(s.items) {
		return nil, false
	}
	return &s.items[id], true
}

// MoveEnd relocates one endpoint. It is the only way an obstacle changes.
func (s *Obstacles) MoveEnd(id ObstacleID, e End, p mgl64.Vec2) bool {
	o, ok := s.Get(id)
	if !ok {
		return false
	}
	if e == StartEnd {
		o.Start = p
	} else {
		o.End = p
	}
	return true
}

func (s *Obstacles) At(i int) *Obstacle { return &s.items[i] }

func (s *Obstacles) Len() int { return len(s.items) }

func (s *Obstacles) Snapshot() []Obstacle {
	out := make([]Obstacle, len(s.items))
	copy(out, s.items)
	return out
}

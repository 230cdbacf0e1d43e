package game

import "time"

// Snake is one player's body in the world. Segments are head first.
// All mutation happens on the driver goroutine.
type Snake struct {
	ID        int
	Name      string
	Color     string
	Segments  []Vec
	Direction Vec
	Speed     float64
	Score     int
	Alive     bool
	CreatedAt time.Time
}

// SetDirection applies a requested direction vector. A request that
// reverses the current heading (negative dot product) is rejected, as is
// a change below the significance threshold on both axes. Accepted
// directions are stored normalized.
func (s *Snake) SetDirection(dx, dy float64) {
	req := Vec{X: dx, Y: dy}
	if s.Direction.Dot(req) < 0 {
		return
	}
	const threshold = 0.05
	if abs(dx-s.Direction.X) <= threshold && abs(dy-s.Direction.Y) <= threshold {
		return
	}
	if req.Len() == 0 {
		return
	}
	s.Direction = req.Normalize()
}

// step advances the head one tick and wraps it into the arena. Trimming
// is separate: on a tick where the snake eats, the tail is preserved.
func (s *Snake) step(p Params) {
	if !s.Alive || len(s.Segments) == 0 {
		return
	}
	head := s.Segments[0].Add(s.Direction.Scale(s.Speed)).Wrap(p.WorldSize)
	s.Segments = append([]Vec{head}, s.Segments...)
}

// trim drops the tail segment when the body exceeds the score-derived
// target length. One segment per tick, so growth is never clawed back.
func (s *Snake) trim(p Params) {
	if len(s.Segments) > s.targetLength(p) {
		s.Segments = s.Segments[:len(s.Segments)-1]
	}
}

// clampToMax enforces the hard segment cap after growth.
func (s *Snake) clampToMax(p Params) {
	if len(s.Segments) > p.MaxLength {
		s.Segments = s.Segments[:p.MaxLength]
	}
}

// targetLength is clamp(base + score/10, base, max).
func (s *Snake) targetLength(p Params) int {
	n := p.BaseLength + s.Score/10
	if n > p.MaxLength {
		n = p.MaxLength
	}
	return n
}

// grow duplicates the tail segment. The eating tick skips the trim, so
// one food yields a net growth of two segments.
func (s *Snake) grow() {
	if len(s.Segments) == 0 {
		return
	}
	s.Segments = append(s.Segments, s.Segments[len(s.Segments)-1])
}

// hits reports whether s's head touches other's body. Self collisions
// never count. A cheap head-to-head Manhattan check rejects distant
// pairs before the sampled segment scan.
func (s *Snake) hits(other *Snake, p Params) bool {
	if s.ID == other.ID || len(s.Segments) == 0 || len(other.Segments) == 0 {
		return false
	}
	head := s.Segments[0]
	if ManhattanDist(head, other.Segments[0]) > p.FastRejectDist {
		return false
	}
	radius := p.SnakeRadius * 1.2
	step := p.SampleStep
	if step < 1 {
		step = 1
	}
	for i := 0; i < len(other.Segments); i += step {
		if Dist(head, other.Segments[i]) < radius {
			return true
		}
	}
	return false
}

func abs(x float64) float64 {
	if x < 0 {
		return -x
	}
	return x
}

package circularprogress

import (
	"math"

	"github.com/charmbracelet/harmonica"
)

// settleEpsilon bounds how close the spring must get to its target, in
// position and velocity, before the displayed fraction snaps to the
// target and the animation reports settled.
const settleEpsilon = 1e-4

// sweepSpring eases the displayed progress fraction toward its target
// with a damped spring, one step per rendered frame.
type sweepSpring struct {
	spring harmonica.Spring
	pos    float64
	vel    float64
	target float64
}

func newSweepSpring(fps int, frequency, damping float64) *sweepSpring {
	return &sweepSpring{spring: harmonica.NewSpring(harmonica.FPS(fps), frequency, damping)}
}

// jump moves the spring to pos immediately, at rest.
func (s *sweepSpring) jump(pos float64) {
	s.pos = pos
	s.vel = 0
	s.target = pos
}

// step advances the spring one frame toward target and returns the new
// displayed position. Within settleEpsilon of the target at near-zero
// velocity the position snaps to the target exactly.
func (s *sweepSpring) step(target float64) float64 {
	s.target = target
	p, v := s.spring.Update(s.pos, s.vel, target)
	s.pos, s.vel = p, v
	if math.Abs(p-target) < settleEpsilon && math.Abs(v) < settleEpsilon {
		s.pos, s.vel = target, 0
	}
	return s.pos
}

// settled reports whether the displayed position has reached the target.
func (s *sweepSpring) settled() bool {
	return s.pos == s.target && s.vel == 0
}

package game

import (
	"math/rand"

	"github.com/pthm-cable/scroller/systems"
)

// Autopilot produces input for headless runs. It walks right and jumps at
// random, backing off for a run-up when it stops making progress.
// The same seed always yields the same inputs for the same player states.
type Autopilot struct {
	rng        *rand.Rand
	lastX      int
	stuck      int // frames without forward progress
	backFrames int
}

// NewAutopilot creates an autopilot seeded with seed.
func NewAutopilot(seed int64) *Autopilot {
	return &Autopilot{rng: rand.New(rand.NewSource(seed))}
}

// Next returns the input for the frame following state p.
func (a *Autopilot) Next(p systems.Player) Input {
	if p.Pos.X <= a.lastX {
		a.stuck++
	} else {
		a.stuck = 0
	}
	a.lastX = p.Pos.X

	var in Input
	switch {
	case a.backFrames > 0:
		a.backFrames--
		in.Left = true
	case a.stuck > 30:
		// Back off to take a run-up.
		a.backFrames = 10 + a.rng.Intn(20)
		a.stuck = 0
		in.Left = true
	default:
		in.Right = true
	}

	if p.Grounded && (a.stuck > 5 || a.rng.Intn(40) == 0) {
		in.Jump = true
	}
	return in
}

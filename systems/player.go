package systems

import (
	"github.com/pthm-cable/scroller/components"
	"github.com/pthm-cable/scroller/geom"
)

// Controls is the player's intent for one frame.
type Controls struct {
	Left, Right, Jump bool
}

// PlayerParams holds player movement tuning.
type PlayerParams struct {
	WalkSpeed    int
	JumpSpeed    int
	Gravity      int
	MaxFallSpeed int
	SpeedFactor  float64 // applied while speed boosted
	JumpFactor   float64 // applied while jump boosted
}

// Player is the controllable character. Pos is the feet position.
type Player struct {
	Pos        geom.Pt
	Last       geom.Pt // Pos before the latest step
	Vel        components.Velocity
	Grounded   bool
	FacingLeft bool
	Invuln     int // frames of hurt immunity left
}

// NewPlayer places a player at feet.
func NewPlayer(feet geom.Pt) Player {
	return Player{Pos: feet, Last: feet}
}

// Rect returns the player's collision box.
func (p *Player) Rect() geom.Rect {
	return PlayerRect(p.Pos)
}

// Step moves the player one frame and lands it on the highest floor crossed.
func (p *Player) Step(c Controls, prm PlayerParams, fx *Effects, floors []geom.Rect) {
	p.Last = p.Pos

	walk := prm.WalkSpeed
	jump := prm.JumpSpeed
	if fx != nil {
		if fx.Active(components.Mushroom) {
			walk = int(float64(walk) * prm.SpeedFactor)
		}
		if fx.Active(components.Feather) {
			jump = int(float64(jump) * prm.JumpFactor)
		}
	}

	vx := 0
	if c.Left {
		vx -= walk
		p.FacingLeft = true
	}
	if c.Right {
		vx += walk
		p.FacingLeft = false
	}
	p.Vel.X = vx

	if c.Jump && p.Grounded {
		p.Vel.Y = -jump
	}
	p.Vel.Y = min(p.Vel.Y+prm.Gravity, prm.MaxFallSpeed)

	p.Pos.X += p.Vel.X
	p.Pos.Y += p.Vel.Y

	p.Grounded = land(floors, p.Last, &p.Pos)
	if p.Grounded {
		p.Vel.Y = 0
	}

	if p.Invuln > 0 {
		p.Invuln--
	}
}

// Bonk stops upward motion after the head hits the underside of a block.
func (p *Player) Bonk(blockBottom int) {
	if p.Vel.Y < 0 {
		p.Vel.Y = 0
	}
	p.Pos.Y = max(p.Pos.Y, blockBottom+PlayerHeight+1)
}

// Bounce launches the player upward after a stomp.
func (p *Player) Bounce(speed int) {
	p.Vel.Y = -speed
	p.Grounded = false
}

// Respawn resets the player to feet with no motion.
func (p *Player) Respawn(feet geom.Pt, invuln int) {
	*p = Player{Pos: feet, Last: feet, Invuln: invuln}
}

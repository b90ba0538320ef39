// Package renderer draws short-lived visual effects. Nothing here feeds
// back into the simulation.
package renderer

import (
	"math/rand"

	rl "github.com/gen2brain/raylib-go/raylib"
)

// ParticleKind selects the look and motion of a burst.
type ParticleKind uint8

const (
	ParticleDebris  ParticleKind = iota // broken brick
	ParticleDust                        // stomped enemy
	ParticleSparkle                     // collectible or power-up picked up
)

// burst describes how many particles a kind spawns and how they move.
type burst struct {
	count   int
	speed   float32
	lift    float32 // initial upward speed
	life    int
	size    float32
	gravity float32
}

var bursts = [...]burst{
	ParticleDebris:  {count: 8, speed: 3, lift: 6, life: 40, size: 3, gravity: 0.4},
	ParticleDust:    {count: 6, speed: 2, lift: 1, life: 20, size: 2.5, gravity: 0.05},
	ParticleSparkle: {count: 5, speed: 1.5, lift: 2, life: 25, size: 1.5, gravity: -0.02},
}

// Particle is one effect particle in world coordinates.
type Particle struct {
	X, Y    float32
	VX, VY  float32
	Life    int
	MaxLife int
	Size    float32
	Kind    ParticleKind
}

// Particles owns the live particles.
type Particles struct {
	items []Particle
	rng   *rand.Rand
}

// NewParticles creates an empty particle set.
func NewParticles(seed int64) *Particles {
	return &Particles{rng: rand.New(rand.NewSource(seed))}
}

// Len returns the number of live particles.
func (ps *Particles) Len() int {
	return len(ps.items)
}

// Burst spawns a burst of kind at the world point (x, y).
func (ps *Particles) Burst(kind ParticleKind, x, y float32) {
	b := bursts[kind]
	for i := 0; i < b.count; i++ {
		ps.items = append(ps.items, Particle{
			X:       x,
			Y:       y,
			VX:      (ps.rng.Float32()*2 - 1) * b.speed,
			VY:      -b.lift * (0.5 + ps.rng.Float32()/2),
			Life:    b.life,
			MaxLife: b.life,
			Size:    b.size,
			Kind:    kind,
		})
	}
}

// Step advances every particle one frame and drops the expired ones.
func (ps *Particles) Step() {
	live := ps.items[:0]
	for _, p := range ps.items {
		p.Life--
		if p.Life <= 0 {
			continue
		}
		p.VY += bursts[p.Kind].gravity
		p.X += p.VX
		p.Y += p.VY
		live = append(live, p)
	}
	ps.items = live
}

// Clear removes every particle.
func (ps *Particles) Clear() {
	ps.items = ps.items[:0]
}

// Draw renders all particles. toScreen maps world to screen coordinates.
func (ps *Particles) Draw(toScreen func(x, y float32) (float32, float32), zoom float32) {
	for i := range ps.items {
		p := &ps.items[i]

		// Fade out over the particle's life
		lifeRatio := float32(p.Life) / float32(p.MaxLife)

		var color rl.Color
		switch p.Kind {
		case ParticleDebris:
			// Brick brown
			color = rl.Color{R: 160, G: 82, B: 45, A: uint8(lifeRatio * 255)}
		case ParticleDust:
			// Grey
			color = rl.Color{R: 200, G: 200, B: 190, A: uint8(lifeRatio * 180)}
		case ParticleSparkle:
			// Gold
			color = rl.Color{R: 255, G: 215, B: 0, A: uint8(lifeRatio * 220)}
		}

		size := p.Size * lifeRatio * zoom
		if size < 0.5 {
			size = 0.5
		}
		sx, sy := toScreen(p.X, p.Y)
		rl.DrawCircleV(rl.Vector2{X: sx, Y: sy}, size, color)
	}
}

package systems

import (
	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/scroller/components"
	"github.com/pthm-cable/scroller/geom"
	"github.com/pthm-cable/scroller/spatial"
)

// EnemyParams holds enemy movement tuning.
type EnemyParams struct {
	Speed             int
	Gravity           int
	TurnDropThreshold int
	FallKillY         int
	StompDivisor      int
}

// NewEnemy returns the components of a fresh enemy walking left.
func NewEnemy(kind components.EnemyKind, speed int) (components.Velocity, components.Enemy) {
	return components.Velocity{X: -speed}, components.Enemy{Kind: kind, Alive: true, MovingLeft: true}
}

func turn(vel *components.Velocity, en *components.Enemy) {
	vel.X = -vel.X
	en.MovingLeft = !en.MovingLeft
}

// StepEnemy advances one enemy by a frame against the given floors.
func StepEnemy(pos *components.Position, vel *components.Velocity, en *components.Enemy, prm EnemyParams, floors []geom.Rect) {
	if !en.Alive {
		return
	}
	en.Frame++

	vel.Y += prm.Gravity
	old := pos.Pt()
	cur := geom.Pt{X: old.X + vel.X, Y: old.Y + vel.Y}

	grounded := land(floors, old, &cur)
	switch {
	case grounded:
		vel.Y = 0
	case en.Grounded:
		// Walked off an edge it was standing on: stay put and turn back.
		cur = old
		vel.Y = 0
		grounded = true
		turn(vel, en)
	}

	if cur.Y > old.Y+prm.TurnDropThreshold {
		turn(vel, en)
		cur.X = old.X
	}

	pos.X, pos.Y = cur.X, cur.Y
	en.Grounded = grounded

	if pos.Y > prm.FallKillY {
		en.Alive = false
	}
}

// EnemyContact reports whether the player touches an enemy, and if so
// whether the player came down on top of it.
func EnemyContact(pos components.Position, ext components.Extent, feet geom.Pt, stompDivisor int) (hit, stomped bool) {
	if !components.Bounds(pos, ext).Overlaps(PlayerRect(feet)) {
		return false, false
	}
	return true, feet.Y < pos.Y-(2*ext.HalfH)/stompDivisor
}

// EnemySystem steps the enemies near the camera and keeps their finder
// registrations current.
type EnemySystem struct {
	posMap   *ecs.Map[components.Position]
	velMap   *ecs.Map[components.Velocity]
	extMap   *ecs.Map[components.Extent]
	enemyMap *ecs.Map[components.Enemy]
	params   EnemyParams

	dead []ecs.Entity
}

// NewEnemySystem creates an enemy system for w.
func NewEnemySystem(w *ecs.World, params EnemyParams) *EnemySystem {
	return &EnemySystem{
		posMap:   ecs.NewMap[components.Position](w),
		velMap:   ecs.NewMap[components.Velocity](w),
		extMap:   ecs.NewMap[components.Extent](w),
		enemyMap: ecs.NewMap[components.Enemy](w),
		params:   params,
	}
}

// Update steps every entity in nearby and re-registers survivors in finder.
// It returns the dead enemies, which the caller must remove from finder
// before destroying. The returned slice is reused by the next call.
func (s *EnemySystem) Update(nearby []ecs.Entity, floors []geom.Rect, finder *spatial.Finder[ecs.Entity]) []ecs.Entity {
	s.dead = s.dead[:0]
	for _, e := range nearby {
		en := s.enemyMap.Get(e)
		if en.Alive {
			pos := s.posMap.Get(e)
			StepEnemy(pos, s.velMap.Get(e), en, s.params, floors)
			if en.Alive {
				finder.Update(e, components.Bounds(*pos, *s.extMap.Get(e)))
				continue
			}
		}
		s.dead = append(s.dead, e)
	}
	return s.dead
}

package game

import (
	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/scroller/components"
	"github.com/pthm-cable/scroller/geom"
	"github.com/pthm-cable/scroller/spatial"
	"github.com/pthm-cable/scroller/systems"
	"github.com/pthm-cable/scroller/telemetry"
)

// Step runs one frame with the given input.
func (g *Game) Step(in Input) {
	g.perf.StartTick()

	g.handleInput(in)
	if !g.paused && !g.finished {
		g.simulationStep(in)
		g.tick++
		g.flushTelemetry()
	}

	g.perf.EndTick()
	g.debug.ObserveTick(g.perf.LastTick())
}

// handleInput applies the frame's control keys. Pause toggles on the
// press, not while held.
func (g *Game) handleInput(in Input) {
	if in.Quit {
		g.finished = true
	}
	if in.Pause && !g.pauseHeld {
		g.paused = !g.paused
	}
	g.pauseHeld = in.Pause
}

// simulationStep advances the level by one frame.
func (g *Game) simulationStep(in Input) {
	near := g.camera.Expanded(g.cfg.Camera.PhysicsMargin)

	g.perf.StartPhase(telemetry.PhasePlayer)
	g.updatePlayer(in, near)
	if g.finished {
		return
	}

	g.perf.StartPhase(telemetry.PhasePickups)
	g.updateCollectibles(near)

	g.perf.StartPhase(telemetry.PhaseEnemies)
	g.updateEnemies(g.camera.Expanded(g.cfg.Camera.EnemyMargin))

	g.perf.StartPhase(telemetry.PhasePowerUps)
	g.updatePowerUps(near)

	g.perf.StartPhase(telemetry.PhaseBlocks)
	g.updateBlocks(near)

	g.perf.StartPhase(telemetry.PhaseEffects)
	for _, t := range g.effects.Tick() {
		g.emit(telemetry.EventEffectExpired, g.player.Pos, 0, t.String())
	}

	g.perf.StartPhase(telemetry.PhaseCollisions)
	g.checkEnemyCollisions()

	g.perf.StartPhase(telemetry.PhaseCamera)
	g.camera.Follow(g.player.Pos)
}

// nearby queries ix for r and records the query.
// The result is valid until the next query on ix.
func (g *Game) nearby(ix *index, r geom.Rect) []ecs.Entity {
	var qs spatial.QueryStats
	ix.buf, qs = ix.QueryWithStats(ix.buf[:0], r)
	g.collector.RecordQuery(ix.name, qs)
	g.debug.ObserveQuery(ix.name, qs)
	return ix.buf
}

// floors returns the platforms and blocks overlapping r.
// The result is valid until the next call.
func (g *Game) floors(r geom.Rect) []geom.Rect {
	g.floorBuf = g.floorBuf[:0]
	for _, e := range g.nearby(g.platforms, r) {
		g.floorBuf = append(g.floorBuf, g.platformMap.Get(e).Rect)
	}
	for _, e := range g.nearby(g.blocks, r) {
		g.floorBuf = append(g.floorBuf, g.blockMap.Get(e).Rect)
	}
	return g.floorBuf
}

func (g *Game) updatePlayer(in Input, near geom.Rect) {
	controls := systems.Controls{Left: in.Left, Right: in.Right, Jump: in.Jump}
	g.player.Step(controls, g.playerParams, g.effects, g.floors(near))

	if g.player.Pos.Y > g.cfg.Player.FallDeathY {
		g.emit(telemetry.EventDeath, g.player.Pos, 0, "fall")
		if !g.loseLife("fall") {
			g.respawn()
		}
	}
}

func (g *Game) updateCollectibles(near geom.Rect) {
	for _, e := range g.nearby(g.collectibles, near) {
		pos, ext, c := g.pickupMapper.Get(e)
		systems.StepCollectible(pos, c, g.bobParams)
		g.collectibles.Update(e, components.Bounds(*pos, *ext))

		if !systems.WithinPickup(pos.Pt(), g.player.Pos, g.cfg.Collectible.PickupRadius) {
			continue
		}
		c.Collected = true
		g.collected++
		g.score += g.cfg.Scoring.Collectible
		g.emit(telemetry.EventPickup, pos.Pt(), g.cfg.Scoring.Collectible, "")
		g.despawn(g.collectibles, e)
	}
}

func (g *Game) updateEnemies(area geom.Rect) {
	floors := g.floors(area)
	dead := g.enemySystem.Update(g.nearby(g.enemies, area), floors, g.enemies.Finder)
	for _, e := range dead {
		g.emit(telemetry.EventEnemyLost, g.posMap.Get(e).Pt(), 0, g.enemyMap.Get(e).Kind.String())
		g.despawn(g.enemies, e)
	}
}

func (g *Game) updatePowerUps(near geom.Rect) {
	for _, e := range g.nearby(g.powerups, near) {
		pos, _, p := g.powerUpMapper.Get(e)
		systems.StepPowerUp(p)

		if !systems.WithinPickup(pos.Pt(), g.player.Pos, g.cfg.PowerUps.PickupRadius) {
			continue
		}
		p.Collected = true
		g.effects.Apply(p.Type)
		g.score += g.cfg.Scoring.PowerUp
		g.emit(telemetry.EventPowerUp, pos.Pt(), g.cfg.Scoring.PowerUp, p.Type.String())
		g.despawn(g.powerups, e)
	}
}

// updateBlocks runs the bump animation and resolves head hits. Every block
// stops the head; only fresh ones are activated.
func (g *Game) updateBlocks(near geom.Rect) {
	lastHead := systems.PlayerHead(g.player.Last)
	for _, e := range g.nearby(g.blocks, near) {
		b := g.blockMap.Get(e)
		systems.StepBlock(b)

		head := systems.PlayerHead(g.player.Pos)
		if !systems.HeadCrossed(b.Rect, lastHead, head, g.blockParams.HitSlack) {
			continue
		}
		hit := systems.HitFromBelow(b, lastHead, head, g.blockParams)
		g.player.Bonk(b.Rect.Bottom)
		if !hit {
			continue
		}
		contains := b.Contains
		outcome, at := systems.ActivateBlock(b, g.blockParams)
		switch outcome {
		case systems.BlockReleased:
			g.spawnPowerUp(at, contains)
			g.score += g.cfg.Scoring.BlockPowerUp
			g.emit(telemetry.EventBlockHit, at, g.cfg.Scoring.BlockPowerUp, contains.String())
		case systems.BlockBroken:
			g.score += g.cfg.Scoring.Brick
			g.emit(telemetry.EventBlockHit, b.Rect.Center(), 0, b.Type.String())
			g.emit(telemetry.EventBrickBroken, b.Rect.Center(), g.cfg.Scoring.Brick, "")
			g.despawn(g.blocks, e)
		default:
			g.emit(telemetry.EventBlockHit, b.Rect.Center(), 0, b.Type.String())
		}
	}
}

// checkEnemyCollisions resolves contact between the player and enemies.
// A stomp or an active STAR kills the enemy; any other contact costs a
// life unless the player is still immune from the last hit.
func (g *Game) checkEnemyCollisions() {
	star := g.effects.Active(components.Star)
	for _, e := range g.nearby(g.enemies, g.player.Rect()) {
		pos, _, ext, en := g.enemyMapper.Get(e)
		if !en.Alive {
			continue
		}
		hit, stomped := systems.EnemyContact(*pos, *ext, g.player.Pos, g.cfg.Enemy.StompDivisor)
		if !hit {
			continue
		}

		if stomped || star {
			en.Alive = false
			at := pos.Pt()
			if stomped {
				g.player.Bounce(g.cfg.Player.StompBounce)
			}
			g.score += g.cfg.Scoring.Stomp
			g.emit(telemetry.EventStomp, at, g.cfg.Scoring.Stomp, en.Kind.String())
			g.despawn(g.enemies, e)
			continue
		}

		if g.player.Invuln > 0 {
			continue
		}
		g.player.Invuln = g.cfg.Player.HurtInvulnFrames
		g.emit(telemetry.EventHurt, g.player.Pos, 0, en.Kind.String())
		if g.loseLife("enemy") {
			return
		}
	}
}

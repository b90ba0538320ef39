// Package telemetry provides frame timing, spatial index statistics and
// rate-limited game event logging.
package telemetry

import (
	"context"
	"log/slog"
	"time"

	"golang.org/x/time/rate"
)

// EventType identifies game events.
type EventType uint8

const (
	EventPickup EventType = iota
	EventStomp
	EventHurt
	EventPowerUp
	EventEffectExpired
	EventBlockHit
	EventBrickBroken
	EventEnemyLost
	EventDeath
	EventGameOver
	numEventTypes
)

var eventNames = [numEventTypes]string{
	"pickup", "stomp", "hurt", "powerup", "effect_expired",
	"block_hit", "brick_broken", "enemy_lost", "death", "game_over",
}

func (t EventType) String() string {
	if t >= numEventTypes {
		return "unknown"
	}
	return eventNames[t]
}

// Event represents a single game event.
type Event struct {
	Type   EventType
	Tick   int32
	X, Y   int
	Points int    // score awarded
	Detail string // power-up or block type, when relevant
}

// EventLog writes game events to slog, dropping events beyond a sustained
// rate so bursts of pickups cannot flood the log. Every event is counted
// whether or not it is written.
type EventLog struct {
	logger  *slog.Logger
	limiter *rate.Limiter
	now     func() time.Time

	counts  [numEventTypes]uint64
	total   uint64
	dropped uint64
}

// NewEventLog creates an event log allowing perSec events per second with
// the given burst. A nil logger uses slog.Default().
func NewEventLog(logger *slog.Logger, perSec float64, burst int) *EventLog {
	if logger == nil {
		logger = slog.Default()
	}
	if burst < 1 {
		burst = 1
	}
	return &EventLog{
		logger:  logger,
		limiter: rate.NewLimiter(rate.Limit(perSec), burst),
		now:     time.Now,
	}
}

// Emit records ev and logs it if the rate limit allows.
// Returns false if the event was dropped from the log.
func (l *EventLog) Emit(ev Event) bool {
	if ev.Type < numEventTypes {
		l.counts[ev.Type]++
	}
	l.total++

	if !l.limiter.AllowN(l.now(), 1) {
		l.dropped++
		return false
	}

	attrs := []slog.Attr{
		slog.String("type", ev.Type.String()),
		slog.Int("tick", int(ev.Tick)),
		slog.Int("x", ev.X),
		slog.Int("y", ev.Y),
	}
	if ev.Points != 0 {
		attrs = append(attrs, slog.Int("points", ev.Points))
	}
	if ev.Detail != "" {
		attrs = append(attrs, slog.String("detail", ev.Detail))
	}
	l.logger.LogAttrs(context.Background(), slog.LevelInfo, "event", attrs...)
	return true
}

// Count returns how many events of type t were emitted.
func (l *EventLog) Count(t EventType) uint64 {
	if t >= numEventTypes {
		return 0
	}
	return l.counts[t]
}

// Total returns the number of events emitted.
func (l *EventLog) Total() uint64 { return l.total }

// Dropped returns the number of events withheld from the log.
func (l *EventLog) Dropped() uint64 { return l.dropped }

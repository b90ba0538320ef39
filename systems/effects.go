package systems

import "github.com/pthm-cable/scroller/components"

// Effects tracks the frames left on each timed power-up effect.
type Effects struct {
	remaining [len(components.PowerUpTypes)]int
	durations [len(components.PowerUpTypes)]int
	expired   []components.PowerUpType
}

// NewEffects creates an empty effect set. durations gives the frames each
// power-up type lasts, indexed by type.
func NewEffects(durations [len(components.PowerUpTypes)]int) *Effects {
	return &Effects{durations: durations}
}

// Duration returns the configured frames for t.
func (e *Effects) Duration(t components.PowerUpType) int {
	if int(t) >= len(e.durations) {
		return 0
	}
	return e.durations[t]
}

// Apply starts effect t. Re-applying an active effect keeps whichever of the
// remaining and the fresh duration is longer.
func (e *Effects) Apply(t components.PowerUpType) int {
	if int(t) >= len(e.remaining) {
		return 0
	}
	e.remaining[t] = max(e.remaining[t], e.durations[t])
	return e.remaining[t]
}

// Tick advances every active effect by one frame and returns the effects
// that ran out. The returned slice is reused by the next call.
func (e *Effects) Tick() []components.PowerUpType {
	e.expired = e.expired[:0]
	for i := range e.remaining {
		if e.remaining[i] == 0 {
			continue
		}
		e.remaining[i]--
		if e.remaining[i] == 0 {
			e.expired = append(e.expired, components.PowerUpType(i))
		}
	}
	return e.expired
}

// Active reports whether t has frames left.
func (e *Effects) Active(t components.PowerUpType) bool {
	return e.Remaining(t) > 0
}

// Remaining returns the frames left on t.
func (e *Effects) Remaining(t components.PowerUpType) int {
	if int(t) >= len(e.remaining) {
		return 0
	}
	return e.remaining[t]
}

// Clear cancels every effect.
func (e *Effects) Clear() {
	e.remaining = [len(components.PowerUpTypes)]int{}
}

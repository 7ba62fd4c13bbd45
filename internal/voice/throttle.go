package voice

import "time"

// Throttle enforces a minimum gap between spoken prompts. Requests during the cooldown are
// dropped, never queued. The zero value allows everything.
type Throttle struct {
	cooldown time.Duration
	last     time.Time
}

func NewThrottle(cooldown time.Duration) *Throttle {
	return &Throttle{cooldown: cooldown}
}

// Allow reports whether an announcement may go out at now and, if so, records it.
func (t *Throttle) Allow(now time.Time) bool {
	if !t.last.IsZero() && now.Sub(t.last) < t.cooldown {
		return false
	}
	t.last = now
	return true
}

// Mark records an announcement that bypassed the throttle.
func (t *Throttle) Mark(now time.Time) {
	t.last = now
}

func (t *Throttle) SetCooldown(d time.Duration) {
	t.cooldown = d
}

func (t *Throttle) Cooldown() time.Duration {
	return t.cooldown
}

// Package debounce rate-limits gesture dispatch.
//
// The gate accepts a gesture on first sighting and then suppresses it while
// either of two checks holds:
//   - cooldown: less than the cooldown interval has passed since the last acceptance.
//   - repeat: the gesture equals the last accepted one.
//
// A cycle without a gesture clears the remembered gesture, so holding a pose
// fires once and the same pose fires again after the hand returns to neutral.
// It never touches the cooldown timer.
package debounce

import (
	"time"

	"github.com/ayusman/mudra/internal/gesture"
)

// DefaultCooldown is the minimum spacing between two accepted gestures.
const DefaultCooldown = 1500 * time.Millisecond

// Decision is the outcome of one gate step.
type Decision int

const (
	// Reset means no gesture was observed and the remembered gesture was cleared.
	Reset Decision = iota
	// Accepted means the gesture should be dispatched.
	Accepted
	// RejectedCooldown means the cooldown interval has not elapsed yet.
	RejectedCooldown
	// RejectedRepeat means the gesture equals the last accepted gesture.
	RejectedRepeat
)

// String returns the decision name used in logs.
func (d Decision) String() string {
	switch d {
	case Reset:
		return "reset"
	case Accepted:
		return "accepted"
	case RejectedCooldown:
		return "cooldown"
	case RejectedRepeat:
		return "repeat"
	default:
		return "unknown"
	}
}

// State is the gate memory carried from one cycle to the next.
// The zero value means nothing has been accepted yet.
type State struct {
	LastAccepted time.Time
	LastGesture  gesture.Gesture
}

// Gate holds the gate configuration. It is a value; all mutable data lives in State.
type Gate struct {
	Cooldown time.Duration
}

// New returns a Gate with the given cooldown. Non-positive values select DefaultCooldown.
func New(cooldown time.Duration) Gate {
	if cooldown <= 0 {
		cooldown = DefaultCooldown
	}
	return Gate{Cooldown: cooldown}
}

// Step feeds one observation into the gate and returns the next state and the decision.
// Rejections leave the state untouched.
func (g Gate) Step(s State, observed gesture.Gesture, now time.Time) (State, Decision) {
	if observed == gesture.None {
		s.LastGesture = gesture.None
		return s, Reset
	}

	if !s.LastAccepted.IsZero() && now.Sub(s.LastAccepted) < g.Cooldown {
		return s, RejectedCooldown
	}

	if observed == s.LastGesture {
		return s, RejectedRepeat
	}

	return State{LastAccepted: now, LastGesture: observed}, Accepted
}

// Remaining returns how long the cooldown still blocks acceptance at now.
func (g Gate) Remaining(s State, now time.Time) time.Duration {
	if s.LastAccepted.IsZero() {
		return 0
	}
	left := g.Cooldown - now.Sub(s.LastAccepted)
	if left < 0 {
		return 0
	}
	return left
}

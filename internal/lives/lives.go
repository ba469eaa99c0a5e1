// Package lives implements the time-based life regeneration used to gate
// practice sessions.
package lives

import "time"

const (
	// DefaultMax is the number of lives a user holds when fully refilled.
	DefaultMax = 5

	// DefaultRefillMinutes is how long it takes to regenerate one life.
	DefaultRefillMinutes = 30
)

// State is a normalized life count with its refill anchor.
type State struct {
	Lives          int       `json:"lives"`
	LastLifeUpdate time.Time `json:"lastLifeUpdate"`
}

// Policy holds the cap and the refill period.
type Policy struct {
	Max    int
	Period time.Duration
}

// DefaultPolicy returns the standard 5 lives / 30 minute policy.
func DefaultPolicy() Policy {
	return Policy{Max: DefaultMax, Period: DefaultRefillMinutes * time.Minute}
}

// NewPolicy builds a Policy from config values, falling back to defaults
// for non-positive inputs.
func NewPolicy(max, refillMinutes int) Policy {
	p := DefaultPolicy()
	if max > 0 {
		p.Max = max
	}
	if refillMinutes > 0 {
		p.Period = time.Duration(refillMinutes) * time.Minute
	}
	return p
}

// Recalculate returns how many lives the user holds at now.
//
// A full state pins the anchor to now so no refill time is banked while at the
// cap. Below the cap the anchor advances by whole refill periods only, which
// keeps partial progress toward the next life.
func (p Policy) Recalculate(s State, now time.Time) State {
	if s.Lives < 0 {
		s.Lives = 0
	}
	if s.Lives >= p.Max {
		return State{Lives: p.Max, LastLifeUpdate: now}
	}

	elapsed := now.Sub(s.LastLifeUpdate)
	if elapsed < p.Period || p.Period <= 0 {
		return s
	}

	earned := int(elapsed / p.Period)
	applied := min(earned, p.Max-s.Lives)

	return State{
		Lives:          s.Lives + applied,
		LastLifeUpdate: s.LastLifeUpdate.Add(time.Duration(applied) * p.Period),
	}
}

// Debit spends one life from an already recalculated state. Spending from a
// full state restarts the refill countdown at now; otherwise the running
// countdown is preserved.
func (p Policy) Debit(s State, now time.Time) State {
	anchor := s.LastLifeUpdate
	if s.Lives >= p.Max {
		anchor = now
	}
	return State{Lives: s.Lives - 1, LastLifeUpdate: anchor}
}

// Refund gives one life back, never exceeding the cap.
func (p Policy) Refund(s State, now time.Time) State {
	if s.Lives+1 >= p.Max {
		return State{Lives: p.Max, LastLifeUpdate: now}
	}
	return State{Lives: s.Lives + 1, LastLifeUpdate: s.LastLifeUpdate}
}

// NextRefill reports when the next life arrives. The second result is false
// when the state is already full.
func (p Policy) NextRefill(s State) (time.Time, bool) {
	if s.Lives >= p.Max {
		return time.Time{}, false
	}
	return s.LastLifeUpdate.Add(p.Period), true
}

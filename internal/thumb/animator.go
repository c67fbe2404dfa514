// Package thumb animates the sliding thumb of a switch.
package thumb

import (
	"math"
	"time"

	"github.com/rs/zerolog/log"
)

// Unset is the offset of a thumb whose track has not been measured yet.
const Unset = math.MinInt

// DefaultDuration is the length of one thumb transition.
const DefaultDuration = 100 * time.Millisecond

// State represents where the thumb is in its transition.
type State int

const (
	StateUnset State = iota
	StateAtRest
	StateAnimating
)

// String returns a human-readable name for the state.
func (s State) String() string {
	switch s {
	case StateUnset:
		return "unset"
	case StateAtRest:
		return "at_rest"
	case StateAnimating:
		return "animating"
	default:
		return "unknown"
	}
}

// Animator moves the thumb's left offset between 0 (off) and half the track
// width (on). It owns no timers: the host samples it once per frame.
type Animator struct {
	clock    Clock
	duration time.Duration
	enabled  bool

	state   State
	current int
	from    int
	to      int
	start   time.Time

	onUpdate func(offset int)
}

// New creates an animator in the unset state.
func New(clock Clock, duration time.Duration, enabled bool) *Animator {
	if clock == nil {
		clock = SystemClock{}
	}
	return &Animator{
		clock:    clock,
		duration: duration,
		enabled:  enabled,
		state:    StateUnset,
		current:  Unset,
	}
}

// OnUpdate registers the redraw request issued for every sampled offset.
func (a *Animator) OnUpdate(fn func(offset int)) {
	a.onUpdate = fn
}

// SetEnabled turns animation on or off. Disabling stops a running transition
// at its target.
func (a *Animator) SetEnabled(enabled bool) {
	a.enabled = enabled
	if !enabled && a.state == StateAnimating {
		a.settle(a.to)
	}
}

// Enabled reports whether transitions are animated.
func (a *Animator) Enabled() bool { return a.enabled }

// State returns the current state.
func (a *Animator) State() State { return a.state }

// Offset returns the current left offset, or Unset.
func (a *Animator) Offset() int { return a.current }

// Target returns the offset the thumb is moving to or resting at.
func (a *Animator) Target() int {
	if a.state == StateAnimating {
		return a.to
	}
	return a.current
}

// Animating reports whether a transition is in progress.
func (a *Animator) Animating() bool { return a.state == StateAnimating }

// OnSelectionChanged starts the transition to the resting offset of selected.
func (a *Animator) OnSelectionChanged(selected bool, trackWidth int) {
	target := restingOffset(selected, trackWidth)

	if !a.enabled || trackWidth <= 0 || a.duration <= 0 {
		a.settle(target)
		return
	}

	from := a.current
	if a.state == StateUnset {
		from = restingOffset(!selected, trackWidth)
	}
	if from == target {
		a.settle(target)
		return
	}

	a.state = StateAnimating
	a.from = from
	a.to = target
	a.start = a.clock.Now()

	log.Debug().Int("from", from).Int("to", target).Msg("Thumb animation started")
}

// Sample advances a running transition to the clock's current time, requests
// a redraw and returns the offset. The last sample lands exactly on the target.
func (a *Animator) Sample() (offset int, animating bool) {
	if a.state != StateAnimating {
		return a.current, false
	}

	elapsed := a.clock.Now().Sub(a.start)
	if elapsed >= a.duration {
		a.settle(a.to)
		return a.current, false
	}

	fraction := ease(float64(elapsed) / float64(a.duration))
	a.current = a.from + int(fraction*float64(a.to-a.from))
	a.update()
	return a.current, true
}

// Cancel stops a running transition where it is. No further samples are issued.
func (a *Animator) Cancel() {
	if a.state == StateAnimating {
		a.state = StateAtRest
	}
}

// Resize reacts to a new track width. A running transition keeps its start and
// origin and is retargeted to the resting offset of selected on the new track.
// Otherwise the offset is forgotten and the next Resolve recomputes it from the
// selection without animating.
func (a *Animator) Resize(selected bool, trackWidth int) {
	if a.state == StateAnimating {
		a.to = restingOffset(selected, trackWidth)
		log.Debug().Int("to", a.to).Msg("Thumb animation retargeted")
		return
	}
	a.state = StateUnset
	a.current = Unset
}

// Resolve returns the offset to draw with, computing the resting offset when
// the thumb is unset.
func (a *Animator) Resolve(selected bool, trackWidth int) int {
	if a.state == StateUnset {
		a.state = StateAtRest
		a.current = restingOffset(selected, trackWidth)
	}
	return a.current
}

func (a *Animator) settle(offset int) {
	a.state = StateAtRest
	a.current = offset
	a.update()
}

func (a *Animator) update() {
	if a.onUpdate != nil {
		a.onUpdate(a.current)
	}
}

func restingOffset(selected bool, trackWidth int) int {
	if selected {
		return trackWidth / 2
	}
	return 0
}

// ease is an accelerate/decelerate curve over [0, 1].
func ease(t float64) float64 {
	return math.Cos((t+1)*math.Pi)/2 + 0.5
}

package engine

import "time"

// Timer is the cancellable debounce timer owned by the engine instance.
// Production code uses AfterFunc; tests install a TimerFactory whose
// timers fire under manual control, so debounce behavior is verified
// without wall-clock sleeps.
type Timer interface {
	Stop() bool
}

type TimerFactory func(d time.Duration, fn func()) Timer

// AfterFunc is the production TimerFactory.
func AfterFunc(d time.Duration, fn func()) Timer {
	return time.AfterFunc(d, fn)
}

// state tracks the scheduler's position in the recompute lifecycle.
type state int

const (
	stateIdle state = iota
	statePendingRecompute
	stateComputing
)

func (s state) String() string {
	switch s {
	case stateIdle:
		return "idle"
	case statePendingRecompute:
		return "pending-recompute"
	case stateComputing:
		return "computing"
	}
	return "unknown"
}

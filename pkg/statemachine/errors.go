package statemachine

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidTransition = errors.New("statemachine: transition needs from, to and event")
	ErrInvalidEvent      = errors.New("statemachine: nil event")
	ErrInvalidState      = errors.New("statemachine: nil state")

	// ErrNoTransition means the table has no row for the state and event.
	ErrNoTransition = errors.New("statemachine: no transition")
	// ErrRejected means rows exist but every one was vetoed by a guard.
	ErrRejected = errors.New("statemachine: transition rejected by guards")
)

// TransitionError carries the state and event a lookup failed for. It
// unwraps to ErrNoTransition or ErrRejected.
type TransitionError struct {
	State string
	Event string
	Err   error
}

func (e *TransitionError) Error() string {
	return fmt.Sprintf("%v: %s on %s", e.Err, e.Event, e.State)
}

func (e *TransitionError) Unwrap() error { return e.Err }

func transitionError(from State, event Event, err error) error {
	return &TransitionError{State: from.Name(), Event: event.Name(), Err: err}
}

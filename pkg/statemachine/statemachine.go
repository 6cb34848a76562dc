package statemachine

import "context"

// State is anything with a stable name. Typed string enums satisfy it with
// a one-line Name method.
type State interface {
	Name() string
}

// Event names a trigger.
type Event interface {
	Name() string
}

// Guard vetoes a transition when it returns false.
type Guard func(ctx context.Context, from State, event Event, data any) bool

// Action runs before the state changes; an error aborts the transition.
type Action func(ctx context.Context, from, to State, event Event, data any) error

// Transition is one row of a Definition.
type Transition struct {
	From    State
	To      State
	Event   Event
	Guards  []Guard
	Actions []Action
}

// StateMachine tracks the current state of one record.
type StateMachine interface {
	Current() State
	Fire(ctx context.Context, event Event, data any) error
	CanFire(ctx context.Context, event Event, data any) bool
}

type StringState string

func (s StringState) Name() string { return string(s) }

type StringEvent string

func (e StringEvent) Name() string { return string(e) }

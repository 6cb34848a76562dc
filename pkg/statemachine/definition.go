package statemachine

import (
	"context"
	"fmt"
	"sync"
)

// Definition is an immutable transition table. A single Definition can start
// any number of machines, each tracking its own current state.
type Definition struct {
	// [fromState][event] -> candidate transitions in registration order
	transitions map[string]map[string][]Transition
}

// NewDefinition builds a transition table from options.
func NewDefinition(opts ...Option) (*Definition, error) {
	d := &Definition{transitions: make(map[string]map[string][]Transition)}
	for _, opt := range opts {
		if err := opt(d); err != nil {
			return nil, err
		}
	}
	return d, nil
}

// MustDefinition is like NewDefinition but panics on error.
func MustDefinition(opts ...Option) *Definition {
	d, err := NewDefinition(opts...)
	if err != nil {
		panic(fmt.Sprintf("failed to build state machine definition: %v", err))
	}
	return d
}

func (d *Definition) add(from, to State, event Event, guards []Guard, actions []Action) error {
	if from == nil || to == nil || event == nil {
		return ErrInvalidTransition
	}
	byEvent, ok := d.transitions[from.Name()]
	if !ok {
		byEvent = make(map[string][]Transition)
		d.transitions[from.Name()] = byEvent
	}
	// Several transitions may share from/event; guards pick the branch.
	byEvent[event.Name()] = append(byEvent[event.Name()], Transition{
		From:    from,
		To:      to,
		Event:   event,
		Guards:  guards,
		Actions: actions,
	})
	return nil
}

// resolve returns the first transition out of from whose guards all pass.
func (d *Definition) resolve(ctx context.Context, from State, event Event, data any) (*Transition, error) {
	candidates := d.transitions[from.Name()][event.Name()]
	if len(candidates) == 0 {
		return nil, transitionError(from, event, ErrNoTransition)
	}
	for i, t := range candidates {
		passed := true
		for _, guard := range t.Guards {
			if !guard(ctx, from, event, data) {
				passed = false
				break
			}
		}
		if passed {
			return &candidates[i], nil
		}
	}
	return nil, transitionError(from, event, ErrRejected)
}

// Next reports the state event would lead to from the given state without
// running actions.
func (d *Definition) Next(ctx context.Context, from State, event Event, data any) (State, error) {
	if from == nil {
		return nil, ErrInvalidState
	}
	if event == nil {
		return nil, ErrInvalidEvent
	}
	t, err := d.resolve(ctx, from, event, data)
	if err != nil {
		return nil, err
	}
	return t.To, nil
}

// Start returns a machine positioned at initial.
func (d *Definition) Start(initial State) (StateMachine, error) {
	if initial == nil {
		return nil, ErrInvalidState
	}
	return &machine{def: d, current: initial}, nil
}

// New creates a standalone state machine with its own definition.
func New(initial State, opts ...Option) (StateMachine, error) {
	d, err := NewDefinition(opts...)
	if err != nil {
		return nil, err
	}
	return d.Start(initial)
}

// MustNew creates a new state machine and panics if any option fails to apply.
func MustNew(initial State, opts ...Option) StateMachine {
	sm, err := New(initial, opts...)
	if err != nil {
		panic(fmt.Sprintf("failed to create state machine: %v", err))
	}
	return sm
}

type machine struct {
	def     *Definition
	mu      sync.RWMutex
	current State
}

func (m *machine) Current() State {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.current
}

func (m *machine) Fire(ctx context.Context, event Event, data any) error {
	if event == nil {
		return ErrInvalidEvent
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	t, err := m.def.resolve(ctx, m.current, event, data)
	if err != nil {
		return err
	}

	// Any failing action aborts the transition.
	for _, action := range t.Actions {
		if err := action(ctx, m.current, t.To, event, data); err != nil {
			return fmt.Errorf("action failed: %w", err)
		}
	}

	m.current = t.To
	return nil
}

func (m *machine) CanFire(ctx context.Context, event Event, data any) bool {
	if event == nil {
		return false
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, err := m.def.resolve(ctx, m.current, event, data)
	return err == nil
}

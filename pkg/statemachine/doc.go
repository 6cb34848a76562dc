// Package statemachine implements small finite state machines built from a
// declarative transition table.
//
// A Definition holds the table: from-state, event, target state, plus optional
// guards and actions. It is immutable once built and can start any number of
// machines with Start, each tracking its own current state. That suits records
// whose state is persisted elsewhere: load the record, Start a machine at its
// stored state, Fire the event, and persist the new Current().
//
//	const (
//	    Pending = statemachine.StringState("PENDING")
//	    Sending = statemachine.StringState("SENDING")
//	    Send    = statemachine.StringEvent("send")
//	)
//
//	def := statemachine.MustDefinition(
//	    statemachine.WithTransition(Pending, Sending, Send),
//	)
//
//	sm, _ := def.Start(Pending)
//	if err := sm.Fire(ctx, Send, nil); err != nil {
//	    // ...
//	}
//
// Next answers the same question without a machine and without running
// actions.
//
// Guards veto a transition based on runtime data; when several transitions
// share a from/event pair the first one whose guards pass wins. Actions run
// in order after the guards and before the state changes. A failing action
// aborts the transition.
//
// Lookup failures are *TransitionError values wrapping ErrNoTransition (no
// row for the state and event) or ErrRejected (every row vetoed by guards).
package statemachine

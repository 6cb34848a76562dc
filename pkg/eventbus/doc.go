// Package eventbus fans domain events out to independent adapters.
//
// A Bus is built once with its adapters and passed to whoever emits events:
//
//	bus := eventbus.New(
//	    eventbus.WithAdapters(
//	        eventbus.Named("notifications", notifyAdapter),
//	        eventbus.Named("audit", auditAdapter),
//	    ),
//	    eventbus.WithLogger(log),
//	)
//	ev = bus.Emit(ctx, ev)
//
// Emit runs every adapter in its own goroutine and waits for all of them.
// It never returns an error: a failing or panicking adapter is logged and
// reported to the Observer while the others carry on.
package eventbus

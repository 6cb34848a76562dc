// Package async provides small generic helpers for running work in goroutines
// and collecting the outcome.
//
// Async starts a function in its own goroutine and returns a *Future. Callers
// wait with Await, bound the wait with AwaitWithTimeout, or poll IsComplete.
// A panic inside the function does not crash the process; it completes the
// future with an error wrapping ErrPanic.
//
// WaitAll collects results in order and stops at the first error. When every
// task must run to completion regardless of its siblings, use WaitAllSettled:
//
//	futures := make([]*async.Future[struct{}], 0, len(handlers))
//	for _, h := range handlers {
//	    futures = append(futures, async.Async(ctx, evt, h))
//	}
//	for i, res := range async.WaitAllSettled(futures...) {
//	    if res.Err != nil {
//	        log.Printf("handler %d failed: %v", i, res.Err)
//	    }
//	}
package async

// Package handler provides typed HTTP handlers on top of net/http.
//
// A HandlerFunc receives a request struct filled by binders and returns a
// Response. Wrap adapts it to http.HandlerFunc:
//
//	r.Get("/notifications/{id}", handler.Wrap(getNotification,
//		handler.WithBinders(binder.Path(chi.URLParam)),
//		handler.WithErrorHandler(handler.NewErrorHandler(log, mapErrors)),
//	))
//
// # Responses
//
// JSON and JSONError render the standard envelope:
//
//	{"data": ..., "meta": {...}}
//	{"error": {"code": "not_found", "message": "..."}}
//
// Status codes come from HTTPError values found in the error chain, so
// domain errors are joined with ErrNotFound, ErrBadRequest and friends by an
// ErrorMapper. Binding failures are always wrapped in ErrBadRequest.
//
// Stream opens a datastar server-sent event stream for long-lived updates:
// components are patched into the page with SendComponent and state is
// pushed with SendSignals.
package handler

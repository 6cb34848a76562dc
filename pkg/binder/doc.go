// Package binder decodes HTTP request data into Go structs.
//
// Each binder reads one source and only touches the fields tagged for it, so
// several binders can fill the same request struct:
//
//	type DispatchRequest struct {
//		ID    string `path:"id"`
//		Force bool   `query:"force"`
//	}
//
//	var req DispatchRequest
//	if err := binder.Path(chi.URLParam)(r, &req); err != nil { ... }
//	if err := binder.Query()(r, &req); err != nil { ... }
//
// JSON bodies are decoded strictly: unknown fields, trailing data and bodies
// over DefaultMaxJSONSize are rejected. Query and path values support the
// basic scalar kinds, pointers for optional values, and slices (repeated
// keys or comma separated lists).
//
// All failures wrap one of the package errors, so callers map them to a 400
// with errors.Is.
package binder

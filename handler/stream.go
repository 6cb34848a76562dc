package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/a-h/templ"
	"github.com/starfederation/datastar-go/datastar"
)

// Patch mode aliases for convenience
const (
	PatchOuter   = datastar.ElementPatchModeOuter
	PatchInner   = datastar.ElementPatchModeInner
	PatchAppend  = datastar.ElementPatchModeAppend
	PatchPrepend = datastar.ElementPatchModePrepend
	PatchRemove  = datastar.ElementPatchModeRemove
)

// EventStreamAccept is the Accept header value that asks for server-sent events.
const EventStreamAccept = "text/event-stream"

// IsEventStream reports whether r asks for server-sent events, either through
// the Accept header or the datastar query parameter.
func IsEventStream(r *http.Request) bool {
	if strings.Contains(r.Header.Get("Accept"), EventStreamAccept) {
		return true
	}
	return r.URL.Query().Has("datastar")
}

// PatchOption configures where a component lands on the page.
type PatchOption = datastar.PatchElementOption

// WithTarget sets the CSS selector of the patched element.
func WithTarget(selector string) PatchOption {
	return datastar.WithSelector(selector)
}

// WithPatchMode sets how the component is merged into the target.
func WithPatchMode(mode datastar.ElementPatchMode) PatchOption {
	return datastar.WithMode(mode)
}

// StreamContext is a Context with an open datastar event stream.
type StreamContext interface {
	Context

	// SendComponent renders component and patches it into the page.
	SendComponent(component templ.Component, opts ...PatchOption) error

	// SendSignals updates frontend signals.
	SendSignals(signals map[string]any) error
}

// StreamFunc runs for the lifetime of an event stream. Returning ends the
// stream; it should return nil once the client goes away.
type StreamFunc func(ctx StreamContext) error

type streamResponse struct {
	fn StreamFunc
}

// Stream opens a datastar event stream and hands it to fn. Requests that
// do not accept event streams get 406.
//
//	return handler.Stream(func(stream handler.StreamContext) error {
//		for msg := range updates {
//			if err := stream.SendComponent(item(msg), handler.WithTarget("#feed")); err != nil {
//				return err
//			}
//		}
//		return nil
//	})
func Stream(fn StreamFunc) Response {
	return streamResponse{fn: fn}
}

func (s streamResponse) Render(w http.ResponseWriter, r *http.Request) error {
	if !IsEventStream(r) {
		return ErrNotAcceptable
	}
	ctx := &streamContext{
		Context: NewContext(w, r),
		sse:     datastar.NewSSE(w, r),
	}
	if err := s.fn(ctx); err != nil {
		return errors.Join(ErrStreamInterrupted, err)
	}
	return nil
}

type streamContext struct {
	Context
	sse *datastar.ServerSentEventGenerator
}

func (c *streamContext) SendComponent(component templ.Component, opts ...PatchOption) error {
	return c.sse.PatchElementTempl(component, opts...)
}

func (c *streamContext) SendSignals(signals map[string]any) error {
	data, err := json.Marshal(signals)
	if err != nil {
		return err
	}
	return c.sse.PatchSignals(data)
}

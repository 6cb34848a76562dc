package audit

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/dmitrymomot/courier/pkg/event"
	"github.com/dmitrymomot/courier/pkg/logger"
)

// Adapter records every emitted event. It implements eventbus.Adapter.
type Adapter struct {
	writer Writer
	filter *PayloadFilter
	now    func() time.Time
	logger *slog.Logger
}

type AdapterOption func(*Adapter)

// WithFilter replaces the default payload filter.
func WithFilter(f *PayloadFilter) AdapterOption {
	return func(a *Adapter) {
		if f == nil {
			panic("audit: payload filter cannot be nil")
		}
		a.filter = f
	}
}

func WithLogger(l *slog.Logger) AdapterOption {
	return func(a *Adapter) {
		if l == nil {
			panic("audit: logger cannot be nil")
		}
		a.logger = l
	}
}

func WithClock(now func() time.Time) AdapterOption {
	return func(a *Adapter) {
		if now == nil {
			panic("audit: clock cannot be nil")
		}
		a.now = now
	}
}

func NewAdapter(w Writer, opts ...AdapterOption) *Adapter {
	if w == nil {
		panic("audit: writer cannot be nil")
	}
	a := &Adapter{
		writer: w,
		filter: NewPayloadFilter(),
		now:    time.Now,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

func (a *Adapter) Publish(ctx context.Context, ev event.Event) error {
	r := a.record(ev)
	if err := a.writer.Store(ctx, r); err != nil {
		return err
	}
	a.logger.LogAttrs(ctx, slog.LevelDebug, "event audited",
		logger.EventID(ev.ID),
		logger.EventType(ev.Type.String()),
	)
	return nil
}

// record converts ev into a filtered, fingerprinted Record.
func (a *Adapter) record(ev event.Event) Record {
	r := Record{
		ID:         uuid.NewString(),
		EventID:    ev.ID,
		EventType:  ev.Type.String(),
		OrgID:      ev.OrgID,
		Recipients: ev.Recipients(),
		Version:    ev.Version,
		OccurredAt: ev.OccurredAt.UTC(),
		RecordedAt: a.now().UTC(),
	}
	if r.Recipients == nil {
		r.Recipients = []string{}
	}

	if raw, ok := ev.Payload.(event.Raw); ok && raw.Err != nil {
		r.PayloadErr = raw.Err.Error()
	}
	payload, err := payloadMap(ev.Payload)
	if err != nil && r.PayloadErr == "" {
		r.PayloadErr = err.Error()
	}
	r.Payload = a.filter.Filter(payload)
	r.Fingerprint = Fingerprint(r)
	return r
}

// payloadMap returns the payload as a generic JSON object. Payloads that are
// not objects are kept under the "value" key.
func payloadMap(p event.Payload) (map[string]any, error) {
	if p == nil {
		return nil, nil
	}
	raw, err := event.EncodePayload(p)
	if err != nil || len(raw) == 0 {
		return nil, err
	}
	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		return nil, err
	}
	if m, ok := v.(map[string]any); ok {
		return m, nil
	}
	return map[string]any{"value": v}, nil
}

package telemetry

import (
	"context"
	"encoding/json"
	"errors"
	"strings"

	"github.com/nats-io/nats.go/jetstream"

	"github.com/dmitrymomot/courier/pkg/event"
)

// Publisher is the part of jetstream.JetStream the adapter needs.
type Publisher interface {
	Publish(ctx context.Context, subject string, data []byte, opts ...jetstream.PublishOpt) (*jetstream.PubAck, error)
}

// NATSAdapter publishes events to JetStream.
type NATSAdapter struct {
	js     Publisher
	prefix string
}

func NewNATSAdapter(js Publisher, subjectPrefix string) *NATSAdapter {
	if js == nil {
		panic("telemetry: jetstream publisher cannot be nil")
	}
	return &NATSAdapter{js: js, prefix: strings.TrimSuffix(subjectPrefix, ".")}
}

// Wildcards and separators are not allowed inside a subject token.
var subjectToken = strings.NewReplacer(".", "_", "*", "_", ">", "_", " ", "_")

// Subject returns the subject events of type t are published on.
func (a *NATSAdapter) Subject(t event.Type) string {
	token := subjectToken.Replace(strings.ToLower(strings.TrimSpace(t.String())))
	if token == "" {
		token = "unknown"
	}
	if a.prefix == "" {
		return token
	}
	return a.prefix + "." + token
}

func (a *NATSAdapter) Publish(ctx context.Context, ev event.Event) error {
	data, err := json.Marshal(ev)
	if err != nil {
		return errors.Join(ErrEncode, err)
	}
	if _, err := a.js.Publish(ctx, a.Subject(ev.Type), data, jetstream.WithMsgID(ev.ID)); err != nil {
		return errors.Join(ErrPublish, err)
	}
	return nil
}

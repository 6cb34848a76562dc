package eventbus

import (
	"context"
	"fmt"
	"time"

	"github.com/dmitrymomot/courier/pkg/event"
)

// Adapter receives every emitted event.
type Adapter interface {
	Publish(ctx context.Context, ev event.Event) error
}

// AdapterFunc adapts a plain function to Adapter.
type AdapterFunc func(ctx context.Context, ev event.Event) error

func (f AdapterFunc) Publish(ctx context.Context, ev event.Event) error {
	return f(ctx, ev)
}

// Named gives an adapter a stable name for logs and metrics.
func Named(name string, a Adapter) Adapter {
	return namedAdapter{name: name, Adapter: a}
}

type namedAdapter struct {
	Adapter
	name string
}

func (n namedAdapter) Name() string { return n.name }

func adapterName(a Adapter, i int) string {
	if n, ok := a.(interface{ Name() string }); ok && n.Name() != "" {
		return n.Name()
	}
	return fmt.Sprintf("adapter-%d", i)
}

// Observer is notified once per adapter per emitted event.
// err is nil on success.
type Observer interface {
	ObservePublish(adapter string, ev event.Event, err error, elapsed time.Duration)
}

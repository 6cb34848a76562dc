package notify

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"time"
)

// Provider sends messages over one channel. Send reports every failure in
// the result; it never panics or returns an error of its own.
type Provider interface {
	Channel() Channel
	Send(ctx context.Context, msg Message, address string) DeliveryResult
}

// DeliveryResult is the outcome of one Send.
type DeliveryResult struct {
	Success     bool
	ExternalID  string
	DeliveredAt *time.Time
	Err         error
}

// Succeeded builds a successful result. A zero at leaves DeliveredAt unset
// so the dispatcher stamps it.
func Succeeded(externalID string, at time.Time) DeliveryResult {
	r := DeliveryResult{Success: true, ExternalID: externalID}
	if !at.IsZero() {
		r.DeliveredAt = &at
	}
	return r
}

// Failed builds a failed result.
func Failed(err error) DeliveryResult {
	return DeliveryResult{Err: err}
}

// ErrorText is the text stored on a failed delivery.
func (r DeliveryResult) ErrorText() string {
	if r.Err == nil || r.Err.Error() == "" {
		return ErrUnknownDeliveryError.Error()
	}
	return r.Err.Error()
}

// ProviderFunc adapts a function to Provider.
func ProviderFunc(ch Channel, fn func(ctx context.Context, msg Message, address string) DeliveryResult) Provider {
	return providerFunc{ch: ch, fn: fn}
}

type providerFunc struct {
	ch Channel
	fn func(ctx context.Context, msg Message, address string) DeliveryResult
}

func (p providerFunc) Channel() Channel { return p.ch }

func (p providerFunc) Send(ctx context.Context, msg Message, address string) DeliveryResult {
	return p.fn(ctx, msg, address)
}

// Registry maps channels to providers. It is read-only after construction.
type Registry struct {
	providers map[Channel]Provider
}

// NewRegistry registers one provider per channel.
func NewRegistry(providers ...Provider) (*Registry, error) {
	r := &Registry{providers: make(map[Channel]Provider, len(providers))}
	for _, p := range providers {
		if p == nil {
			return nil, errors.Join(ErrInvalidProvider, errors.New("provider is nil"))
		}
		ch := p.Channel()
		if !ch.Valid() {
			return nil, errors.Join(ErrInvalidProvider, fmt.Errorf("unknown channel %q", ch))
		}
		if _, dup := r.providers[ch]; dup {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateProvider, ch)
		}
		r.providers[ch] = p
	}
	return r, nil
}

// MustRegistry is like NewRegistry but panics on error.
func MustRegistry(providers ...Provider) *Registry {
	r, err := NewRegistry(providers...)
	if err != nil {
		panic(fmt.Sprintf("failed to build provider registry: %v", err))
	}
	return r
}

func (r *Registry) Resolve(ch Channel) (Provider, bool) {
	if r == nil {
		return nil, false
	}
	p, ok := r.providers[ch]
	return p, ok
}

// Channels returns the configured channels in canonical order.
func (r *Registry) Channels() []Channel {
	var out []Channel
	for _, ch := range Channels {
		if _, ok := r.providers[ch]; ok {
			out = append(out, ch)
		}
	}
	return slices.Clip(out)
}

package providers

import (
	"time"

	"github.com/dmitrymomot/courier/pkg/webhook"
)

// Circuit breaker defaults shared by the HTTP providers.
const (
	breakerFailures = 5
	breakerSuccess  = 2
	breakerRecovery = 30 * time.Second
)

// httpTransport is the outbound HTTP side of a provider: one sender and one
// circuit breaker per configured endpoint.
type httpTransport struct {
	sender  *webhook.Sender
	breaker *webhook.CircuitBreaker
	timeout time.Duration
}

func newHTTPTransport(sender *webhook.Sender, timeout time.Duration) httpTransport {
	if sender == nil {
		sender = webhook.NewSender()
	}
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return httpTransport{
		sender:  sender,
		breaker: webhook.NewCircuitBreaker(breakerFailures, breakerSuccess, breakerRecovery),
		timeout: timeout,
	}
}

func (t httpTransport) options(extra ...webhook.SendOption) []webhook.SendOption {
	return append([]webhook.SendOption{
		webhook.WithTimeout(t.timeout),
		webhook.WithCircuitBreaker(t.breaker),
	}, extra...)
}

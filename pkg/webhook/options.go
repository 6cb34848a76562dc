package webhook

import (
	"net/http"
	"time"
)

type sendOptions struct {
	timeout         time.Duration
	headers         map[string]string
	httpClient      *http.Client
	signatureSecret string
	circuitBreaker  *CircuitBreaker
}

func defaultSendOptions() *sendOptions {
	return &sendOptions{
		timeout: 10 * time.Second,
		headers: make(map[string]string),
	}
}

// SendOption configures a single Post call.
type SendOption func(*sendOptions)

// WithTimeout bounds the request. Default is 10 seconds.
func WithTimeout(timeout time.Duration) SendOption {
	return func(o *sendOptions) {
		if timeout > 0 {
			o.timeout = timeout
		}
	}
}

// WithHeader adds a request header. Empty keys or values are ignored.
func WithHeader(key, value string) SendOption {
	return func(o *sendOptions) {
		if key != "" && value != "" {
			o.headers[key] = value
		}
	}
}

// WithBearerToken sets the Authorization header.
func WithBearerToken(token string) SendOption {
	return WithHeader("Authorization", "Bearer "+token)
}

// WithSignature signs the payload with HMAC-SHA256 and attaches the
// X-Webhook-Signature, X-Webhook-Timestamp and X-Webhook-ID headers.
func WithSignature(secret string) SendOption {
	return func(o *sendOptions) {
		o.signatureSecret = secret
	}
}

// WithHTTPClient overrides the sender's client for this call.
func WithHTTPClient(client *http.Client) SendOption {
	return func(o *sendOptions) {
		if client != nil {
			o.httpClient = client
		}
	}
}

// WithCircuitBreaker guards the call with cb. Share one breaker per endpoint.
func WithCircuitBreaker(cb *CircuitBreaker) SendOption {
	return func(o *sendOptions) {
		o.circuitBreaker = cb
	}
}

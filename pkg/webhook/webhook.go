package webhook

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// maxResponseBody caps how much of a response is kept in memory.
const maxResponseBody = 64 * 1024

// Response describes a completed HTTP exchange.
type Response struct {
	StatusCode int
	Body       []byte
	Duration   time.Duration
}

// Decode unmarshals the response body as JSON into v.
func (r Response) Decode(v any) error {
	if len(r.Body) == 0 {
		return fmt.Errorf("%w: empty response body", ErrInvalidResponse)
	}
	if err := json.Unmarshal(r.Body, v); err != nil {
		return errors.Join(ErrInvalidResponse, err)
	}
	return nil
}

// Sender posts JSON payloads to HTTP endpoints, one attempt per call.
// Zero value is not usable; use NewSender.
type Sender struct {
	client    *http.Client
	userAgent string
}

// NewSender creates a sender with a pooled HTTP client.
func NewSender() *Sender {
	return &Sender{
		client: &http.Client{
			Timeout: 30 * time.Second, // upper bound; WithTimeout narrows it per request
			Transport: &http.Transport{
				MaxIdleConns:        100,
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     90 * time.Second,
			},
		},
		userAgent: "courier/1.0",
	}
}

// NewSenderWithClient creates a sender around a custom HTTP client.
func NewSenderWithClient(client *http.Client) *Sender {
	s := NewSender()
	if client != nil {
		s.client = client
	}
	return s
}

// Post marshals data to JSON and POSTs it to endpoint in a single attempt.
//
// A 2xx status returns the response and a nil error. Any other outcome
// returns the response gathered so far and an error wrapping one of
// ErrTimeout, ErrTemporaryFailure, ErrPermanentFailure or ErrCircuitOpen.
//
//	resp, err := sender.Post(ctx, endpoint, msg,
//	    webhook.WithTimeout(5*time.Second),
//	    webhook.WithCircuitBreaker(cb),
//	)
func (s *Sender) Post(ctx context.Context, endpoint string, data any, opts ...SendOption) (Response, error) {
	payload, err := json.Marshal(data)
	if err != nil {
		return Response{}, errors.Join(ErrInvalidPayload, err)
	}
	if err := validateInputs(endpoint, payload); err != nil {
		return Response{}, err
	}

	options := defaultSendOptions()
	for _, opt := range opts {
		opt(options)
	}

	if options.circuitBreaker != nil && !options.circuitBreaker.Allow() {
		return Response{}, ErrCircuitOpen
	}

	resp, err := s.do(ctx, endpoint, payload, options)

	if options.circuitBreaker != nil {
		recordOutcome(options.circuitBreaker, err)
	}
	return resp, err
}

// recordOutcome feeds the breaker with endpoint health only. A permanent
// (4xx) rejection means the endpoint answered; it concerns the request, such
// as one bad recipient, and must not trip the circuit for everyone else.
func recordOutcome(cb *CircuitBreaker, err error) {
	switch {
	case err == nil, errors.Is(err, ErrPermanentFailure):
		cb.RecordSuccess()
	case errors.Is(err, context.Canceled):
		// caller gave up; says nothing about the endpoint
	case errors.Is(err, ErrTimeout), errors.Is(err, ErrTemporaryFailure):
		cb.RecordFailure()
	}
}

func validateInputs(endpoint string, payload []byte) error {
	if endpoint == "" {
		return fmt.Errorf("%w: URL is required", ErrInvalidURL)
	}
	u, err := url.Parse(endpoint)
	if err != nil {
		return errors.Join(ErrInvalidURL, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("%w: only http and https schemes are supported", ErrInvalidURL)
	}
	if u.Host == "" {
		return fmt.Errorf("%w: host is required", ErrInvalidURL)
	}
	if len(payload) == 0 || string(payload) == "null" {
		return fmt.Errorf("%w: payload cannot be empty", ErrInvalidPayload)
	}
	return nil
}

func (s *Sender) do(ctx context.Context, endpoint string, payload []byte, options *sendOptions) (Response, error) {
	start := time.Now()
	var resp Response

	reqCtx, cancel := context.WithTimeout(ctx, options.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(reqCtx, http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		return resp, errors.Join(ErrInvalidConfiguration, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", s.userAgent)
	for k, v := range options.headers {
		req.Header.Set(k, v)
	}
	if options.signatureSecret != "" {
		sig, err := SignPayload(options.signatureSecret, payload)
		if err != nil {
			return resp, err
		}
		for k, v := range sig.Headers() {
			req.Header.Set(k, v)
		}
	}

	client := s.client
	if options.httpClient != nil {
		client = options.httpClient
	}

	httpResp, err := client.Do(req)
	resp.Duration = time.Since(start)
	if err != nil {
		if errors.Is(reqCtx.Err(), context.DeadlineExceeded) {
			return resp, errors.Join(ErrTimeout, err)
		}
		return resp, errors.Join(ErrTemporaryFailure, err)
	}
	defer func() { _ = httpResp.Body.Close() }()

	resp.StatusCode = httpResp.StatusCode
	resp.Body, _ = io.ReadAll(io.LimitReader(httpResp.Body, maxResponseBody))
	resp.Duration = time.Since(start)

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return resp, nil
	}

	statusErr := fmt.Errorf("endpoint returned status %d%s", resp.StatusCode, excerpt(resp.Body))
	if isPermanentStatus(resp.StatusCode) {
		return resp, errors.Join(ErrPermanentFailure, statusErr)
	}
	return resp, errors.Join(ErrTemporaryFailure, statusErr)
}

// excerpt returns a single-line, bounded copy of body for error messages.
func excerpt(body []byte) string {
	if len(body) == 0 {
		return ""
	}
	s := strings.ReplaceAll(string(body), "\n", " ")
	if len(s) > 200 {
		s = s[:200] + "..."
	}
	return ": " + s
}

// isPermanentStatus reports whether a status signals a client-side problem
// that will not resolve by sending again.
func isPermanentStatus(code int) bool {
	if code < 400 || code >= 500 {
		return false
	}
	switch code {
	case http.StatusRequestTimeout, http.StatusTooEarly, http.StatusTooManyRequests:
		return false
	default:
		return true
	}
}

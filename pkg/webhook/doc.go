// Package webhook posts JSON payloads to HTTP endpoints and verifies signed
// callbacks.
//
// Sender.Post makes exactly one attempt. The caller decides what a failure
// means; errors wrap ErrTimeout, ErrTemporaryFailure (network errors, 5xx,
// 408/425/429), ErrPermanentFailure (other 4xx) or ErrCircuitOpen so they can
// be classified with errors.Is. The response body is returned in both cases,
// which lets API clients parse identifiers out of successful replies.
//
//	cb := webhook.NewCircuitBreaker(5, 2, 30*time.Second)
//	resp, err := sender.Post(ctx, endpoint, payload,
//	    webhook.WithTimeout(5*time.Second),
//	    webhook.WithBearerToken(apiKey),
//	    webhook.WithCircuitBreaker(cb),
//	)
//
// # Signatures
//
// WithSignature signs "<timestamp>.<body>" with HMAC-SHA256 and sends the
// X-Webhook-Signature, X-Webhook-Timestamp and X-Webhook-ID headers. The
// receiving side rebuilds the headers with SignatureFromHeader and checks
// them with VerifySignature:
//
//	sig, err := webhook.SignatureFromHeader(r.Header)
//	if err == nil {
//	    err = webhook.VerifySignature(secret, body, sig, 5*time.Minute)
//	}
package webhook

package notifications

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/dmitrymomot/courier/handler"
	"github.com/dmitrymomot/courier/pkg/webhook"
)

type receiptRequest struct {
	DeliveryID string `path:"id"`

	body   []byte
	header http.Header
}

// receiptBody is the part of a receipt courier acts on. Other provider fields
// are ignored; the delivery keeps the external id recorded at send time.
type receiptBody struct {
	DeliveredAt *time.Time `json:"delivered_at"`
}

// bindRawBody keeps the body bytes and headers of a receipt; the signature
// covers the exact bytes sent.
func bindRawBody(r *http.Request, v any) error {
	req, ok := v.(*receiptRequest)
	if !ok {
		return fmt.Errorf("%w: unexpected target %T", ErrInvalidReceipt, v)
	}
	body, err := io.ReadAll(io.LimitReader(r.Body, maxReceiptSize+1))
	if err != nil {
		return fmt.Errorf("%w: read body: %v", ErrInvalidReceipt, err)
	}
	if len(body) > maxReceiptSize {
		return fmt.Errorf("%w: body too large", ErrInvalidReceipt)
	}
	req.body = body
	req.header = r.Header.Clone()
	return nil
}

// receipt confirms a SENT delivery as DELIVERED. With a receipt secret
// configured the request must carry a valid webhook signature.
func (s *Service) receipt(ctx handler.Context, req receiptRequest) handler.Response {
	if s.opts.ReceiptSecret != "" {
		sig, err := webhook.SignatureFromHeader(req.header)
		if err != nil {
			return handler.Fail(err)
		}
		if err := webhook.VerifySignature(s.opts.ReceiptSecret, req.body, sig, s.opts.ReceiptMaxAge); err != nil {
			return handler.Fail(err)
		}
	}

	var body receiptBody
	if len(bytes.TrimSpace(req.body)) > 0 {
		if err := json.Unmarshal(req.body, &body); err != nil {
			return handler.Fail(errors.Join(ErrInvalidReceipt, err))
		}
	}

	var at time.Time
	if body.DeliveredAt != nil {
		at = *body.DeliveredAt
	}
	del, err := s.opts.Dispatcher.MarkDelivered(ctx, req.DeliveryID, at)
	if err != nil {
		return handler.Fail(err)
	}
	return handler.JSON(del)
}

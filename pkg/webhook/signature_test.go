package webhook_test

import (
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/courier/pkg/webhook"
)

func TestSignAndVerify(t *testing.T) {
	t.Parallel()
	payload := []byte(`{"delivery_id":"d1"}`)

	sig, err := webhook.SignPayload("secret", payload)
	require.NoError(t, err)
	assert.NotEmpty(t, sig.Signature)
	assert.NotEmpty(t, sig.ID)

	require.NoError(t, webhook.VerifySignature("secret", payload, sig, time.Minute))

	t.Run("wrong secret", func(t *testing.T) {
		err := webhook.VerifySignature("other", payload, sig, time.Minute)
		assert.ErrorIs(t, err, webhook.ErrInvalidSignature)
	})

	t.Run("tampered payload", func(t *testing.T) {
		err := webhook.VerifySignature("secret", []byte(`{"delivery_id":"d2"}`), sig, time.Minute)
		assert.ErrorIs(t, err, webhook.ErrInvalidSignature)
	})

	t.Run("stale timestamp", func(t *testing.T) {
		old := sig
		old.Timestamp = time.Now().Add(-time.Hour).Unix()
		err := webhook.VerifySignature("secret", payload, old, time.Minute)
		assert.ErrorIs(t, err, webhook.ErrInvalidSignature)
	})

	t.Run("future timestamp", func(t *testing.T) {
		future := sig
		future.Timestamp = time.Now().Add(time.Hour).Unix()
		err := webhook.VerifySignature("secret", payload, future, time.Minute)
		assert.ErrorIs(t, err, webhook.ErrInvalidSignature)
	})
}

func TestSignPayload_Validation(t *testing.T) {
	t.Parallel()
	_, err := webhook.SignPayload("", []byte("x"))
	assert.ErrorIs(t, err, webhook.ErrInvalidConfiguration)

	_, err = webhook.SignPayload("secret", nil)
	assert.ErrorIs(t, err, webhook.ErrInvalidPayload)
}

func TestSignatureFromHeader(t *testing.T) {
	t.Parallel()

	t.Run("round trip", func(t *testing.T) {
		payload := []byte(`{"ok":true}`)
		sig, err := webhook.SignPayload("secret", payload)
		require.NoError(t, err)

		h := http.Header{}
		for k, v := range sig.Headers() {
			h.Set(k, v)
		}

		parsed, err := webhook.SignatureFromHeader(h)
		require.NoError(t, err)
		assert.Equal(t, sig, parsed)
	})

	t.Run("missing headers", func(t *testing.T) {
		_, err := webhook.SignatureFromHeader(http.Header{})
		assert.ErrorIs(t, err, webhook.ErrInvalidSignature)
	})

	t.Run("bad timestamp", func(t *testing.T) {
		h := http.Header{}
		h.Set(webhook.HeaderSignature, "abc")
		h.Set(webhook.HeaderTimestamp, "yesterday")
		_, err := webhook.SignatureFromHeader(h)
		assert.ErrorIs(t, err, webhook.ErrInvalidSignature)
	})

}

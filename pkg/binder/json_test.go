package binder_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/courier/pkg/binder"
)

func TestJSON(t *testing.T) {
	t.Parallel()
	type ingress struct {
		Type          string          `json:"type"`
		TargetUserIDs []string        `json:"targetUserIds"`
		Payload       json.RawMessage `json:"payload"`
	}

	newRequest := func(body, contentType string) *http.Request {
		req := httptest.NewRequest(http.MethodPost, "/events", strings.NewReader(body))
		if contentType != "" {
			req.Header.Set("Content-Type", contentType)
		}
		return req
	}

	t.Run("decodes and trims strings", func(t *testing.T) {
		t.Parallel()
		req := newRequest(`{"type":" CLEANING_ASSIGNED ","targetUserIds":[" u1 ","u2"],"payload":{"unit":" 4B "}}`, "application/json; charset=utf-8")

		var got ingress
		require.NoError(t, binder.JSON()(req, &got))
		assert.Equal(t, "CLEANING_ASSIGNED", got.Type)
		assert.Equal(t, []string{"u1", "u2"}, got.TargetUserIDs)
		assert.JSONEq(t, `{"unit":" 4B "}`, string(got.Payload))
	})

	tests := []struct {
		name        string
		body        string
		contentType string
		wantErr     error
	}{
		{"missing content type", `{}`, "", binder.ErrMissingContentType},
		{"wrong media type", `{}`, "text/plain", binder.ErrUnsupportedMediaType},
		{"empty body", ``, "application/json", binder.ErrFailedToParseJSON},
		{"malformed", `{"type":`, "application/json", binder.ErrFailedToParseJSON},
		{"unknown field", `{"kind":"x"}`, "application/json", binder.ErrFailedToParseJSON},
		{"trailing data", `{"type":"a"}{"type":"b"}`, "application/json", binder.ErrFailedToParseJSON},
		{"wrong type", `{"targetUserIds":"u1"}`, "application/json", binder.ErrFailedToParseJSON},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			var got ingress
			err := binder.JSON()(newRequest(tt.body, tt.contentType), &got)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}

	t.Run("body too large", func(t *testing.T) {
		t.Parallel()
		big := `{"type":"` + strings.Repeat("a", binder.DefaultMaxJSONSize) + `"}`
		var got ingress
		err := binder.JSON()(newRequest(big, "application/json"), &got)
		assert.ErrorIs(t, err, binder.ErrFailedToParseJSON)
	})
}

package audit_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/dmitrymomot/courier/pkg/audit"
)

func TestPayloadFilter(t *testing.T) {
	t.Parallel()

	payload := map[string]any{
		"bookingId": "b1",
		"guestName": "Jane Doe",
		"api_key":   "sk_live_123",
		"email":     "jane@example.com",
		"phone":     "+15550109999",
		"contact": map[string]any{
			"Phone": "1234",
			"note":  "call after 9",
		},
	}

	tests := []struct {
		name   string
		filter *audit.PayloadFilter
		check  func(t *testing.T, out map[string]any)
	}{
		{
			name:   "defaults",
			filter: audit.NewPayloadFilter(),
			check: func(t *testing.T, out map[string]any) {
				assert.Equal(t, "b1", out["bookingId"])
				assert.Equal(t, "J******e", out["guestName"])
				assert.NotContains(t, out, "api_key")
				assert.Len(t, out["email"], 64)
				assert.Equal(t, "+1********99", out["phone"])
				nested := out["contact"].(map[string]any)
				assert.Equal(t, "****", nested["Phone"])
				assert.Equal(t, "call after 9", nested["note"])
			},
		},
		{
			name:   "allowed field",
			filter: audit.NewPayloadFilter(audit.WithAllowedField("guest_name")),
			check: func(t *testing.T, out map[string]any) {
				assert.Equal(t, "Jane Doe", out["guestName"])
			},
		},
		{
			name:   "custom rule overrides default",
			filter: audit.NewPayloadFilter(audit.WithField("email", audit.FilterRemove), audit.WithField("bookingId", audit.FilterMask)),
			check: func(t *testing.T, out map[string]any) {
				assert.NotContains(t, out, "email")
				assert.Equal(t, "**", out["bookingId"])
			},
		},
		{
			name:   "without defaults",
			filter: audit.NewPayloadFilter(audit.WithoutDefaultRules()),
			check: func(t *testing.T, out map[string]any) {
				assert.Equal(t, payload["api_key"], out["api_key"])
				assert.Equal(t, payload["guestName"], out["guestName"])
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			tt.check(t, tt.filter.Filter(payload))
		})
	}

	assert.Nil(t, audit.NewPayloadFilter().Filter(nil))
	assert.Equal(t, "Jane Doe", payload["guestName"], "input must not be modified")
}

package event_test

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/courier/pkg/event"
)

func TestUnmarshalTypedPayload(t *testing.T) {
	t.Parallel()

	raw := `{
		"type": "CLEANING_ASSIGNED",
		"org_id": "org-1",
		"target_user_ids": ["u1", "u2"],
		"payload": {"unitName": "Apt 1A", "scheduledAt": "2025-01-01T09:00:00Z", "cleaningId": "c1"}
	}`

	var ev event.Event
	require.NoError(t, json.Unmarshal([]byte(raw), &ev))
	require.NoError(t, ev.Validate())

	p, ok := ev.Payload.(event.CleaningAssigned)
	require.True(t, ok, "payload type %T", ev.Payload)
	assert.Equal(t, "Apt 1A", p.UnitName)
	assert.Equal(t, "c1", p.CleaningID)
	require.NotNil(t, p.ScheduledAt)
	assert.True(t, p.ScheduledAt.Equal(time.Date(2025, 1, 1, 9, 0, 0, 0, time.UTC)))
	assert.Equal(t, []string{"u1", "u2"}, ev.TargetUserIDs)
}

func TestUnmarshalKeepsBadPayloadAsRaw(t *testing.T) {
	t.Parallel()

	raw := `{"type": "CLEANING_ASSIGNED", "target_user_ids": ["u1"], "payload": {"scheduledAt": "tomorrow"}}`

	var ev event.Event
	require.NoError(t, json.Unmarshal([]byte(raw), &ev))

	r, ok := ev.Payload.(event.Raw)
	require.True(t, ok)
	assert.Equal(t, event.TypeCleaningAssigned, r.EventType())
	assert.ErrorIs(t, r.Err, event.ErrInvalidPayload)
}

func TestUnmarshalUnknownType(t *testing.T) {
	t.Parallel()

	var ev event.Event
	require.NoError(t, json.Unmarshal([]byte(`{"type": "GUEST_REVIEW", "payload": {"stars": 5}}`), &ev))

	r, ok := ev.Payload.(event.Raw)
	require.True(t, ok)
	assert.NoError(t, r.Err)
	assert.JSONEq(t, `{"stars": 5}`, string(r.Data))
	assert.False(t, ev.Type.Known())
}

func TestUnmarshalMalformedEnvelope(t *testing.T) {
	t.Parallel()

	var ev event.Event
	err := json.Unmarshal([]byte(`{"type": 12}`), &ev)
	assert.ErrorIs(t, err, event.ErrInvalidEvent)
}

func TestValidate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		ev      event.Event
		wantErr bool
	}{
		{"valid", event.New(event.TypeTaskCompleted, "org", []string{"u"}, nil), false},
		{"missing type", event.Event{TargetUserIDs: []string{"u"}}, true},
		{"negative version", event.Event{Type: event.TypeTaskCompleted, Version: -1}, true},
		{"raw payload of same type", event.Event{Type: event.TypeTaskCompleted, Payload: event.Raw{Kind: event.TypeTaskCompleted}}, false},
		{"payload of another type", event.Event{Type: event.TypeCleaningAssigned, Payload: event.TaskCompleted{}}, true},
		{"raw payload of another type", event.Event{Type: event.TypeCleaningAssigned, Payload: event.Raw{Kind: event.TypeTaskCompleted}}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.ev.Validate()
			if tt.wantErr {
				assert.ErrorIs(t, err, event.ErrInvalidEvent)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestRecipients(t *testing.T) {
	t.Parallel()

	ev := event.New(event.TypeTaskAssigned, "org", []string{"u1", "", "u2", "u1"}, nil)
	assert.Equal(t, []string{"u1", "u2"}, ev.Recipients())
}

func TestNewClonesTargets(t *testing.T) {
	t.Parallel()

	targets := []string{"u1"}
	ev := event.New(event.TypeTaskAssigned, "org", targets, nil)
	targets[0] = "changed"
	assert.Equal(t, []string{"u1"}, ev.TargetUserIDs)
}

func TestMarshalRoundTripsTypedPayload(t *testing.T) {
	t.Parallel()

	amount := 120.5
	ev := event.New(event.TypePaymentFailed, "org", []string{"u1"}, event.PaymentFailed{
		PaymentID: "p1",
		Amount:    &amount,
		Currency:  "EUR",
		Reason:    "card declined",
	})

	data, err := json.Marshal(ev)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"paymentId":"p1"`)

	var back event.Event
	require.NoError(t, json.Unmarshal(data, &back))
	assert.Equal(t, ev.Payload, back.Payload)
}

func TestDecodePayloadEmptyBody(t *testing.T) {
	t.Parallel()

	p, err := event.DecodePayload(event.TypeTaskCompleted, nil)
	require.NoError(t, err)
	assert.Equal(t, event.TaskCompleted{}, p)
}

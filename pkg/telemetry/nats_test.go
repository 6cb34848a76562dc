package telemetry_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/nats-io/nats.go/jetstream"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/courier/pkg/event"
	"github.com/dmitrymomot/courier/pkg/telemetry"
)

type mockPublisher struct {
	mock.Mock
}

func (m *mockPublisher) Publish(ctx context.Context, subject string, data []byte, opts ...jetstream.PublishOpt) (*jetstream.PubAck, error) {
	args := m.Called(ctx, subject, data, opts)
	ack, _ := args.Get(0).(*jetstream.PubAck)
	return ack, args.Error(1)
}

func taskAssigned() event.Event {
	ev := event.New(event.TypeTaskAssigned, "org-1", []string{"staff-1"}, event.TaskAssigned{TaskID: "t1", Title: "Fix the sink"})
	ev.ID = "evt-7"
	ev.Version = 1
	return ev
}

func TestNATSAdapter_Publish(t *testing.T) {
	t.Parallel()

	js := &mockPublisher{}
	js.On("Publish", mock.Anything, "courier.events.task_assigned", mock.MatchedBy(func(data []byte) bool {
		var ev event.Event
		if err := json.Unmarshal(data, &ev); err != nil {
			return false
		}
		p, ok := ev.Payload.(event.TaskAssigned)
		return ev.ID == "evt-7" && ok && p.Title == "Fix the sink"
	}), mock.MatchedBy(func(opts []jetstream.PublishOpt) bool { return len(opts) == 1 })).
		Return(&jetstream.PubAck{Stream: "COURIER_EVENTS", Sequence: 1}, nil).Once()

	a := telemetry.NewNATSAdapter(js, "courier.events.")
	require.NoError(t, a.Publish(t.Context(), taskAssigned()))
	js.AssertExpectations(t)
}

func TestNATSAdapter_PublishError(t *testing.T) {
	t.Parallel()

	js := &mockPublisher{}
	js.On("Publish", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(nil, errors.New("no responders"))

	err := telemetry.NewNATSAdapter(js, "courier.events").Publish(t.Context(), taskAssigned())
	assert.ErrorIs(t, err, telemetry.ErrPublish)
	assert.Contains(t, err.Error(), "no responders")
}

func TestNATSAdapter_Subject(t *testing.T) {
	t.Parallel()

	a := telemetry.NewNATSAdapter(&mockPublisher{}, "courier.events")
	assert.Equal(t, "courier.events.payment_failed", a.Subject(event.TypePaymentFailed))
	assert.Equal(t, "courier.events.custom_thing_v2", a.Subject("custom.thing v2"))
	assert.Equal(t, "courier.events.unknown", a.Subject(""))
	assert.Equal(t, "payment_failed", telemetry.NewNATSAdapter(&mockPublisher{}, "").Subject(event.TypePaymentFailed))

	assert.Panics(t, func() { telemetry.NewNATSAdapter(nil, "x") })
}

package notify_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/dmitrymomot/courier/pkg/event"
	"github.com/dmitrymomot/courier/pkg/notify"
)

func TestRender(t *testing.T) {
	t.Parallel()

	at := time.Date(2025, 1, 1, 9, 0, 0, 0, time.UTC)
	offset := time.Date(2025, 1, 1, 11, 30, 0, 0, time.FixedZone("EET", 2*3600))
	amount := 99.5

	tests := []struct {
		name    string
		payload event.Payload
		want    notify.Rendered
	}{
		{
			name:    "cleaning assigned",
			payload: event.CleaningAssigned{CleaningID: "c1", UnitName: "Apt 1A", ScheduledAt: &at},
			want: notify.Rendered{
				Title:     "Cleaning assigned",
				Message:   "You have been assigned to clean Apt 1A at 2025-01-01 09:00 UTC.",
				ActionURL: "/cleanings/c1",
			},
		},
		{
			name:    "cleaning assigned without fields",
			payload: event.CleaningAssigned{},
			want: notify.Rendered{
				Title:     "Cleaning assigned",
				Message:   "You have been assigned to clean a unit at the scheduled time.",
				ActionURL: "/cleanings",
			},
		},
		{
			name:    "times are shown in UTC",
			payload: event.CleaningCompleted{CleaningID: "c2", UnitName: "Loft", CompletedAt: &offset},
			want: notify.Rendered{
				Title:     "Cleaning completed",
				Message:   "Cleaning of Loft was completed at 2025-01-01 09:30 UTC.",
				ActionURL: "/cleanings/c2",
			},
		},
		{
			name:    "booking cancelled with reason",
			payload: event.BookingCancelled{BookingID: "b1", UnitName: "Apt 2", GuestName: "Ann", Reason: "flight cancelled"},
			want: notify.Rendered{
				Title:     "Booking cancelled",
				Message:   "The booking for Apt 2 by Ann was cancelled. Reason: flight cancelled.",
				ActionURL: "/bookings/b1",
			},
		},
		{
			name:    "task completed",
			payload: event.TaskCompleted{TaskID: "t1", Title: "Replace bulbs"},
			want: notify.Rendered{
				Title:     "Task completed",
				Message:   `"Replace bulbs" has been completed.`,
				ActionURL: "/tasks/t1",
			},
		},
		{
			name:    "task overdue without title",
			payload: event.TaskOverdue{TaskID: "t2", DueAt: &at},
			want: notify.Rendered{
				Title:     "Task overdue",
				Message:   "A task was due 2025-01-01 09:00 UTC and is overdue.",
				ActionURL: "/tasks/t2",
			},
		},
		{
			name:    "payment failed",
			payload: event.PaymentFailed{PaymentID: "p1", BookingID: "b1", Amount: &amount, Currency: "eur", Reason: "card declined"},
			want: notify.Rendered{
				Title:     "Payment failed",
				Message:   "Payment of 99.50 EUR for booking b1 failed. Reason: card declined.",
				ActionURL: "/payments/p1",
			},
		},
		{
			name:    "payment received without amount",
			payload: event.PaymentReceived{PaymentID: "p2"},
			want: notify.Rendered{
				Title:     "Payment received",
				Message:   "Received a payment for booking an unknown booking.",
				ActionURL: "/payments/p2",
			},
		},
		{
			name:    "unknown type",
			payload: event.Raw{Kind: "GUEST_REVIEW_POSTED"},
			want:    notify.Rendered{Title: "Guest Review Posted", Message: "Event: GUEST_REVIEW_POSTED"},
		},
		{
			name:    "undecodable known type falls back",
			payload: event.Raw{Kind: event.TypeCleaningAssigned},
			want:    notify.Rendered{Title: "Cleaning Assigned", Message: "Event: CLEANING_ASSIGNED"},
		},
		{
			name:    "nil payload",
			payload: nil,
			want:    notify.Rendered{Title: "Notification", Message: "Event: "},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, notify.Render(tt.payload))
		})
	}
}

func TestRenderIsDeterministic(t *testing.T) {
	t.Parallel()

	at := time.Date(2025, 3, 4, 5, 6, 0, 0, time.UTC)
	amount := 10.0
	payloads := []event.Payload{
		event.BookingCreated{BookingID: "b1", UnitName: "Apt", GuestName: "Bo", CheckIn: &at, CheckOut: &at},
		event.CleaningStarted{CleaningID: "c1", UnitName: "Apt", CleanerName: "Cy"},
		event.CleaningIssueReported{CleaningID: "c1", Issue: "broken tap"},
		event.TaskAssigned{TaskID: "t1", Title: "Fix tap", DueAt: &at},
		event.PaymentReceived{PaymentID: "p1", Amount: &amount},
		event.Raw{Kind: "SOMETHING_ELSE"},
	}
	for _, p := range payloads {
		first := notify.Render(p)
		second := notify.Render(p)
		assert.Equal(t, first, second, "%T", p)
		assert.NotEmpty(t, first.Title)
		assert.NotEmpty(t, first.Message)
	}
}

func TestPriorityFor(t *testing.T) {
	t.Parallel()

	assert.Equal(t, notify.PriorityHigh, notify.PriorityFor(event.TypeCleaningAssigned))
	assert.Equal(t, notify.PriorityUrgent, notify.PriorityFor(event.TypePaymentFailed))
	assert.Equal(t, notify.PriorityLow, notify.PriorityFor(event.TypeTaskCompleted))
	assert.Equal(t, notify.PriorityNormal, notify.PriorityFor("UNKNOWN"))
	assert.Greater(t, notify.PriorityFor(event.TypeTaskAssigned), notify.PriorityFor(event.TypeTaskCompleted))
}

package notify

import "github.com/dmitrymomot/courier/pkg/event"

var priorities = map[event.Type]Priority{
	event.TypeBookingCreated:        PriorityNormal,
	event.TypeBookingCancelled:      PriorityHigh,
	event.TypeCleaningAssigned:      PriorityHigh,
	event.TypeCleaningStarted:       PriorityNormal,
	event.TypeCleaningCompleted:     PriorityLow,
	event.TypeCleaningIssueReported: PriorityUrgent,
	event.TypeTaskAssigned:          PriorityHigh,
	event.TypeTaskCompleted:         PriorityLow,
	event.TypeTaskOverdue:           PriorityUrgent,
	event.TypePaymentReceived:       PriorityNormal,
	event.TypePaymentFailed:         PriorityUrgent,
}

// PriorityFor returns the fixed priority of t, NORMAL for unlisted types.
func PriorityFor(t event.Type) Priority {
	if p, ok := priorities[t]; ok {
		return p
	}
	return PriorityNormal
}

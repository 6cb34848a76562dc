package notify

// Aggregate derives a notification's status from its deliveries.
//
// Any delivered channel makes the notification SENT, even if others failed.
// It is FAILED only when every delivery failed, and PENDING when there are
// no deliveries or none has finished.
func Aggregate(deliveries []Delivery) NotificationStatus {
	if len(deliveries) == 0 {
		return NotificationPending
	}
	failed := 0
	for _, d := range deliveries {
		if d.Status.Succeeded() {
			return NotificationSent
		}
		if d.Status == DeliveryFailed {
			failed++
		}
	}
	if failed == len(deliveries) {
		return NotificationFailed
	}
	return NotificationPending
}

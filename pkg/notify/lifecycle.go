package notify

import (
	"context"
	"errors"

	"github.com/dmitrymomot/courier/pkg/statemachine"
)

const (
	eventSend    = statemachine.StringEvent("send")
	eventSucceed = statemachine.StringEvent("succeed")
	eventFail    = statemachine.StringEvent("fail")
	eventConfirm = statemachine.StringEvent("confirm")
)

// deliveryLifecycle:
//
//	PENDING|FAILED|SENDING --send--> SENDING --succeed--> SENT --confirm--> DELIVERED
//	                                         --fail-----> FAILED
//
// SENDING -> SENDING re-attempts a delivery a crashed pass left behind.
var deliveryLifecycle = statemachine.MustDefinition(
	statemachine.WithTransitionFrom(
		[]statemachine.State{DeliveryPending, DeliveryFailed, DeliverySending},
		DeliverySending, eventSend,
	),
	statemachine.WithTransition(DeliverySending, DeliverySent, eventSucceed),
	statemachine.WithTransition(DeliverySending, DeliveryFailed, eventFail),
	statemachine.WithTransitionFrom(
		[]statemachine.State{DeliverySent, DeliveryDelivered},
		DeliveryDelivered, eventConfirm,
	),
)

// nextStatus validates a lifecycle step for a delivery in status from.
func nextStatus(ctx context.Context, from DeliveryStatus, ev statemachine.Event) (DeliveryStatus, error) {
	to, err := deliveryLifecycle.Next(ctx, from, ev, nil)
	if err != nil {
		return from, errors.Join(ErrInvalidTransition, err)
	}
	return to.(DeliveryStatus), nil
}

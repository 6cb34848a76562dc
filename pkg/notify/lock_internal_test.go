package notify

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/dmitrymomot/courier/pkg/statemachine"
)

func TestKeyedMutexReleasesEntries(t *testing.T) {
	t.Parallel()

	k := newKeyedMutex()
	counter := map[string]*int{"a": new(int), "b": new(int)}
	var wg sync.WaitGroup
	for i := range 50 {
		key := []string{"a", "b"}[i%2]
		wg.Add(1)
		go func() {
			defer wg.Done()
			unlock := k.Lock(key)
			*counter[key]++
			unlock()
		}()
	}
	wg.Wait()

	assert.Equal(t, 25, *counter["a"])
	assert.Equal(t, 25, *counter["b"])
	assert.Zero(t, k.size())
}

func TestDeliveryLifecycle(t *testing.T) {
	t.Parallel()

	tests := []struct {
		from    DeliveryStatus
		event   string
		want    DeliveryStatus
		wantErr bool
	}{
		{DeliveryPending, "send", DeliverySending, false},
		{DeliveryFailed, "send", DeliverySending, false},
		{DeliverySending, "send", DeliverySending, false},
		{DeliverySent, "send", DeliverySent, true},
		{DeliverySending, "succeed", DeliverySent, false},
		{DeliverySending, "fail", DeliveryFailed, false},
		{DeliveryPending, "succeed", DeliveryPending, true},
		{DeliverySent, "confirm", DeliveryDelivered, false},
		{DeliveryDelivered, "confirm", DeliveryDelivered, false},
		{DeliveryFailed, "confirm", DeliveryFailed, true},
	}
	for _, tt := range tests {
		t.Run(string(tt.from)+"/"+tt.event, func(t *testing.T) {
			events := map[string]statemachine.Event{"send": eventSend, "succeed": eventSucceed, "fail": eventFail, "confirm": eventConfirm}
			got, err := nextStatus(t.Context(), tt.from, events[tt.event])
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidTransition)
			} else {
				assert.NoError(t, err)
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

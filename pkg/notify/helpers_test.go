package notify_test

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/dmitrymomot/courier/pkg/event"
	"github.com/dmitrymomot/courier/pkg/logger"
	"github.com/dmitrymomot/courier/pkg/notify"
)

// stubProvider records every send and answers with a fixed result.
type stubProvider struct {
	ch     notify.Channel
	result notify.DeliveryResult

	mu    sync.Mutex
	calls []string
}

func newStub(ch notify.Channel, result notify.DeliveryResult) *stubProvider {
	return &stubProvider{ch: ch, result: result}
}

func (p *stubProvider) Channel() notify.Channel { return p.ch }

func (p *stubProvider) Send(_ context.Context, _ notify.Message, address string) notify.DeliveryResult {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.calls = append(p.calls, address)
	return p.result
}

func (p *stubProvider) Calls() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.calls)
}

func (p *stubProvider) SetResult(r notify.DeliveryResult) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.result = r
}

var errTelegramDown = errors.New("telegram: bot was blocked by the user")

func cleaningAssigned() event.Event {
	at := time.Date(2025, 1, 1, 9, 0, 0, 0, time.UTC)
	ev := event.New(event.TypeCleaningAssigned, "org-1", []string{"u1"}, event.CleaningAssigned{
		CleaningID:  "c1",
		UnitName:    "Apt 1A",
		ScheduledAt: &at,
	})
	ev.ID = "evt-1"
	ev.Version = 1
	ev.OccurredAt = at
	return ev
}

func cleanerSettings() notify.RecipientSettings {
	return notify.RecipientSettings{
		UserID:               "u1",
		Enabled:              true,
		EnabledChannels:      []notify.Channel{notify.ChannelTelegram, notify.ChannelWebSocket},
		SubscribedEventTypes: []event.Type{event.TypeCleaningAssigned},
		ChannelAddress:       map[notify.Channel]string{notify.ChannelTelegram: "chat-42"},
	}
}

type fixture struct {
	settings   *notify.MemorySettings
	storage    *notify.MemoryStorage
	builder    *notify.Builder
	dispatcher *notify.Dispatcher
}

func newFixture(providers ...notify.Provider) *fixture {
	f := &fixture{
		settings: notify.NewMemorySettings(cleanerSettings()),
		storage:  notify.NewMemoryStorage(),
	}
	f.builder = notify.NewBuilder(f.settings, f.storage, notify.WithBuilderLogger(logger.Discard()))
	f.dispatcher = notify.NewDispatcher(f.storage, notify.MustRegistry(providers...),
		notify.WithDispatcherLogger(logger.Discard()),
		notify.WithSendTimeout(time.Second),
	)
	return f
}

func deliveryByChannel(n *notify.Notification, ch notify.Channel) notify.Delivery {
	for _, d := range n.Deliveries {
		if d.Channel == ch {
			return d
		}
	}
	return notify.Delivery{}
}

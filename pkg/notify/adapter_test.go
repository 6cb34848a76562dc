package notify_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/courier/pkg/event"
	"github.com/dmitrymomot/courier/pkg/eventbus"
	"github.com/dmitrymomot/courier/pkg/logger"
	"github.com/dmitrymomot/courier/pkg/notify"
)

func TestAdapterThroughBus(t *testing.T) {
	t.Parallel()

	tg := newStub(notify.ChannelTelegram, notify.Succeeded("tg-1", time.Time{}))
	ws := newStub(notify.ChannelWebSocket, notify.Succeeded("", time.Time{}))
	f := newFixture(tg, ws)

	other := cleanerSettings()
	other.UserID = "u2"
	other.SubscribedEventTypes = []event.Type{event.TypeTaskAssigned}
	f.settings.Put(other)

	adapter := notify.NewAdapter(f.builder, f.dispatcher, notify.WithAdapterLogger(logger.Discard()), notify.WithConcurrency(2))
	bus := eventbus.New(eventbus.WithLogger(logger.Discard()), eventbus.WithAdapters(adapter))

	ev := cleaningAssigned()
	ev.TargetUserIDs = []string{"u1", "u2", "u3"}
	bus.Emit(context.Background(), ev)

	all, err := f.storage.ListNotifications(context.Background(), notify.ListOptions{})
	require.NoError(t, err)
	require.Len(t, all, 1, "only the subscribed recipient is notified")
	assert.Equal(t, "u1", all[0].UserID)
	assert.Equal(t, notify.NotificationSent, all[0].Status)
	assert.Equal(t, 1, tg.Calls())
	assert.Equal(t, 1, ws.Calls())
}

func TestCleaningAssignedUnsubscribedRecipient(t *testing.T) {
	t.Parallel()

	tg := newStub(notify.ChannelTelegram, notify.Succeeded("", time.Time{}))
	f := newFixture(tg)
	s := cleanerSettings()
	s.SubscribedEventTypes = []event.Type{event.TypeBookingCreated}
	f.settings.Put(s)

	adapter := notify.NewAdapter(f.builder, f.dispatcher, notify.WithAdapterLogger(logger.Discard()))
	require.NoError(t, adapter.Publish(context.Background(), cleaningAssigned()))

	all, err := f.storage.ListNotifications(context.Background(), notify.ListOptions{})
	require.NoError(t, err)
	assert.Empty(t, all)
	assert.Zero(t, tg.Calls())
}

func TestAdapterReportsRecipientFailures(t *testing.T) {
	t.Parallel()

	boom := errors.New("pg: unavailable")
	storage := failingStorage{MemoryStorage: notify.NewMemoryStorage(), err: boom}
	settings := notify.NewMemorySettings(cleanerSettings())
	second := cleanerSettings()
	second.UserID = "u2"
	settings.Put(second)

	builder := notify.NewBuilder(settings, storage, notify.WithBuilderLogger(logger.Discard()))
	dispatcher := notify.NewDispatcher(storage, notify.MustRegistry(), notify.WithDispatcherLogger(logger.Discard()))
	adapter := notify.NewAdapter(builder, dispatcher, notify.WithAdapterLogger(logger.Discard()))

	ev := cleaningAssigned()
	ev.TargetUserIDs = []string{"u1", "u2"}
	err := adapter.Publish(context.Background(), ev)
	assert.ErrorIs(t, err, boom)
	assert.Contains(t, err.Error(), "recipient u1")
	assert.Contains(t, err.Error(), "recipient u2")
}

func TestAdapterName(t *testing.T) {
	t.Parallel()

	var a eventbus.Adapter = notify.NewAdapter(nil, nil)
	named, ok := a.(interface{ Name() string })
	require.True(t, ok)
	assert.Equal(t, "notifications", named.Name())
}

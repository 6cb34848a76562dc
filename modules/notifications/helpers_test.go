package notifications_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/courier/handler"
	"github.com/dmitrymomot/courier/modules/notifications"
	"github.com/dmitrymomot/courier/pkg/audit"
	"github.com/dmitrymomot/courier/pkg/event"
	"github.com/dmitrymomot/courier/pkg/eventbus"
	"github.com/dmitrymomot/courier/pkg/inbox"
	"github.com/dmitrymomot/courier/pkg/logger"
	"github.com/dmitrymomot/courier/pkg/notify"
	"github.com/dmitrymomot/courier/pkg/notify/providers"
)

const cleaningEvent = `{
	"type": "CLEANING_ASSIGNED",
	"orgId": "org-1",
	"targetUserIds": ["u1"],
	"payload": {"cleaningId": "c1", "unitName": "Apt 1A"},
	"version": 1
}`

type env struct {
	router   http.Handler
	storage  *notify.MemoryStorage
	settings *notify.MemorySettings
	inbox    *inbox.MemoryStorage
	ws       *providers.WebSocket
	audit    *audit.MemoryStorage

	telegramDown atomic.Bool
}

type envOption func(*notifications.Options)

func withReceiptSecret(secret string) envOption {
	return func(o *notifications.Options) { o.ReceiptSecret = secret }
}

func newEnv(t *testing.T, opts ...envOption) *env {
	t.Helper()
	e := &env{
		storage: notify.NewMemoryStorage(),
		settings: notify.NewMemorySettings(notify.RecipientSettings{
			UserID:               "u1",
			Enabled:              true,
			EnabledChannels:      []notify.Channel{notify.ChannelTelegram, notify.ChannelInApp},
			SubscribedEventTypes: []event.Type{event.TypeCleaningAssigned},
			ChannelAddress:       map[notify.Channel]string{notify.ChannelTelegram: "chat-42"},
		}),
		inbox: inbox.NewMemoryStorage(),
		ws:    providers.NewWebSocket(providers.WebSocketConfig{}),
		audit: audit.NewMemoryStorage(),
	}
	t.Cleanup(func() { _ = e.ws.Close() })

	telegram := notify.ProviderFunc(notify.ChannelTelegram, func(context.Context, notify.Message, string) notify.DeliveryResult {
		if e.telegramDown.Load() {
			return notify.Failed(io.ErrUnexpectedEOF)
		}
		return notify.Succeeded("tg-1", time.Now())
	})
	inApp, err := providers.NewInApp(providers.InAppConfig{}, e.inbox)
	require.NoError(t, err)

	registry := notify.MustRegistry(telegram, inApp, e.ws)
	builder := notify.NewBuilder(e.settings, e.storage, notify.WithBuilderLogger(logger.Discard()))
	dispatcher := notify.NewDispatcher(e.storage, registry,
		notify.WithDispatcherLogger(logger.Discard()),
		notify.WithSendTimeout(time.Second),
	)
	bus := eventbus.New(
		eventbus.WithLogger(logger.Discard()),
		eventbus.WithAdapters(
			notify.NewAdapter(builder, dispatcher, notify.WithAdapterLogger(logger.Discard())),
			audit.NewAdapter(audit.StorageWriter{Storage: e.audit}, audit.WithLogger(logger.Discard())),
		),
	)

	o := notifications.Options{
		Bus:        bus,
		Storage:    e.storage,
		Dispatcher: dispatcher,
		Settings:   e.settings,
		SettingsWriter: notifications.SettingsWriterFunc(func(_ context.Context, rs notify.RecipientSettings) error {
			e.settings.Put(rs)
			return nil
		}),
		Inbox:    e.inbox,
		Streamer: e.ws,
		Audit:    e.audit,
		Logger:   logger.Discard(),
	}
	for _, opt := range opts {
		opt(&o)
	}
	e.router = notifications.NewService(o).Handle()
	return e
}

func (e *env) do(t *testing.T, method, path, body string, header ...string) *httptest.ResponseRecorder {
	t.Helper()
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, r)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	for i := 0; i+1 < len(header); i += 2 {
		req.Header.Set(header[i], header[i+1])
	}
	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)
	return rec
}

// ingest posts the cleaning event and returns the notification created for u1.
func (e *env) ingest(t *testing.T) *notify.Notification {
	t.Helper()
	rec := e.do(t, http.MethodPost, "/events", cleaningEvent)
	require.Equal(t, http.StatusAccepted, rec.Code, rec.Body.String())

	list, err := e.storage.ListNotifications(context.Background(), notify.ListOptions{UserID: "u1"})
	require.NoError(t, err)
	require.Len(t, list, 1)
	n, err := e.storage.GetNotification(context.Background(), list[0].ID)
	require.NoError(t, err)
	return n
}

type envelope[T any] struct {
	Data  T                    `json:"data"`
	Meta  map[string]any       `json:"meta"`
	Error *handler.ErrorDetail `json:"error"`
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) envelope[T] {
	t.Helper()
	var out envelope[T]
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out), rec.Body.String())
	return out
}

func deliveryFor(n *notify.Notification, ch notify.Channel) notify.Delivery {
	for _, d := range n.Deliveries {
		if d.Channel == ch {
			return d
		}
	}
	return notify.Delivery{}
}

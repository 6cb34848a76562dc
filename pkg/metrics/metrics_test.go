package metrics_test

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/courier/pkg/event"
	"github.com/dmitrymomot/courier/pkg/eventbus"
	"github.com/dmitrymomot/courier/pkg/metrics"
	"github.com/dmitrymomot/courier/pkg/notify"
)

var (
	_ notify.Observer   = (*metrics.Metrics)(nil)
	_ eventbus.Observer = (*metrics.Metrics)(nil)
)

func TestObservePublish(t *testing.T) {
	t.Parallel()
	m := metrics.New()

	ev := event.New(event.TypeBookingCreated, "org-1", nil, nil)
	m.ObservePublish("notifications", ev, nil, 10*time.Millisecond)
	m.ObservePublish("notifications", ev, errors.New("boom"), 10*time.Millisecond)
	m.ObservePublish("audit", ev, nil, time.Millisecond)

	expected := `
# HELP courier_adapter_failures_total Adapter publish calls that returned an error or panicked.
# TYPE courier_adapter_failures_total counter
courier_adapter_failures_total{adapter="notifications",event_type="BOOKING_CREATED"} 1
# HELP courier_events_published_total Events handed to bus adapters, by adapter and event type.
# TYPE courier_events_published_total counter
courier_events_published_total{adapter="audit",event_type="BOOKING_CREATED"} 1
courier_events_published_total{adapter="notifications",event_type="BOOKING_CREATED"} 2
`
	require.NoError(t, testutil.GatherAndCompare(m.Registry(), strings.NewReader(expected),
		"courier_adapter_failures_total", "courier_events_published_total"))
	n, err := testutil.GatherAndCount(m.Registry(), "courier_adapter_publish_duration_seconds")
	require.NoError(t, err)
	assert.Equal(t, 2, n)
}

func TestObserveDelivery(t *testing.T) {
	t.Parallel()
	m := metrics.New()

	m.ObserveDelivery(notify.ChannelTelegram, notify.DeliverySent, time.Millisecond)
	m.ObserveDelivery(notify.ChannelTelegram, notify.DeliveryFailed, time.Millisecond)
	m.ObserveDelivery(notify.ChannelTelegram, notify.DeliverySent, time.Millisecond)

	expected := `
# HELP courier_deliveries_total Delivery attempts by channel and resulting status.
# TYPE courier_deliveries_total counter
courier_deliveries_total{channel="TELEGRAM",status="FAILED"} 1
courier_deliveries_total{channel="TELEGRAM",status="SENT"} 2
`
	require.NoError(t, testutil.GatherAndCompare(m.Registry(), strings.NewReader(expected), "courier_deliveries_total"))
}

func TestMiddlewareAndHandler(t *testing.T) {
	t.Parallel()
	m := metrics.New()

	r := chi.NewRouter()
	r.Use(m.Middleware)
	r.Get("/notifications/{id}", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})
	r.Method(http.MethodGet, "/metrics", m.Handler())

	for _, id := range []string{"a", "b"} {
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/notifications/"+id, nil))
		assert.Equal(t, http.StatusNotFound, rec.Code)
	}

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `courier_http_requests_total{method="GET",path="/notifications/{id}",status="404"} 2`)
	assert.Contains(t, rec.Body.String(), "go_goroutines")
}

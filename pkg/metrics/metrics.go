package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/dmitrymomot/courier/pkg/event"
	"github.com/dmitrymomot/courier/pkg/notify"
)

const namespace = "courier"

// Metrics owns a registry and the collectors for events, deliveries and HTTP
// requests. It implements notify.Observer and eventbus.Observer.
type Metrics struct {
	registry *prometheus.Registry

	events          *prometheus.CounterVec
	adapterFailures *prometheus.CounterVec
	adapterDuration *prometheus.HistogramVec
	deliveries      *prometheus.CounterVec
	deliveryLatency *prometheus.HistogramVec
	httpRequests    *prometheus.CounterVec
	httpDuration    *prometheus.HistogramVec
}

// New registers all collectors, plus the Go runtime and process collectors,
// on a fresh registry.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		events: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "events_published_total",
			Help:      "Events handed to bus adapters, by adapter and event type.",
		}, []string{"adapter", "event_type"}),
		adapterFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "adapter_failures_total",
			Help:      "Adapter publish calls that returned an error or panicked.",
		}, []string{"adapter", "event_type"}),
		adapterDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "adapter_publish_duration_seconds",
			Help:      "Time spent in an adapter per event.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"adapter"}),
		deliveries: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "deliveries_total",
			Help:      "Delivery attempts by channel and resulting status.",
		}, []string{"channel", "status"}),
		deliveryLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "delivery_duration_seconds",
			Help:      "Provider send latency by channel.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"channel"}),
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests.",
		}, []string{"method", "path", "status"}),
		httpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "path", "status"}),
	}

	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.events, m.adapterFailures, m.adapterDuration,
		m.deliveries, m.deliveryLatency,
		m.httpRequests, m.httpDuration,
	)
	return m
}

// Registry exposes the registry for tests and extra collectors.
func (m *Metrics) Registry() *prometheus.Registry { return m.registry }

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

func (m *Metrics) ObservePublish(adapter string, ev event.Event, err error, elapsed time.Duration) {
	labels := prometheus.Labels{"adapter": adapter, "event_type": ev.Type.String()}
	m.events.With(labels).Inc()
	if err != nil {
		m.adapterFailures.With(labels).Inc()
	}
	m.adapterDuration.WithLabelValues(adapter).Observe(elapsed.Seconds())
}

func (m *Metrics) ObserveDelivery(ch notify.Channel, status notify.DeliveryStatus, elapsed time.Duration) {
	m.deliveries.WithLabelValues(string(ch), status.Name()).Inc()
	m.deliveryLatency.WithLabelValues(string(ch)).Observe(elapsed.Seconds())
}

// Middleware records request counts and latency. The path label is the
// matched chi route pattern, so ids do not explode the label set.
func (m *Metrics) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		path := "unmatched"
		if rc := chi.RouteContext(r.Context()); rc != nil {
			if p := rc.RoutePattern(); p != "" {
				path = p
			}
		}
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		labels := prometheus.Labels{
			"method": r.Method,
			"path":   path,
			"status": strconv.Itoa(status),
		}
		m.httpRequests.With(labels).Inc()
		m.httpDuration.With(labels).Observe(time.Since(start).Seconds())
	})
}

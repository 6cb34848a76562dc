// Package metrics exposes Prometheus metrics for the notification engine.
//
// One Metrics value is created at startup and passed to the event bus
// (eventbus.WithObserver), the dispatcher (notify.WithObserver) and the HTTP
// router (Middleware). Handler serves the registry on /metrics.
package metrics

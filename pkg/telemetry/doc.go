// Package telemetry forwards emitted events to external systems.
//
// OpenSearchAdapter indexes every event as a document keyed by event id, so
// re-indexing the same event overwrites it. NATSAdapter publishes events to
// a JetStream stream under "<prefix>.<event type>", using the event id as
// the message id for server-side de-duplication.
//
// Both implement eventbus.Adapter and are registered on the bus alongside
// the notification adapter. Failures are returned to the bus, which logs
// them without affecting other adapters.
package telemetry

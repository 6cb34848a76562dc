// Package notify turns domain events into per-recipient notifications and
// delivers them over channel providers.
//
// The pieces, in the order an event meets them:
//
//   - Builder checks the recipient's settings, renders the text, and stores
//     a Notification with one PENDING Delivery per eligible channel.
//   - Dispatcher sends each Delivery through the provider registered for its
//     channel, records SENT or FAILED, and writes the aggregate status.
//   - Adapter plugs both into an eventbus.Bus.
//
// Wiring:
//
//	registry := notify.MustRegistry(telegram, email, websocket)
//	builder := notify.NewBuilder(settings, storage)
//	dispatcher := notify.NewDispatcher(storage, registry, notify.WithSendTimeout(5*time.Second))
//	bus := eventbus.New(eventbus.WithAdapters(notify.NewAdapter(builder, dispatcher)))
//
// Delivery lifecycle:
//
//	PENDING -> SENDING -> SENT -> DELIVERED
//	                   -> FAILED -> SENDING (manual re-dispatch)
//
// A notification is SENT as soon as one channel succeeded, FAILED when all
// failed, and PENDING when it has no deliveries. Dispatch never re-sends a
// SENT or DELIVERED channel, and passes for the same notification never run
// concurrently. There is no automatic retry; calling Dispatch again is the
// retry.
package notify

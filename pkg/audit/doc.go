// Package audit keeps a trail of every event that entered the bus.
//
// Adapter is an eventbus adapter. For each emitted event it builds a Record,
// strips or masks sensitive payload fields with a PayloadFilter, stamps a
// SHA-256 fingerprint and hands the record to a Writer. AsyncWriter batches
// records in the background before they reach a Storage; MemoryStorage and
// MongoStorage are provided.
//
//	store := audit.NewMongoStorage(db.Collection("audit_events"))
//	writer := audit.NewAsyncWriter(store, audit.AsyncOptions{})
//	defer writer.Close(ctx)
//
//	bus := eventbus.New(eventbus.WithAdapters(
//	    eventbus.Named("audit", audit.NewAdapter(writer)),
//	))
//
// Records are read back with Storage.Query and a Criteria.
package audit

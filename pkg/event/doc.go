// Package event defines the domain events fed into courier and their typed
// payloads.
//
// An Event carries a Type and a Payload. Every known type has one payload
// struct (BookingCreated, CleaningAssigned, PaymentFailed, ...) so consumers
// switch on the concrete payload instead of probing map keys:
//
//	switch p := ev.Payload.(type) {
//	case event.CleaningAssigned:
//	    fmt.Println(p.UnitName)
//	case event.Raw:
//	    // unknown type or undecodable body
//	}
//
// JSON decoding never rejects an event because of its payload: a body that
// does not match its type is kept as Raw with Err set. Validate rejects
// events without a type and events whose payload belongs to another type.
package event

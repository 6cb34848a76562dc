package event

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

// Payload is the typed body of an event. Each known Type has exactly one
// payload struct; anything else is carried as Raw.
type Payload interface {
	EventType() Type
}

type BookingCreated struct {
	BookingID string     `json:"bookingId,omitempty"`
	UnitName  string     `json:"unitName,omitempty"`
	GuestName string     `json:"guestName,omitempty"`
	CheckIn   *time.Time `json:"checkIn,omitempty"`
	CheckOut  *time.Time `json:"checkOut,omitempty"`
}

type BookingCancelled struct {
	BookingID string `json:"bookingId,omitempty"`
	UnitName  string `json:"unitName,omitempty"`
	GuestName string `json:"guestName,omitempty"`
	Reason    string `json:"reason,omitempty"`
}

type CleaningAssigned struct {
	CleaningID  string     `json:"cleaningId,omitempty"`
	UnitName    string     `json:"unitName,omitempty"`
	ScheduledAt *time.Time `json:"scheduledAt,omitempty"`
}

type CleaningStarted struct {
	CleaningID  string `json:"cleaningId,omitempty"`
	UnitName    string `json:"unitName,omitempty"`
	CleanerName string `json:"cleanerName,omitempty"`
}

type CleaningCompleted struct {
	CleaningID  string     `json:"cleaningId,omitempty"`
	UnitName    string     `json:"unitName,omitempty"`
	CompletedAt *time.Time `json:"completedAt,omitempty"`
}

type CleaningIssueReported struct {
	CleaningID string `json:"cleaningId,omitempty"`
	UnitName   string `json:"unitName,omitempty"`
	Issue      string `json:"issue,omitempty"`
}

type TaskAssigned struct {
	TaskID string     `json:"taskId,omitempty"`
	Title  string     `json:"title,omitempty"`
	DueAt  *time.Time `json:"dueAt,omitempty"`
}

type TaskCompleted struct {
	TaskID string `json:"taskId,omitempty"`
	Title  string `json:"title,omitempty"`
}

type TaskOverdue struct {
	TaskID string     `json:"taskId,omitempty"`
	Title  string     `json:"title,omitempty"`
	DueAt  *time.Time `json:"dueAt,omitempty"`
}

type PaymentReceived struct {
	PaymentID string   `json:"paymentId,omitempty"`
	BookingID string   `json:"bookingId,omitempty"`
	Amount    *float64 `json:"amount,omitempty"`
	Currency  string   `json:"currency,omitempty"`
}

type PaymentFailed struct {
	PaymentID string   `json:"paymentId,omitempty"`
	BookingID string   `json:"bookingId,omitempty"`
	Amount    *float64 `json:"amount,omitempty"`
	Currency  string   `json:"currency,omitempty"`
	Reason    string   `json:"reason,omitempty"`
}

func (BookingCreated) EventType() Type        { return TypeBookingCreated }
func (BookingCancelled) EventType() Type      { return TypeBookingCancelled }
func (CleaningAssigned) EventType() Type      { return TypeCleaningAssigned }
func (CleaningStarted) EventType() Type       { return TypeCleaningStarted }
func (CleaningCompleted) EventType() Type     { return TypeCleaningCompleted }
func (CleaningIssueReported) EventType() Type { return TypeCleaningIssueReported }
func (TaskAssigned) EventType() Type          { return TypeTaskAssigned }
func (TaskCompleted) EventType() Type         { return TypeTaskCompleted }
func (TaskOverdue) EventType() Type           { return TypeTaskOverdue }
func (PaymentReceived) EventType() Type       { return TypePaymentReceived }
func (PaymentFailed) EventType() Type         { return TypePaymentFailed }

// Raw holds a payload of an unknown type, or one that failed to decode into
// its typed variant.
type Raw struct {
	Kind Type
	Data json.RawMessage
	Err  error
}

func (r Raw) EventType() Type { return r.Kind }

var decoders = map[Type]func(json.RawMessage) (Payload, error){
	TypeBookingCreated:        decodeAs[BookingCreated],
	TypeBookingCancelled:      decodeAs[BookingCancelled],
	TypeCleaningAssigned:      decodeAs[CleaningAssigned],
	TypeCleaningStarted:       decodeAs[CleaningStarted],
	TypeCleaningCompleted:     decodeAs[CleaningCompleted],
	TypeCleaningIssueReported: decodeAs[CleaningIssueReported],
	TypeTaskAssigned:          decodeAs[TaskAssigned],
	TypeTaskCompleted:         decodeAs[TaskCompleted],
	TypeTaskOverdue:           decodeAs[TaskOverdue],
	TypePaymentReceived:       decodeAs[PaymentReceived],
	TypePaymentFailed:         decodeAs[PaymentFailed],
}

func decodeAs[P Payload](raw json.RawMessage) (Payload, error) {
	var p P
	if err := json.Unmarshal(raw, &p); err != nil {
		return nil, err
	}
	return p, nil
}

// DecodePayload turns raw JSON into the typed payload for t.
// Unknown types yield Raw with no error. A known type whose body does not
// decode yields Raw carrying an error wrapping ErrInvalidPayload.
func DecodePayload(t Type, raw json.RawMessage) (Payload, error) {
	raw = bytes.TrimSpace(raw)
	decode, ok := decoders[t]
	if !ok {
		return Raw{Kind: t, Data: raw}, nil
	}
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		raw = json.RawMessage("{}")
	}
	p, err := decode(raw)
	if err != nil {
		err = errors.Join(ErrInvalidPayload, fmt.Errorf("%s: %w", t, err))
		return Raw{Kind: t, Data: raw, Err: err}, err
	}
	return p, nil
}

// EncodePayload returns the JSON form of p. Raw payloads are returned as
// received.
func EncodePayload(p Payload) (json.RawMessage, error) {
	if r, ok := p.(Raw); ok {
		if len(r.Data) == 0 {
			return nil, nil
		}
		return r.Data, nil
	}
	return json.Marshal(p)
}

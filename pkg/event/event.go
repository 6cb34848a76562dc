package event

import (
	"encoding/json"
	"errors"
	"fmt"
	"slices"
	"time"
)

// Type identifies what happened upstream.
type Type string

const (
	TypeBookingCreated        Type = "BOOKING_CREATED"
	TypeBookingCancelled      Type = "BOOKING_CANCELLED"
	TypeCleaningAssigned      Type = "CLEANING_ASSIGNED"
	TypeCleaningStarted       Type = "CLEANING_STARTED"
	TypeCleaningCompleted     Type = "CLEANING_COMPLETED"
	TypeCleaningIssueReported Type = "CLEANING_ISSUE_REPORTED"
	TypeTaskAssigned          Type = "TASK_ASSIGNED"
	TypeTaskCompleted         Type = "TASK_COMPLETED"
	TypeTaskOverdue           Type = "TASK_OVERDUE"
	TypePaymentReceived       Type = "PAYMENT_RECEIVED"
	TypePaymentFailed         Type = "PAYMENT_FAILED"
)

func (t Type) String() string { return string(t) }

// Known reports whether t has a typed payload.
func (t Type) Known() bool {
	_, ok := decoders[t]
	return ok
}

// Event is an immutable fact emitted by an upstream service.
type Event struct {
	ID            string    `json:"id"`
	Type          Type      `json:"type"`
	OrgID         string    `json:"org_id"`
	TargetUserIDs []string  `json:"target_user_ids"`
	Payload       Payload   `json:"payload"`
	Version       int       `json:"version"`
	OccurredAt    time.Time `json:"occurred_at"`
}

// New builds an event for the given type. A nil payload becomes an empty Raw.
func New(t Type, orgID string, targets []string, p Payload) Event {
	if p == nil {
		p = Raw{Kind: t}
	}
	return Event{
		Type:          t,
		OrgID:         orgID,
		TargetUserIDs: slices.Clone(targets),
		Payload:       p,
	}
}

// Validate checks the fields every event must carry.
func (e Event) Validate() error {
	if e.Type == "" {
		return errors.Join(ErrInvalidEvent, errors.New("type is required"))
	}
	if e.Version < 0 {
		return errors.Join(ErrInvalidEvent, errors.New("version must not be negative"))
	}
	if e.Payload != nil && e.Payload.EventType() != e.Type {
		return errors.Join(ErrInvalidEvent,
			fmt.Errorf("payload is %s, event is %s", e.Payload.EventType(), e.Type))
	}
	return nil
}

// Recipients returns the target user ids with blanks and duplicates removed,
// preserving first-seen order.
func (e Event) Recipients() []string {
	seen := make(map[string]struct{}, len(e.TargetUserIDs))
	out := make([]string, 0, len(e.TargetUserIDs))
	for _, id := range e.TargetUserIDs {
		if id == "" {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

type wireEvent struct {
	ID            string          `json:"id,omitempty"`
	Type          Type            `json:"type"`
	OrgID         string          `json:"org_id,omitempty"`
	TargetUserIDs []string        `json:"target_user_ids"`
	Payload       json.RawMessage `json:"payload,omitempty"`
	Version       int             `json:"version,omitempty"`
	OccurredAt    time.Time       `json:"occurred_at,omitzero"`
}

func (e Event) MarshalJSON() ([]byte, error) {
	w := wireEvent{
		ID:            e.ID,
		Type:          e.Type,
		OrgID:         e.OrgID,
		TargetUserIDs: e.TargetUserIDs,
		Version:       e.Version,
		OccurredAt:    e.OccurredAt,
	}
	if e.Payload != nil {
		raw, err := EncodePayload(e.Payload)
		if err != nil {
			return nil, err
		}
		w.Payload = raw
	}
	return json.Marshal(w)
}

// UnmarshalJSON decodes the envelope and then the payload for its type.
// A payload that does not match its type is kept as Raw so rendering can
// fall back instead of rejecting the event.
func (e *Event) UnmarshalJSON(data []byte) error {
	var w wireEvent
	if err := json.Unmarshal(data, &w); err != nil {
		return errors.Join(ErrInvalidEvent, err)
	}
	p, _ := DecodePayload(w.Type, w.Payload)
	*e = Event{
		ID:            w.ID,
		Type:          w.Type,
		OrgID:         w.OrgID,
		TargetUserIDs: w.TargetUserIDs,
		Payload:       p,
		Version:       w.Version,
		OccurredAt:    w.OccurredAt,
	}
	return nil
}

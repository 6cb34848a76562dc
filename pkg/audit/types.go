package audit

import (
	"fmt"
	"slices"
	"time"
)

// Record is one audited event.
type Record struct {
	ID          string         `json:"id" bson:"_id"`
	EventID     string         `json:"event_id" bson:"event_id"`
	EventType   string         `json:"event_type" bson:"event_type"`
	OrgID       string         `json:"org_id,omitempty" bson:"org_id,omitempty"`
	Recipients  []string       `json:"recipients" bson:"recipients"`
	Version     int            `json:"version" bson:"version"`
	Payload     map[string]any `json:"payload,omitempty" bson:"payload,omitempty"`
	PayloadErr  string         `json:"payload_error,omitempty" bson:"payload_error,omitempty"`
	Fingerprint string         `json:"fingerprint" bson:"fingerprint"`
	OccurredAt  time.Time      `json:"occurred_at" bson:"occurred_at"`
	RecordedAt  time.Time      `json:"recorded_at" bson:"recorded_at"`
}

func (r *Record) Validate() error {
	switch {
	case r.ID == "":
		return fmt.Errorf("%w: id is required", ErrInvalidRecord)
	case r.EventID == "":
		return fmt.Errorf("%w: event id is required", ErrInvalidRecord)
	case r.EventType == "":
		return fmt.Errorf("%w: event type is required", ErrInvalidRecord)
	}
	return nil
}

// Criteria selects records. Zero fields do not filter.
type Criteria struct {
	EventType   string
	OrgID       string
	RecipientID string
	Since       time.Time // inclusive
	Until       time.Time // exclusive
	Limit       int
	Offset      int
}

// Match reports whether r passes every filter of c.
func (c Criteria) Match(r Record) bool {
	if c.EventType != "" && r.EventType != c.EventType {
		return false
	}
	if c.OrgID != "" && r.OrgID != c.OrgID {
		return false
	}
	if c.RecipientID != "" && !slices.Contains(r.Recipients, c.RecipientID) {
		return false
	}
	if !c.Since.IsZero() && r.OccurredAt.Before(c.Since) {
		return false
	}
	if !c.Until.IsZero() && !r.OccurredAt.Before(c.Until) {
		return false
	}
	return true
}

package notify

import (
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/dmitrymomot/courier/pkg/event"
)

// Channel is a delivery medium.
type Channel string

const (
	ChannelTelegram  Channel = "TELEGRAM"
	ChannelEmail     Channel = "EMAIL"
	ChannelSMS       Channel = "SMS"
	ChannelPush      Channel = "PUSH"
	ChannelWebSocket Channel = "WEBSOCKET"
	ChannelInApp     Channel = "IN_APP"
)

// Channels lists every supported channel.
var Channels = []Channel{
	ChannelTelegram, ChannelEmail, ChannelSMS, ChannelPush, ChannelWebSocket, ChannelInApp,
}

func (c Channel) String() string { return string(c) }

func (c Channel) Valid() bool { return slices.Contains(Channels, c) }

// AddressKind is the kind of recipient address a channel sends to.
type AddressKind string

const (
	AddressChatID AddressKind = "CHAT_ID"
	AddressEmail  AddressKind = "EMAIL_ADDRESS"
	AddressPhone  AddressKind = "PHONE"
	AddressUserID AddressKind = "USER_ID"
)

// AddressKind returns the address kind c requires.
func (c Channel) AddressKind() AddressKind {
	switch c {
	case ChannelTelegram:
		return AddressChatID
	case ChannelEmail:
		return AddressEmail
	case ChannelSMS:
		return AddressPhone
	default:
		return AddressUserID
	}
}

// Priority orders notifications by urgency.
type Priority int

const (
	PriorityLow Priority = iota
	PriorityNormal
	PriorityHigh
	PriorityUrgent
)

var priorityNames = [...]string{"LOW", "NORMAL", "HIGH", "URGENT"}

func (p Priority) String() string {
	if p < PriorityLow || p > PriorityUrgent {
		return fmt.Sprintf("Priority(%d)", int(p))
	}
	return priorityNames[p]
}

func (p Priority) MarshalText() ([]byte, error) {
	if p < PriorityLow || p > PriorityUrgent {
		return nil, fmt.Errorf("unknown priority %d", int(p))
	}
	return []byte(p.String()), nil
}

func (p *Priority) UnmarshalText(b []byte) error {
	i := slices.Index(priorityNames[:], strings.ToUpper(string(b)))
	if i < 0 {
		return fmt.Errorf("unknown priority %q", b)
	}
	*p = Priority(i)
	return nil
}

// NotificationStatus is the aggregate state of a notification.
type NotificationStatus string

const (
	NotificationPending NotificationStatus = "PENDING"
	NotificationSent    NotificationStatus = "SENT"
	NotificationFailed  NotificationStatus = "FAILED"
)

// ParseNotificationStatus accepts a status name in any case.
func ParseNotificationStatus(name string) (NotificationStatus, error) {
	switch s := NotificationStatus(strings.ToUpper(strings.TrimSpace(name))); s {
	case NotificationPending, NotificationSent, NotificationFailed:
		return s, nil
	}
	return "", fmt.Errorf("unknown notification status %q", name)
}

// DeliveryStatus is the state of one channel delivery. It doubles as the
// lifecycle state name.
type DeliveryStatus string

const (
	DeliveryPending   DeliveryStatus = "PENDING"
	DeliverySending   DeliveryStatus = "SENDING"
	DeliverySent      DeliveryStatus = "SENT"
	DeliveryFailed    DeliveryStatus = "FAILED"
	DeliveryDelivered DeliveryStatus = "DELIVERED"
)

func (s DeliveryStatus) Name() string { return string(s) }

// ParseDeliveryStatus converts a stored status name back into a DeliveryStatus.
func ParseDeliveryStatus(name string) (DeliveryStatus, error) {
	switch s := DeliveryStatus(name); s {
	case DeliveryPending, DeliverySending, DeliverySent, DeliveryFailed, DeliveryDelivered:
		return s, nil
	}
	return "", fmt.Errorf("unknown delivery status %q", name)
}

// Succeeded reports whether the channel accepted the message.
func (s DeliveryStatus) Succeeded() bool {
	return s == DeliverySent || s == DeliveryDelivered
}

// Terminal reports whether a dispatch pass is finished with the delivery.
func (s DeliveryStatus) Terminal() bool {
	return s.Succeeded() || s == DeliveryFailed
}

// Notification is one message for one recipient about one event.
// Only Status and SentAt change after creation.
type Notification struct {
	ID         string             `json:"id"`
	EventID    string             `json:"event_id"`
	UserID     string             `json:"user_id"`
	OrgID      string             `json:"org_id,omitempty"`
	EventType  event.Type         `json:"event_type"`
	Title      string             `json:"title"`
	Message    string             `json:"message"`
	ActionURL  string             `json:"action_url,omitempty"`
	Priority   Priority           `json:"priority"`
	Status     NotificationStatus `json:"status"`
	CreatedAt  time.Time          `json:"created_at"`
	SentAt     *time.Time         `json:"sent_at,omitempty"`
	Deliveries []Delivery         `json:"deliveries"`
}

// Channels returns the channels of n's deliveries in creation order.
func (n *Notification) Channels() []Channel {
	out := make([]Channel, len(n.Deliveries))
	for i, d := range n.Deliveries {
		out[i] = d.Channel
	}
	return out
}

// Content is the rendered message handed to providers.
func (n *Notification) Content() Message {
	return Message{
		NotificationID: n.ID,
		UserID:         n.UserID,
		OrgID:          n.OrgID,
		EventType:      n.EventType,
		Title:          n.Title,
		Body:           n.Message,
		ActionURL:      n.ActionURL,
		Priority:       n.Priority,
	}
}

// Validate checks the fields storage requires before creation.
func (n *Notification) Validate() error {
	switch {
	case n == nil:
		return errors.Join(ErrInvalidNotification, errors.New("notification is nil"))
	case n.ID == "":
		return errors.Join(ErrInvalidNotification, errors.New("notification ID is required"))
	case n.UserID == "":
		return errors.Join(ErrInvalidNotification, errors.New("user ID is required"))
	}
	for _, d := range n.Deliveries {
		if d.ID == "" || d.NotificationID != n.ID {
			return errors.Join(ErrInvalidNotification, fmt.Errorf("delivery %q does not belong to notification %s", d.ID, n.ID))
		}
	}
	return nil
}

// Clone returns a deep copy.
func (n *Notification) Clone() *Notification {
	c := *n
	c.SentAt = cloneTime(n.SentAt)
	c.Deliveries = make([]Delivery, len(n.Deliveries))
	for i := range n.Deliveries {
		c.Deliveries[i] = n.Deliveries[i].clone()
	}
	return &c
}

// Delivery tracks one channel of a notification.
type Delivery struct {
	ID             string         `json:"id"`
	NotificationID string         `json:"notification_id"`
	Channel        Channel        `json:"channel"`
	AddressKind    AddressKind    `json:"recipient_address_kind"`
	Address        string         `json:"recipient_address"`
	Status         DeliveryStatus `json:"status"`
	ExternalID     string         `json:"external_id,omitempty"`
	DeliveredAt    *time.Time     `json:"delivered_at,omitempty"`
	Error          string         `json:"error,omitempty"`
	Attempts       int            `json:"attempts"`
	CreatedAt      time.Time      `json:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at"`
}

func (d Delivery) clone() Delivery {
	d.DeliveredAt = cloneTime(d.DeliveredAt)
	return d
}

// DeliveryUpdate is a status write for one delivery. Fields other than
// Status overwrite the stored values.
type DeliveryUpdate struct {
	Status           DeliveryStatus
	ExternalID       string
	DeliveredAt      *time.Time
	Error            string
	IncrementAttempt bool
	At               time.Time
}

// Apply writes u onto d.
func (u DeliveryUpdate) Apply(d *Delivery) {
	d.Status = u.Status
	d.ExternalID = u.ExternalID
	d.DeliveredAt = cloneTime(u.DeliveredAt)
	d.Error = u.Error
	if u.IncrementAttempt {
		d.Attempts++
	}
	if !u.At.IsZero() {
		d.UpdatedAt = u.At
	}
}

// Message is what a provider sends.
type Message struct {
	NotificationID string     `json:"notification_id"`
	UserID         string     `json:"user_id"`
	OrgID          string     `json:"org_id,omitempty"`
	EventType      event.Type `json:"event_type"`
	Title          string     `json:"title"`
	Body           string     `json:"body"`
	ActionURL      string     `json:"action_url,omitempty"`
	Priority       Priority   `json:"priority"`
}

// RecipientSettings are a user's notification preferences.
type RecipientSettings struct {
	UserID               string             `json:"user_id"`
	Enabled              bool               `json:"enabled"`
	EnabledChannels      []Channel          `json:"enabled_channels"`
	SubscribedEventTypes []event.Type       `json:"subscribed_event_types"`
	ChannelAddress       map[Channel]string `json:"channel_address,omitempty"`
}

// Subscribed reports whether the recipient wants events of type t.
func (s *RecipientSettings) Subscribed(t event.Type) bool {
	return slices.Contains(s.SubscribedEventTypes, t)
}

// Address resolves the address for c. Channels addressed by user id use
// userID and need nothing on file.
func (s *RecipientSettings) Address(c Channel, userID string) (string, bool) {
	if c.AddressKind() == AddressUserID {
		return userID, userID != ""
	}
	addr := strings.TrimSpace(s.ChannelAddress[c])
	return addr, addr != ""
}

// Clone returns a deep copy.
func (s *RecipientSettings) Clone() *RecipientSettings {
	c := *s
	c.EnabledChannels = slices.Clone(s.EnabledChannels)
	c.SubscribedEventTypes = slices.Clone(s.SubscribedEventTypes)
	if s.ChannelAddress != nil {
		c.ChannelAddress = make(map[Channel]string, len(s.ChannelAddress))
		for k, v := range s.ChannelAddress {
			c.ChannelAddress[k] = v
		}
	}
	return &c
}

func cloneTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	v := *t
	return &v
}

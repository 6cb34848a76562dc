package notify

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/dmitrymomot/courier/pkg/event"
)

// Rendered is the user-facing text of a notification.
type Rendered struct {
	Title     string `json:"title"`
	Message   string `json:"message"`
	ActionURL string `json:"action_url,omitempty"`
}

// Renderer turns an event payload into notification text.
type Renderer interface {
	Render(p event.Payload) Rendered
}

// RenderFunc adapts a function to Renderer.
type RenderFunc func(p event.Payload) Rendered

func (f RenderFunc) Render(p event.Payload) Rendered { return f(p) }

// DefaultRenderer renders every known event type.
var DefaultRenderer Renderer = RenderFunc(Render)

const timeLayout = "2006-01-02 15:04 UTC"

// Render is deterministic: the output depends on p alone. Timestamps come
// from the payload and are shown in UTC.
func Render(p event.Payload) Rendered {
	switch p := p.(type) {
	case event.BookingCreated:
		return Rendered{
			Title: "New booking",
			Message: fmt.Sprintf("%s booked %s from %s to %s.",
				or(p.GuestName, "A guest"), or(p.UnitName, "a unit"),
				formatTime(p.CheckIn, "the check-in date"), formatTime(p.CheckOut, "the check-out date")),
			ActionURL: link("bookings", p.BookingID),
		}
	case event.BookingCancelled:
		return Rendered{
			Title: "Booking cancelled",
			Message: fmt.Sprintf("The booking for %s by %s was cancelled.%s",
				or(p.UnitName, "a unit"), or(p.GuestName, "a guest"), reason(p.Reason)),
			ActionURL: link("bookings", p.BookingID),
		}
	case event.CleaningAssigned:
		return Rendered{
			Title: "Cleaning assigned",
			Message: fmt.Sprintf("You have been assigned to clean %s at %s.",
				or(p.UnitName, "a unit"), formatTime(p.ScheduledAt, "the scheduled time")),
			ActionURL: link("cleanings", p.CleaningID),
		}
	case event.CleaningStarted:
		return Rendered{
			Title:     "Cleaning started",
			Message:   fmt.Sprintf("%s started cleaning %s.", or(p.CleanerName, "A cleaner"), or(p.UnitName, "a unit")),
			ActionURL: link("cleanings", p.CleaningID),
		}
	case event.CleaningCompleted:
		return Rendered{
			Title: "Cleaning completed",
			Message: fmt.Sprintf("Cleaning of %s was completed at %s.",
				or(p.UnitName, "a unit"), formatTime(p.CompletedAt, "an unrecorded time")),
			ActionURL: link("cleanings", p.CleaningID),
		}
	case event.CleaningIssueReported:
		return Rendered{
			Title: "Cleaning issue reported",
			Message: fmt.Sprintf("An issue was reported at %s: %s.",
				or(p.UnitName, "a unit"), or(p.Issue, "no details provided")),
			ActionURL: link("cleanings", p.CleaningID),
		}
	case event.TaskAssigned:
		return Rendered{
			Title: "Task assigned",
			Message: fmt.Sprintf("You have been assigned %s, due %s.",
				quoted(p.Title, "a task"), formatTime(p.DueAt, "at no set time")),
			ActionURL: link("tasks", p.TaskID),
		}
	case event.TaskCompleted:
		return Rendered{
			Title:     "Task completed",
			Message:   fmt.Sprintf("%s has been completed.", capitalize(quoted(p.Title, "a task"))),
			ActionURL: link("tasks", p.TaskID),
		}
	case event.TaskOverdue:
		return Rendered{
			Title: "Task overdue",
			Message: fmt.Sprintf("%s was due %s and is overdue.",
				capitalize(quoted(p.Title, "a task")), formatTime(p.DueAt, "earlier")),
			ActionURL: link("tasks", p.TaskID),
		}
	case event.PaymentReceived:
		return Rendered{
			Title: "Payment received",
			Message: fmt.Sprintf("Received %s for booking %s.",
				amount(p.Amount, p.Currency), or(p.BookingID, "an unknown booking")),
			ActionURL: link("payments", p.PaymentID),
		}
	case event.PaymentFailed:
		return Rendered{
			Title: "Payment failed",
			Message: fmt.Sprintf("Payment of %s for booking %s failed.%s",
				amount(p.Amount, p.Currency), or(p.BookingID, "an unknown booking"), reason(p.Reason)),
			ActionURL: link("payments", p.PaymentID),
		}
	case nil:
		return Fallback("")
	default:
		return Fallback(p.EventType())
	}
}

// Fallback is the generic rendering for types without a template.
func Fallback(t event.Type) Rendered {
	return Rendered{
		Title:   humanize(string(t)),
		Message: "Event: " + string(t),
	}
}

func humanize(s string) string {
	s = strings.TrimSpace(strings.ReplaceAll(s, "_", " "))
	if s == "" {
		return "Notification"
	}
	// cases.Caser is stateful, so one per call.
	return cases.Title(language.English).String(strings.ToLower(s))
}

func or(v, fallback string) string {
	if v = strings.TrimSpace(v); v != "" {
		return v
	}
	return fallback
}

func quoted(v, fallback string) string {
	if v = strings.TrimSpace(v); v != "" {
		return `"` + v + `"`
	}
	return fallback
}

func capitalize(s string) string {
	if s == "" || s[0] < 'a' || s[0] > 'z' {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

func reason(r string) string {
	if r = strings.TrimSpace(r); r != "" {
		return " Reason: " + r + "."
	}
	return ""
}

func formatTime(t *time.Time, fallback string) string {
	if t == nil || t.IsZero() {
		return fallback
	}
	return t.UTC().Format(timeLayout)
}

func amount(v *float64, currency string) string {
	if v == nil {
		return "a payment"
	}
	if currency = strings.TrimSpace(currency); currency != "" {
		return fmt.Sprintf("%.2f %s", *v, strings.ToUpper(currency))
	}
	return fmt.Sprintf("%.2f", *v)
}

func link(kind, id string) string {
	if id = strings.TrimSpace(id); id == "" {
		return "/" + kind
	}
	return "/" + kind + "/" + url.PathEscape(id)
}

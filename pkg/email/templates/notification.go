package templates

import (
	"context"
	"io"

	"github.com/a-h/templ"
)

// NotificationData is the content of a notification email.
type NotificationData struct {
	Title     string
	Message   string
	ActionURL string
	Priority  string
}

// Notification renders a minimal HTML email for a notification. All text is
// escaped; the action link is only rendered for a non-empty, safe URL.
func Notification(d NotificationData) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		parts := []string{
			`<!DOCTYPE html><html><head><meta charset="utf-8"><title>`,
			templ.EscapeString(d.Title),
			`</title></head><body style="font-family:sans-serif">`,
		}
		if d.Priority == "URGENT" || d.Priority == "HIGH" {
			parts = append(parts, `<p style="color:#b00020;font-weight:bold">`, templ.EscapeString(d.Priority), `</p>`)
		}
		parts = append(parts,
			`<h1>`, templ.EscapeString(d.Title), `</h1>`,
			`<p>`, templ.EscapeString(d.Message), `</p>`,
		)
		if d.ActionURL != "" {
			href := templ.URL(d.ActionURL)
			parts = append(parts, `<p><a href="`, templ.EscapeString(string(href)), `">Open</a></p>`)
		}
		parts = append(parts, `</body></html>`)

		for _, p := range parts {
			if _, err := io.WriteString(w, p); err != nil {
				return err
			}
		}
		return nil
	})
}

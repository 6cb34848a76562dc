package notifications

import (
	"context"
	"io"

	"github.com/a-h/templ"

	"github.com/dmitrymomot/courier/handler"
	"github.com/dmitrymomot/courier/pkg/notify"
)

// StreamTarget is the element new notifications are prepended to.
const StreamTarget = "#notifications"

// stream pushes a user's WEBSOCKET channel messages over a datastar event
// stream until the client disconnects or the streamer shuts down.
func (s *Service) stream(ctx handler.Context, req userRequest) handler.Response {
	return handler.Stream(func(stream handler.StreamContext) error {
		sub := s.opts.Streamer.Subscribe(stream, req.UserID)
		defer sub.Close()

		if s.opts.Inbox != nil {
			if unread, err := s.opts.Inbox.CountUnread(stream, req.UserID); err == nil {
				if err := stream.SendSignals(map[string]any{"unread": unread}); err != nil {
					return err
				}
			}
		}

		messages := sub.Receive(stream)
		for {
			select {
			case <-stream.Done():
				return nil
			case msg, ok := <-messages:
				if !ok {
					return nil
				}
				if err := stream.SendComponent(notificationItem(msg.Data),
					handler.WithTarget(StreamTarget),
					handler.WithPatchMode(handler.PatchPrepend),
				); err != nil {
					return err
				}
				if err := stream.SendSignals(map[string]any{"last_notification_id": msg.Data.NotificationID}); err != nil {
					return err
				}
			}
		}
	})
}

func notificationItem(m notify.Message) templ.Component {
	return templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		parts := []string{
			`<li id="notification-`, templ.EscapeString(m.NotificationID), `" data-priority="`, templ.EscapeString(m.Priority.String()), `">`,
			`<strong>`, templ.EscapeString(m.Title), `</strong>`,
			`<p>`, templ.EscapeString(m.Body), `</p>`,
		}
		if m.ActionURL != "" {
			parts = append(parts, `<a href="`, templ.EscapeString(string(templ.URL(m.ActionURL))), `">Open</a>`)
		}
		parts = append(parts, `</li>`)
		for _, p := range parts {
			if _, err := io.WriteString(w, p); err != nil {
				return err
			}
		}
		return nil
	})
}

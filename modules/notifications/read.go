package notifications

import (
	"errors"
	"fmt"

	"github.com/dmitrymomot/courier/handler"
	"github.com/dmitrymomot/courier/pkg/event"
	"github.com/dmitrymomot/courier/pkg/notify"
)

type idRequest struct {
	ID string `path:"id"`
}

type listRequest struct {
	UserID    string `query:"user_id"`
	Status    string `query:"status"`
	EventType string `query:"event_type"`
	Limit     int    `query:"limit"`
	Offset    int    `query:"offset"`
}

func (s *Service) getNotification(ctx handler.Context, req idRequest) handler.Response {
	n, err := s.opts.Storage.GetNotification(ctx, req.ID)
	if err != nil {
		return handler.Fail(err)
	}
	return handler.JSON(n)
}

func (s *Service) listNotifications(ctx handler.Context, req listRequest) handler.Response {
	opts := notify.ListOptions{
		UserID:    req.UserID,
		EventType: event.Type(req.EventType),
	}
	if req.Status != "" {
		status, err := notify.ParseNotificationStatus(req.Status)
		if err != nil {
			return handler.Fail(errors.Join(ErrInvalidRequest, err))
		}
		opts.Status = status
	}
	opts.Limit, opts.Offset = page(req.Limit, req.Offset)

	list, err := s.opts.Storage.ListNotifications(ctx, opts)
	if err != nil {
		return handler.Fail(fmt.Errorf("list notifications: %w", err))
	}
	if list == nil {
		list = []notify.Notification{}
	}
	return handler.JSON(list, handler.WithJSONMeta(map[string]any{
		"limit":  opts.Limit,
		"offset": opts.Offset,
		"count":  len(list),
	}))
}

func (s *Service) listDeliveries(ctx handler.Context, req idRequest) handler.Response {
	list, err := s.opts.Storage.ListDeliveries(ctx, req.ID)
	if err != nil {
		return handler.Fail(err)
	}
	return handler.JSON(list)
}

// dispatch re-runs delivery for the notification. Channels that already
// succeeded are skipped; this is the only retry path.
func (s *Service) dispatch(ctx handler.Context, req idRequest) handler.Response {
	n, err := s.opts.Dispatcher.DispatchID(ctx, req.ID)
	if err != nil {
		return handler.Fail(err)
	}
	return handler.JSON(n)
}

package notifications

import (
	"errors"
	"fmt"
	"log/slog"
	"slices"

	"github.com/dmitrymomot/courier/handler"
	"github.com/dmitrymomot/courier/pkg/event"
	"github.com/dmitrymomot/courier/pkg/inbox"
	"github.com/dmitrymomot/courier/pkg/logger"
	"github.com/dmitrymomot/courier/pkg/notify"
)

type userRequest struct {
	UserID string `path:"id"`
}

func (s *Service) getSettings(ctx handler.Context, req userRequest) handler.Response {
	rs, err := s.opts.Settings.GetSettings(ctx, req.UserID)
	if err != nil {
		return handler.Fail(err)
	}
	return handler.JSON(rs)
}

type putSettingsRequest struct {
	UserID string `path:"id" json:"-"`

	DocumentUserID       string                    `json:"user_id"`
	Enabled              bool                      `json:"enabled"`
	EnabledChannels      []notify.Channel          `json:"enabled_channels"`
	SubscribedEventTypes []event.Type              `json:"subscribed_event_types"`
	ChannelAddress       map[notify.Channel]string `json:"channel_address"`
}

func (s *Service) putSettings(ctx handler.Context, req putSettingsRequest) handler.Response {
	rs, err := req.settings()
	if err != nil {
		return handler.Fail(err)
	}
	if err := s.opts.SettingsWriter.Put(ctx, rs); err != nil {
		return handler.Fail(fmt.Errorf("store settings: %w", err))
	}
	if c, ok := s.opts.Settings.(interface{ Invalidate(string) }); ok {
		c.Invalidate(rs.UserID)
	}
	s.logger.LogAttrs(ctx, slog.LevelInfo, "recipient settings updated", logger.UserID(rs.UserID))
	return handler.JSON(rs)
}

func (r putSettingsRequest) settings() (notify.RecipientSettings, error) {
	if r.UserID == "" {
		return notify.RecipientSettings{}, errors.Join(ErrInvalidSettings, errors.New("user id is required"))
	}
	if r.DocumentUserID != "" && r.DocumentUserID != r.UserID {
		return notify.RecipientSettings{}, errors.Join(ErrInvalidSettings, errors.New("user id does not match the path"))
	}
	rs := notify.RecipientSettings{
		UserID:               r.UserID,
		Enabled:              r.Enabled,
		EnabledChannels:      []notify.Channel{},
		SubscribedEventTypes: []event.Type{},
		ChannelAddress:       map[notify.Channel]string{},
	}
	for _, ch := range r.EnabledChannels {
		if !ch.Valid() {
			return notify.RecipientSettings{}, errors.Join(ErrInvalidSettings, fmt.Errorf("unknown channel %q", ch))
		}
		if !slices.Contains(rs.EnabledChannels, ch) {
			rs.EnabledChannels = append(rs.EnabledChannels, ch)
		}
	}
	for ch, addr := range r.ChannelAddress {
		if !ch.Valid() {
			return notify.RecipientSettings{}, errors.Join(ErrInvalidSettings, fmt.Errorf("unknown channel %q", ch))
		}
		rs.ChannelAddress[ch] = addr
	}
	for _, t := range r.SubscribedEventTypes {
		if t != "" && !slices.Contains(rs.SubscribedEventTypes, t) {
			rs.SubscribedEventTypes = append(rs.SubscribedEventTypes, t)
		}
	}
	return rs, nil
}

type inboxRequest struct {
	UserID string `path:"id"`
	Unread bool   `query:"unread"`
	Limit  int    `query:"limit"`
	Offset int    `query:"offset"`
}

func (s *Service) listInbox(ctx handler.Context, req inboxRequest) handler.Response {
	opts := inbox.ListOptions{OnlyUnread: req.Unread}
	opts.Limit, opts.Offset = page(req.Limit, req.Offset)

	items, err := s.opts.Inbox.List(ctx, req.UserID, opts)
	if err != nil {
		return handler.Fail(fmt.Errorf("list inbox: %w", err))
	}
	unread, err := s.opts.Inbox.CountUnread(ctx, req.UserID)
	if err != nil {
		return handler.Fail(fmt.Errorf("count unread: %w", err))
	}
	if items == nil {
		items = []inbox.Item{}
	}
	return handler.JSON(items, handler.WithJSONMeta(map[string]any{
		"unread": unread,
		"limit":  opts.Limit,
		"offset": opts.Offset,
	}))
}

type markReadRequest struct {
	UserID string   `path:"id" json:"-"`
	IDs    []string `json:"ids"`
}

// markRead marks the listed items read, or all of them when ids is empty.
func (s *Service) markRead(ctx handler.Context, req markReadRequest) handler.Response {
	n, err := s.opts.Inbox.MarkRead(ctx, req.UserID, req.IDs...)
	if err != nil {
		return handler.Fail(fmt.Errorf("mark read: %w", err))
	}
	unread, err := s.opts.Inbox.CountUnread(ctx, req.UserID)
	if err != nil {
		return handler.Fail(fmt.Errorf("count unread: %w", err))
	}
	return handler.JSON(map[string]int{"marked": n, "unread": unread})
}

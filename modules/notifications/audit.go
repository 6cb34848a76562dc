package notifications

import (
	"errors"
	"fmt"
	"time"

	"github.com/dmitrymomot/courier/handler"
	"github.com/dmitrymomot/courier/pkg/audit"
)

type auditRequest struct {
	EventType   string `query:"event_type"`
	OrgID       string `query:"org_id"`
	RecipientID string `query:"recipient_id"`
	Since       string `query:"since"`
	Until       string `query:"until"`
	Limit       int    `query:"limit"`
	Offset      int    `query:"offset"`
}

func (s *Service) auditEvents(ctx handler.Context, req auditRequest) handler.Response {
	c := audit.Criteria{
		EventType:   req.EventType,
		OrgID:       req.OrgID,
		RecipientID: req.RecipientID,
	}
	var err error
	if c.Since, err = parseTime("since", req.Since); err != nil {
		return handler.Fail(err)
	}
	if c.Until, err = parseTime("until", req.Until); err != nil {
		return handler.Fail(err)
	}
	c.Limit, c.Offset = page(req.Limit, req.Offset)

	records, err := s.opts.Audit.Query(ctx, c)
	if err != nil {
		return handler.Fail(fmt.Errorf("query audit log: %w", err))
	}
	if records == nil {
		records = []audit.Record{}
	}
	return handler.JSON(records, handler.WithJSONMeta(map[string]any{
		"limit":  c.Limit,
		"offset": c.Offset,
		"count":  len(records),
	}))
}

func parseTime(name, v string) (time.Time, error) {
	if v == "" {
		return time.Time{}, nil
	}
	t, err := time.Parse(time.RFC3339, v)
	if err != nil {
		return time.Time{}, errors.Join(ErrInvalidRequest, fmt.Errorf("%s must be RFC 3339: %w", name, err))
	}
	return t, nil
}

package notifications

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/dmitrymomot/courier/handler"
	"github.com/dmitrymomot/courier/pkg/event"
	"github.com/dmitrymomot/courier/pkg/logger"
)

// ingestRequest is the ingress shape used by upstream services.
type ingestRequest struct {
	Type          string          `json:"type"`
	OrgID         string          `json:"orgId"`
	TargetUserIDs []string        `json:"targetUserIds"`
	Payload       json.RawMessage `json:"payload"`
	Version       int             `json:"version"`
}

// ingest emits the event and answers once every adapter has finished.
// Adapter failures never fail the request.
func (s *Service) ingest(ctx handler.Context, req ingestRequest) handler.Response {
	t := event.Type(req.Type)
	payload, err := event.DecodePayload(t, req.Payload)
	if err != nil {
		s.logger.LogAttrs(ctx, slog.LevelWarn, "event payload does not match its type",
			logger.EventType(req.Type),
			logger.Error(err),
		)
	}

	ev := event.New(t, req.OrgID, req.TargetUserIDs, payload)
	ev.Version = req.Version
	if err := ev.Validate(); err != nil {
		return handler.Fail(err)
	}

	ev = s.opts.Bus.Emit(ctx, ev)
	return handler.JSON(ev, handler.WithJSONStatus(http.StatusAccepted))
}

package notifications

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/dmitrymomot/courier/handler"
	"github.com/dmitrymomot/courier/pkg/audit"
	"github.com/dmitrymomot/courier/pkg/binder"
	"github.com/dmitrymomot/courier/pkg/broadcast"
	"github.com/dmitrymomot/courier/pkg/event"
	"github.com/dmitrymomot/courier/pkg/inbox"
	"github.com/dmitrymomot/courier/pkg/logger"
	"github.com/dmitrymomot/courier/pkg/notify"
)

const (
	defaultPageSize = 50
	maxPageSize     = 200
	maxReceiptSize  = 64 << 10
)

// Emitter publishes ingested events.
type Emitter interface {
	Emit(ctx context.Context, ev event.Event) event.Event
}

// Dispatcher re-sends notifications and records provider receipts.
type Dispatcher interface {
	DispatchID(ctx context.Context, id string) (*notify.Notification, error)
	MarkDelivered(ctx context.Context, deliveryID string, at time.Time) (*notify.Delivery, error)
}

// SettingsWriter stores recipient settings.
type SettingsWriter interface {
	Put(ctx context.Context, rs notify.RecipientSettings) error
}

// SettingsWriterFunc adapts a function to SettingsWriter.
type SettingsWriterFunc func(ctx context.Context, rs notify.RecipientSettings) error

func (f SettingsWriterFunc) Put(ctx context.Context, rs notify.RecipientSettings) error {
	return f(ctx, rs)
}

// Streamer opens a user's live message stream.
type Streamer interface {
	Subscribe(ctx context.Context, userID string) broadcast.Subscriber[notify.Message]
}

// AuditReader queries the audit log.
type AuditReader interface {
	Query(ctx context.Context, c audit.Criteria) ([]audit.Record, error)
}

// Options wires the service. Bus, Storage, Dispatcher and Settings are
// required; routes backed by the optional dependencies are only mounted
// when they are set.
type Options struct {
	Bus        Emitter
	Storage    notify.Storage
	Dispatcher Dispatcher
	Settings   notify.SettingsStore

	SettingsWriter SettingsWriter
	Inbox          inbox.Storage
	Streamer       Streamer
	Audit          AuditReader

	// ReceiptSecret enables HMAC verification of delivery receipts.
	ReceiptSecret string
	// ReceiptMaxAge bounds the age of a signed receipt; 0 disables the check.
	ReceiptMaxAge time.Duration

	Logger *slog.Logger
}

// Service serves event ingress and the notification read API.
type Service struct {
	opts         Options
	logger       *slog.Logger
	errorHandler handler.ErrorHandler
}

// NewService panics when a required dependency is missing.
func NewService(opts Options) *Service {
	switch {
	case opts.Bus == nil:
		panic("notifications: bus is required")
	case opts.Storage == nil:
		panic("notifications: storage is required")
	case opts.Dispatcher == nil:
		panic("notifications: dispatcher is required")
	case opts.Settings == nil:
		panic("notifications: settings store is required")
	}
	log := opts.Logger
	if log == nil {
		log = slog.Default()
	}
	log = log.With(logger.Component("notifications"))
	return &Service{
		opts:         opts,
		logger:       log,
		errorHandler: handler.NewErrorHandler(log, mapError),
	}
}

// Handle returns the module router.
func (s *Service) Handle() http.Handler {
	r := chi.NewRouter()
	path := binder.Path(chi.URLParam)
	query := binder.Query()
	jsonBody := binder.JSON()

	r.Post("/events", wrap(s, s.ingest, jsonBody))

	r.Route("/notifications", func(r chi.Router) {
		r.Get("/", wrap(s, s.listNotifications, query))
		r.Get("/{id}", wrap(s, s.getNotification, path))
		r.Get("/{id}/deliveries", wrap(s, s.listDeliveries, path))
		r.Post("/{id}/dispatch", wrap(s, s.dispatch, path))
	})

	r.Post("/deliveries/{id}/receipt", wrap(s, s.receipt, path, bindRawBody))

	r.Route("/users/{id}", func(r chi.Router) {
		r.Get("/settings", wrap(s, s.getSettings, path))
		if s.opts.SettingsWriter != nil {
			r.Put("/settings", wrap(s, s.putSettings, path, jsonBody))
		}
		if s.opts.Inbox != nil {
			r.Get("/inbox", wrap(s, s.listInbox, path, query))
			r.Post("/inbox/read", wrap(s, s.markRead, path, jsonBody))
		}
		if s.opts.Streamer != nil {
			r.Get("/stream", wrap(s, s.stream, path))
		}
	})

	if s.opts.Audit != nil {
		r.Get("/audit/events", wrap(s, s.auditEvents, query))
	}
	return r
}

func wrap[R any](s *Service, h handler.HandlerFunc[R], binders ...handler.Bind) http.HandlerFunc {
	return handler.Wrap(h,
		handler.WithBinders(binders...),
		handler.WithErrorHandler(s.errorHandler),
	)
}

func page(limit, offset int) (int, int) {
	switch {
	case limit <= 0:
		limit = defaultPageSize
	case limit > maxPageSize:
		limit = maxPageSize
	}
	return limit, max(offset, 0)
}

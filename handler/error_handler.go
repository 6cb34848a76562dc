package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5/middleware"

	"github.com/dmitrymomot/courier/pkg/logger"
)

// ErrorMapper translates domain errors into HTTP errors. It returns err
// unchanged when it has no mapping.
type ErrorMapper func(err error) error

// NewErrorHandler returns an ErrorHandler that maps err, logs it (warn for
// client errors, error for server errors) and renders the JSON error
// envelope. Errors after a stream started are only logged.
func NewErrorHandler(log *slog.Logger, mapper ErrorMapper) ErrorHandler {
	if log == nil {
		log = logger.Discard()
	}
	return func(ctx Context, err error) {
		if mapper != nil {
			err = mapper(err)
		}
		status := StatusCode(err)

		level := slog.LevelError
		if status < http.StatusInternalServerError {
			level = slog.LevelWarn
		}
		r := ctx.Request()
		log.LogAttrs(r.Context(), level, "request error",
			logger.RequestID(middleware.GetReqID(r.Context())),
			logger.Error(err),
			slog.Int("status_code", status),
			slog.String("method", r.Method),
			slog.String("path", r.URL.Path),
			logger.Component("http"),
		)

		if errors.Is(err, ErrStreamInterrupted) {
			return
		}
		_ = JSONError(err).Render(ctx.ResponseWriter(), r)
	}
}

func asHTTPError(err error) (HTTPError, bool) {
	var httpErr HTTPError
	ok := errors.As(err, &httpErr)
	return httpErr, ok
}

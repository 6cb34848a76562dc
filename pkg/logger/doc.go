// Package logger builds *slog.Logger instances through functional options and
// provides attribute helpers so that every component logs the same keys.
//
// New picks a text or JSON handler, applies static attributes and wraps the
// handler with LogHandlerDecorator, which runs the registered ContextExtractor
// callbacks on every record. That is how request-scoped values such as a
// request id reach log lines without being threaded through every call.
//
// # Usage
//
//	log := logger.New(
//	    logger.WithEnvironment(os.Getenv("APP_ENV"), "courier"),
//	    logger.WithContextValue("request_id", requestIDKey{}),
//	)
//	logger.SetAsDefault(log)
//
//	log.LogAttrs(ctx, slog.LevelInfo, "delivery sent",
//	    logger.NotificationID(n.ID),
//	    logger.Channel(string(d.Channel)),
//	    logger.Duration(elapsed),
//	)
//
// Error and Errors return an empty attribute for nil errors, so they can be
// passed unconditionally.
package logger

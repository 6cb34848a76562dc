// Package httpserver runs an http.Handler with graceful shutdown.
//
//	srv := httpserver.NewFromConfig(cfg,
//	    httpserver.WithLogger(log),
//	    httpserver.WithStopHook(bus.Close),
//	)
//	if err := srv.Run(ctx, router); err != nil {
//	    log.Error("server failed", logger.Error(err))
//	}
//
// Run blocks until ctx is cancelled or SIGINT/SIGTERM arrives, then stops the
// listener, waits for in-flight requests and runs stop hooks, all bounded by
// the shutdown timeout. Request contexts are not cancelled by ctx itself, so
// handlers finish their work during the drain.
//
// LivenessHandler and ReadinessHandler provide /healthz and /readyz probes.
package httpserver

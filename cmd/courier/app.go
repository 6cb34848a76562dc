package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"slices"

	"github.com/dmitrymomot/courier/modules/notifications"
	"github.com/dmitrymomot/courier/pkg/audit"
	"github.com/dmitrymomot/courier/pkg/eventbus"
	"github.com/dmitrymomot/courier/pkg/httpserver"
	"github.com/dmitrymomot/courier/pkg/inbox"
	"github.com/dmitrymomot/courier/pkg/logger"
	"github.com/dmitrymomot/courier/pkg/metrics"
	"github.com/dmitrymomot/courier/pkg/mongo"
	"github.com/dmitrymomot/courier/pkg/nats"
	"github.com/dmitrymomot/courier/pkg/notify"
	"github.com/dmitrymomot/courier/pkg/notify/pgstore"
	"github.com/dmitrymomot/courier/pkg/notify/providers"
	"github.com/dmitrymomot/courier/pkg/notify/redisstore"
	"github.com/dmitrymomot/courier/pkg/opensearch"
	"github.com/dmitrymomot/courier/pkg/pg"
	"github.com/dmitrymomot/courier/pkg/redis"
	"github.com/dmitrymomot/courier/pkg/telemetry"
	"github.com/dmitrymomot/courier/pkg/webhook"
)

type closeFunc func(context.Context) error

// app is the wired process: the root handler plus what must be released on
// shutdown, in release order.
type app struct {
	handler http.Handler
	closers []closeFunc
}

// build connects the enabled backends and wires the pipeline. On failure
// everything opened so far is closed.
func build(ctx context.Context, cfg appConfig, log *slog.Logger) (_ *app, err error) {
	var (
		conns    []closeFunc // connections, released last
		services []closeFunc // pipeline stages, released first
		checks   []httpserver.Check
	)
	defer func() {
		if err != nil {
			closeAll(context.WithoutCancel(ctx), log, append(services, reversed(conns)...))
		}
	}()

	m := metrics.New()

	var storage notify.Storage = notify.NewMemoryStorage()
	if cfg.PostgresEnabled {
		pool, err := pg.Connect(ctx, cfg.Postgres)
		if err != nil {
			return nil, err
		}
		conns = append(conns, func(context.Context) error { pool.Close(); return nil })
		if err := pgstore.Migrate(ctx, pool, cfg.Postgres, log); err != nil {
			return nil, err
		}
		storage = pgstore.New(pool)
		checks = append(checks, httpserver.Check{Name: "postgres", Fn: pg.Healthcheck(pool)})
	}

	var (
		settings notify.SettingsStore
		writer   notifications.SettingsWriter
	)
	if cfg.RedisEnabled {
		client, err := redis.Connect(ctx, cfg.Redis)
		if err != nil {
			return nil, err
		}
		conns = append(conns, func(context.Context) error { return client.Close() })
		rs := redisstore.NewSettings(client, cfg.Redis.KeyPrefix)
		settings = notify.NewCachedSettings(rs, cfg.SettingsCacheSize, cfg.SettingsCacheTTL)
		writer = rs
		checks = append(checks, httpserver.Check{Name: "redis", Fn: redis.Healthcheck(client)})
	} else {
		mem := notify.NewMemorySettings()
		settings = mem
		writer = notifications.SettingsWriterFunc(func(_ context.Context, rs notify.RecipientSettings) error {
			mem.Put(rs)
			return nil
		})
	}

	box := inbox.NewMemoryStorage(inbox.WithMaxPerUser(cfg.InboxMaxPerUser))

	set, err := buildProviders(cfg, box, log)
	if err != nil {
		return nil, err
	}
	if set.WebSocket != nil {
		services = append(services, func(context.Context) error { return set.WebSocket.Close() })
	}
	registry, err := set.Registry()
	if err != nil {
		return nil, err
	}

	builder := notify.NewBuilder(settings, storage, notify.WithBuilderLogger(log))
	dispatcher := notify.NewDispatcher(storage, registry,
		notify.WithSendTimeout(cfg.SendTimeout),
		notify.WithObserver(m),
		notify.WithDispatcherLogger(log),
	)
	adapters := []eventbus.Adapter{
		notify.NewAdapter(builder, dispatcher,
			notify.WithConcurrency(cfg.RecipientConcurrency),
			notify.WithAdapterLogger(log),
		),
	}

	var auditStorage audit.Storage = audit.NewMemoryStorage()
	if cfg.MongoEnabled {
		client, err := mongo.New(ctx, cfg.Mongo)
		if err != nil {
			return nil, err
		}
		conns = append(conns, client.Disconnect)
		ms := audit.NewMongoStorage(client.Database(cfg.Mongo.Database).Collection(cfg.AuditCollection))
		if err := ms.EnsureIndexes(ctx); err != nil {
			return nil, err
		}
		auditStorage = ms
		checks = append(checks, httpserver.Check{Name: "mongodb", Fn: mongo.Healthcheck(client)})
	}
	auditWriter := audit.NewAsyncWriter(auditStorage, audit.AsyncOptions{})
	services = append(services, auditWriter.Close)
	adapters = append(adapters, eventbus.Named("audit", audit.NewAdapter(auditWriter, audit.WithLogger(log))))

	if cfg.OpenSearchEnabled {
		client, err := opensearch.New(ctx, cfg.OpenSearch)
		if err != nil {
			return nil, err
		}
		adapters = append(adapters, eventbus.Named("opensearch", telemetry.NewOpenSearchAdapter(client, cfg.OpenSearch.Index)))
		checks = append(checks, httpserver.Check{Name: "opensearch", Fn: opensearch.Healthcheck(client)})
	}
	if cfg.NATSEnabled {
		conn, err := nats.Connect(cfg.NATS)
		if err != nil {
			return nil, err
		}
		conns = append(conns, func(context.Context) error { return conn.Drain() })
		js, err := nats.JetStream(ctx, conn, cfg.NATS)
		if err != nil {
			return nil, err
		}
		adapters = append(adapters, eventbus.Named("nats", telemetry.NewNATSAdapter(js, cfg.NATS.SubjectPrefix)))
		checks = append(checks, httpserver.Check{Name: "nats", Fn: nats.Healthcheck(conn)})
	}

	bus := eventbus.New(
		eventbus.WithAdapters(adapters...),
		eventbus.WithLogger(log),
		eventbus.WithObserver(m),
		eventbus.WithAdapterTimeout(cfg.AdapterTimeout),
	)
	// The bus drains in-flight emits before anything it feeds is closed.
	services = append([]closeFunc{bus.Close}, services...)

	svcOpts := notifications.Options{
		Bus:            bus,
		Storage:        storage,
		Dispatcher:     dispatcher,
		Settings:       settings,
		SettingsWriter: writer,
		Inbox:          box,
		Audit:          auditStorage,
		ReceiptSecret:  cfg.ReceiptSecret,
		ReceiptMaxAge:  cfg.ReceiptMaxAge,
		Logger:         log,
	}
	if set.WebSocket != nil {
		svcOpts.Streamer = set.WebSocket
	}

	log.LogAttrs(ctx, slog.LevelInfo, "pipeline ready",
		slog.Any("adapters", bus.Adapters()),
		slog.Int("providers", len(set.Providers)),
	)

	return &app{
		handler: newRouter(notifications.NewService(svcOpts), m, log, checks...),
		closers: append(services, reversed(conns)...),
	}, nil
}

// buildProviders loads the providers file. Without one only the in-app and
// websocket channels are served.
func buildProviders(cfg appConfig, box inbox.Storage, log *slog.Logger) (providers.Set, error) {
	pcfg := providers.Config{
		InApp:     &providers.InAppConfig{},
		WebSocket: &providers.WebSocketConfig{},
	}
	if cfg.ProvidersFile != "" {
		loaded, err := providers.LoadConfig(cfg.ProvidersFile)
		if err != nil {
			return providers.Set{}, fmt.Errorf("providers file %s: %w", cfg.ProvidersFile, err)
		}
		pcfg = loaded
	}
	return providers.Build(pcfg, providers.Deps{
		Sender:       webhook.NewSender(),
		Inbox:        box,
		WebSocketOpt: []providers.WebSocketOption{providers.WithWebSocketLogger(log)},
	})
}

func closeAll(ctx context.Context, log *slog.Logger, closers []closeFunc) {
	var errs []error
	for _, c := range closers {
		if err := c(ctx); err != nil {
			errs = append(errs, err)
		}
	}
	if err := errors.Join(errs...); err != nil {
		log.LogAttrs(ctx, slog.LevelError, "failed to release resources", logger.Error(err))
	}
}

func reversed(fns []closeFunc) []closeFunc {
	out := slices.Clone(fns)
	slices.Reverse(out)
	return out
}

package nats

import (
	"context"
	"errors"

	"github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"
)

// Connect dials the server described by cfg.
func Connect(cfg Config) (*nats.Conn, error) {
	if cfg.URL == "" {
		return nil, ErrEmptyURL
	}
	conn, err := nats.Connect(cfg.URL,
		nats.Name(cfg.ClientName),
		nats.Timeout(cfg.ConnectTimeout),
		nats.MaxReconnects(cfg.MaxReconnects),
		nats.ReconnectWait(cfg.ReconnectWait),
	)
	if err != nil {
		return nil, errors.Join(ErrConnectionFailed, err)
	}
	return conn, nil
}

// JetStream opens a JetStream context on conn and makes sure the configured
// stream exists with the configured subjects.
func JetStream(ctx context.Context, conn *nats.Conn, cfg Config) (jetstream.JetStream, error) {
	js, err := jetstream.New(conn)
	if err != nil {
		return nil, errors.Join(ErrJetStreamUnavailable, err)
	}
	if _, err := js.CreateOrUpdateStream(ctx, jetstream.StreamConfig{
		Name:     cfg.StreamName,
		Subjects: cfg.Subjects(),
		MaxAge:   cfg.MaxAge,
	}); err != nil {
		return nil, errors.Join(ErrStreamSetupFailed, err)
	}
	return js, nil
}

// Healthcheck reports an error unless conn is connected.
func Healthcheck(conn *nats.Conn) func(context.Context) error {
	return func(context.Context) error {
		if conn == nil || !conn.IsConnected() {
			return ErrHealthcheckFailed
		}
		return nil
	}
}

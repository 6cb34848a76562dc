package nats

import "time"

// Config configures the NATS connection and the JetStream stream events are
// published to.
type Config struct {
	URL            string        `env:"NATS_URL" envDefault:"nats://localhost:4222"`
	ClientName     string        `env:"NATS_CLIENT_NAME" envDefault:"courier"`
	ConnectTimeout time.Duration `env:"NATS_CONNECT_TIMEOUT" envDefault:"5s"`
	MaxReconnects  int           `env:"NATS_MAX_RECONNECTS" envDefault:"60"`
	ReconnectWait  time.Duration `env:"NATS_RECONNECT_WAIT" envDefault:"2s"`

	StreamName    string        `env:"NATS_STREAM" envDefault:"COURIER_EVENTS"`
	SubjectPrefix string        `env:"NATS_SUBJECT_PREFIX" envDefault:"courier.events"`
	MaxAge        time.Duration `env:"NATS_STREAM_MAX_AGE" envDefault:"168h"`
}

// Subjects returns the wildcard subject the stream captures.
func (c Config) Subjects() []string {
	return []string{c.SubjectPrefix + ".>"}
}

package main

import (
	"time"

	"github.com/dmitrymomot/courier/pkg/httpserver"
	"github.com/dmitrymomot/courier/pkg/mongo"
	"github.com/dmitrymomot/courier/pkg/nats"
	"github.com/dmitrymomot/courier/pkg/opensearch"
	"github.com/dmitrymomot/courier/pkg/pg"
	"github.com/dmitrymomot/courier/pkg/redis"
)

// appConfig is read from the environment (and .env when present). Backends
// are opt-in; without them the process runs on in-memory storage.
type appConfig struct {
	Env         string `env:"APP_ENV" envDefault:"development"`
	ServiceName string `env:"APP_SERVICE_NAME" envDefault:"courier"`

	ProvidersFile        string        `env:"COURIER_PROVIDERS_FILE"`
	ReceiptSecret        string        `env:"COURIER_RECEIPT_SECRET"`
	ReceiptMaxAge        time.Duration `env:"COURIER_RECEIPT_MAX_AGE" envDefault:"5m"`
	SendTimeout          time.Duration `env:"COURIER_SEND_TIMEOUT" envDefault:"10s"`
	AdapterTimeout       time.Duration `env:"COURIER_ADAPTER_TIMEOUT" envDefault:"30s"`
	RecipientConcurrency int           `env:"COURIER_RECIPIENT_CONCURRENCY" envDefault:"8"`
	SettingsCacheSize    int           `env:"COURIER_SETTINGS_CACHE_SIZE" envDefault:"10000"`
	SettingsCacheTTL     time.Duration `env:"COURIER_SETTINGS_CACHE_TTL" envDefault:"1m"`
	InboxMaxPerUser      int           `env:"COURIER_INBOX_MAX_PER_USER" envDefault:"500"`
	AuditCollection      string        `env:"COURIER_AUDIT_COLLECTION" envDefault:"audit_events"`

	PostgresEnabled   bool `env:"PG_ENABLED"`
	RedisEnabled      bool `env:"REDIS_ENABLED"`
	MongoEnabled      bool `env:"MONGODB_ENABLED"`
	OpenSearchEnabled bool `env:"OPENSEARCH_ENABLED"`
	NATSEnabled       bool `env:"NATS_ENABLED"`

	HTTP       httpserver.Config
	Postgres   pg.Config
	Redis      redis.Config
	Mongo      mongo.Config
	OpenSearch opensearch.Config
	NATS       nats.Config
}

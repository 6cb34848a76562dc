// Package mongo connects to MongoDB with go.mongodb.org/mongo-driver/v2.
//
// Config is read from MONGODB_* environment variables. New retries until the
// deployment answers a ping; NewWithDatabase also selects a database.
// Healthcheck wraps a client for readiness probes.
package mongo

// Package redis connects to Redis with github.com/redis/go-redis/v9.
//
//	client, err := redis.Connect(ctx, cfg)
//	if err != nil {
//	    return err
//	}
//	defer client.Close()
//
// Connect retries pings until the server is ready or Config.ConnectTimeout
// elapses. Healthcheck wraps a client for readiness probes.
package redis

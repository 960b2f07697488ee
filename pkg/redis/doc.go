// Package redis opens go-redis clients from environment configuration.
//
// [Config] is populated from REDIS_* variables. When REDIS_URL is empty the
// application runs without Redis and falls back to in-memory caching.
//
//	if cfg.Redis.Enabled() {
//		client, err := redis.Open(ctx, cfg.Redis)
//		if err != nil {
//			return err
//		}
//		app := saasgate.New(
//			saasgate.WithHealthCheck("redis", redis.Healthcheck(client)),
//			saasgate.WithShutdownHook(redis.Shutdown(client)),
//		)
//	}
//
// Both redis:// and rediss:// (TLS) URLs are accepted.
package redis

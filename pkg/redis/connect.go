package redis

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

// Config holds Redis connection settings, populated from the environment.
// An empty URL means Redis is disabled.
type Config struct {
	URL           string        `env:"REDIS_URL"`
	PoolSize      int           `env:"REDIS_POOL_SIZE" envDefault:"10"`
	MinIdleConns  int           `env:"REDIS_MIN_IDLE_CONNS" envDefault:"2"`
	MaxIdleTime   time.Duration `env:"REDIS_MAX_IDLE_TIME" envDefault:"10m"`
	DialTimeout   time.Duration `env:"REDIS_DIAL_TIMEOUT" envDefault:"5s"`
	IOTimeout     time.Duration `env:"REDIS_IO_TIMEOUT" envDefault:"3s"`
	RetryAttempts int           `env:"REDIS_RETRY_ATTEMPTS" envDefault:"3"`
	RetryInterval time.Duration `env:"REDIS_RETRY_INTERVAL" envDefault:"2s"`
}

// Enabled reports whether a connection URL is configured.
func (c Config) Enabled() bool {
	return c.URL != ""
}

// Options converts c into client options. Only redis:// and rediss:// URLs
// are accepted.
func (c Config) Options() (*redis.Options, error) {
	if c.URL == "" {
		return nil, ErrEmptyConnectionURL
	}
	if !strings.HasPrefix(c.URL, "redis://") && !strings.HasPrefix(c.URL, "rediss://") {
		return nil, ErrFailedToParseURL
	}

	opts, err := redis.ParseURL(c.URL)
	if err != nil {
		return nil, errors.Join(ErrFailedToParseURL, err)
	}

	if c.PoolSize > 0 {
		opts.PoolSize = c.PoolSize
	}
	opts.MinIdleConns = c.MinIdleConns
	opts.ConnMaxIdleTime = c.MaxIdleTime
	if c.DialTimeout > 0 {
		opts.DialTimeout = c.DialTimeout
	}
	if c.IOTimeout > 0 {
		opts.ReadTimeout = c.IOTimeout
		opts.WriteTimeout = c.IOTimeout
	}
	return opts, nil
}

// Open connects to Redis and pings it, retrying with linear backoff.
func Open(ctx context.Context, cfg Config) (redis.UniversalClient, error) {
	opts, err := cfg.Options()
	if err != nil {
		return nil, err
	}

	var lastErr error
	for i := range max(cfg.RetryAttempts, 1) {
		if i > 0 {
			if err := wait(ctx, time.Duration(i)*cfg.RetryInterval); err != nil {
				return nil, errors.Join(ErrConnectionFailed, err)
			}
		}

		client := redis.NewClient(opts)
		if lastErr = client.Ping(ctx).Err(); lastErr == nil {
			return client, nil
		}
		_ = client.Close()
	}

	return nil, errors.Join(ErrConnectionFailed, lastErr)
}

func wait(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

package redis

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestConfig_Options(t *testing.T) {
	t.Parallel()

	t.Run("empty URL", func(t *testing.T) {
		t.Parallel()
		_, err := Config{}.Options()
		require.ErrorIs(t, err, ErrEmptyConnectionURL)
		require.False(t, Config{}.Enabled())
	})

	t.Run("unsupported schemes", func(t *testing.T) {
		t.Parallel()
		for _, url := range []string{"http://localhost:6379", "localhost:6379", "postgres://localhost"} {
			_, err := Config{URL: url}.Options()
			require.ErrorIs(t, err, ErrFailedToParseURL, url)
		}
	})

	t.Run("malformed URL", func(t *testing.T) {
		t.Parallel()
		_, err := Config{URL: "redis://localhost:6379/notanumber"}.Options()
		require.ErrorIs(t, err, ErrFailedToParseURL)
	})

	t.Run("applies settings", func(t *testing.T) {
		t.Parallel()
		cfg := Config{
			URL:          "rediss://localhost:6380/2",
			PoolSize:     20,
			MinIdleConns: 4,
			MaxIdleTime:  time.Minute,
			DialTimeout:  time.Second,
			IOTimeout:    2 * time.Second,
		}
		opts, err := cfg.Options()
		require.NoError(t, err)
		require.True(t, cfg.Enabled())
		require.Equal(t, "localhost:6380", opts.Addr)
		require.Equal(t, 2, opts.DB)
		require.NotNil(t, opts.TLSConfig)
		require.Equal(t, 20, opts.PoolSize)
		require.Equal(t, 4, opts.MinIdleConns)
		require.Equal(t, time.Minute, opts.ConnMaxIdleTime)
		require.Equal(t, time.Second, opts.DialTimeout)
		require.Equal(t, 2*time.Second, opts.ReadTimeout)
		require.Equal(t, 2*time.Second, opts.WriteTimeout)
	})
}

func TestOpen_InvalidConfig(t *testing.T) {
	t.Parallel()

	client, err := Open(context.Background(), Config{URL: "http://localhost"})
	require.ErrorIs(t, err, ErrFailedToParseURL)
	require.Nil(t, client)
}

func TestHealthcheck_NilClient(t *testing.T) {
	t.Parallel()

	err := Healthcheck(nil)(context.Background())
	require.ErrorIs(t, err, ErrHealthcheckFailed)
}

func TestShutdown(t *testing.T) {
	t.Parallel()

	closeErr := errors.New("close error")
	c := &closer{err: closeErr}
	require.ErrorIs(t, Shutdown(c)(context.Background()), closeErr)
	require.True(t, c.closed)
}

func TestWait(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	start := time.Now()
	require.ErrorIs(t, wait(ctx, 10*time.Second), context.Canceled)
	require.Less(t, time.Since(start), time.Second)

	require.NoError(t, wait(context.Background(), 10*time.Millisecond))
}

type closer struct {
	err    error
	closed bool
}

func (c *closer) Close() error {
	c.closed = true
	return c.err
}

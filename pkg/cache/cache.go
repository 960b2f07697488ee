package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"golang.org/x/sync/singleflight"
)

// Cache stores values of type V under string keys.
// A zero ttl passed to Set selects the backend default; a negative ttl
// stores the value without expiry.
type Cache[V any] interface {
	Get(ctx context.Context, key string) (V, error)
	Set(ctx context.Context, key string, value V, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}

// Codec converts values to bytes for remote backends.
type Codec[V any] interface {
	Encode(v V) ([]byte, error)
	Decode(data []byte) (V, error)
}

// JSON is the default codec.
type JSON[V any] struct{}

func (JSON[V]) Encode(v V) ([]byte, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, errors.Join(ErrEncode, err)
	}
	return data, nil
}

func (JSON[V]) Decode(data []byte) (V, error) {
	var v V
	if err := json.Unmarshal(data, &v); err != nil {
		return v, errors.Join(ErrDecode, err)
	}
	return v, nil
}

// Loader reads through a cache, collapsing concurrent misses for the same
// key into a single call of the load function.
type Loader[V any] struct {
	cache Cache[V]
	group singleflight.Group
	ttl   time.Duration
}

// NewLoader wraps c. Loaded values are stored with ttl.
func NewLoader[V any](c Cache[V], ttl time.Duration) *Loader[V] {
	return &Loader[V]{cache: c, ttl: ttl}
}

// Load returns the cached value for key or calls fn and caches its result.
// Errors from fn are returned as is and nothing is cached. Cache read and
// write failures are treated as misses.
func (l *Loader[V]) Load(ctx context.Context, key string, fn func(ctx context.Context) (V, error)) (V, error) {
	if v, err := l.cache.Get(ctx, key); err == nil {
		return v, nil
	}

	res, err, _ := l.group.Do(key, func() (any, error) {
		v, err := fn(ctx)
		if err != nil {
			return nil, err
		}
		_ = l.cache.Set(ctx, key, v, l.ttl)
		return v, nil
	})
	if err != nil {
		var zero V
		return zero, err
	}
	return res.(V), nil
}

// Forget removes key from the underlying cache.
func (l *Loader[V]) Forget(ctx context.Context, key string) error {
	l.group.Forget(key)
	return l.cache.Delete(ctx, key)
}

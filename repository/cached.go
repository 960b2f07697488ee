package repository

import (
	"context"
	"strconv"
	"time"

	"github.com/dmitrymomot/saasgate/pkg/cache"
)

// Cached decorates a Store with a read-through user cache. Users are read
// on every authenticated API request, so GetUserByID is served from the
// cache; everything else goes to the wrapped Store.
type Cached struct {
	Store
	users *cache.Loader[User]
}

// NewCached wraps s. Users are kept for ttl.
func NewCached(s Store, c cache.Cache[User], ttl time.Duration) *Cached {
	return &Cached{
		Store: s,
		users: cache.NewLoader(c, ttl),
	}
}

func (c *Cached) GetUserByID(ctx context.Context, id int64) (*User, error) {
	u, err := c.users.Load(ctx, userKey(id), func(ctx context.Context) (User, error) {
		u, err := c.Store.GetUserByID(ctx, id)
		if err != nil {
			return User{}, err
		}
		return *u, nil
	})
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// UpdateUser updates the wrapped Store and drops the cached copy.
func (c *Cached) UpdateUser(ctx context.Context, id int64, in UserUpdate) (*User, error) {
	u, err := c.Store.UpdateUser(ctx, id, in)
	if err != nil {
		return nil, err
	}
	return u, c.ForgetUser(ctx, id)
}

func (c *Cached) UpdatePassword(ctx context.Context, id int64, passwordHash string) error {
	if err := c.Store.UpdatePassword(ctx, id, passwordHash); err != nil {
		return err
	}
	return c.ForgetUser(ctx, id)
}

// SoftDeleteUser deletes through the wrapped Store so a deleted user stops
// resolving from the cache immediately.
func (c *Cached) SoftDeleteUser(ctx context.Context, id int64) error {
	if err := c.Store.SoftDeleteUser(ctx, id); err != nil {
		return err
	}
	return c.ForgetUser(ctx, id)
}

// ForgetUser drops the cached copy of a user.
func (c *Cached) ForgetUser(ctx context.Context, id int64) error {
	return c.users.Forget(ctx, userKey(id))
}

func userKey(id int64) string {
	return "user:" + strconv.FormatInt(id, 10)
}

var _ Store = (*Cached)(nil)

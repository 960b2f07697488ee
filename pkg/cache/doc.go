// Package cache provides a small generic cache abstraction with in-memory
// and Redis backends.
//
// [Loader] adds read-through loading with singleflight so a burst of
// requests for the same missing key hits the source once:
//
//	users := cache.NewLoader[User](cache.NewMemory[User](), time.Minute)
//	u, err := users.Load(ctx, "user:42", func(ctx context.Context) (User, error) {
//		return repo.GetUserByID(ctx, 42)
//	})
//
// [Redis] stores values encoded by a [Codec], JSON by default.
package cache

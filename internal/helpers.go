package internal

import "strconv"

// ContextValue returns the value stored under key if it has type T.
func ContextValue[T any](c Context, key any) T {
	v, _ := c.Get(key).(T)
	return v
}

// QueryInt returns the query parameter name as an int clamped to [lo, hi].
// Missing or malformed values yield def.
func QueryInt(c Context, name string, def, lo, hi int) int {
	raw := c.Query(name)
	if raw == "" {
		return def
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return def
	}
	return min(max(n, lo), hi)
}

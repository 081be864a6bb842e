package bucketcache

import "time"

// DefaultTimeout is what Options.DefaultTimeout falls back to. It is recorded
// for interface compatibility only; expiry belongs to bucket lifecycle rules.
const DefaultTimeout = 300 * time.Second

// coalesce returns def when v is the zero value of T - otherwise v.
func coalesce[T comparable](v, def T) T {
	var zero T
	if v == zero {
		return def
	}
	return v
}

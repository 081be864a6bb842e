package bucketcache

import (
	"context"
	"time"

	c "github.com/unkn0wn-root/bucketcache/codec"
	st "github.com/unkn0wn-root/bucketcache/objectstore"
)

type Cache[V any] = Backend[V] // alias -> bucketcache.Cache[Session] or bucketcache.Backend[Session]

// Backend is the generic cache-backend contract implemented on top of an
// object-storage bucket. V is the caller's value type; serialization is
// handled by a pluggable Codec[V].
//
// Storage failures never cross this boundary: they are logged, reported to
// Hooks and surfaced as false/absent. The only error returned is a
// *SerializationError from Set/Add when the value cannot be encoded.
type Backend[V any] interface {
	// Get returns (value, true) on hit. Missing, unreadable and corrupt
	// objects all read as (zero, false).
	Get(ctx context.Context, key string) (V, bool)
	// Set uploads value, overwriting any existing object. timeout is ignored;
	// use bucket lifecycle rules for expiry.
	Set(ctx context.Context, key string, value V, timeout time.Duration) (bool, error)
	// Add is Set that refuses to overwrite an existing key.
	Add(ctx context.Context, key string, value V, timeout time.Duration) (bool, error)
	// Delete reports whether the key existed and was deleted.
	Delete(ctx context.Context, key string) bool
	// Has reports whether the key exists without downloading it.
	Has(ctx context.Context, key string) bool
	// Exists is the raw existence probe; same result as Has.
	Exists(ctx context.Context, key string) bool
	// Clear is unsupported and always returns false.
	Clear(ctx context.Context) bool

	DefaultTimeout() time.Duration
	Bucket() string
	KeyPrefix() string
	Close(context.Context) error
}

// Options configure a Backend.
// Bucket, KeyPrefix, Store and Codec are required; others have defaults.
type Options[V any] struct {
	// Required
	Bucket    string // target bucket
	KeyPrefix string // prepended to every cache key, e.g. "app1:" or "cache/sessions/"
	Store     st.Store
	Codec     c.Codec[V]

	DefaultTimeout time.Duration // stored, never enforced; 0 => 300s
	Logger         Logger        // if nil, NopLogger is used
	Hooks          Hooks         // if nil, NopHooks is used

	// ConditionalAdd makes Add a single create-if-absent upload.
	// Store must implement objectstore.ConditionalUploader.
	ConditionalAdd bool
	// CloseStore makes Close close Store. Set only if the backend owns it.
	CloseStore bool
}

func New[V any](opts Options[V]) (Backend[V], error) {
	return newBackend[V](opts)
}

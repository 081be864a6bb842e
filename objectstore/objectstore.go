// Package objectstore defines the bucket-scoped storage abstraction used by bucketcache.
//
// Implementations MUST be byte-for-byte transparent: Download must return exactly
// the bytes previously passed to Upload for a bucket/key pair. Stores that
// transform objects internally (compression, envelope encryption) must fully
// reverse the transform before returning.
//
// Missing objects are reported as ErrNotFound (possibly wrapped) so callers can
// tell them apart from transport or permission failures in diagnostics.
package objectstore

import (
	"context"
	"errors"
	"io"
)

// ErrNotFound is returned (possibly wrapped) when the object does not exist.
var ErrNotFound = errors.New("objectstore: object not found")

// Store is a minimal bucket-scoped object store.
// Must be safe for concurrent use if the cache backend using it is shared.
type Store interface {
	// Head probes object metadata without transferring the body.
	// nil => exists; ErrNotFound => missing; anything else => probe failed.
	Head(ctx context.Context, bucket, key string) error

	// Download returns the full object body.
	Download(ctx context.Context, bucket, key string) ([]byte, error)

	// Upload stores size bytes read from body, overwriting any existing object.
	Upload(ctx context.Context, bucket, key string, body io.Reader, size int64) error

	// Delete removes the object.
	Delete(ctx context.Context, bucket, key string) error

	// Close releases resources.
	Close(ctx context.Context) error
}

// ConditionalUploader is implemented by stores that can create an object only
// if it is absent, in a single request.
type ConditionalUploader interface {
	// UploadIfAbsent returns (true, nil) when the object was created and
	// (false, nil) when an object already existed under key.
	UploadIfAbsent(ctx context.Context, bucket, key string, body io.Reader, size int64) (bool, error)
}

// IsNotFound reports whether err means the object does not exist.
func IsNotFound(err error) bool { return errors.Is(err, ErrNotFound) }

// ReadBody drains an upload body. size >= 0 is taken as the exact length, as
// object stores require; size < 0 reads to EOF.
func ReadBody(body io.Reader, size int64) ([]byte, error) {
	if size < 0 {
		return io.ReadAll(body)
	}
	b := make([]byte, size)
	if _, err := io.ReadFull(body, b); err != nil {
		return nil, err
	}
	return b, nil
}

package bucketcache

import (
	"bytes"
	"context"
	"fmt"
	"time"

	c "github.com/unkn0wn-root/bucketcache/codec"
	"github.com/unkn0wn-root/bucketcache/internal/util"
	"github.com/unkn0wn-root/bucketcache/objectstore"
)

type backend[V any] struct {
	bucket     string
	prefix     string
	store      objectstore.Store
	cond       objectstore.ConditionalUploader // nil unless ConditionalAdd
	codec      c.Codec[V]
	log        Logger
	hooks      Hooks
	timeout    time.Duration
	closeStore bool
}

func newBackend[V any](opts Options[V]) (*backend[V], error) {
	if opts.Store == nil {
		return nil, fmt.Errorf("bucketcache: store is required")
	}
	if opts.Codec == nil {
		return nil, fmt.Errorf("bucketcache: codec is required")
	}
	if err := util.CheckBucket(opts.Bucket); err != nil {
		return nil, fmt.Errorf("bucketcache: bucket is required: %w", err)
	}
	if opts.KeyPrefix == "" {
		return nil, fmt.Errorf("bucketcache: key prefix is required")
	}

	b := &backend[V]{
		bucket:     opts.Bucket,
		prefix:     opts.KeyPrefix,
		store:      opts.Store,
		codec:      opts.Codec,
		closeStore: opts.CloseStore,
	}

	if opts.ConditionalAdd {
		cu, ok := opts.Store.(objectstore.ConditionalUploader)
		if !ok {
			return nil, fmt.Errorf("%w (%T)", ErrConditionalUnsupported, opts.Store)
		}
		b.cond = cu
	}

	// defaults
	b.log = coalesce[Logger](opts.Logger, NopLogger{})
	b.hooks = coalesce[Hooks](opts.Hooks, NopHooks{})
	b.timeout = coalesce[time.Duration](opts.DefaultTimeout, DefaultTimeout)

	return b, nil
}

func (b *backend[V]) DefaultTimeout() time.Duration { return b.timeout }
func (b *backend[V]) Bucket() string                { return b.bucket }
func (b *backend[V]) KeyPrefix() string             { return b.prefix }

func (b *backend[V]) Close(ctx context.Context) error {
	if b.closeStore {
		return b.store.Close(ctx)
	}
	return nil
}

func (b *backend[V]) Exists(ctx context.Context, key string) bool {
	return b.exists(ctx, b.objectKey(key))
}

// Has runs the same metadata-only probe as Exists and returns its result.
func (b *backend[V]) Has(ctx context.Context, key string) bool {
	return b.exists(ctx, b.objectKey(key))
}

func (b *backend[V]) Get(ctx context.Context, key string) (V, bool) {
	var zero V
	k := b.objectKey(key)
	if !b.exists(ctx, k) {
		return zero, false
	}
	raw, err := b.store.Download(ctx, b.bucket, k)
	if err != nil {
		// an object deleted between probe and download is a plain miss
		if objectstore.IsNotFound(err) {
			b.log.Debug("object vanished after probe", failFields(key, k, err))
			return zero, false
		}
		b.log.Warn("failed to get key", failFields(key, k, err))
		b.hooks.StorageError("get", k, err)
		return zero, false
	}
	v, err := b.codec.Decode(raw)
	if err != nil {
		b.log.Warn("failed to decode value", failFields(key, k, err))
		b.hooks.DecodeError(k, err)
		return zero, false
	}
	return v, true
}

func (b *backend[V]) Set(ctx context.Context, key string, value V, _ time.Duration) (bool, error) {
	payload, err := b.encode(key, value)
	if err != nil {
		return false, err
	}
	return b.upload(ctx, key, payload), nil
}

func (b *backend[V]) Add(ctx context.Context, key string, value V, timeout time.Duration) (bool, error) {
	k := b.objectKey(key)
	if b.cond == nil {
		// check-then-set: another writer may create k between the probe and
		// the upload, in which case this Add overwrites it.
		if b.exists(ctx, k) {
			b.hooks.AddConflict(k)
			return false, nil
		}
		return b.Set(ctx, key, value, timeout)
	}

	payload, err := b.encode(key, value)
	if err != nil {
		return false, err
	}
	created, err := b.cond.UploadIfAbsent(ctx, b.bucket, k, bytes.NewReader(payload), int64(len(payload)))
	if err != nil {
		b.log.Warn("error while adding key", failFields(key, k, err))
		b.hooks.StorageError("add", k, err)
		return false, nil
	}
	if !created {
		b.hooks.AddConflict(k)
	}
	return created, nil
}

func (b *backend[V]) Delete(ctx context.Context, key string) bool {
	k := b.objectKey(key)
	if !b.exists(ctx, k) {
		return false
	}
	if err := b.store.Delete(ctx, b.bucket, k); err != nil {
		b.log.Warn("failed to delete key", failFields(key, k, err))
		b.hooks.StorageError("delete", k, err)
		return false
	}
	return true
}

// Clear would have to list and delete every object under the prefix.
// Not supported; the namespace is left untouched.
func (b *backend[V]) Clear(context.Context) bool { return false }

func (b *backend[V]) exists(ctx context.Context, storageKey string) bool {
	err := b.store.Head(ctx, b.bucket, storageKey)
	if err == nil {
		return true
	}
	if !objectstore.IsNotFound(err) {
		b.log.Debug("existence probe failed", Fields{"storage_key": storageKey, "err": err})
		b.hooks.ProbeError(storageKey, err)
	}
	return false
}

func (b *backend[V]) encode(key string, value V) ([]byte, error) {
	payload, err := b.codec.Encode(value)
	if err != nil {
		return nil, &SerializationError{Key: key, Err: err}
	}
	return payload, nil
}

func (b *backend[V]) upload(ctx context.Context, key string, payload []byte) bool {
	k := b.objectKey(key)
	if err := b.store.Upload(ctx, b.bucket, k, bytes.NewReader(payload), int64(len(payload))); err != nil {
		b.log.Warn("error while setting key", failFields(key, k, err))
		b.hooks.StorageError("set", k, err)
		return false
	}
	return true
}

func (b *backend[V]) objectKey(key string) string {
	return util.ObjectKey(b.prefix, key)
}

// Package redis emulates a bucket on Redis: each object is one string key
// derived from bucket and object key. Handy for sharing a cache across
// replicas when no object storage is at hand, and for integration tests.
package redis

import (
	"context"
	"errors"
	"io"

	goredis "github.com/redis/go-redis/v9"

	"github.com/unkn0wn-root/bucketcache/internal/util"
	"github.com/unkn0wn-root/bucketcache/objectstore"
)

var ErrNilClient = errors.New("redis store: nil client")

type Redis struct {
	rdb         goredis.UniversalClient
	keyPrefix   string
	closeClient bool
}

var (
	_ objectstore.Store               = (*Redis)(nil)
	_ objectstore.ConditionalUploader = (*Redis)(nil)
)

type Config struct {
	Client      goredis.UniversalClient
	KeyPrefix   string // prepended to every redis key, e.g. "objects:"
	CloseClient bool   // set true only if this store exclusively owns the client
}

func New(cfg Config) (*Redis, error) {
	if cfg.Client == nil {
		return nil, ErrNilClient
	}
	return &Redis{rdb: cfg.Client, keyPrefix: cfg.KeyPrefix, closeClient: cfg.CloseClient}, nil
}

func (s *Redis) key(bucket, key string) string {
	return s.keyPrefix + util.BucketKey(bucket, key)
}

func (s *Redis) Head(ctx context.Context, bucket, key string) error {
	n, err := s.rdb.Exists(ctx, s.key(bucket, key)).Result()
	if err != nil {
		return err // transport/server error
	}
	if n == 0 {
		return objectstore.ErrNotFound
	}
	return nil
}

func (s *Redis) Download(ctx context.Context, bucket, key string) ([]byte, error) {
	b, err := s.rdb.Get(ctx, s.key(bucket, key)).Bytes()
	if err == goredis.Nil {
		return nil, objectstore.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return b, nil
}

func (s *Redis) Upload(ctx context.Context, bucket, key string, body io.Reader, size int64) error {
	b, err := objectstore.ReadBody(body, size)
	if err != nil {
		return err
	}
	// no expiry: objects live until deleted, like bucket objects
	return s.rdb.Set(ctx, s.key(bucket, key), b, 0).Err()
}

// UploadIfAbsent maps to SET NX.
func (s *Redis) UploadIfAbsent(ctx context.Context, bucket, key string, body io.Reader, size int64) (bool, error) {
	b, err := objectstore.ReadBody(body, size)
	if err != nil {
		return false, err
	}
	return s.rdb.SetNX(ctx, s.key(bucket, key), b, 0).Result()
}

func (s *Redis) Delete(ctx context.Context, bucket, key string) error {
	return s.rdb.Del(ctx, s.key(bucket, key)).Err()
}

// Close releases the underlying redis client only when this store owns it.
// Safe to call multiple times; repeated calls become no-ops.
func (s *Redis) Close(context.Context) error {
	if s.closeClient {
		if err := s.rdb.Close(); err != nil && !errors.Is(err, goredis.ErrClosed) {
			return err
		}
	}
	return nil
}

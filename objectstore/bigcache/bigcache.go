// Package bigcache keeps objects in process memory with allegro/bigcache.
// Objects are evicted after LifeWindow, so this is a development and test
// store rather than durable storage.
package bigcache

import (
	"context"
	"errors"
	"io"
	"time"

	bc "github.com/allegro/bigcache/v3"

	"github.com/unkn0wn-root/bucketcache/internal/util"
	"github.com/unkn0wn-root/bucketcache/objectstore"
)

type Store struct {
	c *bc.BigCache
}

var _ objectstore.Store = (*Store)(nil)

type Config struct {
	LifeWindow         time.Duration // 0 => 24h
	CleanWindow        time.Duration
	MaxEntriesInWindow int
	MaxEntrySize       int
	HardMaxCacheSizeMB int // ~ memory limit; 0 = unlimited
}

func New(ctx context.Context, cfg Config) (*Store, error) {
	life := cfg.LifeWindow
	if life <= 0 {
		life = 24 * time.Hour
	}
	conf := bc.DefaultConfig(life)
	conf.Verbose = false
	if cfg.CleanWindow > 0 {
		conf.CleanWindow = cfg.CleanWindow
	}
	if cfg.MaxEntriesInWindow > 0 {
		conf.MaxEntriesInWindow = cfg.MaxEntriesInWindow
	}
	if cfg.MaxEntrySize > 0 {
		conf.MaxEntrySize = cfg.MaxEntrySize
	}
	if cfg.HardMaxCacheSizeMB > 0 {
		conf.HardMaxCacheSize = cfg.HardMaxCacheSizeMB
	}
	c, err := bc.New(ctx, conf)
	if err != nil {
		return nil, err
	}
	return &Store{c: c}, nil
}

func (s *Store) Head(_ context.Context, bucket, key string) error {
	_, err := s.get(bucket, key)
	return err
}

func (s *Store) Download(_ context.Context, bucket, key string) ([]byte, error) {
	return s.get(bucket, key)
}

func (s *Store) Upload(_ context.Context, bucket, key string, body io.Reader, size int64) error {
	b, err := objectstore.ReadBody(body, size)
	if err != nil {
		return err
	}
	return s.c.Set(util.BucketKey(bucket, key), b)
}

func (s *Store) Delete(_ context.Context, bucket, key string) error {
	err := s.c.Delete(util.BucketKey(bucket, key))
	if errors.Is(err, bc.ErrEntryNotFound) {
		return nil
	}
	return err
}

func (s *Store) Close(_ context.Context) error {
	return s.c.Close()
}

func (s *Store) get(bucket, key string) ([]byte, error) {
	b, err := s.c.Get(util.BucketKey(bucket, key))
	if errors.Is(err, bc.ErrEntryNotFound) {
		return nil, objectstore.ErrNotFound
	}
	return b, err
}

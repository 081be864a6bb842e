// Package ristretto keeps objects in process memory with dgraph-io/ristretto.
// Ristretto may refuse or silently drop writes (oversized objects, admission
// policy); Upload confirms every write and reports a lost one as ErrRejected
// so the backend logs it like any other storage failure.
package ristretto

import (
	"context"
	"errors"
	"fmt"
	"io"

	rc "github.com/dgraph-io/ristretto"

	"github.com/unkn0wn-root/bucketcache/internal/util"
	"github.com/unkn0wn-root/bucketcache/objectstore"
)

var ErrRejected = errors.New("ristretto store: write rejected")

type Store struct {
	c       *rc.Cache
	maxCost int64
}

var _ objectstore.Store = (*Store)(nil)

type Config struct {
	NumCounters int64
	MaxCost     int64 // total bytes; each object costs its length
	BufferItems int64
	Metrics     bool
}

func New(cfg Config) (*Store, error) {
	if cfg.NumCounters <= 0 || cfg.MaxCost <= 0 || cfg.BufferItems <= 0 {
		return nil, errors.New("ristretto: invalid config")
	}
	c, err := rc.NewCache(&rc.Config{
		NumCounters: cfg.NumCounters,
		MaxCost:     cfg.MaxCost,
		BufferItems: cfg.BufferItems,
		Metrics:     cfg.Metrics,
	})
	if err != nil {
		return nil, err
	}
	return &Store{c: c, maxCost: cfg.MaxCost}, nil
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
	k := util.BucketKey(bucket, key)
	cost := int64(len(b))
	if cost > s.maxCost {
		return fmt.Errorf("%w: object of %d bytes exceeds max cost %d", ErrRejected, cost, s.maxCost)
	}
	if !s.c.Set(k, b, cost) {
		return ErrRejected
	}
	// Set is buffered; after Wait the item is either stored or was dropped.
	s.c.Wait()
	if _, ok := s.c.Get(k); !ok {
		return ErrRejected
	}
	return nil
}

func (s *Store) Delete(_ context.Context, bucket, key string) error {
	s.c.Del(util.BucketKey(bucket, key))
	return nil
}

func (s *Store) Close(_ context.Context) error {
	s.c.Wait()
	s.c.Close()
	return nil
}

// Metrics exposes ristretto counters; nil unless Config.Metrics was set.
func (s *Store) Metrics() *rc.Metrics { return s.c.Metrics }

func (s *Store) get(bucket, key string) ([]byte, error) {
	k := util.BucketKey(bucket, key)
	v, ok := s.c.Get(k)
	if !ok {
		return nil, objectstore.ErrNotFound
	}
	b, _ := v.([]byte)
	if b == nil {
		// drop unexpected entry shape
		s.c.Del(k)
		return nil, objectstore.ErrNotFound
	}
	return b, nil
}

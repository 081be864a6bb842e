package bucketcache

import (
	"context"
	"fmt"

	goredis "github.com/redis/go-redis/v9"

	c "github.com/unkn0wn-root/bucketcache/codec"
	"github.com/unkn0wn-root/bucketcache/config"
	"github.com/unkn0wn-root/bucketcache/objectstore"
	redisstore "github.com/unkn0wn-root/bucketcache/objectstore/redis"
	s3store "github.com/unkn0wn-root/bucketcache/objectstore/s3"
)

// NewFromConfig builds the store selected by cfg.Store and a Backend that owns it.
// opt, if set, may adjust Options (logger, hooks) before construction.
func NewFromConfig[V any](ctx context.Context, cfg *config.Config, codec c.Codec[V], opt func(*Options[V])) (Backend[V], error) {
	store, err := StoreFromConfig(ctx, cfg)
	if err != nil {
		return nil, err
	}
	opts := Options[V]{
		Bucket:         cfg.Bucket,
		KeyPrefix:      cfg.KeyPrefix,
		Store:          store,
		Codec:          codec,
		DefaultTimeout: cfg.DefaultTimeoutDuration(),
		ConditionalAdd: cfg.ConditionalAdd,
		CloseStore:     true,
	}
	if opt != nil {
		opt(&opts)
	}
	b, err := New[V](opts)
	if err != nil {
		_ = store.Close(ctx)
		return nil, err
	}
	return b, nil
}

// StoreFromConfig constructs the object store named by cfg.Store.
func StoreFromConfig(ctx context.Context, cfg *config.Config) (objectstore.Store, error) {
	switch cfg.Store {
	case "", "s3":
		s, err := s3store.New(ctx, S3Config(cfg.Client))
		if err != nil {
			return nil, err
		}
		return s, nil
	case "redis":
		rdb := goredis.NewClient(&goredis.Options{
			Addr:     cfg.Redis.Addr,
			Username: cfg.Redis.Username,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		s, err := redisstore.New(redisstore.Config{
			Client:      rdb,
			KeyPrefix:   cfg.Redis.KeyPrefix,
			CloseClient: true,
		})
		if err != nil {
			_ = rdb.Close()
			return nil, err
		}
		return s, nil
	default:
		return nil, fmt.Errorf("bucketcache: unknown store %q", cfg.Store)
	}
}

// S3Config maps the file/env client section onto the S3 store settings.
func S3Config(cc config.ClientConfig) s3store.Config {
	return s3store.Config{
		Region:          cc.Region,
		Endpoint:        cc.Endpoint,
		Profile:         cc.Profile,
		AccessKeyID:     cc.AccessKeyID,
		SecretAccessKey: cc.SecretAccessKey,
		SessionToken:    cc.SessionToken,
		UsePathStyle:    cc.UsePathStyle,
		RequestTimeout:  cc.RequestTimeoutDuration(),
	}
}

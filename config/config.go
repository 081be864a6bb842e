// Package config loads backend settings from a TOML file with environment
// variable overrides (BUCKETCACHE_*).
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/caarlos0/env/v11"
)

const (
	DefaultTimeoutSeconds = 300
	DefaultLogLevel       = "info"
	DefaultStore          = "s3"
)

type Config struct {
	Bucket         string       `toml:"bucket_name" env:"BUCKET_NAME"`
	KeyPrefix      string       `toml:"key_prefix" env:"KEY_PREFIX"`
	DefaultTimeout int          `toml:"default_timeout" env:"DEFAULT_TIMEOUT"` // seconds; stored, never enforced
	ConditionalAdd bool         `toml:"conditional_add" env:"CONDITIONAL_ADD"`
	LogLevel       string       `toml:"log_level" env:"LOG_LEVEL"`
	Store          string       `toml:"store" env:"STORE"` // "s3" or "redis"
	Client         ClientConfig `toml:"client" envPrefix:"CLIENT_"`
	Redis          RedisConfig  `toml:"redis" envPrefix:"REDIS_"`
}

// ClientConfig is passed through verbatim to the S3 client.
type ClientConfig struct {
	Region          string `toml:"region" env:"REGION"`
	Endpoint        string `toml:"endpoint" env:"ENDPOINT"`
	Profile         string `toml:"profile" env:"PROFILE"`
	AccessKeyID     string `toml:"access_key_id" env:"ACCESS_KEY_ID"`
	SecretAccessKey string `toml:"secret_access_key" env:"SECRET_ACCESS_KEY"`
	SessionToken    string `toml:"session_token" env:"SESSION_TOKEN"`
	UsePathStyle    bool   `toml:"use_path_style" env:"USE_PATH_STYLE"`
	RequestTimeout  int    `toml:"request_timeout" env:"REQUEST_TIMEOUT"` // seconds; 0 => none
}

// RedisConfig selects a Redis server that emulates the bucket.
type RedisConfig struct {
	Addr      string `toml:"addr" env:"ADDR"`
	Username  string `toml:"username" env:"USERNAME"`
	Password  string `toml:"password" env:"PASSWORD"`
	DB        int    `toml:"db" env:"DB"`
	KeyPrefix string `toml:"key_prefix" env:"KEY_PREFIX"`
}

func DefaultConfig() *Config {
	return &Config{
		DefaultTimeout: DefaultTimeoutSeconds,
		LogLevel:       DefaultLogLevel,
		Store:          DefaultStore,
	}
}

// Load reads path (a missing file is not an error), applies BUCKETCACHE_*
// environment overrides, then defaults, normalization and validation.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	if path != "" {
		if _, err := os.Stat(path); err == nil {
			if _, err := toml.DecodeFile(path, cfg); err != nil {
				return nil, fmt.Errorf("decode %s: %w", path, err)
			}
		} else if !os.IsNotExist(err) {
			return nil, err
		}
	}

	if err := env.ParseWithOptions(cfg, env.Options{Prefix: "BUCKETCACHE_"}); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}

	cfg.ApplyDefaults()
	cfg.Normalize()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) ApplyDefaults() {
	if c.DefaultTimeout == 0 {
		c.DefaultTimeout = DefaultTimeoutSeconds
	}
	if c.LogLevel == "" {
		c.LogLevel = DefaultLogLevel
	}
	if c.Store == "" {
		c.Store = DefaultStore
	}
}

func (c *Config) Normalize() {
	c.Bucket = strings.TrimSpace(c.Bucket)
	c.LogLevel = strings.ToLower(strings.TrimSpace(c.LogLevel))
	c.Store = strings.ToLower(strings.TrimSpace(c.Store))
	c.Client.Region = strings.TrimSpace(c.Client.Region)
	c.Client.Endpoint = strings.TrimRight(strings.TrimSpace(c.Client.Endpoint), "/")
}

func (c *Config) Validate() error {
	if c.Bucket == "" {
		return errors.New("bucket_name is required")
	}
	if c.KeyPrefix == "" {
		return errors.New("key_prefix is required")
	}
	if c.DefaultTimeout < 0 {
		return errors.New("default_timeout must not be negative")
	}
	if c.Client.RequestTimeout < 0 {
		return errors.New("client.request_timeout must not be negative")
	}
	if (c.Client.AccessKeyID == "") != (c.Client.SecretAccessKey == "") {
		return errors.New("client.access_key_id and client.secret_access_key must be set together")
	}
	switch c.Store {
	case "s3":
	case "redis":
		if c.Redis.Addr == "" {
			return errors.New("redis.addr is required when store is redis")
		}
	default:
		return errors.New("store must be s3 or redis")
	}
	switch c.LogLevel {
	case "debug", "info", "warn", "error":
		return nil
	default:
		return errors.New("log_level must be debug, info, warn, or error")
	}
}

func (c *Config) DefaultTimeoutDuration() time.Duration {
	return time.Duration(c.DefaultTimeout) * time.Second
}

func (c ClientConfig) RequestTimeoutDuration() time.Duration {
	return time.Duration(c.RequestTimeout) * time.Second
}

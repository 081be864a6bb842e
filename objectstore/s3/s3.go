// Package s3 implements objectstore.Store on Amazon S3 and S3-compatible
// services (MinIO, Ceph RGW, R2) with aws-sdk-go-v2.
package s3

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/url"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/feature/s3/transfermanager"
	awss3 "github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/smithy-go"

	"github.com/unkn0wn-root/bucketcache/objectstore"
)

// API is the subset of *awss3.Client used by Store.
type API interface {
	HeadObject(ctx context.Context, params *awss3.HeadObjectInput, optFns ...func(*awss3.Options)) (*awss3.HeadObjectOutput, error)
	GetObject(ctx context.Context, params *awss3.GetObjectInput, optFns ...func(*awss3.Options)) (*awss3.GetObjectOutput, error)
	PutObject(ctx context.Context, params *awss3.PutObjectInput, optFns ...func(*awss3.Options)) (*awss3.PutObjectOutput, error)
	DeleteObject(ctx context.Context, params *awss3.DeleteObjectInput, optFns ...func(*awss3.Options)) (*awss3.DeleteObjectOutput, error)
}

// Uploader is the subset of *transfermanager.Client used by Store.
type Uploader interface {
	UploadObject(ctx context.Context, input *transfermanager.UploadObjectInput, optFns ...func(*transfermanager.Options)) (*transfermanager.UploadObjectOutput, error)
}

// Config holds the client arguments passed through to the SDK.
// Everything is optional; unset fields fall back to the SDK's default chain
// (env vars, shared config, instance role).
type Config struct {
	Region          string
	Endpoint        string // custom endpoint for S3-compatible services, http(s) only
	Profile         string // shared config profile
	AccessKeyID     string // static credentials; both id and secret or neither
	SecretAccessKey string
	SessionToken    string
	UsePathStyle    bool
	RequestTimeout  time.Duration // per request; 0 => only ctx bounds the call
}

type Store struct {
	api            API
	uploader       Uploader
	requestTimeout time.Duration
}

var (
	_ objectstore.Store               = (*Store)(nil)
	_ objectstore.ConditionalUploader = (*Store)(nil)
)

// New builds a Store from cfg using the SDK's default configuration loader.
func New(ctx context.Context, cfg Config) (*Store, error) {
	if err := validateEndpoint(cfg.Endpoint); err != nil {
		return nil, err
	}
	if (cfg.AccessKeyID == "") != (cfg.SecretAccessKey == "") {
		return nil, errors.New("s3 access key id and secret access key must be set together")
	}

	var loadOpts []func(*awsconfig.LoadOptions) error
	if cfg.Region != "" {
		loadOpts = append(loadOpts, awsconfig.WithRegion(cfg.Region))
	}
	if cfg.Profile != "" {
		loadOpts = append(loadOpts, awsconfig.WithSharedConfigProfile(cfg.Profile))
	}
	if cfg.AccessKeyID != "" {
		loadOpts = append(loadOpts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, cfg.SessionToken),
		))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	client := awss3.NewFromConfig(awsCfg, func(o *awss3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		}
		o.UsePathStyle = cfg.UsePathStyle
	})

	return NewWithClient(client, transfermanager.New(client), cfg.RequestTimeout), nil
}

// NewWithClient wraps already constructed SDK clients.
func NewWithClient(api API, uploader Uploader, requestTimeout time.Duration) *Store {
	return &Store{api: api, uploader: uploader, requestTimeout: requestTimeout}
}

func (s *Store) Head(ctx context.Context, bucket, key string) error {
	if s.api == nil {
		return errors.New("s3 api client is not configured")
	}
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	_, err := s.api.HeadObject(ctx, &awss3.HeadObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("head object: %w", mapErr(err))
	}
	return nil
}

func (s *Store) Download(ctx context.Context, bucket, key string) ([]byte, error) {
	if s.api == nil {
		return nil, errors.New("s3 api client is not configured")
	}
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	out, err := s.api.GetObject(ctx, &awss3.GetObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return nil, fmt.Errorf("get object: %w", mapErr(err))
	}
	defer out.Body.Close()

	var buf bytes.Buffer
	if out.ContentLength != nil && *out.ContentLength > 0 {
		buf.Grow(int(*out.ContentLength))
	}
	if _, err := buf.ReadFrom(out.Body); err != nil {
		return nil, fmt.Errorf("read object body: %w", err)
	}
	return buf.Bytes(), nil
}

func (s *Store) Upload(ctx context.Context, bucket, key string, body io.Reader, size int64) error {
	if s.uploader == nil {
		return errors.New("s3 uploader is not configured")
	}
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	_, err := s.uploader.UploadObject(ctx, &transfermanager.UploadObjectInput{
		Bucket:        aws.String(bucket),
		Key:           aws.String(key),
		Body:          body,
		ContentLength: aws.Int64(size),
	})
	if err != nil {
		return fmt.Errorf("put object: %w", err)
	}
	return nil
}

// UploadIfAbsent issues a single PutObject with If-None-Match: *.
// S3 answers 412 when the key exists, which reads as (false, nil).
func (s *Store) UploadIfAbsent(ctx context.Context, bucket, key string, body io.Reader, size int64) (bool, error) {
	if s.api == nil {
		return false, errors.New("s3 api client is not configured")
	}
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	_, err := s.api.PutObject(ctx, &awss3.PutObjectInput{
		Bucket:        aws.String(bucket),
		Key:           aws.String(key),
		Body:          body,
		ContentLength: aws.Int64(size),
		IfNoneMatch:   aws.String("*"),
	})
	if err != nil {
		if isPreconditionFailed(err) {
			return false, nil
		}
		return false, fmt.Errorf("put object if absent: %w", err)
	}
	return true, nil
}

func (s *Store) Delete(ctx context.Context, bucket, key string) error {
	if s.api == nil {
		return errors.New("s3 api client is not configured")
	}
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	_, err := s.api.DeleteObject(ctx, &awss3.DeleteObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("delete object: %w", mapErr(err))
	}
	return nil
}

// Close is a no-op; the SDK client holds no resources that need releasing.
func (s *Store) Close(context.Context) error { return nil }

func (s *Store) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.requestTimeout <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, s.requestTimeout)
}

// mapErr turns S3 not-found responses into objectstore.ErrNotFound while
// keeping the SDK error in the chain.
func mapErr(err error) error {
	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.ErrorCode() {
		case "NotFound", "NoSuchKey":
			return fmt.Errorf("%w: %w", objectstore.ErrNotFound, err)
		}
	}
	return err
}

func isPreconditionFailed(err error) bool {
	var apiErr smithy.APIError
	if !errors.As(err, &apiErr) {
		return false
	}
	switch apiErr.ErrorCode() {
	case "PreconditionFailed", "ConditionalRequestConflict":
		return true
	}
	return false
}

func validateEndpoint(endpoint string) error {
	endpoint = strings.TrimSpace(endpoint)
	if endpoint == "" {
		return nil
	}
	u, err := url.Parse(endpoint)
	if err != nil || u.Host == "" {
		return fmt.Errorf("s3 endpoint must be a valid http(s) URL: %q", endpoint)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("s3 endpoint must use http or https: %q", endpoint)
	}
	return nil
}

package ledger

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// S3Config holds configuration for the S3 ledger backend.
type S3Config struct {
	// Bucket is the S3 bucket name (required).
	Bucket string
	// Prefix is the key prefix within the bucket (optional).
	Prefix string
	// Region is the AWS region (optional, uses default chain if empty).
	Region string
	// Endpoint is a custom S3 endpoint URL for S3-compatible providers
	// (e.g. Cloudflare R2, MinIO). Empty uses the default AWS endpoint.
	Endpoint string
	// UsePathStyle forces path-style addressing (bucket in path, not
	// subdomain). Required by most S3-compatible providers.
	UsePathStyle bool
}

// Validate checks that required S3 configuration is present.
func (c *S3Config) Validate() error {
	if c.Bucket == "" {
		return errors.New("S3 bucket is required")
	}
	return nil
}

// ParseS3Path parses a path in format "bucket/prefix" or "bucket".
func ParseS3Path(path string) (bucket, prefix string) {
	parts := strings.SplitN(path, "/", 2)
	bucket = parts[0]
	if len(parts) > 1 {
		prefix = parts[1]
	}
	return bucket, prefix
}

// s3API is the subset of the S3 client the store uses. Abstracted for
// test injection.
type s3API interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
	ListObjectsV2(ctx context.Context, params *s3.ListObjectsV2Input, optFns ...func(*s3.Options)) (*s3.ListObjectsV2Output, error)
}

// S3Store is an S3-backed Store.
type S3Store struct {
	client s3API
	config S3Config
}

// NewS3Store creates an S3 store using the AWS SDK default credential
// chain (env vars, shared config, IAM role).
func NewS3Store(ctx context.Context, cfg S3Config) (*S3Store, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	var opts []func(*awsconfig.LoadOptions) error
	if cfg.Region != "" {
		opts = append(opts, awsconfig.WithRegion(cfg.Region))
	}
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("ledger: load AWS config: %w", err)
	}

	var s3Opts []func(*s3.Options)
	if cfg.Endpoint != "" {
		endpoint := cfg.Endpoint
		s3Opts = append(s3Opts, func(o *s3.Options) {
			o.BaseEndpoint = &endpoint
		})
	}
	if cfg.UsePathStyle {
		s3Opts = append(s3Opts, func(o *s3.Options) {
			o.UsePathStyle = true
		})
	}

	return &S3Store{
		client: s3.NewFromConfig(awsCfg, s3Opts...),
		config: cfg,
	}, nil
}

// NewS3StoreWithClient creates an S3 store with an injected client.
// Used by tests.
func NewS3StoreWithClient(client s3API, cfg S3Config) (*S3Store, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &S3Store{client: client, config: cfg}, nil
}

// Put implements Store.
func (s *S3Store) Put(ctx context.Context, key string, payload []byte) error {
	objKey := s.objectKey(key)
	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket: &s.config.Bucket,
		Key:    &objKey,
		Body:   bytes.NewReader(payload),
	})
	if err != nil {
		return fmt.Errorf("ledger: s3 put %q: %w", key, err)
	}
	return nil
}

// List implements Store. Paginates through the bucket listing; S3
// returns keys in lexicographic order within each page.
func (s *S3Store) List(ctx context.Context, prefix string) ([]string, error) {
	objPrefix := s.objectKey(prefix)

	var keys []string
	var continuation *string
	for {
		out, err := s.client.ListObjectsV2(ctx, &s3.ListObjectsV2Input{
			Bucket:            &s.config.Bucket,
			Prefix:            &objPrefix,
			ContinuationToken: continuation,
		})
		if err != nil {
			return nil, fmt.Errorf("ledger: s3 list %q: %w", prefix, err)
		}
		for _, obj := range out.Contents {
			if obj.Key == nil {
				continue
			}
			keys = append(keys, s.trimPrefix(*obj.Key))
		}
		if out.IsTruncated == nil || !*out.IsTruncated {
			break
		}
		continuation = out.NextContinuationToken
	}

	sort.Strings(keys)
	return keys, nil
}

// Get implements Store.
func (s *S3Store) Get(ctx context.Context, key string) ([]byte, error) {
	objKey := s.objectKey(key)
	out, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: &s.config.Bucket,
		Key:    &objKey,
	})
	if err != nil {
		return nil, fmt.Errorf("ledger: s3 get %q: %w", key, err)
	}
	defer func() { _ = out.Body.Close() }()

	data, err := io.ReadAll(out.Body)
	if err != nil {
		return nil, fmt.Errorf("ledger: s3 read %q: %w", key, err)
	}
	return data, nil
}

// Close implements Store.
func (s *S3Store) Close() error { return nil }

// objectKey prepends the configured prefix.
func (s *S3Store) objectKey(key string) string {
	if s.config.Prefix == "" {
		return key
	}
	return strings.TrimSuffix(s.config.Prefix, "/") + "/" + key
}

// trimPrefix strips the configured prefix from a listed object key.
func (s *S3Store) trimPrefix(objKey string) string {
	if s.config.Prefix == "" {
		return objKey
	}
	return strings.TrimPrefix(objKey, strings.TrimSuffix(s.config.Prefix, "/")+"/")
}

// Verify S3Store implements Store.
var _ Store = (*S3Store)(nil)

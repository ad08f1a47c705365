package s3

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	aws "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"esxforge/internal/domain"
	"esxforge/internal/logger"
	"esxforge/internal/ports"
)

// Driver is the name reported by Store.Driver
const Driver = "s3"

// Store publishes plugins to an S3-compatible bucket (AWS S3 or MinIO).
// Keys map to object keys directly, under an optional prefix.
type Store struct {
	client *s3.Client
	bucket string
	prefix string
}

// Ensure Store implements ArtifactStore
var _ ports.ArtifactStore = (*Store)(nil)

// Config holds explicit construction parameters. Empty credentials fall back
// to the default AWS chain.
type Config struct {
	Region          string
	Bucket          string
	Prefix          string
	Endpoint        string // optional; enables a custom endpoint such as MinIO
	AccessKeyID     string
	SecretAccessKey string
	SessionToken    string
	PathStyle       bool
}

// Environment variables:
//   ESXFORGE_S3_BUCKET=<bucket> (required)
//   ESXFORGE_S3_REGION=<region> (default us-east-1)
//   ESXFORGE_S3_ENDPOINT=<url> (optional, for MinIO)
//   ESXFORGE_S3_PATH_STYLE=true|false (default false)
//   ESXFORGE_S3_PREFIX=<key prefix> (optional)
//   AWS_ACCESS_KEY_ID / AWS_SECRET_ACCESS_KEY / AWS_SESSION_TOKEN (optional)

// New creates a store from Config
func New(ctx context.Context, cfg Config) (*Store, error) {
	if cfg.Bucket == "" {
		return nil, fmt.Errorf("s3 bucket required")
	}
	region := cfg.Region
	if region == "" {
		region = "us-east-1"
	}

	loadOpts := []func(*config.LoadOptions) error{config.WithRegion(region)}
	if cfg.AccessKeyID != "" {
		loadOpts = append(loadOpts, config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, cfg.SessionToken),
		))
	}
	awsCfg, err := config.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load aws config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.PathStyle {
			o.UsePathStyle = true
		}
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		}
	})
	return newStore(client, cfg.Bucket, cfg.Prefix), nil
}

func newStore(client *s3.Client, bucket, prefix string) *Store {
	return &Store{client: client, bucket: bucket, prefix: strings.Trim(prefix, "/")}
}

// ConfigFromEnv reads the ESXFORGE_S3_* variables
func ConfigFromEnv() (Config, error) {
	bucket := os.Getenv("ESXFORGE_S3_BUCKET")
	if bucket == "" {
		return Config{}, fmt.Errorf("ESXFORGE_S3_BUCKET required for s3 publishing")
	}
	return Config{
		Bucket:    bucket,
		Region:    os.Getenv("ESXFORGE_S3_REGION"),
		Endpoint:  os.Getenv("ESXFORGE_S3_ENDPOINT"),
		Prefix:    os.Getenv("ESXFORGE_S3_PREFIX"),
		PathStyle: strings.EqualFold(os.Getenv("ESXFORGE_S3_PATH_STYLE"), "true"),
	}, nil
}

// OpenFromEnv constructs a store from the process environment
func OpenFromEnv(ctx context.Context) (*Store, error) {
	cfg, err := ConfigFromEnv()
	if err != nil {
		return nil, err
	}
	return New(ctx, cfg)
}

// Driver returns "s3"
func (s *Store) Driver() string { return Driver }

// Bucket returns the target bucket
func (s *Store) Bucket() string { return s.bucket }

// ObjectKey joins the configured prefix and key
func (s *Store) ObjectKey(key string) string {
	key = strings.TrimPrefix(key, "/")
	if s.prefix == "" {
		return key
	}
	return s.prefix + "/" + key
}

// Put uploads r under key. An existing object is never overwritten.
func (s *Store) Put(ctx context.Context, key string, r io.Reader, contentType string) (domain.ArtifactInfo, error) {
	objectKey := s.ObjectKey(key)

	// Emulate create-only via Head first.
	if _, err := s.client.HeadObject(ctx, &s3.HeadObjectInput{Bucket: &s.bucket, Key: &objectKey}); err == nil {
		return domain.ArtifactInfo{}, &domain.ConflictError{Kind: "artifact", Identifier: objectKey}
	}

	input := &s3.PutObjectInput{Bucket: &s.bucket, Key: &objectKey, Body: r}
	if contentType != "" {
		input.ContentType = &contentType
	}
	if _, err := s.client.PutObject(ctx, input); err != nil {
		return domain.ArtifactInfo{}, fmt.Errorf("failed to upload %s: %w", objectKey, err)
	}
	logger.Info("published artifact", "bucket", s.bucket, "key", objectKey)
	return s.Head(ctx, key)
}

// Head describes an uploaded object
func (s *Store) Head(ctx context.Context, key string) (domain.ArtifactInfo, error) {
	objectKey := s.ObjectKey(key)
	out, err := s.client.HeadObject(ctx, &s3.HeadObjectInput{Bucket: &s.bucket, Key: &objectKey})
	if err != nil {
		return domain.ArtifactInfo{}, err
	}

	info := domain.ArtifactInfo{
		Key:          objectKey,
		Size:         aws.ToInt64(out.ContentLength),
		ContentType:  aws.ToString(out.ContentType),
		ETag:         strings.Trim(aws.ToString(out.ETag), "\""),
		LastModified: time.Now().UTC(),
	}
	if out.LastModified != nil {
		info.LastModified = *out.LastModified
	}
	return info, nil
}

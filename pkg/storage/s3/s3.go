// Package s3 implements the S3-compatible object storage backend.
// It supports AWS S3, MinIO and other S3-compatible services.
package s3

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"

	"github.com/yi-nology/upload_bridge/pkg/storage"
)

const (
	DefaultRegion             = "us-east-1"
	DefaultACL                = "public-read"
	DefaultContentDisposition = "inline"
)

// Config holds S3 storage configuration.
type Config struct {
	Endpoint           string
	Region             string
	Bucket             string
	ACL                string
	ContentDisposition string
	AccessKey          string
	SecretKey          string
	PathStyle          bool // Use path-style URLs (required for MinIO)
	// PublicBaseURL overrides the virtual-hosted AWS URL returned by Get.
	PublicBaseURL string
}

// ObjectAPI is the subset of the S3 client the backend calls.
type ObjectAPI interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	DeleteObject(ctx context.Context, params *s3.DeleteObjectInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectOutput, error)
}

// Storage implements storage.Backend using S3-compatible storage.
type Storage struct {
	client             ObjectAPI
	bucket             string
	region             string
	acl                string
	contentDisposition string
	publicBaseURL      string
}

var _ storage.Backend = (*Storage)(nil)

// New creates a new S3 storage backend. Static credentials are used when
// both keys are set, otherwise the default AWS credential chain applies.
func New(ctx context.Context, cfg Config) (*Storage, error) {
	cfg = withDefaults(cfg)
	if cfg.Bucket == "" {
		return nil, fmt.Errorf("bucket name is required")
	}

	optFns := []func(*config.LoadOptions) error{config.WithRegion(cfg.Region)}
	if cfg.AccessKey != "" && cfg.SecretKey != "" {
		optFns = append(optFns, config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, ""),
		))
	}

	awsCfg, err := config.LoadDefaultConfig(ctx, optFns...)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	var s3OptFns []func(*s3.Options)
	if cfg.Endpoint != "" {
		s3OptFns = append(s3OptFns, func(o *s3.Options) {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		})
	}
	if cfg.PathStyle {
		s3OptFns = append(s3OptFns, func(o *s3.Options) {
			o.UsePathStyle = true
		})
	}

	return NewWithClient(s3.NewFromConfig(awsCfg, s3OptFns...), cfg)
}

// NewWithClient builds the backend around an existing client.
func NewWithClient(client ObjectAPI, cfg Config) (*Storage, error) {
	cfg = withDefaults(cfg)
	if cfg.Bucket == "" {
		return nil, fmt.Errorf("bucket name is required")
	}
	return &Storage{
		client:             client,
		bucket:             cfg.Bucket,
		region:             cfg.Region,
		acl:                cfg.ACL,
		contentDisposition: cfg.ContentDisposition,
		publicBaseURL:      strings.TrimRight(cfg.PublicBaseURL, "/"),
	}, nil
}

func withDefaults(cfg Config) Config {
	if cfg.Region == "" {
		cfg.Region = DefaultRegion
	}
	if cfg.ACL == "" {
		cfg.ACL = DefaultACL
	}
	if cfg.ContentDisposition == "" {
		cfg.ContentDisposition = DefaultContentDisposition
	}
	return cfg
}

// UploadOptions returns the bucket, access policy and disposition new objects get.
func (s *Storage) UploadOptions() storage.UploadOptions {
	return storage.UploadOptions{
		Bucket:             s.bucket,
		ACL:                s.acl,
		ContentDisposition: s.contentDisposition,
		Key:                storage.DeriveKey,
		ContentType:        storage.DeriveContentType,
	}
}

// PutObject uploads data to the bucket under key.
func (s *Storage) PutObject(ctx context.Context, key string, data io.Reader, contentType string, size int64) (*storage.UploadResult, error) {
	input := &s3.PutObjectInput{
		Bucket:             aws.String(s.bucket),
		Key:                aws.String(key),
		Body:               data,
		ACL:                types.ObjectCannedACL(s.acl),
		ContentDisposition: aws.String(s.contentDisposition),
	}
	if contentType != "" {
		input.ContentType = aws.String(contentType)
	}
	if size > 0 {
		input.ContentLength = aws.Int64(size)
	}

	if _, err := s.client.PutObject(ctx, input); err != nil {
		return nil, storage.Observe(storage.KindS3, "put", &storage.BackendError{
			Backend: storage.KindS3, Op: "put object", Key: key, Err: err,
		})
	}

	storage.Observe(storage.KindS3, "put", nil)
	return &storage.UploadResult{
		Key:         key,
		Location:    s.URL(key),
		Bucket:      s.bucket,
		ContentType: contentType,
		Size:        size,
	}, nil
}

// Get returns the public object URL for key. No request is made, so a
// missing object yields a URL that does not resolve.
func (s *Storage) Get(ctx context.Context, key string) (*storage.StoredFile, error) {
	return &storage.StoredFile{
		FilePath: key,
		FileURL:  s.URL(key),
	}, nil
}

// Delete removes key from the bucket. S3 does not report missing keys.
func (s *Storage) Delete(ctx context.Context, key string) error {
	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return storage.Observe(storage.KindS3, "delete", &storage.BackendError{
			Backend: storage.KindS3, Op: "delete object", Key: key, Err: err,
		})
	}
	return storage.Observe(storage.KindS3, "delete", nil)
}

// Type returns storage.KindS3.
func (s *Storage) Type() storage.Kind {
	return storage.KindS3
}

// URL returns the public URL of key.
func (s *Storage) URL(key string) string {
	if s.publicBaseURL != "" {
		return s.publicBaseURL + "/" + key
	}
	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", s.bucket, s.region, key)
}

// Bucket returns the configured bucket name.
func (s *Storage) Bucket() string {
	return s.bucket
}

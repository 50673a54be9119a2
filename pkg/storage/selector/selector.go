// Package selector chooses the storage backend for the process from the
// deployment environment.
package selector

import (
	"context"

	"github.com/yi-nology/upload_bridge/pkg/storage"
	"github.com/yi-nology/upload_bridge/pkg/storage/local"
	"github.com/yi-nology/upload_bridge/pkg/storage/s3"
)

// DevEnvironment is the only environment served from local disk.
const DevEnvironment = "dev"

// Config holds storage configuration.
type Config struct {
	Environment string      `yaml:"environment" env:"ENVIRONMENT"`
	Local       LocalConfig `yaml:"local"`
	S3          S3Config    `yaml:"s3"`
}

// LocalConfig holds local storage configuration.
type LocalConfig struct {
	BasePath      string `yaml:"base_path" env:"UPLOADS_DIR"`
	PublicBaseURL string `yaml:"public_base_url" env:"PUBLIC_BASE_URL"`
}

// S3Config holds S3-compatible storage configuration.
type S3Config struct {
	Endpoint           string `yaml:"endpoint" env:"S3_ENDPOINT"`
	Region             string `yaml:"region" env:"S3_REGION"`
	Bucket             string `yaml:"bucket" env:"S3_BUCKET"`
	ACL                string `yaml:"acl" env:"S3_ACL"`
	ContentDisposition string `yaml:"content_disposition" env:"S3_CONTENT_DISPOSITION"`
	AccessKey          string `yaml:"access_key" env:"S3_ACCESS_KEY"`
	SecretKey          string `yaml:"secret_key" env:"S3_SECRET_KEY"`
	PathStyle          bool   `yaml:"path_style" env:"S3_PATH_STYLE"`
	PublicBaseURL      string `yaml:"public_base_url" env:"S3_PUBLIC_BASE_URL"`
}

// DefaultConfig returns the default storage configuration.
func DefaultConfig() Config {
	return Config{
		Local: LocalConfig{
			BasePath:      local.DefaultRoot,
			PublicBaseURL: local.DefaultPublicBaseURL,
		},
		S3: S3Config{
			Region:             s3.DefaultRegion,
			Bucket:             "upload-bridge-media",
			ACL:                s3.DefaultACL,
			ContentDisposition: s3.DefaultContentDisposition,
		},
	}
}

// KindFor maps an environment value to a backend kind.
func KindFor(environment string) storage.Kind {
	if environment == DevEnvironment {
		return storage.KindLocal
	}
	return storage.KindS3
}

// Select returns disk for the dev environment and object for anything else.
func Select(environment string, disk, object storage.Backend) storage.Backend {
	if KindFor(environment) == storage.KindLocal {
		return disk
	}
	return object
}

// New constructs only the backend selected by cfg.Environment. It is meant
// to be called once at startup; the result serves every request.
func New(ctx context.Context, cfg Config) (storage.Backend, error) {
	switch KindFor(cfg.Environment) {
	case storage.KindLocal:
		return local.New(cfg.Local.BasePath, cfg.Local.PublicBaseURL)
	default:
		return s3.New(ctx, s3.Config{
			Endpoint:           cfg.S3.Endpoint,
			Region:             cfg.S3.Region,
			Bucket:             cfg.S3.Bucket,
			ACL:                cfg.S3.ACL,
			ContentDisposition: cfg.S3.ContentDisposition,
			AccessKey:          cfg.S3.AccessKey,
			SecretKey:          cfg.S3.SecretKey,
			PathStyle:          cfg.S3.PathStyle,
			PublicBaseURL:      cfg.S3.PublicBaseURL,
		})
	}
}

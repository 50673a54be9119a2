package config

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/caarlos0/env/v10"
	"github.com/cloudwego/hertz/pkg/common/hlog"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/yi-nology/upload_bridge/pkg/storage/selector"
)

// Config captures service level configuration loaded from config.yaml,
// then overridden by .env and process environment variables.
type Config struct {
	Server  ServerConfig    `yaml:"server"`
	Log     LogConfig       `yaml:"log"`
	CORS    CORSConfig      `yaml:"cors"`
	Upload  UploadConfig    `yaml:"upload"`
	Storage selector.Config `yaml:"storage"`
}

// ServerConfig defines HTTP server options.
type ServerConfig struct {
	Address string `yaml:"address" env:"SERVER_ADDRESS"`
}

// LogConfig defines logging options.
type LogConfig struct {
	Level string `yaml:"level" env:"LOG_LEVEL"`
}

// CORSConfig defines CORS middleware settings.
type CORSConfig struct {
	AllowOrigin      string `yaml:"allow_origin"`
	AllowMethods     string `yaml:"allow_methods"`
	AllowHeaders     string `yaml:"allow_headers"`
	AllowCredentials bool   `yaml:"allow_credentials"`
}

// UploadConfig defines file upload constraints.
type UploadConfig struct {
	Field        string   `yaml:"field"`
	MaxSize      int64    `yaml:"max_size" env:"UPLOAD_MAX_SIZE"`
	AllowedTypes []string `yaml:"allowed_types"`
}

// Load reads a YAML configuration file from the provided path, then applies
// a .env file from the working directory (if any) and environment overrides.
// It searches in the current working directory first, then next to the binary executable.
func Load(name string) (*Config, error) {
	cfg := defaultConfig()

	configPath := findConfigFile(name)
	if configPath == "" {
		hlog.Warnf("config file %q not found, using defaults", name)
	} else {
		hlog.Infof("loading config from: %s", configPath)
		if err := decodeFile(configPath, cfg); err != nil {
			return nil, err
		}
	}

	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}

	applyDefaults(cfg)
	return cfg, nil
}

func decodeFile(path string, cfg *Config) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open config: %w", err)
	}
	defer func() { _ = f.Close() }()

	decoder := yaml.NewDecoder(f)
	decoder.KnownFields(true)
	if err := decoder.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("decode config: %w", err)
	}
	return nil
}

func defaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Address: ":3000",
		},
		Log: LogConfig{
			Level: "info",
		},
		CORS: CORSConfig{
			AllowOrigin:      "*",
			AllowMethods:     "GET,POST,DELETE,OPTIONS",
			AllowHeaders:     "*",
			AllowCredentials: false,
		},
		Upload: UploadConfig{
			Field:        "image",
			MaxSize:      10 * 1024 * 1024, // 10MB
			AllowedTypes: []string{"image/png"},
		},
		Storage: selector.DefaultConfig(),
	}
}

func applyDefaults(cfg *Config) {
	defaults := defaultConfig()
	if cfg.Server.Address == "" {
		cfg.Server.Address = defaults.Server.Address
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = defaults.Log.Level
	}
	if cfg.Upload.Field == "" {
		cfg.Upload.Field = defaults.Upload.Field
	}
	if cfg.Upload.MaxSize <= 0 {
		cfg.Upload.MaxSize = defaults.Upload.MaxSize
	}
	if len(cfg.Upload.AllowedTypes) == 0 {
		cfg.Upload.AllowedTypes = defaults.Upload.AllowedTypes
	}
	if cfg.Storage.Local.BasePath == "" {
		cfg.Storage.Local.BasePath = defaults.Storage.Local.BasePath
	}
	if cfg.Storage.Local.PublicBaseURL == "" {
		cfg.Storage.Local.PublicBaseURL = defaults.Storage.Local.PublicBaseURL
	}
	if cfg.Storage.S3.Region == "" {
		cfg.Storage.S3.Region = defaults.Storage.S3.Region
	}
	if cfg.Storage.S3.Bucket == "" {
		cfg.Storage.S3.Bucket = defaults.Storage.S3.Bucket
	}
	if cfg.Storage.S3.ACL == "" {
		cfg.Storage.S3.ACL = defaults.Storage.S3.ACL
	}
	if cfg.Storage.S3.ContentDisposition == "" {
		cfg.Storage.S3.ContentDisposition = defaults.Storage.S3.ContentDisposition
	}
}

// LogLevel maps the configured level name onto hlog's levels.
func (c LogConfig) LogLevel() hlog.Level {
	switch c.Level {
	case "debug":
		return hlog.LevelDebug
	case "warn":
		return hlog.LevelWarn
	case "error":
		return hlog.LevelError
	default:
		return hlog.LevelInfo
	}
}

// findConfigFile searches for a config file in the current directory first,
// then next to the binary executable. Returns the full path or empty string.
func findConfigFile(name string) string {
	// 1. Current working directory
	if _, err := os.Stat(name); err == nil {
		abs, _ := filepath.Abs(name)
		return abs
	}

	// 2. Next to the binary executable
	exe, err := os.Executable()
	if err == nil {
		exeDir := filepath.Dir(exe)
		candidate := filepath.Join(exeDir, name)
		if _, err := os.Stat(candidate); err == nil {
			return candidate
		}
	}

	return ""
}

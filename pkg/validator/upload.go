package validator

import (
	"fmt"
	"strings"

	"github.com/gabriel-vasile/mimetype"
)

// Default upload constraints
const (
	DefaultMaxUploadSize = 10 * 1024 * 1024 // 10MB
)

// DefaultAllowedMimeTypes contains the default whitelist of allowed MIME types for uploads.
var DefaultAllowedMimeTypes = map[string]bool{
	"image/png": true,
}

// ValidationError reports an upload rejected before it reaches storage.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string {
	return "validation failed: " + e.Reason
}

// UploadConfig defines constraints for file uploads.
type UploadConfig struct {
	MaxFileSize      int64
	AllowedMimeTypes map[string]bool
}

// DefaultUploadConfig returns the default upload configuration.
func DefaultUploadConfig() *UploadConfig {
	return &UploadConfig{
		MaxFileSize:      DefaultMaxUploadSize,
		AllowedMimeTypes: DefaultAllowedMimeTypes,
	}
}

// NewUploadConfig builds an UploadConfig from a size limit and a MIME list.
func NewUploadConfig(maxSize int64, allowed []string) *UploadConfig {
	cfg := DefaultUploadConfig()
	if maxSize > 0 {
		cfg.MaxFileSize = maxSize
	}
	if len(allowed) > 0 {
		cfg.AllowedMimeTypes = make(map[string]bool, len(allowed))
		for _, t := range allowed {
			cfg.AllowedMimeTypes[normalize(t)] = true
		}
	}
	return cfg
}

// ValidateFileSize checks if the file size is within the allowed limit.
func (c *UploadConfig) ValidateFileSize(size int64) error {
	if size <= 0 {
		return &ValidationError{Reason: "file is empty"}
	}
	if size > c.MaxFileSize {
		return &ValidationError{Reason: fmt.Sprintf("file too large: %d > %d bytes", size, c.MaxFileSize)}
	}
	return nil
}

// ValidateMimeType checks if the MIME type is in the allowed whitelist.
func (c *UploadConfig) ValidateMimeType(mimeType string) error {
	normalized := normalize(mimeType)
	if normalized == "" {
		return &ValidationError{Reason: "missing content type"}
	}
	if !c.AllowedMimeTypes[normalized] {
		return &ValidationError{Reason: fmt.Sprintf("unsupported file type %q", normalized)}
	}
	return nil
}

// DetectAndValidateMimeType detects the MIME type from the leading bytes of
// the file and validates it. The declared type is not trusted.
func (c *UploadConfig) DetectAndValidateMimeType(head []byte) (string, error) {
	detected := normalize(mimetype.Detect(head).String())
	if err := c.ValidateMimeType(detected); err != nil {
		return detected, err
	}
	return detected, nil
}

// Validate performs full validation on an upload.
func (c *UploadConfig) Validate(size int64, head []byte) (string, error) {
	if err := c.ValidateFileSize(size); err != nil {
		return "", err
	}
	return c.DetectAndValidateMimeType(head)
}

// normalize lowercases a MIME type and drops parameters such as charset.
func normalize(mimeType string) string {
	normalized := strings.ToLower(strings.TrimSpace(mimeType))
	if idx := strings.Index(normalized, ";"); idx > 0 {
		normalized = strings.TrimSpace(normalized[:idx])
	}
	return normalized
}

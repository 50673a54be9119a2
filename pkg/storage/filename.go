package storage

import (
	"math/rand"
	"mime"
	"path/filepath"
	"strings"
)

const suffixDigits = 4

const hexDigits = "0123456789abcdef"

// DeriveKey builds a storage key of the form "<stem>-<4 hex><ext>" where stem is
// the original name up to its first dot and ext runs from its last dot.
// Uniqueness is probabilistic (16^4 suffixes per stem).
func DeriveKey(originalName string) string {
	name := baseName(originalName)

	stem := name
	if idx := strings.Index(name, "."); idx >= 0 {
		stem = name[:idx]
	}

	var b strings.Builder
	b.Grow(len(name) + suffixDigits + 1)
	b.WriteString(stem)
	b.WriteByte('-')
	for i := 0; i < suffixDigits; i++ {
		b.WriteByte(hexDigits[rand.Intn(16)])
	}
	b.WriteString(extension(name))
	return b.String()
}

// DeriveContentType maps the extension of originalName to a MIME type.
// It returns "" when the extension is unknown.
func DeriveContentType(originalName string) string {
	ext := extension(baseName(originalName))
	if ext == "" {
		return ""
	}
	ct := mime.TypeByExtension(strings.ToLower(ext))
	if idx := strings.Index(ct, ";"); idx > 0 {
		ct = strings.TrimSpace(ct[:idx])
	}
	return ct
}

// baseName drops any directory components a client may have sent.
func baseName(name string) string {
	name = strings.ReplaceAll(name, "\\", "/")
	if idx := strings.LastIndex(name, "/"); idx >= 0 {
		name = name[idx+1:]
	}
	return name
}

// extension mirrors filepath.Ext except that a name made only of a leading
// dot segment (".env") has no extension.
func extension(name string) string {
	ext := filepath.Ext(name)
	if ext == name {
		return ""
	}
	return ext
}

package storage_test

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/yi-nology/upload_bridge/pkg/storage"
)

func TestDeriveKeyFormat(t *testing.T) {
	cases := []struct {
		name    string
		pattern string
	}{
		{"photo.png", `^photo-[0-9a-f]{4}\.png$`},
		{"archive.tar.gz", `^archive-[0-9a-f]{4}\.gz$`},
		{"README", `^README-[0-9a-f]{4}$`},
		{".env", `^-[0-9a-f]{4}$`},
		{"../../etc/passwd.txt", `^passwd-[0-9a-f]{4}\.txt$`},
		{`C:\Users\me\cat.JPG`, `^cat-[0-9a-f]{4}\.JPG$`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Regexp(t, regexp.MustCompile(tc.pattern), storage.DeriveKey(tc.name))
		})
	}
}

func TestDeriveKeyIsRandomized(t *testing.T) {
	seen := make(map[string]struct{})
	for i := 0; i < 50; i++ {
		seen[storage.DeriveKey("photo.png")] = struct{}{}
	}
	assert.Greater(t, len(seen), 1, "expected repeated calls to produce different keys")
}

func TestDeriveContentType(t *testing.T) {
	assert.Equal(t, "image/png", storage.DeriveContentType("photo.png"))
	assert.Equal(t, "image/png", storage.DeriveContentType("PHOTO.PNG"))
	assert.Equal(t, "image/jpeg", storage.DeriveContentType("a.b.jpg"))
	assert.Equal(t, "", storage.DeriveContentType("README"))
	assert.Equal(t, "", storage.DeriveContentType("file.unknownext"))
}

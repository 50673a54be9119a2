package router_test

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"path/filepath"
	"regexp"
	"strings"
	"testing"

	awss3 "github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/cloudwego/hertz/pkg/app/server"
	"github.com/cloudwego/hertz/pkg/common/ut"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yi-nology/upload_bridge/biz/router"
	"github.com/yi-nology/upload_bridge/pkg/common"
	"github.com/yi-nology/upload_bridge/pkg/config"
	"github.com/yi-nology/upload_bridge/pkg/storage"
	"github.com/yi-nology/upload_bridge/pkg/storage/local"
	"github.com/yi-nology/upload_bridge/pkg/storage/s3"
)

var pngBytes = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR\x00\x00\x00\x01\x00\x00\x00\x01\x08\x06\x00\x00\x00\x1f\x15\xc4\x89")

func testConfig() *config.Config {
	return &config.Config{
		Server: config.ServerConfig{Address: "127.0.0.1:0"},
		Upload: config.UploadConfig{
			Field:        "image",
			MaxSize:      1 << 20,
			AllowedTypes: []string{"image/png"},
		},
	}
}

func newDevServer(t *testing.T) *server.Hertz {
	t.Helper()
	disk, err := local.New(filepath.Join(t.TempDir(), "uploads"), "http://localhost:3000")
	require.NoError(t, err)
	return router.NewServer(testConfig(), disk)
}

func multipartBody(t *testing.T, field, filename string, content []byte) (*ut.Body, ut.Header) {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	part, err := w.CreateFormFile(field, filename)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, w.Close())
	return &ut.Body{Body: &buf, Len: buf.Len()}, ut.Header{Key: "Content-Type", Value: w.FormDataContentType()}
}

func upload(t *testing.T, h *server.Hertz, filename string, content []byte) *ut.ResponseRecorder {
	t.Helper()
	body, header := multipartBody(t, "image", filename, content)
	return ut.PerformRequest(h.Engine, "POST", "/upload", body, header)
}

func TestDevUploadGetDeleteFlow(t *testing.T) {
	h := newDevServer(t)

	w := upload(t, h, "photo.png", pngBytes)
	resp := w.Result()
	require.Equal(t, 200, resp.StatusCode(), string(resp.Body()))

	var stored storage.StoredFile
	require.NoError(t, json.Unmarshal(resp.Body(), &stored))
	assert.Regexp(t, regexp.MustCompile(`^photo-[0-9a-f]{4}\.png$`), stored.FilePath)
	assert.True(t, strings.HasPrefix(stored.FileURL, "http://localhost:3000/uploads/"))

	w = ut.PerformRequest(h.Engine, "GET", "/uploads/"+stored.FilePath, nil)
	assert.Equal(t, 200, w.Result().StatusCode())
	assert.Equal(t, pngBytes, w.Result().Body())

	w = ut.PerformRequest(h.Engine, "GET", "/upload/"+stored.FilePath, nil)
	require.Equal(t, 200, w.Result().StatusCode())
	var got storage.StoredFile
	require.NoError(t, json.Unmarshal(w.Result().Body(), &got))
	assert.Equal(t, stored.FileURL, got.FileURL)

	w = ut.PerformRequest(h.Engine, "DELETE", "/upload/"+stored.FilePath, nil)
	assert.Equal(t, 200, w.Result().StatusCode())

	w = ut.PerformRequest(h.Engine, "DELETE", "/upload/"+stored.FilePath, nil)
	assert.Equal(t, 404, w.Result().StatusCode())
	var errResp common.CommonResponse
	require.NoError(t, json.Unmarshal(w.Result().Body(), &errResp))
	assert.Equal(t, 404, errResp.Code)
}

func TestUploadRejectsNonPNG(t *testing.T) {
	h := newDevServer(t)

	w := upload(t, h, "notes.png", []byte("definitely not an image"))
	assert.Equal(t, 422, w.Result().StatusCode())
}

func TestUploadRequiresImageField(t *testing.T) {
	h := newDevServer(t)

	body, header := multipartBody(t, "file", "photo.png", pngBytes)
	w := ut.PerformRequest(h.Engine, "POST", "/upload", body, header)
	assert.Equal(t, 400, w.Result().StatusCode())
}

func TestRequestIDIsEchoed(t *testing.T) {
	h := newDevServer(t)

	w := ut.PerformRequest(h.Engine, "GET", "/ping", nil, ut.Header{Key: common.RequestIDHeader, Value: "req-42"})
	assert.Equal(t, 200, w.Result().StatusCode())
	assert.Equal(t, "req-42", string(w.Result().Header.Peek(common.RequestIDHeader)))
}

type failingObjects struct{}

func (failingObjects) PutObject(ctx context.Context, in *awss3.PutObjectInput, _ ...func(*awss3.Options)) (*awss3.PutObjectOutput, error) {
	return &awss3.PutObjectOutput{}, nil
}

func (failingObjects) DeleteObject(ctx context.Context, in *awss3.DeleteObjectInput, _ ...func(*awss3.Options)) (*awss3.DeleteObjectOutput, error) {
	return nil, assert.AnError
}

func TestObjectStoreRoutes(t *testing.T) {
	object, err := s3.NewWithClient(failingObjects{}, s3.Config{Bucket: "media", Region: "us-east-1"})
	require.NoError(t, err)
	h := router.NewServer(testConfig(), object)

	w := upload(t, h, "photo.png", pngBytes)
	require.Equal(t, 200, w.Result().StatusCode(), string(w.Result().Body()))
	var stored storage.StoredFile
	require.NoError(t, json.Unmarshal(w.Result().Body(), &stored))
	assert.Equal(t, "https://media.s3.us-east-1.amazonaws.com/"+stored.FilePath, stored.FileURL)

	w = ut.PerformRequest(h.Engine, "GET", "/upload/missing-0000.png", nil)
	require.Equal(t, 200, w.Result().StatusCode())

	w = ut.PerformRequest(h.Engine, "DELETE", "/upload/"+stored.FilePath, nil)
	assert.Equal(t, 502, w.Result().StatusCode())

	// local file serving is only routed for the disk backend
	w = ut.PerformRequest(h.Engine, "GET", "/uploads/"+stored.FilePath, nil)
	assert.Equal(t, 404, w.Result().StatusCode())
}

func TestCORSPreflight(t *testing.T) {
	h := newDevServer(t)

	w := ut.PerformRequest(h.Engine, "OPTIONS", "/upload", nil, ut.Header{Key: "Origin", Value: "http://example.com"})
	resp := w.Result()
	assert.Equal(t, 204, resp.StatusCode())
	assert.Equal(t, "*", string(resp.Header.Peek("Access-Control-Allow-Origin")))
	assert.Equal(t, common.RequestIDHeader, string(resp.Header.Peek("Access-Control-Expose-Headers")))
}

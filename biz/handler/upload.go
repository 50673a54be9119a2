package handler

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/http"

	"github.com/cloudwego/hertz/pkg/app"
	"github.com/cloudwego/hertz/pkg/common/hlog"
	"github.com/cloudwego/hertz/pkg/protocol/consts"

	"github.com/yi-nology/upload_bridge/biz/service"
	"github.com/yi-nology/upload_bridge/pkg/common"
	"github.com/yi-nology/upload_bridge/pkg/storage"
	"github.com/yi-nology/upload_bridge/pkg/storage/local"
	"github.com/yi-nology/upload_bridge/pkg/validator"
)

// sniffLen is how many leading bytes are read for content detection.
const sniffLen = 3072

// UploadHandler exposes the upload, get and delete endpoints.
type UploadHandler struct {
	service   *service.FileService
	validator *validator.UploadConfig
	field     string
	disk      *local.Storage
}

// NewUploadHandler wires the handler. disk is only set when the process
// serves files from local storage; it enables ServeFile.
func NewUploadHandler(svc *service.FileService, v *validator.UploadConfig, field string, disk *local.Storage) *UploadHandler {
	if v == nil {
		v = validator.DefaultUploadConfig()
	}
	if field == "" {
		field = "image"
	}
	return &UploadHandler{service: svc, validator: v, field: field, disk: disk}
}

// ServesLocalFiles reports whether ServeFile should be routed.
func (h *UploadHandler) ServesLocalFiles() bool {
	return h.disk != nil
}

// UploadFile validates a multipart upload and stores it in the active backend.
func (h *UploadHandler) UploadFile(ctx context.Context, c *app.RequestContext) {
	fileHeader, err := c.FormFile(h.field)
	if err != nil {
		writeBadRequest(c, err)
		return
	}
	file, err := fileHeader.Open()
	if err != nil {
		writeBadRequest(c, err)
		return
	}
	defer file.Close()

	head := make([]byte, sniffLen)
	n, err := io.ReadFull(file, head)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		writeInternalError(c, err)
		return
	}
	head = head[:n]

	detected, err := h.validator.Validate(fileHeader.Size, head)
	if err != nil {
		writeError(c, err)
		return
	}

	stored, err := h.service.Upload(ctx, &service.FileUploadInput{
		FileName:    fileHeader.Filename,
		ContentType: detected,
		Size:        fileHeader.Size,
		Data:        io.MultiReader(bytes.NewReader(head), file),
	})
	if err != nil {
		writeError(c, err)
		return
	}

	hlog.CtxInfof(ctx, "stored %q as %s (%d bytes)", fileHeader.Filename, stored.FilePath, fileHeader.Size)
	c.JSON(consts.StatusOK, stored)
}

// GetFile returns the descriptor for the key in the path.
func (h *UploadHandler) GetFile(ctx context.Context, c *app.RequestContext) {
	stored, err := h.service.Get(ctx, c.Param("file"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(consts.StatusOK, stored)
}

// DeleteFile removes the key in the path from storage.
func (h *UploadHandler) DeleteFile(ctx context.Context, c *app.RequestContext) {
	key := c.Param("file")
	if err := h.service.Delete(ctx, key); err != nil {
		writeError(c, err)
		return
	}
	hlog.CtxInfof(ctx, "deleted %s", key)
	c.JSON(consts.StatusOK, common.CommonResponse{
		Code: consts.StatusOK,
		Msg:  http.StatusText(consts.StatusOK),
	})
}

// ServeFile streams a locally stored file so dev file URLs resolve.
func (h *UploadHandler) ServeFile(ctx context.Context, c *app.RequestContext) {
	if h.disk == nil {
		writeNotFound(c, storage.ErrNotFound)
		return
	}
	path, err := h.disk.Resolve(c.Param("file"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.File(path)
}

// Ping reports liveness.
func Ping(ctx context.Context, c *app.RequestContext) {
	c.JSON(consts.StatusOK, common.CommonResponse{Code: consts.StatusOK, Msg: "pong"})
}

// writeError maps core errors onto HTTP statuses.
func writeError(c *app.RequestContext, err error) {
	var validationErr *validator.ValidationError
	var backendErr *storage.BackendError
	switch {
	case errors.As(err, &validationErr):
		writeStatus(c, consts.StatusUnprocessableEntity, err.Error(), err)
	case errors.Is(err, storage.ErrNotFound):
		writeNotFound(c, err)
	case errors.Is(err, storage.ErrInvalidKey):
		writeBadRequest(c, err)
	case errors.As(err, &backendErr):
		writeStatus(c, consts.StatusBadGateway, "storage backend error", err)
	default:
		writeInternalError(c, err)
	}
}

func writeStatus(c *app.RequestContext, status int, msg string, err error) {
	c.JSON(status, common.CommonResponse{
		Code:  status,
		Msg:   msg,
		Error: err.Error(),
	})
}

func writeBadRequest(c *app.RequestContext, err error) {
	writeStatus(c, consts.StatusBadRequest, err.Error(), err)
}

func writeInternalError(c *app.RequestContext, err error) {
	writeStatus(c, consts.StatusInternalServerError, "internal error", err)
}

func writeNotFound(c *app.RequestContext, err error) {
	writeStatus(c, consts.StatusNotFound, err.Error(), err)
}

package router

import (
	"github.com/cloudwego/hertz/pkg/app/server"
	hertzconfig "github.com/cloudwego/hertz/pkg/common/config"

	"github.com/yi-nology/upload_bridge/biz/handler"
	"github.com/yi-nology/upload_bridge/biz/middleware"
	"github.com/yi-nology/upload_bridge/biz/service"
	"github.com/yi-nology/upload_bridge/pkg/config"
	"github.com/yi-nology/upload_bridge/pkg/storage"
	"github.com/yi-nology/upload_bridge/pkg/storage/local"
	"github.com/yi-nology/upload_bridge/pkg/validator"
)

// NewServer builds the Hertz server around the process-wide backend.
func NewServer(cfg *config.Config, backend storage.Backend, opts ...hertzconfig.Option) *server.Hertz {
	opts = append([]hertzconfig.Option{
		server.WithHostPorts(cfg.Server.Address),
		// multipart framing on top of the file itself
		server.WithMaxRequestBodySize(int(cfg.Upload.MaxSize) + 1<<20),
	}, opts...)
	h := server.New(opts...)

	h.Use(
		middleware.Logging(),
		middleware.Recovery(),
		middleware.Metrics(),
		middleware.CORS(&cfg.CORS),
	)

	disk, _ := backend.(*local.Storage)
	uploads := handler.NewUploadHandler(
		service.NewFileService(backend),
		validator.NewUploadConfig(cfg.Upload.MaxSize, cfg.Upload.AllowedTypes),
		cfg.Upload.Field,
		disk,
	)
	RegisterUploadRoutes(h, uploads)
	return h
}

package router

import (
	"github.com/cloudwego/hertz/pkg/app/server"
	"github.com/cloudwego/hertz/pkg/common/adaptor"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/yi-nology/upload_bridge/biz/handler"
)

// RegisterUploadRoutes configures HTTP routes for the upload API.
func RegisterUploadRoutes(r *server.Hertz, h *handler.UploadHandler) {
	if h == nil {
		return
	}

	r.POST("/upload", h.UploadFile)
	upload := r.Group("/upload")
	upload.GET("/:file", h.GetFile)
	upload.DELETE("/:file", h.DeleteFile)

	if h.ServesLocalFiles() {
		r.GET("/uploads/:file", h.ServeFile)
	}

	r.GET("/ping", handler.Ping)
	r.GET("/metrics", adaptor.HertzHandler(promhttp.Handler()))
}

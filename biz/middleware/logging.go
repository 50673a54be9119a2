package middleware

import (
	"context"
	"time"

	"github.com/cloudwego/hertz/pkg/app"
	"github.com/cloudwego/hertz/pkg/common/hlog"
	"github.com/google/uuid"

	"github.com/yi-nology/upload_bridge/pkg/common"
)

// Logging returns a middleware that tags the request with an id and logs
// request and response information.
func Logging() app.HandlerFunc {
	return func(ctx context.Context, c *app.RequestContext) {
		start := time.Now()

		requestID := string(c.GetHeader(common.RequestIDHeader))
		if requestID == "" {
			requestID = uuid.NewString()
		}
		ctx = common.ContextWithRequestID(ctx, requestID)
		c.Response.Header.Set(common.RequestIDHeader, requestID)

		c.Next(ctx)

		hlog.CtxInfof(ctx, "[%s] %s %s %d %v request_id=%s",
			c.ClientIP(),
			string(c.Request.Method()),
			string(c.Request.URI().Path()),
			c.Response.StatusCode(),
			time.Since(start),
			requestID,
		)
	}
}

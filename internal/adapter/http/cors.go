package httpadapter

import (
	"context"

	"github.com/cloudwego/hertz/pkg/app"
	"github.com/cloudwego/hertz/pkg/protocol/consts"
)

// Only /ops is mounted behind corsMiddleware. /ops/kpi is polled by
// dashboards served from another origin. /interactions is called
// server-to-server by Discord and /healthz by health checks that never send an
// Origin header, so neither gets CORS headers.
const (
	corsAllowMethods = "GET,OPTIONS"
	corsAllowHeaders = "Content-Type"
	corsMaxAge       = "600"
)

func applyCORSHeaders(ctx *app.RequestContext, origin string) {
	if origin == "" {
		origin = "*"
	}
	ctx.Response.Header.Set("Access-Control-Allow-Origin", origin)
	if origin != "*" {
		ctx.Response.Header.Set("Vary", "Origin")
	}
	ctx.Response.Header.Set("Access-Control-Allow-Methods", corsAllowMethods)
	ctx.Response.Header.Set("Access-Control-Allow-Headers", corsAllowHeaders)
	ctx.Response.Header.Set("Access-Control-Max-Age", corsMaxAge)
}

func corsMiddleware(origin string) app.HandlerFunc {
	return func(c context.Context, ctx *app.RequestContext) {
		applyCORSHeaders(ctx, origin)
		if string(ctx.Method()) == consts.MethodOptions {
			ctx.AbortWithStatus(consts.StatusNoContent)
			return
		}
		ctx.Next(c)
	}
}

package httpadapter

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"

	"easymod/internal/app/auth"

	"github.com/bwmarrin/discordgo"
	"github.com/cloudwego/hertz/pkg/app"
	"github.com/cloudwego/hertz/pkg/app/server"
	"github.com/cloudwego/hertz/pkg/common/adaptor"
	"github.com/cloudwego/hertz/pkg/protocol/consts"
)

type InteractionRouter interface {
	Route(ctx context.Context, i *discordgo.Interaction) *discordgo.InteractionResponse
}

type kpiSnapshotProvider interface {
	SnapshotAny() any
}

type Handler struct {
	VerifyUC auth.VerifyUseCase
	Router   InteractionRouter
	KPI      kpiSnapshotProvider
	Version  string
	Logger   *slog.Logger
	// OpsAllowOrigin is the CORS origin for /ops routes; empty means "*".
	OpsAllowOrigin string
}

func (h Handler) RegisterRoutes(s *server.Hertz) {
	s.POST("/interactions", h.interactions)
	s.GET("/healthz", h.healthz)

	ops := s.Group("/ops", corsMiddleware(h.OpsAllowOrigin))
	ops.GET("/kpi", h.kpi)
	ops.OPTIONS("/kpi", h.kpi)
}

func (h Handler) interactions(c context.Context, ctx *app.RequestContext) {
	req, err := adaptor.GetCompatRequest(&ctx.Request)
	if err != nil {
		writeErrorBody(ctx, consts.StatusBadRequest, "invalid_request", "invalid request")
		return
	}
	if err := h.VerifyUC.VerifyHTTP(req.WithContext(c)); err != nil {
		writeError(ctx, err)
		return
	}

	body := ctx.Request.Body()

	var interaction discordgo.Interaction
	if err := json.Unmarshal(body, &interaction); err != nil {
		writeErrorBody(ctx, consts.StatusBadRequest, "invalid_json", "invalid json")
		return
	}
	if h.Router == nil {
		writeErrorBody(ctx, consts.StatusServiceUnavailable, "not_configured", "interaction router not configured")
		return
	}

	resp := h.Router.Route(c, &interaction)
	if resp == nil {
		h.logger().Error("router returned no response", "interaction", interaction.ID)
		writeErrorBody(ctx, consts.StatusInternalServerError, "internal_error", "internal error")
		return
	}
	ctx.JSON(consts.StatusOK, resp)
}

func (h Handler) healthz(_ context.Context, ctx *app.RequestContext) {
	ctx.JSON(consts.StatusOK, map[string]string{
		"status":  "ok",
		"version": h.Version,
	})
}

func (h Handler) kpi(_ context.Context, ctx *app.RequestContext) {
	if h.KPI == nil {
		writeErrorBody(ctx, consts.StatusNotFound, "not_configured", "kpi provider not configured")
		return
	}
	ctx.JSON(consts.StatusOK, h.KPI.SnapshotAny())
}

func (h Handler) logger() *slog.Logger {
	if h.Logger != nil {
		return h.Logger
	}
	return slog.Default()
}

func writeError(ctx *app.RequestContext, err error) {
	switch {
	case errors.Is(err, auth.ErrInvalidRequest),
		errors.Is(err, auth.ErrInvalidSignature):
		writeErrorBody(ctx, consts.StatusUnauthorized, "invalid_signature", "invalid request signature")
	case errors.Is(err, auth.ErrStaleTimestamp):
		writeErrorBody(ctx, consts.StatusUnauthorized, "stale_timestamp", err.Error())
	default:
		writeErrorBody(ctx, consts.StatusInternalServerError, "internal_error", "internal error")
	}
}

func writeErrorBody(ctx *app.RequestContext, status int, code, message string) {
	ctx.JSON(status, map[string]any{
		"error": map[string]string{
			"code":    code,
			"message": message,
		},
	})
}

package router

import (
	"context"

	"github.com/cloudwego/hertz/pkg/app"
	"github.com/cloudwego/hertz/pkg/app/server"
	"github.com/cloudwego/hertz/pkg/common/utils"
	"github.com/cloudwego/hertz/pkg/protocol/consts"
	"github.com/hertz-contrib/keyauth"

	"github.com/suryarapeti/TalentIQ-HRAgent/internal/api/handler"
	"github.com/suryarapeti/TalentIQ-HRAgent/internal/config"
)

// RegisterRoutes 注册 API 路由
// 配置了 server.api_key 时，业务路由要求请求头 X-API-Key 匹配；
// /health 始终无需鉴权。
func RegisterRoutes(
	h *server.Hertz,
	cfg *config.Config,
	intakeHandler *handler.IntakeHandler,
	scheduleHandler *handler.ScheduleHandler,
	sessionHandler *handler.SessionHandler,
) {
	h.GET("/health", handler.HandleHealth)

	var middlewares []app.HandlerFunc
	if cfg.Server.APIKey != "" {
		apiKey := cfg.Server.APIKey
		middlewares = append(middlewares, keyauth.New(
			keyauth.WithKeyLookUp("header:X-API-Key", ""),
			keyauth.WithValidator(func(ctx context.Context, c *app.RequestContext, key string) (bool, error) {
				return key == apiKey, nil
			}),
			keyauth.WithErrorHandler(func(ctx context.Context, c *app.RequestContext, err error) {
				c.JSON(consts.StatusUnauthorized, utils.H{"success": false, "error": "无效或缺失的API Key"})
				c.Abort()
			}),
		))
	}

	api := h.Group("/", middlewares...)

	api.POST("/upload-resumes/", intakeHandler.HandleUploadResumes)
	api.POST("/schedule-interview/:session_id", scheduleHandler.HandleScheduleInterview)

	api.GET("/sessions/:session_id/results", sessionHandler.HandleGetResults)
	api.POST("/sessions/:session_id/shortlist", sessionHandler.HandleAddToShortlist)
	api.DELETE("/sessions/:session_id/shortlist/:candidate_name", sessionHandler.HandleRemoveFromShortlist)
}

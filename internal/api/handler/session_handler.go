package handler

import (
	"context"
	"strings"

	"github.com/cloudwego/hertz/pkg/app"
	"github.com/cloudwego/hertz/pkg/protocol/consts"

	"github.com/suryarapeti/TalentIQ-HRAgent/internal/storage"
	"github.com/suryarapeti/TalentIQ-HRAgent/internal/types"
)

// SessionHandler 筛选会话查询与候选名单管理
type SessionHandler struct {
	sessions storage.SessionStore
}

// NewSessionHandler 创建会话处理器
func NewSessionHandler(sessions storage.SessionStore) *SessionHandler {
	return &SessionHandler{sessions: sessions}
}

// HandleGetResults 处理 GET /sessions/:session_id/results
func (h *SessionHandler) HandleGetResults(c context.Context, ctx *app.RequestContext) {
	session, err := h.sessions.Get(c, ctx.Param("session_id"))
	if err != nil {
		ctx.JSON(statusFromError(err), types.ErrorResponse{Error: err.Error()})
		return
	}

	results := session.Results
	if results == nil {
		results = []types.CandidateRecord{}
	}
	shortlist := session.Shortlist
	if shortlist == nil {
		shortlist = []string{}
	}

	ctx.JSON(consts.StatusOK, types.SessionResultsResponse{
		Success:         true,
		SessionID:       session.ID,
		Results:         results,
		Shortlist:       shortlist,
		TotalCandidates: len(results),
		CreatedAt:       session.CreatedAt,
	})
}

// HandleAddToShortlist 处理 POST /sessions/:session_id/shortlist
// 表单字段: candidate_name
func (h *SessionHandler) HandleAddToShortlist(c context.Context, ctx *app.RequestContext) {
	sessionID := ctx.Param("session_id")
	name := strings.TrimSpace(ctx.PostForm("candidate_name"))
	if name == "" {
		ctx.JSON(consts.StatusBadRequest, types.ErrorResponse{Error: "candidate_name 不能为空"})
		return
	}

	if err := h.sessions.AddToShortlist(c, sessionID, name); err != nil {
		ctx.JSON(statusFromError(err), types.ErrorResponse{Error: err.Error()})
		return
	}
	ctx.JSON(consts.StatusOK, map[string]interface{}{
		"success":        true,
		"session_id":     sessionID,
		"candidate_name": name,
	})
}

// HandleRemoveFromShortlist 处理 DELETE /sessions/:session_id/shortlist/:candidate_name
func (h *SessionHandler) HandleRemoveFromShortlist(c context.Context, ctx *app.RequestContext) {
	sessionID := ctx.Param("session_id")
	name := ctx.Param("candidate_name")

	if err := h.sessions.RemoveFromShortlist(c, sessionID, name); err != nil {
		ctx.JSON(statusFromError(err), types.ErrorResponse{Error: err.Error()})
		return
	}
	ctx.JSON(consts.StatusOK, map[string]interface{}{
		"success":        true,
		"session_id":     sessionID,
		"candidate_name": name,
	})
}

// HandleHealth 处理 GET /health
func HandleHealth(_ context.Context, ctx *app.RequestContext) {
	ctx.JSON(consts.StatusOK, map[string]interface{}{
		"status":  "healthy",
		"service": "talentiq-hragent",
	})
}

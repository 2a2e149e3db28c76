package handler

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/cloudwego/hertz/pkg/app"
	"github.com/cloudwego/hertz/pkg/protocol/consts"

	"github.com/suryarapeti/TalentIQ-HRAgent/internal/constants"
	"github.com/suryarapeti/TalentIQ-HRAgent/internal/logger"
	"github.com/suryarapeti/TalentIQ-HRAgent/internal/scheduler"
	"github.com/suryarapeti/TalentIQ-HRAgent/internal/types"
)

// ScheduleHandler 面试预约入口
type ScheduleHandler struct {
	scheduler *scheduler.InterviewScheduler
}

// NewScheduleHandler 创建面试预约处理器
func NewScheduleHandler(s *scheduler.InterviewScheduler) *ScheduleHandler {
	return &ScheduleHandler{scheduler: s}
}

// HandleScheduleInterview 处理 POST /schedule-interview/:session_id
// 表单字段: candidate_name, interview_date, interview_time, duration(分钟,可选)
func (h *ScheduleHandler) HandleScheduleInterview(c context.Context, ctx *app.RequestContext) {
	req := scheduler.ScheduleRequest{
		SessionID:       ctx.Param("session_id"),
		CandidateName:   ctx.PostForm("candidate_name"),
		InterviewDate:   ctx.PostForm("interview_date"),
		InterviewTime:   ctx.PostForm("interview_time"),
		DurationMinutes: constants.DefaultInterviewDuration,
	}

	if raw := strings.TrimSpace(ctx.PostForm("duration")); raw != "" {
		minutes, err := strconv.Atoi(raw)
		if err != nil {
			ctx.JSON(consts.StatusBadRequest, types.ErrorResponse{Error: "duration 必须为整数分钟"})
			return
		}
		req.DurationMinutes = minutes
	}

	result, err := h.scheduler.ScheduleInterview(c, req)
	if err != nil {
		status := statusFromError(err)
		if status == consts.StatusInternalServerError {
			logger.Error().Err(err).Str("session_id", req.SessionID).Msg("面试预约失败")
		}
		ctx.JSON(status, types.ErrorResponse{Error: err.Error()})
		return
	}

	var candidateEmail *string
	if result.EmailFound {
		candidateEmail = &result.CandidateEmail
	}

	ctx.JSON(consts.StatusOK, types.ScheduleResponse{
		Success:           true,
		Message:           fmt.Sprintf("Interview scheduled successfully for %s", result.CandidateName),
		CalendarLink:      result.CalendarLink,
		Candidate:         result.CandidateName,
		CandidateEmail:    candidateEmail,
		InterviewDatetime: result.InterviewDatetime,
		Duration:          result.DurationMinutes,
		EmailSent:         result.EmailSent,
		EmailMessage:      result.EmailMessage,
	})
}

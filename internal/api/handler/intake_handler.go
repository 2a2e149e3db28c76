package handler

import (
	"context"
	"errors"
	"fmt"

	"github.com/cloudwego/hertz/pkg/app"
	"github.com/cloudwego/hertz/pkg/protocol/consts"

	"github.com/suryarapeti/TalentIQ-HRAgent/internal/logger"
	"github.com/suryarapeti/TalentIQ-HRAgent/internal/processor"
	"github.com/suryarapeti/TalentIQ-HRAgent/internal/storage"
	"github.com/suryarapeti/TalentIQ-HRAgent/internal/types"
)

// IntakeHandler 简历批量上传入口
type IntakeHandler struct {
	pipeline *processor.IntakePipeline
}

// NewIntakeHandler 创建简历上传处理器
func NewIntakeHandler(pipeline *processor.IntakePipeline) *IntakeHandler {
	return &IntakeHandler{pipeline: pipeline}
}

// HandleUploadResumes 处理 POST /upload-resumes/
// multipart表单: job_description(文本) + files(一个或多个PDF附件)
func (h *IntakeHandler) HandleUploadResumes(c context.Context, ctx *app.RequestContext) {
	form, err := ctx.MultipartForm()
	if err != nil {
		ctx.JSON(consts.StatusBadRequest, types.ErrorResponse{Error: "无法解析multipart表单"})
		return
	}

	jobDescription := ""
	if values, ok := form.Value["job_description"]; ok && len(values) > 0 {
		jobDescription = values[0]
	}
	files := form.File["files"]

	result, err := h.pipeline.Intake(c, jobDescription, files)
	if err != nil {
		status := statusFromError(err)
		if status == consts.StatusInternalServerError {
			logger.Error().Err(err).Msg("简历批量处理失败")
		}
		ctx.JSON(status, types.ErrorResponse{Error: err.Error()})
		return
	}

	results := result.Candidates
	if results == nil {
		results = []types.CandidateRecord{}
	}

	ctx.JSON(consts.StatusOK, types.IntakeResponse{
		Success:         true,
		SessionID:       result.SessionID,
		Results:         results,
		TotalCandidates: len(results),
		Message:         fmt.Sprintf("Successfully processed %d resume(s)", result.FilesReceived),
	})
}

// statusFromError 将错误分类映射为HTTP状态码
func statusFromError(err error) int {
	switch {
	case errors.Is(err, processor.ErrInvalidRequest):
		return consts.StatusBadRequest
	case errors.Is(err, storage.ErrSessionNotFound):
		return consts.StatusNotFound
	default:
		return consts.StatusInternalServerError
	}
}

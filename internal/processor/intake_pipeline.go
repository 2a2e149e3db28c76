package processor

import (
	"context"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/suryarapeti/TalentIQ-HRAgent/internal/constants"
	"github.com/suryarapeti/TalentIQ-HRAgent/internal/storage"
	"github.com/suryarapeti/TalentIQ-HRAgent/internal/types"
)

// IntakeResult 一次简历批量处理的结果
type IntakeResult struct {
	SessionID     string
	Candidates    []types.CandidateRecord
	FilesReceived int
}

// IntakePipeline 简历批量处理流水线：校验上传、逐份提取文本并评分、
// 按分数排序后写入会话存储。
// 提取或评分失败的文件被记录日志后静默跳过，不会中断整批处理。
type IntakePipeline struct {
	extractor PDFExtractor
	scorer    CandidateScorer
	sessions  storage.SessionStore
	logger    zerolog.Logger
}

// NewIntakePipeline 创建简历处理流水线
func NewIntakePipeline(extractor PDFExtractor, scorer CandidateScorer, sessions storage.SessionStore, logger zerolog.Logger) *IntakePipeline {
	return &IntakePipeline{
		extractor: extractor,
		scorer:    scorer,
		sessions:  sessions,
		logger:    logger,
	}
}

// Intake 处理一批上传的简历。
// 前置校验在任何I/O之前完成，违反时返回 ErrInvalidRequest；
// 临时文件在成功和失败路径上都会被清理。
func (p *IntakePipeline) Intake(ctx context.Context, jobDescription string, files []*multipart.FileHeader) (*IntakeResult, error) {
	if err := validateIntakeRequest(jobDescription, files); err != nil {
		return nil, err
	}

	tempDir, err := os.MkdirTemp("", "talentiq-intake-*")
	if err != nil {
		return nil, err
	}
	defer func() {
		if err := os.RemoveAll(tempDir); err != nil {
			p.logger.Warn().Err(err).Str("temp_dir", tempDir).Msg("清理临时目录失败")
		}
	}()

	var candidates []types.CandidateRecord
	for _, fileHeader := range files {
		record, ok := p.processOne(ctx, tempDir, fileHeader, jobDescription)
		if ok {
			candidates = append(candidates, *record)
		}
	}

	// 按分数降序的稳定排序，同分保持提取顺序
	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].Score > candidates[j].Score
	})

	session := &types.Session{
		ID:        nextSessionID(),
		Results:   candidates,
		Shortlist: []string{},
		CreatedAt: time.Now(),
	}
	if err := p.sessions.Create(ctx, session); err != nil {
		return nil, err
	}

	p.logger.Info().
		Str("session_id", session.ID).
		Int("files_received", len(files)).
		Int("candidates_scored", len(candidates)).
		Msg("简历批量处理完成")

	return &IntakeResult{
		SessionID:     session.ID,
		Candidates:    candidates,
		FilesReceived: len(files),
	}, nil
}

// processOne 处理单个文件：落盘、提取、评分。
// 任何一步失败都记录日志并返回 ok=false，该文件被静默排除。
func (p *IntakePipeline) processOne(ctx context.Context, tempDir string, fileHeader *multipart.FileHeader, jobDescription string) (*types.CandidateRecord, bool) {
	filename := fileHeader.Filename

	file, err := fileHeader.Open()
	if err != nil {
		p.logger.Error().Err(err).Str("file", filename).Msg("打开上传文件失败")
		return nil, false
	}
	data, err := io.ReadAll(file)
	_ = file.Close()
	if err != nil {
		p.logger.Error().Err(err).Str("file", filename).Msg("读取上传文件失败")
		return nil, false
	}

	// PDF解析走文件路径，文件名用UUID避免上传名中的路径伎俩
	tempPath := filepath.Join(tempDir, uuid.NewString()+constants.ResumeFileExtension)
	if err := os.WriteFile(tempPath, data, 0o600); err != nil {
		p.logger.Error().Err(err).Str("file", filename).Msg("写入临时文件失败")
		return nil, false
	}

	text, err := p.extractor.ExtractFromFile(ctx, tempPath)
	if removeErr := os.Remove(tempPath); removeErr != nil {
		p.logger.Warn().Err(removeErr).Str("file", filename).Msg("删除临时文件失败")
	}
	if err != nil {
		p.logger.Warn().Err(err).Str("file", filename).Msg("PDF文本提取失败，跳过该文件")
		return nil, false
	}
	if text == "" {
		p.logger.Warn().Str("file", filename).Msg("简历无可提取文本，跳过该文件")
		return nil, false
	}

	record, err := p.scorer.Score(ctx, text, jobDescription)
	if err != nil {
		p.logger.Warn().Err(err).Str("file", filename).Msg("LLM评分失败，跳过该文件")
		return nil, false
	}

	p.logger.Debug().
		Str("file", filename).
		Str("candidate", record.Name).
		Float64("score", record.Score).
		Msg("简历评分完成")
	return record, true
}

// validateIntakeRequest 在任何I/O之前校验请求前置条件
func validateIntakeRequest(jobDescription string, files []*multipart.FileHeader) error {
	if strings.TrimSpace(jobDescription) == "" {
		return NewInvalidRequestError("岗位描述不能为空")
	}
	if len(files) == 0 {
		return NewInvalidRequestError("至少需要上传一份简历")
	}
	for _, fileHeader := range files {
		if fileHeader.Filename == "" {
			return NewInvalidRequestError("上传的文件无效")
		}
		if !strings.HasSuffix(strings.ToLower(fileHeader.Filename), constants.ResumeFileExtension) {
			return NewInvalidRequestError("文件 '%s' 不是PDF，仅支持PDF文件", fileHeader.Filename)
		}
		if fileHeader.Size > constants.MaxResumeFileSize {
			return NewInvalidRequestError("文件 '%s' 超过大小限制(10MB)", fileHeader.Filename)
		}
	}
	return nil
}

// 会话ID是时间衍生的单调递增令牌，同毫秒内的并发请求靠递增保证唯一
var (
	sessionIDMu   sync.Mutex
	lastSessionID int64
)

func nextSessionID() string {
	sessionIDMu.Lock()
	defer sessionIDMu.Unlock()
	id := time.Now().UnixMilli()
	if id <= lastSessionID {
		id = lastSessionID + 1
	}
	lastSessionID = id
	return strconv.FormatInt(id, 10)
}

package processor

import (
	"context"

	"github.com/suryarapeti/TalentIQ-HRAgent/internal/types"
)

//
// PDF解析相关接口
//

// PDFExtractor PDF提取器接口
type PDFExtractor interface {
	// ExtractFromFile 从PDF文件提取纯文本
	ExtractFromFile(ctx context.Context, filePath string) (string, error)

	// ExtractTextFromBytes 从字节数组提取纯文本
	ExtractTextFromBytes(ctx context.Context, data []byte, uri string) (string, error)
}

//
// 简历评分相关接口
//

// CandidateScorer 候选人评分接口
type CandidateScorer interface {
	// Score 评估简历与岗位描述的匹配度，返回结构化的候选人记录
	Score(ctx context.Context, resumeText string, jobDescription string) (*types.CandidateRecord, error)
}

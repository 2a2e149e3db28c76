package parser

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"strings"
	"time"

	"github.com/cloudwego/eino/components/model"
	einoschema "github.com/cloudwego/eino/schema"

	"github.com/suryarapeti/TalentIQ-HRAgent/internal/types"
)

// 评分结果必须且只能包含这四个键
var requiredScoreKeys = []string{"name", "email", "score", "summary"}

const scorerSystemMessage = "You are an expert HR analyst that only responds with valid JSON containing exactly the keys: name, email, score, and summary."

const defaultScorerPromptTemplate = `Analyze the following resume based on the provided job description.
Extract the candidate's name and email.
Score the candidate from 0 to 100 on how well they fit the job description.
Provide a brief summary (2-3 sentences) of their qualifications and why they are a good fit.

Return the result as a single, valid JSON object with exactly the keys: "name", "email", "score", and "summary".

Job Description:
---
%s
---

Resume:
---
%s
---

JSON Output:`

// LLMResumeScorer 封装LLM客户端和Prompt逻辑，对单份简历做岗位匹配评分。
// 每份简历只调用一次LLM，不做重试；所有失败都以错误返回，由流水线决定跳过。
type LLMResumeScorer struct {
	llmModel       model.ToolCallingChatModel
	promptTemplate string
	callTimeout    time.Duration
	logger         *log.Logger
}

// ScorerOption 评分器的配置选项
type ScorerOption func(*LLMResumeScorer)

// WithScorerPromptTemplate 设置自定义提示词模板
func WithScorerPromptTemplate(template string) ScorerOption {
	return func(s *LLMResumeScorer) {
		if template != "" {
			s.promptTemplate = template
		}
	}
}

// WithScorerTimeout 设置单次LLM调用的超时，0表示不限制
func WithScorerTimeout(timeout time.Duration) ScorerOption {
	return func(s *LLMResumeScorer) {
		s.callTimeout = timeout
	}
}

// NewLLMResumeScorer 创建一个新的评分器实例
func NewLLMResumeScorer(llmModel model.ToolCallingChatModel, logger *log.Logger, options ...ScorerOption) *LLMResumeScorer {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	scorer := &LLMResumeScorer{
		llmModel:       llmModel,
		promptTemplate: defaultScorerPromptTemplate,
		logger:         logger,
	}

	for _, opt := range options {
		opt(scorer)
	}

	return scorer
}

// Score 评估一份简历与岗位描述的匹配度，返回结构化的候选人记录。
// JSON解析、校验或传输层的任何失败都以错误返回，不会中断整批处理。
func (s *LLMResumeScorer) Score(ctx context.Context, resumeText string, jobDescription string) (*types.CandidateRecord, error) {
	if s.llmModel == nil {
		return nil, fmt.Errorf("LLMResumeScorer: llmModel is not initialized")
	}

	if s.callTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.callTimeout)
		defer cancel()
	}

	userPrompt := fmt.Sprintf(s.promptTemplate, jobDescription, resumeText)
	messages := []*einoschema.Message{
		einoschema.SystemMessage(scorerSystemMessage),
		einoschema.UserMessage(userPrompt),
	}

	s.logger.Printf("[LLMResumeScorer] Job description (first 200 chars): %.200s", jobDescription)
	s.logger.Printf("[LLMResumeScorer] Resume text (first 200 chars): %.200s", resumeText)

	response, err := s.llmModel.Generate(ctx, messages)
	if err != nil {
		return nil, fmt.Errorf("LLMResumeScorer: LLM call failed: %w", err)
	}
	if response == nil || response.Content == "" {
		return nil, fmt.Errorf("LLMResumeScorer: LLM returned empty response")
	}

	jsonStr := extractJSONObject(response.Content)
	if jsonStr == "" {
		return nil, fmt.Errorf("LLMResumeScorer: no JSON object found in LLM response: %.200s", response.Content)
	}

	var raw map[string]json.RawMessage
	if err := json.Unmarshal([]byte(jsonStr), &raw); err != nil {
		return nil, fmt.Errorf("LLMResumeScorer: failed to unmarshal LLM JSON response: %w. JSON string: %s", err, jsonStr)
	}

	record, err := validateScoreResult(raw)
	if err != nil {
		return nil, fmt.Errorf("LLMResumeScorer: invalid score result: %w", err)
	}

	return record, nil
}

// validateScoreResult 校验解析后的对象：键集合必须恰好等于
// {name, email, score, summary}，score为[0,100]内的数值，其余三项为字符串。
func validateScoreResult(raw map[string]json.RawMessage) (*types.CandidateRecord, error) {
	if len(raw) != len(requiredScoreKeys) {
		return nil, fmt.Errorf("key set mismatch: got %d keys, expected %d", len(raw), len(requiredScoreKeys))
	}
	for _, key := range requiredScoreKeys {
		if _, ok := raw[key]; !ok {
			return nil, fmt.Errorf("missing required key %q", key)
		}
	}

	var score float64
	if err := json.Unmarshal(raw["score"], &score); err != nil {
		return nil, fmt.Errorf("score is not numeric: %w", err)
	}
	if score < 0 || score > 100 {
		return nil, fmt.Errorf("score must be between 0 and 100, got %v", score)
	}

	record := &types.CandidateRecord{Score: score}
	for key, dst := range map[string]*string{
		"name":    &record.Name,
		"email":   &record.Email,
		"summary": &record.Summary,
	} {
		if err := json.Unmarshal(raw[key], dst); err != nil {
			return nil, fmt.Errorf("%s is not a string: %w", key, err)
		}
	}

	return record, nil
}

// extractJSONObject 取第一个 '{' 和最后一个 '}' 之间的子串，
// 容忍模型在JSON前后输出的多余说明文字。
func extractJSONObject(text string) string {
	text = strings.TrimPrefix(text, "\uFEFF")
	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start == -1 || end == -1 || end < start {
		return ""
	}
	return text[start : end+1]
}

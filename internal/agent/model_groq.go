package agent

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
)

const (
	// Groq 的 OpenAI 兼容聊天接口
	defaultGroqAPIURL    = "https://api.groq.com/openai/v1/chat/completions"
	defaultGroqModelName = "llama3-8b-8192"
)

// GroqChatModel 通过 Groq 的 OpenAI 兼容接口实现 model.ToolCallingChatModel，
// 供简历评分器作为依赖注入使用。
type GroqChatModel struct {
	apiKey      string
	modelName   string
	apiURL      string
	temperature float64
	httpClient  *http.Client
}

// GroqOption GroqChatModel 的配置选项
type GroqOption func(*GroqChatModel)

// WithTemperature 设置采样温度，评分任务倾向低温度以保证确定性
func WithTemperature(temperature float64) GroqOption {
	return func(m *GroqChatModel) {
		m.temperature = temperature
	}
}

// WithHTTPTimeout 设置单次请求的超时
func WithHTTPTimeout(timeout time.Duration) GroqOption {
	return func(m *GroqChatModel) {
		m.httpClient.Timeout = timeout
	}
}

// NewGroqChatModel 创建一个新的 GroqChatModel 实例
func NewGroqChatModel(apiKey string, modelName string, apiURL string, options ...GroqOption) (*GroqChatModel, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, fmt.Errorf("API 密钥不能为空")
	}

	mn := modelName
	if strings.TrimSpace(mn) == "" {
		mn = defaultGroqModelName
	}

	url := apiURL
	if strings.TrimSpace(url) == "" {
		url = defaultGroqAPIURL
	}

	m := &GroqChatModel{
		apiKey:      apiKey,
		modelName:   mn,
		apiURL:      url,
		temperature: 0.2,
		httpClient:  &http.Client{},
	}

	for _, option := range options {
		option(m)
	}

	return m, nil
}

// --- OpenAI 兼容的请求/响应结构 ---

type openAIChatCompletionRequest struct {
	Model       string            `json:"model"`
	Messages    []*schema.Message `json:"messages"` // eino schema.Message 的 role/content 字段即兼容
	Temperature float64           `json:"temperature"`
}

type openAIMessage struct {
	Role    string  `json:"role"`
	Content *string `json:"content"`
}

type openAIChatChoice struct {
	Index        int           `json:"index"`
	Message      openAIMessage `json:"message"`
	FinishReason string        `json:"finish_reason"`
}

type openAICompletionResponse struct {
	Id      string             `json:"id"`
	Object  string             `json:"object"`
	Created int64              `json:"created"`
	Model   string             `json:"model"`
	Choices []openAIChatChoice `json:"choices"`
}

// Generate 实现 model.BaseChatModel 接口
func (m *GroqChatModel) Generate(ctx context.Context, messages []*schema.Message, options ...model.Option) (*schema.Message, error) {
	for _, opt := range options {
		_ = opt // 评分调用不依赖额外选项
	}

	reqPayload := openAIChatCompletionRequest{
		Model:       m.modelName,
		Messages:    messages,
		Temperature: m.temperature,
	}

	jsonData, err := json.Marshal(reqPayload)
	if err != nil {
		return nil, fmt.Errorf("序列化请求体失败: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, m.apiURL, bytes.NewBuffer(jsonData))
	if err != nil {
		return nil, fmt.Errorf("创建 HTTP 请求失败: %w", err)
	}
	httpReq.Header.Set("Authorization", "Bearer "+m.apiKey)
	httpReq.Header.Set("Content-Type", "application/json")

	httpResp, err := m.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("发送 HTTP 请求失败: %w", err)
	}
	defer httpResp.Body.Close()

	bodyBytes, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return nil, fmt.Errorf("读取响应体失败: %w", err)
	}

	if httpResp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("API 请求失败，状态 %s: %s", httpResp.Status, string(bodyBytes))
	}

	var openAIResp openAICompletionResponse
	if err := json.Unmarshal(bodyBytes, &openAIResp); err != nil {
		return nil, fmt.Errorf("反序列化 API 响应失败: %w。响应体: %s", err, string(bodyBytes))
	}

	if len(openAIResp.Choices) == 0 {
		return nil, fmt.Errorf("从 API 收到空选项: %s", string(bodyBytes))
	}

	apiMessage := openAIResp.Choices[0].Message
	responseContent := ""
	if apiMessage.Content != nil {
		responseContent = *apiMessage.Content
	}

	resultMessage := &schema.Message{
		Role:    schema.RoleType(apiMessage.Role),
		Content: responseContent,
	}
	if resultMessage.Role == "" {
		resultMessage.Role = schema.RoleType("assistant")
	}

	return resultMessage, nil
}

// Stream 实现 model.BaseChatModel 接口 (评分流程不需要流式输出)
func (m *GroqChatModel) Stream(ctx context.Context, messages []*schema.Message, options ...model.Option) (*schema.StreamReader[*schema.Message], error) {
	return nil, fmt.Errorf("GroqChatModel 的 Stream 方法未实现")
}

// WithTools 满足 model.ToolCallingChatModel 接口；评分流程不绑定工具
func (m *GroqChatModel) WithTools(tools []*schema.ToolInfo) (model.ToolCallingChatModel, error) {
	if len(tools) > 0 {
		return nil, fmt.Errorf("GroqChatModel 不支持工具调用")
	}
	return m, nil
}

var _ model.ToolCallingChatModel = (*GroqChatModel)(nil)

package service

import (
	"bytes"
	"context"
	"coursehub_backend/internal/config"
	"coursehub_backend/internal/util"
	"coursehub_backend/pkg/logger"
	"coursehub_backend/pkg/monitoring"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"
)

const (
	AIConfigHint = "Please configure your Gemini API key (GEMINI_API_KEY) to enable the assistant."
	AIApology    = "I'm having trouble connecting to my brain right now. Please try again later."

	geminiKeyHeader = "x-goog-api-key"
)

// AIService 转发对话到 Gemini generateContent，按配置顺序轮换模型
type AIService struct {
	mu     sync.RWMutex
	config config.AIConfig
	client *http.Client
}

func NewAIService(cfg config.AIConfig) *AIService {
	s := &AIService{}
	s.UpdateConfig(cfg)
	return s
}

// UpdateConfig 配置热加载时调用
func (s *AIService) UpdateConfig(cfg config.AIConfig) {
	timeout := time.Duration(cfg.TimeoutSeconds) * time.Second
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.config = cfg
	s.client = &http.Client{Timeout: timeout}
}

func (s *AIService) snapshot() (config.AIConfig, *http.Client) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.config, s.client
}

type ChatReply struct {
	Reply string `json:"reply"`
	Model string `json:"model,omitempty"`
}

type geminiPart struct {
	Text string `json:"text"`
}

type geminiContent struct {
	Parts []geminiPart `json:"parts"`
}

type geminiRequest struct {
	Contents []geminiContent `json:"contents"`
}

type geminiResponse struct {
	Candidates []struct {
		Content geminiContent `json:"content"`
	} `json:"candidates"`
}

// Chat 上游全部失败时返回致歉文案而不是错误
func (s *AIService) Chat(ctx context.Context, message string) (*ChatReply, error) {
	if isBlank(message) {
		return nil, util.Validationf("message is required")
	}

	cfg, client := s.snapshot()
	apiKey := strings.TrimSpace(cfg.APIKey)
	if apiKey == "" {
		return &ChatReply{Reply: AIConfigHint}, nil
	}

	body, err := json.Marshal(geminiRequest{
		Contents: []geminiContent{{Parts: []geminiPart{{Text: message}}}},
	})
	if err != nil {
		return nil, err
	}

	var lastErr error
	for _, model := range cfg.Models {
		text, err := s.generate(ctx, client, cfg.BaseURL, model, apiKey, body)
		if err != nil {
			monitoring.AIRequests.WithLabelValues(model, "error").Inc()
			logger.Log.Warn("AI model failed", zap.String("model", model), zap.Error(err))
			lastErr = err
			continue
		}
		monitoring.AIRequests.WithLabelValues(model, "ok").Inc()
		return &ChatReply{Reply: text, Model: model}, nil
	}

	logger.Log.Error("All AI models failed", zap.Strings("models", cfg.Models), zap.Error(lastErr))
	return &ChatReply{Reply: AIApology}, nil
}

func (s *AIService) generate(ctx context.Context, client *http.Client, baseURL, model, apiKey string, body []byte) (string, error) {
	// 密钥只放在请求头，URL 会出现在 *url.Error 和日志里
	endpoint := fmt.Sprintf("%s/models/%s:generateContent",
		strings.TrimRight(baseURL, "/"), url.PathEscape(model))

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(geminiKeyHeader, apiKey)

	resp, err := client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return "", err
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("AI API error (status %d): %s", resp.StatusCode, string(raw))
	}

	var out geminiResponse
	if err := json.Unmarshal(raw, &out); err != nil {
		return "", err
	}
	if len(out.Candidates) == 0 || len(out.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("AI API returned no candidates")
	}
	return out.Candidates[0].Content.Parts[0].Text, nil
}

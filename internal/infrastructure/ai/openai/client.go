// Package openai provides a chat-completion client for OpenAI and any
// OpenAI-compatible endpoint such as a local Ollama
package openai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/alchemorsel/personalization/internal/infrastructure/config"
	"github.com/alchemorsel/personalization/internal/ports/outbound"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.uber.org/zap"
)

const (
	defaultOpenAIURL   = "https://api.openai.com/v1"
	defaultOllamaURL   = "http://localhost:11434/v1"
	defaultOllamaModel = "llama3.2:3b"

	// maxErrorBody bounds how much of a failed response is logged
	maxErrorBody = 512
)

// Client implements outbound.CompletionClient
type Client struct {
	apiKey  string
	baseURL string
	model   string
	local   bool
	client  *http.Client
	logger  *zap.Logger
}

var _ outbound.CompletionClient = (*Client)(nil)

// NewClient creates a chat-completion client from configuration
func NewClient(cfg config.AIConfig, logger *zap.Logger) *Client {
	logger = logger.Named("openai")

	c := &Client{
		apiKey:  cfg.APIKey,
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		model:   cfg.Model,
		local:   cfg.Provider == "ollama",
		client: &http.Client{
			// The per-call context carries the real deadline
			Timeout:   cfg.Timeout() + 5*time.Second,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
		logger: logger,
	}

	if c.local {
		if c.baseURL == "" {
			c.baseURL = defaultOllamaURL
		}
		if c.model == "" {
			c.model = defaultOllamaModel
		}
		logger.Info("Completion client using local Ollama",
			zap.String("base_url", c.baseURL),
			zap.String("model", c.model),
		)
		return c
	}

	if c.baseURL == "" {
		c.baseURL = defaultOpenAIURL
	}
	if c.apiKey == "" {
		logger.Info("OpenAI API key not set, model reranking is unavailable")
	} else {
		logger.Info("OpenAI client initialized", zap.String("model", c.model))
	}
	return c
}

// OpenAI API structures
type chatCompletionRequest struct {
	Model          string          `json:"model"`
	Messages       []message       `json:"messages"`
	Temperature    float64         `json:"temperature"`
	MaxTokens      int             `json:"max_tokens,omitempty"`
	ResponseFormat *responseFormat `json:"response_format,omitempty"`
}

type responseFormat struct {
	Type string `json:"type"`
}

type message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatCompletionResponse struct {
	Choices []choice `json:"choices"`
	Usage   usage    `json:"usage"`
}

type choice struct {
	Message      message `json:"message"`
	FinishReason string  `json:"finish_reason"`
}

type usage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

// Configured reports whether the client can reach a model. A local Ollama
// needs no key.
func (c *Client) Configured() bool {
	if c.model == "" || c.baseURL == "" {
		return false
	}
	return c.local || c.apiKey != ""
}

// Complete sends one chat completion and returns the first choice's content
func (c *Client) Complete(ctx context.Context, req outbound.CompletionRequest) (string, error) {
	body := chatCompletionRequest{
		Model: c.model,
		Messages: []message{
			{Role: "system", Content: req.SystemPrompt},
			{Role: "user", Content: req.UserPrompt},
		},
		Temperature: req.Temperature,
		MaxTokens:   req.MaxTokens,
	}
	if req.JSONMode {
		body.ResponseFormat = &responseFormat{Type: "json_object"}
	}

	jsonBody, err := json.Marshal(body)
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/chat/completions", bytes.NewReader(jsonBody))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	started := time.Now()
	resp, err := c.client.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("API request failed: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		snippet := string(raw)
		if len(snippet) > maxErrorBody {
			snippet = snippet[:maxErrorBody]
		}
		c.logger.Warn("Completion API returned an error",
			zap.Int("status", resp.StatusCode),
			zap.String("body", snippet),
		)
		return "", fmt.Errorf("API error %d", resp.StatusCode)
	}

	var chatResp chatCompletionResponse
	if err := json.Unmarshal(raw, &chatResp); err != nil {
		return "", fmt.Errorf("failed to unmarshal response: %w", err)
	}
	if len(chatResp.Choices) == 0 {
		return "", fmt.Errorf("no response choices returned")
	}

	c.logger.Debug("Completion call successful",
		zap.Duration("duration", time.Since(started)),
		zap.Int("prompt_tokens", chatResp.Usage.PromptTokens),
		zap.Int("completion_tokens", chatResp.Usage.CompletionTokens),
		zap.Int("total_tokens", chatResp.Usage.TotalTokens),
	)

	return chatResp.Choices[0].Message.Content, nil
}

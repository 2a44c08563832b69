package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"aura/internal/errs"
	"aura/internal/logging"
)

// OpenAIConfig configures an OpenAIClient.
type OpenAIConfig struct {
	APIKey  string
	BaseURL string
	Model   string
	Timeout time.Duration
}

// DefaultOpenAIConfig returns sensible defaults for the OpenAI chat completions API.
func DefaultOpenAIConfig(apiKey string) OpenAIConfig {
	return OpenAIConfig{
		APIKey:  apiKey,
		BaseURL: "https://api.openai.com/v1",
		Model:   "gpt-4o-mini",
		Timeout: 60 * time.Second,
	}
}

// OpenAIClient implements Client against the OpenAI chat completions API.
type OpenAIClient struct {
	cfg     OpenAIConfig
	http    *http.Client
	limiter *rateLimiter
}

// NewOpenAIClient creates a client using DefaultOpenAIConfig(apiKey).
func NewOpenAIClient(apiKey string) *OpenAIClient {
	return NewOpenAIClientWithConfig(DefaultOpenAIConfig(apiKey))
}

// NewOpenAIClientWithConfig creates a client with an explicit configuration.
func NewOpenAIClientWithConfig(cfg OpenAIConfig) *OpenAIClient {
	return &OpenAIClient{
		cfg:     cfg,
		http:    &http.Client{Timeout: cfg.Timeout},
		limiter: &rateLimiter{minDelta: 100 * time.Millisecond},
	}
}

type openAIMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type openAIRequest struct {
	Model       string          `json:"model"`
	Messages    []openAIMessage `json:"messages"`
	MaxTokens   int             `json:"max_tokens,omitempty"`
	Temperature float64         `json:"temperature,omitempty"`
}

type openAIResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Usage struct {
		PromptTokens     int `json:"prompt_tokens"`
		CompletionTokens int `json:"completion_tokens"`
	} `json:"usage"`
	Error *struct {
		Message string `json:"message"`
		Type    string `json:"type"`
	} `json:"error,omitempty"`
}

// Complete sends prompt with no system message.
func (c *OpenAIClient) Complete(ctx context.Context, prompt string) (string, error) {
	return c.CompleteWithSystem(ctx, "", prompt)
}

// CompleteWithSystem sends a single-turn chat completion request.
func (c *OpenAIClient) CompleteWithSystem(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	if c.cfg.APIKey == "" {
		return "", errs.New(errs.NoCredentials, "openai: no API key configured")
	}
	c.limiter.wait()

	if strings.TrimSpace(systemPrompt) == "" {
		systemPrompt = "You are AURA, a concise local assistant."
	}

	req := openAIRequest{
		Model: c.cfg.Model,
		Messages: []openAIMessage{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: userPrompt},
		},
		MaxTokens:   2048,
		Temperature: 0.2,
	}
	body, err := json.Marshal(req)
	if err != nil {
		return "", errs.Wrap(errs.Internal, "openai: could not marshal request", err)
	}

	headers := map[string]string{
		"Content-Type":  "application/json",
		"Authorization": "Bearer " + c.cfg.APIKey,
	}
	respBody, status, err := doWithRetry(ctx, c.http, c.cfg.BaseURL+"/chat/completions", headers, body, 2)
	if err != nil {
		return "", err
	}

	var parsed openAIResponse
	if jsonErr := json.Unmarshal(respBody, &parsed); jsonErr != nil {
		return "", errs.Wrap(errs.LlmBadResponse, "openai: could not parse response", jsonErr)
	}
	if parsed.Error != nil {
		return "", classifyOpenAIError(status, parsed.Error.Message)
	}
	if len(parsed.Choices) == 0 {
		return "", errs.New(errs.LlmBadResponse, "openai: empty response")
	}

	logging.LLM("openai completion: prompt_tokens=%d completion_tokens=%d", parsed.Usage.PromptTokens, parsed.Usage.CompletionTokens)
	return parsed.Choices[0].Message.Content, nil
}

func classifyOpenAIError(status int, msg string) error {
	switch {
	case status == http.StatusUnauthorized:
		return errs.New(errs.LlmAuth, "openai: "+msg)
	case status == http.StatusTooManyRequests:
		return errs.New(errs.LlmRateLimit, "openai: "+msg)
	default:
		return errs.New(errs.LlmBadResponse, "openai: "+msg)
	}
}

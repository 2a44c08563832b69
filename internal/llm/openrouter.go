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

// OpenRouterConfig configures an OpenRouterClient.
type OpenRouterConfig struct {
	APIKey   string
	BaseURL  string
	Model    string
	Timeout  time.Duration
	SiteURL  string
	SiteName string
}

// DefaultOpenRouterConfig returns sensible defaults for the OpenRouter API,
// an OpenAI-compatible surface across many upstream providers.
func DefaultOpenRouterConfig(apiKey string) OpenRouterConfig {
	return OpenRouterConfig{
		APIKey:   apiKey,
		BaseURL:  "https://openrouter.ai/api/v1",
		Model:    "openai/gpt-4o-mini",
		Timeout:  60 * time.Second,
		SiteName: "AURA",
	}
}

// OpenRouterClient implements Client against the OpenRouter API.
type OpenRouterClient struct {
	cfg     OpenRouterConfig
	http    *http.Client
	limiter *rateLimiter
}

// NewOpenRouterClient creates a client using DefaultOpenRouterConfig(apiKey).
func NewOpenRouterClient(apiKey string) *OpenRouterClient {
	return NewOpenRouterClientWithConfig(DefaultOpenRouterConfig(apiKey))
}

// NewOpenRouterClientWithConfig creates a client with an explicit configuration.
func NewOpenRouterClientWithConfig(cfg OpenRouterConfig) *OpenRouterClient {
	return &OpenRouterClient{
		cfg:     cfg,
		http:    &http.Client{Timeout: cfg.Timeout},
		limiter: &rateLimiter{minDelta: 100 * time.Millisecond},
	}
}

// Complete sends prompt with no system message.
func (c *OpenRouterClient) Complete(ctx context.Context, prompt string) (string, error) {
	return c.CompleteWithSystem(ctx, "", prompt)
}

// CompleteWithSystem sends a single-turn chat completion request, reusing
// OpenAI's wire shape since OpenRouter is OpenAI-compatible.
func (c *OpenRouterClient) CompleteWithSystem(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	if c.cfg.APIKey == "" {
		return "", errs.New(errs.NoCredentials, "openrouter: no API key configured")
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
		return "", errs.Wrap(errs.Internal, "openrouter: could not marshal request", err)
	}

	headers := map[string]string{
		"Content-Type":  "application/json",
		"Authorization": "Bearer " + c.cfg.APIKey,
	}
	if c.cfg.SiteURL != "" {
		headers["HTTP-Referer"] = c.cfg.SiteURL
	}
	if c.cfg.SiteName != "" {
		headers["X-Title"] = c.cfg.SiteName
	}

	respBody, status, err := doWithRetry(ctx, c.http, c.cfg.BaseURL+"/chat/completions", headers, body, 2)
	if err != nil {
		return "", err
	}

	var parsed openAIResponse
	if jsonErr := json.Unmarshal(respBody, &parsed); jsonErr != nil {
		return "", errs.Wrap(errs.LlmBadResponse, "openrouter: could not parse response", jsonErr)
	}
	if parsed.Error != nil {
		return "", classifyOpenRouterError(status, parsed.Error.Message)
	}
	if len(parsed.Choices) == 0 {
		return "", errs.New(errs.LlmBadResponse, "openrouter: empty response")
	}

	logging.LLM("openrouter completion: prompt_tokens=%d completion_tokens=%d", parsed.Usage.PromptTokens, parsed.Usage.CompletionTokens)
	return parsed.Choices[0].Message.Content, nil
}

func classifyOpenRouterError(status int, msg string) error {
	switch {
	case status == http.StatusUnauthorized:
		return errs.New(errs.LlmAuth, "openrouter: "+msg)
	case status == http.StatusTooManyRequests:
		return errs.New(errs.LlmRateLimit, "openrouter: "+msg)
	default:
		return errs.New(errs.LlmBadResponse, "openrouter: "+msg)
	}
}

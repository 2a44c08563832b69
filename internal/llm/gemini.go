package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"aura/internal/errs"
	"aura/internal/logging"
)

// GeminiConfig configures a GeminiClient.
type GeminiConfig struct {
	APIKey          string
	BaseURL         string
	Model           string
	Timeout         time.Duration
	MaxOutputTokens int
}

// DefaultGeminiConfig returns sensible defaults for the Gemini REST API.
func DefaultGeminiConfig(apiKey string) GeminiConfig {
	return GeminiConfig{
		APIKey:          apiKey,
		BaseURL:         "https://generativelanguage.googleapis.com/v1beta",
		Model:           "gemini-2.0-flash",
		Timeout:         60 * time.Second,
		MaxOutputTokens: 4096,
	}
}

// GeminiClient implements Client against the Gemini REST API.
type GeminiClient struct {
	cfg     GeminiConfig
	http    *http.Client
	limiter *rateLimiter
}

// NewGeminiClient creates a client using DefaultGeminiConfig(apiKey).
func NewGeminiClient(apiKey string) *GeminiClient {
	return NewGeminiClientWithConfig(DefaultGeminiConfig(apiKey))
}

// NewGeminiClientWithConfig creates a client with an explicit configuration.
func NewGeminiClientWithConfig(cfg GeminiConfig) *GeminiClient {
	return &GeminiClient{
		cfg:     cfg,
		http:    &http.Client{Timeout: cfg.Timeout},
		limiter: &rateLimiter{minDelta: 100 * time.Millisecond},
	}
}

type geminiContent struct {
	Role  string       `json:"role,omitempty"`
	Parts []geminiPart `json:"parts"`
}

type geminiPart struct {
	Text string `json:"text,omitempty"`
}

type geminiRequest struct {
	Contents          []geminiContent  `json:"contents"`
	SystemInstruction *geminiContent   `json:"systemInstruction,omitempty"`
	GenerationConfig  geminiGenConfig  `json:"generationConfig,omitempty"`
}

type geminiGenConfig struct {
	Temperature     float64 `json:"temperature,omitempty"`
	MaxOutputTokens int     `json:"maxOutputTokens,omitempty"`
}

type geminiResponse struct {
	Candidates []struct {
		Content struct {
			Parts []geminiPart `json:"parts"`
		} `json:"content"`
		FinishReason string `json:"finishReason"`
	} `json:"candidates"`
	UsageMetadata struct {
		PromptTokenCount     int `json:"promptTokenCount"`
		CandidatesTokenCount int `json:"candidatesTokenCount"`
		TotalTokenCount      int `json:"totalTokenCount"`
	} `json:"usageMetadata"`
	Error *struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

// Complete sends prompt with no system instruction.
func (c *GeminiClient) Complete(ctx context.Context, prompt string) (string, error) {
	return c.CompleteWithSystem(ctx, "", prompt)
}

// CompleteWithSystem sends a single-turn request to Gemini's generateContent endpoint.
func (c *GeminiClient) CompleteWithSystem(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	if c.cfg.APIKey == "" {
		return "", errs.New(errs.NoCredentials, "gemini: no API key configured")
	}
	c.limiter.wait()

	req := geminiRequest{
		Contents: []geminiContent{{Role: "user", Parts: []geminiPart{{Text: userPrompt}}}},
		GenerationConfig: geminiGenConfig{
			Temperature:     0.2,
			MaxOutputTokens: c.cfg.MaxOutputTokens,
		},
	}
	if strings.TrimSpace(systemPrompt) != "" {
		req.SystemInstruction = &geminiContent{Parts: []geminiPart{{Text: systemPrompt}}}
	}

	body, err := json.Marshal(req)
	if err != nil {
		return "", errs.Wrap(errs.Internal, "gemini: could not marshal request", err)
	}

	url := fmt.Sprintf("%s/models/%s:generateContent?key=%s", c.cfg.BaseURL, c.cfg.Model, c.cfg.APIKey)
	respBody, status, err := doWithRetry(ctx, c.http, url, map[string]string{"Content-Type": "application/json"}, body, 2)
	if err != nil {
		return "", err
	}

	var parsed geminiResponse
	if jsonErr := json.Unmarshal(respBody, &parsed); jsonErr != nil {
		return "", errs.Wrap(errs.LlmBadResponse, "gemini: could not parse response", jsonErr)
	}
	if parsed.Error != nil {
		return "", classifyGeminiError(status, parsed.Error.Message)
	}
	if len(parsed.Candidates) == 0 || len(parsed.Candidates[0].Content.Parts) == 0 {
		return "", errs.New(errs.LlmBadResponse, "gemini: empty response")
	}

	logging.LLM("gemini completion: prompt_tokens=%d completion_tokens=%d", parsed.UsageMetadata.PromptTokenCount, parsed.UsageMetadata.CandidatesTokenCount)
	return parsed.Candidates[0].Content.Parts[0].Text, nil
}

func classifyGeminiError(status int, msg string) error {
	switch {
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		return errs.New(errs.LlmAuth, "gemini: "+msg)
	case status == http.StatusTooManyRequests:
		return errs.New(errs.LlmRateLimit, "gemini: "+msg)
	default:
		return errs.New(errs.LlmBadResponse, "gemini: "+msg)
	}
}

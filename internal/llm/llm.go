// Package llm is the LLM Client Adapter: a shared request/response contract
// used by the Code-Gen Fallback (Layer 1.5) and the Planner (Layer 2), and
// three concrete clients for the in-scope providers named in §1 of
// SPEC_FULL.md (Gemini, OpenAI, OpenRouter). Each client follows the same
// shape the teacher's per-provider clients use: a Config struct, a
// Default*Config(apiKey) constructor, a New*Client/New*ClientWithConfig
// pair, a mutex-guarded minimum-request-interval rate limiter, and an
// exponential-backoff retry loop on HTTP 429.
package llm

import (
	"context"

	"aura/internal/config"
	"aura/internal/errs"
)

// Client defines the interface every provider implements.
type Client interface {
	Complete(ctx context.Context, prompt string) (string, error)
	CompleteWithSystem(ctx context.Context, systemPrompt, userPrompt string) (string, error)
}

// NewClientFromEnv builds a Client for the provider named by cfg, using the
// env-override chain already applied by config.Load. An explicit
// UserConfig override (model/provider/key) takes precedence when supplied.
func NewClientFromEnv(cfg *config.Config, user *config.UserConfig) (Client, error) {
	provider, apiKey := cfg.LLM.Provider, cfg.LLM.APIKey
	if user != nil {
		provider, apiKey = user.GetActiveProvider(cfg)
	}
	if apiKey == "" {
		return nil, errs.New(errs.NoCredentials, "no API key configured for provider "+string(provider))
	}

	model := cfg.LLM.Model
	if user != nil && user.Model != "" {
		model = user.Model
	}

	switch provider {
	case config.ProviderGemini:
		gc := DefaultGeminiConfig(apiKey)
		if model != "" {
			gc.Model = model
		}
		return NewGeminiClientWithConfig(gc), nil
	case config.ProviderOpenAI:
		oc := DefaultOpenAIConfig(apiKey)
		if model != "" {
			oc.Model = model
		}
		return NewOpenAIClientWithConfig(oc), nil
	case config.ProviderOpenRouter:
		rc := DefaultOpenRouterConfig(apiKey)
		if model != "" {
			rc.Model = model
		}
		return NewOpenRouterClientWithConfig(rc), nil
	default:
		return nil, errs.New(errs.Unsupported, "unknown LLM provider: "+string(provider))
	}
}

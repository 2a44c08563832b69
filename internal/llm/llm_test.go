package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"aura/internal/config"
	"aura/internal/errs"
)

func TestNewClientFromEnv_NoCredentials(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.LLM.APIKey = ""
	_, err := NewClientFromEnv(cfg, &config.UserConfig{})
	require.Error(t, err)
	require.Equal(t, errs.NoCredentials, errs.KindOf(err))
}

func TestNewClientFromEnv_Providers(t *testing.T) {
	cases := []struct {
		provider config.Provider
		want     any
	}{
		{config.ProviderGemini, &GeminiClient{}},
		{config.ProviderOpenAI, &OpenAIClient{}},
		{config.ProviderOpenRouter, &OpenRouterClient{}},
	}
	for _, tc := range cases {
		cfg := config.DefaultConfig()
		cfg.LLM.Provider = tc.provider
		cfg.LLM.APIKey = "test-key"

		client, err := NewClientFromEnv(cfg, nil)
		require.NoError(t, err)
		require.IsType(t, tc.want, client)
	}
}

func TestNewClientFromEnv_UserOverride(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.LLM.Provider = config.ProviderGemini
	cfg.LLM.APIKey = "process-key"

	user := &config.UserConfig{Provider: config.ProviderOpenAI, APIKey: "user-key"}
	client, err := NewClientFromEnv(cfg, user)
	require.NoError(t, err)
	require.IsType(t, &OpenAIClient{}, client)
}

func TestOpenAIClient_CompleteWithSystem(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))
		resp := openAIResponse{}
		resp.Choices = []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		}{{Message: struct {
			Content string `json:"content"`
		}{Content: "hello from openai"}}}
		_ = json.NewEncoder(w).Encode(resp)
	}))
	defer srv.Close()

	cfg := DefaultOpenAIConfig("test-key")
	cfg.BaseURL = srv.URL
	client := NewOpenAIClientWithConfig(cfg)

	out, err := client.CompleteWithSystem(context.Background(), "be terse", "hi")
	require.NoError(t, err)
	require.Equal(t, "hello from openai", out)
}

func TestOpenAIClient_RateLimitClassified(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	cfg := DefaultOpenAIConfig("test-key")
	cfg.BaseURL = srv.URL
	client := NewOpenAIClientWithConfig(cfg)

	_, err := client.Complete(context.Background(), "hi")
	require.Error(t, err)
	require.Equal(t, errs.LlmRateLimit, errs.KindOf(err))
}

func TestGeminiClient_NoCredentials(t *testing.T) {
	client := NewGeminiClient("")
	_, err := client.Complete(context.Background(), "hi")
	require.Error(t, err)
	require.Equal(t, errs.NoCredentials, errs.KindOf(err))
}

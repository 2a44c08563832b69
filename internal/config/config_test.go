package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDefaultConfigIsValid(t *testing.T) {
	cfg := DefaultConfig()
	require.NoError(t, cfg.Validate())
}

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)
	require.Equal(t, "AURA", cfg.AssistantName)
}

func TestSaveLoadRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")

	cfg := DefaultConfig()
	cfg.AssistantName = "Jarvis"
	cfg.LLM.Provider = ProviderGemini
	require.NoError(t, cfg.Save(path))

	loaded, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, "Jarvis", loaded.AssistantName)
	require.Equal(t, ProviderGemini, loaded.LLM.Provider)
}

func TestEnvOverridesTakePriority(t *testing.T) {
	t.Setenv("ASSISTANT_NAME", "Override")
	t.Setenv("LLM_API_KEY", "sk-test")
	t.Setenv("AURA_LLM_PROVIDER", "openai")

	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)
	require.Equal(t, "Override", cfg.AssistantName)
	require.Equal(t, "sk-test", cfg.LLM.APIKey)
	require.Equal(t, ProviderOpenAI, cfg.LLM.Provider)
}

func TestInvalidProviderFailsValidation(t *testing.T) {
	cfg := DefaultConfig()
	cfg.LLM.Provider = "not-a-provider"
	require.Error(t, cfg.Validate())
}

func TestUserConfigActiveProviderFallsBackToProcessConfig(t *testing.T) {
	fallback := DefaultConfig()
	fallback.LLM.Provider = ProviderOpenRouter
	fallback.LLM.APIKey = "fallback-key"

	uc := &UserConfig{}
	provider, key := uc.GetActiveProvider(fallback)
	require.Equal(t, ProviderOpenRouter, provider)
	require.Equal(t, "fallback-key", key)

	uc = &UserConfig{Provider: ProviderGemini, APIKey: "user-key"}
	provider, key = uc.GetActiveProvider(fallback)
	require.Equal(t, ProviderGemini, provider)
	require.Equal(t, "user-key", key)
}

func TestUserConfigRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	uc := &UserConfig{Provider: ProviderOpenAI, APIKey: "k", Model: "gpt-5.1-codex-max"}
	require.NoError(t, uc.Save(path))

	loaded, err := LoadUserConfig(path)
	require.NoError(t, err)
	require.Equal(t, uc, loaded)
}

func TestLoadUserConfigMissingFile(t *testing.T) {
	loaded, err := LoadUserConfig(filepath.Join(t.TempDir(), "nope.json"))
	require.NoError(t, err)
	require.Equal(t, &UserConfig{}, loaded)
}

func TestUserConfigPathJoinsDataDir(t *testing.T) {
	require.Equal(t, filepath.Join("data", "config.json"), UserConfigPath("data"))
}

func TestSaveCreatesDirectory(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "dir")
	cfg := DefaultConfig()
	require.NoError(t, cfg.Save(filepath.Join(dir, "config.yaml")))
	_, err := os.Stat(filepath.Join(dir, "config.yaml"))
	require.NoError(t, err)
}

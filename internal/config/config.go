// Package config holds AURA's dual configuration surface: a YAML process
// Config for provider/execution defaults, and a JSON UserConfig for
// per-user settings persisted under $AURA_DATA_DIR/config.json. The split
// mirrors the teacher's config.go/user_config.go pattern.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// Provider names the in-scope LLM providers (§1 of SPEC_FULL.md).
type Provider string

const (
	ProviderGemini     Provider = "gemini"
	ProviderOpenAI     Provider = "openai"
	ProviderOpenRouter Provider = "openrouter"
)

// ValidProviders lists all providers AURA's LLM Client Adapter supports.
var ValidProviders = []Provider{ProviderGemini, ProviderOpenAI, ProviderOpenRouter}

// LLMConfig configures the LLM Client Adapter.
type LLMConfig struct {
	Provider Provider `yaml:"provider"`
	APIKey   string   `yaml:"api_key"`
	Model    string   `yaml:"model"`
	BaseURL  string   `yaml:"base_url"`
	Timeout  string   `yaml:"timeout"`
}

// ExecutionConfig configures the Tool Executor and OS Boundary.
type ExecutionConfig struct {
	DefaultTimeout   string   `yaml:"default_timeout"`
	SandboxTimeout   string   `yaml:"sandbox_timeout"`
	WorkingDirectory string   `yaml:"working_directory"`
	AllowedEnvVars   []string `yaml:"allowed_env_vars"`
}

// LoggingConfig configures internal/logging.
type LoggingConfig struct {
	Level      string `yaml:"level"`
	DebugMode  bool   `yaml:"debug_mode"`
	JSONFormat bool   `yaml:"json_format"`
}

// Config holds all process-level AURA configuration.
type Config struct {
	AssistantName string          `yaml:"assistant_name"`
	WakeWord      string          `yaml:"wake_word"`
	UserName      string          `yaml:"user_name"`
	DataDir       string          `yaml:"data_dir"`
	LLM           LLMConfig       `yaml:"llm"`
	Execution     ExecutionConfig `yaml:"execution"`
	Logging       LoggingConfig   `yaml:"logging"`
}

// DefaultDataDir returns the per-user app-data directory used when
// AURA_DATA_DIR is unset, matching §6's default.
func DefaultDataDir() string {
	if dir, err := os.UserConfigDir(); err == nil {
		return filepath.Join(dir, "aura")
	}
	return filepath.Join(".", ".aura")
}

// DefaultConfig returns AURA's baseline configuration before any file or
// environment overrides are applied.
func DefaultConfig() *Config {
	return &Config{
		AssistantName: "AURA",
		DataDir:       DefaultDataDir(),
		LLM: LLMConfig{
			Provider: ProviderOpenRouter,
			Timeout:  "120s",
		},
		Execution: ExecutionConfig{
			DefaultTimeout: "30s",
			SandboxTimeout: "10s",
			AllowedEnvVars: []string{"PATH", "HOME"},
		},
		Logging: LoggingConfig{
			Level:     "info",
			DebugMode: false,
		},
	}
}

// Load reads YAML config from path, falling back to defaults when the file
// does not exist, then applies environment-variable overrides per §6.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	} else if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	cfg.applyEnvOverrides()
	return cfg, nil
}

// Save writes the config back to path as YAML.
func (c *Config) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	return os.WriteFile(path, data, 0644)
}

// applyEnvOverrides applies the env-var surface from §6 of SPEC_FULL.md,
// in fixed priority order: explicit provider override, then API key.
func (c *Config) applyEnvOverrides() {
	if name := os.Getenv("ASSISTANT_NAME"); name != "" {
		c.AssistantName = name
	}
	if wake := os.Getenv("WAKE_WORD"); wake != "" {
		c.WakeWord = wake
	}
	if user := os.Getenv("USER_NAME"); user != "" {
		c.UserName = user
	}
	if dir := os.Getenv("AURA_DATA_DIR"); dir != "" {
		c.DataDir = dir
	}
	if provider := os.Getenv("AURA_LLM_PROVIDER"); provider != "" {
		c.LLM.Provider = Provider(provider)
	}
	if key := os.Getenv("LLM_API_KEY"); key != "" {
		c.LLM.APIKey = key
	}
}

// GetLLMTimeout returns the LLM request timeout as a duration.
func (c *Config) GetLLMTimeout() time.Duration {
	return parseDurationOr(c.LLM.Timeout, 120*time.Second)
}

// GetExecutionTimeout returns the default per-tool timeout.
func (c *Config) GetExecutionTimeout() time.Duration {
	return parseDurationOr(c.Execution.DefaultTimeout, 30*time.Second)
}

// GetSandboxTimeout returns the default sandbox wall-clock timeout.
func (c *Config) GetSandboxTimeout() time.Duration {
	return parseDurationOr(c.Execution.SandboxTimeout, 10*time.Second)
}

func parseDurationOr(s string, fallback time.Duration) time.Duration {
	d, err := time.ParseDuration(s)
	if err != nil {
		return fallback
	}
	return d
}

// Validate checks that the configuration is usable. It deliberately does
// not require an API key: Layer 1 (pure routing + execution) works with no
// credentials at all; only Layers 1.5/2/conversation need one, and that is
// enforced at the point of use via ErrorKind::NoCredentials.
func (c *Config) Validate() error {
	valid := false
	for _, p := range ValidProviders {
		if c.LLM.Provider == p {
			valid = true
			break
		}
	}
	if !valid {
		return fmt.Errorf("invalid LLM provider %q (valid: %v)", c.LLM.Provider, ValidProviders)
	}
	return nil
}

// UserConfig holds per-user settings persisted as JSON under
// $AURA_DATA_DIR/config.json — provider, API key and model override that
// do not belong in the process-level YAML config.
type UserConfig struct {
	Provider Provider `json:"provider,omitempty"`
	APIKey   string   `json:"api_key,omitempty"`
	Model    string   `json:"model,omitempty"`
}

// UserConfigPath returns the path to the user config file under dataDir.
func UserConfigPath(dataDir string) string {
	return filepath.Join(dataDir, "config.json")
}

// LoadUserConfig loads the user config, returning an empty value if absent.
func LoadUserConfig(path string) (*UserConfig, error) {
	cfg := &UserConfig{}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("read user config: %w", err)
	}
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse user config: %w", err)
	}
	return cfg, nil
}

// Save writes the user config back as indented JSON.
func (c *UserConfig) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal user config: %w", err)
	}
	return os.WriteFile(path, data, 0644)
}

// GetActiveProvider resolves the provider/key pair to use: the UserConfig
// pair wins when it sets both a provider and a key, otherwise the process
// Config's provider/key is used.
func (c *UserConfig) GetActiveProvider(fallback *Config) (Provider, string) {
	if c.Provider != "" && c.APIKey != "" {
		return c.Provider, c.APIKey
	}
	return fallback.LLM.Provider, fallback.LLM.APIKey
}

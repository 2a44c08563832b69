package main

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"aura/internal/config"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create AURA's data directory and an initial config.yaml",
	Long: `Performs first-run setup: creates $AURA_DATA_DIR, writes a default
process config.yaml if one does not already exist, and interactively asks
for an LLM provider and API key to persist into the per-user config.json.
Layer 1 works with no credentials at all; this step is only needed for
Layers 1.5, 2, and the conversation layer.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runInit(cmd)
	},
}

func runInit(cmd *cobra.Command) error {
	dir := dataDir
	if dir == "" {
		dir = os.Getenv("AURA_DATA_DIR")
	}
	if dir == "" {
		dir = config.DefaultDataDir()
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return &cliError{code: exitInternal, err: fmt.Errorf("create data dir: %w", err)}
	}

	cfgPath := filepath.Join(dir, "config.yaml")
	cfg := config.DefaultConfig()
	cfg.DataDir = dir
	if _, err := os.Stat(cfgPath); os.IsNotExist(err) {
		if err := cfg.Save(cfgPath); err != nil {
			return &cliError{code: exitInternal, err: fmt.Errorf("write config: %w", err)}
		}
		fmt.Printf("wrote %s\n", cfgPath)
	} else {
		fmt.Printf("%s already exists, leaving it alone\n", cfgPath)
	}

	reader := bufio.NewReader(cmd.InOrStdin())
	fmt.Printf("LLM provider [%s]: ", strings.Join(providerNames(), "/"))
	providerLine, _ := reader.ReadString('\n')
	provider := config.Provider(strings.TrimSpace(providerLine))
	if provider == "" {
		provider = cfg.LLM.Provider
	}

	fmt.Print("API key (leave blank to skip): ")
	keyLine, _ := reader.ReadString('\n')
	key := strings.TrimSpace(keyLine)

	userCfgPath := config.UserConfigPath(dir)
	userCfg, err := config.LoadUserConfig(userCfgPath)
	if err != nil {
		return &cliError{code: exitInternal, err: fmt.Errorf("load user config: %w", err)}
	}
	userCfg.Provider = provider
	if key != "" {
		userCfg.APIKey = key
	}
	if err := userCfg.Save(userCfgPath); err != nil {
		return &cliError{code: exitInternal, err: fmt.Errorf("save user config: %w", err)}
	}
	fmt.Printf("wrote %s\n", userCfgPath)
	return nil
}

func providerNames() []string {
	names := make([]string, 0, len(config.ValidProviders))
	for _, p := range config.ValidProviders {
		names = append(names, string(p))
	}
	return names
}

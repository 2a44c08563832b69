package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show AURA's configuration and session counters",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd.Context())
		if err != nil {
			return &cliError{code: exitInternal, err: err}
		}
		defer a.Close()

		fmt.Printf("assistant:   %s\n", a.session.AssistantName())
		fmt.Printf("user:        %s\n", a.session.UserName())
		fmt.Printf("data dir:    %s\n", a.cfg.DataDir)
		fmt.Printf("llm:         %s", a.cfg.LLM.Provider)
		if a.llmErr != nil {
			fmt.Printf(" (unavailable: %v)\n", a.llmErr)
		} else {
			fmt.Println(" (configured)")
		}
		fmt.Printf("capabilities: %d promoted\n", len(a.caps.Snapshot()))

		stats := a.session.Stats()
		fmt.Println()
		fmt.Println("session counters:")
		fmt.Printf("  local:    %d\n", stats.LocalCommands)
		fmt.Printf("  llm:      %d\n", stats.LLMCommands)
		fmt.Printf("  planned:  %d\n", stats.PlannedCommands)
		fmt.Printf("  healing:  %d\n", stats.HealingInvocations)
		fmt.Printf("  promoted: %d\n", stats.SkillsPromoted)
		return nil
	},
}

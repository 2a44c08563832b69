package main

import (
	"fmt"
	"sort"
	"strings"

	"github.com/spf13/cobra"
)

var capabilitiesCmd = &cobra.Command{
	Use:   "capabilities",
	Short: "Inspect promoted capabilities",
}

var capabilitiesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List every promoted capability",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd.Context())
		if err != nil {
			return &cliError{code: exitInternal, err: err}
		}
		defer a.Close()
		caps := a.caps.Snapshot()
		if len(caps) == 0 {
			fmt.Println("no promoted capabilities")
			return nil
		}
		sort.Slice(caps, func(i, j int) bool { return caps[i].Name < caps[j].Name })
		for _, c := range caps {
			fmt.Printf("%-32s -> %-24s triggers=%q\n", c.Name, c.ToolName, strings.Join(c.Triggers, ", "))
		}
		return nil
	},
}

var capabilitiesShowCmd = &cobra.Command{
	Use:   "show <name>",
	Short: "Show one promoted capability's full detail",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd.Context())
		if err != nil {
			return &cliError{code: exitInternal, err: err}
		}
		defer a.Close()
		name := args[0]
		for _, c := range a.caps.Snapshot() {
			if c.Name != name {
				continue
			}
			fmt.Printf("name:       %s\n", c.Name)
			fmt.Printf("tool:       %s\n", c.ToolName)
			fmt.Printf("triggers:   %s\n", strings.Join(c.Triggers, ", "))
			fmt.Printf("source:     %s\n", c.Source)
			fmt.Printf("created at: %s\n", c.CreatedAt.Format("2006-01-02 15:04:05"))
			return nil
		}
		return usageError("no promoted capability named %q", name)
	},
}

func init() {
	capabilitiesCmd.AddCommand(capabilitiesListCmd, capabilitiesShowCmd)
}

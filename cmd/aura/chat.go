package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"
)

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Start an interactive REPL against the Hybrid Orchestrator",
	Long: `Reads utterances from stdin, one per line, and prints each
Response.Text. Detects a non-TTY stdin (a pipe or redirected file) and
drops the interactive prompt/banner in that case, so aura chat also works
as a scriptable batch runner.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runChat(cmd.Context())
	},
}

func runChat(ctx context.Context) error {
	a, err := newApp(ctx)
	if err != nil {
		return &cliError{code: exitInternal, err: err}
	}
	defer a.Close()

	interactive := term.IsTerminal(int(os.Stdin.Fd()))
	if interactive {
		fmt.Printf("%s ready. Type a request, or \"exit\" to quit.\n", a.session.AssistantName())
	}

	scanner := bufio.NewScanner(os.Stdin)
	for {
		if interactive {
			fmt.Print("> ")
		}
		if !scanner.Scan() {
			break
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if line == "exit" || line == "quit" {
			break
		}

		resp := a.orch.Process(ctx, line, a.session)
		fmt.Println(resp.Text)
	}
	if err := scanner.Err(); err != nil && err != io.EOF {
		return &cliError{code: exitInternal, err: err}
	}
	return nil
}

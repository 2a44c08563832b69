package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"aura/internal/orchestrator"
)

var runCmd = &cobra.Command{
	Use:   "run <utterance>",
	Short: "Process a single utterance through the Hybrid Orchestrator",
	Long: `Routes a single utterance through process(utterance, session) and
prints the resulting Response text. Exits 0 on success, 3 when the
response reports missing LLM credentials, and 4 for any other failed
response or when the Orchestrator itself could not be built.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runOnce(cmd.Context(), strings.Join(args, " "))
	},
}

func runOnce(ctx context.Context, utterance string) error {
	a, err := newApp(ctx)
	if err != nil {
		return &cliError{code: exitInternal, err: err}
	}
	defer a.Close()

	resp := a.orch.Process(ctx, utterance, a.session)
	if logger != nil {
		logger.Info("processed utterance",
			zap.String("utterance", utterance),
			zap.String("layer", string(resp.SourceLayer)),
			zap.Bool("ok", resp.OK),
		)
	}

	fmt.Println(resp.Text)
	if !resp.OK {
		if resp.Text == orchestrator.NoCredentialsText {
			return &cliError{code: exitNoCredentials, err: fmt.Errorf("%s", resp.Text)}
		}
		return &cliError{code: exitInternal, err: fmt.Errorf("%s", resp.Text)}
	}
	return nil
}

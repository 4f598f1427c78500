package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func analyzeCmd() *cobra.Command {
	var contextLabel string

	cmd := &cobra.Command{
		Use:   "analyze [text]",
		Short: "Run a text analysis pass",
		Long: `Analyzes text under an optional context label. Without an API key the
deterministic stub responds after a short simulated delay.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := newLogger()
			ws, err := openWorkspace(logger)
			if err != nil {
				return fmt.Errorf("analyze: %w", err)
			}
			defer func() { _ = ws.Close() }()

			result, err := ws.analyzer.Analyze(cmd.Context(), args[0], contextLabel)
			if err != nil {
				return fmt.Errorf("analyze: %w", err)
			}

			fmt.Println(result.Analysis)
			fmt.Printf("(%d tokens)\n", result.TokensUsed)
			return nil
		},
	}

	cmd.Flags().StringVar(&contextLabel, "context", "general", "context label for the analysis")
	return cmd
}

package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func statsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show workspace statistics",
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := newLogger()
			ws, err := openWorkspace(logger)
			if err != nil {
				return fmt.Errorf("stats: %w", err)
			}
			defer func() { _ = ws.Close() }()

			stats, err := ws.entities.Stats(cmd.Context())
			if err != nil {
				return fmt.Errorf("stats: %w", err)
			}

			fmt.Printf("Personas:      %d\n", stats.Personas)
			fmt.Printf("Brain users:   %d\n", stats.BrainUsers)
			fmt.Printf("Conversations: %d\n", stats.Conversations)
			return nil
		},
	}
}

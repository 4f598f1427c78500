package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/crewdeskhq/crewdesk/internal/router"
)

func routeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "route [question]",
		Short: "Show which persona would handle a question",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := newLogger()
			ws, err := openWorkspace(logger)
			if err != nil {
				return fmt.Errorf("route: %w", err)
			}
			defer func() { _ = ws.Close() }()

			p, err := ws.router.Route(ws.registry.List(cmd.Context()), args[0])
			if err != nil {
				if errors.Is(err, router.ErrNoPersonas) {
					return fmt.Errorf("route: no personas available; run 'crewdesk seed' first")
				}
				return fmt.Errorf("route: %w", err)
			}

			fmt.Printf("%s (%s)\nID: %s\n", p.Name, p.Role, p.ID)
			return nil
		},
	}
}

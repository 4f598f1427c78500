package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/crewdeskhq/crewdesk/internal/models"
)

func seedCmd() *cobra.Command {
	var (
		businessType string
		force        bool
	)

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Seed a default team of personas",
		Long: `Creates the default pair of personas for a business type
(startup|smb|enterprise|freelancer; anything else gets a generic pair).
Seeding always creates new personas, so by default it refuses to run
against a non-empty registry; pass --force to add another team anyway.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := newLogger()
			ws, err := openWorkspace(logger)
			if err != nil {
				return fmt.Errorf("seed: %w", err)
			}
			defer func() { _ = ws.Close() }()

			ctx := cmd.Context()

			bt := models.BusinessType(businessType)
			if businessType == "" {
				bt = models.BusinessType(cfg.Workspace.BusinessType)
			}

			if !force && len(ws.registry.List(ctx)) > 0 {
				fmt.Println("Registry is not empty; use --force to seed anyway.")
				return nil
			}

			created, err := ws.registry.SeedDefaults(ctx, bt)
			if err != nil {
				return fmt.Errorf("seed: %w", err)
			}

			for _, p := range created {
				fmt.Printf("Created %s - %s (%s)\n", p.Name, p.Role, p.ID)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&businessType, "business-type", "", "business type (default: configured workspace.business_type)")
	cmd.Flags().BoolVar(&force, "force", false, "seed even when personas already exist")
	return cmd
}

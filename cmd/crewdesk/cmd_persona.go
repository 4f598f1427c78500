package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/crewdeskhq/crewdesk/internal/models"
)

func personaCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "persona",
		Short: "Manage AI employee personas",
	}
	cmd.AddCommand(
		personaAddCmd(),
		personaListCmd(),
		personaGetCmd(),
		personaUpdateCmd(),
		personaRemoveCmd(),
	)
	return cmd
}

func personaAddCmd() *cobra.Command {
	var (
		role        string
		avatar      string
		color       string
		specialties string
	)

	cmd := &cobra.Command{
		Use:   "add [name]",
		Short: "Create a new persona",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := newLogger()
			ws, err := openWorkspace(logger)
			if err != nil {
				return fmt.Errorf("persona add: %w", err)
			}
			defer func() { _ = ws.Close() }()

			var specs []string
			if specialties != "" {
				specs = strings.Split(specialties, ",")
				for i := range specs {
					specs[i] = strings.TrimSpace(specs[i])
				}
			}

			p, err := ws.registry.Add(cmd.Context(), args[0], role, avatar, color, specs)
			if err != nil {
				return fmt.Errorf("persona add: %w", err)
			}

			fmt.Printf("Added persona %s (%s, %s)\n", p.ID, p.Name, p.Role)
			return nil
		},
	}

	cmd.Flags().StringVar(&role, "role", "", "persona role, e.g. 'Copywriter' (required)")
	cmd.Flags().StringVar(&avatar, "avatar", "", "avatar image reference")
	cmd.Flags().StringVar(&color, "color", "", "presentation color token")
	cmd.Flags().StringVar(&specialties, "specialties", "", "comma-separated specialties")
	_ = cmd.MarkFlagRequired("role")
	return cmd
}

func personaListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List personas",
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := newLogger()
			ws, err := openWorkspace(logger)
			if err != nil {
				return fmt.Errorf("persona list: %w", err)
			}
			defer func() { _ = ws.Close() }()

			personas := ws.registry.List(cmd.Context())
			for i, p := range personas {
				fmt.Printf("[%d] %s - %s\n", i+1, p.Name, p.Role)
				fmt.Printf("    ID: %s", p.ID)
				if len(p.Specialties) > 0 {
					fmt.Printf(" | Specialties: %s", strings.Join(p.Specialties, ", "))
				}
				fmt.Println()
			}
			if len(personas) == 0 {
				fmt.Println("No personas yet. Use 'crewdesk persona add' or 'crewdesk seed'.")
			}
			return nil
		},
	}
}

func personaGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get [id]",
		Short: "Show one persona",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := newLogger()
			ws, err := openWorkspace(logger)
			if err != nil {
				return fmt.Errorf("persona get: %w", err)
			}
			defer func() { _ = ws.Close() }()

			p, err := ws.registry.GetByID(cmd.Context(), args[0])
			if err != nil {
				return fmt.Errorf("persona get: %w", err)
			}

			fmt.Printf("%s - %s\n", p.Name, p.Role)
			fmt.Printf("ID: %s\nColor: %s\nCreated: %s\n", p.ID, p.Color, p.CreatedAt.Format("2006-01-02 15:04"))
			if len(p.Specialties) > 0 {
				fmt.Printf("Specialties: %s\n", strings.Join(p.Specialties, ", "))
			}
			return nil
		},
	}
}

func personaUpdateCmd() *cobra.Command {
	var (
		name  string
		role  string
		color string
	)

	cmd := &cobra.Command{
		Use:   "update [id]",
		Short: "Update persona fields; omitted flags are left unchanged",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := newLogger()
			ws, err := openWorkspace(logger)
			if err != nil {
				return fmt.Errorf("persona update: %w", err)
			}
			defer func() { _ = ws.Close() }()

			var upd models.PersonaUpdate
			if cmd.Flags().Changed("name") {
				upd.Name = &name
			}
			if cmd.Flags().Changed("role") {
				upd.Role = &role
			}
			if cmd.Flags().Changed("color") {
				upd.Color = &color
			}

			p, err := ws.registry.Update(cmd.Context(), args[0], upd)
			if err != nil {
				return fmt.Errorf("persona update: %w", err)
			}

			fmt.Printf("Updated persona %s (%s, %s)\n", p.ID, p.Name, p.Role)
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "new display name")
	cmd.Flags().StringVar(&role, "role", "", "new role")
	cmd.Flags().StringVar(&color, "color", "", "new color token")
	return cmd
}

func personaRemoveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "rm [id]",
		Short: "Remove a persona (its conversation log is kept)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := newLogger()
			ws, err := openWorkspace(logger)
			if err != nil {
				return fmt.Errorf("persona rm: %w", err)
			}
			defer func() { _ = ws.Close() }()

			if err := ws.registry.Remove(cmd.Context(), args[0]); err != nil {
				return fmt.Errorf("persona rm: %w", err)
			}
			fmt.Println("Removed.")
			return nil
		},
	}
}

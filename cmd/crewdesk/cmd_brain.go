package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/crewdeskhq/crewdesk/internal/brain"
	"github.com/crewdeskhq/crewdesk/internal/models"
)

func brainCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "brain",
		Short: "Manage the knowledge brain",
	}
	cmd.AddCommand(
		brainAddCmd(),
		brainListCmd(),
		brainSearchCmd(),
		brainUpdateCmd(),
		brainRemoveCmd(),
	)
	return cmd
}

// brainUser resolves the acting user: the --user flag when set, the
// configured workspace user otherwise.
func brainUser(user string) string {
	if user != "" {
		return user
	}
	return cfg.Workspace.UserID
}

func brainAddCmd() *cobra.Command {
	var (
		user     string
		itemType string
		title    string
		fileURL  string
		fileType string
	)

	cmd := &cobra.Command{
		Use:   "add [content]",
		Short: "Store a knowledge item",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := newLogger()
			ws, err := openWorkspace(logger)
			if err != nil {
				return fmt.Errorf("brain add: %w", err)
			}
			defer func() { _ = ws.Close() }()

			item, err := ws.brain.Add(cmd.Context(), brainUser(user), brain.AddInput{
				Type:     models.KnowledgeType(itemType),
				Title:    title,
				Content:  args[0],
				FileURL:  fileURL,
				FileType: fileType,
			})
			if err != nil {
				return fmt.Errorf("brain add: %w", err)
			}

			fmt.Printf("Stored %s item %s\n", item.Type, item.ID)
			return nil
		},
	}

	cmd.Flags().StringVar(&user, "user", "", "owning user (default: configured workspace user)")
	cmd.Flags().StringVar(&itemType, "type", "snippet", "item type (snippet|website|file)")
	cmd.Flags().StringVar(&title, "title", "", "item title")
	cmd.Flags().StringVar(&fileURL, "file-url", "", "source file URL (file items)")
	cmd.Flags().StringVar(&fileType, "file-type", "", "source file type (file items)")
	return cmd
}

func brainListCmd() *cobra.Command {
	var (
		user     string
		itemType string
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List the user's knowledge items",
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := newLogger()
			ws, err := openWorkspace(logger)
			if err != nil {
				return fmt.Errorf("brain list: %w", err)
			}
			defer func() { _ = ws.Close() }()

			var filter *models.KnowledgeType
			if itemType != "" {
				kt := models.KnowledgeType(itemType)
				if !kt.IsValid() {
					return fmt.Errorf("brain list: invalid --type %q: must be one of snippet, website, file", itemType)
				}
				filter = &kt
			}

			items := ws.brain.ListByUser(cmd.Context(), brainUser(user), filter)
			printItems(items)
			return nil
		},
	}

	cmd.Flags().StringVar(&user, "user", "", "owning user")
	cmd.Flags().StringVar(&itemType, "type", "", "filter by type")
	return cmd
}

func brainSearchCmd() *cobra.Command {
	var user string

	cmd := &cobra.Command{
		Use:   "search [query]",
		Short: "Search knowledge items by substring over title and content",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := newLogger()
			ws, err := openWorkspace(logger)
			if err != nil {
				return fmt.Errorf("brain search: %w", err)
			}
			defer func() { _ = ws.Close() }()

			// No query means no filter: the full scoped list comes back.
			query := ""
			if len(args) == 1 {
				query = args[0]
			}

			items := ws.brain.Search(cmd.Context(), brainUser(user), query)
			printItems(items)
			return nil
		},
	}

	cmd.Flags().StringVar(&user, "user", "", "owning user")
	return cmd
}

func brainUpdateCmd() *cobra.Command {
	var (
		user    string
		title   string
		content string
	)

	cmd := &cobra.Command{
		Use:   "update [id]",
		Short: "Update a knowledge item; omitted flags are left unchanged",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := newLogger()
			ws, err := openWorkspace(logger)
			if err != nil {
				return fmt.Errorf("brain update: %w", err)
			}
			defer func() { _ = ws.Close() }()

			var upd models.KnowledgeUpdate
			if cmd.Flags().Changed("title") {
				upd.Title = &title
			}
			if cmd.Flags().Changed("content") {
				upd.Content = &content
			}

			item, err := ws.brain.Update(cmd.Context(), brainUser(user), args[0], upd)
			if err != nil {
				return fmt.Errorf("brain update: %w", err)
			}

			fmt.Printf("Updated item %s (%s)\n", item.ID, item.Date.Format("2006-01-02 15:04:05"))
			return nil
		},
	}

	cmd.Flags().StringVar(&user, "user", "", "owning user")
	cmd.Flags().StringVar(&title, "title", "", "new title")
	cmd.Flags().StringVar(&content, "content", "", "new content")
	return cmd
}

func brainRemoveCmd() *cobra.Command {
	var user string

	cmd := &cobra.Command{
		Use:   "rm [id]",
		Short: "Remove a knowledge item",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := newLogger()
			ws, err := openWorkspace(logger)
			if err != nil {
				return fmt.Errorf("brain rm: %w", err)
			}
			defer func() { _ = ws.Close() }()

			if err := ws.brain.Remove(cmd.Context(), brainUser(user), args[0]); err != nil {
				return fmt.Errorf("brain rm: %w", err)
			}
			fmt.Println("Removed.")
			return nil
		},
	}

	cmd.Flags().StringVar(&user, "user", "", "owning user")
	return cmd
}

func printItems(items []models.KnowledgeItem) {
	for i, it := range items {
		title := it.Title
		if title == "" {
			title = "(untitled)"
		}
		fmt.Printf("[%d] [%s] %s: %s\n", i+1, it.Type, title, truncate(it.Content, 80))
		fmt.Printf("    ID: %s | %s\n", it.ID, it.Date.Format("2006-01-02 15:04"))
	}
	if len(items) == 0 {
		fmt.Println("No items found.")
	}
}

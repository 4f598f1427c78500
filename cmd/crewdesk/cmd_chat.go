package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func chatCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "chat",
		Short: "Talk to a persona",
	}
	cmd.AddCommand(
		chatSendCmd(),
		chatHistoryCmd(),
		chatNewCmd(),
	)
	return cmd
}

func chatSendCmd() *cobra.Command {
	var personaID string

	cmd := &cobra.Command{
		Use:   "send [message]",
		Short: "Send a message and print the reply",
		Long: `Sends a message to a persona. When --persona is omitted the router picks
the best-matching persona for the message. The message is logged before
the model is called, so a failed call never loses your input.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := newLogger()
			ws, err := openWorkspace(logger)
			if err != nil {
				return fmt.Errorf("chat send: %w", err)
			}
			defer func() { _ = ws.Close() }()

			ctx := cmd.Context()
			message := args[0]

			id := personaID
			if id == "" {
				p, routeErr := ws.router.Route(ws.registry.List(ctx), message)
				if routeErr != nil {
					return fmt.Errorf("chat send: %w (seed a team with 'crewdesk seed')", routeErr)
				}
				id = p.ID
				fmt.Printf("Routed to %s (%s)\n", p.Name, p.Role)
			}

			reply, err := ws.chat.Send(ctx, id, message, nil, nil)
			if err != nil {
				return fmt.Errorf("chat send: %w", err)
			}

			fmt.Println(reply.Content)
			return nil
		},
	}

	cmd.Flags().StringVar(&personaID, "persona", "", "persona ID (default: routed from the message)")
	return cmd
}

func chatHistoryCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "history [persona-id]",
		Short: "Show a persona's conversation",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := newLogger()
			ws, err := openWorkspace(logger)
			if err != nil {
				return fmt.Errorf("chat history: %w", err)
			}
			defer func() { _ = ws.Close() }()

			history := ws.chatlog.History(cmd.Context(), args[0])
			for _, m := range history {
				fmt.Printf("[%s] %s: %s\n", m.Timestamp.Format("15:04:05"), m.Role, m.Content)
			}
			if len(history) == 0 {
				fmt.Println("No messages yet.")
			}
			return nil
		},
	}
}

func chatNewCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "new [persona-id]",
		Short: "Start a new conversation, discarding the old one permanently",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := newLogger()
			ws, err := openWorkspace(logger)
			if err != nil {
				return fmt.Errorf("chat new: %w", err)
			}
			defer func() { _ = ws.Close() }()

			if err := ws.chat.StartNew(cmd.Context(), args[0]); err != nil {
				return fmt.Errorf("chat new: %w", err)
			}
			fmt.Println("Conversation cleared.")
			return nil
		},
	}
}

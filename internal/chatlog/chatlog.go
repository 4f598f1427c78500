// Package chatlog implements the append-only per-persona conversation log.
package chatlog

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/crewdeskhq/crewdesk/internal/entity"
	"github.com/crewdeskhq/crewdesk/internal/models"
)

// Log stores conversation messages per persona. Messages are never
// reordered or deduplicated; ordering is strictly by insertion.
type Log struct {
	store  *entity.Store
	logger *slog.Logger
}

// New creates a conversation log over the given entity store.
func New(store *entity.Store, logger *slog.Logger) *Log {
	return &Log{store: store, logger: logger}
}

// Append adds a message to the persona's log and persists it. A missing id
// or timestamp is assigned; both are preserved when already set so that
// optimistic UI messages keep their identity.
func (l *Log) Append(ctx context.Context, personaID string, msg models.ConversationMessage) (*models.ConversationMessage, error) {
	if !msg.Role.IsValid() {
		return nil, &models.ValidationError{Field: "role", Reason: fmt.Sprintf("%q is not one of user, assistant", msg.Role)}
	}
	if msg.ID == "" {
		msg.ID = uuid.NewString()
	}
	if msg.Timestamp.IsZero() {
		msg.Timestamp = time.Now().UTC()
	}

	history := l.History(ctx, personaID)
	history = append(history, msg)
	if err := l.store.WriteCollection(ctx, entity.ChatKey(personaID), history); err != nil {
		return nil, fmt.Errorf("chatlog: persisting message: %w", err)
	}

	l.logger.Debug("chatlog: appended message", "persona", personaID, "role", msg.Role, "id", msg.ID)
	return &msg, nil
}

// History returns the persona's messages in insertion order, empty if none.
func (l *Log) History(ctx context.Context, personaID string) []models.ConversationMessage {
	var history []models.ConversationMessage
	l.store.ReadCollection(ctx, entity.ChatKey(personaID), &history)
	return history
}

// Clear discards the persona's log permanently.
func (l *Log) Clear(ctx context.Context, personaID string) error {
	if err := l.store.DeleteCollection(ctx, entity.ChatKey(personaID)); err != nil {
		return fmt.Errorf("chatlog: clearing log: %w", err)
	}
	l.logger.Info("chatlog: cleared conversation", "persona", personaID)
	return nil
}

// Package chat orchestrates a conversation exchange: persist the user
// message, call the inference backend, persist the reply.
package chat

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/crewdeskhq/crewdesk/internal/analyzer"
	"github.com/crewdeskhq/crewdesk/internal/chatlog"
	"github.com/crewdeskhq/crewdesk/internal/metrics"
	"github.com/crewdeskhq/crewdesk/internal/models"
	"github.com/crewdeskhq/crewdesk/internal/notify"
	"github.com/crewdeskhq/crewdesk/internal/registry"
)

// Service runs conversation exchanges against a persona.
type Service struct {
	registry *registry.Registry
	log      *chatlog.Log
	backend  analyzer.Analyzer
	notifier notify.Notifier
	logger   *slog.Logger
}

// NewService creates a chat service. A nil notifier is replaced with a
// no-op sink.
func NewService(reg *registry.Registry, log *chatlog.Log, backend analyzer.Analyzer, notifier notify.Notifier, logger *slog.Logger) *Service {
	if notifier == nil {
		notifier = notify.Nop{}
	}
	return &Service{
		registry: reg,
		log:      log,
		backend:  backend,
		notifier: notifier,
		logger:   logger,
	}
}

// Send appends the user message to the persona's log, asks the backend for
// a reply, and appends that too. The user message is persisted before the
// backend is called: a backend failure surfaces as an error but never rolls
// back or corrupts the already-appended message, so the user can retry
// without re-typing.
func (s *Service) Send(ctx context.Context, personaID, content string, attachments []models.Attachment, images []string) (*models.ConversationMessage, error) {
	if _, err := s.registry.GetByID(ctx, personaID); err != nil {
		return nil, fmt.Errorf("chat: %w", err)
	}

	history := s.log.History(ctx, personaID)

	userMsg := models.ConversationMessage{
		Role:        models.RoleUser,
		Content:     content,
		Attachments: attachments,
		Images:      images,
	}
	if _, err := s.log.Append(ctx, personaID, userMsg); err != nil {
		return nil, fmt.Errorf("chat: recording user message: %w", err)
	}

	metrics.Inc(metrics.ChatSendTotal)

	reply, err := s.backend.Chat(ctx, history, content, attachments)
	if err != nil {
		switch {
		case errors.Is(err, analyzer.ErrRateLimited):
			s.notifier.Error("The assistant is rate limited. Your message was saved; try again shortly.")
		case errors.Is(err, analyzer.ErrUnavailable):
			s.notifier.Error("The assistant is unavailable. Your message was saved.")
		}
		return nil, fmt.Errorf("chat: backend: %w", err)
	}

	// The caller may have navigated away while the backend ran; in that
	// case drop the reply rather than appending to a log nobody is
	// watching anymore.
	if ctx.Err() != nil {
		s.logger.Debug("chat: discarding late reply", "persona", personaID)
		return nil, ctx.Err()
	}

	stored, err := s.log.Append(ctx, personaID, *reply)
	if err != nil {
		return nil, fmt.Errorf("chat: recording reply: %w", err)
	}

	return stored, nil
}

// History returns the persona's conversation in insertion order.
func (s *Service) History(ctx context.Context, personaID string) []models.ConversationMessage {
	return s.log.History(ctx, personaID)
}

// StartNew clears the persona's conversation log. It works for dangling
// persona ids too: orphaned logs survive persona deletion and must remain
// clearable.
func (s *Service) StartNew(ctx context.Context, personaID string) error {
	if err := s.log.Clear(ctx, personaID); err != nil {
		return err
	}
	s.notifier.Info("Started a new conversation.")
	return nil
}

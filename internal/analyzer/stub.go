package analyzer

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/crewdeskhq/crewdesk/internal/metrics"
	"github.com/crewdeskhq/crewdesk/internal/models"
	"github.com/crewdeskhq/crewdesk/pkg/tokenizer"
)

const (
	// stubPrefixLen is how much of the input text the stub echoes back.
	stubPrefixLen = 80

	// DefaultStubDelay bounds the simulated latency of a stub call.
	DefaultStubDelay = 600 * time.Millisecond
)

// Stub is a deterministic Analyzer used when no API key is configured.
// It simulates latency so callers exercise their async paths, then returns
// a templated result embedding a prefix of the input.
type Stub struct {
	delay  time.Duration
	logger *slog.Logger
}

// NewStub creates a stub analyzer with the given simulated latency.
// A non-positive delay disables the simulation (useful in tests).
func NewStub(delay time.Duration, logger *slog.Logger) *Stub {
	return &Stub{delay: delay, logger: logger}
}

// Analyze sleeps for the configured delay, honoring context cancellation,
// then returns a deterministic templated analysis.
func (s *Stub) Analyze(ctx context.Context, text, contextLabel string) (*Result, error) {
	if err := s.wait(ctx); err != nil {
		return nil, err
	}
	metrics.Inc(metrics.AnalyzeTotal)

	analysis := fmt.Sprintf("Simulated analysis for %q: the input %q was reviewed and no external model was consulted.",
		contextLabel, truncate(text, stubPrefixLen))

	s.logger.Debug("analyzer: stub analysis", "context", contextLabel, "tokens", tokenizer.EstimateTokens(analysis))
	return &Result{
		Analysis:   analysis,
		TokensUsed: tokenizer.EstimateTokens(analysis),
	}, nil
}

// Chat sleeps for the configured delay, then echoes a canned assistant reply.
func (s *Stub) Chat(ctx context.Context, history []models.ConversationMessage, newMessage string, _ []models.Attachment) (*models.ConversationMessage, error) {
	if err := s.wait(ctx); err != nil {
		return nil, err
	}

	content := fmt.Sprintf("Simulated reply to %q. Configure an API key to enable real responses. (%d prior messages in context)",
		truncate(newMessage, stubPrefixLen), len(history))

	return &models.ConversationMessage{
		ID:        uuid.NewString(),
		Role:      models.RoleAssistant,
		Content:   content,
		Timestamp: time.Now().UTC(),
	}, nil
}

// wait blocks for the simulated latency or until ctx is done. A simulated
// call cannot be aborted once issued; cancellation only stops the caller
// from waiting on it.
func (s *Stub) wait(ctx context.Context) error {
	if s.delay <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(s.delay)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) > n {
		return string(runes[:n]) + "..."
	}
	return s
}

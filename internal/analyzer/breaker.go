package analyzer

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/sony/gobreaker"

	"github.com/crewdeskhq/crewdesk/internal/models"
)

const (
	breakerMaxFailures   = 3
	breakerOpenTimeout   = 30 * time.Second
	breakerHalfOpenCalls = 2
)

// Breaker wraps an Analyzer with a circuit breaker so a flapping inference
// backend fails fast instead of stalling every caller. Rejected calls map
// to ErrUnavailable; rate-limit errors pass through unchanged.
type Breaker struct {
	inner   Analyzer
	breaker *gobreaker.CircuitBreaker
	logger  *slog.Logger
}

// NewBreaker wraps the given analyzer. The circuit opens after three
// consecutive failures and probes again after thirty seconds.
func NewBreaker(inner Analyzer, logger *slog.Logger) *Breaker {
	b := &Breaker{inner: inner, logger: logger}
	b.breaker = gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "analyzer",
		MaxRequests: breakerHalfOpenCalls,
		Timeout:     breakerOpenTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= breakerMaxFailures
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("analyzer: circuit state change", "from", from.String(), "to", to.String())
		},
	})
	return b
}

// Analyze runs the inner analyzer through the circuit breaker.
func (b *Breaker) Analyze(ctx context.Context, text, contextLabel string) (*Result, error) {
	out, err := b.execute(func() (any, error) {
		return b.inner.Analyze(ctx, text, contextLabel)
	})
	if err != nil {
		return nil, err
	}
	return out.(*Result), nil
}

// Chat runs the inner analyzer through the circuit breaker.
func (b *Breaker) Chat(ctx context.Context, history []models.ConversationMessage, newMessage string, attachments []models.Attachment) (*models.ConversationMessage, error) {
	out, err := b.execute(func() (any, error) {
		return b.inner.Chat(ctx, history, newMessage, attachments)
	})
	if err != nil {
		return nil, err
	}
	return out.(*models.ConversationMessage), nil
}

// State returns the current breaker state: closed, open, or half-open.
func (b *Breaker) State() string {
	switch b.breaker.State() {
	case gobreaker.StateClosed:
		return "closed"
	case gobreaker.StateOpen:
		return "open"
	case gobreaker.StateHalfOpen:
		return "half-open"
	default:
		return "unknown"
	}
}

func (b *Breaker) execute(fn func() (any, error)) (any, error) {
	out, err := b.breaker.Execute(fn)
	if err == nil {
		return out, nil
	}
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return nil, fmt.Errorf("%w: circuit open", ErrUnavailable)
	}
	return nil, err
}

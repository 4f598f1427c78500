// Package analyzer defines the inference backend boundary. The core only
// depends on the Analyzer interface; a deterministic stub ships for
// environments without an API key, and a Claude-backed implementation
// provides the real thing behind the same signature.
package analyzer

import (
	"context"
	"errors"

	"github.com/crewdeskhq/crewdesk/internal/models"
)

// ErrUnavailable is returned when the inference backend cannot be reached.
// A backend failure never corrupts already-persisted conversation state.
var ErrUnavailable = errors.New("analysis service unavailable")

// ErrRateLimited is returned when the inference backend rejects the call
// due to rate limiting.
var ErrRateLimited = errors.New("analysis service rate limited")

// Result is the outcome of a text analysis call.
type Result struct {
	Analysis   string `json:"analysis"`
	TokensUsed int    `json:"tokens_used"`
}

// Analyzer is the inference backend boundary.
type Analyzer interface {
	// Analyze runs a text-analysis pass over text under the given context
	// label (e.g. the persona role the analysis is for).
	Analyze(ctx context.Context, text, contextLabel string) (*Result, error)

	// Chat produces the assistant reply to newMessage given the prior
	// conversation history.
	Chat(ctx context.Context, history []models.ConversationMessage, newMessage string, attachments []models.Attachment) (*models.ConversationMessage, error)
}

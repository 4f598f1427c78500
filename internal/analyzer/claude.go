package analyzer

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/google/uuid"

	"github.com/crewdeskhq/crewdesk/internal/metrics"
	"github.com/crewdeskhq/crewdesk/internal/models"
	"github.com/crewdeskhq/crewdesk/pkg/tokenizer"
	"github.com/crewdeskhq/crewdesk/pkg/xmlutil"
)

const (
	analyzeMaxTokens = 512
	chatMaxTokens    = 2048
)

// analysisPromptTemplate frames the analysis request; user content is
// injected via XML tags to prevent prompt injection.
const analysisPromptTemplate = `Analyze the following text in the context of %q. Respond with a short, plain-text assessment.

<text>%s</text>`

// Claude implements Analyzer using the Anthropic API.
type Claude struct {
	client *anthropic.Client
	model  string
	logger *slog.Logger
}

// NewClaude creates a Claude-backed analyzer.
func NewClaude(apiKey, model string, logger *slog.Logger) *Claude {
	c := anthropic.NewClient(option.WithAPIKey(apiKey))
	return &Claude{
		client: &c,
		model:  model,
		logger: logger,
	}
}

// Analyze sends the text to Claude and returns its assessment.
func (c *Claude) Analyze(ctx context.Context, text, contextLabel string) (*Result, error) {
	prompt := fmt.Sprintf(analysisPromptTemplate, contextLabel, xmlutil.Escape(text))

	resp, err := c.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     anthropic.Model(c.model),
		MaxTokens: analyzeMaxTokens,
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(prompt)),
		},
	})
	if err != nil {
		return nil, mapAPIError("analyze", err)
	}

	analysis := firstTextBlock(resp)
	if analysis == "" {
		return nil, fmt.Errorf("%w: empty response", ErrUnavailable)
	}

	metrics.Inc(metrics.AnalyzeTotal)
	tokens := int(resp.Usage.InputTokens + resp.Usage.OutputTokens)
	if tokens == 0 {
		tokens = tokenizer.EstimateTokens(analysis)
	}
	return &Result{Analysis: analysis, TokensUsed: tokens}, nil
}

// Chat sends the conversation to Claude and returns the assistant reply.
// Attachments are described inline; binary content is not uploaded.
func (c *Claude) Chat(ctx context.Context, history []models.ConversationMessage, newMessage string, attachments []models.Attachment) (*models.ConversationMessage, error) {
	msgs := make([]anthropic.MessageParam, 0, len(history)+1)
	for i := range history {
		switch history[i].Role {
		case models.RoleAssistant:
			msgs = append(msgs, anthropic.NewAssistantMessage(anthropic.NewTextBlock(history[i].Content)))
		default:
			msgs = append(msgs, anthropic.NewUserMessage(anthropic.NewTextBlock(history[i].Content)))
		}
	}

	content := newMessage
	if len(attachments) > 0 {
		var names []string
		for _, a := range attachments {
			names = append(names, fmt.Sprintf("%s (%s)", a.Name, a.Type))
		}
		content = fmt.Sprintf("%s\n\n[Attached: %s]", newMessage, strings.Join(names, ", "))
	}
	msgs = append(msgs, anthropic.NewUserMessage(anthropic.NewTextBlock(content)))

	resp, err := c.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     anthropic.Model(c.model),
		MaxTokens: chatMaxTokens,
		Messages:  msgs,
	})
	if err != nil {
		return nil, mapAPIError("chat", err)
	}

	reply := firstTextBlock(resp)
	if reply == "" {
		return nil, fmt.Errorf("%w: empty response", ErrUnavailable)
	}

	return &models.ConversationMessage{
		ID:        uuid.NewString(),
		Role:      models.RoleAssistant,
		Content:   reply,
		Timestamp: time.Now().UTC(),
	}, nil
}

// firstTextBlock returns the first text content block of a response.
func firstTextBlock(resp *anthropic.Message) string {
	for i := range resp.Content {
		if resp.Content[i].Type == "text" {
			return strings.TrimSpace(resp.Content[i].Text)
		}
	}
	return ""
}

// mapAPIError converts Anthropic API failures into the analyzer taxonomy.
func mapAPIError(op string, err error) error {
	var apiErr *anthropic.Error
	if errors.As(err, &apiErr) && apiErr.StatusCode == 429 {
		return fmt.Errorf("%w: %s: %v", ErrRateLimited, op, err)
	}
	return fmt.Errorf("%w: %s: %v", ErrUnavailable, op, err)
}

package analyzer_test

import (
	"context"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/crewdeskhq/crewdesk/internal/analyzer"
	"github.com/crewdeskhq/crewdesk/internal/models"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
}

func TestStub_AnalyzeIsDeterministic(t *testing.T) {
	ctx := context.Background()
	stub := analyzer.NewStub(0, testLogger())

	first, err := stub.Analyze(ctx, "Our churn doubled last month", "Business Analyst")
	require.NoError(t, err)
	second, err := stub.Analyze(ctx, "Our churn doubled last month", "Business Analyst")
	require.NoError(t, err)

	assert.Equal(t, first.Analysis, second.Analysis)
	assert.Equal(t, first.TokensUsed, second.TokensUsed)
	assert.Contains(t, first.Analysis, "Business Analyst")
	assert.Contains(t, first.Analysis, "Our churn doubled last month")
	assert.Greater(t, first.TokensUsed, 0)
}

func TestStub_AnalyzeTruncatesLongInput(t *testing.T) {
	ctx := context.Background()
	stub := analyzer.NewStub(0, testLogger())

	long := make([]byte, 500)
	for i := range long {
		long[i] = 'x'
	}

	result, err := stub.Analyze(ctx, string(long), "review")
	require.NoError(t, err)
	assert.NotContains(t, result.Analysis, string(long))
	assert.Contains(t, result.Analysis, "...")
}

func TestStub_ChatEchoesContext(t *testing.T) {
	ctx := context.Background()
	stub := analyzer.NewStub(0, testLogger())

	history := []models.ConversationMessage{
		{Role: models.RoleUser, Content: "hi"},
		{Role: models.RoleAssistant, Content: "hello"},
	}

	reply, err := stub.Chat(ctx, history, "what's next?", nil)
	require.NoError(t, err)
	assert.Equal(t, models.RoleAssistant, reply.Role)
	assert.NotEmpty(t, reply.ID)
	assert.False(t, reply.Timestamp.IsZero())
	assert.Contains(t, reply.Content, "what's next?")
	assert.Contains(t, reply.Content, "2 prior messages")
}

func TestStub_DelayHonorsCancellation(t *testing.T) {
	stub := analyzer.NewStub(10*time.Second, testLogger())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	start := time.Now()
	_, err := stub.Analyze(ctx, "text", "label")
	assert.ErrorIs(t, err, context.Canceled)
	assert.Less(t, time.Since(start), time.Second, "cancelled call must not sit out the full delay")
}

func TestStub_ZeroDelayReportsCancellation(t *testing.T) {
	stub := analyzer.NewStub(0, testLogger())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := stub.Chat(ctx, nil, "msg", nil)
	assert.ErrorIs(t, err, context.Canceled)
}

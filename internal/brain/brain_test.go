package brain_test

import (
	"context"
	"log/slog"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/crewdeskhq/crewdesk/internal/brain"
	"github.com/crewdeskhq/crewdesk/internal/entity"
	"github.com/crewdeskhq/crewdesk/internal/kvstore"
	"github.com/crewdeskhq/crewdesk/internal/models"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
}

func newBrain() *brain.Store {
	store := entity.NewStore(kvstore.NewMemoryKV(), testLogger())
	return brain.New(store, testLogger())
}

func strPtr(s string) *string { return &s }

func TestBrain_AddAndList(t *testing.T) {
	ctx := context.Background()
	br := newBrain()

	item, err := br.Add(ctx, "alice", brain.AddInput{
		Type:    models.KnowledgeTypeSnippet,
		Title:   "Pricing tiers",
		Content: "Starter $9, Pro $29, Team $99",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, item.ID)
	assert.Equal(t, "alice", item.UserID)
	assert.False(t, item.Date.IsZero())

	items := br.ListByUser(ctx, "alice", nil)
	require.Len(t, items, 1)
	assert.Equal(t, item.ID, items[0].ID)
}

func TestBrain_AddValidation(t *testing.T) {
	ctx := context.Background()
	br := newBrain()

	tests := []struct {
		name   string
		userID string
		in     brain.AddInput
	}{
		{
			name:   "empty user",
			userID: "",
			in:     brain.AddInput{Type: models.KnowledgeTypeSnippet, Title: "t"},
		},
		{
			name:   "unknown type",
			userID: "alice",
			in:     brain.AddInput{Type: models.KnowledgeType("video"), Title: "t"},
		},
		{
			name:   "empty type",
			userID: "alice",
			in:     brain.AddInput{Title: "t"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := br.Add(ctx, tt.userID, tt.in)
			var vErr *models.ValidationError
			assert.ErrorAs(t, err, &vErr)
		})
	}
}

func TestBrain_UserIsolation(t *testing.T) {
	ctx := context.Background()
	br := newBrain()

	_, err := br.Add(ctx, "alice", brain.AddInput{Type: models.KnowledgeTypeSnippet, Title: "alice's note"})
	require.NoError(t, err)
	_, err = br.Add(ctx, "bob", brain.AddInput{Type: models.KnowledgeTypeSnippet, Title: "bob's note"})
	require.NoError(t, err)

	aliceItems := br.ListByUser(ctx, "alice", nil)
	require.Len(t, aliceItems, 1)
	assert.Equal(t, "alice's note", aliceItems[0].Title)

	// Search is scoped to the querying user too.
	hits := br.Search(ctx, "alice", "note")
	require.Len(t, hits, 1)
	assert.Equal(t, "alice", hits[0].UserID)
}

func TestBrain_ListByUserTypeFilter(t *testing.T) {
	ctx := context.Background()
	br := newBrain()

	_, err := br.Add(ctx, "alice", brain.AddInput{Type: models.KnowledgeTypeSnippet, Title: "a snippet"})
	require.NoError(t, err)
	_, err = br.Add(ctx, "alice", brain.AddInput{Type: models.KnowledgeTypeWebsite, Title: "a site", Content: "https://example.com"})
	require.NoError(t, err)

	snippets := models.KnowledgeTypeSnippet
	filtered := br.ListByUser(ctx, "alice", &snippets)
	require.Len(t, filtered, 1)
	assert.Equal(t, models.KnowledgeTypeSnippet, filtered[0].Type)
}

func TestBrain_SearchCaseInsensitive(t *testing.T) {
	ctx := context.Background()
	br := newBrain()

	_, err := br.Add(ctx, "alice", brain.AddInput{
		Type:    models.KnowledgeTypeSnippet,
		Title:   "Launch Checklist",
		Content: "Verify the DNS records before flipping traffic",
	})
	require.NoError(t, err)
	_, err = br.Add(ctx, "alice", brain.AddInput{
		Type:    models.KnowledgeTypeSnippet,
		Title:   "Meeting notes",
		Content: "Quarterly review went fine",
	})
	require.NoError(t, err)

	tests := []struct {
		name  string
		query string
		want  int
	}{
		{name: "title match different case", query: "LAUNCH", want: 1},
		{name: "content match", query: "dns", want: 1},
		{name: "no match", query: "kubernetes", want: 0},
		{name: "shared substring", query: "e", want: 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Len(t, br.Search(ctx, "alice", tt.query), tt.want)
		})
	}
}

func TestBrain_SearchEmptyQueryReturnsAll(t *testing.T) {
	ctx := context.Background()
	br := newBrain()

	for _, title := range []string{"one", "two", "three"} {
		_, err := br.Add(ctx, "alice", brain.AddInput{Type: models.KnowledgeTypeSnippet, Title: title})
		require.NoError(t, err)
	}

	// Clearing a search means querying with "": the full scoped list comes
	// back, identical to an unfiltered list.
	hits := br.Search(ctx, "alice", "")
	all := br.ListByUser(ctx, "alice", nil)
	assert.Equal(t, all, hits)
	assert.Len(t, hits, 3)
}

func TestBrain_UpdateRefreshesDateOnContentChange(t *testing.T) {
	ctx := context.Background()
	br := newBrain()

	item, err := br.Add(ctx, "alice", brain.AddInput{
		Type:    models.KnowledgeTypeFile,
		Title:   "Q3 report",
		Content: "draft",
		FileURL: "https://files.example.com/q3.pdf",
	})
	require.NoError(t, err)

	updated, err := br.Update(ctx, "alice", item.ID, models.KnowledgeUpdate{
		Content: strPtr("final"),
	})
	require.NoError(t, err)
	assert.Equal(t, "final", updated.Content)
	assert.Equal(t, "Q3 report", updated.Title)
	assert.False(t, updated.Date.Before(item.Date), "date must not move backwards on a content update")

	// A metadata-only update leaves the date alone.
	metaOnly, err := br.Update(ctx, "alice", item.ID, models.KnowledgeUpdate{
		FileType: strPtr("pdf"),
	})
	require.NoError(t, err)
	assert.True(t, metaOnly.Date.Equal(updated.Date))
	assert.Equal(t, "pdf", metaOnly.FileType)
}

func TestBrain_UpdateMissingItem(t *testing.T) {
	ctx := context.Background()
	br := newBrain()

	_, err := br.Update(ctx, "alice", "missing", models.KnowledgeUpdate{Title: strPtr("x")})
	assert.ErrorIs(t, err, entity.ErrNotFound)
}

func TestBrain_RemoveIsIdempotent(t *testing.T) {
	ctx := context.Background()
	br := newBrain()

	item, err := br.Add(ctx, "alice", brain.AddInput{Type: models.KnowledgeTypeSnippet, Title: "temp"})
	require.NoError(t, err)

	require.NoError(t, br.Remove(ctx, "alice", item.ID))
	assert.Empty(t, br.ListByUser(ctx, "alice", nil))

	assert.NoError(t, br.Remove(ctx, "alice", item.ID))
	assert.NoError(t, br.Remove(ctx, "alice", "never-existed"))
}

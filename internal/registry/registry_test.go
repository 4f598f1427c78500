package registry_test

import (
	"context"
	"log/slog"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/crewdeskhq/crewdesk/internal/chatlog"
	"github.com/crewdeskhq/crewdesk/internal/entity"
	"github.com/crewdeskhq/crewdesk/internal/kvstore"
	"github.com/crewdeskhq/crewdesk/internal/models"
	"github.com/crewdeskhq/crewdesk/internal/registry"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
}

func newRegistry() (*registry.Registry, *entity.Store) {
	store := entity.NewStore(kvstore.NewMemoryKV(), testLogger())
	return registry.New(store, testLogger()), store
}

func strPtr(s string) *string { return &s }

func TestRegistry_AddAndList(t *testing.T) {
	ctx := context.Background()
	reg, _ := newRegistry()

	p, err := reg.Add(ctx, "Quinn", "Copywriter", "", "rose", []string{"ads", "email"})
	require.NoError(t, err)
	assert.NotEmpty(t, p.ID)
	assert.Equal(t, "Quinn", p.Name)
	assert.Equal(t, "Copywriter", p.Role)
	assert.False(t, p.CreatedAt.IsZero())

	list := reg.List(ctx)
	require.Len(t, list, 1)
	assert.Equal(t, p.ID, list[0].ID)
}

func TestRegistry_AddValidation(t *testing.T) {
	ctx := context.Background()
	reg, _ := newRegistry()

	tests := []struct {
		name       string
		personName string
		role       string
	}{
		{name: "empty name", personName: "", role: "Copywriter"},
		{name: "whitespace name", personName: "   ", role: "Copywriter"},
		{name: "empty role", personName: "Quinn", role: ""},
		{name: "whitespace role", personName: "Quinn", role: "\t"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := reg.Add(ctx, tt.personName, tt.role, "", "", nil)
			var vErr *models.ValidationError
			assert.ErrorAs(t, err, &vErr)
		})
	}

	assert.Empty(t, reg.List(ctx))
}

func TestRegistry_IDsAreUnique(t *testing.T) {
	ctx := context.Background()
	reg, _ := newRegistry()

	seen := make(map[string]bool)
	for range 20 {
		p, err := reg.Add(ctx, "Sam", "Assistant", "", "", nil)
		require.NoError(t, err)
		assert.False(t, seen[p.ID], "duplicate persona id %s", p.ID)
		seen[p.ID] = true
	}
	assert.Len(t, reg.List(ctx), 20)
}

func TestRegistry_InsertionOrderPreserved(t *testing.T) {
	ctx := context.Background()
	reg, _ := newRegistry()

	names := []string{"first", "second", "third"}
	for _, n := range names {
		_, err := reg.Add(ctx, n, "Assistant", "", "", nil)
		require.NoError(t, err)
	}

	list := reg.List(ctx)
	require.Len(t, list, 3)
	for i, n := range names {
		assert.Equal(t, n, list[i].Name)
	}
}

func TestRegistry_GetByID(t *testing.T) {
	ctx := context.Background()
	reg, _ := newRegistry()

	p, err := reg.Add(ctx, "Riley", "Bookkeeper", "", "green", nil)
	require.NoError(t, err)

	got, err := reg.GetByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, "Riley", got.Name)

	_, err = reg.GetByID(ctx, "missing")
	assert.ErrorIs(t, err, entity.ErrNotFound)
}

func TestRegistry_UpdateMergesFields(t *testing.T) {
	ctx := context.Background()
	reg, _ := newRegistry()

	p, err := reg.Add(ctx, "Casey", "Business Analyst", "avatar.png", "indigo", []string{"reports"})
	require.NoError(t, err)

	updated, err := reg.Update(ctx, p.ID, models.PersonaUpdate{
		Role:  strPtr("Data Analyst"),
		Color: strPtr("blue"),
	})
	require.NoError(t, err)

	// Updated fields change, unset fields keep their values.
	assert.Equal(t, "Data Analyst", updated.Role)
	assert.Equal(t, "blue", updated.Color)
	assert.Equal(t, "Casey", updated.Name)
	assert.Equal(t, "avatar.png", updated.Avatar)
	assert.Equal(t, []string{"reports"}, updated.Specialties)
	assert.Equal(t, p.ID, updated.ID)
	assert.True(t, updated.CreatedAt.Equal(p.CreatedAt))

	// The merge persisted.
	got, err := reg.GetByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, "Data Analyst", got.Role)
}

func TestRegistry_EmptyUpdateIsNoOp(t *testing.T) {
	ctx := context.Background()
	reg, _ := newRegistry()

	p, err := reg.Add(ctx, "Drew", "Operations Manager", "", "slate", nil)
	require.NoError(t, err)

	updated, err := reg.Update(ctx, p.ID, models.PersonaUpdate{})
	require.NoError(t, err)
	assert.Equal(t, p.Name, updated.Name)
	assert.Equal(t, p.Role, updated.Role)
}

func TestRegistry_UpdateMissingID(t *testing.T) {
	ctx := context.Background()
	reg, _ := newRegistry()

	_, err := reg.Update(ctx, "missing", models.PersonaUpdate{Name: strPtr("X")})
	assert.ErrorIs(t, err, entity.ErrNotFound)
}

func TestRegistry_RemoveIsIdempotent(t *testing.T) {
	ctx := context.Background()
	reg, _ := newRegistry()

	p, err := reg.Add(ctx, "Jordan", "Sales Assistant", "", "blue", nil)
	require.NoError(t, err)

	require.NoError(t, reg.Remove(ctx, p.ID))
	assert.Empty(t, reg.List(ctx))

	// Second removal of the same id is fine, as is removing an id that
	// never existed.
	assert.NoError(t, reg.Remove(ctx, p.ID))
	assert.NoError(t, reg.Remove(ctx, "never-existed"))
}

func TestRegistry_RemoveDoesNotCascade(t *testing.T) {
	ctx := context.Background()
	store := entity.NewStore(kvstore.NewMemoryKV(), testLogger())
	reg := registry.New(store, testLogger())
	log := chatlog.New(store, testLogger())

	p, err := reg.Add(ctx, "Sam", "Personal Assistant", "", "amber", nil)
	require.NoError(t, err)

	_, err = log.Append(ctx, p.ID, models.ConversationMessage{Role: models.RoleUser, Content: "hi"})
	require.NoError(t, err)

	require.NoError(t, reg.Remove(ctx, p.ID))

	// The conversation log survives persona deletion.
	history := log.History(ctx, p.ID)
	require.Len(t, history, 1)
	assert.Equal(t, "hi", history[0].Content)

	// But id lookups on the dangling persona report not-found.
	_, err = reg.GetByID(ctx, p.ID)
	assert.ErrorIs(t, err, entity.ErrNotFound)
}

// Package brain implements the per-user knowledge store. All queries are
// scoped by the owning user id; a user can never observe another user's
// items through this API.
package brain

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/crewdeskhq/crewdesk/internal/entity"
	"github.com/crewdeskhq/crewdesk/internal/metrics"
	"github.com/crewdeskhq/crewdesk/internal/models"
)

// Store manages knowledge items. Every mutating call persists the owning
// user's full collection synchronously before returning.
type Store struct {
	store  *entity.Store
	logger *slog.Logger
}

// New creates a knowledge store over the given entity store.
func New(store *entity.Store, logger *slog.Logger) *Store {
	return &Store{store: store, logger: logger}
}

// AddInput carries the caller-supplied fields for a new knowledge item.
type AddInput struct {
	Type       models.KnowledgeType
	Title      string
	Content    string
	FileURL    string
	FileType   string
	EmployeeID string
}

// Add creates and persists a knowledge item for the user. The item's type
// must be one of the closed set and is immutable afterwards.
func (s *Store) Add(ctx context.Context, userID string, in AddInput) (*models.KnowledgeItem, error) {
	if strings.TrimSpace(userID) == "" {
		return nil, &models.ValidationError{Field: "userId", Reason: "must not be empty"}
	}
	if !in.Type.IsValid() {
		return nil, &models.ValidationError{Field: "type", Reason: fmt.Sprintf("%q is not one of snippet, website, file", in.Type)}
	}

	item := models.KnowledgeItem{
		ID:         uuid.NewString(),
		Type:       in.Type,
		Title:      in.Title,
		Content:    in.Content,
		Date:       time.Now().UTC(),
		UserID:     userID,
		FileURL:    in.FileURL,
		FileType:   in.FileType,
		EmployeeID: in.EmployeeID,
	}

	items := s.load(ctx, userID)
	items = append(items, item)
	if err := s.store.WriteCollection(ctx, entity.BrainKey(userID), items); err != nil {
		return nil, fmt.Errorf("brain: persisting item: %w", err)
	}

	metrics.Inc(metrics.BrainAddTotal)
	s.logger.Info("brain: added item", "id", item.ID, "user", userID, "type", item.Type)
	return &item, nil
}

// ListByUser returns the user's items in insertion order, optionally
// filtered by type. A nil typeFilter means no filter.
func (s *Store) ListByUser(ctx context.Context, userID string, typeFilter *models.KnowledgeType) []models.KnowledgeItem {
	items := s.load(ctx, userID)
	if typeFilter == nil {
		return items
	}
	filtered := make([]models.KnowledgeItem, 0, len(items))
	for _, it := range items {
		if it.Type == *typeFilter {
			filtered = append(filtered, it)
		}
	}
	return filtered
}

// Search returns the user's items whose title or content contains query,
// case-insensitively. An empty query means no filter and returns the full
// scoped list; callers rely on this for clearing a search.
func (s *Store) Search(ctx context.Context, userID, query string) []models.KnowledgeItem {
	metrics.Inc(metrics.BrainSearch)
	items := s.load(ctx, userID)
	if query == "" {
		return items
	}
	q := strings.ToLower(query)
	var matched []models.KnowledgeItem
	for _, it := range items {
		if strings.Contains(strings.ToLower(it.Title), q) || strings.Contains(strings.ToLower(it.Content), q) {
			matched = append(matched, it)
		}
	}
	return matched
}

// Update merges the partial update into the stored item and refreshes its
// date when title or content change. Nil fields are left unchanged.
func (s *Store) Update(ctx context.Context, userID, id string, upd models.KnowledgeUpdate) (*models.KnowledgeItem, error) {
	items := s.load(ctx, userID)
	for i := range items {
		if items[i].ID != id {
			continue
		}
		touched := false
		if upd.Title != nil {
			items[i].Title = *upd.Title
			touched = true
		}
		if upd.Content != nil {
			items[i].Content = *upd.Content
			touched = true
		}
		if upd.FileURL != nil {
			items[i].FileURL = *upd.FileURL
		}
		if upd.FileType != nil {
			items[i].FileType = *upd.FileType
		}
		if upd.EmployeeID != nil {
			items[i].EmployeeID = *upd.EmployeeID
		}
		if touched {
			items[i].Date = time.Now().UTC()
		}
		if err := s.store.WriteCollection(ctx, entity.BrainKey(userID), items); err != nil {
			return nil, fmt.Errorf("brain: persisting update: %w", err)
		}
		it := items[i]
		return &it, nil
	}
	return nil, fmt.Errorf("%w: knowledge item %s", entity.ErrNotFound, id)
}

// Remove deletes the item from the user's collection. Absent ids are ignored.
func (s *Store) Remove(ctx context.Context, userID, id string) error {
	items := s.load(ctx, userID)
	kept := items[:0]
	for _, it := range items {
		if it.ID != id {
			kept = append(kept, it)
		}
	}
	if len(kept) == len(items) {
		return nil
	}
	if err := s.store.WriteCollection(ctx, entity.BrainKey(userID), kept); err != nil {
		return fmt.Errorf("brain: persisting removal: %w", err)
	}
	s.logger.Info("brain: removed item", "id", id, "user", userID)
	return nil
}

func (s *Store) load(ctx context.Context, userID string) []models.KnowledgeItem {
	var items []models.KnowledgeItem
	s.store.ReadCollection(ctx, entity.BrainKey(userID), &items)
	return items
}

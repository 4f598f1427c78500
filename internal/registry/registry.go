// Package registry implements CRUD over the persona collection.
package registry

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

// Registry manages the persona collection. Every mutating call persists the
// full collection synchronously before returning.
type Registry struct {
	store  *entity.Store
	logger *slog.Logger
}

// New creates a persona registry over the given entity store.
func New(store *entity.Store, logger *slog.Logger) *Registry {
	return &Registry{store: store, logger: logger}
}

// Add creates and persists a new persona. Name and role must be non-empty.
func (r *Registry) Add(ctx context.Context, name, role, avatar, color string, specialties []string) (*models.Persona, error) {
	if strings.TrimSpace(name) == "" {
		return nil, &models.ValidationError{Field: "name", Reason: "must not be empty"}
	}
	if strings.TrimSpace(role) == "" {
		return nil, &models.ValidationError{Field: "role", Reason: "must not be empty"}
	}

	p := models.Persona{
		ID:          uuid.NewString(),
		Name:        name,
		Role:        role,
		Avatar:      avatar,
		Color:       color,
		Specialties: specialties,
		CreatedAt:   time.Now().UTC(),
	}

	personas := r.load(ctx)
	personas = append(personas, p)
	if err := r.store.WriteCollection(ctx, entity.KeyPersonas, personas); err != nil {
		return nil, fmt.Errorf("registry: persisting persona: %w", err)
	}

	metrics.Inc(metrics.PersonaAddTotal)
	r.logger.Info("registry: added persona", "id", p.ID, "name", p.Name, "role", p.Role)
	return &p, nil
}

// List returns the full persona collection in insertion order.
func (r *Registry) List(ctx context.Context) []models.Persona {
	return r.load(ctx)
}

// GetByID returns the persona with the given id, or entity.ErrNotFound.
func (r *Registry) GetByID(ctx context.Context, id string) (*models.Persona, error) {
	for _, p := range r.load(ctx) {
		if p.ID == id {
			return &p, nil
		}
	}
	return nil, fmt.Errorf("%w: persona %s", entity.ErrNotFound, id)
}

// Update merges the partial update into the stored persona. Nil fields are
// left unchanged; an empty update is a persisted no-op.
func (r *Registry) Update(ctx context.Context, id string, upd models.PersonaUpdate) (*models.Persona, error) {
	personas := r.load(ctx)
	for i := range personas {
		if personas[i].ID != id {
			continue
		}
		if upd.Name != nil {
			personas[i].Name = *upd.Name
		}
		if upd.Role != nil {
			personas[i].Role = *upd.Role
		}
		if upd.Avatar != nil {
			personas[i].Avatar = *upd.Avatar
		}
		if upd.Color != nil {
			personas[i].Color = *upd.Color
		}
		if upd.Specialties != nil {
			personas[i].Specialties = upd.Specialties
		}
		if err := r.store.WriteCollection(ctx, entity.KeyPersonas, personas); err != nil {
			return nil, fmt.Errorf("registry: persisting update: %w", err)
		}
		p := personas[i]
		return &p, nil
	}
	return nil, fmt.Errorf("%w: persona %s", entity.ErrNotFound, id)
}

// Remove deletes the persona with the given id. Absent ids are ignored.
// The persona's conversation log and any knowledge items referencing it are
// left untouched; dependent lookups on the dangling id report not-found.
func (r *Registry) Remove(ctx context.Context, id string) error {
	personas := r.load(ctx)
	kept := personas[:0]
	for _, p := range personas {
		if p.ID != id {
			kept = append(kept, p)
		}
	}
	if len(kept) == len(personas) {
		return nil
	}
	if err := r.store.WriteCollection(ctx, entity.KeyPersonas, kept); err != nil {
		return fmt.Errorf("registry: persisting removal: %w", err)
	}
	r.logger.Info("registry: removed persona", "id", id)
	return nil
}

func (r *Registry) load(ctx context.Context) []models.Persona {
	var personas []models.Persona
	r.store.ReadCollection(ctx, entity.KeyPersonas, &personas)
	return personas
}

// Package entity implements the Entity Store: a durable mapping from a
// collection key to an ordered list of JSON-serialized records, backed by a
// kvstore.KV medium.
//
// Reads are soft-failing: an absent key, an unreadable medium, or a payload
// that fails to parse all yield an empty collection (logged, never
// surfaced as an error). Writes fully replace the prior value and report
// failures upward. There is no atomicity across two keys; callers needing
// multi-key consistency must coordinate above this layer.
package entity

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/crewdeskhq/crewdesk/internal/kvstore"
)

// ErrNotFound is returned by id lookups with no match. Missing records are
// an expected case (e.g. a persona deleted elsewhere), never fatal.
var ErrNotFound = errors.New("record not found")

// Collection key layout. One key for the persona collection, one key per
// user for their brain, one key per persona for its conversation log.
const (
	KeyPersonas    = "personas"
	brainKeyPrefix = "brain:"
	chatKeyPrefix  = "chat:"
)

// BrainKey returns the collection key for a user's knowledge items.
func BrainKey(userID string) string {
	return brainKeyPrefix + userID
}

// ChatKey returns the collection key for a persona's conversation log.
func ChatKey(personaID string) string {
	return chatKeyPrefix + personaID
}

// Store reads and writes typed record collections over a KV medium.
type Store struct {
	kv     kvstore.KV
	logger *slog.Logger
}

// NewStore creates an entity store over the given medium.
func NewStore(kv kvstore.KV, logger *slog.Logger) *Store {
	return &Store{kv: kv, logger: logger}
}

// ReadCollection unmarshals the collection stored under key into out,
// which must be a pointer to a slice. Absent keys, storage failures, and
// parse failures all leave out as the empty collection.
func (s *Store) ReadCollection(ctx context.Context, key string, out any) {
	data, err := s.kv.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, kvstore.ErrNotFound) {
			s.logger.Warn("entity: read failed, treating as empty", "key", key, "error", err)
		}
		return
	}
	if err := json.Unmarshal(data, out); err != nil {
		s.logger.Warn("entity: corrupt collection, treating as empty", "key", key, "error", err)
	}
}

// WriteCollection marshals records and fully replaces the value under key.
func (s *Store) WriteCollection(ctx context.Context, key string, records any) error {
	data, err := json.Marshal(records)
	if err != nil {
		return fmt.Errorf("entity: marshaling collection %s: %w", key, err)
	}
	if err := s.kv.Put(ctx, key, data); err != nil {
		return fmt.Errorf("entity: writing collection %s: %w", key, err)
	}
	return nil
}

// DeleteCollection removes the collection under key. Absent keys are ignored.
func (s *Store) DeleteCollection(ctx context.Context, key string) error {
	if err := s.kv.Delete(ctx, key); err != nil {
		return fmt.Errorf("entity: deleting collection %s: %w", key, err)
	}
	return nil
}

// WorkspaceStats summarizes the stored collections.
type WorkspaceStats struct {
	Personas      int `json:"personas"`
	BrainUsers    int `json:"brain_users"`
	Conversations int `json:"conversations"`
}

// Stats counts collection partitions across the key space.
func (s *Store) Stats(ctx context.Context) (*WorkspaceStats, error) {
	stats := &WorkspaceStats{}

	var personas []json.RawMessage
	s.ReadCollection(ctx, KeyPersonas, &personas)
	stats.Personas = len(personas)

	brainKeys, err := s.kv.Keys(ctx, brainKeyPrefix)
	if err != nil {
		return nil, fmt.Errorf("entity: counting brain collections: %w", err)
	}
	stats.BrainUsers = len(brainKeys)

	chatKeys, err := s.kv.Keys(ctx, chatKeyPrefix)
	if err != nil {
		return nil, fmt.Errorf("entity: counting conversation logs: %w", err)
	}
	for _, k := range chatKeys {
		// A cleared log may linger as an empty collection; count only
		// keys that still name a persona partition.
		if strings.TrimPrefix(k, chatKeyPrefix) != "" {
			stats.Conversations++
		}
	}

	return stats, nil
}

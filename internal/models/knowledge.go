package models

import "time"

// KnowledgeType classifies the kind of knowledge item.
type KnowledgeType string

const (
	KnowledgeTypeSnippet KnowledgeType = "snippet"
	KnowledgeTypeWebsite KnowledgeType = "website"
	KnowledgeTypeFile    KnowledgeType = "file"
)

// ValidKnowledgeTypes is the set of all valid knowledge item types.
var ValidKnowledgeTypes = []KnowledgeType{
	KnowledgeTypeSnippet,
	KnowledgeTypeWebsite,
	KnowledgeTypeFile,
}

// IsValid returns true if the knowledge type is recognized.
func (kt KnowledgeType) IsValid() bool {
	for i := range ValidKnowledgeTypes {
		if kt == ValidKnowledgeTypes[i] {
			return true
		}
	}
	return false
}

// KnowledgeItem is a unit of stored reference material scoped to one user.
// For website items Content holds the URL or extracted text; for file items
// it holds extracted or placeholder text.
type KnowledgeItem struct {
	ID      string        `json:"id"`
	Type    KnowledgeType `json:"type"`
	Title   string        `json:"title"`
	Content string        `json:"content"`
	Date    time.Time     `json:"date"`
	UserID  string        `json:"user_id"`

	// FileURL and FileType are only meaningful when Type is "file".
	FileURL  string `json:"file_url,omitempty"`
	FileType string `json:"file_type,omitempty"`

	// EmployeeID is an optional back-reference to an associated persona.
	// It is a weak reference: persisted and returned, never interpreted.
	EmployeeID string `json:"employee_id,omitempty"`
}

// KnowledgeUpdate carries a partial update for a knowledge item.
// Nil fields are left unchanged. Type is deliberately absent: it is
// immutable after creation.
type KnowledgeUpdate struct {
	Title      *string `json:"title,omitempty"`
	Content    *string `json:"content,omitempty"`
	FileURL    *string `json:"file_url,omitempty"`
	FileType   *string `json:"file_type,omitempty"`
	EmployeeID *string `json:"employee_id,omitempty"`
}

package models

import "time"

// MessageRole identifies the author of a conversation message.
type MessageRole string

const (
	RoleUser      MessageRole = "user"
	RoleAssistant MessageRole = "assistant"
)

// ValidMessageRoles is the set of all valid message roles.
var ValidMessageRoles = []MessageRole{
	RoleUser,
	RoleAssistant,
}

// IsValid returns true if the message role is recognized.
func (mr MessageRole) IsValid() bool {
	for i := range ValidMessageRoles {
		if mr == ValidMessageRoles[i] {
			return true
		}
	}
	return false
}

// Attachment is a reference to a file attached to a message.
type Attachment struct {
	Type string `json:"type"`
	Name string `json:"name"`
}

// ConversationMessage is one turn in a persona's conversation log.
// Messages are append-only and ordered by insertion, not by timestamp:
// timestamps may collide under rapid input.
type ConversationMessage struct {
	ID          string       `json:"id"`
	Role        MessageRole  `json:"role"`
	Content     string       `json:"content"`
	Timestamp   time.Time    `json:"timestamp"`
	Attachments []Attachment `json:"attachments,omitempty"`
	Images      []string     `json:"images,omitempty"`
}

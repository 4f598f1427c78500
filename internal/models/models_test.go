package models_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/crewdeskhq/crewdesk/internal/models"
)

func TestKnowledgeType_IsValid(t *testing.T) {
	for _, kt := range models.ValidKnowledgeTypes {
		assert.True(t, kt.IsValid(), "expected %q to be valid", kt)
	}
	assert.False(t, models.KnowledgeType("video").IsValid())
	assert.False(t, models.KnowledgeType("").IsValid())
	assert.False(t, models.KnowledgeType("SNIPPET").IsValid(), "type values are case-sensitive")
}

func TestMessageRole_IsValid(t *testing.T) {
	assert.True(t, models.RoleUser.IsValid())
	assert.True(t, models.RoleAssistant.IsValid())
	assert.False(t, models.MessageRole("system").IsValid())
	assert.False(t, models.MessageRole("").IsValid())
}

func TestBusinessType_IsValid(t *testing.T) {
	for _, bt := range models.ValidBusinessTypes {
		assert.True(t, bt.IsValid(), "expected %q to be valid", bt)
	}
	assert.False(t, models.BusinessType("nonprofit").IsValid())
}

func TestValidationError_Message(t *testing.T) {
	err := &models.ValidationError{Field: "name", Reason: "must not be empty"}
	assert.Equal(t, "invalid name: must not be empty", err.Error())
}

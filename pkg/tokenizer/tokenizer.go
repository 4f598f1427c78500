// Package tokenizer provides rough token accounting for analysis results.
package tokenizer

import "strings"

// EstimateTokens provides a rough token count estimate.
// Uses the heuristic of ~4 characters per token for English text.
func EstimateTokens(text string) int {
	if text == "" {
		return 0
	}
	words := len(strings.Fields(text))
	chars := len(text)

	// Blend of word-based (~1.3 tokens/word) and char-based (~4 chars/token).
	wordEstimate := int(float64(words) * 1.3)
	charEstimate := chars / 4

	return (wordEstimate + charEstimate) / 2
}

// TruncateToTokenBudget truncates text to approximately fit within a token
// budget, cutting at a word boundary where possible.
func TruncateToTokenBudget(text string, budget int) string {
	if budget <= 0 {
		return ""
	}

	if EstimateTokens(text) <= budget {
		return text
	}

	maxChars := budget * 4
	if maxChars >= len(text) {
		return text
	}

	truncated := text[:maxChars]
	lastSpace := strings.LastIndex(truncated, " ")
	if lastSpace > maxChars/2 {
		truncated = truncated[:lastSpace]
	}

	return truncated + "..."
}

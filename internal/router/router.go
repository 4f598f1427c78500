// Package router selects which persona should handle a free-text question.
package router

import (
	"errors"
	"log/slog"
	"strings"

	"github.com/crewdeskhq/crewdesk/internal/metrics"
	"github.com/crewdeskhq/crewdesk/internal/models"
)

// ErrNoPersonas is returned when routing over an empty persona list.
// Callers handle it by provisioning a default team first.
var ErrNoPersonas = errors.New("no personas available")

// Router matches questions to personas.
type Router interface {
	Route(personas []models.Persona, question string) (*models.Persona, error)
}

// KeywordRouter uses a substring heuristic over persona roles.
type KeywordRouter struct {
	logger *slog.Logger
}

// New creates a keyword-based router.
func New(logger *slog.Logger) *KeywordRouter {
	return &KeywordRouter{logger: logger}
}

// Route picks the persona for the question. A persona matches when its
// lowercased role appears as a substring of the lowercased question; the
// last match in list order wins. When nothing matches, the first persona
// is the default. An empty persona list yields ErrNoPersonas.
//
// The last-match-wins ordering is contractual: callers and their tests
// depend on later personas overriding earlier ones on tie.
func (r *KeywordRouter) Route(personas []models.Persona, question string) (*models.Persona, error) {
	if len(personas) == 0 {
		return nil, ErrNoPersonas
	}

	metrics.Inc(metrics.RouteTotal)
	lower := strings.ToLower(question)

	match := -1
	for i := range personas {
		role := strings.ToLower(personas[i].Role)
		if role != "" && strings.Contains(lower, role) {
			match = i
		}
	}

	if match == -1 {
		match = 0
		r.logger.Debug("router: no role match, using default", "persona", personas[0].ID, "question_prefix", truncate(question, 60))
	} else {
		r.logger.Debug("router: matched role", "persona", personas[match].ID, "role", personas[match].Role)
	}

	p := personas[match]
	return &p, nil
}

func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) > n {
		return string(runes[:n]) + "..."
	}
	return s
}

package registry

import (
	"context"
	"fmt"

	"github.com/crewdeskhq/crewdesk/internal/models"
)

// defaultPersona is one entry in a default-team table.
type defaultPersona struct {
	name  string
	role  string
	color string
}

// defaultTeams maps each recognized business type to its starting pair of
// personas. Unrecognized types fall back to genericTeam.
var defaultTeams = map[models.BusinessType][]defaultPersona{
	models.BusinessStartup: {
		{name: "Alex", role: "Growth Marketer", color: "violet"},
		{name: "Morgan", role: "Product Manager", color: "teal"},
	},
	models.BusinessSMB: {
		{name: "Jordan", role: "Sales Assistant", color: "blue"},
		{name: "Riley", role: "Bookkeeper", color: "green"},
	},
	models.BusinessEnterprise: {
		{name: "Casey", role: "Business Analyst", color: "indigo"},
		{name: "Drew", role: "Operations Manager", color: "slate"},
	},
	models.BusinessFreelancer: {
		{name: "Sam", role: "Personal Assistant", color: "amber"},
		{name: "Quinn", role: "Copywriter", color: "rose"},
	},
}

var genericTeam = []defaultPersona{
	{name: "Avery", role: "Assistant", color: "gray"},
	{name: "Robin", role: "Researcher", color: "cyan"},
}

// SeedDefaults creates the default team for the given business type and
// returns the created personas. It always creates new personas; callers
// that want idempotence must check that the registry is empty first.
func (r *Registry) SeedDefaults(ctx context.Context, businessType models.BusinessType) ([]models.Persona, error) {
	team, ok := defaultTeams[businessType]
	if !ok {
		team = genericTeam
	}

	created := make([]models.Persona, 0, len(team))
	for _, d := range team {
		p, err := r.Add(ctx, d.name, d.role, "", d.color, nil)
		if err != nil {
			return created, fmt.Errorf("registry: seeding %s team: %w", businessType, err)
		}
		created = append(created, *p)
	}

	r.logger.Info("registry: seeded default team", "business_type", businessType, "personas", len(created))
	return created, nil
}

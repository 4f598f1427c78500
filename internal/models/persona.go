package models

import "time"

// Persona is a configurable AI employee profile.
type Persona struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Role        string    `json:"role"`
	Avatar      string    `json:"avatar,omitempty"`
	Color       string    `json:"color,omitempty"`
	Specialties []string  `json:"specialties,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

// PersonaUpdate carries a partial update for a persona.
// Nil fields are left unchanged (merge semantics).
type PersonaUpdate struct {
	Name        *string  `json:"name,omitempty"`
	Role        *string  `json:"role,omitempty"`
	Avatar      *string  `json:"avatar,omitempty"`
	Color       *string  `json:"color,omitempty"`
	Specialties []string `json:"specialties,omitempty"`
}

// BusinessType classifies the caller's business for default-team seeding.
type BusinessType string

const (
	BusinessStartup    BusinessType = "startup"
	BusinessSMB        BusinessType = "smb"
	BusinessEnterprise BusinessType = "enterprise"
	BusinessFreelancer BusinessType = "freelancer"
)

// ValidBusinessTypes is the set of business types with a dedicated default team.
var ValidBusinessTypes = []BusinessType{
	BusinessStartup,
	BusinessSMB,
	BusinessEnterprise,
	BusinessFreelancer,
}

// IsValid returns true if the business type has a dedicated default team.
// Unrecognized types are still accepted by the bootstrapper and map to the
// generic fallback team.
func (bt BusinessType) IsValid() bool {
	for i := range ValidBusinessTypes {
		if bt == ValidBusinessTypes[i] {
			return true
		}
	}
	return false
}

package registry_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/crewdeskhq/crewdesk/internal/models"
)

func TestSeedDefaults_KnownBusinessTypes(t *testing.T) {
	tests := []struct {
		businessType models.BusinessType
		wantNames    []string
		wantRoles    []string
	}{
		{
			businessType: models.BusinessStartup,
			wantNames:    []string{"Alex", "Morgan"},
			wantRoles:    []string{"Growth Marketer", "Product Manager"},
		},
		{
			businessType: models.BusinessSMB,
			wantNames:    []string{"Jordan", "Riley"},
			wantRoles:    []string{"Sales Assistant", "Bookkeeper"},
		},
		{
			businessType: models.BusinessEnterprise,
			wantNames:    []string{"Casey", "Drew"},
			wantRoles:    []string{"Business Analyst", "Operations Manager"},
		},
		{
			businessType: models.BusinessFreelancer,
			wantNames:    []string{"Sam", "Quinn"},
			wantRoles:    []string{"Personal Assistant", "Copywriter"},
		},
	}

	for _, tt := range tests {
		t.Run(string(tt.businessType), func(t *testing.T) {
			ctx := context.Background()
			reg, _ := newRegistry()

			created, err := reg.SeedDefaults(ctx, tt.businessType)
			require.NoError(t, err)
			require.Len(t, created, 2)

			for i := range created {
				assert.Equal(t, tt.wantNames[i], created[i].Name)
				assert.Equal(t, tt.wantRoles[i], created[i].Role)
				assert.NotEmpty(t, created[i].ID)
			}
			assert.NotEqual(t, created[0].ID, created[1].ID)

			assert.Len(t, reg.List(ctx), 2)
		})
	}
}

func TestSeedDefaults_UnknownTypeUsesGenericTeam(t *testing.T) {
	ctx := context.Background()
	reg, _ := newRegistry()

	created, err := reg.SeedDefaults(ctx, models.BusinessType("spaceship"))
	require.NoError(t, err)
	require.Len(t, created, 2)
	assert.Equal(t, "Assistant", created[0].Role)
	assert.Equal(t, "Researcher", created[1].Role)
}

func TestSeedDefaults_AlwaysCreates(t *testing.T) {
	ctx := context.Background()
	reg, _ := newRegistry()

	_, err := reg.SeedDefaults(ctx, models.BusinessStartup)
	require.NoError(t, err)
	_, err = reg.SeedDefaults(ctx, models.BusinessStartup)
	require.NoError(t, err)

	// Seeding is not idempotent on its own; callers gate it on an empty
	// registry.
	assert.Len(t, reg.List(ctx), 4)
}

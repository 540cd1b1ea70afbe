package registration

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRoleLabel(t *testing.T) {
	tests := []struct {
		role Role
		want string
	}{
		{role: RoleBuilder, want: "Builder"},
		{role: RoleInteriorDesigner, want: "Interior Designer"},
		{role: RoleArchitect, want: "Architect"},
		{role: RoleContractor, want: "Contractor"},
		{role: RoleRealEstateAgent, want: "Real Estate Agent"},
		{role: RoleVastuConsultant, want: "Vastu Consultant"},
	}

	for _, tt := range tests {
		t.Run(string(tt.role), func(t *testing.T) {
			assert.Equal(t, tt.want, tt.role.Label())
		})
	}
}

func TestParseRole(t *testing.T) {
	role, err := ParseRole("architect")
	assert.NoError(t, err)
	assert.Equal(t, RoleArchitect, role)

	_, err = ParseRole("plumber")
	assert.Error(t, err)
}

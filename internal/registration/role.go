package registration

import (
	"fmt"
	"strings"
)

type Role string

const (
	RoleBuilder          Role = "builder"
	RoleInteriorDesigner Role = "interior-designer"
	RoleArchitect        Role = "architect"
	RoleContractor       Role = "contractor"
	RoleRealEstateAgent  Role = "real-estate-agent"
	RoleVastuConsultant  Role = "vastu-consultant"
)

func (r Role) IsValid() bool {
	switch r {
	case RoleBuilder, RoleInteriorDesigner, RoleArchitect, RoleContractor, RoleRealEstateAgent, RoleVastuConsultant:
		return true
	default:
		return false
	}
}

func (r Role) String() string {
	return string(r)
}

// Label turns a hyphenated role into its display form, e.g.
// "interior-designer" becomes "Interior Designer".
func (r Role) Label() string {
	words := strings.Split(string(r), "-")
	for i, w := range words {
		if w == "" {
			continue
		}
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}

func ParseRole(s string) (Role, error) {
	role := Role(s)
	if !role.IsValid() {
		return "", fmt.Errorf("invalid role: %s", s)
	}
	return role, nil
}

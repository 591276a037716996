package enums

import "fmt"

// CircleRole represents a member's per-circle permission level.
type CircleRole string

const (
	CircleRoleAdmin  CircleRole = "admin"
	CircleRoleMember CircleRole = "member"
)

var validCircleRoles = []CircleRole{
	CircleRoleAdmin,
	CircleRoleMember,
}

// String implements fmt.Stringer.
func (c CircleRole) String() string {
	return string(c)
}

// IsValid reports whether the value is a known CircleRole.
func (c CircleRole) IsValid() bool {
	for _, candidate := range validCircleRoles {
		if candidate == c {
			return true
		}
	}
	return false
}

// ParseCircleRole converts raw input into a CircleRole.
func ParseCircleRole(value string) (CircleRole, error) {
	for _, candidate := range validCircleRoles {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid circle role %q", value)
}

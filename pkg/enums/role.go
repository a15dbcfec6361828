package enums

import "fmt"

// UserRole describes the access level a user carries platform-wide.
type UserRole string

const (
	UserRoleAdmin    UserRole = "admin"
	UserRoleSupplier UserRole = "supplier"
)

func (r UserRole) IsValid() bool {
	switch r {
	case UserRoleAdmin, UserRoleSupplier:
		return true
	}
	return false
}

// ParseUserRole converts raw input into a UserRole or errors on unknown values.
func ParseUserRole(raw string) (UserRole, error) {
	role := UserRole(raw)
	if !role.IsValid() {
		return "", fmt.Errorf("unknown user role %q", raw)
	}
	return role, nil
}

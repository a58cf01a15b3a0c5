package auth

import (
	"strings"

	apperrors "github.com/officialpathway/pathwei-website/internal/platform/errors"
)

// Role is a back-office permission level.
type Role string

const (
	RoleUser   Role = "user"
	RoleEditor Role = "editor"
	RoleAdmin  Role = "admin"
)

// Roles lists every role from least to most privileged.
var Roles = []Role{RoleUser, RoleEditor, RoleAdmin}

// ParseRole validates a role name.
func ParseRole(raw string) (Role, error) {
	role := Role(strings.ToLower(strings.TrimSpace(raw)))
	if role.rank() == 0 {
		return "", apperrors.WithMetadata(apperrors.CodeUserRoleInvalid, "role is not recognised",
			map[string]string{"Role": raw})
	}
	return role, nil
}

// Allows reports whether r meets or exceeds min.
func (r Role) Allows(min Role) bool {
	rank := r.rank()
	return rank > 0 && rank >= min.rank()
}

func (r Role) rank() int {
	switch r {
	case RoleUser:
		return 1
	case RoleEditor:
		return 2
	case RoleAdmin:
		return 3
	default:
		return 0
	}
}

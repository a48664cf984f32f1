package enums

import "fmt"

// ActorRole is the role carried inside access tokens issued by the identity
// provider.
type ActorRole string

const (
	RoleAdmin      ActorRole = "admin"
	RoleOperario   ActorRole = "operario"
	RoleRepartidor ActorRole = "repartidor"
	RoleRecepcion  ActorRole = "recepcion"
)

var validActorRoles = []ActorRole{
	RoleAdmin,
	RoleOperario,
	RoleRepartidor,
	RoleRecepcion,
}

// IsValid reports whether the value matches the canonical role enum.
func (r ActorRole) IsValid() bool {
	for _, candidate := range validActorRoles {
		if candidate == r {
			return true
		}
	}
	return false
}

// ParseActorRole converts the raw string to ActorRole.
func ParseActorRole(value string) (ActorRole, error) {
	for _, candidate := range validActorRoles {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid actor role %q", value)
}

package auth

import (
	"github.com/elcobre-lavanderia/tracking-backend/pkg/enums"
	"github.com/golang-jwt/jwt/v5"
)

// AccessTokenPayload captures the data available when minting a JWT.
type AccessTokenPayload struct {
	ActorID string
	Nombre  string
	Role    enums.ActorRole
	JTI     string
}

// AccessTokenClaims represents the typed JWT presented by panel clients. The
// identity provider mints these; this service only validates them.
type AccessTokenClaims struct {
	ActorID string          `json:"actor_id"`
	Nombre  string          `json:"nombre,omitempty"`
	Role    enums.ActorRole `json:"role"`
	jwt.RegisteredClaims
}

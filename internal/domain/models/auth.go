package models

import "github.com/golang-jwt/jwt/v5"

// AuthClaims are the JWT claims the service consumes. Subject is the
// caller's user ID; Role is an optional platform-wide role claim.
type AuthClaims struct {
	jwt.RegisteredClaims
	Email string `json:"email,omitempty"`
	Role  string `json:"role,omitempty"`
}

// PlatformAdmin reports whether the claims carry the platform admin role,
// required for platform-wide listings.
func (c *AuthClaims) PlatformAdmin() bool {
	return c.Role == "admin"
}

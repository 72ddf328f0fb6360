// Package jwt implements generation and parsing of JWT tokens with the
// service's custom claims.
package jwt

import (
	"github.com/golang-jwt/jwt/v5"
)

// CustomClaims carries the user identity stored in a token.
type CustomClaims struct {
	UserID               int64  `json:"user_id"`
	Email                string `json:"email"`
	jwt.RegisteredClaims        // ExpiresAt, IssuedAt and the other standard claims
}

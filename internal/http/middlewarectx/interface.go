package middlewarectx

import (
	"context"

	"github.com/magabrotheeeer/membership-service/internal/lib/jwt"
)

// Service validates access tokens for the authorization middleware.
type Service interface {
	ValidateToken(ctx context.Context, token string) (*jwt.CustomClaims, error)
}

// Package services contains the business logic for login, token validation
// and the identity confirmation lifecycle.
package services

import (
	"context"
	"errors"
	"time"

	"github.com/magabrotheeeer/membership-service/internal/lib/jwt"
	"github.com/magabrotheeeer/membership-service/internal/lib/password"
	"github.com/magabrotheeeer/membership-service/internal/metrics"
	"github.com/magabrotheeeer/membership-service/internal/models"
)

// ErrInvalidCredentials is returned when the email or password does not
// match a registered user.
var ErrInvalidCredentials = errors.New("invalid credentials")

// UserRepository describes the user lookups and confirmation updates the
// service needs from the store.
type UserRepository interface {
	// GetUserByEmail returns the user holding an active binding for the
	// email address.
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)

	// ConfirmEmailByToken confirms the active email binding and its user.
	ConfirmEmailByToken(ctx context.Context, token string) error

	// ConfirmPhoneByToken confirms the active phone binding.
	ConfirmPhoneByToken(ctx context.Context, token string) error

	// RemoveUnconfirmed deletes unconfirmed users older than the cutoff.
	RemoveUnconfirmed(ctx context.Context, olderThan time.Duration) (int64, error)
}

// AuthService handles login, token validation and confirmation.
type AuthService struct {
	users    UserRepository
	jwtMaker jwt.Maker
}

// NewAuthService creates a new AuthService.
func NewAuthService(users UserRepository, jwtMaker jwt.Maker) *AuthService {
	return &AuthService{
		users:    users,
		jwtMaker: jwtMaker,
	}
}

// Login verifies the password of the user bound to email and issues a JWT.
func (s *AuthService) Login(ctx context.Context, email, rawPassword string) (string, *models.User, error) {
	user, err := s.users.GetUserByEmail(ctx, email)
	if err != nil {
		metrics.LoginsTotal.WithLabelValues("failure").Inc()
		return "", nil, ErrInvalidCredentials
	}
	if err := password.CompareHash(user.PasswordHash, rawPassword); err != nil {
		metrics.LoginsTotal.WithLabelValues("failure").Inc()
		return "", nil, ErrInvalidCredentials
	}
	token, err := s.jwtMaker.GenerateToken(user.ID, email)
	if err != nil {
		return "", nil, err
	}
	metrics.LoginsTotal.WithLabelValues("success").Inc()
	return token, user, nil
}

// ValidateToken checks the JWT and returns the identity it carries.
func (s *AuthService) ValidateToken(_ context.Context, token string) (*jwt.CustomClaims, error) {
	return s.jwtMaker.ParseToken(token)
}

// ConfirmEmail confirms the email binding carrying the token.
func (s *AuthService) ConfirmEmail(ctx context.Context, token string) error {
	return s.users.ConfirmEmailByToken(ctx, token)
}

// ConfirmPhone confirms the phone binding carrying the token.
func (s *AuthService) ConfirmPhone(ctx context.Context, token string) error {
	return s.users.ConfirmPhoneByToken(ctx, token)
}

// RemoveUnconfirmed deletes users that never confirmed within the cutoff.
func (s *AuthService) RemoveUnconfirmed(ctx context.Context, olderThan time.Duration) (int64, error) {
	return s.users.RemoveUnconfirmed(ctx, olderThan)
}

package login

import (
	"context"

	"github.com/magabrotheeeer/membership-service/internal/models"
)

type Service interface {
	Login(ctx context.Context, email, password string) (string, *models.User, error)
}

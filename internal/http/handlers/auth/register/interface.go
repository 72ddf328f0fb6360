package register

import (
	"context"

	"github.com/magabrotheeeer/membership-service/internal/models"
)

type Service interface {
	Register(ctx context.Context, req models.RegistrationRequest) (*models.RegistrationResult, error)
}

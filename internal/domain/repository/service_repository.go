package repository

import (
	"context"

	"clinic-appointment-platform/internal/domain/entity"

	"github.com/google/uuid"
)

type ServiceRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Service, error)
	FindAllActive(ctx context.Context) ([]entity.Service, error)
}

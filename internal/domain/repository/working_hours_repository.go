package repository

import (
	"context"

	"clinic-appointment-platform/internal/domain/entity"

	"github.com/google/uuid"
)

type WorkingHoursRepository interface {
	// FindByDoctorID returns nil, nil when the doctor has no record; the
	// availability resolver then falls back to the configured default window.
	FindByDoctorID(ctx context.Context, doctorID uuid.UUID) (*entity.WorkingHours, error)
	Upsert(ctx context.Context, hours *entity.WorkingHours) error
}

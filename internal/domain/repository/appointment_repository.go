package repository

import (
	"context"

	"clinic-appointment-platform/internal/domain/entity"

	"github.com/google/uuid"
)

// AppointmentRepository contains all appointment persistence needed by the
// booking engine. Create relies on the store's partial unique index over
// (doctor_id, date, time) for non-canceled rows: a duplicate-key error is the
// conflict signal, so check-then-insert races resolve in the store, not in
// application code. UpdateStatus and Acknowledge are compare-and-swap style
// updates; callers inspect the affected row count.
type AppointmentRepository interface {
	Create(ctx context.Context, appointment *entity.Appointment) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Appointment, error)
	Find(ctx context.Context, filter *entity.AppointmentFilter) ([]entity.Appointment, error)

	// UpdateStatus sets status from -> to and clears seen_by_patient.
	// Returns affected rows: 0 means a concurrent transition won.
	UpdateStatus(ctx context.Context, id uuid.UUID, from, to entity.AppointmentStatus) (int64, error)

	// Acknowledge sets seen_by_patient = true without touching status.
	Acknowledge(ctx context.Context, id uuid.UUID) (int64, error)

	CountUnseen(ctx context.Context, patientID uuid.UUID) (int64, error)
}

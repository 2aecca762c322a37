package repository

import (
	"context"
	"errors"

	"clinic-appointment-platform/internal/domain/entity"
	domainRepo "clinic-appointment-platform/internal/domain/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type appointmentRepository struct {
	db *gorm.DB
}

func NewAppointmentRepository(db *gorm.DB) domainRepo.AppointmentRepository {
	return &appointmentRepository{db: db}
}

// Create inserts a new appointment. The partial unique index
// uniq_active_appointment_slot turns a concurrent booking of the same
// (doctor, date, time) into gorm.ErrDuplicatedKey for the loser.
func (r *appointmentRepository) Create(ctx context.Context, appointment *entity.Appointment) error {
	return r.db.WithContext(ctx).Create(appointment).Error
}

func (r *appointmentRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Appointment, error) {
	var appointment entity.Appointment
	err := r.db.WithContext(ctx).
		Preload("Doctor").Preload("Patient").Preload("Service").
		Where("id = ?", id).
		First(&appointment).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &appointment, nil
}

func (r *appointmentRepository) Find(ctx context.Context, filter *entity.AppointmentFilter) ([]entity.Appointment, error) {
	query := r.db.WithContext(ctx).Model(&entity.Appointment{})

	if filter != nil {
		if filter.DoctorID != nil {
			query = query.Where("doctor_id = ?", *filter.DoctorID)
		}
		if filter.PatientID != nil {
			query = query.Where("patient_id = ?", *filter.PatientID)
		}
		if filter.Date != "" {
			query = query.Where("date = ?", filter.Date)
		}
		if filter.Status != nil {
			query = query.Where("status = ?", *filter.Status)
		}
		if filter.UnseenOnly {
			query = query.Where("seen_by_patient = ?", false)
		}
	}

	var appointments []entity.Appointment
	err := query.
		Preload("Doctor").Preload("Patient").Preload("Service").
		Order("date ASC, time ASC").
		Find(&appointments).Error
	if err != nil {
		return nil, err
	}
	return appointments, nil
}

// UpdateStatus atomically moves an appointment from one status to another and
// clears the patient's seen flag. Affected rows: 1 = success, 0 = the record
// is gone or a concurrent transition changed the status first.
func (r *appointmentRepository) UpdateStatus(ctx context.Context, id uuid.UUID, from, to entity.AppointmentStatus) (int64, error) {
	result := r.db.WithContext(ctx).Model(&entity.Appointment{}).
		Where("id = ? AND status = ?", id, from).
		Updates(map[string]interface{}{
			"status":          to,
			"seen_by_patient": false,
		})
	return result.RowsAffected, result.Error
}

func (r *appointmentRepository) Acknowledge(ctx context.Context, id uuid.UUID) (int64, error) {
	result := r.db.WithContext(ctx).Model(&entity.Appointment{}).
		Where("id = ?", id).
		Update("seen_by_patient", true)
	return result.RowsAffected, result.Error
}

func (r *appointmentRepository) CountUnseen(ctx context.Context, patientID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&entity.Appointment{}).
		Where("patient_id = ? AND seen_by_patient = ?", patientID, false).
		Count(&count).Error
	return count, err
}

package repository

import (
	"context"
	"errors"

	"clinic-appointment-platform/internal/domain/entity"
	domainRepo "clinic-appointment-platform/internal/domain/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type workingHoursRepository struct {
	db *gorm.DB
}

func NewWorkingHoursRepository(db *gorm.DB) domainRepo.WorkingHoursRepository {
	return &workingHoursRepository{db: db}
}

func (r *workingHoursRepository) FindByDoctorID(ctx context.Context, doctorID uuid.UUID) (*entity.WorkingHours, error) {
	var hours entity.WorkingHours
	err := r.db.WithContext(ctx).Where("doctor_id = ?", doctorID).First(&hours).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &hours, nil
}

func (r *workingHoursRepository) Upsert(ctx context.Context, hours *entity.WorkingHours) error {
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "doctor_id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"days", "start_time", "end_time", "available", "updated_at",
		}),
	}).Create(hours).Error
}

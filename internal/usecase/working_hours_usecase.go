package usecase

import (
	"context"
	"errors"
	"time"

	"clinic-appointment-platform/internal/converter"
	"clinic-appointment-platform/internal/delivery/dto"
	"clinic-appointment-platform/internal/delivery/http/middleware"
	"clinic-appointment-platform/internal/domain/entity"
	"clinic-appointment-platform/internal/domain/repository"
	"clinic-appointment-platform/internal/service"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

var (
	ErrInvalidWeekday    = errors.New("invalid weekday name")
	ErrInvalidTimeWindow = errors.New("start time must be before end time")
)

type WorkingHoursUsecase interface {
	GetForDoctor(ctx context.Context, doctorID uuid.UUID) (*dto.WorkingHoursResponse, error)
	GetMine(ctx context.Context) (*dto.WorkingHoursResponse, error)
	UpdateMine(ctx context.Context, req *dto.UpdateWorkingHoursRequest) (*dto.WorkingHoursResponse, error)
	UpdateForDoctor(ctx context.Context, doctorID uuid.UUID, req *dto.UpdateWorkingHoursRequest) (*dto.WorkingHoursResponse, error)
}

type workingHoursUsecase struct {
	log              *logrus.Logger
	workingHoursRepo repository.WorkingHoursRepository
	userRepo         repository.UserRepository
	availability     *service.AvailabilityService
	audit            service.AuditService
}

func NewWorkingHoursUsecase(
	log *logrus.Logger,
	workingHoursRepo repository.WorkingHoursRepository,
	userRepo repository.UserRepository,
	availability *service.AvailabilityService,
	audit service.AuditService,
) WorkingHoursUsecase {
	return &workingHoursUsecase{
		log:              log,
		workingHoursRepo: workingHoursRepo,
		userRepo:         userRepo,
		availability:     availability,
		audit:            audit,
	}
}

// GetForDoctor returns a doctor's working hours. Doctors without a stored
// record get the configured default window flagged as such.
func (u *workingHoursUsecase) GetForDoctor(ctx context.Context, doctorID uuid.UUID) (*dto.WorkingHoursResponse, error) {
	doctor, err := u.userRepo.FindByID(ctx, doctorID)
	if err != nil {
		u.log.Warnf("Failed to load doctor %s: %+v", doctorID, err)
		return nil, ErrStoreUnavailable
	}
	if doctor == nil || !doctor.IsDoctor() {
		return nil, ErrDoctorNotFound
	}

	hours, err := u.workingHoursRepo.FindByDoctorID(ctx, doctorID)
	if err != nil {
		u.log.Warnf("Failed to load working hours for doctor %s: %+v", doctorID, err)
		return nil, ErrStoreUnavailable
	}
	if hours == nil {
		return converter.WorkingHoursToResponse(u.availability.DefaultWindow(doctorID), true), nil
	}

	return converter.WorkingHoursToResponse(hours, false), nil
}

// GetMine returns the calling doctor's working hours.
func (u *workingHoursUsecase) GetMine(ctx context.Context) (*dto.WorkingHoursResponse, error) {
	userID, ok := middleware.GetUserIDFromContext(ctx)
	if !ok {
		return nil, errors.New("user not found in context")
	}
	return u.GetForDoctor(ctx, userID)
}

// UpdateMine upserts the calling doctor's working hours.
func (u *workingHoursUsecase) UpdateMine(ctx context.Context, req *dto.UpdateWorkingHoursRequest) (*dto.WorkingHoursResponse, error) {
	userID, ok := middleware.GetUserIDFromContext(ctx)
	if !ok {
		return nil, errors.New("user not found in context")
	}
	return u.upsert(ctx, userID, userID, req)
}

// UpdateForDoctor lets an admin upsert any doctor's working hours.
func (u *workingHoursUsecase) UpdateForDoctor(ctx context.Context, doctorID uuid.UUID, req *dto.UpdateWorkingHoursRequest) (*dto.WorkingHoursResponse, error) {
	userID, ok := middleware.GetUserIDFromContext(ctx)
	if !ok {
		return nil, errors.New("user not found in context")
	}

	doctor, err := u.userRepo.FindByID(ctx, doctorID)
	if err != nil {
		u.log.Warnf("Failed to load doctor %s: %+v", doctorID, err)
		return nil, ErrStoreUnavailable
	}
	if doctor == nil || !doctor.IsDoctor() {
		return nil, ErrDoctorNotFound
	}

	return u.upsert(ctx, userID, doctorID, req)
}

func (u *workingHoursUsecase) upsert(ctx context.Context, actorID, doctorID uuid.UUID, req *dto.UpdateWorkingHoursRequest) (*dto.WorkingHoursResponse, error) {
	days, err := normalizeDays(req.Days)
	if err != nil {
		return nil, err
	}

	startTime, err := normalizeClock(req.StartTime)
	if err != nil {
		return nil, ErrInvalidTimeFormat
	}
	endTime, err := normalizeClock(req.EndTime)
	if err != nil {
		return nil, ErrInvalidTimeFormat
	}
	if startTime >= endTime {
		return nil, ErrInvalidTimeWindow
	}

	available := true
	if req.Available != nil {
		available = *req.Available
	}

	hours := &entity.WorkingHours{
		DoctorID:  doctorID,
		Days:      days,
		StartTime: startTime,
		EndTime:   endTime,
		Available: available,
	}

	if err := u.workingHoursRepo.Upsert(ctx, hours); err != nil {
		u.log.Warnf("Failed to upsert working hours for doctor %s: %+v", doctorID, err)
		return nil, ErrStoreUnavailable
	}

	u.audit.Record(ctx, &actorID, entity.AuditActionWorkingHoursUpdate, entity.JSON{
		"doctor_id":  doctorID.String(),
		"days":       []string(days),
		"start_time": startTime,
		"end_time":   endTime,
		"available":  available,
	})

	u.log.Infof("Working hours updated: doctor=%s window=%s-%s days=%d", doctorID, startTime, endTime, len(days))
	return converter.WorkingHoursToResponse(hours, false), nil
}

// normalizeDays validates weekday names and drops duplicates while keeping
// the caller's order.
func normalizeDays(days []string) (entity.WeekdaySet, error) {
	seen := make(map[string]bool, len(days))
	result := make(entity.WeekdaySet, 0, len(days))
	for _, day := range days {
		if !entity.ValidWeekday(day) {
			return nil, ErrInvalidWeekday
		}
		if seen[day] {
			continue
		}
		seen[day] = true
		result = append(result, day)
	}
	return result, nil
}

// normalizeClock validates an HH:MM value and reformats it canonically.
func normalizeClock(value string) (string, error) {
	t, err := time.Parse("15:04", value)
	if err != nil {
		return "", err
	}
	return t.Format("15:04"), nil
}

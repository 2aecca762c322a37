package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"clinic-appointment-platform/config"
	"clinic-appointment-platform/internal/domain/entity"
	"clinic-appointment-platform/internal/domain/repository"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// ErrInvalidWorkingHours is returned when a doctor's working-hours record is
// malformed (unparseable times or start >= end). It is fatal to availability
// resolution for that doctor and should reach the clinic admin, not be
// papered over with an empty slot list.
var ErrInvalidWorkingHours = errors.New("invalid working hours configuration")

// AvailabilityService resolves the bookable slots of a doctor on a given
// date from the doctor's working-hours record. Dates and times are treated
// as clinic-local wall-clock values throughout; no time zone conversion is
// ever applied.
type AvailabilityService struct {
	log              *logrus.Logger
	workingHoursRepo repository.WorkingHoursRepository
	cfg              config.SchedulingConfig
}

func NewAvailabilityService(
	log *logrus.Logger,
	workingHoursRepo repository.WorkingHoursRepository,
	cfg config.SchedulingConfig,
) *AvailabilityService {
	return &AvailabilityService{
		log:              log,
		workingHoursRepo: workingHoursRepo,
		cfg:              cfg,
	}
}

// ResolveSlots returns the ordered HH:MM slots a doctor can be booked at on
// the given date. Doctors without a working-hours record fall back to the
// configured default window. An unavailable doctor, or a date outside the
// doctor's weekdays, yields an empty list.
func (s *AvailabilityService) ResolveSlots(ctx context.Context, doctorID uuid.UUID, date time.Time) ([]string, error) {
	hours, err := s.workingHoursRepo.FindByDoctorID(ctx, doctorID)
	if err != nil {
		return nil, fmt.Errorf("load working hours: %w", err)
	}
	if hours == nil {
		s.log.Debugf("No working hours for doctor %s, using default window", doctorID)
		hours = s.defaultWorkingHours(doctorID)
	}

	if !hours.Available {
		return []string{}, nil
	}
	if !hours.Days.Contains(date.Weekday()) {
		return []string{}, nil
	}

	return buildSlots(hours.StartTime, hours.EndTime, s.cfg.SlotMinutes)
}

// DefaultWindow exposes the configured fallback so callers can flag it to
// clients (a doctor seeing the default should know it is not their own).
func (s *AvailabilityService) DefaultWindow(doctorID uuid.UUID) *entity.WorkingHours {
	return s.defaultWorkingHours(doctorID)
}

func (s *AvailabilityService) defaultWorkingHours(doctorID uuid.UUID) *entity.WorkingHours {
	return &entity.WorkingHours{
		DoctorID:  doctorID,
		Days:      entity.WeekdaySet(s.cfg.DefaultDays),
		StartTime: s.cfg.DefaultStartTime,
		EndTime:   s.cfg.DefaultEndTime,
		Available: true,
	}
}

// buildSlots partitions [start, end) into fixed-size slots. Pure minute
// arithmetic on wall-clock values keeps slot boundaries deterministic and
// immune to DST or zone drift.
func buildSlots(start, end string, slotMinutes int) ([]string, error) {
	startMin, err := parseClock(start)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidWorkingHours, err)
	}
	endMin, err := parseClock(end)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidWorkingHours, err)
	}
	if startMin >= endMin {
		return nil, fmt.Errorf("%w: start %s is not before end %s", ErrInvalidWorkingHours, start, end)
	}
	if slotMinutes <= 0 {
		return nil, fmt.Errorf("%w: slot granularity %d minutes", ErrInvalidWorkingHours, slotMinutes)
	}

	var slots []string
	for m := startMin; m+slotMinutes <= endMin; m += slotMinutes {
		slots = append(slots, fmt.Sprintf("%02d:%02d", m/60, m%60))
	}
	if slots == nil {
		slots = []string{}
	}
	return slots, nil
}

// parseClock converts HH:MM to minutes since midnight.
func parseClock(value string) (int, error) {
	t, err := time.Parse("15:04", value)
	if err != nil {
		return 0, fmt.Errorf("parse time %q: %v", value, err)
	}
	return t.Hour()*60 + t.Minute(), nil
}

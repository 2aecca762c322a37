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
	"gorm.io/gorm"
)

var (
	ErrAppointmentNotFound = errors.New("appointment not found")
	ErrDoctorNotFound      = errors.New("doctor not found")
	ErrPatientNotFound     = errors.New("patient not found")
	ErrServiceNotFound     = errors.New("service not found")
	ErrInvalidDateFormat   = errors.New("invalid date format, use YYYY-MM-DD")
	ErrInvalidTimeFormat   = errors.New("invalid time format, use HH:MM")
	ErrDateInPast          = errors.New("appointment date is in the past")
	ErrOutsideAvailability = errors.New("requested time is outside the doctor's availability")
	ErrSlotTaken           = errors.New("slot is already booked")
	ErrInvalidTransition   = errors.New("invalid status transition")
	ErrAppointmentNotDue   = errors.New("appointment time has not passed yet")
	ErrActionNotAllowed    = errors.New("action not permitted for this user")
	ErrStoreUnavailable    = errors.New("store temporarily unavailable")
)

// BadgeCache is the slice of the badge service the appointment flow needs.
type BadgeCache interface {
	UnseenCount(ctx context.Context, patientID uuid.UUID) (int64, error)
	Invalidate(ctx context.Context, patientID uuid.UUID)
}

type AppointmentUsecase interface {
	RequestAppointment(ctx context.Context, req *dto.RequestAppointmentRequest) (*dto.AppointmentResponse, error)
	ListAppointments(ctx context.Context, filter *entity.AppointmentFilter) (*dto.AppointmentListResponse, error)
	GetAvailability(ctx context.Context, doctorID uuid.UUID, date string) (*dto.AvailabilityResponse, error)
	Transition(ctx context.Context, appointmentID uuid.UUID, action entity.TransitionAction) (*dto.AppointmentResponse, error)
	UnseenCount(ctx context.Context) (*dto.UnseenCountResponse, error)
}

type appointmentUsecase struct {
	log             *logrus.Logger
	appointmentRepo repository.AppointmentRepository
	userRepo        repository.UserRepository
	serviceRepo     repository.ServiceRepository
	availability    *service.AvailabilityService
	audit           service.AuditService
	badge           BadgeCache

	// now is swapped in tests; everything clinic-local wall clock.
	now func() time.Time
}

func NewAppointmentUsecase(
	log *logrus.Logger,
	appointmentRepo repository.AppointmentRepository,
	userRepo repository.UserRepository,
	serviceRepo repository.ServiceRepository,
	availability *service.AvailabilityService,
	audit service.AuditService,
	badge BadgeCache,
) AppointmentUsecase {
	return &appointmentUsecase{
		log:             log,
		appointmentRepo: appointmentRepo,
		userRepo:        userRepo,
		serviceRepo:     serviceRepo,
		availability:    availability,
		audit:           audit,
		badge:           badge,
		now:             time.Now,
	}
}

// RequestAppointment validates a requested slot against the doctor's
// availability and books it. The conflict check is the insert itself: the
// store's unique index over active (doctor, date, time) rows makes exactly
// one of any set of racing requests win; losers get ErrSlotTaken. Either the
// whole operation succeeds or nothing is persisted.
func (u *appointmentUsecase) RequestAppointment(ctx context.Context, req *dto.RequestAppointmentRequest) (*dto.AppointmentResponse, error) {
	userID, ok := middleware.GetUserIDFromContext(ctx)
	if !ok {
		return nil, errors.New("user not found in context")
	}
	roleID, _ := middleware.GetRoleIDFromContext(ctx)

	// Patients always book for themselves; an admin may book on behalf of a
	// patient by supplying patient_id.
	patientID := userID
	if roleID == entity.RoleIDAdmin {
		if req.PatientID == nil {
			return nil, ErrPatientNotFound
		}
		patientID = *req.PatientID
	}

	date, err := time.Parse("2006-01-02", req.Date)
	if err != nil {
		return nil, ErrInvalidDateFormat
	}
	slotTime, err := time.Parse("15:04", req.Time)
	if err != nil {
		return nil, ErrInvalidTimeFormat
	}
	normalizedTime := slotTime.Format("15:04")

	// Compare as canonical date strings; both sides are clinic-local days,
	// so no instant arithmetic is needed.
	if date.Format("2006-01-02") < u.now().Format("2006-01-02") {
		return nil, ErrDateInPast
	}

	doctor, err := u.userRepo.FindByID(ctx, req.DoctorID)
	if err != nil {
		u.log.Warnf("Failed to load doctor %s: %+v", req.DoctorID, err)
		return nil, ErrStoreUnavailable
	}
	if doctor == nil || !doctor.IsDoctor() || !doctor.IsActive {
		return nil, ErrDoctorNotFound
	}

	patient, err := u.userRepo.FindByID(ctx, patientID)
	if err != nil {
		u.log.Warnf("Failed to load patient %s: %+v", patientID, err)
		return nil, ErrStoreUnavailable
	}
	if patient == nil || !patient.IsPatient() || !patient.IsActive {
		return nil, ErrPatientNotFound
	}

	if req.ServiceID != nil {
		svc, err := u.serviceRepo.FindByID(ctx, *req.ServiceID)
		if err != nil {
			u.log.Warnf("Failed to load service %s: %+v", *req.ServiceID, err)
			return nil, ErrStoreUnavailable
		}
		if svc == nil || !svc.IsActive {
			return nil, ErrServiceNotFound
		}
	}

	slots, err := u.availability.ResolveSlots(ctx, req.DoctorID, date)
	if err != nil {
		if errors.Is(err, service.ErrInvalidWorkingHours) {
			return nil, err
		}
		u.log.Warnf("Failed to resolve slots for doctor %s: %+v", req.DoctorID, err)
		return nil, ErrStoreUnavailable
	}
	if !containsSlot(slots, normalizedTime) {
		return nil, ErrOutsideAvailability
	}

	appointment := &entity.Appointment{
		ID:        uuid.New(),
		DoctorID:  req.DoctorID,
		PatientID: patientID,
		ServiceID: req.ServiceID,
		Date:      date,
		Time:      normalizedTime,
		Status:    entity.StatusPending,
	}

	if err := u.appointmentRepo.Create(ctx, appointment); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrSlotTaken
		}
		u.log.Warnf("Failed to create appointment: %+v", err)
		return nil, ErrStoreUnavailable
	}

	u.audit.Record(ctx, &userID, entity.AuditActionAppointmentRequest, entity.JSON{
		"appointment_id": appointment.ID.String(),
		"doctor_id":      req.DoctorID.String(),
		"patient_id":     patientID.String(),
		"date":           req.Date,
		"time":           normalizedTime,
	})
	u.badge.Invalidate(ctx, patientID)

	u.log.Infof("Appointment requested: id=%s doctor=%s date=%s time=%s",
		appointment.ID, req.DoctorID, req.Date, normalizedTime)
	return converter.AppointmentToResponse(appointment), nil
}

// ListAppointments returns appointments matching the filter, ordered by
// (date, time) ascending. Patients and doctors are scoped to their own
// records regardless of the filter they send; admins may query freely.
func (u *appointmentUsecase) ListAppointments(ctx context.Context, filter *entity.AppointmentFilter) (*dto.AppointmentListResponse, error) {
	userID, ok := middleware.GetUserIDFromContext(ctx)
	if !ok {
		return nil, errors.New("user not found in context")
	}
	roleID, _ := middleware.GetRoleIDFromContext(ctx)

	if filter == nil {
		filter = &entity.AppointmentFilter{}
	}
	switch roleID {
	case entity.RoleIDPatient:
		filter.PatientID = &userID
	case entity.RoleIDDoctor:
		filter.DoctorID = &userID
	}

	appointments, err := u.appointmentRepo.Find(ctx, filter)
	if err != nil {
		u.log.Warnf("Failed to list appointments: %+v", err)
		return nil, ErrStoreUnavailable
	}

	return &dto.AppointmentListResponse{
		Appointments: converter.AppointmentsToResponses(appointments),
		Total:        len(appointments),
	}, nil
}

// GetAvailability returns the ordered bookable slots for a doctor on a date.
func (u *appointmentUsecase) GetAvailability(ctx context.Context, doctorID uuid.UUID, date string) (*dto.AvailabilityResponse, error) {
	parsed, err := time.Parse("2006-01-02", date)
	if err != nil {
		return nil, ErrInvalidDateFormat
	}

	doctor, err := u.userRepo.FindByID(ctx, doctorID)
	if err != nil {
		u.log.Warnf("Failed to load doctor %s: %+v", doctorID, err)
		return nil, ErrStoreUnavailable
	}
	if doctor == nil || !doctor.IsDoctor() {
		return nil, ErrDoctorNotFound
	}

	slots, err := u.availability.ResolveSlots(ctx, doctorID, parsed)
	if err != nil {
		if errors.Is(err, service.ErrInvalidWorkingHours) {
			return nil, err
		}
		u.log.Warnf("Failed to resolve slots for doctor %s: %+v", doctorID, err)
		return nil, ErrStoreUnavailable
	}

	return &dto.AvailabilityResponse{
		DoctorID: doctorID,
		Date:     parsed.Format("2006-01-02"),
		Slots:    slots,
	}, nil
}

// Transition applies a lifecycle action to an appointment. Status moves
// through a compare-and-swap update keyed on the observed status, so of two
// concurrent transitions exactly one wins; the loser sees the record in its
// new state and fails with ErrInvalidTransition. Acknowledge flips the
// patient's seen flag without touching status.
func (u *appointmentUsecase) Transition(ctx context.Context, appointmentID uuid.UUID, action entity.TransitionAction) (*dto.AppointmentResponse, error) {
	userID, ok := middleware.GetUserIDFromContext(ctx)
	if !ok {
		return nil, errors.New("user not found in context")
	}
	roleID, _ := middleware.GetRoleIDFromContext(ctx)

	appointment, err := u.appointmentRepo.FindByID(ctx, appointmentID)
	if err != nil {
		u.log.Warnf("Failed to load appointment %s: %+v", appointmentID, err)
		return nil, ErrStoreUnavailable
	}
	if appointment == nil {
		return nil, ErrAppointmentNotFound
	}

	if err := u.authorizeAction(appointment, action, userID, roleID); err != nil {
		return nil, err
	}

	if action == entity.ActionAcknowledge {
		return u.acknowledge(ctx, appointment, userID)
	}

	target, ok := action.TargetStatus()
	if !ok {
		return nil, ErrInvalidTransition
	}
	if !appointment.Status.CanTransitionTo(target) {
		return nil, ErrInvalidTransition
	}
	if target == entity.StatusCompleted {
		startsAt, err := appointment.StartsAt()
		if err != nil {
			u.log.Warnf("Appointment %s has malformed time %q: %+v", appointmentID, appointment.Time, err)
			return nil, ErrInvalidTransition
		}
		if u.now().Before(startsAt) {
			return nil, ErrAppointmentNotDue
		}
	}

	affected, err := u.appointmentRepo.UpdateStatus(ctx, appointmentID, appointment.Status, target)
	if err != nil {
		u.log.Warnf("Failed to transition appointment %s to %s: %+v", appointmentID, target, err)
		return nil, ErrStoreUnavailable
	}
	if affected == 0 {
		// A concurrent transition changed the status first; report against
		// the state the winner left behind.
		return nil, ErrInvalidTransition
	}

	u.audit.Record(ctx, &userID, auditActionFor(action), entity.JSON{
		"appointment_id": appointmentID.String(),
		"from":           string(appointment.Status),
		"to":             string(target),
	})
	u.badge.Invalidate(ctx, appointment.PatientID)

	updated, err := u.appointmentRepo.FindByID(ctx, appointmentID)
	if err != nil || updated == nil {
		// The transition itself succeeded; fall back to the local copy.
		appointment.Status = target
		appointment.SeenByPatient = false
		return converter.AppointmentToResponse(appointment), nil
	}

	u.log.Infof("Appointment %s: %s -> %s by user %s", appointmentID, appointment.Status, target, userID)
	return converter.AppointmentToResponse(updated), nil
}

// UnseenCount returns the caller's notification badge count.
func (u *appointmentUsecase) UnseenCount(ctx context.Context) (*dto.UnseenCountResponse, error) {
	userID, ok := middleware.GetUserIDFromContext(ctx)
	if !ok {
		return nil, errors.New("user not found in context")
	}

	count, err := u.badge.UnseenCount(ctx, userID)
	if err != nil {
		u.log.Warnf("Failed to count unseen appointments for %s: %+v", userID, err)
		return nil, ErrStoreUnavailable
	}

	return &dto.UnseenCountResponse{Count: count}, nil
}

// authorizeAction enforces who may perform which lifecycle action:
// approve/complete are doctor- or admin-side; cancel is open to the owning
// patient while pending, and to the doctor or admin at any active stage;
// acknowledge belongs to the owning patient alone.
func (u *appointmentUsecase) authorizeAction(appointment *entity.Appointment, action entity.TransitionAction, userID uuid.UUID, roleID int) error {
	isOwnDoctor := roleID == entity.RoleIDDoctor && appointment.DoctorID == userID
	isOwnPatient := roleID == entity.RoleIDPatient && appointment.PatientID == userID
	isAdmin := roleID == entity.RoleIDAdmin

	switch action {
	case entity.ActionApprove, entity.ActionComplete:
		if isAdmin || isOwnDoctor {
			return nil
		}
	case entity.ActionCancel:
		if isAdmin || isOwnDoctor {
			return nil
		}
		if isOwnPatient && appointment.Status == entity.StatusPending {
			return nil
		}
	case entity.ActionAcknowledge:
		if isOwnPatient {
			return nil
		}
	}
	return ErrActionNotAllowed
}

func (u *appointmentUsecase) acknowledge(ctx context.Context, appointment *entity.Appointment, userID uuid.UUID) (*dto.AppointmentResponse, error) {
	affected, err := u.appointmentRepo.Acknowledge(ctx, appointment.ID)
	if err != nil {
		u.log.Warnf("Failed to acknowledge appointment %s: %+v", appointment.ID, err)
		return nil, ErrStoreUnavailable
	}
	if affected == 0 {
		return nil, ErrAppointmentNotFound
	}

	u.audit.Record(ctx, &userID, entity.AuditActionAppointmentAcknowledge, entity.JSON{
		"appointment_id": appointment.ID.String(),
	})
	u.badge.Invalidate(ctx, appointment.PatientID)

	appointment.SeenByPatient = true
	return converter.AppointmentToResponse(appointment), nil
}

func auditActionFor(action entity.TransitionAction) string {
	switch action {
	case entity.ActionApprove:
		return entity.AuditActionAppointmentApprove
	case entity.ActionCancel:
		return entity.AuditActionAppointmentCancel
	case entity.ActionComplete:
		return entity.AuditActionAppointmentComplete
	case entity.ActionAcknowledge:
		return entity.AuditActionAppointmentAcknowledge
	}
	return "appointment.unknown"
}

func containsSlot(slots []string, t string) bool {
	for _, s := range slots {
		if s == t {
			return true
		}
	}
	return false
}

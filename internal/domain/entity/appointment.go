package entity

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// AppointmentStatus is the closed set of appointment states. Values outside
// this set are rejected at the delivery boundary, never stored.
type AppointmentStatus string

const (
	StatusPending   AppointmentStatus = "pending"
	StatusApproved  AppointmentStatus = "approved"
	StatusCanceled  AppointmentStatus = "canceled"
	StatusCompleted AppointmentStatus = "completed"
)

// ParseStatus validates a status value coming from the outside.
func ParseStatus(s string) (AppointmentStatus, error) {
	switch AppointmentStatus(s) {
	case StatusPending, StatusApproved, StatusCanceled, StatusCompleted:
		return AppointmentStatus(s), nil
	}
	return "", fmt.Errorf("unknown appointment status %q", s)
}

// statusTransitions is the full transition table. Canceled and completed are
// terminal: they have no outgoing edges.
var statusTransitions = map[AppointmentStatus][]AppointmentStatus{
	StatusPending:  {StatusApproved, StatusCanceled},
	StatusApproved: {StatusCanceled, StatusCompleted},
}

// CanTransitionTo reports whether the transition s -> to is legal.
func (s AppointmentStatus) CanTransitionTo(to AppointmentStatus) bool {
	for _, next := range statusTransitions[s] {
		if next == to {
			return true
		}
	}
	return false
}

// IsTerminal reports whether no further transition is permitted.
func (s AppointmentStatus) IsTerminal() bool {
	return len(statusTransitions[s]) == 0
}

// Appointment represents a booked slot between a patient and a doctor.
// DoctorID, PatientID, Date and Time are immutable after creation;
// rescheduling is modeled as cancel + recreate so the slot-uniqueness
// invariant stays an equality check. Canceled rows are kept for audit,
// never deleted.
type Appointment struct {
	ID        uuid.UUID         `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	DoctorID  uuid.UUID         `gorm:"type:uuid;not null;index:idx_appointments_doctor_date" json:"doctor_id"`
	PatientID uuid.UUID         `gorm:"type:uuid;not null;index" json:"patient_id"`
	ServiceID *uuid.UUID        `gorm:"type:uuid" json:"service_id,omitempty"`
	Date      time.Time         `gorm:"type:date;not null;index:idx_appointments_doctor_date" json:"date"`
	Time      string            `gorm:"type:varchar(5);not null" json:"time"` // HH:MM, clinic-local wall clock
	Status    AppointmentStatus `gorm:"type:varchar(20);not null;default:'pending';index" json:"status"`
	// SeenByPatient is the unread-notification sentinel: cleared on every
	// status change, set only by the patient's acknowledge action.
	SeenByPatient bool      `gorm:"not null;default:false" json:"seen_by_patient"`
	CreatedAt     time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt     time.Time `gorm:"autoUpdateTime" json:"updated_at"`

	// Relationships
	Doctor  User     `gorm:"foreignKey:DoctorID" json:"doctor,omitempty"`
	Patient User     `gorm:"foreignKey:PatientID" json:"patient,omitempty"`
	Service *Service `gorm:"foreignKey:ServiceID" json:"service,omitempty"`
}

func (Appointment) TableName() string {
	return "appointments"
}

// OccupiesSlot reports whether this appointment blocks its (doctor, date,
// time) slot. Canceled and completed appointments free the slot.
func (a *Appointment) OccupiesSlot() bool {
	return a.Status == StatusPending || a.Status == StatusApproved
}

// StartsAt combines Date and Time into a clinic-local instant.
func (a *Appointment) StartsAt() (time.Time, error) {
	t, err := time.Parse("15:04", a.Time)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse appointment time %q: %w", a.Time, err)
	}
	return time.Date(a.Date.Year(), a.Date.Month(), a.Date.Day(),
		t.Hour(), t.Minute(), 0, 0, a.Date.Location()), nil
}

// TransitionAction is a lifecycle action requested against an appointment.
type TransitionAction string

const (
	ActionApprove     TransitionAction = "approve"
	ActionCancel      TransitionAction = "cancel"
	ActionComplete    TransitionAction = "complete"
	ActionAcknowledge TransitionAction = "acknowledge"
)

// ParseAction validates an action value coming from the outside.
func ParseAction(s string) (TransitionAction, error) {
	switch TransitionAction(s) {
	case ActionApprove, ActionCancel, ActionComplete, ActionAcknowledge:
		return TransitionAction(s), nil
	}
	return "", fmt.Errorf("unknown appointment action %q", s)
}

// TargetStatus returns the status an action drives the appointment to.
// Acknowledge does not change status and has no target.
func (a TransitionAction) TargetStatus() (AppointmentStatus, bool) {
	switch a {
	case ActionApprove:
		return StatusApproved, true
	case ActionCancel:
		return StatusCanceled, true
	case ActionComplete:
		return StatusCompleted, true
	}
	return "", false
}

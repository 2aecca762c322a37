package entity

import "github.com/google/uuid"

// AppointmentFilter is a domain-level filter for querying appointments.
// Used by the repository layer to avoid coupling with delivery DTOs.
// Results are always ordered by (date, time) ascending.
type AppointmentFilter struct {
	DoctorID   *uuid.UUID
	PatientID  *uuid.UUID
	Date       string // Format: YYYY-MM-DD
	Status     *AppointmentStatus
	UnseenOnly bool // seen_by_patient = false, for the notification badge
}

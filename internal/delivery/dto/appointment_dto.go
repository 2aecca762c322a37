package dto

import (
	"time"

	"github.com/google/uuid"
)

// Request DTOs

type RequestAppointmentRequest struct {
	DoctorID  uuid.UUID  `json:"doctor_id" validate:"required"`
	PatientID *uuid.UUID `json:"patient_id" validate:"omitempty"` // admin booking on behalf of a patient
	ServiceID *uuid.UUID `json:"service_id" validate:"omitempty"`
	Date      string     `json:"date" validate:"required"` // Format: YYYY-MM-DD
	Time      string     `json:"time" validate:"required"` // Format: HH:MM
}

type TransitionAppointmentRequest struct {
	Action string `json:"action" validate:"required"` // approve | cancel | complete | acknowledge
}

// Response DTOs

type AppointmentResponse struct {
	ID            uuid.UUID        `json:"id"`
	DoctorID      uuid.UUID        `json:"doctor_id"`
	PatientID     uuid.UUID        `json:"patient_id"`
	ServiceID     *uuid.UUID       `json:"service_id,omitempty"`
	Date          string           `json:"date"`
	Time          string           `json:"time"`
	Status        string           `json:"status"`
	SeenByPatient bool             `json:"seen_by_patient"`
	Doctor        *UserResponse    `json:"doctor,omitempty"`
	Patient       *UserResponse    `json:"patient,omitempty"`
	Service       *ServiceResponse `json:"service,omitempty"`
	CreatedAt     time.Time        `json:"created_at"`
	UpdatedAt     time.Time        `json:"updated_at"`
}

type AppointmentListResponse struct {
	Appointments []AppointmentResponse `json:"appointments"`
	Total        int                   `json:"total"`
}

type AvailabilityResponse struct {
	DoctorID uuid.UUID `json:"doctor_id"`
	Date     string    `json:"date"`
	Slots    []string  `json:"slots"`
}

type UnseenCountResponse struct {
	Count int64 `json:"count"`
}

type ServiceResponse struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
}

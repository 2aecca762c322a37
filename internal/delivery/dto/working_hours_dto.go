package dto

import (
	"time"

	"github.com/google/uuid"
)

// Request DTOs

type UpdateWorkingHoursRequest struct {
	Days      []string `json:"days" validate:"required,min=1"`
	StartTime string   `json:"start_time" validate:"required"` // Format: HH:MM
	EndTime   string   `json:"end_time" validate:"required"`   // Format: HH:MM
	Available *bool    `json:"available" validate:"omitempty"`
}

// Response DTOs

type WorkingHoursResponse struct {
	DoctorID  uuid.UUID `json:"doctor_id"`
	Days      []string  `json:"days"`
	StartTime string    `json:"start_time"`
	EndTime   string    `json:"end_time"`
	Available bool      `json:"available"`
	// IsDefault marks the configured fallback window for doctors that have
	// no record of their own, so clients can surface it as such.
	IsDefault bool       `json:"is_default"`
	UpdatedAt *time.Time `json:"updated_at,omitempty"`
}

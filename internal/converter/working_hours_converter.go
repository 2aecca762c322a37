package converter

import (
	"clinic-appointment-platform/internal/delivery/dto"
	"clinic-appointment-platform/internal/domain/entity"
)

// WorkingHoursToResponse converts a WorkingHours entity to its response DTO.
// isDefault marks the configured fallback window rather than a stored record.
func WorkingHoursToResponse(hours *entity.WorkingHours, isDefault bool) *dto.WorkingHoursResponse {
	if hours == nil {
		return nil
	}

	response := &dto.WorkingHoursResponse{
		DoctorID:  hours.DoctorID,
		Days:      []string(hours.Days),
		StartTime: hours.StartTime,
		EndTime:   hours.EndTime,
		Available: hours.Available,
		IsDefault: isDefault,
	}
	if !isDefault {
		updatedAt := hours.UpdatedAt
		response.UpdatedAt = &updatedAt
	}

	return response
}

package converter

import (
	"clinic-appointment-platform/internal/delivery/dto"
	"clinic-appointment-platform/internal/domain/entity"

	"github.com/google/uuid"
)

// AppointmentToResponse converts an Appointment entity to its response DTO
func AppointmentToResponse(appointment *entity.Appointment) *dto.AppointmentResponse {
	if appointment == nil {
		return nil
	}

	response := &dto.AppointmentResponse{
		ID:            appointment.ID,
		DoctorID:      appointment.DoctorID,
		PatientID:     appointment.PatientID,
		ServiceID:     appointment.ServiceID,
		Date:          appointment.Date.Format("2006-01-02"),
		Time:          appointment.Time,
		Status:        string(appointment.Status),
		SeenByPatient: appointment.SeenByPatient,
		CreatedAt:     appointment.CreatedAt,
		UpdatedAt:     appointment.UpdatedAt,
	}

	if appointment.Doctor.ID != uuid.Nil {
		response.Doctor = UserToResponse(&appointment.Doctor)
	}
	if appointment.Patient.ID != uuid.Nil {
		response.Patient = UserToResponse(&appointment.Patient)
	}
	if appointment.Service != nil {
		response.Service = &dto.ServiceResponse{
			ID:          appointment.Service.ID,
			Name:        appointment.Service.Name,
			Description: appointment.Service.Description,
		}
	}

	return response
}

// AppointmentsToResponses converts a slice of Appointment entities
func AppointmentsToResponses(appointments []entity.Appointment) []dto.AppointmentResponse {
	responses := make([]dto.AppointmentResponse, len(appointments))
	for i := range appointments {
		resp := AppointmentToResponse(&appointments[i])
		if resp != nil {
			responses[i] = *resp
		}
	}
	return responses
}

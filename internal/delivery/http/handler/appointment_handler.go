package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"clinic-appointment-platform/internal/delivery/dto"
	"clinic-appointment-platform/internal/domain/entity"
	"clinic-appointment-platform/internal/service"
	"clinic-appointment-platform/internal/usecase"
	"clinic-appointment-platform/pkg/response"
	"clinic-appointment-platform/pkg/validator"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
)

type AppointmentHandler struct {
	appointmentUsecase usecase.AppointmentUsecase
	validator          *validator.CustomValidator
}

func NewAppointmentHandler(appointmentUsecase usecase.AppointmentUsecase, validator *validator.CustomValidator) *AppointmentHandler {
	return &AppointmentHandler{
		appointmentUsecase: appointmentUsecase,
		validator:          validator,
	}
}

func (h *AppointmentHandler) RequestAppointment(w http.ResponseWriter, r *http.Request) {
	var req dto.RequestAppointmentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	appointment, err := h.appointmentUsecase.RequestAppointment(r.Context(), &req)
	if err != nil {
		switch err {
		case usecase.ErrDoctorNotFound:
			response.NotFound(w, "Doctor not found")
		case usecase.ErrPatientNotFound:
			response.NotFound(w, "Patient not found")
		case usecase.ErrServiceNotFound:
			response.NotFound(w, "Service not found")
		case usecase.ErrInvalidDateFormat:
			response.Error(w, http.StatusBadRequest, "Invalid date format, use YYYY-MM-DD", nil)
		case usecase.ErrInvalidTimeFormat:
			response.Error(w, http.StatusBadRequest, "Invalid time format, use HH:MM", nil)
		case usecase.ErrDateInPast:
			response.Error(w, http.StatusBadRequest, "Cannot book an appointment in the past", nil)
		case usecase.ErrOutsideAvailability:
			response.Error(w, http.StatusUnprocessableEntity, "Requested time is outside the doctor's availability", nil)
		case usecase.ErrSlotTaken:
			response.Error(w, http.StatusConflict, "This slot is already booked", nil)
		case usecase.ErrStoreUnavailable:
			response.ServiceUnavailable(w, "")
		default:
			if isInvalidWorkingHours(err) {
				response.Error(w, http.StatusUnprocessableEntity, "Doctor's working hours are misconfigured", nil)
				return
			}
			response.InternalServerError(w, "Failed to request appointment")
		}
		return
	}

	response.Success(w, http.StatusCreated, "Appointment requested successfully", appointment)
}

func (h *AppointmentHandler) ListAppointments(w http.ResponseWriter, r *http.Request) {
	filter, err := parseAppointmentFilter(r)
	if err != nil {
		response.Error(w, http.StatusBadRequest, err.Error(), nil)
		return
	}

	appointments, err := h.appointmentUsecase.ListAppointments(r.Context(), filter)
	if err != nil {
		switch err {
		case usecase.ErrStoreUnavailable:
			response.ServiceUnavailable(w, "")
		default:
			response.InternalServerError(w, "Failed to list appointments")
		}
		return
	}

	response.Success(w, http.StatusOK, "Appointments retrieved successfully", appointments)
}

func (h *AppointmentHandler) Transition(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	appointmentID, err := uuid.Parse(vars["id"])
	if err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid appointment ID", nil)
		return
	}

	var req dto.TransitionAppointmentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	action, err := entity.ParseAction(req.Action)
	if err != nil {
		response.Error(w, http.StatusBadRequest, "Unknown action, use approve, cancel, complete or acknowledge", nil)
		return
	}

	appointment, err := h.appointmentUsecase.Transition(r.Context(), appointmentID, action)
	if err != nil {
		switch err {
		case usecase.ErrAppointmentNotFound:
			response.NotFound(w, "Appointment not found")
		case usecase.ErrActionNotAllowed:
			response.Forbidden(w, "You are not allowed to perform this action")
		case usecase.ErrInvalidTransition:
			response.Error(w, http.StatusConflict, "Appointment status does not allow this action", nil)
		case usecase.ErrAppointmentNotDue:
			response.Error(w, http.StatusConflict, "Appointment cannot be completed before its scheduled time", nil)
		case usecase.ErrStoreUnavailable:
			response.ServiceUnavailable(w, "")
		default:
			response.InternalServerError(w, "Failed to update appointment")
		}
		return
	}

	response.Success(w, http.StatusOK, "Appointment updated successfully", appointment)
}

func (h *AppointmentHandler) GetAvailability(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	doctorID, err := uuid.Parse(vars["id"])
	if err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid doctor ID", nil)
		return
	}

	date := r.URL.Query().Get("date")
	if date == "" {
		response.Error(w, http.StatusBadRequest, "Query parameter 'date' is required", nil)
		return
	}

	availability, err := h.appointmentUsecase.GetAvailability(r.Context(), doctorID, date)
	if err != nil {
		switch err {
		case usecase.ErrDoctorNotFound:
			response.NotFound(w, "Doctor not found")
		case usecase.ErrInvalidDateFormat:
			response.Error(w, http.StatusBadRequest, "Invalid date format, use YYYY-MM-DD", nil)
		case usecase.ErrStoreUnavailable:
			response.ServiceUnavailable(w, "")
		default:
			if isInvalidWorkingHours(err) {
				response.Error(w, http.StatusUnprocessableEntity, "Doctor's working hours are misconfigured", nil)
				return
			}
			response.InternalServerError(w, "Failed to resolve availability")
		}
		return
	}

	response.Success(w, http.StatusOK, "Availability retrieved successfully", availability)
}

func (h *AppointmentHandler) UnseenCount(w http.ResponseWriter, r *http.Request) {
	count, err := h.appointmentUsecase.UnseenCount(r.Context())
	if err != nil {
		switch err {
		case usecase.ErrStoreUnavailable:
			response.ServiceUnavailable(w, "")
		default:
			response.InternalServerError(w, "Failed to count unseen appointments")
		}
		return
	}

	response.Success(w, http.StatusOK, "Unseen count retrieved successfully", count)
}

// parseAppointmentFilter reads the optional list query parameters. Role
// scoping happens in the usecase; anything parsed here only narrows further.
func parseAppointmentFilter(r *http.Request) (*entity.AppointmentFilter, error) {
	filter := &entity.AppointmentFilter{}
	query := r.URL.Query()

	if v := query.Get("doctor_id"); v != "" {
		id, err := uuid.Parse(v)
		if err != nil {
			return nil, errInvalidFilter("doctor_id")
		}
		filter.DoctorID = &id
	}
	if v := query.Get("patient_id"); v != "" {
		id, err := uuid.Parse(v)
		if err != nil {
			return nil, errInvalidFilter("patient_id")
		}
		filter.PatientID = &id
	}
	if v := query.Get("date"); v != "" {
		filter.Date = v
	}
	if v := query.Get("status"); v != "" {
		status, err := entity.ParseStatus(v)
		if err != nil {
			return nil, errInvalidFilter("status")
		}
		filter.Status = &status
	}
	if query.Get("unseen") == "true" {
		filter.UnseenOnly = true
	}

	return filter, nil
}

type filterError string

func (e filterError) Error() string { return string(e) }

func errInvalidFilter(field string) error {
	return filterError("Invalid value for query parameter '" + field + "'")
}

func isInvalidWorkingHours(err error) bool {
	return errors.Is(err, service.ErrInvalidWorkingHours)
}

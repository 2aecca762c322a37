package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"clinic-appointment-platform/internal/delivery/dto"
	"clinic-appointment-platform/internal/service"
	"clinic-appointment-platform/internal/usecase"
	"clinic-appointment-platform/pkg/response"
	"clinic-appointment-platform/pkg/validator"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
)

type WorkingHoursHandler struct {
	workingHoursUsecase usecase.WorkingHoursUsecase
	validator           *validator.CustomValidator
}

func NewWorkingHoursHandler(workingHoursUsecase usecase.WorkingHoursUsecase, validator *validator.CustomValidator) *WorkingHoursHandler {
	return &WorkingHoursHandler{
		workingHoursUsecase: workingHoursUsecase,
		validator:           validator,
	}
}

func (h *WorkingHoursHandler) GetMine(w http.ResponseWriter, r *http.Request) {
	hours, err := h.workingHoursUsecase.GetMine(r.Context())
	if err != nil {
		h.writeError(w, err)
		return
	}

	response.Success(w, http.StatusOK, "Working hours retrieved successfully", hours)
}

func (h *WorkingHoursHandler) UpdateMine(w http.ResponseWriter, r *http.Request) {
	var req dto.UpdateWorkingHoursRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	hours, err := h.workingHoursUsecase.UpdateMine(r.Context(), &req)
	if err != nil {
		h.writeError(w, err)
		return
	}

	response.Success(w, http.StatusOK, "Working hours updated successfully", hours)
}

func (h *WorkingHoursHandler) GetForDoctor(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	doctorID, err := uuid.Parse(vars["doctorId"])
	if err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid doctor ID", nil)
		return
	}

	hours, err := h.workingHoursUsecase.GetForDoctor(r.Context(), doctorID)
	if err != nil {
		h.writeError(w, err)
		return
	}

	response.Success(w, http.StatusOK, "Working hours retrieved successfully", hours)
}

func (h *WorkingHoursHandler) UpdateForDoctor(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	doctorID, err := uuid.Parse(vars["doctorId"])
	if err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid doctor ID", nil)
		return
	}

	var req dto.UpdateWorkingHoursRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	hours, err := h.workingHoursUsecase.UpdateForDoctor(r.Context(), doctorID, &req)
	if err != nil {
		h.writeError(w, err)
		return
	}

	response.Success(w, http.StatusOK, "Working hours updated successfully", hours)
}

func (h *WorkingHoursHandler) writeError(w http.ResponseWriter, err error) {
	switch err {
	case usecase.ErrDoctorNotFound:
		response.NotFound(w, "Doctor not found")
	case usecase.ErrInvalidWeekday:
		response.Error(w, http.StatusUnprocessableEntity, "Unknown weekday name", nil)
	case usecase.ErrInvalidTimeFormat:
		response.Error(w, http.StatusBadRequest, "Invalid time format, use HH:MM", nil)
	case usecase.ErrInvalidTimeWindow:
		response.Error(w, http.StatusUnprocessableEntity, "Start time must be before end time", nil)
	case usecase.ErrStoreUnavailable:
		response.ServiceUnavailable(w, "")
	default:
		if errors.Is(err, service.ErrInvalidWorkingHours) {
			response.Error(w, http.StatusUnprocessableEntity, "Working hours are misconfigured", nil)
			return
		}
		response.InternalServerError(w, "Failed to process working hours")
	}
}

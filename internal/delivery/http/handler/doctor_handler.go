package handler

import (
	"net/http"

	"clinic-appointment-platform/internal/usecase"
	"clinic-appointment-platform/pkg/response"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
)

type DoctorHandler struct {
	doctorUsecase usecase.DoctorUsecase
}

func NewDoctorHandler(doctorUsecase usecase.DoctorUsecase) *DoctorHandler {
	return &DoctorHandler{doctorUsecase: doctorUsecase}
}

func (h *DoctorHandler) ListDoctors(w http.ResponseWriter, r *http.Request) {
	doctors, err := h.doctorUsecase.ListDoctors(r.Context())
	if err != nil {
		switch err {
		case usecase.ErrStoreUnavailable:
			response.ServiceUnavailable(w, "")
		default:
			response.InternalServerError(w, "Failed to list doctors")
		}
		return
	}

	response.Success(w, http.StatusOK, "Doctors retrieved successfully", doctors)
}

func (h *DoctorHandler) GetDoctor(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	doctorID, err := uuid.Parse(vars["id"])
	if err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid doctor ID", nil)
		return
	}

	doctor, err := h.doctorUsecase.GetDoctor(r.Context(), doctorID)
	if err != nil {
		switch err {
		case usecase.ErrDoctorNotFound:
			response.NotFound(w, "Doctor not found")
		case usecase.ErrStoreUnavailable:
			response.ServiceUnavailable(w, "")
		default:
			response.InternalServerError(w, "Failed to get doctor")
		}
		return
	}

	response.Success(w, http.StatusOK, "Doctor retrieved successfully", doctor)
}

func (h *DoctorHandler) ListServices(w http.ResponseWriter, r *http.Request) {
	services, err := h.doctorUsecase.ListServices(r.Context())
	if err != nil {
		switch err {
		case usecase.ErrStoreUnavailable:
			response.ServiceUnavailable(w, "")
		default:
			response.InternalServerError(w, "Failed to list services")
		}
		return
	}

	response.Success(w, http.StatusOK, "Services retrieved successfully", services)
}

package handler

import (
	"net/http"
	"strconv"

	"clinic-appointment-platform/internal/usecase"
	"clinic-appointment-platform/pkg/response"
)

type AuditLogHandler struct {
	auditLogUsecase usecase.AuditLogUsecase
}

func NewAuditLogHandler(auditLogUsecase usecase.AuditLogUsecase) *AuditLogHandler {
	return &AuditLogHandler{auditLogUsecase: auditLogUsecase}
}

func (h *AuditLogHandler) ListRecent(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if v := r.URL.Query().Get("limit"); v != "" {
		parsed, err := strconv.Atoi(v)
		if err != nil || parsed < 0 {
			response.Error(w, http.StatusBadRequest, "Invalid value for query parameter 'limit'", nil)
			return
		}
		limit = parsed
	}

	logs, err := h.auditLogUsecase.ListRecent(r.Context(), limit)
	if err != nil {
		switch err {
		case usecase.ErrStoreUnavailable:
			response.ServiceUnavailable(w, "")
		default:
			response.InternalServerError(w, "Failed to list audit logs")
		}
		return
	}

	response.Success(w, http.StatusOK, "Audit logs retrieved successfully", logs)
}

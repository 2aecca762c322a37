package usecase

import (
	"context"

	"clinic-appointment-platform/internal/converter"
	"clinic-appointment-platform/internal/delivery/dto"
	"clinic-appointment-platform/internal/domain/repository"

	"github.com/sirupsen/logrus"
)

type AuditLogUsecase interface {
	ListRecent(ctx context.Context, limit int) (*dto.AuditLogListResponse, error)
}

type auditLogUsecase struct {
	log       *logrus.Logger
	auditRepo repository.AuditLogRepository
}

func NewAuditLogUsecase(log *logrus.Logger, auditRepo repository.AuditLogRepository) AuditLogUsecase {
	return &auditLogUsecase{
		log:       log,
		auditRepo: auditRepo,
	}
}

func (u *auditLogUsecase) ListRecent(ctx context.Context, limit int) (*dto.AuditLogListResponse, error) {
	logs, err := u.auditRepo.FindRecent(ctx, limit)
	if err != nil {
		u.log.Warnf("Failed to list audit logs: %+v", err)
		return nil, ErrStoreUnavailable
	}

	return &dto.AuditLogListResponse{
		Logs:  converter.AuditLogsToResponses(logs),
		Total: len(logs),
	}, nil
}

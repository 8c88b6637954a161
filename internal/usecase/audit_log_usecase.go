package usecase

import (
	"context"
	"errors"

	"hospital-appointment/internal/converter"
	"hospital-appointment/internal/delivery/dto"
	"hospital-appointment/internal/domain/entity"
	"hospital-appointment/internal/domain/repository"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

var (
	ErrAuditLogNotFound = errors.New("audit log not found")
)

type AuditLogUsecase interface {
	GetAllAuditLogs(ctx context.Context, actor entity.Actor, page, limit int) (*dto.AuditLogListResponse, error)
	GetAuditLog(ctx context.Context, actor entity.Actor, id int64) (*dto.AuditLogResponse, error)
}

type auditLogUsecase struct {
	db           *gorm.DB
	log          *logrus.Logger
	auditLogRepo repository.AuditLogRepository
}

func NewAuditLogUsecase(
	db *gorm.DB,
	log *logrus.Logger,
	auditLogRepo repository.AuditLogRepository,
) AuditLogUsecase {
	return &auditLogUsecase{
		db:           db,
		log:          log,
		auditLogRepo: auditLogRepo,
	}
}

func (u *auditLogUsecase) GetAllAuditLogs(ctx context.Context, actor entity.Actor, page, limit int) (*dto.AuditLogListResponse, error) {
	if !actor.IsAdmin() {
		return nil, ErrForbidden
	}
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > maxPageSize {
		limit = defaultPageSize
	}

	logs, total, err := u.auditLogRepo.FindAll(ctx, u.db, limit, (page-1)*limit)
	if err != nil {
		u.log.Warnf("Failed to find all audit logs: %+v", err)
		return nil, err
	}

	return &dto.AuditLogListResponse{
		Logs:  converter.AuditLogsToResponses(logs),
		Total: total,
	}, nil
}

func (u *auditLogUsecase) GetAuditLog(ctx context.Context, actor entity.Actor, id int64) (*dto.AuditLogResponse, error) {
	if !actor.IsAdmin() {
		return nil, ErrForbidden
	}

	auditLog, err := u.auditLogRepo.FindByID(ctx, u.db, id)
	if err != nil {
		u.log.Warnf("Failed to find audit log: %+v", err)
		return nil, err
	}
	if auditLog == nil {
		return nil, ErrAuditLogNotFound
	}

	return converter.AuditLogToResponse(auditLog), nil
}

package service

import (
	"context"

	"hospital-appointment/internal/domain/entity"
	"hospital-appointment/internal/domain/repository"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

type AuditService interface {
	LogCreate(ctx context.Context, tx *gorm.DB, actor *entity.Actor, action string, entityName string, entityID string, newValue interface{}) error
	LogUpdate(ctx context.Context, tx *gorm.DB, actor *entity.Actor, action string, entityName string, entityID string, oldValue, newValue interface{}) error
	LogDelete(ctx context.Context, tx *gorm.DB, actor *entity.Actor, action string, entityName string, entityID string, oldValue interface{}) error
}

type auditService struct {
	log       *logrus.Logger
	auditRepo repository.AuditLogRepository
}

func NewAuditService(log *logrus.Logger, auditRepo repository.AuditLogRepository) AuditService {
	return &auditService{
		log:       log,
		auditRepo: auditRepo,
	}
}

// LogCreate logs a create action
func (s *auditService) LogCreate(ctx context.Context, tx *gorm.DB, actor *entity.Actor, action string, entityName string, entityID string, newValue interface{}) error {
	return s.write(ctx, tx, actor, action, entityName, entityID, nil, newValue)
}

// LogUpdate logs an update action with old and new values
func (s *auditService) LogUpdate(ctx context.Context, tx *gorm.DB, actor *entity.Actor, action string, entityName string, entityID string, oldValue, newValue interface{}) error {
	return s.write(ctx, tx, actor, action, entityName, entityID, oldValue, newValue)
}

// LogDelete logs a delete action with old value
func (s *auditService) LogDelete(ctx context.Context, tx *gorm.DB, actor *entity.Actor, action string, entityName string, entityID string, oldValue interface{}) error {
	return s.write(ctx, tx, actor, action, entityName, entityID, oldValue, nil)
}

func (s *auditService) write(ctx context.Context, tx *gorm.DB, actor *entity.Actor, action, entityName, entityID string, oldValue, newValue interface{}) error {
	metadata := entity.AuditMetadata{
		"entity":    entityName,
		"entity_id": entityID,
		"old_value": oldValue,
		"new_value": newValue,
	}

	var userID *uuid.UUID
	if actor != nil && actor.UserID != uuid.Nil {
		id := actor.UserID
		userID = &id
		metadata["role"] = actor.Role.String()
	}

	auditLog := &entity.AuditLog{
		UserID:   userID,
		Action:   action,
		Metadata: metadata,
	}

	if err := s.auditRepo.Create(ctx, tx, auditLog); err != nil {
		s.log.Warnf("Failed to create audit log: %+v", err)
		return err
	}

	return nil
}

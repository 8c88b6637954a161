package repository

import (
	"context"

	"hospital-appointment/internal/domain/entity"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type PatientProfileRepository interface {
	Create(ctx context.Context, db *gorm.DB, profile *entity.PatientProfile) error
	FindByUserID(ctx context.Context, db *gorm.DB, userID uuid.UUID) (*entity.PatientProfile, error)
	FindByNationalID(ctx context.Context, db *gorm.DB, nationalID string) (*entity.PatientProfile, error)
	FindAll(ctx context.Context, db *gorm.DB, filter entity.PatientFilter) ([]entity.PatientProfile, int64, error)
	Update(ctx context.Context, db *gorm.DB, profile *entity.PatientProfile) error
	Delete(ctx context.Context, db *gorm.DB, userID uuid.UUID) error
}

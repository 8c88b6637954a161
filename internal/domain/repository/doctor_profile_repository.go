package repository

import (
	"context"

	"hospital-appointment/internal/domain/entity"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type DoctorProfileRepository interface {
	Create(ctx context.Context, db *gorm.DB, profile *entity.DoctorProfile) error
	FindByUserID(ctx context.Context, db *gorm.DB, userID uuid.UUID) (*entity.DoctorProfile, error)
	FindAll(ctx context.Context, db *gorm.DB, filter *entity.DoctorFilter) ([]entity.DoctorProfile, error)
	Update(ctx context.Context, db *gorm.DB, profile *entity.DoctorProfile) error
	UpdateWeeklySchedule(ctx context.Context, db *gorm.DB, userID uuid.UUID, schedule entity.WeeklySchedule) (int64, error)
	Delete(ctx context.Context, db *gorm.DB, userID uuid.UUID) error
	FindSpecializations(ctx context.Context, db *gorm.DB) ([]string, error)
	CountActive(ctx context.Context, db *gorm.DB) (int64, error)
}

package repository

import (
	"context"

	"hospital-appointment/internal/domain/entity"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type SpecialDayRepository interface {
	Create(ctx context.Context, db *gorm.DB, day *entity.SpecialDay) error
	FindByID(ctx context.Context, db *gorm.DB, id int) (*entity.SpecialDay, error)
	FindByDoctorAndDate(ctx context.Context, db *gorm.DB, doctorID uuid.UUID, date string) (*entity.SpecialDay, error)
	// FindByDoctorID lists overrides in [from, to]; empty bounds are open.
	FindByDoctorID(ctx context.Context, db *gorm.DB, doctorID uuid.UUID, from, to string) ([]entity.SpecialDay, error)
	Delete(ctx context.Context, db *gorm.DB, id int) (int64, error)
}

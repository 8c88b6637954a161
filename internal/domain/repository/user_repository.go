package repository

import (
	"context"
	"time"

	"hospital-appointment/internal/domain/entity"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type UserRepository interface {
	Create(ctx context.Context, db *gorm.DB, user *entity.User) error
	FindByEmail(ctx context.Context, db *gorm.DB, email string) (*entity.User, error)
	FindByID(ctx context.Context, db *gorm.DB, id uuid.UUID) (*entity.User, error)
	Update(ctx context.Context, db *gorm.DB, user *entity.User) error
	UpdatePassword(ctx context.Context, db *gorm.DB, id uuid.UUID, hash string) error
	UpdateLastLogin(ctx context.Context, db *gorm.DB, id uuid.UUID, at time.Time) error
	SetActive(ctx context.Context, db *gorm.DB, id uuid.UUID, active bool) (int64, error)
	CountByRole(ctx context.Context, db *gorm.DB, role entity.Role) (int64, error)
	FindByRole(ctx context.Context, db *gorm.DB, role entity.Role, page, pageSize int) ([]entity.User, int64, error)
}

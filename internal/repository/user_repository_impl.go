package repository

import (
	"context"
	"errors"
	"time"

	"hospital-appointment/internal/domain/entity"
	domainRepo "hospital-appointment/internal/domain/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type userRepository struct{}

func NewUserRepository() domainRepo.UserRepository {
	return &userRepository{}
}

func (r *userRepository) Create(ctx context.Context, db *gorm.DB, user *entity.User) error {
	return db.WithContext(ctx).Omit("DoctorProfile", "PatientProfile").Create(user).Error
}

func (r *userRepository) FindByEmail(ctx context.Context, db *gorm.DB, email string) (*entity.User, error) {
	var user entity.User
	err := db.WithContext(ctx).Where("email = ?", email).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) FindByID(ctx context.Context, db *gorm.DB, id uuid.UUID) (*entity.User, error) {
	var user entity.User
	err := db.WithContext(ctx).Where("id = ?", id).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) Update(ctx context.Context, db *gorm.DB, user *entity.User) error {
	return db.WithContext(ctx).Omit("DoctorProfile", "PatientProfile").Save(user).Error
}

func (r *userRepository) UpdatePassword(ctx context.Context, db *gorm.DB, id uuid.UUID, hash string) error {
	return db.WithContext(ctx).Model(&entity.User{}).Where("id = ?", id).Update("password", hash).Error
}

func (r *userRepository) UpdateLastLogin(ctx context.Context, db *gorm.DB, id uuid.UUID, at time.Time) error {
	return db.WithContext(ctx).Model(&entity.User{}).Where("id = ?", id).Update("last_login", at).Error
}

func (r *userRepository) SetActive(ctx context.Context, db *gorm.DB, id uuid.UUID, active bool) (int64, error) {
	result := db.WithContext(ctx).Model(&entity.User{}).Where("id = ?", id).Update("is_active", active)
	return result.RowsAffected, result.Error
}

func (r *userRepository) CountByRole(ctx context.Context, db *gorm.DB, role entity.Role) (int64, error) {
	var total int64
	err := db.WithContext(ctx).Model(&entity.User{}).Where("role_id = ?", role).Count(&total).Error
	return total, err
}

func (r *userRepository) FindByRole(ctx context.Context, db *gorm.DB, role entity.Role, page, pageSize int) ([]entity.User, int64, error) {
	var users []entity.User
	var total int64

	query := db.WithContext(ctx).Model(&entity.User{}).Where("role_id = ?", role)
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if pageSize > 0 {
		if page < 1 {
			page = 1
		}
		query = query.Limit(pageSize).Offset((page - 1) * pageSize)
	}

	if err := query.Order("full_name ASC").Find(&users).Error; err != nil {
		return nil, 0, err
	}
	return users, total, nil
}

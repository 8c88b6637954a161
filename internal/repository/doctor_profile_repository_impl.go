package repository

import (
	"context"
	"errors"

	"hospital-appointment/internal/domain/entity"
	domainRepo "hospital-appointment/internal/domain/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type doctorProfileRepository struct{}

func NewDoctorProfileRepository() domainRepo.DoctorProfileRepository {
	return &doctorProfileRepository{}
}

func (r *doctorProfileRepository) Create(ctx context.Context, db *gorm.DB, profile *entity.DoctorProfile) error {
	return db.WithContext(ctx).Omit("User", "SpecialDays").Create(profile).Error
}

func (r *doctorProfileRepository) FindByUserID(ctx context.Context, db *gorm.DB, userID uuid.UUID) (*entity.DoctorProfile, error) {
	var profile entity.DoctorProfile
	err := db.WithContext(ctx).Preload("User").Where("user_id = ?", userID).First(&profile).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &profile, nil
}

// FindAll supports optional filters: doctor name, specialization and active accounts only.
func (r *doctorProfileRepository) FindAll(ctx context.Context, db *gorm.DB, filter *entity.DoctorFilter) ([]entity.DoctorProfile, error) {
	var profiles []entity.DoctorProfile
	query := db.WithContext(ctx).
		Joins("JOIN users ON users.id = doctor_profiles.user_id")

	if filter != nil {
		if filter.OnlyActive {
			query = query.Where("users.is_active = ?", true)
		}
		if filter.Name != "" {
			query = query.Where("users.full_name ILIKE ?", "%"+filter.Name+"%")
		}
		if filter.Specialization != "" {
			query = query.Where("doctor_profiles.specialization ILIKE ?", "%"+filter.Specialization+"%")
		}
	}

	err := query.
		Preload("User").
		Order("users.full_name ASC").
		Find(&profiles).Error
	if err != nil {
		return nil, err
	}
	return profiles, nil
}

func (r *doctorProfileRepository) Update(ctx context.Context, db *gorm.DB, profile *entity.DoctorProfile) error {
	return db.WithContext(ctx).Omit("User", "SpecialDays").Save(profile).Error
}

func (r *doctorProfileRepository) UpdateWeeklySchedule(ctx context.Context, db *gorm.DB, userID uuid.UUID, schedule entity.WeeklySchedule) (int64, error) {
	result := db.WithContext(ctx).Model(&entity.DoctorProfile{}).
		Where("user_id = ?", userID).
		Update("weekly_schedule", schedule)
	return result.RowsAffected, result.Error
}

func (r *doctorProfileRepository) Delete(ctx context.Context, db *gorm.DB, userID uuid.UUID) error {
	return db.WithContext(ctx).Where("user_id = ?", userID).Delete(&entity.DoctorProfile{}).Error
}

func (r *doctorProfileRepository) FindSpecializations(ctx context.Context, db *gorm.DB) ([]string, error) {
	var specs []string
	err := db.WithContext(ctx).Model(&entity.DoctorProfile{}).
		Distinct("specialization").
		Order("specialization ASC").
		Pluck("specialization", &specs).Error
	if err != nil {
		return nil, err
	}
	return specs, nil
}

func (r *doctorProfileRepository) CountActive(ctx context.Context, db *gorm.DB) (int64, error) {
	var total int64
	err := db.WithContext(ctx).Model(&entity.DoctorProfile{}).
		Joins("JOIN users ON users.id = doctor_profiles.user_id").
		Where("users.is_active = ?", true).
		Count(&total).Error
	return total, err
}

package repository

import (
	"context"
	"errors"
	"strings"

	"hospital-appointment/internal/domain/entity"
	domainRepo "hospital-appointment/internal/domain/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type patientProfileRepository struct{}

func NewPatientProfileRepository() domainRepo.PatientProfileRepository {
	return &patientProfileRepository{}
}

func (r *patientProfileRepository) Create(ctx context.Context, db *gorm.DB, profile *entity.PatientProfile) error {
	return db.WithContext(ctx).Omit("User", "Appointments").Create(profile).Error
}

func (r *patientProfileRepository) FindByUserID(ctx context.Context, db *gorm.DB, userID uuid.UUID) (*entity.PatientProfile, error) {
	var profile entity.PatientProfile
	err := db.WithContext(ctx).Preload("User").Where("user_id = ?", userID).First(&profile).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &profile, nil
}

func (r *patientProfileRepository) FindByNationalID(ctx context.Context, db *gorm.DB, nationalID string) (*entity.PatientProfile, error) {
	var profile entity.PatientProfile
	err := db.WithContext(ctx).Where("national_id = ?", nationalID).First(&profile).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &profile, nil
}

func (r *patientProfileRepository) FindAll(ctx context.Context, db *gorm.DB, filter entity.PatientFilter) ([]entity.PatientProfile, int64, error) {
	var profiles []entity.PatientProfile
	var total int64

	query := db.WithContext(ctx).Model(&entity.PatientProfile{}).
		Joins("JOIN users ON users.id = patient_profiles.user_id")
	if search := strings.TrimSpace(filter.Search); search != "" {
		query = query.Where("users.full_name ILIKE ? OR patient_profiles.national_id LIKE ?", "%"+search+"%", search+"%")
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if filter.PageSize > 0 {
		page := filter.Page
		if page < 1 {
			page = 1
		}
		query = query.Limit(filter.PageSize).Offset((page - 1) * filter.PageSize)
	}

	err := query.Preload("User").Order("users.full_name ASC").Find(&profiles).Error
	if err != nil {
		return nil, 0, err
	}
	return profiles, total, nil
}

func (r *patientProfileRepository) Update(ctx context.Context, db *gorm.DB, profile *entity.PatientProfile) error {
	return db.WithContext(ctx).Omit("User", "Appointments").Save(profile).Error
}

func (r *patientProfileRepository) Delete(ctx context.Context, db *gorm.DB, userID uuid.UUID) error {
	return db.WithContext(ctx).Where("user_id = ?", userID).Delete(&entity.PatientProfile{}).Error
}

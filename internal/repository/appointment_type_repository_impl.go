package repository

import (
	"context"
	"errors"

	"hospital-appointment/internal/domain/entity"
	domainRepo "hospital-appointment/internal/domain/repository"

	"gorm.io/gorm"
)

type appointmentTypeRepository struct {
	db *gorm.DB
}

func NewAppointmentTypeRepository(db *gorm.DB) domainRepo.AppointmentTypeRepository {
	return &appointmentTypeRepository{db: db}
}

func (r *appointmentTypeRepository) Create(ctx context.Context, appointmentType *entity.AppointmentType) error {
	return r.db.WithContext(ctx).Create(appointmentType).Error
}

func (r *appointmentTypeRepository) FindAll(ctx context.Context, limit, offset int) ([]entity.AppointmentType, int64, error) {
	var types []entity.AppointmentType
	var total int64

	if err := r.db.WithContext(ctx).Model(&entity.AppointmentType{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if err := r.db.WithContext(ctx).Limit(limit).Offset(offset).Order("name ASC").Find(&types).Error; err != nil {
		return nil, 0, err
	}

	return types, total, nil
}

func (r *appointmentTypeRepository) FindByID(ctx context.Context, id int) (*entity.AppointmentType, error) {
	var appointmentType entity.AppointmentType
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&appointmentType).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &appointmentType, nil
}

func (r *appointmentTypeRepository) Update(ctx context.Context, appointmentType *entity.AppointmentType) error {
	return r.db.WithContext(ctx).Save(appointmentType).Error
}

func (r *appointmentTypeRepository) Delete(ctx context.Context, id int) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&entity.AppointmentType{}).Error
}

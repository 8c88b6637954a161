package repository

import (
	"context"
	"errors"

	"hospital-appointment/internal/domain/entity"
	domainRepo "hospital-appointment/internal/domain/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type specialDayRepository struct{}

func NewSpecialDayRepository() domainRepo.SpecialDayRepository {
	return &specialDayRepository{}
}

func (r *specialDayRepository) Create(ctx context.Context, db *gorm.DB, day *entity.SpecialDay) error {
	return db.WithContext(ctx).Omit("Doctor").Create(day).Error
}

func (r *specialDayRepository) FindByID(ctx context.Context, db *gorm.DB, id int) (*entity.SpecialDay, error) {
	var day entity.SpecialDay
	err := db.WithContext(ctx).Where("id = ?", id).First(&day).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &day, nil
}

func (r *specialDayRepository) FindByDoctorAndDate(ctx context.Context, db *gorm.DB, doctorID uuid.UUID, date string) (*entity.SpecialDay, error) {
	var day entity.SpecialDay
	err := db.WithContext(ctx).Where("doctor_id = ? AND date = ?", doctorID, date).First(&day).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &day, nil
}

func (r *specialDayRepository) FindByDoctorID(ctx context.Context, db *gorm.DB, doctorID uuid.UUID, from, to string) ([]entity.SpecialDay, error) {
	var days []entity.SpecialDay
	query := db.WithContext(ctx).Where("doctor_id = ?", doctorID)
	if from != "" {
		query = query.Where("date >= ?", from)
	}
	if to != "" {
		query = query.Where("date <= ?", to)
	}
	err := query.Order("date ASC").Find(&days).Error
	if err != nil {
		return nil, err
	}
	return days, nil
}

func (r *specialDayRepository) Delete(ctx context.Context, db *gorm.DB, id int) (int64, error) {
	affected := db.WithContext(ctx).Where("id = ?", id).Delete(&entity.SpecialDay{})
	return affected.RowsAffected, affected.Error
}

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

type appointmentRepository struct{}

func NewAppointmentRepository() domainRepo.AppointmentRepository {
	return &appointmentRepository{}
}

func (r *appointmentRepository) Create(ctx context.Context, db *gorm.DB, appointment *entity.Appointment) error {
	return db.WithContext(ctx).Omit("Patient", "Doctor", "AppointmentType").Create(appointment).Error
}

func (r *appointmentRepository) FindByID(ctx context.Context, db *gorm.DB, id uuid.UUID) (*entity.Appointment, error) {
	var appointment entity.Appointment
	err := db.WithContext(ctx).
		Preload("Doctor.User").Preload("Patient.User").Preload("AppointmentType").
		Where("id = ?", id).
		First(&appointment).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &appointment, nil
}

func (r *appointmentRepository) FindAll(ctx context.Context, db *gorm.DB, filter *entity.AppointmentFilter) ([]entity.Appointment, int64, error) {
	var appointments []entity.Appointment
	var total int64

	query := db.WithContext(ctx).Model(&entity.Appointment{})
	if filter != nil {
		if filter.PatientID != nil {
			query = query.Where("patient_id = ?", *filter.PatientID)
		}
		if filter.DoctorID != nil {
			query = query.Where("doctor_id = ?", *filter.DoctorID)
		}
		if filter.Status != "" {
			query = query.Where("status IN ?", filter.Status.StoredLabels())
		}
		if filter.StartDate != "" {
			query = query.Where("appointment_date >= ?", filter.StartDate)
		}
		if filter.EndDate != "" {
			query = query.Where("appointment_date <= ?", filter.EndDate)
		}
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if filter != nil && filter.PageSize > 0 {
		page := filter.Page
		if page < 1 {
			page = 1
		}
		query = query.Limit(filter.PageSize).Offset((page - 1) * filter.PageSize)
	}

	err := query.
		Preload("Doctor.User").Preload("Patient.User").Preload("AppointmentType").
		Order("appointment_date DESC, appointment_time DESC").
		Find(&appointments).Error
	if err != nil {
		return nil, 0, err
	}
	return appointments, total, nil
}

func (r *appointmentRepository) FindActiveByDoctorAndDate(ctx context.Context, db *gorm.DB, doctorID uuid.UUID, date string) ([]entity.Appointment, error) {
	var appointments []entity.Appointment
	err := db.WithContext(ctx).
		Where("doctor_id = ? AND appointment_date = ? AND status NOT IN ?", doctorID, date, entity.AppointmentStatusCancelled.StoredLabels()).
		Order("appointment_time ASC").
		Find(&appointments).Error
	if err != nil {
		return nil, err
	}
	return appointments, nil
}

func (r *appointmentRepository) UpdateStatus(ctx context.Context, db *gorm.DB, id uuid.UUID, from, to entity.AppointmentStatus) (int64, error) {
	result := db.WithContext(ctx).Model(&entity.Appointment{}).
		Where("id = ? AND status = ?", id, from).
		Updates(map[string]interface{}{
			"status":     to,
			"updated_at": time.Now(),
		})
	return result.RowsAffected, result.Error
}

func (r *appointmentRepository) Delete(ctx context.Context, db *gorm.DB, id uuid.UUID) (int64, error) {
	result := db.WithContext(ctx).Where("id = ?", id).Delete(&entity.Appointment{})
	return result.RowsAffected, result.Error
}

type statusCount struct {
	Status entity.AppointmentStatus
	Total  int64
}

func (r *appointmentRepository) CountByStatus(ctx context.Context, db *gorm.DB) (map[entity.AppointmentStatus]int64, error) {
	var rows []statusCount
	err := db.WithContext(ctx).Model(&entity.Appointment{}).
		Select("status, COUNT(*) AS total").
		Group("status").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	counts := make(map[entity.AppointmentStatus]int64, len(rows))
	for _, row := range rows {
		counts[row.Status] = row.Total
	}
	return counts, nil
}

// FindReportRows projects appointments in [startDate, endDate] joined with the doctor's specialization.
func (r *appointmentRepository) FindReportRows(ctx context.Context, db *gorm.DB, startDate, endDate string) ([]entity.AppointmentReportRow, error) {
	var rows []entity.AppointmentReportRow
	query := db.WithContext(ctx).Model(&entity.Appointment{}).
		Select("appointments.appointment_date, appointments.status, appointments.fee, doctor_profiles.specialization").
		Joins("JOIN doctor_profiles ON doctor_profiles.user_id = appointments.doctor_id")
	if startDate != "" {
		query = query.Where("appointments.appointment_date >= ?", startDate)
	}
	if endDate != "" {
		query = query.Where("appointments.appointment_date <= ?", endDate)
	}
	err := query.Order("appointments.appointment_date ASC").Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

package repository

import (
	"context"

	"hospital-appointment/internal/domain/entity"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type AppointmentRepository interface {
	Create(ctx context.Context, db *gorm.DB, appointment *entity.Appointment) error
	FindByID(ctx context.Context, db *gorm.DB, id uuid.UUID) (*entity.Appointment, error)
	FindAll(ctx context.Context, db *gorm.DB, filter *entity.AppointmentFilter) ([]entity.Appointment, int64, error)
	// FindActiveByDoctorAndDate returns the non-cancelled appointments that occupy the doctor's slots on date.
	FindActiveByDoctorAndDate(ctx context.Context, db *gorm.DB, doctorID uuid.UUID, date string) ([]entity.Appointment, error)
	// UpdateStatus moves an appointment from one status to another only if it is still in "from".
	// Returns affected rows: 0 means the status changed underneath us.
	UpdateStatus(ctx context.Context, db *gorm.DB, id uuid.UUID, from, to entity.AppointmentStatus) (int64, error)
	Delete(ctx context.Context, db *gorm.DB, id uuid.UUID) (int64, error)
	CountByStatus(ctx context.Context, db *gorm.DB) (map[entity.AppointmentStatus]int64, error)
	FindReportRows(ctx context.Context, db *gorm.DB, startDate, endDate string) ([]entity.AppointmentReportRow, error)
}

package repository

import (
	"context"

	"hospital-appointment/internal/domain/entity"
)

type AppointmentTypeRepository interface {
	Create(ctx context.Context, appointmentType *entity.AppointmentType) error
	FindAll(ctx context.Context, limit, offset int) ([]entity.AppointmentType, int64, error)
	FindByID(ctx context.Context, id int) (*entity.AppointmentType, error)
	Update(ctx context.Context, appointmentType *entity.AppointmentType) error
	Delete(ctx context.Context, id int) error
}

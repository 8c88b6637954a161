package usecase

import (
	"context"
	"errors"
	"strings"

	"hospital-appointment/internal/converter"
	"hospital-appointment/internal/delivery/dto"
	"hospital-appointment/internal/domain/entity"
	"hospital-appointment/internal/domain/repository"
)

var (
	ErrAppointmentTypeExists = errors.New("appointment type already exists")
)

type AppointmentTypeUsecase interface {
	Create(ctx context.Context, actor entity.Actor, req *dto.CreateAppointmentTypeRequest) (*dto.AppointmentTypeResponse, error)
	GetAll(ctx context.Context, page, limit int) ([]dto.AppointmentTypeResponse, int64, error)
	GetByID(ctx context.Context, id int) (*dto.AppointmentTypeResponse, error)
	Update(ctx context.Context, actor entity.Actor, id int, req *dto.UpdateAppointmentTypeRequest) (*dto.AppointmentTypeResponse, error)
	Delete(ctx context.Context, actor entity.Actor, id int) error
}

type appointmentTypeUsecase struct {
	appointmentTypeRepo repository.AppointmentTypeRepository
}

func NewAppointmentTypeUsecase(appointmentTypeRepo repository.AppointmentTypeRepository) AppointmentTypeUsecase {
	return &appointmentTypeUsecase{appointmentTypeRepo: appointmentTypeRepo}
}

func (u *appointmentTypeUsecase) Create(ctx context.Context, actor entity.Actor, req *dto.CreateAppointmentTypeRequest) (*dto.AppointmentTypeResponse, error) {
	if !actor.IsAdmin() {
		return nil, ErrForbidden
	}

	appointmentType := &entity.AppointmentType{
		Name:            strings.TrimSpace(req.Name),
		DurationMinutes: req.DurationMinutes,
		Description:     req.Description,
	}

	if err := u.appointmentTypeRepo.Create(ctx, appointmentType); err != nil {
		if isDuplicateKeyError(err, "name") {
			return nil, ErrAppointmentTypeExists
		}
		return nil, err
	}

	return converter.AppointmentTypeToResponse(appointmentType), nil
}

func (u *appointmentTypeUsecase) GetAll(ctx context.Context, page, limit int) ([]dto.AppointmentTypeResponse, int64, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 10
	}

	offset := (page - 1) * limit

	types, total, err := u.appointmentTypeRepo.FindAll(ctx, limit, offset)
	if err != nil {
		return nil, 0, err
	}

	responses := make([]dto.AppointmentTypeResponse, 0, len(types))
	for i := range types {
		responses = append(responses, *converter.AppointmentTypeToResponse(&types[i]))
	}

	return responses, total, nil
}

func (u *appointmentTypeUsecase) GetByID(ctx context.Context, id int) (*dto.AppointmentTypeResponse, error) {
	appointmentType, err := u.appointmentTypeRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if appointmentType == nil {
		return nil, ErrAppointmentTypeNotFound
	}

	return converter.AppointmentTypeToResponse(appointmentType), nil
}

func (u *appointmentTypeUsecase) Update(ctx context.Context, actor entity.Actor, id int, req *dto.UpdateAppointmentTypeRequest) (*dto.AppointmentTypeResponse, error) {
	if !actor.IsAdmin() {
		return nil, ErrForbidden
	}

	appointmentType, err := u.appointmentTypeRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if appointmentType == nil {
		return nil, ErrAppointmentTypeNotFound
	}

	appointmentType.Name = strings.TrimSpace(req.Name)
	appointmentType.DurationMinutes = req.DurationMinutes
	appointmentType.Description = req.Description

	if err := u.appointmentTypeRepo.Update(ctx, appointmentType); err != nil {
		if isDuplicateKeyError(err, "name") {
			return nil, ErrAppointmentTypeExists
		}
		return nil, err
	}

	return converter.AppointmentTypeToResponse(appointmentType), nil
}

func (u *appointmentTypeUsecase) Delete(ctx context.Context, actor entity.Actor, id int) error {
	if !actor.IsAdmin() {
		return ErrForbidden
	}

	appointmentType, err := u.appointmentTypeRepo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if appointmentType == nil {
		return ErrAppointmentTypeNotFound
	}

	return u.appointmentTypeRepo.Delete(ctx, id)
}

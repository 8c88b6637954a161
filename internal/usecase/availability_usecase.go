package usecase

import (
	"context"
	"errors"
	"strings"
	"time"

	"hospital-appointment/internal/availability"
	"hospital-appointment/internal/converter"
	"hospital-appointment/internal/delivery/dto"
	"hospital-appointment/internal/domain/entity"
	"hospital-appointment/internal/domain/repository"
	"hospital-appointment/internal/infrastructure/metrics"
	"hospital-appointment/internal/service"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

var (
	ErrSpecialDayNotFound = errors.New("special day not found")
	ErrSpecialDayExists   = errors.New("a special day already exists for this date")
	ErrScheduleForbidden  = errors.New("you can only manage your own schedule")
)

// ValidationError carries every failed rule so callers can report them together.
type ValidationError struct {
	Errors []string
}

func (e *ValidationError) Error() string {
	return strings.Join(e.Errors, "; ")
}

type AvailabilityUsecase interface {
	GetWeeklySchedule(ctx context.Context, doctorID uuid.UUID) (*dto.WeeklyScheduleResponse, error)
	UpdateWeeklySchedule(ctx context.Context, actor entity.Actor, doctorID uuid.UUID, req *dto.UpdateWeeklyScheduleRequest) (*dto.WeeklyScheduleResponse, error)
	CreateSpecialDay(ctx context.Context, actor entity.Actor, doctorID uuid.UUID, req *dto.CreateSpecialDayRequest) (*dto.SpecialDayResponse, error)
	ListSpecialDays(ctx context.Context, doctorID uuid.UUID, from, to string) (*dto.SpecialDayListResponse, error)
	DeleteSpecialDay(ctx context.Context, actor entity.Actor, doctorID uuid.UUID, specialDayID int) error
	GetOpenSlots(ctx context.Context, doctorID uuid.UUID, date string) (*dto.OpenSlotsResponse, error)
}

type availabilityUsecase struct {
	db                *gorm.DB
	log               *logrus.Logger
	rules             availability.Rules
	doctorProfileRepo repository.DoctorProfileRepository
	specialDayRepo    repository.SpecialDayRepository
	appointmentRepo   repository.AppointmentRepository
	auditService      service.AuditService
	metrics           *metrics.BookingMetrics
}

func NewAvailabilityUsecase(
	db *gorm.DB,
	log *logrus.Logger,
	rules availability.Rules,
	doctorProfileRepo repository.DoctorProfileRepository,
	specialDayRepo repository.SpecialDayRepository,
	appointmentRepo repository.AppointmentRepository,
	auditService service.AuditService,
	bookingMetrics *metrics.BookingMetrics,
) AvailabilityUsecase {
	return &availabilityUsecase{
		db:                db,
		log:               log,
		rules:             rules,
		doctorProfileRepo: doctorProfileRepo,
		specialDayRepo:    specialDayRepo,
		appointmentRepo:   appointmentRepo,
		auditService:      auditService,
		metrics:           bookingMetrics,
	}
}

// canManageSchedule reports whether actor may change doctorID's availability.
func canManageSchedule(actor entity.Actor, doctorID uuid.UUID) bool {
	switch actor.Role {
	case entity.RoleAdmin:
		return true
	case entity.RoleDoctor:
		return actor.Owns(doctorID)
	case entity.RolePatient:
		return false
	}
	return false
}

func (u *availabilityUsecase) GetWeeklySchedule(ctx context.Context, doctorID uuid.UUID) (*dto.WeeklyScheduleResponse, error) {
	profile, err := u.doctorProfileRepo.FindByUserID(ctx, u.db, doctorID)
	if err != nil {
		u.log.Warnf("Failed to find doctor profile %s: %+v", doctorID, err)
		return nil, err
	}
	if profile == nil {
		return nil, ErrDoctorNotFound
	}

	return &dto.WeeklyScheduleResponse{
		DoctorID: doctorID,
		Schedule: converter.WeeklyScheduleToMap(profile.WeeklySchedule),
	}, nil
}

// UpdateWeeklySchedule replaces the whole schedule and returns it as stored.
func (u *availabilityUsecase) UpdateWeeklySchedule(ctx context.Context, actor entity.Actor, doctorID uuid.UUID, req *dto.UpdateWeeklyScheduleRequest) (*dto.WeeklyScheduleResponse, error) {
	if !canManageSchedule(actor, doctorID) {
		return nil, ErrScheduleForbidden
	}

	schedule := converter.MapToWeeklySchedule(req.Schedule)
	if errs := u.rules.ValidateWeeklySchedule(schedule); len(errs) > 0 {
		return nil, &ValidationError{Errors: errs}
	}

	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	profile, err := u.doctorProfileRepo.FindByUserID(ctx, tx, doctorID)
	if err != nil {
		u.log.Warnf("Failed to find doctor profile %s: %+v", doctorID, err)
		return nil, err
	}
	if profile == nil {
		return nil, ErrDoctorNotFound
	}
	oldValue := converter.WeeklyScheduleToMap(profile.WeeklySchedule)

	affected, err := u.doctorProfileRepo.UpdateWeeklySchedule(ctx, tx, doctorID, schedule)
	if err != nil {
		u.log.Warnf("Failed to update weekly schedule %s: %+v", doctorID, err)
		return nil, err
	}
	if affected == 0 {
		return nil, ErrDoctorNotFound
	}

	newValue := converter.WeeklyScheduleToMap(schedule)
	if err := u.auditService.LogUpdate(ctx, tx, &actor, entity.AuditActionScheduleUpdate, "doctor_profile", doctorID.String(), oldValue, newValue); err != nil {
		u.log.Warnf("Failed to create audit log: %+v", err)
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return nil, err
	}

	u.log.Infof("Weekly schedule updated: doctor=%s", doctorID)
	return &dto.WeeklyScheduleResponse{DoctorID: doctorID, Schedule: newValue}, nil
}

func (u *availabilityUsecase) CreateSpecialDay(ctx context.Context, actor entity.Actor, doctorID uuid.UUID, req *dto.CreateSpecialDayRequest) (*dto.SpecialDayResponse, error) {
	if !canManageSchedule(actor, doctorID) {
		return nil, ErrScheduleForbidden
	}

	date, err := time.Parse(entity.DateLayout, req.Date)
	if err != nil {
		return nil, ErrInvalidDateFormat
	}

	day := &entity.SpecialDay{
		DoctorID:    doctorID,
		Date:        date,
		DayOff:      req.DayOff,
		Slots:       entity.StringList(req.Slots),
		MaxBookings: req.MaxBookings,
		Note:        req.Note,
	}
	day.Normalize()
	if !day.DayOff {
		if errs := u.rules.ValidateSlotList(day.Slots); len(errs) > 0 {
			return nil, &ValidationError{Errors: errs}
		}
	}
	if day.Slots == nil {
		day.Slots = entity.StringList{}
	}

	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	profile, err := u.doctorProfileRepo.FindByUserID(ctx, tx, doctorID)
	if err != nil {
		u.log.Warnf("Failed to find doctor profile %s: %+v", doctorID, err)
		return nil, err
	}
	if profile == nil {
		return nil, ErrDoctorNotFound
	}

	if err := u.specialDayRepo.Create(ctx, tx, day); err != nil {
		if isDuplicateKeyError(err, "special_days_doctor_date") {
			return nil, ErrSpecialDayExists
		}
		u.log.Warnf("Failed to create special day: %+v", err)
		return nil, err
	}

	resp := converter.SpecialDayToResponse(day)
	if err := u.auditService.LogCreate(ctx, tx, &actor, entity.AuditActionSpecialDayCreate, "special_day", doctorID.String()+"/"+req.Date, resp); err != nil {
		u.log.Warnf("Failed to create audit log: %+v", err)
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return nil, err
	}

	return resp, nil
}

func (u *availabilityUsecase) ListSpecialDays(ctx context.Context, doctorID uuid.UUID, from, to string) (*dto.SpecialDayListResponse, error) {
	for _, bound := range []string{from, to} {
		if bound == "" {
			continue
		}
		if _, err := time.Parse(entity.DateLayout, bound); err != nil {
			return nil, ErrInvalidDateFormat
		}
	}

	days, err := u.specialDayRepo.FindByDoctorID(ctx, u.db, doctorID, from, to)
	if err != nil {
		u.log.Warnf("Failed to list special days %s: %+v", doctorID, err)
		return nil, err
	}

	return &dto.SpecialDayListResponse{
		SpecialDays: converter.SpecialDaysToResponses(days),
		Total:       len(days),
	}, nil
}

func (u *availabilityUsecase) DeleteSpecialDay(ctx context.Context, actor entity.Actor, doctorID uuid.UUID, specialDayID int) error {
	if !canManageSchedule(actor, doctorID) {
		return ErrScheduleForbidden
	}

	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	day, err := u.specialDayRepo.FindByID(ctx, tx, specialDayID)
	if err != nil {
		u.log.Warnf("Failed to find special day %d: %+v", specialDayID, err)
		return err
	}
	if day == nil || day.DoctorID != doctorID {
		return ErrSpecialDayNotFound
	}

	affected, err := u.specialDayRepo.Delete(ctx, tx, specialDayID)
	if err != nil {
		u.log.Warnf("Failed to delete special day %d: %+v", specialDayID, err)
		return err
	}
	if affected == 0 {
		return ErrSpecialDayNotFound
	}

	if err := u.auditService.LogDelete(ctx, tx, &actor, entity.AuditActionSpecialDayDelete, "special_day", doctorID.String()+"/"+day.Date.Format(entity.DateLayout), converter.SpecialDayToResponse(day)); err != nil {
		u.log.Warnf("Failed to create audit log: %+v", err)
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return err
	}
	return nil
}

// GetOpenSlots resolves the bookable slots of a doctor on date from a fresh
// snapshot of the schedule, the date's override and the active appointments.
func (u *availabilityUsecase) GetOpenSlots(ctx context.Context, doctorID uuid.UUID, date string) (*dto.OpenSlotsResponse, error) {
	day, err := time.Parse(entity.DateLayout, date)
	if err != nil {
		return nil, ErrInvalidDateFormat
	}
	u.metrics.ObserveSlotLookup()

	profile, err := u.doctorProfileRepo.FindByUserID(ctx, u.db, doctorID)
	if err != nil {
		u.log.Warnf("Failed to find doctor profile %s: %+v", doctorID, err)
		return nil, err
	}
	if profile == nil {
		return nil, ErrDoctorNotFound
	}

	resp := &dto.OpenSlotsResponse{
		DoctorID: doctorID,
		Date:     date,
		Weekday:  string(entity.WeekdayOf(day)),
		Slots:    []string{},
	}
	if !profile.User.Active() {
		return resp, nil
	}

	override, err := u.specialDayRepo.FindByDoctorAndDate(ctx, u.db, doctorID, date)
	if err != nil {
		u.log.Warnf("Failed to find special day %s/%s: %+v", doctorID, date, err)
		return nil, err
	}

	appointments, err := u.appointmentRepo.FindActiveByDoctorAndDate(ctx, u.db, doctorID, date)
	if err != nil {
		u.log.Warnf("Failed to find appointments %s/%s: %+v", doctorID, date, err)
		return nil, err
	}

	resp.SpecialDay = override != nil
	resp.Slots = availability.ComputeOpenSlotsForDay(profile.WeeklySchedule, override, availability.FromAppointments(appointments), doctorID, date)
	return resp, nil
}

package usecase

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
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
	ErrAppointmentNotFound     = errors.New("appointment not found")
	ErrAppointmentForbidden    = errors.New("appointment does not belong to you")
	ErrDoctorUnavailable       = errors.New("doctor not available at that time")
	ErrSlotTaken               = errors.New("slot already taken")
	ErrDayFullyBooked          = errors.New("doctor is fully booked on that date")
	ErrInvalidStatusTransition = errors.New("appointment status cannot be changed to the requested status")
	ErrInvalidStatus           = errors.New("invalid appointment status")
	ErrPatientRequired         = errors.New("patient selection required")
	ErrPatientNotFound         = errors.New("patient not found")
	ErrAppointmentTypeNotFound = errors.New("appointment type not found")
)

const (
	defaultPageSize = 10
	maxPageSize     = 100

	// index guaranteeing one non-cancelled appointment per doctor slot
	activeSlotConstraint = "appointments_active_slot"
)

type AppointmentUsecase interface {
	BookAppointment(ctx context.Context, actor entity.Actor, req *dto.CreateAppointmentRequest) (*dto.AppointmentResponse, error)
	ListAppointments(ctx context.Context, actor entity.Actor, query *dto.AppointmentListQuery) (*dto.AppointmentListResponse, error)
	GetAppointment(ctx context.Context, actor entity.Actor, id uuid.UUID) (*dto.AppointmentResponse, error)
	ApproveAppointment(ctx context.Context, actor entity.Actor, id uuid.UUID) (*dto.AppointmentResponse, error)
	RejectAppointment(ctx context.Context, actor entity.Actor, id uuid.UUID, req *dto.UpdateAppointmentStatusRequest) (*dto.AppointmentResponse, error)
	CancelAppointment(ctx context.Context, actor entity.Actor, id uuid.UUID, req *dto.UpdateAppointmentStatusRequest) (*dto.AppointmentResponse, error)
	CompleteAppointment(ctx context.Context, actor entity.Actor, id uuid.UUID) (*dto.AppointmentResponse, error)
	DeleteAppointment(ctx context.Context, actor entity.Actor, id uuid.UUID) error
}

type appointmentUsecase struct {
	db                  *gorm.DB
	log                 *logrus.Logger
	rules               availability.Rules
	now                 func() time.Time
	appointmentRepo     repository.AppointmentRepository
	doctorProfileRepo   repository.DoctorProfileRepository
	patientProfileRepo  repository.PatientProfileRepository
	specialDayRepo      repository.SpecialDayRepository
	appointmentTypeRepo repository.AppointmentTypeRepository
	slotHolder          service.SlotHolder
	publisher           service.AppointmentEventPublisher
	auditService        service.AuditService
	metrics             *metrics.BookingMetrics
}

func NewAppointmentUsecase(
	db *gorm.DB,
	log *logrus.Logger,
	rules availability.Rules,
	location *time.Location,
	appointmentRepo repository.AppointmentRepository,
	doctorProfileRepo repository.DoctorProfileRepository,
	patientProfileRepo repository.PatientProfileRepository,
	specialDayRepo repository.SpecialDayRepository,
	appointmentTypeRepo repository.AppointmentTypeRepository,
	slotHolder service.SlotHolder,
	publisher service.AppointmentEventPublisher,
	auditService service.AuditService,
	bookingMetrics *metrics.BookingMetrics,
) AppointmentUsecase {
	if location == nil {
		location = time.Local
	}
	return &appointmentUsecase{
		db:                  db,
		log:                 log,
		rules:               rules,
		now:                 func() time.Time { return time.Now().In(location) },
		appointmentRepo:     appointmentRepo,
		doctorProfileRepo:   doctorProfileRepo,
		patientProfileRepo:  patientProfileRepo,
		specialDayRepo:      specialDayRepo,
		appointmentTypeRepo: appointmentTypeRepo,
		slotHolder:          slotHolder,
		publisher:           publisher,
		auditService:        auditService,
		metrics:             bookingMetrics,
	}
}

// BookAppointment runs the booking workflow:
//
// 1. Validate the request (all failures reported together)
// 2. Check the doctor works that slot on that date
// 3. Check the slot is not taken and the day's cap is not reached
// 4. Hold the slot in Redis
// 5. Re-check conflicts inside the transaction and insert as pending
//
// A concurrent insert that slips past step 5 is rejected by the partial
// unique index and reported as ErrSlotTaken.
func (u *appointmentUsecase) BookAppointment(ctx context.Context, actor entity.Actor, req *dto.CreateAppointmentRequest) (*dto.AppointmentResponse, error) {
	patientID, err := bookingPatient(actor, req.PatientID)
	if err != nil {
		return nil, err
	}

	candidate := availability.BookingRequest{
		DoctorID: req.DoctorID,
		Date:     strings.TrimSpace(req.Date),
		Time:     strings.TrimSpace(req.Time),
		Notes:    req.Notes,
	}

	// Step 1: validate
	if result := u.rules.ValidateBookingRequest(candidate, u.now()); !result.Valid {
		u.metrics.ObserveBooking(metrics.OutcomeInvalid)
		return nil, &ValidationError{Errors: result.Errors}
	}

	doctor, err := u.doctorProfileRepo.FindByUserID(ctx, u.db, req.DoctorID)
	if err != nil {
		u.log.Warnf("Failed to find doctor %s: %+v", req.DoctorID, err)
		return nil, u.failed(err)
	}
	if doctor == nil {
		return nil, ErrDoctorNotFound
	}
	if !doctor.User.Active() {
		return nil, ErrDoctorInactive
	}

	patient, err := u.patientProfileRepo.FindByUserID(ctx, u.db, patientID)
	if err != nil {
		u.log.Warnf("Failed to find patient %s: %+v", patientID, err)
		return nil, u.failed(err)
	}
	if patient == nil || !patient.User.Active() {
		return nil, ErrPatientNotFound
	}

	if req.AppointmentTypeID != nil {
		appointmentType, err := u.appointmentTypeRepo.FindByID(ctx, *req.AppointmentTypeID)
		if err != nil {
			u.log.Warnf("Failed to find appointment type %d: %+v", *req.AppointmentTypeID, err)
			return nil, u.failed(err)
		}
		if appointmentType == nil {
			return nil, ErrAppointmentTypeNotFound
		}
	}

	// Step 2: the slot must be configured for that date
	override, err := u.specialDayRepo.FindByDoctorAndDate(ctx, u.db, doctor.UserID, candidate.Date)
	if err != nil {
		u.log.Warnf("Failed to find special day %s/%s: %+v", doctor.UserID, candidate.Date, err)
		return nil, u.failed(err)
	}
	if !availability.IsDoctorAvailableOn(doctor.WeeklySchedule, override, candidate.Date, candidate.Time) {
		u.metrics.ObserveBooking(metrics.OutcomeUnavailable)
		return nil, ErrDoctorUnavailable
	}

	// Step 3: conflict check on a fresh snapshot
	if err := u.checkSlot(ctx, u.db, candidate, override); err != nil {
		return nil, err
	}

	// Step 4: hold the slot while the transaction runs
	token, err := u.slotHolder.Hold(ctx, candidate.DoctorID, candidate.Date, candidate.Time)
	switch {
	case errors.Is(err, service.ErrSlotHeld):
		u.metrics.ObserveBooking(metrics.OutcomeConflict)
		return nil, ErrSlotTaken
	case err != nil:
		// the unique index still guards the slot
		u.log.Warnf("Booking without slot hold (non-fatal): %+v", err)
	default:
		defer func() {
			releaseCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := u.slotHolder.Release(releaseCtx, candidate.DoctorID, candidate.Date, candidate.Time, token); err != nil {
				u.log.Warnf("Failed to release slot hold (non-fatal): %+v", err)
			}
		}()
	}

	date, err := time.Parse(entity.DateLayout, candidate.Date)
	if err != nil {
		return nil, ErrInvalidDateFormat
	}

	// Step 5: re-check and insert
	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	if err := u.checkSlot(ctx, tx, candidate, override); err != nil {
		return nil, err
	}

	appointment := &entity.Appointment{
		PatientID:         patientID,
		DoctorID:          doctor.UserID,
		AppointmentTypeID: req.AppointmentTypeID,
		AppointmentDate:   date,
		AppointmentTime:   candidate.Time,
		Status:            entity.AppointmentStatusPending,
		Notes:             strings.TrimSpace(req.Notes),
		Fee:               doctor.Fee,
		BookingCode:       generateBookingCode(date),
	}

	if err := u.appointmentRepo.Create(ctx, tx, appointment); err != nil {
		if isDuplicateKeyError(err, activeSlotConstraint) {
			u.metrics.ObserveBooking(metrics.OutcomeConflict)
			return nil, ErrSlotTaken
		}
		if isForeignKeyError(err, "patient") {
			return nil, ErrPatientNotFound
		}
		u.log.Warnf("Failed to create appointment: %+v", err)
		return nil, u.failed(err)
	}

	if err := u.auditService.LogCreate(ctx, tx, &actor, entity.AuditActionAppointmentCreate, "appointment", appointment.ID.String(), map[string]interface{}{
		"doctor_id":    appointment.DoctorID,
		"patient_id":   appointment.PatientID,
		"date":         candidate.Date,
		"time":         candidate.Time,
		"booking_code": appointment.BookingCode,
	}); err != nil {
		u.log.Warnf("Failed to create audit log: %+v", err)
	}

	if err := tx.Commit().Error; err != nil {
		if isDuplicateKeyError(err, activeSlotConstraint) {
			u.metrics.ObserveBooking(metrics.OutcomeConflict)
			return nil, ErrSlotTaken
		}
		u.log.Warnf("Failed commit transaction: %+v", err)
		return nil, u.failed(err)
	}

	u.metrics.ObserveBooking(metrics.OutcomeCreated)
	u.publish(ctx, service.EventAppointmentCreated, appointment)
	u.log.Infof("Appointment booked: id=%s, doctor=%s, slot=%s %s, code=%s", appointment.ID, appointment.DoctorID, candidate.Date, candidate.Time, appointment.BookingCode)

	return u.reload(ctx, appointment), nil
}

// checkSlot rejects the candidate if its slot is taken or the day's booking cap is used up.
func (u *appointmentUsecase) checkSlot(ctx context.Context, db *gorm.DB, candidate availability.BookingRequest, override *entity.SpecialDay) error {
	existing, err := u.appointmentRepo.FindActiveByDoctorAndDate(ctx, db, candidate.DoctorID, candidate.Date)
	if err != nil {
		u.log.Warnf("Failed to find appointments %s/%s: %+v", candidate.DoctorID, candidate.Date, err)
		return u.failed(err)
	}

	bookings := availability.FromAppointments(existing)
	if availability.HasConflict(candidate, bookings) {
		u.metrics.ObserveBooking(metrics.OutcomeConflict)
		return ErrSlotTaken
	}
	if availability.CapacityReached(override, bookings, candidate.DoctorID, candidate.Date) {
		u.metrics.ObserveBooking(metrics.OutcomeUnavailable)
		return ErrDayFullyBooked
	}
	return nil
}

func (u *appointmentUsecase) failed(err error) error {
	u.metrics.ObserveBooking(metrics.OutcomeError)
	return err
}

// bookingPatient resolves whose appointment is being booked.
func bookingPatient(actor entity.Actor, requested *uuid.UUID) (uuid.UUID, error) {
	switch actor.Role {
	case entity.RolePatient:
		if requested != nil && *requested != uuid.Nil && !actor.Owns(*requested) {
			return uuid.Nil, ErrForbidden
		}
		return actor.UserID, nil
	case entity.RoleAdmin:
		if requested == nil || *requested == uuid.Nil {
			return uuid.Nil, ErrPatientRequired
		}
		return *requested, nil
	case entity.RoleDoctor:
		return uuid.Nil, ErrForbidden
	}
	return uuid.Nil, ErrForbidden
}

// ListAppointments scopes the listing to the actor: patients and doctors only see their own.
func (u *appointmentUsecase) ListAppointments(ctx context.Context, actor entity.Actor, query *dto.AppointmentListQuery) (*dto.AppointmentListResponse, error) {
	if query == nil {
		query = &dto.AppointmentListQuery{}
	}

	filter := &entity.AppointmentFilter{
		StartDate: query.StartDate,
		EndDate:   query.EndDate,
		Page:      query.Page,
		PageSize:  query.Limit,
	}
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.PageSize < 1 {
		filter.PageSize = defaultPageSize
	}
	if filter.PageSize > maxPageSize {
		filter.PageSize = maxPageSize
	}

	for _, bound := range []string{filter.StartDate, filter.EndDate} {
		if bound == "" {
			continue
		}
		if _, err := time.Parse(entity.DateLayout, bound); err != nil {
			return nil, ErrInvalidDateFormat
		}
	}

	if query.Status != "" {
		status, ok := entity.ParseAppointmentStatus(query.Status)
		if !ok {
			return nil, ErrInvalidStatus
		}
		filter.Status = status
	}

	switch actor.Role {
	case entity.RolePatient:
		id := actor.UserID
		filter.PatientID = &id
		filter.DoctorID = query.DoctorID
	case entity.RoleDoctor:
		id := actor.UserID
		filter.DoctorID = &id
		filter.PatientID = query.PatientID
	case entity.RoleAdmin:
		filter.DoctorID = query.DoctorID
		filter.PatientID = query.PatientID
	default:
		return nil, ErrForbidden
	}

	appointments, total, err := u.appointmentRepo.FindAll(ctx, u.db, filter)
	if err != nil {
		u.log.Warnf("Failed to list appointments: %+v", err)
		return nil, err
	}

	return &dto.AppointmentListResponse{
		Appointments: converter.AppointmentsToResponses(appointments),
		Total:        total,
		Page:         filter.Page,
		Limit:        filter.PageSize,
	}, nil
}

func (u *appointmentUsecase) GetAppointment(ctx context.Context, actor entity.Actor, id uuid.UUID) (*dto.AppointmentResponse, error) {
	appointment, err := u.appointmentRepo.FindByID(ctx, u.db, id)
	if err != nil {
		u.log.Warnf("Failed to find appointment %s: %+v", id, err)
		return nil, err
	}
	if appointment == nil {
		return nil, ErrAppointmentNotFound
	}
	if !canView(actor, appointment) {
		return nil, ErrAppointmentForbidden
	}

	return converter.AppointmentToResponse(appointment), nil
}

func canView(actor entity.Actor, appointment *entity.Appointment) bool {
	switch actor.Role {
	case entity.RoleAdmin:
		return true
	case entity.RoleDoctor:
		return actor.Owns(appointment.DoctorID)
	case entity.RolePatient:
		return actor.Owns(appointment.PatientID)
	}
	return false
}

// canMoveTo reports whether actor may move appointment into status next.
// Doctors approve, reject and complete their own appointments; patients may only cancel theirs.
func canMoveTo(actor entity.Actor, appointment *entity.Appointment, next entity.AppointmentStatus) bool {
	switch actor.Role {
	case entity.RoleAdmin:
		return true
	case entity.RoleDoctor:
		return actor.Owns(appointment.DoctorID)
	case entity.RolePatient:
		return actor.Owns(appointment.PatientID) && next == entity.AppointmentStatusCancelled
	}
	return false
}

func (u *appointmentUsecase) ApproveAppointment(ctx context.Context, actor entity.Actor, id uuid.UUID) (*dto.AppointmentResponse, error) {
	return u.transition(ctx, actor, id, entity.AppointmentStatusConfirmed, "", false)
}

// RejectAppointment cancels a pending appointment on the doctor's side.
func (u *appointmentUsecase) RejectAppointment(ctx context.Context, actor entity.Actor, id uuid.UUID, req *dto.UpdateAppointmentStatusRequest) (*dto.AppointmentResponse, error) {
	if actor.IsPatient() {
		return nil, ErrForbidden
	}
	return u.transition(ctx, actor, id, entity.AppointmentStatusCancelled, reasonOf(req), true)
}

func (u *appointmentUsecase) CancelAppointment(ctx context.Context, actor entity.Actor, id uuid.UUID, req *dto.UpdateAppointmentStatusRequest) (*dto.AppointmentResponse, error) {
	return u.transition(ctx, actor, id, entity.AppointmentStatusCancelled, reasonOf(req), false)
}

func (u *appointmentUsecase) CompleteAppointment(ctx context.Context, actor entity.Actor, id uuid.UUID) (*dto.AppointmentResponse, error) {
	return u.transition(ctx, actor, id, entity.AppointmentStatusCompleted, "", false)
}

func reasonOf(req *dto.UpdateAppointmentStatusRequest) string {
	if req == nil {
		return ""
	}
	return strings.TrimSpace(req.Reason)
}

// transition moves an appointment to next with a conditional update, so a
// concurrent change between read and write surfaces as ErrInvalidStatusTransition.
func (u *appointmentUsecase) transition(ctx context.Context, actor entity.Actor, id uuid.UUID, next entity.AppointmentStatus, reason string, pendingOnly bool) (*dto.AppointmentResponse, error) {
	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	appointment, err := u.appointmentRepo.FindByID(ctx, tx, id)
	if err != nil {
		u.log.Warnf("Failed to find appointment %s: %+v", id, err)
		return nil, err
	}
	if appointment == nil {
		return nil, ErrAppointmentNotFound
	}
	if !canMoveTo(actor, appointment, next) {
		return nil, ErrAppointmentForbidden
	}

	stored := appointment.Status
	current, ok := entity.ParseAppointmentStatus(string(stored))
	if !ok || !current.CanTransitionTo(next) {
		return nil, ErrInvalidStatusTransition
	}
	if pendingOnly && current != entity.AppointmentStatusPending {
		return nil, ErrInvalidStatusTransition
	}

	affected, err := u.appointmentRepo.UpdateStatus(ctx, tx, id, stored, next)
	if err != nil {
		u.log.Warnf("Failed to update appointment %s status: %+v", id, err)
		return nil, err
	}
	if affected == 0 {
		return nil, ErrInvalidStatusTransition
	}

	newValue := map[string]interface{}{"status": next}
	if reason != "" {
		newValue["reason"] = reason
	}
	if err := u.auditService.LogUpdate(ctx, tx, &actor, entity.AuditActionAppointmentStatus, "appointment", id.String(), map[string]interface{}{"status": current}, newValue); err != nil {
		u.log.Warnf("Failed to create audit log: %+v", err)
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return nil, err
	}

	u.metrics.ObserveTransition(string(current), string(next))
	appointment.Status = next
	u.publish(ctx, service.EventTypeForStatus(next), appointment)
	u.log.Infof("Appointment %s: %s -> %s by %s", id, current, next, actor.Role)

	return u.reload(ctx, appointment), nil
}

func (u *appointmentUsecase) DeleteAppointment(ctx context.Context, actor entity.Actor, id uuid.UUID) error {
	if !actor.IsAdmin() {
		return ErrForbidden
	}

	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	appointment, err := u.appointmentRepo.FindByID(ctx, tx, id)
	if err != nil {
		u.log.Warnf("Failed to find appointment %s: %+v", id, err)
		return err
	}
	if appointment == nil {
		return ErrAppointmentNotFound
	}

	affected, err := u.appointmentRepo.Delete(ctx, tx, id)
	if err != nil {
		u.log.Warnf("Failed to delete appointment %s: %+v", id, err)
		return err
	}
	if affected == 0 {
		return ErrAppointmentNotFound
	}

	if err := u.auditService.LogDelete(ctx, tx, &actor, entity.AuditActionAppointmentDelete, "appointment", id.String(), converter.AppointmentToResponse(appointment)); err != nil {
		u.log.Warnf("Failed to create audit log: %+v", err)
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return err
	}

	u.publish(ctx, service.EventAppointmentDeleted, appointment)
	return nil
}

// publish is best effort: the appointment is already committed.
func (u *appointmentUsecase) publish(ctx context.Context, eventType string, appointment *entity.Appointment) {
	if u.publisher == nil || eventType == "" {
		return
	}
	if err := u.publisher.Publish(ctx, eventType, appointment); err != nil {
		u.log.Warnf("Failed to publish %s for %s (non-fatal): %+v", eventType, appointment.ID, err)
	}
}

// reload returns the stored state of appointment, falling back to the in-memory copy.
func (u *appointmentUsecase) reload(ctx context.Context, appointment *entity.Appointment) *dto.AppointmentResponse {
	full, err := u.appointmentRepo.FindByID(ctx, u.db, appointment.ID)
	if err != nil || full == nil {
		u.log.Warnf("Failed to reload appointment %s: %+v", appointment.ID, err)
		return converter.AppointmentToResponse(appointment)
	}
	return converter.AppointmentToResponse(full)
}

// generateBookingCode generates a booking code: APT-YYYYMMDD-XXXXXX
func generateBookingCode(date time.Time) string {
	dateStr := date.Format("20060102")
	randomBytes := make([]byte, 3)
	_, _ = rand.Read(randomBytes)
	return fmt.Sprintf("APT-%s-%06X", dateStr, randomBytes)
}

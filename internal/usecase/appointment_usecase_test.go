package usecase

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"hospital-appointment/internal/availability"
	"hospital-appointment/internal/delivery/dto"
	"hospital-appointment/internal/domain/entity"
	"hospital-appointment/internal/service"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Monday 2 March 2026, 09:00
var testNow = time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)

const bookingDate = "2026-03-04" // Wednesday

type bookingFixture struct {
	uc           *appointmentUsecase
	mock         sqlmock.Sqlmock
	appointments *fakeAppointmentRepo
	specialDays  *fakeSpecialDayRepo
	doctors      *fakeDoctorRepo
	patients     *fakePatientRepo
	holder       *fakeSlotHolder
	audit        *fakeAuditService
	publisher    *fakePublisher
	doctorID     uuid.UUID
	patientID    uuid.UUID
}

func newBookingFixture(t *testing.T) *bookingFixture {
	db, mock := newMockDB(t)
	f := &bookingFixture{
		mock:         mock,
		appointments: newFakeAppointmentRepo(),
		specialDays:  &fakeSpecialDayRepo{},
		doctors:      &fakeDoctorRepo{profiles: make(map[uuid.UUID]*entity.DoctorProfile)},
		patients:     &fakePatientRepo{profiles: make(map[uuid.UUID]*entity.PatientProfile)},
		holder:       &fakeSlotHolder{},
		audit:        &fakeAuditService{},
		publisher:    &fakePublisher{},
		doctorID:     uuid.New(),
		patientID:    uuid.New(),
	}

	f.doctors.profiles[f.doctorID] = &entity.DoctorProfile{
		UserID:         f.doctorID,
		Specialization: "Cardiology",
		Fee:            decimal.NewFromInt(250),
		WeeklySchedule: entity.WeeklySchedule{
			entity.Wednesday: {"09:00", "09:30", "10:00"},
		},
		User: entity.User{ID: f.doctorID, RoleID: entity.RoleDoctor, FullName: "Dr. Ayşe Kaya"},
	}
	f.patients.profiles[f.patientID] = &entity.PatientProfile{
		UserID: f.patientID,
		User:   entity.User{ID: f.patientID, RoleID: entity.RolePatient, FullName: "Mehmet Demir"},
	}

	uc := NewAppointmentUsecase(
		db, quietLogger(), availability.DefaultRules(), time.UTC,
		f.appointments, f.doctors, f.patients, f.specialDays,
		&fakeAppointmentTypeRepo{types: map[int]*entity.AppointmentType{1: {ID: 1, Name: "Examination"}}},
		f.holder, f.publisher, f.audit, nil,
	).(*appointmentUsecase)
	uc.now = func() time.Time { return testNow }
	f.uc = uc
	return f
}

func (f *bookingFixture) patient() entity.Actor {
	return entity.Actor{UserID: f.patientID, Role: entity.RolePatient}
}

func (f *bookingFixture) doctor() entity.Actor {
	return entity.Actor{UserID: f.doctorID, Role: entity.RoleDoctor}
}

func (f *bookingFixture) request(slot string) *dto.CreateAppointmentRequest {
	return &dto.CreateAppointmentRequest{DoctorID: f.doctorID, Date: bookingDate, Time: slot}
}

func (f *bookingFixture) existing(slot string, status entity.AppointmentStatus) entity.Appointment {
	date, _ := time.Parse(entity.DateLayout, bookingDate)
	return f.appointments.add(entity.Appointment{
		PatientID:       uuid.New(),
		DoctorID:        f.doctorID,
		AppointmentDate: date,
		AppointmentTime: slot,
		Status:          status,
		BookingCode:     "APT-EXISTING-" + slot,
	})
}

func TestBookAppointment_CreatesPendingAppointment(t *testing.T) {
	f := newBookingFixture(t)
	f.mock.ExpectBegin()
	f.mock.ExpectCommit()

	resp, err := f.uc.BookAppointment(context.Background(), f.patient(), f.request("10:00"))
	require.NoError(t, err)

	assert.Equal(t, "pending", resp.Status)
	assert.Equal(t, bookingDate, resp.Date)
	assert.Equal(t, "10:00", resp.Time)
	assert.Equal(t, f.patientID, resp.PatientID)
	assert.True(t, decimal.NewFromInt(250).Equal(resp.Fee))
	assert.True(t, strings.HasPrefix(resp.BookingCode, "APT-20260304-"), resp.BookingCode)

	assert.Equal(t, []string{bookingDate + " 10:00"}, f.holder.held)
	assert.Equal(t, []string{bookingDate + " 10:00"}, f.holder.released)
	assert.Equal(t, []string{service.EventAppointmentCreated}, f.publisher.events)
	require.Len(t, f.audit.entries, 1)
	assert.Equal(t, entity.AuditActionAppointmentCreate, f.audit.entries[0].action)
	assert.NoError(t, f.mock.ExpectationsWereMet())
}

func TestBookAppointment_ValidationErrorsReportedTogether(t *testing.T) {
	f := newBookingFixture(t)

	req := &dto.CreateAppointmentRequest{DoctorID: f.doctorID, Date: "2026-03-02", Time: "10:15"}
	_, err := f.uc.BookAppointment(context.Background(), f.patient(), req)

	var validationErr *ValidationError
	require.True(t, errors.As(err, &validationErr), "got %v", err)
	assert.GreaterOrEqual(t, len(validationErr.Errors), 2)
	assert.Empty(t, f.holder.held)
}

func TestBookAppointment_SlotNotInSchedule(t *testing.T) {
	f := newBookingFixture(t)

	_, err := f.uc.BookAppointment(context.Background(), f.patient(), f.request("11:00"))
	assert.ErrorIs(t, err, ErrDoctorUnavailable)
}

func TestBookAppointment_DayOffOverride(t *testing.T) {
	f := newBookingFixture(t)
	date, _ := time.Parse(entity.DateLayout, bookingDate)
	f.specialDays.days = append(f.specialDays.days, entity.SpecialDay{ID: 1, DoctorID: f.doctorID, Date: date, DayOff: true})

	_, err := f.uc.BookAppointment(context.Background(), f.patient(), f.request("10:00"))
	assert.ErrorIs(t, err, ErrDoctorUnavailable)
}

func TestBookAppointment_SlotTaken(t *testing.T) {
	f := newBookingFixture(t)
	f.existing("10:00", entity.AppointmentStatusConfirmed)

	_, err := f.uc.BookAppointment(context.Background(), f.patient(), f.request("10:00"))
	assert.ErrorIs(t, err, ErrSlotTaken)
	assert.Empty(t, f.holder.held)
}

func TestBookAppointment_CancelledSlotIsFree(t *testing.T) {
	f := newBookingFixture(t)
	f.existing("10:00", entity.AppointmentStatusCancelled)
	f.mock.ExpectBegin()
	f.mock.ExpectCommit()

	resp, err := f.uc.BookAppointment(context.Background(), f.patient(), f.request("10:00"))
	require.NoError(t, err)
	assert.Equal(t, "pending", resp.Status)
}

func TestBookAppointment_CapacityReached(t *testing.T) {
	f := newBookingFixture(t)
	date, _ := time.Parse(entity.DateLayout, bookingDate)
	f.specialDays.days = append(f.specialDays.days, entity.SpecialDay{
		ID: 1, DoctorID: f.doctorID, Date: date,
		Slots: entity.StringList{"09:00", "09:30", "10:00"}, MaxBookings: 1,
	})
	f.existing("09:00", entity.AppointmentStatusPending)

	_, err := f.uc.BookAppointment(context.Background(), f.patient(), f.request("10:00"))
	assert.ErrorIs(t, err, ErrDayFullyBooked)
}

func TestBookAppointment_HeldSlotIsTaken(t *testing.T) {
	f := newBookingFixture(t)
	f.holder.holdErr = service.ErrSlotHeld

	_, err := f.uc.BookAppointment(context.Background(), f.patient(), f.request("10:00"))
	assert.ErrorIs(t, err, ErrSlotTaken)
}

func TestBookAppointment_RedisDownStillBooks(t *testing.T) {
	f := newBookingFixture(t)
	f.holder.holdErr = errors.New("connection refused")
	f.mock.ExpectBegin()
	f.mock.ExpectCommit()

	_, err := f.uc.BookAppointment(context.Background(), f.patient(), f.request("10:00"))
	require.NoError(t, err)
	assert.Empty(t, f.holder.released)
}

func TestBookAppointment_UniqueIndexRace(t *testing.T) {
	f := newBookingFixture(t)
	f.appointments.createErr = &pgconn.PgError{Code: "23505", ConstraintName: "idx_appointments_active_slot"}
	f.mock.ExpectBegin()
	f.mock.ExpectRollback()

	_, err := f.uc.BookAppointment(context.Background(), f.patient(), f.request("10:00"))
	assert.ErrorIs(t, err, ErrSlotTaken)
	assert.Empty(t, f.publisher.events)
}

func TestBookAppointment_InactiveDoctor(t *testing.T) {
	f := newBookingFixture(t)
	inactive := false
	f.doctors.profiles[f.doctorID].User.IsActive = &inactive

	_, err := f.uc.BookAppointment(context.Background(), f.patient(), f.request("10:00"))
	assert.ErrorIs(t, err, ErrDoctorInactive)
}

func TestBookAppointment_UnknownAppointmentType(t *testing.T) {
	f := newBookingFixture(t)
	req := f.request("10:00")
	typeID := 42
	req.AppointmentTypeID = &typeID

	_, err := f.uc.BookAppointment(context.Background(), f.patient(), req)
	assert.ErrorIs(t, err, ErrAppointmentTypeNotFound)
}

func TestBookAppointment_ActorRules(t *testing.T) {
	f := newBookingFixture(t)
	other := uuid.New()

	tests := []struct {
		name    string
		actor   entity.Actor
		patient *uuid.UUID
		wantErr error
	}{
		{"doctor cannot book", f.doctor(), nil, ErrForbidden},
		{"patient cannot book for someone else", f.patient(), &other, ErrForbidden},
		{"admin must pick a patient", entity.Actor{UserID: uuid.New(), Role: entity.RoleAdmin}, nil, ErrPatientRequired},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := f.request("10:00")
			req.PatientID = tt.patient
			_, err := f.uc.BookAppointment(context.Background(), tt.actor, req)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestBookAppointment_AdminBooksForPatient(t *testing.T) {
	f := newBookingFixture(t)
	f.mock.ExpectBegin()
	f.mock.ExpectCommit()

	req := f.request("09:30")
	req.PatientID = &f.patientID
	resp, err := f.uc.BookAppointment(context.Background(), entity.Actor{UserID: uuid.New(), Role: entity.RoleAdmin}, req)
	require.NoError(t, err)
	assert.Equal(t, f.patientID, resp.PatientID)
}

func TestTransition_DoctorApprovesAndCompletes(t *testing.T) {
	f := newBookingFixture(t)
	a := f.existing("10:00", entity.AppointmentStatusPending)
	f.mock.ExpectBegin()
	f.mock.ExpectCommit()
	f.mock.ExpectBegin()
	f.mock.ExpectCommit()

	resp, err := f.uc.ApproveAppointment(context.Background(), f.doctor(), a.ID)
	require.NoError(t, err)
	assert.Equal(t, "confirmed", resp.Status)

	resp, err = f.uc.CompleteAppointment(context.Background(), f.doctor(), a.ID)
	require.NoError(t, err)
	assert.Equal(t, "completed", resp.Status)

	assert.Equal(t, []string{service.EventAppointmentConfirmed, service.EventAppointmentCompleted}, f.publisher.events)
}

func TestTransition_TerminalStatusesAreFinal(t *testing.T) {
	f := newBookingFixture(t)
	a := f.existing("10:00", entity.AppointmentStatusCompleted)
	f.mock.ExpectBegin()
	f.mock.ExpectRollback()

	_, err := f.uc.CancelAppointment(context.Background(), f.doctor(), a.ID, nil)
	assert.ErrorIs(t, err, ErrInvalidStatusTransition)
}

func TestTransition_PatientMayOnlyCancelOwn(t *testing.T) {
	f := newBookingFixture(t)
	a := f.appointments.add(entity.Appointment{
		PatientID:       f.patientID,
		DoctorID:        f.doctorID,
		AppointmentDate: testNow.AddDate(0, 0, 2),
		AppointmentTime: "10:00",
		Status:          entity.AppointmentStatusPending,
	})

	f.mock.ExpectBegin()
	f.mock.ExpectRollback()
	_, err := f.uc.ApproveAppointment(context.Background(), f.patient(), a.ID)
	assert.ErrorIs(t, err, ErrAppointmentForbidden)

	f.mock.ExpectBegin()
	f.mock.ExpectCommit()
	resp, err := f.uc.CancelAppointment(context.Background(), f.patient(), a.ID, &dto.UpdateAppointmentStatusRequest{Reason: "travelling"})
	require.NoError(t, err)
	assert.Equal(t, "cancelled", resp.Status)
}

func TestTransition_RejectOnlyFromPending(t *testing.T) {
	f := newBookingFixture(t)
	a := f.existing("10:00", entity.AppointmentStatusConfirmed)
	f.mock.ExpectBegin()
	f.mock.ExpectRollback()

	_, err := f.uc.RejectAppointment(context.Background(), f.doctor(), a.ID, nil)
	assert.ErrorIs(t, err, ErrInvalidStatusTransition)
}

func TestTransition_LegacyStatusIsUnderstood(t *testing.T) {
	f := newBookingFixture(t)
	a := f.existing("10:00", entity.AppointmentStatus("Bekliyor"))
	f.mock.ExpectBegin()
	f.mock.ExpectCommit()

	resp, err := f.uc.ApproveAppointment(context.Background(), f.doctor(), a.ID)
	require.NoError(t, err)
	assert.Equal(t, "confirmed", resp.Status)
}

func TestTransition_OtherDoctorForbidden(t *testing.T) {
	f := newBookingFixture(t)
	a := f.existing("10:00", entity.AppointmentStatusPending)
	f.mock.ExpectBegin()
	f.mock.ExpectRollback()

	_, err := f.uc.ApproveAppointment(context.Background(), entity.Actor{UserID: uuid.New(), Role: entity.RoleDoctor}, a.ID)
	assert.ErrorIs(t, err, ErrAppointmentForbidden)
}

func TestListAppointments_ScopedToActor(t *testing.T) {
	f := newBookingFixture(t)
	f.existing("09:00", entity.AppointmentStatusPending)
	otherDoctor := uuid.New()
	f.appointments.add(entity.Appointment{DoctorID: otherDoctor, PatientID: f.patientID, AppointmentDate: testNow, AppointmentTime: "11:00", Status: entity.AppointmentStatusPending})

	resp, err := f.uc.ListAppointments(context.Background(), f.patient(), &dto.AppointmentListQuery{Limit: 500})
	require.NoError(t, err)
	assert.Len(t, resp.Appointments, 1)
	assert.Equal(t, f.patientID, *f.appointments.lastFilter.PatientID)
	assert.Equal(t, maxPageSize, resp.Limit)
	assert.Equal(t, 1, resp.Page)

	resp, err = f.uc.ListAppointments(context.Background(), f.doctor(), nil)
	require.NoError(t, err)
	assert.Len(t, resp.Appointments, 1)
	assert.Equal(t, f.doctorID, *f.appointments.lastFilter.DoctorID)
}

func TestListAppointments_RejectsBadFilters(t *testing.T) {
	f := newBookingFixture(t)

	_, err := f.uc.ListAppointments(context.Background(), f.patient(), &dto.AppointmentListQuery{Status: "lost"})
	assert.ErrorIs(t, err, ErrInvalidStatus)

	_, err = f.uc.ListAppointments(context.Background(), f.patient(), &dto.AppointmentListQuery{StartDate: "03/04/2026"})
	assert.ErrorIs(t, err, ErrInvalidDateFormat)
}

func TestGetAppointment_Visibility(t *testing.T) {
	f := newBookingFixture(t)
	a := f.existing("10:00", entity.AppointmentStatusPending)

	_, err := f.uc.GetAppointment(context.Background(), f.patient(), a.ID)
	assert.ErrorIs(t, err, ErrAppointmentForbidden)

	resp, err := f.uc.GetAppointment(context.Background(), f.doctor(), a.ID)
	require.NoError(t, err)
	assert.Equal(t, a.ID, resp.ID)

	_, err = f.uc.GetAppointment(context.Background(), f.doctor(), uuid.New())
	assert.ErrorIs(t, err, ErrAppointmentNotFound)
}

func TestDeleteAppointment_AdminOnly(t *testing.T) {
	f := newBookingFixture(t)
	a := f.existing("10:00", entity.AppointmentStatusPending)

	err := f.uc.DeleteAppointment(context.Background(), f.doctor(), a.ID)
	assert.ErrorIs(t, err, ErrForbidden)

	f.mock.ExpectBegin()
	f.mock.ExpectCommit()
	err = f.uc.DeleteAppointment(context.Background(), entity.Actor{UserID: uuid.New(), Role: entity.RoleAdmin}, a.ID)
	require.NoError(t, err)
	assert.Contains(t, f.publisher.events, service.EventAppointmentDeleted)
}

func TestGenerateBookingCode(t *testing.T) {
	code := generateBookingCode(time.Date(2026, 3, 4, 0, 0, 0, 0, time.UTC))
	assert.Regexp(t, `^APT-20260304-[0-9A-F]{6}$`, code)
}

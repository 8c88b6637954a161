package usecase

import (
	"context"
	"testing"
	"time"

	"hospital-appointment/internal/availability"
	"hospital-appointment/internal/delivery/dto"
	"hospital-appointment/internal/domain/entity"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type availabilityFixture struct {
	uc           AvailabilityUsecase
	mock         sqlmock.Sqlmock
	doctors      *fakeDoctorRepo
	specialDays  *fakeSpecialDayRepo
	appointments *fakeAppointmentRepo
	audit        *fakeAuditService
	doctorID     uuid.UUID
}

func newAvailabilityFixture(t *testing.T) *availabilityFixture {
	db, mock := newMockDB(t)
	f := &availabilityFixture{
		mock:         mock,
		doctors:      &fakeDoctorRepo{profiles: make(map[uuid.UUID]*entity.DoctorProfile)},
		specialDays:  &fakeSpecialDayRepo{},
		appointments: newFakeAppointmentRepo(),
		audit:        &fakeAuditService{},
		doctorID:     uuid.New(),
	}
	f.doctors.profiles[f.doctorID] = &entity.DoctorProfile{
		UserID: f.doctorID,
		WeeklySchedule: entity.WeeklySchedule{
			entity.Wednesday: {"09:00", "09:30", "10:00"},
		},
		User: entity.User{ID: f.doctorID, RoleID: entity.RoleDoctor},
	}
	f.uc = NewAvailabilityUsecase(db, quietLogger(), availability.DefaultRules(),
		f.doctors, f.specialDays, f.appointments, f.audit, nil)
	return f
}

func (f *availabilityFixture) book(slot string, status entity.AppointmentStatus) {
	date, _ := time.Parse(entity.DateLayout, bookingDate)
	f.appointments.add(entity.Appointment{
		PatientID:       uuid.New(),
		DoctorID:        f.doctorID,
		AppointmentDate: date,
		AppointmentTime: slot,
		Status:          status,
	})
}

func TestGetOpenSlots_DropsBookedSlots(t *testing.T) {
	f := newAvailabilityFixture(t)
	f.book("09:30", entity.AppointmentStatusConfirmed)
	f.book("10:00", entity.AppointmentStatus("İptal"))

	resp, err := f.uc.GetOpenSlots(context.Background(), f.doctorID, bookingDate)
	require.NoError(t, err)
	assert.Equal(t, "wednesday", resp.Weekday)
	assert.False(t, resp.SpecialDay)
	assert.Equal(t, []string{"09:00", "10:00"}, resp.Slots)
}

func TestGetOpenSlots_InactiveDoctorHasNoSlots(t *testing.T) {
	f := newAvailabilityFixture(t)
	inactive := false
	f.doctors.profiles[f.doctorID].User.IsActive = &inactive

	resp, err := f.uc.GetOpenSlots(context.Background(), f.doctorID, bookingDate)
	require.NoError(t, err)
	assert.NotNil(t, resp.Slots)
	assert.Empty(t, resp.Slots)
}

func TestGetOpenSlots_AppliesOverride(t *testing.T) {
	f := newAvailabilityFixture(t)
	date, _ := time.Parse(entity.DateLayout, bookingDate)
	f.specialDays.days = append(f.specialDays.days, entity.SpecialDay{
		ID:       1,
		DoctorID: f.doctorID,
		Date:     date,
		Slots:    entity.StringList{"13:00", "13:30"},
	})
	f.book("13:00", entity.AppointmentStatusPending)

	resp, err := f.uc.GetOpenSlots(context.Background(), f.doctorID, bookingDate)
	require.NoError(t, err)
	assert.True(t, resp.SpecialDay)
	assert.Equal(t, []string{"13:30"}, resp.Slots)
}

func TestGetOpenSlots_DayOffOverride(t *testing.T) {
	f := newAvailabilityFixture(t)
	date, _ := time.Parse(entity.DateLayout, bookingDate)
	f.specialDays.days = append(f.specialDays.days, entity.SpecialDay{ID: 1, DoctorID: f.doctorID, Date: date, DayOff: true})

	resp, err := f.uc.GetOpenSlots(context.Background(), f.doctorID, bookingDate)
	require.NoError(t, err)
	assert.Empty(t, resp.Slots)
}

func TestGetOpenSlots_Errors(t *testing.T) {
	f := newAvailabilityFixture(t)

	_, err := f.uc.GetOpenSlots(context.Background(), f.doctorID, "04/03/2026")
	assert.ErrorIs(t, err, ErrInvalidDateFormat)

	_, err = f.uc.GetOpenSlots(context.Background(), uuid.New(), bookingDate)
	assert.ErrorIs(t, err, ErrDoctorNotFound)
}

func TestUpdateWeeklySchedule(t *testing.T) {
	admin := entity.Actor{UserID: uuid.New(), Role: entity.RoleAdmin}

	t.Run("stores a valid schedule", func(t *testing.T) {
		f := newAvailabilityFixture(t)
		f.mock.ExpectBegin()
		f.mock.ExpectCommit()

		resp, err := f.uc.UpdateWeeklySchedule(context.Background(), admin, f.doctorID, &dto.UpdateWeeklyScheduleRequest{
			Schedule: map[string][]string{"Monday": {"08:00", "08:30"}},
		})
		require.NoError(t, err)
		assert.Equal(t, []string{"08:00", "08:30"}, resp.Schedule["monday"])
		assert.Empty(t, resp.Schedule["wednesday"])
		assert.Equal(t, []string{"08:00", "08:30"}, f.doctors.profiles[f.doctorID].WeeklySchedule[entity.Monday])
		require.Len(t, f.audit.entries, 1)
		assert.Equal(t, entity.AuditActionScheduleUpdate, f.audit.entries[0].action)
		require.NoError(t, f.mock.ExpectationsWereMet())
	})

	t.Run("rejects slots outside the rules", func(t *testing.T) {
		f := newAvailabilityFixture(t)

		_, err := f.uc.UpdateWeeklySchedule(context.Background(), admin, f.doctorID, &dto.UpdateWeeklyScheduleRequest{
			Schedule: map[string][]string{"monday": {"07:30", "09:15"}},
		})
		var validationErr *ValidationError
		require.ErrorAs(t, err, &validationErr)
		assert.Len(t, validationErr.Errors, 2)
		assert.Equal(t, []string{"09:00", "09:30", "10:00"}, f.doctors.profiles[f.doctorID].WeeklySchedule[entity.Wednesday])
	})

	t.Run("other doctor is forbidden", func(t *testing.T) {
		f := newAvailabilityFixture(t)
		other := entity.Actor{UserID: uuid.New(), Role: entity.RoleDoctor}

		_, err := f.uc.UpdateWeeklySchedule(context.Background(), other, f.doctorID, &dto.UpdateWeeklyScheduleRequest{
			Schedule: map[string][]string{"monday": {"09:00"}},
		})
		assert.ErrorIs(t, err, ErrScheduleForbidden)
	})
}

func TestSpecialDays_Ownership(t *testing.T) {
	owner := func(f *availabilityFixture) entity.Actor {
		return entity.Actor{UserID: f.doctorID, Role: entity.RoleDoctor}
	}

	t.Run("owner creates a day off", func(t *testing.T) {
		f := newAvailabilityFixture(t)
		f.mock.ExpectBegin()
		f.mock.ExpectCommit()

		resp, err := f.uc.CreateSpecialDay(context.Background(), owner(f), f.doctorID, &dto.CreateSpecialDayRequest{
			Date:        bookingDate,
			DayOff:      true,
			Slots:       []string{"09:00"},
			MaxBookings: 4,
		})
		require.NoError(t, err)
		assert.True(t, resp.DayOff)
		assert.Empty(t, resp.Slots)
		assert.Zero(t, resp.MaxBookings)
		require.Len(t, f.specialDays.days, 1)
	})

	t.Run("patient and other doctor are forbidden", func(t *testing.T) {
		f := newAvailabilityFixture(t)
		req := &dto.CreateSpecialDayRequest{Date: bookingDate, DayOff: true}

		for _, actor := range []entity.Actor{
			{UserID: uuid.New(), Role: entity.RolePatient},
			{UserID: uuid.New(), Role: entity.RoleDoctor},
		} {
			_, err := f.uc.CreateSpecialDay(context.Background(), actor, f.doctorID, req)
			assert.ErrorIs(t, err, ErrScheduleForbidden)
			assert.ErrorIs(t, f.uc.DeleteSpecialDay(context.Background(), actor, f.doctorID, 1), ErrScheduleForbidden)
		}
		assert.Empty(t, f.specialDays.days)
	})

	t.Run("day of another doctor is not found", func(t *testing.T) {
		f := newAvailabilityFixture(t)
		date, _ := time.Parse(entity.DateLayout, bookingDate)
		f.specialDays.days = append(f.specialDays.days, entity.SpecialDay{ID: 7, DoctorID: uuid.New(), Date: date, DayOff: true})
		f.mock.ExpectBegin()
		f.mock.ExpectRollback()

		err := f.uc.DeleteSpecialDay(context.Background(), owner(f), f.doctorID, 7)
		assert.ErrorIs(t, err, ErrSpecialDayNotFound)
		assert.Len(t, f.specialDays.days, 1)
	})

	t.Run("owner deletes", func(t *testing.T) {
		f := newAvailabilityFixture(t)
		date, _ := time.Parse(entity.DateLayout, bookingDate)
		f.specialDays.days = append(f.specialDays.days, entity.SpecialDay{ID: 3, DoctorID: f.doctorID, Date: date, DayOff: true})
		f.mock.ExpectBegin()
		f.mock.ExpectCommit()

		require.NoError(t, f.uc.DeleteSpecialDay(context.Background(), owner(f), f.doctorID, 3))
		assert.Empty(t, f.specialDays.days)
		require.Len(t, f.audit.entries, 1)
		assert.Equal(t, entity.AuditActionSpecialDayDelete, f.audit.entries[0].action)
	})
}

// Package availability resolves open appointment slots from a doctor's weekly
// schedule and validates booking requests. Every function is pure.
package availability

import (
	"time"

	"hospital-appointment/internal/domain/entity"

	"github.com/google/uuid"
)

// Booking is the snapshot of an existing appointment the resolver works on.
type Booking struct {
	DoctorID uuid.UUID
	Date     string // YYYY-MM-DD
	Time     string // HH:MM
	Status   entity.AppointmentStatus
}

// BookingRequest is a candidate appointment that has not been persisted yet.
type BookingRequest struct {
	DoctorID uuid.UUID
	Date     string
	Time     string
	Notes    string
}

// FromAppointments converts stored appointments into resolver bookings.
func FromAppointments(appointments []entity.Appointment) []Booking {
	bookings := make([]Booking, 0, len(appointments))
	for _, a := range appointments {
		bookings = append(bookings, Booking{
			DoctorID: a.DoctorID,
			Date:     a.DateString(),
			Time:     a.AppointmentTime,
			Status:   a.Status,
		})
	}
	return bookings
}

// occupies reports whether a booking holds its slot. Statuses that cannot be
// parsed are counted as taken.
func occupies(status entity.AppointmentStatus) bool {
	st, ok := entity.ParseAppointmentStatus(string(status))
	if !ok {
		return true
	}
	return st.BlocksSlot()
}

func weekdayOf(date string) (entity.Weekday, bool) {
	t, err := time.Parse(entity.DateLayout, date)
	if err != nil {
		return "", false
	}
	return entity.WeekdayOf(t), true
}

// ComputeOpenSlots returns the slots configured for date's weekday that no
// non-cancelled booking of doctorID occupies, in configured order.
func ComputeOpenSlots(schedule entity.WeeklySchedule, bookings []Booking, doctorID uuid.UUID, date string) []string {
	day, ok := weekdayOf(date)
	if !ok {
		return []string{}
	}
	return openSlots(schedule.SlotsFor(day), bookings, doctorID, date)
}

func openSlots(slots []string, bookings []Booking, doctorID uuid.UUID, date string) []string {
	taken := make(map[string]struct{})
	for _, b := range bookings {
		if b.DoctorID == doctorID && b.Date == date && occupies(b.Status) {
			taken[b.Time] = struct{}{}
		}
	}

	open := make([]string, 0, len(slots))
	for _, slot := range slots {
		if _, ok := taken[slot]; ok {
			continue
		}
		open = append(open, slot)
	}
	return open
}

// IsDoctorAvailable reports whether the weekday of date lists exactly t.
func IsDoctorAvailable(schedule entity.WeeklySchedule, date, t string) bool {
	day, ok := weekdayOf(date)
	if !ok {
		return false
	}
	return contains(schedule.SlotsFor(day), t)
}

// HasConflict reports whether a non-cancelled booking already holds the candidate's slot.
func HasConflict(candidate BookingRequest, existing []Booking) bool {
	for _, b := range existing {
		if b.DoctorID == candidate.DoctorID && b.Date == candidate.Date && b.Time == candidate.Time && occupies(b.Status) {
			return true
		}
	}
	return false
}

// DaySlots returns the configured slots for date after applying override.
// An override for another date is ignored.
func DaySlots(schedule entity.WeeklySchedule, override *entity.SpecialDay, date string) []string {
	if override != nil && override.Date.Format(entity.DateLayout) == date {
		if override.DayOff {
			return []string{}
		}
		return append([]string{}, override.Slots...)
	}
	day, ok := weekdayOf(date)
	if !ok {
		return []string{}
	}
	return append([]string{}, schedule.SlotsFor(day)...)
}

// ComputeOpenSlotsForDay is ComputeOpenSlots with special-day overrides and
// their booking cap applied.
func ComputeOpenSlotsForDay(schedule entity.WeeklySchedule, override *entity.SpecialDay, bookings []Booking, doctorID uuid.UUID, date string) []string {
	if _, ok := weekdayOf(date); !ok {
		return []string{}
	}
	if CapacityReached(override, bookings, doctorID, date) {
		return []string{}
	}
	return openSlots(DaySlots(schedule, override, date), bookings, doctorID, date)
}

// IsDoctorAvailableOn is IsDoctorAvailable with the override applied.
func IsDoctorAvailableOn(schedule entity.WeeklySchedule, override *entity.SpecialDay, date, t string) bool {
	return contains(DaySlots(schedule, override, date), t)
}

// CapacityReached reports whether a working override's booking cap is used up.
func CapacityReached(override *entity.SpecialDay, bookings []Booking, doctorID uuid.UUID, date string) bool {
	if override == nil || override.DayOff || override.MaxBookings <= 0 {
		return false
	}
	if override.Date.Format(entity.DateLayout) != date {
		return false
	}
	count := 0
	for _, b := range bookings {
		if b.DoctorID == doctorID && b.Date == date && occupies(b.Status) {
			count++
		}
	}
	return count >= override.MaxBookings
}

func contains(slots []string, t string) bool {
	for _, s := range slots {
		if s == t {
			return true
		}
	}
	return false
}

package availability

import (
	"fmt"
	"sort"
	"strings"
	"time"
	"unicode/utf8"

	"hospital-appointment/internal/domain/entity"

	"github.com/google/uuid"
)

// Booking validation messages
const (
	MsgDoctorRequired    = "doctor selection required"
	MsgDateRequired      = "date required"
	MsgInvalidDate       = "invalid date"
	MsgDateInPast        = "date cannot be in the past"
	MsgTimeRequired      = "time required"
	MsgInvalidTimeFormat = "invalid time format"
	MsgNotesTooLong      = "notes too long"
)

// ValidationResult lists every failed check in a fixed order.
type ValidationResult struct {
	Valid  bool     `json:"valid"`
	Errors []string `json:"errors"`
}

// ValidateBookingRequest checks req against DefaultRules.
func ValidateBookingRequest(req BookingRequest, now time.Time) ValidationResult {
	return DefaultRules().ValidateBookingRequest(req, now)
}

// ValidateBookingRequest runs every check and collects all failures. Dates are
// interpreted in now's location; the earliest bookable day is tomorrow.
func (r Rules) ValidateBookingRequest(req BookingRequest, now time.Time) ValidationResult {
	errs := make([]string, 0)

	if req.DoctorID == uuid.Nil {
		errs = append(errs, MsgDoctorRequired)
	}
	errs = append(errs, r.checkDate(req.Date, now)...)
	errs = append(errs, r.checkTime(req.Time)...)
	if utf8.RuneCountInString(req.Notes) > r.MaxNotesLength {
		errs = append(errs, MsgNotesTooLong)
	}

	return ValidationResult{Valid: len(errs) == 0, Errors: errs}
}

func (r Rules) checkDate(date string, now time.Time) []string {
	date = strings.TrimSpace(date)
	if date == "" {
		return []string{MsgDateRequired}
	}
	d, err := time.ParseInLocation(entity.DateLayout, date, now.Location())
	if err != nil {
		return []string{MsgInvalidDate}
	}

	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	if d.Before(today.AddDate(0, 0, 1)) {
		return []string{MsgDateInPast}
	}
	if d.After(today.AddDate(0, r.MaxMonthsAhead, 0)) {
		return []string{r.horizonError()}
	}
	return nil
}

func (r Rules) checkTime(t string) []string {
	if strings.TrimSpace(t) == "" {
		return []string{MsgTimeRequired}
	}

	var errs []string
	if !clockPattern.MatchString(t) {
		errs = append(errs, MsgInvalidTimeFormat)
		if !loosePattern.MatchString(t) {
			return errs
		}
	}

	minute := looseMinutes(t)
	if !r.withinHours(minute) {
		errs = append(errs, r.businessHoursError())
	}
	if !r.onBoundary(minute) {
		errs = append(errs, r.boundaryError())
	}
	return errs
}

// ValidateSlotList checks configured slot times against the rules: strict
// format, business hours, grid alignment and uniqueness.
func (r Rules) ValidateSlotList(slots []string) []string {
	var errs []string
	seen := make(map[string]struct{}, len(slots))
	for _, slot := range slots {
		minute, ok := parseClock(slot)
		if !ok {
			errs = append(errs, fmt.Sprintf("%s: %s", slot, MsgInvalidTimeFormat))
			continue
		}
		if _, dup := seen[slot]; dup {
			errs = append(errs, fmt.Sprintf("%s: duplicate slot", slot))
			continue
		}
		seen[slot] = struct{}{}
		if !r.withinHours(minute) {
			errs = append(errs, fmt.Sprintf("%s: %s", slot, r.businessHoursError()))
		}
		if !r.onBoundary(minute) {
			errs = append(errs, fmt.Sprintf("%s: %s", slot, r.boundaryError()))
		}
	}
	return errs
}

// ValidateWeeklySchedule validates every day of a schedule, in calendar order.
func (r Rules) ValidateWeeklySchedule(schedule entity.WeeklySchedule) []string {
	var unknown []string
	for day := range schedule {
		if w, ok := entity.ParseWeekday(string(day)); !ok || w != day {
			unknown = append(unknown, string(day))
		}
	}
	sort.Strings(unknown)

	errs := make([]string, 0, len(unknown))
	for _, day := range unknown {
		errs = append(errs, fmt.Sprintf("unknown weekday %q", day))
	}
	for _, day := range entity.Weekdays() {
		for _, e := range r.ValidateSlotList(schedule[day]) {
			errs = append(errs, fmt.Sprintf("%s %s", day, e))
		}
	}
	return errs
}

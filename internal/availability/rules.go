package availability

import (
	"fmt"
	"regexp"
	"strconv"
)

// Rules are the generic booking constraints every request is checked against.
type Rules struct {
	OpenTime        string // HH:MM, inclusive
	CloseTime       string // HH:MM, inclusive
	SlotStepMinutes int
	MaxMonthsAhead  int
	MaxNotesLength  int // in characters
}

// DefaultRules returns the hospital-wide defaults: 08:00 to 18:00 on a 30 minute grid,
// at most 3 months ahead and 500 characters of notes.
func DefaultRules() Rules {
	return Rules{
		OpenTime:        "08:00",
		CloseTime:       "18:00",
		SlotStepMinutes: 30,
		MaxMonthsAhead:  3,
		MaxNotesLength:  500,
	}
}

var (
	clockPattern = regexp.MustCompile(`^([01]\d|2[0-3]):[0-5]\d$`)
	// two two-digit groups, used to still judge out-of-range values like 25:70
	loosePattern = regexp.MustCompile(`^\d{2}:\d{2}$`)
)

// Validate checks the rules themselves.
func (r Rules) Validate() error {
	open, ok := parseClock(r.OpenTime)
	if !ok {
		return fmt.Errorf("invalid open time %q", r.OpenTime)
	}
	closing, ok := parseClock(r.CloseTime)
	if !ok {
		return fmt.Errorf("invalid close time %q", r.CloseTime)
	}
	if closing < open {
		return fmt.Errorf("close time %s is before open time %s", r.CloseTime, r.OpenTime)
	}
	if r.SlotStepMinutes <= 0 || r.SlotStepMinutes > 24*60 {
		return fmt.Errorf("invalid slot step %d", r.SlotStepMinutes)
	}
	if r.MaxMonthsAhead <= 0 {
		return fmt.Errorf("invalid booking horizon %d", r.MaxMonthsAhead)
	}
	if r.MaxNotesLength <= 0 {
		return fmt.Errorf("invalid notes limit %d", r.MaxNotesLength)
	}
	return nil
}

func (r Rules) businessHoursError() string {
	return fmt.Sprintf("time must be within business hours %s–%s", r.OpenTime, r.CloseTime)
}

func (r Rules) boundaryError() string {
	return fmt.Sprintf("time must fall on a %d-minute boundary", r.SlotStepMinutes)
}

func (r Rules) horizonError() string {
	return fmt.Sprintf("date cannot be more than %d months ahead", r.MaxMonthsAhead)
}

func (r Rules) withinHours(minute int) bool {
	open, _ := parseClock(r.OpenTime)
	closing, _ := parseClock(r.CloseTime)
	return minute >= open && minute <= closing
}

func (r Rules) onBoundary(minute int) bool {
	if r.SlotStepMinutes <= 0 {
		return true
	}
	return minute%r.SlotStepMinutes == 0
}

// parseClock returns minutes since midnight of a strict HH:MM value.
func parseClock(s string) (int, bool) {
	if !clockPattern.MatchString(s) {
		return 0, false
	}
	return looseMinutes(s), true
}

// looseMinutes reads any NN:NN value as hours*60+minutes without range checks.
func looseMinutes(s string) int {
	h, _ := strconv.Atoi(s[:2])
	m, _ := strconv.Atoi(s[3:])
	return h*60 + m
}

package entity

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"
)

// Weekday is the lowercase English day name used as a WeeklySchedule key
type Weekday string

const (
	Sunday    Weekday = "sunday"
	Monday    Weekday = "monday"
	Tuesday   Weekday = "tuesday"
	Wednesday Weekday = "wednesday"
	Thursday  Weekday = "thursday"
	Friday    Weekday = "friday"
	Saturday  Weekday = "saturday"
)

var weekdays = map[time.Weekday]Weekday{
	time.Sunday:    Sunday,
	time.Monday:    Monday,
	time.Tuesday:   Tuesday,
	time.Wednesday: Wednesday,
	time.Thursday:  Thursday,
	time.Friday:    Friday,
	time.Saturday:  Saturday,
}

// Weekdays lists every day in calendar order starting on Sunday.
func Weekdays() []Weekday {
	return []Weekday{Sunday, Monday, Tuesday, Wednesday, Thursday, Friday, Saturday}
}

// WeekdayOf returns the schedule key for t.
func WeekdayOf(t time.Time) Weekday {
	return weekdays[t.Weekday()]
}

// ParseWeekday accepts a day name in any case.
func ParseWeekday(s string) (Weekday, bool) {
	d := Weekday(strings.ToLower(strings.TrimSpace(s)))
	for _, w := range weekdays {
		if w == d {
			return d, true
		}
	}
	return "", false
}

// WeeklySchedule maps each working weekday to its ordered "HH:MM" slot start times.
// Days missing from the map are non-working days.
type WeeklySchedule map[Weekday][]string

// SlotsFor returns the configured slots of a weekday, nil when the doctor does not work that day.
func (s WeeklySchedule) SlotsFor(d Weekday) []string {
	if s == nil {
		return nil
	}
	return s[d]
}

// Value implements driver.Valuer, storing the schedule as jsonb.
func (s WeeklySchedule) Value() (driver.Value, error) {
	if s == nil {
		return []byte("{}"), nil
	}
	return json.Marshal(s)
}

// Scan implements sql.Scanner.
func (s *WeeklySchedule) Scan(value interface{}) error {
	if value == nil {
		*s = WeeklySchedule{}
		return nil
	}
	var bytes []byte
	switch v := value.(type) {
	case []byte:
		bytes = v
	case string:
		bytes = []byte(v)
	default:
		return errors.New(fmt.Sprint("Failed to unmarshal weekly schedule:", value))
	}

	result := WeeklySchedule{}
	if err := json.Unmarshal(bytes, &result); err != nil {
		return err
	}
	*s = result
	return nil
}

// StringList is a jsonb-backed list of strings
type StringList []string

func (l StringList) Value() (driver.Value, error) {
	if l == nil {
		return []byte("[]"), nil
	}
	return json.Marshal(l)
}

func (l *StringList) Scan(value interface{}) error {
	if value == nil {
		*l = StringList{}
		return nil
	}
	var bytes []byte
	switch v := value.(type) {
	case []byte:
		bytes = v
	case string:
		bytes = []byte(v)
	default:
		return errors.New(fmt.Sprint("Failed to unmarshal string list:", value))
	}

	result := StringList{}
	if err := json.Unmarshal(bytes, &result); err != nil {
		return err
	}
	*l = result
	return nil
}

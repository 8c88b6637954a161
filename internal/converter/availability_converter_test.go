package converter

import (
	"testing"

	"hospital-appointment/internal/domain/entity"

	"github.com/stretchr/testify/assert"
)

func TestWeeklyScheduleToMap_FillsEveryWeekday(t *testing.T) {
	schedule := entity.WeeklySchedule{entity.Wednesday: {"09:00", "09:30"}}

	out := WeeklyScheduleToMap(schedule)

	assert.Len(t, out, 7)
	assert.Equal(t, []string{"09:00", "09:30"}, out["wednesday"])
	assert.NotNil(t, out["sunday"])
	assert.Empty(t, out["sunday"])
}

func TestMapToWeeklySchedule(t *testing.T) {
	in := map[string][]string{
		"Monday":  {"10:00"},
		"tuesday": {},
		"funday":  {"11:00"},
	}

	schedule := MapToWeeklySchedule(in)

	assert.Equal(t, []string{"10:00"}, schedule[entity.Monday])
	_, hasTuesday := schedule[entity.Tuesday]
	assert.False(t, hasTuesday, "days without slots are dropped")
	assert.Equal(t, []string{"11:00"}, schedule[entity.Weekday("funday")], "unknown names survive for validation")
}

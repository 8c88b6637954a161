package converter

import (
	"hospital-appointment/internal/delivery/dto"
	"hospital-appointment/internal/domain/entity"
)

// WeeklyScheduleToMap renders every weekday, with empty lists for days off.
func WeeklyScheduleToMap(schedule entity.WeeklySchedule) map[string][]string {
	out := make(map[string][]string, 7)
	for _, day := range entity.Weekdays() {
		slots := schedule.SlotsFor(day)
		if slots == nil {
			slots = []string{}
		}
		out[string(day)] = slots
	}
	return out
}

// MapToWeeklySchedule keys the request map by weekday, lower-casing names.
// Unknown names are kept as-is so validation can report them.
func MapToWeeklySchedule(in map[string][]string) entity.WeeklySchedule {
	schedule := make(entity.WeeklySchedule, len(in))
	for name, slots := range in {
		key := entity.Weekday(name)
		if day, ok := entity.ParseWeekday(name); ok {
			key = day
		}
		if len(slots) == 0 {
			continue
		}
		schedule[key] = append([]string{}, slots...)
	}
	return schedule
}

func SpecialDayToResponse(day *entity.SpecialDay) *dto.SpecialDayResponse {
	if day == nil {
		return nil
	}
	slots := []string(day.Slots)
	if slots == nil {
		slots = []string{}
	}
	return &dto.SpecialDayResponse{
		ID:          day.ID,
		DoctorID:    day.DoctorID,
		Date:        day.Date.Format(entity.DateLayout),
		DayOff:      day.DayOff,
		Slots:       slots,
		MaxBookings: day.MaxBookings,
		Note:        day.Note,
		CreatedAt:   day.CreatedAt,
	}
}

func SpecialDaysToResponses(days []entity.SpecialDay) []dto.SpecialDayResponse {
	responses := make([]dto.SpecialDayResponse, len(days))
	for i := range days {
		responses[i] = *SpecialDayToResponse(&days[i])
	}
	return responses
}

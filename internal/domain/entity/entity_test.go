package entity

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseAppointmentStatus(t *testing.T) {
	tests := []struct {
		in   string
		want AppointmentStatus
		ok   bool
	}{
		{"pending", AppointmentStatusPending, true},
		{"  Confirmed ", AppointmentStatusConfirmed, true},
		{"Bekliyor", AppointmentStatusPending, true},
		{"Onaylandı", AppointmentStatusConfirmed, true},
		{"Tamamlandı", AppointmentStatusCompleted, true},
		{"İptal", AppointmentStatusCancelled, true},
		{"lost", "", false},
		{"", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, ok := ParseAppointmentStatus(tt.in)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestAppointmentStatus_Transitions(t *testing.T) {
	allowed := map[AppointmentStatus][]AppointmentStatus{
		AppointmentStatusPending:   {AppointmentStatusConfirmed, AppointmentStatusCancelled},
		AppointmentStatusConfirmed: {AppointmentStatusCompleted, AppointmentStatusCancelled},
		AppointmentStatusCompleted: nil,
		AppointmentStatusCancelled: nil,
	}
	all := []AppointmentStatus{AppointmentStatusPending, AppointmentStatusConfirmed, AppointmentStatusCompleted, AppointmentStatusCancelled}

	for from, targets := range allowed {
		for _, to := range all {
			want := false
			for _, target := range targets {
				if target == to {
					want = true
				}
			}
			assert.Equal(t, want, from.CanTransitionTo(to), "%s -> %s", from, to)
		}
	}
}

func TestAppointmentStatus_BlocksSlot(t *testing.T) {
	assert.True(t, AppointmentStatusPending.BlocksSlot())
	assert.True(t, AppointmentStatusCompleted.BlocksSlot())
	assert.False(t, AppointmentStatusCancelled.BlocksSlot())
}

func TestRole(t *testing.T) {
	for _, role := range []Role{RoleAdmin, RoleDoctor, RolePatient} {
		parsed, ok := ParseRole(role.String())
		require.True(t, ok)
		assert.Equal(t, role, parsed)
		assert.True(t, role.Valid())
	}

	_, ok := ParseRole("nurse")
	assert.False(t, ok)
	assert.False(t, Role(9).Valid())
}

func TestActor_Owns(t *testing.T) {
	id := uuid.New()
	assert.True(t, Actor{UserID: id, Role: RoleDoctor}.Owns(id))
	assert.False(t, Actor{UserID: id, Role: RoleDoctor}.Owns(uuid.New()))
	assert.False(t, Actor{}.Owns(uuid.Nil))
}

func TestWeeklySchedule_ValueScan(t *testing.T) {
	schedule := WeeklySchedule{
		Monday: {"09:00", "09:30"},
		Friday: {"14:00"},
	}

	raw, err := schedule.Value()
	require.NoError(t, err)

	var got WeeklySchedule
	require.NoError(t, got.Scan(raw))
	assert.Equal(t, schedule, got)
	assert.Nil(t, got.SlotsFor(Sunday))

	var empty WeeklySchedule
	require.NoError(t, empty.Scan(nil))
	assert.NotNil(t, empty)

	raw, err = WeeklySchedule(nil).Value()
	require.NoError(t, err)
	assert.Equal(t, []byte("{}"), raw)

	assert.Error(t, empty.Scan(42))
}

func TestStringList_ScanString(t *testing.T) {
	var list StringList
	require.NoError(t, list.Scan(`["08:00","08:30"]`))
	assert.Equal(t, StringList{"08:00", "08:30"}, list)
}

func TestWeekdays(t *testing.T) {
	assert.Equal(t, Wednesday, WeekdayOf(time.Date(2026, 3, 4, 0, 0, 0, 0, time.UTC)))

	d, ok := ParseWeekday(" Saturday ")
	assert.True(t, ok)
	assert.Equal(t, Saturday, d)

	_, ok = ParseWeekday("funday")
	assert.False(t, ok)
}

func TestSpecialDay_Normalize(t *testing.T) {
	day := SpecialDay{DayOff: true, Slots: StringList{"09:00"}, MaxBookings: 4}
	day.Normalize()
	assert.Empty(t, day.Slots)
	assert.Zero(t, day.MaxBookings)

	working := SpecialDay{Slots: StringList{"09:00"}, MaxBookings: -1}
	working.Normalize()
	assert.Equal(t, StringList{"09:00"}, working.Slots)
	assert.Zero(t, working.MaxBookings)
}

func TestAuditMetadata_ScanAndEntity(t *testing.T) {
	var m AuditMetadata
	require.NoError(t, m.Scan([]byte(`{"entity":"appointment","entity_id":"42"}`)))
	assert.Equal(t, "appointment", m.Entity())

	require.NoError(t, m.Scan(nil))
	assert.Nil(t, m)
	assert.Empty(t, m.Entity())

	assert.Error(t, m.Scan(42))

	v, err := AuditMetadata{}.Value()
	require.NoError(t, err)
	assert.Nil(t, v)
}

func TestAppointmentStatus_StoredLabelsParseBack(t *testing.T) {
	for _, status := range []AppointmentStatus{
		AppointmentStatusPending,
		AppointmentStatusConfirmed,
		AppointmentStatusCompleted,
		AppointmentStatusCancelled,
	} {
		labels := status.StoredLabels()
		assert.Equal(t, string(status), labels[0])
		for _, label := range labels {
			got, ok := ParseAppointmentStatus(label)
			require.True(t, ok, label)
			assert.Equal(t, status, got, label)
		}
	}
	assert.Contains(t, AppointmentStatusCancelled.StoredLabels(), "İptal")
}

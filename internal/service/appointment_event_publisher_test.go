package service

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"hospital-appointment/internal/domain/entity"

	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingWriter struct {
	msgs []kafka.Message
	err  error
}

func (w *recordingWriter) WriteMessages(ctx context.Context, msgs ...kafka.Message) error {
	if w.err != nil {
		return w.err
	}
	w.msgs = append(w.msgs, msgs...)
	return nil
}

func sampleAppointment() *entity.Appointment {
	date, _ := time.Parse(entity.DateLayout, "2024-06-17")
	return &entity.Appointment{
		ID:              uuid.New(),
		PatientID:       uuid.New(),
		DoctorID:        uuid.New(),
		AppointmentDate: date,
		AppointmentTime: "09:00",
		Status:          entity.AppointmentStatusPending,
		BookingCode:     "APT-20240617-ABC123",
	}
}

func TestBuildAppointmentMessage(t *testing.T) {
	appt := sampleAppointment()
	now := time.Date(2024, 6, 10, 12, 0, 0, 0, time.UTC)

	msg, err := BuildAppointmentMessage(EventAppointmentCreated, appt, now)
	require.NoError(t, err)

	assert.Equal(t, appt.DoctorID.String(), string(msg.Key))
	require.Len(t, msg.Headers, 2)
	assert.Equal(t, "event_type", msg.Headers[1].Key)
	assert.Equal(t, EventAppointmentCreated, string(msg.Headers[1].Value))

	var event AppointmentEvent
	require.NoError(t, json.Unmarshal(msg.Value, &event))
	assert.Equal(t, string(msg.Headers[0].Value), event.EventID)
	assert.Equal(t, appt.ID, event.AppointmentID)
	assert.Equal(t, "2024-06-17", event.Date)
	assert.Equal(t, "09:00", event.Time)
	assert.Equal(t, "pending", event.Status)
	assert.True(t, now.Equal(event.OccurredAt))
}

func TestKafkaEventPublisher_Publish(t *testing.T) {
	w := &recordingWriter{}
	pub := NewKafkaEventPublisher(w, quietLogger())

	require.NoError(t, pub.Publish(context.Background(), EventAppointmentConfirmed, sampleAppointment()))
	assert.Len(t, w.msgs, 1)

	w.err = errors.New("broker down")
	assert.Error(t, pub.Publish(context.Background(), EventAppointmentConfirmed, sampleAppointment()))
}

func TestNoopEventPublisher(t *testing.T) {
	pub := NewNoopEventPublisher(quietLogger())
	assert.NoError(t, pub.Publish(context.Background(), EventAppointmentCreated, sampleAppointment()))
}

func TestEventTypeForStatus(t *testing.T) {
	assert.Equal(t, EventAppointmentConfirmed, EventTypeForStatus(entity.AppointmentStatusConfirmed))
	assert.Equal(t, EventAppointmentCancelled, EventTypeForStatus(entity.AppointmentStatusCancelled))
	assert.Equal(t, EventAppointmentCompleted, EventTypeForStatus(entity.AppointmentStatusCompleted))
	assert.Equal(t, "", EventTypeForStatus("unknown"))
}

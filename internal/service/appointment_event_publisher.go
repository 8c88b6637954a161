package service

import (
	"context"
	"encoding/json"
	"time"

	"hospital-appointment/internal/domain/entity"

	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"
	"github.com/sirupsen/logrus"
)

// Appointment lifecycle event types
const (
	EventAppointmentCreated   = "appointment.created"
	EventAppointmentConfirmed = "appointment.confirmed"
	EventAppointmentCancelled = "appointment.cancelled"
	EventAppointmentCompleted = "appointment.completed"
	EventAppointmentDeleted   = "appointment.deleted"
)

// EventTypeForStatus maps the status an appointment moved into to its event type.
func EventTypeForStatus(status entity.AppointmentStatus) string {
	switch status {
	case entity.AppointmentStatusConfirmed:
		return EventAppointmentConfirmed
	case entity.AppointmentStatusCancelled:
		return EventAppointmentCancelled
	case entity.AppointmentStatusCompleted:
		return EventAppointmentCompleted
	case entity.AppointmentStatusPending:
		return EventAppointmentCreated
	}
	return ""
}

// AppointmentEvent is the JSON payload written to the appointments topic.
type AppointmentEvent struct {
	EventID       string    `json:"event_id"`
	EventType     string    `json:"event_type"`
	AppointmentID uuid.UUID `json:"appointment_id"`
	PatientID     uuid.UUID `json:"patient_id"`
	DoctorID      uuid.UUID `json:"doctor_id"`
	Date          string    `json:"date"`
	Time          string    `json:"time"`
	Status        string    `json:"status"`
	BookingCode   string    `json:"booking_code"`
	OccurredAt    time.Time `json:"occurred_at"`
}

// AppointmentEventPublisher announces appointment lifecycle changes.
type AppointmentEventPublisher interface {
	Publish(ctx context.Context, eventType string, appointment *entity.Appointment) error
}

// MessageWriter is the subset of *kafka.Writer the publisher needs.
type MessageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
}

type kafkaEventPublisher struct {
	writer MessageWriter
	log    *logrus.Logger
}

func NewKafkaEventPublisher(writer MessageWriter, log *logrus.Logger) AppointmentEventPublisher {
	return &kafkaEventPublisher{writer: writer, log: log}
}

func (p *kafkaEventPublisher) Publish(ctx context.Context, eventType string, appointment *entity.Appointment) error {
	msg, err := BuildAppointmentMessage(eventType, appointment, time.Now().UTC())
	if err != nil {
		return err
	}
	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		p.log.Warnf("Failed to publish %s for appointment %s: %+v", eventType, appointment.ID, err)
		return err
	}
	p.log.Debugf("Published %s for appointment %s", eventType, appointment.ID)
	return nil
}

// BuildAppointmentMessage keys the message by doctor so one doctor's events stay ordered.
func BuildAppointmentMessage(eventType string, appointment *entity.Appointment, now time.Time) (kafka.Message, error) {
	event := AppointmentEvent{
		EventID:       uuid.NewString(),
		EventType:     eventType,
		AppointmentID: appointment.ID,
		PatientID:     appointment.PatientID,
		DoctorID:      appointment.DoctorID,
		Date:          appointment.DateString(),
		Time:          appointment.AppointmentTime,
		Status:        string(appointment.Status),
		BookingCode:   appointment.BookingCode,
		OccurredAt:    now,
	}
	payload, err := json.Marshal(event)
	if err != nil {
		return kafka.Message{}, err
	}

	return kafka.Message{
		Key:   []byte(appointment.DoctorID.String()),
		Value: payload,
		Time:  now,
		Headers: []kafka.Header{
			{Key: "event_id", Value: []byte(event.EventID)},
			{Key: "event_type", Value: []byte(eventType)},
		},
	}, nil
}

type noopEventPublisher struct {
	log *logrus.Logger
}

// NewNoopEventPublisher is used when no Kafka brokers are configured.
func NewNoopEventPublisher(log *logrus.Logger) AppointmentEventPublisher {
	return &noopEventPublisher{log: log}
}

func (p *noopEventPublisher) Publish(ctx context.Context, eventType string, appointment *entity.Appointment) error {
	p.log.Debugf("Event %s for appointment %s not published (kafka disabled)", eventType, appointment.ID)
	return nil
}

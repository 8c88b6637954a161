package entity

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// AppointmentStatus represents the lifecycle state of an appointment
type AppointmentStatus string

const (
	AppointmentStatusPending   AppointmentStatus = "pending"
	AppointmentStatusConfirmed AppointmentStatus = "confirmed"
	AppointmentStatusCompleted AppointmentStatus = "completed"
	AppointmentStatusCancelled AppointmentStatus = "cancelled"
)

// legacy labels still present in imported data
var statusAliases = map[string]AppointmentStatus{
	"pending":    AppointmentStatusPending,
	"bekliyor":   AppointmentStatusPending,
	"confirmed":  AppointmentStatusConfirmed,
	"onaylandı":  AppointmentStatusConfirmed,
	"completed":  AppointmentStatusCompleted,
	"tamamlandı": AppointmentStatusCompleted,
	"cancelled":  AppointmentStatusCancelled,
	"iptal":      AppointmentStatusCancelled,
}

// legacyLabels are the spellings imported rows were stored with
var legacyLabels = map[AppointmentStatus][]string{
	AppointmentStatusPending:   {"Bekliyor", "bekliyor"},
	AppointmentStatusConfirmed: {"Onaylandı", "onaylandı"},
	AppointmentStatusCompleted: {"Tamamlandı", "tamamlandı"},
	AppointmentStatusCancelled: {"İptal", "iptal"},
}

// StoredLabels lists every value a row in status s may carry in the status column.
func (s AppointmentStatus) StoredLabels() []string {
	return append([]string{string(s)}, legacyLabels[s]...)
}

// ParseAppointmentStatus accepts canonical names and the legacy Turkish labels.
func ParseAppointmentStatus(s string) (AppointmentStatus, bool) {
	key := strings.ToLower(strings.TrimSpace(s))
	// strings.ToLower maps "İ" to "i̇" (with a combining dot)
	key = strings.ReplaceAll(key, "i̇", "i")
	st, ok := statusAliases[key]
	return st, ok
}

// Valid reports whether s is one of the four canonical statuses.
func (s AppointmentStatus) Valid() bool {
	switch s {
	case AppointmentStatusPending, AppointmentStatusConfirmed, AppointmentStatusCompleted, AppointmentStatusCancelled:
		return true
	}
	return false
}

// BlocksSlot reports whether an appointment in this status occupies its slot.
func (s AppointmentStatus) BlocksSlot() bool {
	return s != AppointmentStatusCancelled
}

// CanTransitionTo reports whether the lifecycle allows moving from s to next.
func (s AppointmentStatus) CanTransitionTo(next AppointmentStatus) bool {
	switch s {
	case AppointmentStatusPending:
		return next == AppointmentStatusConfirmed || next == AppointmentStatusCancelled
	case AppointmentStatusConfirmed:
		return next == AppointmentStatusCompleted || next == AppointmentStatusCancelled
	case AppointmentStatusCompleted, AppointmentStatusCancelled:
		return false
	}
	return false
}

// Appointment is a patient's booking of one doctor slot
type Appointment struct {
	ID                uuid.UUID         `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	PatientID         uuid.UUID         `gorm:"type:uuid;not null;index" json:"patient_id"`
	DoctorID          uuid.UUID         `gorm:"type:uuid;not null;index:idx_appointments_doctor_date" json:"doctor_id"`
	AppointmentTypeID *int              `gorm:"index" json:"appointment_type_id,omitempty"`
	AppointmentDate   time.Time         `gorm:"type:date;not null;index:idx_appointments_doctor_date" json:"appointment_date"`
	AppointmentTime   string            `gorm:"type:varchar(5);not null" json:"appointment_time"`
	Status            AppointmentStatus `gorm:"type:varchar(20);not null;default:'pending';index" json:"status"`
	Notes             string            `gorm:"type:text" json:"notes,omitempty"`
	Fee               decimal.Decimal   `gorm:"type:decimal(10,2);not null;default:0" json:"fee"`
	BookingCode       string            `gorm:"type:varchar(50);uniqueIndex;not null" json:"booking_code"`
	CreatedAt         time.Time         `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt         time.Time         `gorm:"autoUpdateTime" json:"updated_at"`

	// Relationships
	Patient         *PatientProfile  `gorm:"foreignKey:PatientID" json:"patient,omitempty"`
	Doctor          *DoctorProfile   `gorm:"foreignKey:DoctorID" json:"doctor,omitempty"`
	AppointmentType *AppointmentType `gorm:"foreignKey:AppointmentTypeID" json:"appointment_type,omitempty"`
}

func (Appointment) TableName() string {
	return "appointments"
}

// DateString returns the appointment date as YYYY-MM-DD.
func (a *Appointment) DateString() string {
	return a.AppointmentDate.Format(DateLayout)
}

// IsPending checks if the appointment awaits doctor approval
func (a *Appointment) IsPending() bool {
	return a.Status == AppointmentStatusPending
}

// IsCancelled checks if the appointment is cancelled
func (a *Appointment) IsCancelled() bool {
	return a.Status == AppointmentStatusCancelled
}

// InvolvesUser reports whether id is the patient or the doctor of the appointment.
func (a *Appointment) InvolvesUser(id uuid.UUID) bool {
	return a.PatientID == id || a.DoctorID == id
}

// DateLayout is the calendar date format used across the API.
const DateLayout = "2006-01-02"

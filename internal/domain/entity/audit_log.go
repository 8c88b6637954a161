package entity

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// AuditLog is one row of the append-only trail written inside the mutating transaction.
type AuditLog struct {
	ID        int64         `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID    *uuid.UUID    `gorm:"type:uuid;index" json:"user_id,omitempty"`
	Action    string        `gorm:"type:varchar(100);not null;index" json:"action"`
	Metadata  AuditMetadata `gorm:"type:jsonb" json:"metadata,omitempty"`
	CreatedAt time.Time     `gorm:"autoCreateTime;index" json:"created_at"`

	User *User `gorm:"foreignKey:UserID" json:"user,omitempty"`
}

func (AuditLog) TableName() string {
	return "audit_logs"
}

// AuditMetadata is the jsonb payload: the touched entity, its id, old and new values, actor role.
type AuditMetadata map[string]interface{}

// Entity returns the name of the audited entity, empty when unknown.
func (m AuditMetadata) Entity() string {
	name, _ := m["entity"].(string)
	return name
}

func (m AuditMetadata) Value() (driver.Value, error) {
	if len(m) == 0 {
		return nil, nil
	}
	return json.Marshal(m)
}

func (m *AuditMetadata) Scan(value interface{}) error {
	var raw []byte
	switch v := value.(type) {
	case nil:
		*m = nil
		return nil
	case []byte:
		raw = v
	case string:
		raw = []byte(v)
	default:
		return fmt.Errorf("audit metadata: unsupported type %T", value)
	}

	out := AuditMetadata{}
	if err := json.Unmarshal(raw, &out); err != nil {
		return fmt.Errorf("audit metadata: %w", err)
	}
	*m = out
	return nil
}

const (
	AuditActionUserLogin    = "user.login"
	AuditActionUserLogout   = "user.logout"
	AuditActionUserRegister = "user.register"

	AuditActionAppointmentCreate = "appointment.create"
	AuditActionAppointmentStatus = "appointment.status"
	AuditActionAppointmentDelete = "appointment.delete"

	AuditActionScheduleUpdate   = "schedule.update"
	AuditActionSpecialDayCreate = "special_day.create"
	AuditActionSpecialDayDelete = "special_day.delete"

	AuditActionProfileUpdate = "profile.update"
	AuditActionDoctorCreate  = "doctor.create"
	AuditActionDoctorUpdate  = "doctor.update"
	AuditActionDoctorDelete  = "doctor.delete"
	AuditActionPatientUpdate = "patient.update"
	AuditActionPatientDelete = "patient.delete"
)

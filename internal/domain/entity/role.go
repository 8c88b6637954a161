package entity

import (
	"strings"

	"github.com/google/uuid"
)

// Role is the closed set of user roles. Values match the ids seeded into the roles table.
type Role int

const (
	RoleAdmin   Role = 1
	RoleDoctor  Role = 2
	RolePatient Role = 3
)

// Role names as exposed over the API
const (
	RoleNameAdmin   = "admin"
	RoleNameDoctor  = "doctor"
	RoleNamePatient = "patient"
)

func (r Role) String() string {
	switch r {
	case RoleAdmin:
		return RoleNameAdmin
	case RoleDoctor:
		return RoleNameDoctor
	case RolePatient:
		return RoleNamePatient
	}
	return "unknown"
}

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleDoctor, RolePatient:
		return true
	}
	return false
}

// ParseRole maps a role name to a Role. The second return value is false for unknown names.
func ParseRole(name string) (Role, bool) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case RoleNameAdmin:
		return RoleAdmin, true
	case RoleNameDoctor:
		return RoleDoctor, true
	case RoleNamePatient:
		return RolePatient, true
	}
	return 0, false
}

// RoleRecord is the roles lookup table row
type RoleRecord struct {
	ID          Role   `gorm:"primaryKey" json:"id"`
	RoleName    string `gorm:"type:varchar(50);uniqueIndex;not null" json:"role_name"`
	Description string `gorm:"type:text" json:"description,omitempty"`
}

func (RoleRecord) TableName() string {
	return "roles"
}

// Actor is the authenticated caller of a usecase.
type Actor struct {
	UserID uuid.UUID
	Email  string
	Role   Role
}

func (a Actor) IsAdmin() bool   { return a.Role == RoleAdmin }
func (a Actor) IsDoctor() bool  { return a.Role == RoleDoctor }
func (a Actor) IsPatient() bool { return a.Role == RolePatient }

// Owns reports whether the actor is the given user.
func (a Actor) Owns(userID uuid.UUID) bool {
	return a.UserID != uuid.Nil && a.UserID == userID
}

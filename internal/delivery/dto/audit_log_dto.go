package dto

import (
	"time"

	"hospital-appointment/internal/domain/entity"
)

// Response DTOs

type AuditLogResponse struct {
	ID        int64                `json:"id"`
	User      *UserResponse        `json:"user,omitempty"`
	Action    string               `json:"action"`
	Entity    string               `json:"entity,omitempty"`
	Metadata  entity.AuditMetadata `json:"metadata"`
	CreatedAt time.Time            `json:"created_at"`
}

type AuditLogListResponse struct {
	Logs  []AuditLogResponse `json:"logs"`
	Total int64              `json:"total"`
}

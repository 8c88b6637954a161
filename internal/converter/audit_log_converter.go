package converter

import (
	"hospital-appointment/internal/delivery/dto"
	"hospital-appointment/internal/domain/entity"
)

// AuditLogToResponse flattens the audited entity name out of the metadata.
func AuditLogToResponse(entry *entity.AuditLog) *dto.AuditLogResponse {
	if entry == nil {
		return nil
	}

	return &dto.AuditLogResponse{
		ID:        entry.ID,
		User:      UserToResponse(entry.User),
		Action:    entry.Action,
		Entity:    entry.Metadata.Entity(),
		Metadata:  entry.Metadata,
		CreatedAt: entry.CreatedAt,
	}
}

func AuditLogsToResponses(entries []entity.AuditLog) []dto.AuditLogResponse {
	out := make([]dto.AuditLogResponse, 0, len(entries))
	for i := range entries {
		out = append(out, *AuditLogToResponse(&entries[i]))
	}
	return out
}

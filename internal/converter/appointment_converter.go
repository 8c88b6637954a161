package converter

import (
	"hospital-appointment/internal/delivery/dto"
	"hospital-appointment/internal/domain/entity"
)

// AppointmentToResponse converts an Appointment entity to AppointmentResponse DTO
func AppointmentToResponse(appointment *entity.Appointment) *dto.AppointmentResponse {
	if appointment == nil {
		return nil
	}

	response := &dto.AppointmentResponse{
		ID:          appointment.ID,
		BookingCode: appointment.BookingCode,
		PatientID:   appointment.PatientID,
		DoctorID:    appointment.DoctorID,
		Date:        appointment.DateString(),
		Time:        appointment.AppointmentTime,
		Status:      string(appointment.Status),
		Notes:       appointment.Notes,
		Fee:         appointment.Fee,
		CreatedAt:   appointment.CreatedAt,
		UpdatedAt:   appointment.UpdatedAt,
	}

	// Relations are present only when preloaded
	if appointment.Doctor != nil {
		response.DoctorName = appointment.Doctor.User.FullName
		response.Specialization = appointment.Doctor.Specialization
	}
	if appointment.Patient != nil {
		response.PatientName = appointment.Patient.User.FullName
	}
	if appointment.AppointmentType != nil {
		response.AppointmentType = AppointmentTypeToResponse(appointment.AppointmentType)
	}

	return response
}

// AppointmentsToResponses converts a slice of Appointment entities to slice of AppointmentResponse DTOs
func AppointmentsToResponses(appointments []entity.Appointment) []dto.AppointmentResponse {
	responses := make([]dto.AppointmentResponse, len(appointments))
	for i := range appointments {
		responses[i] = *AppointmentToResponse(&appointments[i])
	}
	return responses
}

func AppointmentTypeToResponse(t *entity.AppointmentType) *dto.AppointmentTypeResponse {
	if t == nil {
		return nil
	}
	return &dto.AppointmentTypeResponse{
		ID:              t.ID,
		Name:            t.Name,
		DurationMinutes: t.DurationMinutes,
		Description:     t.Description,
		CreatedAt:       t.CreatedAt,
		UpdatedAt:       t.UpdatedAt,
	}
}

package converter

import (
	"hospital-appointment/internal/delivery/dto"
	"hospital-appointment/internal/domain/entity"
)

// DoctorProfileToResponse converts a DoctorProfile entity to DoctorResponse DTO
func DoctorProfileToResponse(profile *entity.DoctorProfile) *dto.DoctorResponse {
	if profile == nil {
		return nil
	}

	return &dto.DoctorResponse{
		ID:              profile.UserID,
		Email:           profile.User.Email,
		FullName:        profile.User.FullName,
		Title:           profile.Title,
		Specialization:  profile.Specialization,
		Diploma:         profile.Diploma,
		ExperienceYears: profile.ExperienceYears,
		PhoneNumber:     profile.PhoneNumber,
		Biography:       profile.Biography,
		Fee:             profile.Fee,
		IsActive:        profile.User.IsActive,
		WeeklySchedule:  WeeklyScheduleToMap(profile.WeeklySchedule),
	}
}

// DoctorProfilesToResponses converts a slice of DoctorProfile entities to slice of DoctorResponse DTOs
func DoctorProfilesToResponses(profiles []entity.DoctorProfile) []dto.DoctorResponse {
	responses := make([]dto.DoctorResponse, len(profiles))
	for i := range profiles {
		responses[i] = *DoctorProfileToResponse(&profiles[i])
	}
	return responses
}

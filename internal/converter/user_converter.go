package converter

import (
	"hospital-appointment/internal/delivery/dto"
	"hospital-appointment/internal/domain/entity"
)

// UserToResponse converts a User entity to UserResponse DTO
// Includes DoctorProfile and PatientProfile if they are loaded
func UserToResponse(user *entity.User) *dto.UserResponse {
	if user == nil {
		return nil
	}

	response := &dto.UserResponse{
		ID:        user.ID,
		Email:     user.Email,
		FullName:  user.FullName,
		Role:      user.RoleID.String(),
		IsActive:  user.Active(),
		CreatedAt: user.CreatedAt,
		UpdatedAt: user.UpdatedAt,
	}

	if user.DoctorProfile != nil {
		response.DoctorProfile = &dto.DoctorProfileResponse{
			Title:          user.DoctorProfile.Title,
			Specialization: user.DoctorProfile.Specialization,
			Biography:      user.DoctorProfile.Biography,
			Fee:            user.DoctorProfile.Fee,
		}
	}

	if user.PatientProfile != nil {
		response.PatientProfile = PatientProfileToProfileResponse(user.PatientProfile)
	}

	return response
}

package converter

import (
	"hospital-appointment/internal/delivery/dto"
	"hospital-appointment/internal/domain/entity"
)

func PatientProfileToProfileResponse(profile *entity.PatientProfile) *dto.PatientProfileResponse {
	if profile == nil {
		return nil
	}
	return &dto.PatientProfileResponse{
		UserID:       profile.UserID,
		NationalID:   profile.NationalID,
		PhoneNumber:  profile.PhoneNumber,
		DateOfBirth:  profile.DateOfBirth.Format(entity.DateLayout),
		Gender:       profile.Gender,
		BloodType:    profile.BloodType,
		Address:      profile.Address,
		MedicalNotes: profile.MedicalNotes,
	}
}

// PatientProfileToResponse merges the profile with its user row
func PatientProfileToResponse(profile *entity.PatientProfile, user *entity.User) *dto.PatientResponse {
	if profile == nil || user == nil {
		return nil
	}

	return &dto.PatientResponse{
		ID:          user.ID,
		Email:       user.Email,
		FullName:    user.FullName,
		NationalID:  profile.NationalID,
		PhoneNumber: profile.PhoneNumber,
		DateOfBirth: profile.DateOfBirth.Format(entity.DateLayout),
		Gender:      profile.Gender,
		BloodType:   profile.BloodType,
		Address:     profile.Address,
		IsActive:    user.IsActive,
		CreatedAt:   user.CreatedAt,
		UpdatedAt:   user.UpdatedAt,
	}
}

func PatientProfilesToResponses(profiles []entity.PatientProfile) []dto.PatientResponse {
	responses := make([]dto.PatientResponse, 0, len(profiles))
	for i := range profiles {
		if resp := PatientProfileToResponse(&profiles[i], &profiles[i].User); resp != nil {
			responses = append(responses, *resp)
		}
	}
	return responses
}

package handler

import (
	"encoding/json"
	"net/http"

	"hospital-appointment/internal/delivery/dto"
	"hospital-appointment/internal/usecase"
	"hospital-appointment/pkg/response"
	"hospital-appointment/pkg/validator"
)

type PatientHandler struct {
	patientUsecase usecase.PatientProfileUsecase
	validator      *validator.CustomValidator
}

func NewPatientHandler(patientUsecase usecase.PatientProfileUsecase, validator *validator.CustomValidator) *PatientHandler {
	return &PatientHandler{
		patientUsecase: patientUsecase,
		validator:      validator,
	}
}

func (h *PatientHandler) GetSelfProfile(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(w, r)
	if !ok {
		return
	}

	profile, err := h.patientUsecase.GetSelfProfile(r.Context(), actor)
	if err != nil {
		writeError(w, err, "Failed to get profile")
		return
	}

	response.Success(w, http.StatusOK, "Profile retrieved successfully", profile)
}

func (h *PatientHandler) UpdateSelfProfile(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(w, r)
	if !ok {
		return
	}

	var req dto.PatientUpdateSelfRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	profile, err := h.patientUsecase.UpdateSelfProfile(r.Context(), actor, &req)
	if err != nil {
		switch err {
		case usecase.ErrPatientNotFound:
			response.NotFound(w, "Patient profile not found")
		case usecase.ErrInvalidOldPassword:
			response.Error(w, http.StatusBadRequest, "Invalid old password", nil)
		default:
			writeError(w, err, "Failed to update profile")
		}
		return
	}

	response.Success(w, http.StatusOK, "Profile updated successfully", profile)
}

func (h *PatientHandler) GetPatient(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(w, r)
	if !ok {
		return
	}
	patientID, ok := uuidVar(w, r, "id", "patient")
	if !ok {
		return
	}

	patient, err := h.patientUsecase.GetPatient(r.Context(), actor, patientID)
	if err != nil {
		writeError(w, err, "Failed to get patient")
		return
	}

	response.Success(w, http.StatusOK, "Patient retrieved successfully", patient)
}

func (h *PatientHandler) ListPatients(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(w, r)
	if !ok {
		return
	}

	page, limit := pagination(r)
	result, err := h.patientUsecase.ListPatients(r.Context(), actor, dto.PatientListQuery{
		Search: r.URL.Query().Get("search"),
		Page:   page,
		Limit:  limit,
	})
	if err != nil {
		writeError(w, err, "Failed to get patients")
		return
	}

	response.SuccessWithMeta(w, http.StatusOK, "Patients retrieved successfully", result.Patients, response.NewMeta(result.Page, result.Limit, result.Total))
}

func (h *PatientHandler) UpdatePatient(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(w, r)
	if !ok {
		return
	}
	patientID, ok := uuidVar(w, r, "id", "patient")
	if !ok {
		return
	}

	var req dto.AdminUpdatePatientRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	patient, err := h.patientUsecase.UpdatePatient(r.Context(), actor, patientID, &req)
	if err != nil {
		writeError(w, err, "Failed to update patient")
		return
	}

	response.Success(w, http.StatusOK, "Patient updated successfully", patient)
}

// DeletePatient deactivates the account; history is kept.
func (h *PatientHandler) DeletePatient(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(w, r)
	if !ok {
		return
	}
	patientID, ok := uuidVar(w, r, "id", "patient")
	if !ok {
		return
	}

	if err := h.patientUsecase.DeletePatient(r.Context(), actor, patientID); err != nil {
		writeError(w, err, "Failed to delete patient")
		return
	}

	response.Success(w, http.StatusOK, "Patient deactivated successfully", nil)
}

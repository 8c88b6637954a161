package handler

import (
	"encoding/json"
	"net/http"

	"hospital-appointment/internal/delivery/dto"
	"hospital-appointment/internal/usecase"
	"hospital-appointment/pkg/response"
	"hospital-appointment/pkg/validator"
)

type DoctorHandler struct {
	doctorUsecase usecase.DoctorProfileUsecase
	validator     *validator.CustomValidator
}

func NewDoctorHandler(doctorUsecase usecase.DoctorProfileUsecase, validator *validator.CustomValidator) *DoctorHandler {
	return &DoctorHandler{
		doctorUsecase: doctorUsecase,
		validator:     validator,
	}
}

func (h *DoctorHandler) CreateDoctor(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(w, r)
	if !ok {
		return
	}

	var req dto.CreateDoctorRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	doctor, err := h.doctorUsecase.CreateDoctor(r.Context(), actor, &req)
	if err != nil {
		writeError(w, err, "Failed to create doctor")
		return
	}

	response.Success(w, http.StatusCreated, "Doctor created successfully", doctor)
}

func (h *DoctorHandler) GetDoctor(w http.ResponseWriter, r *http.Request) {
	doctorID, ok := uuidVar(w, r, "id", "doctor")
	if !ok {
		return
	}

	doctor, err := h.doctorUsecase.GetDoctor(r.Context(), doctorID)
	if err != nil {
		if err == usecase.ErrDoctorNotFound {
			response.NotFound(w, "Doctor not found")
			return
		}
		response.InternalServerError(w, "Failed to get doctor")
		return
	}

	response.Success(w, http.StatusOK, "Doctor retrieved successfully", doctor)
}

// ListDoctors lists active doctors, filtered by ?name= and ?specialization=
func (h *DoctorHandler) ListDoctors(w http.ResponseWriter, r *http.Request) {
	h.list(w, r, false)
}

// ListAllDoctors is the admin listing, inactive doctors included
func (h *DoctorHandler) ListAllDoctors(w http.ResponseWriter, r *http.Request) {
	h.list(w, r, true)
}

func (h *DoctorHandler) list(w http.ResponseWriter, r *http.Request, includeInactive bool) {
	query := &dto.DoctorListQuery{
		Name:           r.URL.Query().Get("name"),
		Specialization: r.URL.Query().Get("specialization"),
	}

	doctors, err := h.doctorUsecase.ListDoctors(r.Context(), query, includeInactive)
	if err != nil {
		response.InternalServerError(w, "Failed to get doctors")
		return
	}

	response.Success(w, http.StatusOK, "Doctors retrieved successfully", doctors)
}

func (h *DoctorHandler) ListSpecializations(w http.ResponseWriter, r *http.Request) {
	specs, err := h.doctorUsecase.ListSpecializations(r.Context())
	if err != nil {
		response.InternalServerError(w, "Failed to get specializations")
		return
	}

	response.Success(w, http.StatusOK, "Specializations retrieved successfully", specs)
}

func (h *DoctorHandler) UpdateDoctor(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(w, r)
	if !ok {
		return
	}
	doctorID, ok := uuidVar(w, r, "id", "doctor")
	if !ok {
		return
	}

	var req dto.UpdateDoctorRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	doctor, err := h.doctorUsecase.UpdateDoctor(r.Context(), actor, doctorID, &req)
	if err != nil {
		writeError(w, err, "Failed to update doctor")
		return
	}

	response.Success(w, http.StatusOK, "Doctor updated successfully", doctor)
}

func (h *DoctorHandler) UpdateSelfProfile(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(w, r)
	if !ok {
		return
	}

	var req dto.DoctorUpdateSelfRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	doctor, err := h.doctorUsecase.UpdateSelfProfile(r.Context(), actor, &req)
	if err != nil {
		writeError(w, err, "Failed to update profile")
		return
	}

	response.Success(w, http.StatusOK, "Profile updated successfully", doctor)
}

func (h *DoctorHandler) DeleteDoctor(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(w, r)
	if !ok {
		return
	}
	doctorID, ok := uuidVar(w, r, "id", "doctor")
	if !ok {
		return
	}

	if err := h.doctorUsecase.DeleteDoctor(r.Context(), actor, doctorID); err != nil {
		writeError(w, err, "Failed to delete doctor")
		return
	}

	response.Success(w, http.StatusOK, "Doctor deleted successfully", nil)
}

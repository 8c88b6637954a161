package handler

import (
	"encoding/json"
	"net/http"

	"hospital-appointment/internal/delivery/dto"
	"hospital-appointment/internal/usecase"
	"hospital-appointment/pkg/response"
	"hospital-appointment/pkg/validator"
)

type AppointmentTypeHandler struct {
	appointmentTypeUsecase usecase.AppointmentTypeUsecase
	validator              *validator.CustomValidator
}

func NewAppointmentTypeHandler(appointmentTypeUsecase usecase.AppointmentTypeUsecase, validator *validator.CustomValidator) *AppointmentTypeHandler {
	return &AppointmentTypeHandler{
		appointmentTypeUsecase: appointmentTypeUsecase,
		validator:              validator,
	}
}

// Create handles appointment type creation
// @Summary Create a new appointment type
// @Tags AppointmentTypes
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body dto.CreateAppointmentTypeRequest true "Create Appointment Type Request"
// @Success 201 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /admin/appointment-types [post]
func (h *AppointmentTypeHandler) Create(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(w, r)
	if !ok {
		return
	}

	var req dto.CreateAppointmentTypeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	appointmentType, err := h.appointmentTypeUsecase.Create(r.Context(), actor, &req)
	if err != nil {
		writeError(w, err, "Failed to create appointment type")
		return
	}

	response.Success(w, http.StatusCreated, "Appointment type created successfully", appointmentType)
}

// GetAll handles getting all appointment types with pagination
// @Summary Get all appointment types
// @Tags AppointmentTypes
// @Produce json
// @Param page query int false "Page number" default(1)
// @Param limit query int false "Items per page" default(10)
// @Success 200 {object} response.Response
// @Router /appointment-types [get]
func (h *AppointmentTypeHandler) GetAll(w http.ResponseWriter, r *http.Request) {
	page, limit := pagination(r)
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 10
	}

	types, total, err := h.appointmentTypeUsecase.GetAll(r.Context(), page, limit)
	if err != nil {
		response.InternalServerError(w, "Failed to get appointment types")
		return
	}

	response.SuccessWithMeta(w, http.StatusOK, "Appointment types retrieved successfully", types, response.NewMeta(page, limit, total))
}

func (h *AppointmentTypeHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, ok := intVar(w, r, "id", "appointment type")
	if !ok {
		return
	}

	appointmentType, err := h.appointmentTypeUsecase.GetByID(r.Context(), id)
	if err != nil {
		if err == usecase.ErrAppointmentTypeNotFound {
			response.NotFound(w, "Appointment type not found")
			return
		}
		response.InternalServerError(w, "Failed to get appointment type")
		return
	}

	response.Success(w, http.StatusOK, "Appointment type retrieved successfully", appointmentType)
}

func (h *AppointmentTypeHandler) Update(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(w, r)
	if !ok {
		return
	}
	id, ok := intVar(w, r, "id", "appointment type")
	if !ok {
		return
	}

	var req dto.UpdateAppointmentTypeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	appointmentType, err := h.appointmentTypeUsecase.Update(r.Context(), actor, id, &req)
	if err != nil {
		writeError(w, err, "Failed to update appointment type")
		return
	}

	response.Success(w, http.StatusOK, "Appointment type updated successfully", appointmentType)
}

func (h *AppointmentTypeHandler) Delete(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(w, r)
	if !ok {
		return
	}
	id, ok := intVar(w, r, "id", "appointment type")
	if !ok {
		return
	}

	if err := h.appointmentTypeUsecase.Delete(r.Context(), actor, id); err != nil {
		writeError(w, err, "Failed to delete appointment type")
		return
	}

	response.Success(w, http.StatusOK, "Appointment type deleted successfully", nil)
}

package handler

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"hospital-appointment/internal/delivery/dto"
	"hospital-appointment/internal/usecase"
	"hospital-appointment/pkg/response"
	"hospital-appointment/pkg/validator"

	"github.com/google/uuid"
)

type AppointmentHandler struct {
	appointmentUsecase usecase.AppointmentUsecase
	validator          *validator.CustomValidator
}

func NewAppointmentHandler(appointmentUsecase usecase.AppointmentUsecase, validator *validator.CustomValidator) *AppointmentHandler {
	return &AppointmentHandler{
		appointmentUsecase: appointmentUsecase,
		validator:          validator,
	}
}

// BookAppointment handles appointment booking
// @Summary Book an appointment
// @Description Patients book for themselves, admins must pass patient_id
// @Tags Appointments
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body dto.CreateAppointmentRequest true "Booking Request"
// @Success 201 {object} response.Response
// @Failure 409 {object} response.Response
// @Failure 422 {object} response.Response
// @Router /appointments [post]
func (h *AppointmentHandler) BookAppointment(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(w, r)
	if !ok {
		return
	}

	var req dto.CreateAppointmentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}

	appointment, err := h.appointmentUsecase.BookAppointment(r.Context(), actor, &req)
	if err != nil {
		writeError(w, err, "Failed to book appointment")
		return
	}

	response.Success(w, http.StatusCreated, "Appointment booked successfully", appointment)
}

// ListAppointments handles listing appointments visible to the caller
// @Summary List appointments
// @Tags Appointments
// @Security BearerAuth
// @Produce json
// @Param status query string false "Status"
// @Param start_date query string false "Start date (YYYY-MM-DD)"
// @Param end_date query string false "End date (YYYY-MM-DD)"
// @Param doctor_id query string false "Doctor ID"
// @Param patient_id query string false "Patient ID"
// @Param page query int false "Page number" default(1)
// @Param limit query int false "Items per page" default(10)
// @Success 200 {object} response.Response
// @Router /appointments [get]
func (h *AppointmentHandler) ListAppointments(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(w, r)
	if !ok {
		return
	}

	query, err := parseAppointmentQuery(r)
	if err != nil {
		response.BadRequest(w, err.Error())
		return
	}

	result, err := h.appointmentUsecase.ListAppointments(r.Context(), actor, query)
	if err != nil {
		writeError(w, err, "Failed to get appointments")
		return
	}

	response.SuccessWithMeta(w, http.StatusOK, "Appointments retrieved successfully", result.Appointments, response.NewMeta(result.Page, result.Limit, result.Total))
}

func parseAppointmentQuery(r *http.Request) (*dto.AppointmentListQuery, error) {
	q := r.URL.Query()
	page, limit := pagination(r)
	query := &dto.AppointmentListQuery{
		Status:    q.Get("status"),
		StartDate: q.Get("start_date"),
		EndDate:   q.Get("end_date"),
		Page:      page,
		Limit:     limit,
	}

	if raw := q.Get("doctor_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			return nil, errors.New("invalid doctor_id")
		}
		query.DoctorID = &id
	}
	if raw := q.Get("patient_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			return nil, errors.New("invalid patient_id")
		}
		query.PatientID = &id
	}
	return query, nil
}

func (h *AppointmentHandler) GetAppointment(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(w, r)
	if !ok {
		return
	}
	id, ok := uuidVar(w, r, "id", "appointment")
	if !ok {
		return
	}

	appointment, err := h.appointmentUsecase.GetAppointment(r.Context(), actor, id)
	if err != nil {
		writeError(w, err, "Failed to get appointment")
		return
	}

	response.Success(w, http.StatusOK, "Appointment retrieved successfully", appointment)
}

func (h *AppointmentHandler) ApproveAppointment(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(w, r)
	if !ok {
		return
	}
	id, ok := uuidVar(w, r, "id", "appointment")
	if !ok {
		return
	}

	appointment, err := h.appointmentUsecase.ApproveAppointment(r.Context(), actor, id)
	if err != nil {
		writeError(w, err, "Failed to approve appointment")
		return
	}

	response.Success(w, http.StatusOK, "Appointment approved successfully", appointment)
}

func (h *AppointmentHandler) RejectAppointment(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(w, r)
	if !ok {
		return
	}
	id, ok := uuidVar(w, r, "id", "appointment")
	if !ok {
		return
	}
	req, ok := h.statusRequest(w, r)
	if !ok {
		return
	}

	appointment, err := h.appointmentUsecase.RejectAppointment(r.Context(), actor, id, req)
	if err != nil {
		writeError(w, err, "Failed to reject appointment")
		return
	}

	response.Success(w, http.StatusOK, "Appointment rejected successfully", appointment)
}

func (h *AppointmentHandler) CancelAppointment(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(w, r)
	if !ok {
		return
	}
	id, ok := uuidVar(w, r, "id", "appointment")
	if !ok {
		return
	}
	req, ok := h.statusRequest(w, r)
	if !ok {
		return
	}

	appointment, err := h.appointmentUsecase.CancelAppointment(r.Context(), actor, id, req)
	if err != nil {
		writeError(w, err, "Failed to cancel appointment")
		return
	}

	response.Success(w, http.StatusOK, "Appointment cancelled successfully", appointment)
}

func (h *AppointmentHandler) CompleteAppointment(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(w, r)
	if !ok {
		return
	}
	id, ok := uuidVar(w, r, "id", "appointment")
	if !ok {
		return
	}

	appointment, err := h.appointmentUsecase.CompleteAppointment(r.Context(), actor, id)
	if err != nil {
		writeError(w, err, "Failed to complete appointment")
		return
	}

	response.Success(w, http.StatusOK, "Appointment completed successfully", appointment)
}

func (h *AppointmentHandler) DeleteAppointment(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(w, r)
	if !ok {
		return
	}
	id, ok := uuidVar(w, r, "id", "appointment")
	if !ok {
		return
	}

	if err := h.appointmentUsecase.DeleteAppointment(r.Context(), actor, id); err != nil {
		writeError(w, err, "Failed to delete appointment")
		return
	}

	response.Success(w, http.StatusOK, "Appointment deleted successfully", nil)
}

// statusRequest decodes an optional reason body. An empty body is allowed.
func (h *AppointmentHandler) statusRequest(w http.ResponseWriter, r *http.Request) (*dto.UpdateAppointmentStatusRequest, bool) {
	var req dto.UpdateAppointmentStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		response.Error(w, http.StatusBadRequest, "Invalid request body", nil)
		return nil, false
	}
	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return nil, false
	}
	return &req, true
}

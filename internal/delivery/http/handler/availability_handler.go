package handler

import (
	"encoding/json"
	"net/http"

	"hospital-appointment/internal/delivery/dto"
	"hospital-appointment/internal/domain/entity"
	"hospital-appointment/internal/usecase"
	"hospital-appointment/pkg/response"
	"hospital-appointment/pkg/validator"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
)

type AvailabilityHandler struct {
	availabilityUsecase usecase.AvailabilityUsecase
	validator           *validator.CustomValidator
}

func NewAvailabilityHandler(availabilityUsecase usecase.AvailabilityUsecase, validator *validator.CustomValidator) *AvailabilityHandler {
	return &AvailabilityHandler{
		availabilityUsecase: availabilityUsecase,
		validator:           validator,
	}
}

// targetDoctor is the {id} path variable, or the calling doctor on /doctor/... routes.
func targetDoctor(w http.ResponseWriter, r *http.Request, actor entity.Actor) (uuid.UUID, bool) {
	if _, ok := mux.Vars(r)["id"]; ok {
		return uuidVar(w, r, "id", "doctor")
	}
	return actor.UserID, true
}

// GetOpenSlots returns the bookable slots of a doctor for ?date=YYYY-MM-DD
func (h *AvailabilityHandler) GetOpenSlots(w http.ResponseWriter, r *http.Request) {
	doctorID, ok := uuidVar(w, r, "id", "doctor")
	if !ok {
		return
	}
	date := r.URL.Query().Get("date")
	if date == "" {
		response.BadRequest(w, "date query parameter is required")
		return
	}

	slots, err := h.availabilityUsecase.GetOpenSlots(r.Context(), doctorID, date)
	if err != nil {
		writeError(w, err, "Failed to get open slots")
		return
	}

	response.Success(w, http.StatusOK, "Open slots retrieved successfully", slots)
}

func (h *AvailabilityHandler) GetWeeklySchedule(w http.ResponseWriter, r *http.Request) {
	doctorID, ok := uuidVar(w, r, "id", "doctor")
	if !ok {
		return
	}

	schedule, err := h.availabilityUsecase.GetWeeklySchedule(r.Context(), doctorID)
	if err != nil {
		writeError(w, err, "Failed to get schedule")
		return
	}

	response.Success(w, http.StatusOK, "Schedule retrieved successfully", schedule)
}

func (h *AvailabilityHandler) GetMyWeeklySchedule(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(w, r)
	if !ok {
		return
	}

	schedule, err := h.availabilityUsecase.GetWeeklySchedule(r.Context(), actor.UserID)
	if err != nil {
		writeError(w, err, "Failed to get schedule")
		return
	}

	response.Success(w, http.StatusOK, "Schedule retrieved successfully", schedule)
}

func (h *AvailabilityHandler) UpdateWeeklySchedule(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(w, r)
	if !ok {
		return
	}
	doctorID, ok := targetDoctor(w, r, actor)
	if !ok {
		return
	}

	var req dto.UpdateWeeklyScheduleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	schedule, err := h.availabilityUsecase.UpdateWeeklySchedule(r.Context(), actor, doctorID, &req)
	if err != nil {
		writeError(w, err, "Failed to update schedule")
		return
	}

	response.Success(w, http.StatusOK, "Schedule updated successfully", schedule)
}

func (h *AvailabilityHandler) CreateSpecialDay(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(w, r)
	if !ok {
		return
	}
	doctorID, ok := targetDoctor(w, r, actor)
	if !ok {
		return
	}

	var req dto.CreateSpecialDayRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	day, err := h.availabilityUsecase.CreateSpecialDay(r.Context(), actor, doctorID, &req)
	if err != nil {
		writeError(w, err, "Failed to create special day")
		return
	}

	response.Success(w, http.StatusCreated, "Special day created successfully", day)
}

// ListSpecialDays accepts optional ?from= and ?to= bounds
func (h *AvailabilityHandler) ListSpecialDays(w http.ResponseWriter, r *http.Request) {
	doctorID, ok := uuidVar(w, r, "id", "doctor")
	if !ok {
		return
	}

	days, err := h.availabilityUsecase.ListSpecialDays(r.Context(), doctorID, r.URL.Query().Get("from"), r.URL.Query().Get("to"))
	if err != nil {
		writeError(w, err, "Failed to get special days")
		return
	}

	response.Success(w, http.StatusOK, "Special days retrieved successfully", days)
}

func (h *AvailabilityHandler) DeleteSpecialDay(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(w, r)
	if !ok {
		return
	}
	doctorID, ok := targetDoctor(w, r, actor)
	if !ok {
		return
	}
	dayID, ok := intVar(w, r, "dayId", "special day")
	if !ok {
		return
	}

	if err := h.availabilityUsecase.DeleteSpecialDay(r.Context(), actor, doctorID, dayID); err != nil {
		writeError(w, err, "Failed to delete special day")
		return
	}

	response.Success(w, http.StatusOK, "Special day deleted successfully", nil)
}

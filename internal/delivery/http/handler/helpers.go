package handler

import (
	"errors"
	"net/http"
	"strconv"

	"hospital-appointment/internal/delivery/http/middleware"
	"hospital-appointment/internal/domain/entity"
	"hospital-appointment/internal/service"
	"hospital-appointment/internal/usecase"
	"hospital-appointment/pkg/response"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
)

// actorFrom returns the authenticated caller or writes a 401.
func actorFrom(w http.ResponseWriter, r *http.Request) (entity.Actor, bool) {
	actor, ok := middleware.ActorFromContext(r.Context())
	if !ok {
		response.Unauthorized(w, "Invalid token")
		return entity.Actor{}, false
	}
	return actor, true
}

func uuidVar(w http.ResponseWriter, r *http.Request, name, label string) (uuid.UUID, bool) {
	id, err := uuid.Parse(mux.Vars(r)[name])
	if err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid "+label+" ID", nil)
		return uuid.Nil, false
	}
	return id, true
}

func intVar(w http.ResponseWriter, r *http.Request, name, label string) (int, bool) {
	id, err := strconv.Atoi(mux.Vars(r)[name])
	if err != nil || id <= 0 {
		response.Error(w, http.StatusBadRequest, "Invalid "+label+" ID", nil)
		return 0, false
	}
	return id, true
}

// pagination reads page and limit query parameters; zero means unset.
func pagination(r *http.Request) (int, int) {
	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	return page, limit
}

// writeError maps usecase errors to HTTP responses.
func writeError(w http.ResponseWriter, err error, fallback string) {
	var validationErr *usecase.ValidationError
	if errors.As(err, &validationErr) {
		response.UnprocessableEntity(w, "Validation failed", validationErr.Errors)
		return
	}

	switch {
	case errors.Is(err, usecase.ErrForbidden),
		errors.Is(err, usecase.ErrScheduleForbidden),
		errors.Is(err, usecase.ErrAppointmentForbidden):
		response.Forbidden(w, err.Error())
	case errors.Is(err, usecase.ErrUserNotFound),
		errors.Is(err, usecase.ErrDoctorNotFound),
		errors.Is(err, usecase.ErrPatientNotFound),
		errors.Is(err, usecase.ErrAppointmentNotFound),
		errors.Is(err, usecase.ErrAppointmentTypeNotFound),
		errors.Is(err, usecase.ErrSpecialDayNotFound),
		errors.Is(err, usecase.ErrAuditLogNotFound):
		response.NotFound(w, err.Error())
	case errors.Is(err, usecase.ErrEmailAlreadyExists),
		errors.Is(err, usecase.ErrDoctorEmailExists),
		errors.Is(err, usecase.ErrNationalIDAlreadyExists),
		errors.Is(err, usecase.ErrSpecialDayExists),
		errors.Is(err, usecase.ErrAppointmentTypeExists),
		errors.Is(err, usecase.ErrDoctorUnavailable),
		errors.Is(err, usecase.ErrSlotTaken),
		errors.Is(err, usecase.ErrDayFullyBooked),
		errors.Is(err, usecase.ErrInvalidStatusTransition),
		errors.Is(err, service.ErrSlotHeld):
		response.Conflict(w, err.Error())
	case errors.Is(err, usecase.ErrInvalidDateFormat),
		errors.Is(err, usecase.ErrInvalidDateRange),
		errors.Is(err, usecase.ErrInvalidYear),
		errors.Is(err, usecase.ErrInvalidStatus),
		errors.Is(err, usecase.ErrPatientRequired),
		errors.Is(err, usecase.ErrDoctorInactive),
		errors.Is(err, usecase.ErrNegativeFee),
		errors.Is(err, usecase.ErrRoleNotFound),
		errors.Is(err, usecase.ErrInvalidOldPassword):
		response.BadRequest(w, err.Error())
	case errors.Is(err, usecase.ErrInvalidCredentials),
		errors.Is(err, usecase.ErrInvalidToken),
		errors.Is(err, usecase.ErrTokenRevoked),
		errors.Is(err, usecase.ErrUserInactive):
		response.Unauthorized(w, err.Error())
	default:
		response.InternalServerError(w, fallback)
	}
}

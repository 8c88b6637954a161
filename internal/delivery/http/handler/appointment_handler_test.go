package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"hospital-appointment/internal/delivery/dto"
	"hospital-appointment/internal/delivery/http/middleware"
	"hospital-appointment/internal/domain/entity"
	"hospital-appointment/internal/usecase"
	"hospital-appointment/pkg/response"
	"hospital-appointment/pkg/validator"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubAppointmentUsecase struct {
	bookErr    error
	gotActor   entity.Actor
	gotQuery   *dto.AppointmentListQuery
	gotReason  string
	transition error
}

func (s *stubAppointmentUsecase) BookAppointment(ctx context.Context, actor entity.Actor, req *dto.CreateAppointmentRequest) (*dto.AppointmentResponse, error) {
	s.gotActor = actor
	if s.bookErr != nil {
		return nil, s.bookErr
	}
	return &dto.AppointmentResponse{ID: uuid.New(), DoctorID: req.DoctorID, Date: req.Date, Time: req.Time, Status: "pending"}, nil
}

func (s *stubAppointmentUsecase) ListAppointments(ctx context.Context, actor entity.Actor, query *dto.AppointmentListQuery) (*dto.AppointmentListResponse, error) {
	s.gotQuery = query
	return &dto.AppointmentListResponse{Appointments: []dto.AppointmentResponse{}, Total: 21, Page: 2, Limit: 10}, nil
}

func (s *stubAppointmentUsecase) GetAppointment(ctx context.Context, actor entity.Actor, id uuid.UUID) (*dto.AppointmentResponse, error) {
	return nil, usecase.ErrAppointmentNotFound
}

func (s *stubAppointmentUsecase) ApproveAppointment(ctx context.Context, actor entity.Actor, id uuid.UUID) (*dto.AppointmentResponse, error) {
	if s.transition != nil {
		return nil, s.transition
	}
	return &dto.AppointmentResponse{ID: id, Status: "confirmed"}, nil
}

func (s *stubAppointmentUsecase) RejectAppointment(ctx context.Context, actor entity.Actor, id uuid.UUID, req *dto.UpdateAppointmentStatusRequest) (*dto.AppointmentResponse, error) {
	s.gotReason = req.Reason
	return &dto.AppointmentResponse{ID: id, Status: "cancelled"}, nil
}

func (s *stubAppointmentUsecase) CancelAppointment(ctx context.Context, actor entity.Actor, id uuid.UUID, req *dto.UpdateAppointmentStatusRequest) (*dto.AppointmentResponse, error) {
	s.gotReason = req.Reason
	return &dto.AppointmentResponse{ID: id, Status: "cancelled"}, nil
}

func (s *stubAppointmentUsecase) CompleteAppointment(ctx context.Context, actor entity.Actor, id uuid.UUID) (*dto.AppointmentResponse, error) {
	return &dto.AppointmentResponse{ID: id, Status: "completed"}, nil
}

func (s *stubAppointmentUsecase) DeleteAppointment(ctx context.Context, actor entity.Actor, id uuid.UUID) error {
	return usecase.ErrForbidden
}

var patientActor = entity.Actor{UserID: uuid.New(), Role: entity.RolePatient}

func withActor(r *http.Request, actor entity.Actor) *http.Request {
	return r.WithContext(middleware.WithActor(r.Context(), actor))
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) response.Response {
	t.Helper()
	var body response.Response
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func TestBookAppointment_Created(t *testing.T) {
	uc := &stubAppointmentUsecase{}
	h := NewAppointmentHandler(uc, validator.NewValidator())

	body := `{"doctor_id":"` + uuid.NewString() + `","date":"2026-03-04","time":"10:00"}`
	req := withActor(httptest.NewRequest(http.MethodPost, "/api/v1/appointments", strings.NewReader(body)), patientActor)
	rec := httptest.NewRecorder()

	h.BookAppointment(rec, req)

	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.True(t, decode(t, rec).Success)
	assert.Equal(t, patientActor, uc.gotActor)
}

func TestBookAppointment_ErrorMapping(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"validation", &usecase.ValidationError{Errors: []string{"invalid date", "invalid time format"}}, http.StatusUnprocessableEntity},
		{"slot taken", usecase.ErrSlotTaken, http.StatusConflict},
		{"unavailable", usecase.ErrDoctorUnavailable, http.StatusConflict},
		{"doctor missing", usecase.ErrDoctorNotFound, http.StatusNotFound},
		{"forbidden", usecase.ErrForbidden, http.StatusForbidden},
		{"patient required", usecase.ErrPatientRequired, http.StatusBadRequest},
		{"unexpected", assert.AnError, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewAppointmentHandler(&stubAppointmentUsecase{bookErr: tt.err}, validator.NewValidator())
			req := withActor(httptest.NewRequest(http.MethodPost, "/api/v1/appointments", strings.NewReader(`{}`)), patientActor)
			rec := httptest.NewRecorder()

			h.BookAppointment(rec, req)
			assert.Equal(t, tt.want, rec.Code)
		})
	}
}

func TestBookAppointment_ValidationErrorsListed(t *testing.T) {
	h := NewAppointmentHandler(&stubAppointmentUsecase{
		bookErr: &usecase.ValidationError{Errors: []string{"invalid date", "notes too long"}},
	}, validator.NewValidator())
	req := withActor(httptest.NewRequest(http.MethodPost, "/api/v1/appointments", strings.NewReader(`{}`)), patientActor)
	rec := httptest.NewRecorder()

	h.BookAppointment(rec, req)

	body := decode(t, rec)
	assert.ElementsMatch(t, []interface{}{"invalid date", "notes too long"}, body.Error)
}

func TestBookAppointment_RequiresActor(t *testing.T) {
	h := NewAppointmentHandler(&stubAppointmentUsecase{}, validator.NewValidator())
	rec := httptest.NewRecorder()

	h.BookAppointment(rec, httptest.NewRequest(http.MethodPost, "/api/v1/appointments", strings.NewReader(`{}`)))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestListAppointments_ParsesQuery(t *testing.T) {
	uc := &stubAppointmentUsecase{}
	h := NewAppointmentHandler(uc, validator.NewValidator())
	doctorID := uuid.New()

	req := withActor(httptest.NewRequest(http.MethodGet, "/api/v1/appointments?status=pending&start_date=2026-03-01&doctor_id="+doctorID.String()+"&page=2&limit=10", nil), patientActor)
	rec := httptest.NewRecorder()
	h.ListAppointments(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, uc.gotQuery)
	assert.Equal(t, "pending", uc.gotQuery.Status)
	assert.Equal(t, "2026-03-01", uc.gotQuery.StartDate)
	assert.Equal(t, doctorID, *uc.gotQuery.DoctorID)
	assert.Nil(t, uc.gotQuery.PatientID)
	assert.Equal(t, 2, uc.gotQuery.Page)

	body := decode(t, rec)
	require.NotNil(t, body.Meta)
	assert.Equal(t, int64(21), body.Meta.Total)
	assert.Equal(t, 3, body.Meta.TotalPages)
}

func TestListAppointments_BadDoctorID(t *testing.T) {
	h := NewAppointmentHandler(&stubAppointmentUsecase{}, validator.NewValidator())
	req := withActor(httptest.NewRequest(http.MethodGet, "/api/v1/appointments?doctor_id=nope", nil), patientActor)
	rec := httptest.NewRecorder()

	h.ListAppointments(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestStatusEndpoints(t *testing.T) {
	id := uuid.New()
	doctor := entity.Actor{UserID: uuid.New(), Role: entity.RoleDoctor}

	t.Run("reject with reason", func(t *testing.T) {
		uc := &stubAppointmentUsecase{}
		h := NewAppointmentHandler(uc, validator.NewValidator())
		req := withActor(httptest.NewRequest(http.MethodPatch, "/", strings.NewReader(`{"reason":"doctor on leave"}`)), doctor)
		req = mux.SetURLVars(req, map[string]string{"id": id.String()})
		rec := httptest.NewRecorder()

		h.RejectAppointment(rec, req)
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "doctor on leave", uc.gotReason)
	})

	t.Run("cancel without body", func(t *testing.T) {
		h := NewAppointmentHandler(&stubAppointmentUsecase{}, validator.NewValidator())
		req := withActor(httptest.NewRequest(http.MethodPatch, "/", nil), patientActor)
		req = mux.SetURLVars(req, map[string]string{"id": id.String()})
		rec := httptest.NewRecorder()

		h.CancelAppointment(rec, req)
		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("invalid transition is a conflict", func(t *testing.T) {
		h := NewAppointmentHandler(&stubAppointmentUsecase{transition: usecase.ErrInvalidStatusTransition}, validator.NewValidator())
		req := withActor(httptest.NewRequest(http.MethodPatch, "/", nil), doctor)
		req = mux.SetURLVars(req, map[string]string{"id": id.String()})
		rec := httptest.NewRecorder()

		h.ApproveAppointment(rec, req)
		assert.Equal(t, http.StatusConflict, rec.Code)
	})

	t.Run("bad id", func(t *testing.T) {
		h := NewAppointmentHandler(&stubAppointmentUsecase{}, validator.NewValidator())
		req := withActor(httptest.NewRequest(http.MethodPatch, "/", nil), doctor)
		req = mux.SetURLVars(req, map[string]string{"id": "42"})
		rec := httptest.NewRecorder()

		h.CompleteAppointment(rec, req)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("not found", func(t *testing.T) {
		h := NewAppointmentHandler(&stubAppointmentUsecase{}, validator.NewValidator())
		req := withActor(httptest.NewRequest(http.MethodGet, "/", nil), doctor)
		req = mux.SetURLVars(req, map[string]string{"id": id.String()})
		rec := httptest.NewRecorder()

		h.GetAppointment(rec, req)
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}

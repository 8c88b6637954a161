package handler

import (
	"net/http"
	"strconv"

	"hospital-appointment/internal/usecase"
	"hospital-appointment/pkg/response"
)

type ReportHandler struct {
	reportUsecase usecase.ReportUsecase
}

func NewReportHandler(reportUsecase usecase.ReportUsecase) *ReportHandler {
	return &ReportHandler{reportUsecase: reportUsecase}
}

func (h *ReportHandler) Summary(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(w, r)
	if !ok {
		return
	}

	report, err := h.reportUsecase.Summary(r.Context(), actor)
	if err != nil {
		writeError(w, err, "Failed to build summary report")
		return
	}

	response.Success(w, http.StatusOK, "Summary report retrieved successfully", report)
}

// Daily accepts ?start_date= and ?end_date=, defaulting to the last seven days
func (h *ReportHandler) Daily(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(w, r)
	if !ok {
		return
	}

	q := r.URL.Query()
	report, err := h.reportUsecase.Daily(r.Context(), actor, q.Get("start_date"), q.Get("end_date"))
	if err != nil {
		writeError(w, err, "Failed to build daily report")
		return
	}

	response.Success(w, http.StatusOK, "Daily report retrieved successfully", report)
}

// Monthly accepts ?year=, defaulting to the current year
func (h *ReportHandler) Monthly(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(w, r)
	if !ok {
		return
	}

	year := 0
	if raw := r.URL.Query().Get("year"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			response.BadRequest(w, "Invalid year")
			return
		}
		year = parsed
	}

	report, err := h.reportUsecase.Monthly(r.Context(), actor, year)
	if err != nil {
		writeError(w, err, "Failed to build monthly report")
		return
	}

	response.Success(w, http.StatusOK, "Monthly report retrieved successfully", report)
}

func (h *ReportHandler) BySpecialization(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(w, r)
	if !ok {
		return
	}

	q := r.URL.Query()
	report, err := h.reportUsecase.BySpecialization(r.Context(), actor, q.Get("start_date"), q.Get("end_date"))
	if err != nil {
		writeError(w, err, "Failed to build specialization report")
		return
	}

	response.Success(w, http.StatusOK, "Specialization report retrieved successfully", report)
}

package http

import (
	"net/http"

	"hospital-appointment/internal/delivery/http/handler"
	"hospital-appointment/internal/delivery/http/middleware"
	"hospital-appointment/internal/domain/entity"

	"github.com/gorilla/mux"
)

// Handlers groups every HTTP handler the router mounts.
type Handlers struct {
	Auth            *handler.AuthHandler
	Doctor          *handler.DoctorHandler
	Availability    *handler.AvailabilityHandler
	Appointment     *handler.AppointmentHandler
	AppointmentType *handler.AppointmentTypeHandler
	Patient         *handler.PatientHandler
	AuditLog        *handler.AuditLogHandler
	Report          *handler.ReportHandler
}

type Router struct {
	router              *mux.Router
	handlers            Handlers
	authMiddleware      *middleware.AuthMiddleware
	corsMiddleware      *middleware.CORSMiddleware
	accessLogMiddleware *middleware.AccessLogMiddleware
	loginRateLimit      *middleware.RateLimitMiddleware
	metricsPath         string
	metricsHandler      http.Handler
}

func NewRouter(
	handlers Handlers,
	authMiddleware *middleware.AuthMiddleware,
	corsMiddleware *middleware.CORSMiddleware,
	accessLogMiddleware *middleware.AccessLogMiddleware,
	loginRateLimit *middleware.RateLimitMiddleware,
) *Router {
	return &Router{
		router:              mux.NewRouter(),
		handlers:            handlers,
		authMiddleware:      authMiddleware,
		corsMiddleware:      corsMiddleware,
		accessLogMiddleware: accessLogMiddleware,
		loginRateLimit:      loginRateLimit,
	}
}

// WithMetrics exposes h at path, outside the API prefix.
func (r *Router) WithMetrics(path string, h http.Handler) *Router {
	r.metricsPath = path
	r.metricsHandler = h
	return r
}

func (r *Router) Setup() *mux.Router {
	h := r.handlers

	if r.metricsHandler != nil && r.metricsPath != "" {
		r.router.Handle(r.metricsPath, r.metricsHandler).Methods(http.MethodGet)
	}

	// API versioning
	api := r.router.PathPrefix("/api/v1").Subrouter()

	// Health check
	api.HandleFunc("/health", r.healthCheck).Methods(http.MethodGet)

	// Auth routes (public)
	auth := api.PathPrefix("/auth").Subrouter()
	auth.HandleFunc("/register/patient", h.Auth.RegisterPatient).Methods(http.MethodPost)
	auth.HandleFunc("/refresh-token", h.Auth.RefreshToken).Methods(http.MethodPost)

	login := http.Handler(http.HandlerFunc(h.Auth.Login))
	if r.loginRateLimit != nil {
		login = r.loginRateLimit.Limit(login)
	}
	auth.Handle("/login", login).Methods(http.MethodPost)

	// Auth routes (protected)
	authProtected := api.PathPrefix("/auth").Subrouter()
	authProtected.Use(r.authMiddleware.Authenticate)
	authProtected.HandleFunc("/logout", h.Auth.Logout).Methods(http.MethodPost)
	authProtected.HandleFunc("/me", h.Auth.GetCurrentUser).Methods(http.MethodGet)

	// Public catalogue
	api.HandleFunc("/doctors", h.Doctor.ListDoctors).Methods(http.MethodGet)
	api.HandleFunc("/doctors/specializations", h.Doctor.ListSpecializations).Methods(http.MethodGet)
	api.HandleFunc("/doctors/{id}", h.Doctor.GetDoctor).Methods(http.MethodGet)
	api.HandleFunc("/doctors/{id}/slots", h.Availability.GetOpenSlots).Methods(http.MethodGet)
	api.HandleFunc("/doctors/{id}/schedule", h.Availability.GetWeeklySchedule).Methods(http.MethodGet)
	api.HandleFunc("/doctors/{id}/special-days", h.Availability.ListSpecialDays).Methods(http.MethodGet)
	api.HandleFunc("/appointment-types", h.AppointmentType.GetAll).Methods(http.MethodGet)
	api.HandleFunc("/appointment-types/{id}", h.AppointmentType.GetByID).Methods(http.MethodGet)

	// Appointments (any authenticated role, scoped in the usecase)
	appointments := api.PathPrefix("/appointments").Subrouter()
	appointments.Use(r.authMiddleware.Authenticate)
	appointments.HandleFunc("", h.Appointment.ListAppointments).Methods(http.MethodGet)
	appointments.HandleFunc("/{id}", h.Appointment.GetAppointment).Methods(http.MethodGet)
	appointments.HandleFunc("/{id}/cancel", h.Appointment.CancelAppointment).Methods(http.MethodPatch)
	appointments.Handle("", middleware.RequireRole(entity.RolePatient, entity.RoleAdmin)(http.HandlerFunc(h.Appointment.BookAppointment))).Methods(http.MethodPost)
	appointments.Handle("/{id}/approve", middleware.RequireAdminOrDoctor(http.HandlerFunc(h.Appointment.ApproveAppointment))).Methods(http.MethodPatch)
	appointments.Handle("/{id}/reject", middleware.RequireAdminOrDoctor(http.HandlerFunc(h.Appointment.RejectAppointment))).Methods(http.MethodPatch)
	appointments.Handle("/{id}/complete", middleware.RequireAdminOrDoctor(http.HandlerFunc(h.Appointment.CompleteAppointment))).Methods(http.MethodPatch)

	// Patient routes
	patient := api.PathPrefix("/patient").Subrouter()
	patient.Use(r.authMiddleware.Authenticate)
	patient.Use(middleware.RequirePatient)
	patient.HandleFunc("/profile", h.Patient.GetSelfProfile).Methods(http.MethodGet)
	patient.HandleFunc("/profile", h.Patient.UpdateSelfProfile).Methods(http.MethodPut)

	// Patient lookup (admin or treating doctor)
	patients := api.PathPrefix("/patients").Subrouter()
	patients.Use(r.authMiddleware.Authenticate)
	patients.Use(middleware.RequireAdminOrDoctor)
	patients.HandleFunc("/{id}", h.Patient.GetPatient).Methods(http.MethodGet)

	// Doctor routes
	doctor := api.PathPrefix("/doctor").Subrouter()
	doctor.Use(r.authMiddleware.Authenticate)
	doctor.Use(middleware.RequireDoctor)
	doctor.HandleFunc("/profile", h.Doctor.UpdateSelfProfile).Methods(http.MethodPut)
	doctor.HandleFunc("/schedule", h.Availability.GetMyWeeklySchedule).Methods(http.MethodGet)
	doctor.HandleFunc("/schedule", h.Availability.UpdateWeeklySchedule).Methods(http.MethodPut)
	doctor.HandleFunc("/special-days", h.Availability.CreateSpecialDay).Methods(http.MethodPost)
	doctor.HandleFunc("/special-days/{dayId}", h.Availability.DeleteSpecialDay).Methods(http.MethodDelete)

	// Admin routes (protected - admin only)
	admin := api.PathPrefix("/admin").Subrouter()
	admin.Use(r.authMiddleware.Authenticate)
	admin.Use(middleware.RequireAdmin)

	// Doctor management (admin)
	admin.HandleFunc("/doctors", h.Doctor.CreateDoctor).Methods(http.MethodPost)
	admin.HandleFunc("/doctors", h.Doctor.ListAllDoctors).Methods(http.MethodGet)
	admin.HandleFunc("/doctors/{id}", h.Doctor.UpdateDoctor).Methods(http.MethodPut)
	admin.HandleFunc("/doctors/{id}", h.Doctor.DeleteDoctor).Methods(http.MethodDelete)
	admin.HandleFunc("/doctors/{id}/schedule", h.Availability.UpdateWeeklySchedule).Methods(http.MethodPut)
	admin.HandleFunc("/doctors/{id}/special-days", h.Availability.CreateSpecialDay).Methods(http.MethodPost)
	admin.HandleFunc("/doctors/{id}/special-days/{dayId}", h.Availability.DeleteSpecialDay).Methods(http.MethodDelete)

	admin.HandleFunc("/patients", h.Patient.ListPatients).Methods(http.MethodGet)
	admin.HandleFunc("/patients/{id}", h.Patient.UpdatePatient).Methods(http.MethodPut)
	admin.HandleFunc("/patients/{id}", h.Patient.DeletePatient).Methods(http.MethodDelete)
	admin.HandleFunc("/admins", h.Auth.ListAdmins).Methods(http.MethodGet)
	admin.HandleFunc("/appointments/{id}", h.Appointment.DeleteAppointment).Methods(http.MethodDelete)

	admin.HandleFunc("/appointment-types", h.AppointmentType.Create).Methods(http.MethodPost)
	admin.HandleFunc("/appointment-types/{id}", h.AppointmentType.Update).Methods(http.MethodPut)
	admin.HandleFunc("/appointment-types/{id}", h.AppointmentType.Delete).Methods(http.MethodDelete)

	admin.HandleFunc("/audit-logs", h.AuditLog.GetAllAuditLogs).Methods(http.MethodGet)
	admin.HandleFunc("/audit-logs/{id}", h.AuditLog.GetAuditLog).Methods(http.MethodGet)

	admin.HandleFunc("/reports/summary", h.Report.Summary).Methods(http.MethodGet)
	admin.HandleFunc("/reports/daily", h.Report.Daily).Methods(http.MethodGet)
	admin.HandleFunc("/reports/monthly", h.Report.Monthly).Methods(http.MethodGet)
	admin.HandleFunc("/reports/specializations", h.Report.BySpecialization).Methods(http.MethodGet)

	// Lets CORS preflight through for every path
	r.router.PathPrefix("/").Methods(http.MethodOptions).HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})

	if r.accessLogMiddleware != nil {
		r.router.Use(r.accessLogMiddleware.Handle)
	}
	// Add CORS middleware
	r.router.Use(r.corsMiddleware.Handle)

	return r.router
}

func (r *Router) healthCheck(w http.ResponseWriter, req *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status": "ok"}`))
}

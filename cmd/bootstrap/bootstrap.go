package bootstrap

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"hospital-appointment/config"
	"hospital-appointment/internal/availability"
	deliveryHttp "hospital-appointment/internal/delivery/http"
	"hospital-appointment/internal/delivery/http/handler"
	"hospital-appointment/internal/delivery/http/middleware"
	"hospital-appointment/internal/infrastructure/cache"
	"hospital-appointment/internal/infrastructure/database"
	"hospital-appointment/internal/infrastructure/messaging"
	"hospital-appointment/internal/infrastructure/metrics"
	"hospital-appointment/internal/repository"
	"hospital-appointment/internal/service"
	"hospital-appointment/internal/usecase"
	"hospital-appointment/pkg/jwt"
	"hospital-appointment/pkg/validator"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"github.com/segmentio/kafka-go"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// App holds all dependencies for the application
type App struct {
	Config      *config.Config
	Log         *logrus.Logger
	DB          *gorm.DB
	RedisClient *redis.Client
	KafkaWriter *kafka.Writer
	Server      *http.Server
}

// New creates a new App instance with all dependencies initialized
func New(cfg *config.Config) (*App, error) {
	app := &App{Config: cfg}

	// Setup logger
	log := NewLogger(cfg.App)
	app.Log = log

	location, err := LoadLocation(cfg.App.Timezone)
	if err != nil {
		return nil, err
	}

	rules, err := BookingRules(cfg.Booking)
	if err != nil {
		return nil, err
	}

	// Initialize database
	db, err := database.NewPostgresConnection(cfg.DB, cfg.App.Timezone, cfg.App.Env == "development")
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	app.DB = db
	log.Info("Database connected successfully")

	// Initialize Redis
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	redisClient, err := cache.NewRedisClient(ctx, cfg.Redis, log)
	if err != nil {
		app.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}
	app.RedisClient = redisClient
	log.Info("Redis connected successfully")

	app.KafkaWriter = messaging.NewKafkaWriter(cfg.Kafka)

	// Initialize all layers
	app.Server = initializeServer(cfg, log, rules, location, db, redisClient, app.KafkaWriter)

	return app, nil
}

// NewLogger returns a JSON logrus logger at the configured level.
func NewLogger(cfg config.AppConfig) *logrus.Logger {
	log := logrus.StandardLogger()
	log.SetFormatter(&logrus.JSONFormatter{})
	log.SetOutput(os.Stdout)

	level, err := logrus.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = logrus.InfoLevel
	}
	log.SetLevel(level)
	return log
}

func LoadLocation(name string) (*time.Location, error) {
	location, err := time.LoadLocation(name)
	if err != nil {
		return nil, fmt.Errorf("failed to load timezone %q: %w", name, err)
	}
	return location, nil
}

// BookingRules builds the availability rules from configuration and checks them.
func BookingRules(cfg config.BookingConfig) (availability.Rules, error) {
	rules := availability.Rules{
		OpenTime:        cfg.OpenTime,
		CloseTime:       cfg.CloseTime,
		SlotStepMinutes: cfg.SlotStepMinutes,
		MaxMonthsAhead:  cfg.MaxMonthsAhead,
		MaxNotesLength:  cfg.NotesMaxLength,
	}
	if err := rules.Validate(); err != nil {
		return availability.Rules{}, fmt.Errorf("invalid booking rules: %w", err)
	}
	return rules, nil
}

// initializeServer creates and configures the HTTP server
func initializeServer(
	cfg *config.Config,
	log *logrus.Logger,
	rules availability.Rules,
	location *time.Location,
	db *gorm.DB,
	redisClient *redis.Client,
	kafkaWriter *kafka.Writer,
) *http.Server {
	// Initialize JWT service
	jwtService := jwt.NewJWTService(cfg.JWT)

	// Initialize validator
	customValidator := validator.NewValidator()

	// Initialize metrics
	var bookingMetrics *metrics.BookingMetrics
	if cfg.Metrics.Enabled {
		bookingMetrics = metrics.NewBookingMetrics(prometheus.DefaultRegisterer)
	}

	// Initialize repositories
	userRepo := repository.NewUserRepository()
	doctorProfileRepo := repository.NewDoctorProfileRepository()
	patientProfileRepo := repository.NewPatientProfileRepository()
	specialDayRepo := repository.NewSpecialDayRepository()
	appointmentRepo := repository.NewAppointmentRepository()
	appointmentTypeRepo := repository.NewAppointmentTypeRepository(db)
	auditLogRepo := repository.NewAuditLogRepository()

	// Initialize services
	auditService := service.NewAuditService(log, auditLogRepo)
	slotHoldService := service.NewSlotHoldService(redisClient, log, cfg.Booking.SlotHoldTTL)
	var publisher service.AppointmentEventPublisher
	if kafkaWriter != nil {
		publisher = service.NewKafkaEventPublisher(kafkaWriter, log)
	} else {
		publisher = service.NewNoopEventPublisher(log)
	}

	// Initialize usecases
	authUsecase := usecase.NewAuthUsecase(db, log, userRepo, patientProfileRepo, doctorProfileRepo, auditService, jwtService, redisClient)
	doctorProfileUsecase := usecase.NewDoctorProfileUsecase(db, log, rules, userRepo, doctorProfileRepo, auditService, redisClient)
	availabilityUsecase := usecase.NewAvailabilityUsecase(db, log, rules, doctorProfileRepo, specialDayRepo, appointmentRepo, auditService, bookingMetrics)
	appointmentUsecase := usecase.NewAppointmentUsecase(db, log, rules, location, appointmentRepo, doctorProfileRepo, patientProfileRepo, specialDayRepo, appointmentTypeRepo, slotHoldService, publisher, auditService, bookingMetrics)
	appointmentTypeUsecase := usecase.NewAppointmentTypeUsecase(appointmentTypeRepo)
	patientProfileUsecase := usecase.NewPatientProfileUsecase(db, log, userRepo, patientProfileRepo, auditService, redisClient)
	auditLogUsecase := usecase.NewAuditLogUsecase(db, log, auditLogRepo)
	reportUsecase := usecase.NewReportUsecase(db, log, location, userRepo, doctorProfileRepo, appointmentRepo)

	// Initialize handlers
	handlers := deliveryHttp.Handlers{
		Auth:            handler.NewAuthHandler(authUsecase, customValidator),
		Doctor:          handler.NewDoctorHandler(doctorProfileUsecase, customValidator),
		Availability:    handler.NewAvailabilityHandler(availabilityUsecase, customValidator),
		Appointment:     handler.NewAppointmentHandler(appointmentUsecase, customValidator),
		AppointmentType: handler.NewAppointmentTypeHandler(appointmentTypeUsecase, customValidator),
		Patient:         handler.NewPatientHandler(patientProfileUsecase, customValidator),
		AuditLog:        handler.NewAuditLogHandler(auditLogUsecase),
		Report:          handler.NewReportHandler(reportUsecase),
	}

	// Initialize middleware
	authMiddleware := middleware.NewAuthMiddleware(jwtService, redisClient)
	corsMiddleware := middleware.NewCORSMiddleware(cfg.CORS)
	accessLogMiddleware := middleware.NewAccessLogMiddleware(log, bookingMetrics)
	loginRateLimit := middleware.NewRateLimitMiddleware(redisClient, log, cfg.RateLimit.LoginAttempts, cfg.RateLimit.LoginWindow, "login")

	// Initialize router
	router := deliveryHttp.NewRouter(handlers, authMiddleware, corsMiddleware, accessLogMiddleware, loginRateLimit)
	if cfg.Metrics.Enabled {
		router.WithMetrics(cfg.Metrics.Path, promhttp.Handler())
	}
	httpRouter := router.Setup()

	// Create server
	serverAddr := fmt.Sprintf(":%s", cfg.App.Port)
	return &http.Server{
		Addr:              serverAddr,
		Handler:           httpRouter,
		ReadHeaderTimeout: 10 * time.Second,
	}
}

// Run starts the HTTP server and handles graceful shutdown
func (app *App) Run() {
	// Start server in goroutine
	go func() {
		app.Log.Infof("Server starting on port %s", app.Config.App.Port)
		app.Log.Infof("Environment: %s", app.Config.App.Env)
		if err := app.Server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			app.Log.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Wait for interrupt signal
	app.waitForShutdown()
}

// waitForShutdown blocks until an interrupt signal is received
func (app *App) waitForShutdown() {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	app.Log.Info("Shutting down server...")

	// Create shutdown context with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// Shutdown HTTP server gracefully
	if err := app.Server.Shutdown(ctx); err != nil {
		app.Log.Errorf("Server forced to shutdown: %v", err)
	}

	// Close connections
	app.Close()

	app.Log.Info("Server shutdown complete")
}

// Close closes all connections (database, redis, kafka)
func (app *App) Close() {
	if app.KafkaWriter != nil {
		if err := app.KafkaWriter.Close(); err != nil {
			app.Log.Warnf("Failed to close kafka writer: %v", err)
		}
	}

	// Close database connection
	if app.DB != nil {
		sqlDB, err := app.DB.DB()
		if err == nil {
			sqlDB.Close()
		}
	}

	// Close Redis connection
	if app.RedisClient != nil {
		app.RedisClient.Close()
	}
}

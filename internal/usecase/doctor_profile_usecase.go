package usecase

import (
	"context"
	"errors"
	"strings"

	"hospital-appointment/internal/availability"
	"hospital-appointment/internal/converter"
	"hospital-appointment/internal/delivery/dto"
	"hospital-appointment/internal/domain/entity"
	"hospital-appointment/internal/domain/repository"
	"hospital-appointment/internal/service"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var (
	ErrDoctorNotFound     = errors.New("doctor not found")
	ErrDoctorInactive     = errors.New("doctor is not active")
	ErrDoctorEmailExists  = errors.New("email already exists")
	ErrInvalidOldPassword = errors.New("invalid old password")
	ErrNegativeFee        = errors.New("fee cannot be negative")
)

type DoctorProfileUsecase interface {
	CreateDoctor(ctx context.Context, actor entity.Actor, req *dto.CreateDoctorRequest) (*dto.DoctorResponse, error)
	GetDoctor(ctx context.Context, doctorID uuid.UUID) (*dto.DoctorResponse, error)
	ListDoctors(ctx context.Context, query *dto.DoctorListQuery, includeInactive bool) (*dto.DoctorListResponse, error)
	ListSpecializations(ctx context.Context) (*dto.SpecializationListResponse, error)
	UpdateDoctor(ctx context.Context, actor entity.Actor, doctorID uuid.UUID, req *dto.UpdateDoctorRequest) (*dto.DoctorResponse, error)
	UpdateSelfProfile(ctx context.Context, actor entity.Actor, req *dto.DoctorUpdateSelfRequest) (*dto.DoctorResponse, error)
	DeleteDoctor(ctx context.Context, actor entity.Actor, doctorID uuid.UUID) error
}

type doctorProfileUsecase struct {
	db                *gorm.DB
	log               *logrus.Logger
	rules             availability.Rules
	userRepo          repository.UserRepository
	doctorProfileRepo repository.DoctorProfileRepository
	auditService      service.AuditService
	redisClient       *redis.Client
}

func NewDoctorProfileUsecase(
	db *gorm.DB,
	log *logrus.Logger,
	rules availability.Rules,
	userRepo repository.UserRepository,
	doctorProfileRepo repository.DoctorProfileRepository,
	auditService service.AuditService,
	redisClient *redis.Client,
) DoctorProfileUsecase {
	return &doctorProfileUsecase{
		db:                db,
		log:               log,
		rules:             rules,
		userRepo:          userRepo,
		doctorProfileRepo: doctorProfileRepo,
		auditService:      auditService,
		redisClient:       redisClient,
	}
}

func (u *doctorProfileUsecase) CreateDoctor(ctx context.Context, actor entity.Actor, req *dto.CreateDoctorRequest) (*dto.DoctorResponse, error) {
	if !actor.IsAdmin() {
		return nil, ErrForbidden
	}
	if req.Fee.IsNegative() {
		return nil, ErrNegativeFee
	}

	schedule := converter.MapToWeeklySchedule(req.WeeklySchedule)
	if errs := u.rules.ValidateWeeklySchedule(schedule); len(errs) > 0 {
		return nil, &ValidationError{Errors: errs}
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		u.log.Warnf("Failed to hash password: %+v", err)
		return nil, err
	}

	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	active := true
	user := &entity.User{
		Email:    strings.ToLower(strings.TrimSpace(req.Email)),
		Password: string(hashedPassword),
		FullName: strings.TrimSpace(req.FullName),
		RoleID:   entity.RoleDoctor,
		IsActive: &active,
	}
	if err := u.userRepo.Create(ctx, tx, user); err != nil {
		if isDuplicateKeyError(err, "email") {
			return nil, ErrDoctorEmailExists
		}
		if isForeignKeyError(err, "role") {
			return nil, ErrRoleNotFound
		}
		u.log.Warnf("Failed to create doctor user: %+v", err)
		return nil, err
	}

	profile := &entity.DoctorProfile{
		UserID:          user.ID,
		Title:           req.Title,
		Specialization:  strings.TrimSpace(req.Specialization),
		Diploma:         req.Diploma,
		ExperienceYears: req.ExperienceYears,
		PhoneNumber:     req.PhoneNumber,
		Biography:       req.Biography,
		Fee:             req.Fee,
		WeeklySchedule:  schedule,
	}
	if err := u.doctorProfileRepo.Create(ctx, tx, profile); err != nil {
		u.log.Warnf("Failed to create doctor profile: %+v", err)
		return nil, err
	}
	profile.User = *user

	// Audit log - create doctor
	if err := u.auditService.LogCreate(ctx, tx, &actor, entity.AuditActionDoctorCreate, "doctor_profile", profile.UserID.String(), converter.DoctorProfileToResponse(profile)); err != nil {
		u.log.Warnf("Failed to create audit log: %+v", err)
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return nil, err
	}

	u.log.Infof("Doctor created: id=%s, specialization=%s", profile.UserID, profile.Specialization)
	return converter.DoctorProfileToResponse(profile), nil
}

func (u *doctorProfileUsecase) GetDoctor(ctx context.Context, userID uuid.UUID) (*dto.DoctorResponse, error) {
	profile, err := u.doctorProfileRepo.FindByUserID(ctx, u.db, userID)
	if err != nil {
		u.log.Warnf("Failed to find doctor profile: %+v", err)
		return nil, err
	}
	if profile == nil {
		return nil, ErrDoctorNotFound
	}

	return converter.DoctorProfileToResponse(profile), nil
}

// ListDoctors lists doctors matching the query. Inactive doctors are only included for admins.
func (u *doctorProfileUsecase) ListDoctors(ctx context.Context, query *dto.DoctorListQuery, includeInactive bool) (*dto.DoctorListResponse, error) {
	filter := &entity.DoctorFilter{OnlyActive: !includeInactive}
	if query != nil {
		filter.Name = strings.TrimSpace(query.Name)
		filter.Specialization = strings.TrimSpace(query.Specialization)
	}

	profiles, err := u.doctorProfileRepo.FindAll(ctx, u.db, filter)
	if err != nil {
		u.log.Warnf("Failed to find all doctor profiles: %+v", err)
		return nil, err
	}

	doctors := converter.DoctorProfilesToResponses(profiles)

	return &dto.DoctorListResponse{
		Doctors: doctors,
		Total:   len(doctors),
	}, nil
}

func (u *doctorProfileUsecase) ListSpecializations(ctx context.Context) (*dto.SpecializationListResponse, error) {
	specs, err := u.doctorProfileRepo.FindSpecializations(ctx, u.db)
	if err != nil {
		u.log.Warnf("Failed to find specializations: %+v", err)
		return nil, err
	}
	if specs == nil {
		specs = []string{}
	}
	return &dto.SpecializationListResponse{Specializations: specs}, nil
}

func (u *doctorProfileUsecase) UpdateDoctor(ctx context.Context, actor entity.Actor, userID uuid.UUID, req *dto.UpdateDoctorRequest) (*dto.DoctorResponse, error) {
	if !actor.IsAdmin() {
		return nil, ErrForbidden
	}
	if req.Fee != nil && req.Fee.IsNegative() {
		return nil, ErrNegativeFee
	}

	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	profile, err := u.doctorProfileRepo.FindByUserID(ctx, tx, userID)
	if err != nil {
		u.log.Warnf("Failed to find doctor profile: %+v", err)
		return nil, err
	}
	if profile == nil {
		return nil, ErrDoctorNotFound
	}

	// Capture old value for audit
	oldValue := converter.DoctorProfileToResponse(profile)

	deactivated := false
	if req.Email != "" {
		profile.User.Email = strings.ToLower(strings.TrimSpace(req.Email))
	}
	if req.FullName != "" {
		profile.User.FullName = strings.TrimSpace(req.FullName)
	}
	if req.IsActive != nil {
		deactivated = profile.User.Active() && !*req.IsActive
		active := *req.IsActive
		profile.User.IsActive = &active
	}
	if req.Title != "" {
		profile.Title = req.Title
	}
	if req.Specialization != "" {
		profile.Specialization = strings.TrimSpace(req.Specialization)
	}
	if req.Diploma != "" {
		profile.Diploma = req.Diploma
	}
	if req.ExperienceYears != nil {
		profile.ExperienceYears = *req.ExperienceYears
	}
	if req.PhoneNumber != "" {
		profile.PhoneNumber = req.PhoneNumber
	}
	if req.Biography != "" {
		profile.Biography = req.Biography
	}
	if req.Fee != nil {
		profile.Fee = *req.Fee
	}

	if err := u.userRepo.Update(ctx, tx, &profile.User); err != nil {
		if isDuplicateKeyError(err, "email") {
			return nil, ErrDoctorEmailExists
		}
		u.log.Warnf("Failed to update doctor user: %+v", err)
		return nil, err
	}
	if err := u.doctorProfileRepo.Update(ctx, tx, profile); err != nil {
		u.log.Warnf("Failed to update doctor profile: %+v", err)
		return nil, err
	}

	// Audit log - update doctor
	newValue := converter.DoctorProfileToResponse(profile)
	if err := u.auditService.LogUpdate(ctx, tx, &actor, entity.AuditActionDoctorUpdate, "doctor_profile", userID.String(), oldValue, newValue); err != nil {
		u.log.Warnf("Failed to create audit log: %+v", err)
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return nil, err
	}

	if deactivated {
		u.revokeTokens(ctx, userID)
	}

	return newValue, nil
}

func (u *doctorProfileUsecase) UpdateSelfProfile(ctx context.Context, actor entity.Actor, req *dto.DoctorUpdateSelfRequest) (*dto.DoctorResponse, error) {
	if !actor.IsDoctor() {
		return nil, ErrForbidden
	}

	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	profile, err := u.doctorProfileRepo.FindByUserID(ctx, tx, actor.UserID)
	if err != nil {
		u.log.Warnf("Failed to find doctor profile: %+v", err)
		return nil, err
	}
	if profile == nil {
		return nil, ErrDoctorNotFound
	}

	// Capture old value for audit
	oldValue := converter.DoctorProfileToResponse(profile)

	// Update allowed fields only
	updated := false
	passwordChanged := false
	if req.Password != "" {
		if err := bcrypt.CompareHashAndPassword([]byte(profile.User.Password), []byte(req.OldPassword)); err != nil {
			return nil, ErrInvalidOldPassword
		}

		hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
		if err != nil {
			u.log.Warnf("Failed to hash password: %+v", err)
			return nil, err
		}
		if err := u.userRepo.UpdatePassword(ctx, tx, actor.UserID, string(hashedPassword)); err != nil {
			u.log.Warnf("Failed to update password: %+v", err)
			return nil, err
		}
		updated = true
		passwordChanged = true
	}

	if req.Biography != "" {
		profile.Biography = req.Biography
		updated = true
	}
	if req.PhoneNumber != "" {
		profile.PhoneNumber = req.PhoneNumber
		updated = true
	}

	if !updated {
		return oldValue, nil
	}

	if err := u.doctorProfileRepo.Update(ctx, tx, profile); err != nil {
		u.log.Warnf("Failed to update doctor profile: %+v", err)
		return nil, err
	}

	// Audit log - update doctor self
	newValue := converter.DoctorProfileToResponse(profile)
	if err := u.auditService.LogUpdate(ctx, tx, &actor, entity.AuditActionProfileUpdate, "doctor_profile", actor.UserID.String(), oldValue, newValue); err != nil {
		u.log.Warnf("Failed to create audit log: %+v", err)
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return nil, err
	}

	if passwordChanged {
		u.revokeTokens(ctx, actor.UserID)
	}

	return newValue, nil
}

// DeleteDoctor deactivates the doctor account. Appointments keep referencing the profile.
func (u *doctorProfileUsecase) DeleteDoctor(ctx context.Context, actor entity.Actor, userID uuid.UUID) error {
	if !actor.IsAdmin() {
		return ErrForbidden
	}

	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	profile, err := u.doctorProfileRepo.FindByUserID(ctx, tx, userID)
	if err != nil {
		u.log.Warnf("Failed to find doctor profile: %+v", err)
		return err
	}
	if profile == nil {
		return ErrDoctorNotFound
	}
	oldValue := converter.DoctorProfileToResponse(profile)

	affectedRows, err := u.userRepo.SetActive(ctx, tx, userID, false)
	if err != nil {
		u.log.Warnf("Failed deactivate doctor: %+v", err)
		return err
	}
	if affectedRows == 0 {
		return ErrDoctorNotFound
	}

	// Audit log - delete doctor
	if err := u.auditService.LogDelete(ctx, tx, &actor, entity.AuditActionDoctorDelete, "doctor_profile", userID.String(), oldValue); err != nil {
		u.log.Warnf("Failed to create audit log: %+v", err)
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return err
	}

	u.revokeTokens(ctx, userID)
	return nil
}

func (u *doctorProfileUsecase) revokeTokens(ctx context.Context, userID uuid.UUID) {
	if u.redisClient == nil {
		return
	}
	if err := RevokeAllUserTokens(ctx, u.redisClient, u.log, userID.String()); err != nil {
		u.log.Warnf("Failed to revoke tokens for %s (non-fatal): %+v", userID, err)
	}
}

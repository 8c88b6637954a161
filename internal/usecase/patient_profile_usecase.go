package usecase

import (
	"context"
	"strings"

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

type PatientProfileUsecase interface {
	GetSelfProfile(ctx context.Context, actor entity.Actor) (*dto.PatientResponse, error)
	UpdateSelfProfile(ctx context.Context, actor entity.Actor, req *dto.PatientUpdateSelfRequest) (*dto.PatientResponse, error)
	GetPatient(ctx context.Context, actor entity.Actor, patientID uuid.UUID) (*dto.PatientResponse, error)
	ListPatients(ctx context.Context, actor entity.Actor, query dto.PatientListQuery) (*dto.PatientListResponse, error)
	UpdatePatient(ctx context.Context, actor entity.Actor, patientID uuid.UUID, req *dto.AdminUpdatePatientRequest) (*dto.PatientResponse, error)
	DeletePatient(ctx context.Context, actor entity.Actor, patientID uuid.UUID) error
}

type patientProfileUsecase struct {
	db                 *gorm.DB
	log                *logrus.Logger
	userRepo           repository.UserRepository
	patientProfileRepo repository.PatientProfileRepository
	auditService       service.AuditService
	redisClient        *redis.Client
}

func NewPatientProfileUsecase(
	db *gorm.DB,
	log *logrus.Logger,
	userRepo repository.UserRepository,
	patientProfileRepo repository.PatientProfileRepository,
	auditService service.AuditService,
	redisClient *redis.Client,
) PatientProfileUsecase {
	return &patientProfileUsecase{
		db:                 db,
		log:                log,
		userRepo:           userRepo,
		patientProfileRepo: patientProfileRepo,
		auditService:       auditService,
		redisClient:        redisClient,
	}
}

func (u *patientProfileUsecase) GetSelfProfile(ctx context.Context, actor entity.Actor) (*dto.PatientResponse, error) {
	if !actor.IsPatient() {
		return nil, ErrForbidden
	}
	return u.find(ctx, actor.UserID)
}

// GetPatient is available to admins and doctors.
func (u *patientProfileUsecase) GetPatient(ctx context.Context, actor entity.Actor, patientID uuid.UUID) (*dto.PatientResponse, error) {
	switch actor.Role {
	case entity.RoleAdmin, entity.RoleDoctor:
	case entity.RolePatient:
		if !actor.Owns(patientID) {
			return nil, ErrForbidden
		}
	default:
		return nil, ErrForbidden
	}
	return u.find(ctx, patientID)
}

func (u *patientProfileUsecase) find(ctx context.Context, patientID uuid.UUID) (*dto.PatientResponse, error) {
	profile, err := u.patientProfileRepo.FindByUserID(ctx, u.db, patientID)
	if err != nil {
		u.log.Warnf("Failed to find patient profile: %+v", err)
		return nil, err
	}
	if profile == nil {
		return nil, ErrPatientNotFound
	}
	return converter.PatientProfileToResponse(profile, &profile.User), nil
}

func (u *patientProfileUsecase) ListPatients(ctx context.Context, actor entity.Actor, query dto.PatientListQuery) (*dto.PatientListResponse, error) {
	if !actor.IsAdmin() {
		return nil, ErrForbidden
	}

	page, limit := clampPage(query.Page, query.Limit)
	profiles, total, err := u.patientProfileRepo.FindAll(ctx, u.db, entity.PatientFilter{
		Search:   query.Search,
		Page:     page,
		PageSize: limit,
	})
	if err != nil {
		u.log.Warnf("Failed to find all patient profiles: %+v", err)
		return nil, err
	}

	return &dto.PatientListResponse{
		Patients: converter.PatientProfilesToResponses(profiles),
		Total:    total,
		Page:     page,
		Limit:    limit,
	}, nil
}

// UpdatePatient lets an admin edit a patient's contact data and activation flag.
func (u *patientProfileUsecase) UpdatePatient(ctx context.Context, actor entity.Actor, patientID uuid.UUID, req *dto.AdminUpdatePatientRequest) (*dto.PatientResponse, error) {
	if !actor.IsAdmin() {
		return nil, ErrForbidden
	}

	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	profile, err := u.patientProfileRepo.FindByUserID(ctx, tx, patientID)
	if err != nil {
		u.log.Warnf("Failed to find patient profile: %+v", err)
		return nil, err
	}
	if profile == nil {
		return nil, ErrPatientNotFound
	}
	user := &profile.User
	oldValue := converter.PatientProfileToResponse(profile, user)
	wasActive := user.Active()

	if email := strings.ToLower(strings.TrimSpace(req.Email)); email != "" {
		user.Email = email
	}
	if fullName := strings.TrimSpace(req.FullName); fullName != "" {
		user.FullName = fullName
	}
	if req.IsActive != nil {
		active := *req.IsActive
		user.IsActive = &active
	}
	if err := u.userRepo.Update(ctx, tx, user); err != nil {
		if isDuplicateKeyError(err, "email") {
			return nil, ErrEmailAlreadyExists
		}
		u.log.Warnf("Failed to update patient user: %+v", err)
		return nil, err
	}

	if req.PhoneNumber != "" {
		profile.PhoneNumber = req.PhoneNumber
	}
	if req.Address != "" {
		profile.Address = req.Address
	}
	if req.BloodType != "" {
		profile.BloodType = req.BloodType
	}
	if err := u.patientProfileRepo.Update(ctx, tx, profile); err != nil {
		u.log.Warnf("Failed to update patient profile: %+v", err)
		return nil, err
	}

	newValue := converter.PatientProfileToResponse(profile, user)
	if err := u.auditService.LogUpdate(ctx, tx, &actor, entity.AuditActionPatientUpdate, "patient_profile", patientID.String(), oldValue, newValue); err != nil {
		u.log.Warnf("Failed to create audit log: %+v", err)
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return nil, err
	}

	if wasActive && !user.Active() {
		u.revokeTokens(ctx, patientID)
	}
	return newValue, nil
}

// DeletePatient deactivates the patient account. Profile and appointment history are kept.
func (u *patientProfileUsecase) DeletePatient(ctx context.Context, actor entity.Actor, patientID uuid.UUID) error {
	if !actor.IsAdmin() {
		return ErrForbidden
	}

	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	profile, err := u.patientProfileRepo.FindByUserID(ctx, tx, patientID)
	if err != nil {
		u.log.Warnf("Failed to find patient profile: %+v", err)
		return err
	}
	if profile == nil {
		return ErrPatientNotFound
	}
	oldValue := converter.PatientProfileToResponse(profile, &profile.User)

	affectedRows, err := u.userRepo.SetActive(ctx, tx, patientID, false)
	if err != nil {
		u.log.Warnf("Failed deactivate patient: %+v", err)
		return err
	}
	if affectedRows == 0 {
		return ErrPatientNotFound
	}

	if err := u.auditService.LogDelete(ctx, tx, &actor, entity.AuditActionPatientDelete, "patient_profile", patientID.String(), oldValue); err != nil {
		u.log.Warnf("Failed to create audit log: %+v", err)
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return err
	}

	u.revokeTokens(ctx, patientID)
	return nil
}

func (u *patientProfileUsecase) revokeTokens(ctx context.Context, userID uuid.UUID) {
	if u.redisClient == nil {
		return
	}
	if err := RevokeAllUserTokens(ctx, u.redisClient, u.log, userID.String()); err != nil {
		u.log.Warnf("Failed to revoke tokens for %s (non-fatal): %+v", userID, err)
	}
}

// clampPage applies the listing defaults to a page/limit pair.
func clampPage(page, limit int) (int, int) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = defaultPageSize
	}
	if limit > maxPageSize {
		limit = maxPageSize
	}
	return page, limit
}

// UpdateSelfProfile updates the patient's own profile.
//
// Allowed fields: password (with old password verification), phone_number, address, blood_type.
// Identity fields (national id, gender, date_of_birth) are NOT editable by the patient.
func (u *patientProfileUsecase) UpdateSelfProfile(ctx context.Context, actor entity.Actor, req *dto.PatientUpdateSelfRequest) (*dto.PatientResponse, error) {
	if !actor.IsPatient() {
		return nil, ErrForbidden
	}

	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	profile, err := u.patientProfileRepo.FindByUserID(ctx, tx, actor.UserID)
	if err != nil {
		u.log.Warnf("Failed to find patient profile: %+v", err)
		return nil, err
	}
	if profile == nil {
		return nil, ErrPatientNotFound
	}
	user := &profile.User

	// Capture old value for audit
	oldValue := converter.PatientProfileToResponse(profile, user)

	updated := false
	passwordChanged := false

	if req.Password != "" {
		if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.OldPassword)); err != nil {
			return nil, ErrInvalidOldPassword
		}

		hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
		if err != nil {
			u.log.Warnf("Failed to hash password: %+v", err)
			return nil, err
		}
		if err := u.userRepo.UpdatePassword(ctx, tx, user.ID, string(hashedPassword)); err != nil {
			u.log.Warnf("Failed to update password: %+v", err)
			return nil, err
		}
		updated = true
		passwordChanged = true
	}

	if req.PhoneNumber != "" {
		profile.PhoneNumber = req.PhoneNumber
		updated = true
	}
	if req.Address != "" {
		profile.Address = req.Address
		updated = true
	}
	if req.BloodType != "" {
		profile.BloodType = req.BloodType
		updated = true
	}

	if !updated {
		return oldValue, nil
	}

	if err := u.patientProfileRepo.Update(ctx, tx, profile); err != nil {
		u.log.Warnf("Failed to update patient profile: %+v", err)
		return nil, err
	}

	// Audit log
	newValue := converter.PatientProfileToResponse(profile, user)
	if err := u.auditService.LogUpdate(ctx, tx, &actor, entity.AuditActionProfileUpdate, "patient_profile", actor.UserID.String(), oldValue, newValue); err != nil {
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

package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"hospital-appointment/internal/converter"
	"hospital-appointment/internal/delivery/dto"
	"hospital-appointment/internal/domain/entity"
	"hospital-appointment/internal/domain/repository"
	"hospital-appointment/internal/service"
	"hospital-appointment/pkg/jwt"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var (
	ErrEmailAlreadyExists      = errors.New("email already exists")
	ErrInvalidCredentials      = errors.New("invalid email or password")
	ErrInvalidToken            = errors.New("invalid or expired token")
	ErrTokenRevoked            = errors.New("token has been revoked")
	ErrUserNotFound            = errors.New("user not found")
	ErrUserInactive            = errors.New("user account is inactive")
	ErrRoleNotFound            = errors.New("role not found")
	ErrNationalIDAlreadyExists = errors.New("national id already exists")
	ErrInvalidDateFormat       = errors.New("invalid date format, use YYYY-MM-DD")
	ErrForbidden               = errors.New("you are not allowed to perform this action")
)

// Redis key prefixes for the token store
const (
	accessTokenKeyPrefix  = "access_token"
	refreshTokenKeyPrefix = "refresh_token"
)

// AccessTokenKey is the Redis key marking an access token as valid.
func AccessTokenKey(userID, tokenID string) string {
	return fmt.Sprintf("%s:%s:%s", accessTokenKeyPrefix, userID, tokenID)
}

// RefreshTokenKey is the Redis key marking a refresh token as valid.
func RefreshTokenKey(userID, tokenID string) string {
	return fmt.Sprintf("%s:%s:%s", refreshTokenKeyPrefix, userID, tokenID)
}

type AuthUsecase interface {
	RegisterPatient(ctx context.Context, req *dto.RegisterPatientRequest) (*dto.UserResponse, error)
	Login(ctx context.Context, req *dto.LoginRequest) (*dto.TokenResponse, error)
	Logout(ctx context.Context, actor entity.Actor, accessTokenID, refreshToken string) error
	RefreshToken(ctx context.Context, req *dto.RefreshTokenRequest) (*dto.TokenResponse, error)
	GetCurrentUser(ctx context.Context, actor entity.Actor) (*dto.UserResponse, error)
	ListAdmins(ctx context.Context, actor entity.Actor, page, limit int) (*dto.UserListResponse, error)
}

type authUsecase struct {
	db                 *gorm.DB
	log                *logrus.Logger
	userRepo           repository.UserRepository
	patientProfileRepo repository.PatientProfileRepository
	doctorProfileRepo  repository.DoctorProfileRepository
	auditService       service.AuditService
	jwtService         *jwt.JWTService
	redisClient        *redis.Client
}

func NewAuthUsecase(
	db *gorm.DB,
	log *logrus.Logger,
	userRepo repository.UserRepository,
	patientProfileRepo repository.PatientProfileRepository,
	doctorProfileRepo repository.DoctorProfileRepository,
	auditService service.AuditService,
	jwtService *jwt.JWTService,
	redisClient *redis.Client,
) AuthUsecase {
	return &authUsecase{
		db:                 db,
		log:                log,
		userRepo:           userRepo,
		patientProfileRepo: patientProfileRepo,
		doctorProfileRepo:  doctorProfileRepo,
		auditService:       auditService,
		jwtService:         jwtService,
		redisClient:        redisClient,
	}
}

func (u *authUsecase) RegisterPatient(ctx context.Context, req *dto.RegisterPatientRequest) (*dto.UserResponse, error) {
	dob, err := time.Parse(entity.DateLayout, req.DateOfBirth)
	if err != nil {
		return nil, ErrInvalidDateFormat
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
		RoleID:   entity.RolePatient,
		IsActive: &active,
	}

	if err := u.userRepo.Create(ctx, tx, user); err != nil {
		if isDuplicateKeyError(err, "email") {
			return nil, ErrEmailAlreadyExists
		}
		if isForeignKeyError(err, "role") {
			return nil, ErrRoleNotFound
		}
		u.log.Warnf("Failed to create user: %+v", err)
		return nil, err
	}

	profile := &entity.PatientProfile{
		UserID:      user.ID,
		NationalID:  req.NationalID,
		PhoneNumber: req.PhoneNumber,
		DateOfBirth: dob,
		Gender:      req.Gender,
		BloodType:   req.BloodType,
		Address:     req.Address,
	}

	if err := u.patientProfileRepo.Create(ctx, tx, profile); err != nil {
		if isDuplicateKeyError(err, "national_id") {
			return nil, ErrNationalIDAlreadyExists
		}
		u.log.Warnf("Failed to create patient profile: %+v", err)
		return nil, err
	}

	actor := entity.Actor{UserID: user.ID, Email: user.Email, Role: entity.RolePatient}
	if err := u.auditService.LogCreate(ctx, tx, &actor, entity.AuditActionUserRegister, "users", user.ID.String(), map[string]interface{}{
		"email": user.Email,
		"role":  user.RoleID.String(),
	}); err != nil {
		u.log.Warnf("Failed to write audit log: %+v", err)
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return nil, err
	}

	user.PatientProfile = profile
	return converter.UserToResponse(user), nil
}

func (u *authUsecase) Login(ctx context.Context, req *dto.LoginRequest) (*dto.TokenResponse, error) {
	user, err := u.userRepo.FindByEmail(ctx, u.db, strings.ToLower(strings.TrimSpace(req.Email)))
	if err != nil {
		u.log.Warnf("Failed to find user by email: %+v", err)
		return nil, err
	}
	if user == nil {
		return nil, ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}
	if !user.Active() {
		return nil, ErrUserInactive
	}

	tokens, err := u.issueTokens(ctx, user)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	if err := u.userRepo.UpdateLastLogin(ctx, u.db, user.ID, now); err != nil {
		u.log.Warnf("Failed to update last login for %s: %+v", user.ID, err)
	}
	user.LastLogin = &now

	actor := entity.Actor{UserID: user.ID, Email: user.Email, Role: user.RoleID}
	if err := u.auditService.LogCreate(ctx, u.db, &actor, entity.AuditActionUserLogin, "users", user.ID.String(), nil); err != nil {
		u.log.Warnf("Failed to write audit log: %+v", err)
	}

	if err := u.loadProfile(ctx, user); err != nil {
		return nil, err
	}
	tokens.User = converter.UserToResponse(user)

	u.log.Infof("User logged in: id=%s, role=%s", user.ID, user.RoleID)
	return tokens, nil
}

// Logout revokes the current access token and, when given, the refresh token.
func (u *authUsecase) Logout(ctx context.Context, actor entity.Actor, accessTokenID, refreshToken string) error {
	keys := []string{AccessTokenKey(actor.UserID.String(), accessTokenID)}

	if refreshToken != "" {
		claims, err := u.jwtService.ValidateToken(refreshToken)
		if err == nil && claims.TokenType == jwt.RefreshToken && claims.UserID == actor.UserID {
			keys = append(keys, RefreshTokenKey(claims.UserID.String(), claims.TokenID))
		}
	}

	if err := u.redisClient.Del(ctx, keys...).Err(); err != nil {
		u.log.Warnf("Failed to delete tokens: %+v", err)
		return err
	}

	if err := u.auditService.LogDelete(ctx, u.db, &actor, entity.AuditActionUserLogout, "users", actor.UserID.String(), nil); err != nil {
		u.log.Warnf("Failed to write audit log: %+v", err)
	}
	return nil
}

func (u *authUsecase) RefreshToken(ctx context.Context, req *dto.RefreshTokenRequest) (*dto.TokenResponse, error) {
	claims, err := u.jwtService.ValidateToken(req.RefreshToken)
	if err != nil {
		return nil, ErrInvalidToken
	}

	if claims.TokenType != jwt.RefreshToken {
		return nil, ErrInvalidToken
	}

	refreshKey := RefreshTokenKey(claims.UserID.String(), claims.TokenID)
	deleted, err := u.redisClient.Del(ctx, refreshKey).Result()
	if err != nil {
		u.log.Warnf("Failed to delete old refresh token: %+v", err)
		return nil, err
	}
	// Refresh tokens are single use
	if deleted == 0 {
		return nil, ErrTokenRevoked
	}

	// Reload so role changes and deactivation take effect on refresh
	user, err := u.userRepo.FindByID(ctx, u.db, claims.UserID)
	if err != nil {
		u.log.Warnf("Failed to find user by ID: %+v", err)
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}
	if !user.Active() {
		return nil, ErrUserInactive
	}

	return u.issueTokens(ctx, user)
}

func (u *authUsecase) GetCurrentUser(ctx context.Context, actor entity.Actor) (*dto.UserResponse, error) {
	user, err := u.userRepo.FindByID(ctx, u.db, actor.UserID)
	if err != nil {
		u.log.Warnf("Failed to find user by ID: %+v", err)
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}

	if err := u.loadProfile(ctx, user); err != nil {
		return nil, err
	}
	return converter.UserToResponse(user), nil
}

func (u *authUsecase) ListAdmins(ctx context.Context, actor entity.Actor, page, limit int) (*dto.UserListResponse, error) {
	if !actor.IsAdmin() {
		return nil, ErrForbidden
	}

	page, limit = clampPage(page, limit)
	users, total, err := u.userRepo.FindByRole(ctx, u.db, entity.RoleAdmin, page, limit)
	if err != nil {
		u.log.Warnf("Failed to find admins: %+v", err)
		return nil, err
	}

	responses := make([]dto.UserResponse, 0, len(users))
	for i := range users {
		responses = append(responses, *converter.UserToResponse(&users[i]))
	}
	return &dto.UserListResponse{
		Users: responses,
		Total: total,
		Page:  page,
		Limit: limit,
	}, nil
}

func (u *authUsecase) issueTokens(ctx context.Context, user *entity.User) (*dto.TokenResponse, error) {
	accessToken, accessTokenID, err := u.jwtService.GenerateAccessToken(user)
	if err != nil {
		u.log.Warnf("Failed to generate access token: %+v", err)
		return nil, err
	}

	refreshToken, refreshTokenID, err := u.jwtService.GenerateRefreshToken(user)
	if err != nil {
		u.log.Warnf("Failed to generate refresh token: %+v", err)
		return nil, err
	}

	accessKey := AccessTokenKey(user.ID.String(), accessTokenID)
	refreshKey := RefreshTokenKey(user.ID.String(), refreshTokenID)

	if err := u.redisClient.Set(ctx, accessKey, "valid", u.jwtService.GetAccessExpiry()).Err(); err != nil {
		u.log.Warnf("Failed to store access token in Redis: %+v", err)
		return nil, err
	}

	if err := u.redisClient.Set(ctx, refreshKey, "valid", u.jwtService.GetRefreshExpiry()).Err(); err != nil {
		u.log.Warnf("Failed to store refresh token in Redis: %+v", err)
		return nil, err
	}

	return &dto.TokenResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		ExpiresIn:    int64(u.jwtService.GetAccessExpiry().Seconds()),
	}, nil
}

// loadProfile attaches the role-specific profile to user.
func (u *authUsecase) loadProfile(ctx context.Context, user *entity.User) error {
	switch user.RoleID {
	case entity.RoleDoctor:
		profile, err := u.doctorProfileRepo.FindByUserID(ctx, u.db, user.ID)
		if err != nil {
			u.log.Warnf("Failed to find doctor profile %s: %+v", user.ID, err)
			return err
		}
		user.DoctorProfile = profile
	case entity.RolePatient:
		profile, err := u.patientProfileRepo.FindByUserID(ctx, u.db, user.ID)
		if err != nil {
			u.log.Warnf("Failed to find patient profile %s: %+v", user.ID, err)
			return err
		}
		user.PatientProfile = profile
	case entity.RoleAdmin:
	}
	return nil
}

// RevokeAllUserTokens revokes every token issued to a user, e.g. after a password change or deactivation.
func RevokeAllUserTokens(ctx context.Context, redisClient *redis.Client, log *logrus.Logger, userID string) error {
	for _, prefix := range []string{accessTokenKeyPrefix, refreshTokenKeyPrefix} {
		pattern := fmt.Sprintf("%s:%s:*", prefix, userID)
		keys, err := redisClient.Keys(ctx, pattern).Result()
		if err != nil {
			log.Warnf("Failed to get %s keys: %+v", prefix, err)
			return err
		}
		if len(keys) == 0 {
			continue
		}
		if err := redisClient.Del(ctx, keys...).Err(); err != nil {
			log.Warnf("Failed to delete %s keys: %+v", prefix, err)
			return err
		}
	}
	return nil
}

// isDuplicateKeyError checks if the error is a PostgreSQL unique constraint violation
// containing the specified constraint name
func isDuplicateKeyError(err error, constraintName string) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		// PostgreSQL error code 23505 = unique_violation
		if pgErr.Code == "23505" && strings.Contains(strings.ToLower(pgErr.ConstraintName), strings.ToLower(constraintName)) {
			return true
		}
	}
	return false
}

// isForeignKeyError checks if the error is a PostgreSQL foreign key violation
// containing the specified constraint name
func isForeignKeyError(err error, constraintName string) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		// PostgreSQL error code 23503 = foreign_key_violation
		if pgErr.Code == "23503" && strings.Contains(strings.ToLower(pgErr.ConstraintName), strings.ToLower(constraintName)) {
			return true
		}
	}
	return false
}

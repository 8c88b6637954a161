package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"hospital-appointment/internal/domain/entity"
	"hospital-appointment/internal/repository"

	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var ErrAdminExists = errors.New("a user with this email already exists")

// CreateAdmin inserts an active admin account. Admins cannot register over the API.
func CreateAdmin(ctx context.Context, db *gorm.DB, log *logrus.Logger, email, password, fullName string) (*entity.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		return nil, fmt.Errorf("email and password are required")
	}
	if fullName == "" {
		fullName = "Administrator"
	}

	userRepo := repository.NewUserRepository()

	tx := db.WithContext(ctx).Begin()
	defer tx.Rollback()

	existing, err := userRepo.FindByEmail(ctx, tx, email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrAdminExists
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	active := true
	user := &entity.User{
		RoleID:   entity.RoleAdmin,
		Email:    email,
		Password: string(hashedPassword),
		FullName: fullName,
		IsActive: &active,
	}
	if err := userRepo.Create(ctx, tx, user); err != nil {
		return nil, err
	}

	if err := tx.Commit().Error; err != nil {
		return nil, err
	}

	log.WithField("user_id", user.ID).Info("Admin user created")
	return user, nil
}

package jwt

import (
	"testing"
	"time"

	"hospital-appointment/config"
	"hospital-appointment/internal/domain/entity"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testService(access time.Duration) *JWTService {
	return NewJWTService(config.JWTConfig{
		Secret:        "test-secret",
		Issuer:        "hospital-appointment",
		AccessExpiry:  access,
		RefreshExpiry: time.Hour,
	})
}

func TestGenerateAndValidateAccessToken(t *testing.T) {
	svc := testService(time.Minute)
	user := &entity.User{ID: uuid.New(), Email: "dr@example.com", RoleID: entity.RoleDoctor}

	token, tokenID, err := svc.GenerateAccessToken(user)
	require.NoError(t, err)
	require.NotEmpty(t, tokenID)

	claims, err := svc.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, AccessToken, claims.TokenType)
	assert.Equal(t, tokenID, claims.TokenID)
	assert.Equal(t, entity.Actor{UserID: user.ID, Email: user.Email, Role: entity.RoleDoctor}, claims.Actor())
}

func TestRefreshTokenType(t *testing.T) {
	svc := testService(time.Minute)
	token, _, err := svc.GenerateRefreshToken(&entity.User{ID: uuid.New(), RoleID: entity.RolePatient})
	require.NoError(t, err)

	claims, err := svc.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, RefreshToken, claims.TokenType)
}

func TestValidateToken_Rejects(t *testing.T) {
	svc := testService(time.Minute)
	user := &entity.User{ID: uuid.New(), RoleID: entity.RoleAdmin}

	token, _, err := svc.GenerateAccessToken(user)
	require.NoError(t, err)

	other := NewJWTService(config.JWTConfig{Secret: "other", AccessExpiry: time.Minute})
	_, err = other.ValidateToken(token)
	assert.Error(t, err)

	expired := testService(-time.Minute)
	token, _, err = expired.GenerateAccessToken(user)
	require.NoError(t, err)
	_, err = expired.ValidateToken(token)
	assert.Error(t, err)

	_, err = svc.ValidateToken("not-a-token")
	assert.Error(t, err)
}

func TestValidateToken_RejectsUnknownRole(t *testing.T) {
	svc := testService(time.Minute)
	token, _, err := svc.GenerateAccessToken(&entity.User{ID: uuid.New(), RoleID: entity.Role(42)})
	require.NoError(t, err)

	_, err = svc.ValidateToken(token)
	assert.EqualError(t, err, "invalid role claim")
}

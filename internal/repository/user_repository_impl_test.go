package repository

import (
	"context"
	"regexp"
	"testing"

	"hospital-appointment/internal/domain/entity"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserRepository_FindByRole(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewUserRepository()

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT count(*) FROM "users" WHERE role_id = $1`)).
		WithArgs(entity.RoleAdmin).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(3))
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "users" WHERE role_id = $1 ORDER BY full_name ASC LIMIT`)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "role_id", "email", "full_name"}).
			AddRow(uuid.New().String(), 1, "admin@example.com", "Admin").
			AddRow(uuid.New().String(), 1, "berk@example.com", "Berk"))

	users, total, err := repo.FindByRole(context.Background(), db, entity.RoleAdmin, 1, 2)
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)
	require.Len(t, users, 2)
	assert.Equal(t, entity.RoleAdmin, users[0].RoleID)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepository_SetActive(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewUserRepository()
	id := uuid.New()

	mock.ExpectExec(regexp.QuoteMeta(`UPDATE "users" SET "is_active"=$1`)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	affected, err := repo.SetActive(context.Background(), db, id, false)
	require.NoError(t, err)
	assert.Equal(t, int64(1), affected)
	require.NoError(t, mock.ExpectationsWereMet())
}

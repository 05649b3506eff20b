package repository_test

import (
	"context"
	"regexp"
	"testing"

	"github.com/Vijaypastham/nutranexus-sub000/repository"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func setupMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)

	gormDB, err := gorm.Open(postgres.New(postgres.Config{Conn: db}), &gorm.Config{})
	require.NoError(t, err)
	return gormDB, mock
}

func TestUpdateFields_DoesNotMutateCallerMap(t *testing.T) {
	gormDB, mock := setupMockDB(t)
	repo := repository.NewGormOrderRepository(gormDB)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(`UPDATE "orders"`)).
		WithArgs("shipped", sqlmock.AnyArg(), "NN1234560001").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	updates := map[string]interface{}{"status": "shipped"}
	err := repo.UpdateFields(context.Background(), "NN1234560001", updates)
	require.NoError(t, err)

	// updated_at is added to the statement, not to the caller's map.
	assert.Len(t, updates, 1)
	_, leaked := updates["updated_at"]
	assert.False(t, leaked)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateFields_NotFound(t *testing.T) {
	gormDB, mock := setupMockDB(t)
	repo := repository.NewGormOrderRepository(gormDB)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(`UPDATE "orders"`)).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectCommit()

	err := repo.UpdateFields(context.Background(), "NN0000000000", map[string]interface{}{"status": "shipped"})
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

package services

import (
	"context"
	"errors"
	"testing"

	appContext "hotelparadise/internal/context"
	"hotelparadise/internal/database"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func setupTestDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to create sqlmock: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	gormDB, err := gorm.Open(postgres.New(postgres.Config{
		Conn: db,
	}), &gorm.Config{SkipDefaultTransaction: true})
	if err != nil {
		t.Fatalf("failed to open gorm db: %v", err)
	}

	return gormDB, mock
}

func TestTransactionService_Execute_Success(t *testing.T) {
	gormDB, mock := setupTestDB(t)

	mock.ExpectBegin()
	mock.ExpectCommit()

	service := NewTransactionService(database.NewWithSQL(gormDB))

	called := false
	err := service.Execute(context.Background(), func(ctx context.Context, tx *gorm.DB) error {
		called = true
		_, ok := appContext.GetTransaction(ctx)
		assert.True(t, ok)
		return nil
	})

	assert.NoError(t, err)
	assert.True(t, called)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTransactionService_Execute_RollbackOnError(t *testing.T) {
	gormDB, mock := setupTestDB(t)

	mock.ExpectBegin()
	mock.ExpectRollback()

	service := NewTransactionService(database.NewWithSQL(gormDB))

	expectedError := errors.New("test error")
	err := service.Execute(context.Background(), func(ctx context.Context, tx *gorm.DB) error {
		return expectedError
	})

	assert.Error(t, err)
	assert.Equal(t, expectedError, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTransactionService_Execute_PanicRecovery(t *testing.T) {
	gormDB, mock := setupTestDB(t)

	mock.ExpectBegin()
	mock.ExpectRollback()

	service := NewTransactionService(database.NewWithSQL(gormDB))

	err := service.Execute(context.Background(), func(ctx context.Context, tx *gorm.DB) error {
		panic("test panic")
	})

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "panic during transaction")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTransactionService_Execute_JoinsOuterTransaction(t *testing.T) {
	gormDB, mock := setupTestDB(t)

	mock.ExpectBegin()
	mock.ExpectCommit()

	service := NewTransactionService(database.NewWithSQL(gormDB))

	var outerTx, innerTx *gorm.DB
	err := service.Execute(context.Background(), func(ctx context.Context, tx *gorm.DB) error {
		outerTx = tx
		return service.Execute(ctx, func(ctx context.Context, tx *gorm.DB) error {
			innerTx = tx
			return nil
		})
	})

	assert.NoError(t, err)
	assert.Same(t, outerTx, innerTx)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTransactionService_Execute_AfterCommitHooks(t *testing.T) {
	tests := []struct {
		name      string
		fnErr     error
		expectRan bool
	}{
		{name: "Runs after commit", expectRan: true},
		{name: "Dropped on rollback", fnErr: errors.New("write failed")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gormDB, mock := setupTestDB(t)
			mock.ExpectBegin()
			if tt.fnErr == nil {
				mock.ExpectCommit()
			} else {
				mock.ExpectRollback()
			}

			service := NewTransactionService(database.NewWithSQL(gormDB))

			ran := false
			err := service.Execute(context.Background(), func(ctx context.Context, tx *gorm.DB) error {
				appContext.AfterCommit(ctx, func() { ran = true })
				assert.False(t, ran, "hook must wait for the commit")
				return tt.fnErr
			})

			assert.Equal(t, tt.fnErr, err)
			assert.Equal(t, tt.expectRan, ran)
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestAfterCommit_WithoutTransaction(t *testing.T) {
	ran := false
	appContext.AfterCommit(context.Background(), func() { ran = true })
	assert.True(t, ran)
}

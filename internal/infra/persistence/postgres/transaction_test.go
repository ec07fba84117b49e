package postgres

import (
	"context"
	"testing"

	"accounts/internal/domain/entity"
	"accounts/internal/domain/repository"
	"accounts/internal/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTransactionManager_Commit(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	txManager := NewTransactionManager(db)

	err := txManager.Execute(ctx, func(factory repository.RepositoryFactory) error {
		return factory.AccountRepo().Create(ctx, &entity.Account{Username: "test", PasswordHash: "h", Email: "test@test.com"})
	})
	require.NoError(t, err)

	found, err := NewAccountRepository(db).FindByID(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, "test", found.Username)
}

func TestTransactionManager_RollbackOnError(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	txManager := NewTransactionManager(db)
	businessErr := errors.New("business rule failed")

	err := txManager.Execute(ctx, func(factory repository.RepositoryFactory) error {
		if err := factory.AccountRepo().Create(ctx, &entity.Account{Username: "test", PasswordHash: "h", Email: "test@test.com"}); err != nil {
			return err
		}

		return businessErr
	})
	assert.ErrorIs(t, err, businessErr)

	accounts, err := NewAccountRepository(db).List(ctx)
	require.NoError(t, err)
	assert.Empty(t, accounts)
}

func TestTransactionManager_RollbackOnPanic(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	txManager := NewTransactionManager(db)

	assert.PanicsWithValue(t, "boom", func() {
		_ = txManager.Execute(ctx, func(factory repository.RepositoryFactory) error {
			_ = factory.AccountRepo().Create(ctx, &entity.Account{Username: "test", PasswordHash: "h", Email: "test@test.com"})
			panic("boom")
		})
	})

	accounts, err := NewAccountRepository(db).List(ctx)
	require.NoError(t, err)
	assert.Empty(t, accounts)
}

func TestTransactionManager_LookupThenConditionalWrite(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	repo := NewAccountRepository(db)
	require.NoError(t, repo.Create(ctx, &entity.Account{Username: "test", PasswordHash: "h", Email: "test@test.com"}))

	err := NewTransactionManager(db).Execute(ctx, func(factory repository.RepositoryFactory) error {
		txRepo := factory.AccountRepo()
		account, err := txRepo.FindByID(ctx, 1)
		if err != nil {
			return err
		}
		account.Replace("renamed", "h2", "renamed@test.com", entity.RoleAdmin)

		return txRepo.Update(ctx, account)
	})
	require.NoError(t, err)

	found, err := repo.FindByID(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, "renamed", found.Username)
}

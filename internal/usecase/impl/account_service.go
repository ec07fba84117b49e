// Package impl contains the implementation of the application's business logic.
package impl

import (
	"context"
	"log/slog"
	"sync"

	deliverycontext "accounts/internal/delivery/context"
	"accounts/internal/domain/entity"
	domainerrors "accounts/internal/domain/errors"
	"accounts/internal/domain/repository"
	"accounts/internal/domain/service"
	"accounts/internal/errors"
	"accounts/internal/infra/metrics"
	"accounts/internal/usecase"

	"go.uber.org/fx"
)

// invalidAccountID is returned by CreateAccount alongside an error.
const invalidAccountID = -1

// timingPassword is hashed once and checked against on logins for unknown emails.
const timingPassword = "accounts-login-timing-equaliser"

// accountService implements the AccountUsecase interface.
type accountService struct {
	txManager    repository.TransactionManager
	accountRepo  repository.AccountRepository
	hasher       service.PasswordHasher
	tokenService service.TokenService
	logger       *slog.Logger

	dummyHashMu sync.Mutex
	dummyHash   string
}

// AccountServiceParams holds dependencies for AccountService, injected by Fx.
type AccountServiceParams struct {
	fx.In

	TxManager    repository.TransactionManager
	AccountRepo  repository.AccountRepository
	Hasher       service.PasswordHasher
	TokenService service.TokenService
	Logger       *slog.Logger
}

// NewAccountService is the constructor for accountService.
func NewAccountService(params AccountServiceParams) usecase.AccountUsecase {
	return &accountService{
		txManager:    params.TxManager,
		accountRepo:  params.AccountRepo,
		hasher:       params.Hasher,
		tokenService: params.TokenService,
		logger:       params.Logger,
	}
}

func (srv *accountService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

// CreateAccount hashes the password and persists the account. Nothing is stored when hashing fails.
func (srv *accountService) CreateAccount(ctx context.Context, input *usecase.CreateAccountInput) (id int, err error) {
	defer func() { metrics.RecordOperation(metrics.OperationCreate, err) }()

	passwordHash, err := srv.hasher.Hash(input.Password)
	if err != nil {
		srv.log(ctx).Error("Failed to hash password", slog.Any("error", err))

		return invalidAccountID, errors.Join(domainerrors.ErrPasswordHashFailed, err)
	}

	account := &entity.Account{
		Username:     input.Username,
		PasswordHash: passwordHash,
		Email:        input.Email,
		Role:         entity.Role(input.Role),
	}
	if err := srv.accountRepo.Create(ctx, account); err != nil {
		srv.log(ctx).Error("Failed to create account", slog.String("email", input.Email), slog.Any("error", err))

		return invalidAccountID, toAppError(err, domainerrors.ErrAccountCreationFailed)
	}

	srv.log(ctx).Info("Account created", slog.Int("userID", account.ID))

	return account.ID, nil
}

// GetAccount returns the public projection of the account with id.
func (srv *accountService) GetAccount(ctx context.Context, id int) (output *usecase.AccountOutput, err error) {
	defer func() { metrics.RecordOperation(metrics.OperationGet, err) }()

	account, err := srv.accountRepo.FindByID(ctx, id)
	if err != nil {
		if !errors.Is(err, repository.ErrAccountNotFound) {
			srv.log(ctx).Error("Failed to get account", slog.Int("userID", id), slog.Any("error", err))
		}

		return nil, toAppError(err, domainerrors.ErrInternalError)
	}

	return usecase.NewAccountOutput(account), nil
}

// UpdateAccount replaces every mutable field of the account with id.
// The lookup and the write share one transaction and the write is restricted to id.
func (srv *accountService) UpdateAccount(ctx context.Context, id int, input *usecase.UpdateAccountInput) (err error) {
	defer func() { metrics.RecordOperation(metrics.OperationUpdate, err) }()

	passwordHash, err := srv.hasher.Hash(input.Password)
	if err != nil {
		srv.log(ctx).Error("Failed to hash password", slog.Int("userID", id), slog.Any("error", err))

		return errors.Join(domainerrors.ErrPasswordHashFailed, err)
	}

	err = srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		accountRepo := repoFactory.AccountRepo()

		account, err := accountRepo.FindByID(ctx, id)
		if err != nil {
			return err
		}

		account.Replace(input.Username, passwordHash, input.Email, entity.Role(input.Role))

		return accountRepo.Update(ctx, account)
	})
	if err != nil {
		srv.log(ctx).Warn("Failed to update account", slog.Int("userID", id), slog.Any("error", err))

		return toAppError(err, domainerrors.ErrAccountUpdateFailed)
	}

	srv.log(ctx).Info("Account updated", slog.Int("userID", id))

	return nil
}

// DeleteAccount removes the account with id. A missing id never reaches the delete statement.
func (srv *accountService) DeleteAccount(ctx context.Context, id int) (err error) {
	defer func() { metrics.RecordOperation(metrics.OperationDelete, err) }()

	err = srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		accountRepo := repoFactory.AccountRepo()

		if _, err := accountRepo.FindByID(ctx, id); err != nil {
			return err
		}

		return accountRepo.DeleteByID(ctx, id)
	})
	if err != nil {
		srv.log(ctx).Warn("Failed to delete account", slog.Int("userID", id), slog.Any("error", err))

		return toAppError(err, domainerrors.ErrAccountDeleteFailed)
	}

	srv.log(ctx).Info("Account deleted", slog.Int("userID", id))

	return nil
}

// ListAccounts returns every account in store order. An empty store is not an error.
func (srv *accountService) ListAccounts(ctx context.Context) (outputs []*usecase.AccountOutput, err error) {
	defer func() { metrics.RecordOperation(metrics.OperationList, err) }()

	accounts, err := srv.accountRepo.List(ctx)
	if err != nil {
		srv.log(ctx).Error("Failed to list accounts", slog.Any("error", err))

		return nil, toAppError(err, domainerrors.ErrAccountListFailed)
	}
	if accounts == nil {
		return nil, domainerrors.ErrNoAccountsFound
	}

	outputs = make([]*usecase.AccountOutput, 0, len(accounts))
	for _, account := range accounts {
		outputs = append(outputs, usecase.NewAccountOutput(account))
	}

	return outputs, nil
}

// Login verifies the credentials and issues a session token.
// Unknown emails and wrong passwords fail identically.
func (srv *accountService) Login(ctx context.Context, input *usecase.LoginInput) (output *usecase.LoginOutput, err error) {
	defer func() { metrics.RecordOperation(metrics.OperationLogin, err) }()

	account, err := srv.accountRepo.FindByEmail(ctx, input.Email)
	switch {
	case errors.Is(err, repository.ErrAccountNotFound):
		srv.hasher.Check(input.Password, srv.timingHash(ctx))
		srv.log(ctx).Warn("Login failed", slog.String("email", input.Email), slog.Any("error", domainerrors.ErrInvalidCredentials))

		return nil, domainerrors.ErrInvalidCredentials
	case err != nil:
		srv.log(ctx).Error("Failed to load account for login", slog.String("email", input.Email), slog.Any("error", err))

		return nil, toAppError(err, domainerrors.ErrInternalError)
	}

	if !srv.hasher.Check(input.Password, account.PasswordHash) {
		srv.log(ctx).Warn("Login failed", slog.String("email", input.Email), slog.Any("error", domainerrors.ErrInvalidCredentials))

		return nil, domainerrors.ErrInvalidCredentials
	}

	token, err := srv.tokenService.IssueToken(account.Username, account.ID, account.Role.String())
	if err != nil {
		srv.log(ctx).Error("Failed to issue token", slog.Int("userID", account.ID), slog.Any("error", err))

		return nil, errors.Join(domainerrors.ErrTokenIssueFailed, err)
	}

	srv.log(ctx).Info("Login successful", slog.Int("userID", account.ID))

	return &usecase.LoginOutput{Token: service.BearerScheme + token}, nil
}

// timingHash lazily builds a hash for the unknown-email path so both login failures run bcrypt.
// A failed build is retried on the next call.
func (srv *accountService) timingHash(ctx context.Context) string {
	srv.dummyHashMu.Lock()
	defer srv.dummyHashMu.Unlock()

	if srv.dummyHash != "" {
		return srv.dummyHash
	}

	hash, err := srv.hasher.Hash(timingPassword)
	if err != nil {
		srv.log(ctx).Warn("Failed to prepare login timing hash", slog.Any("error", err))

		return ""
	}
	srv.dummyHash = hash

	return hash
}

// toAppError converts repository failures into domain errors. Not-found and conflicts keep their
// meaning; anything else becomes fallback joined with the cause.
func toAppError(err error, fallback *domainerrors.BaseError) error {
	switch {
	case errors.Is(err, repository.ErrAccountNotFound):
		return domainerrors.ErrAccountNotFound.WrapMessage(err.Error())
	case errors.Is(err, domainerrors.ErrAccountNotFound),
		errors.Is(err, domainerrors.ErrAccountAlreadyExists):
		return err
	default:
		return errors.Join(fallback, err)
	}
}

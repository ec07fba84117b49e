// Package usecase contains the application-specific business rules.
// It orchestrates the domain layer to perform tasks.
package usecase

import (
	"context"

	"accounts/internal/domain/entity"
)

// --- Input DTOs ---

// CreateAccountInput defines the data required to create an account.
type CreateAccountInput struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Role     string `json:"role" validate:"required"`
}

// UpdateAccountInput replaces every mutable field of an account. The password is always re-hashed.
type UpdateAccountInput struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Role     string `json:"role" validate:"required"`
}

// LoginInput defines the data required for a user to log in.
type LoginInput struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// --- Output DTOs ---

// AccountOutput is the public projection of an account. It never carries the password hash.
type AccountOutput struct {
	UserID   int    `json:"userID"`
	Username string `json:"username"`
	Email    string `json:"email"`
	Role     string `json:"role"`
}

// LoginOutput carries the session token, already prefixed with "Bearer ".
type LoginOutput struct {
	Token string `json:"token"`
}

// NewAccountOutput projects an account entity.
func NewAccountOutput(account *entity.Account) *AccountOutput {
	return &AccountOutput{
		UserID:   account.ID,
		Username: account.Username,
		Email:    account.Email,
		Role:     account.Role.String(),
	}
}

// AccountUsecase defines the account operations exposed to the delivery layer.
type AccountUsecase interface {
	// CreateAccount stores a new account and returns its id, or -1 with an error.
	CreateAccount(ctx context.Context, input *CreateAccountInput) (int, error)
	GetAccount(ctx context.Context, id int) (*AccountOutput, error)
	UpdateAccount(ctx context.Context, id int, input *UpdateAccountInput) error
	DeleteAccount(ctx context.Context, id int) error
	ListAccounts(ctx context.Context) ([]*AccountOutput, error)
	Login(ctx context.Context, input *LoginInput) (*LoginOutput, error)
}

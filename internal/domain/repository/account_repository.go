// Package repository defines the interfaces for the persistence layer.
// These interfaces act as a contract between the domain/application layers and the infrastructure layer.
package repository

import (
	"context"
	"errors"

	"accounts/internal/domain/entity"
)

// ErrAccountNotFound is returned when no row matches the requested id or email.
var ErrAccountNotFound = errors.New("account not found")

// AccountRepository defines the persistence operations for accounts.
type AccountRepository interface {
	// FindByID retrieves a single account by id.
	FindByID(ctx context.Context, id int) (*entity.Account, error)

	// FindByEmail retrieves the first account registered with email.
	FindByEmail(ctx context.Context, email string) (*entity.Account, error)

	// Create persists a new account and sets its store-assigned ID.
	Create(ctx context.Context, account *entity.Account) error

	// Update rewrites the mutable fields of an existing account.
	// It never inserts; ErrAccountNotFound is returned when the id has no row.
	Update(ctx context.Context, account *entity.Account) error

	// DeleteByID removes the account with the given id.
	// ErrAccountNotFound is returned when the id has no row.
	DeleteByID(ctx context.Context, id int) error

	// List returns every account in store order.
	List(ctx context.Context) ([]*entity.Account, error)
}

// Package repository defines the interfaces for the persistence layer.
// These interfaces act as a contract between the domain/application layers and the infrastructure layer.
package repository

import (
	"context"
	"errors"

	"identity/internal/domain/entity"
)

// Domain-specific errors for account persistence.
// This allows the application layer to handle specific outcomes without depending on database-specific errors.
var (
	// ErrAccountNotFound is returned when no active account matches a lookup.
	ErrAccountNotFound = errors.New("account not found")
	// ErrEmailTaken is returned when creating an account whose normalized
	// email already belongs to an active account. The store enforces this
	// with a partial unique index, so a race between two concurrent creates
	// resolves to exactly one success and one ErrEmailTaken.
	ErrEmailTaken = errors.New("email already registered")
)

// AccountRepository defines the standard operations for account persistence.
// Every lookup is implicitly scoped to active accounts: soft-deleted records
// are invisible to all read paths.
type AccountRepository interface {
	// FindByEmail retrieves a single active account by its normalized email.
	FindByEmail(ctx context.Context, email string) (*entity.Account, error)

	// FindByID retrieves a single active account by its unique ID.
	FindByID(ctx context.Context, id uint) (*entity.Account, error)

	// Create persists a new account. The store assigns ID, CreatedAt and
	// UpdatedAt and writes them back onto the entity.
	Create(ctx context.Context, account *entity.Account) error

	// SoftDelete flips IsActive to false and refreshes UpdatedAt for the
	// active account matching id. It reports false when no active account
	// matched, which makes repeated calls a safe no-op.
	SoftDelete(ctx context.Context, id uint) (bool, error)
}
